// Package handlers implements the JSON endpoints of the authentication API.
// Every response uses the {success, message} envelope.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	aegis "github.com/aegisauth/aegis"
)

func respondOK(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message})
}

func respondMissing(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

// respondEngineError maps engine sentinels to envelope responses. The
// already-verified case keeps status 200 with success false; other client
// errors use 400, auth failures 401, everything else 500.
func respondEngineError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	message := ""

	switch {
	case errors.Is(err, aegis.ErrMissingFields):
		message = "Missing Details"
	case errors.Is(err, aegis.ErrEmailExists):
		message = "User Already Exists"
	case errors.Is(err, aegis.ErrInvalidCredentials):
		message = "Invalid email or password"
	case errors.Is(err, aegis.ErrUserNotFound):
		message = "User not found"
	case errors.Is(err, aegis.ErrAlreadyVerified):
		status = http.StatusOK
		message = "Account is already verified"
	case errors.Is(err, aegis.ErrOTPInvalid):
		message = "Invalid OTP"
	case errors.Is(err, aegis.ErrOTPExpired):
		message = "OTP Expired"
	case errors.Is(err, aegis.ErrTokenExpired),
		errors.Is(err, aegis.ErrTokenInvalid),
		errors.Is(err, aegis.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = "Not Authorized. Login Again"
	default:
		status = http.StatusInternalServerError
		message = "Something went wrong. Please try again"
	}

	c.JSON(status, gin.H{"success": false, "message": message})
}
