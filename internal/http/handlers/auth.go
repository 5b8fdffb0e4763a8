package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	aegis "github.com/aegisauth/aegis"
	"github.com/aegisauth/aegis/internal/http/middleware"
)

type AuthHandler struct {
	engine  *aegis.Engine
	cookies *CookieWriter
}

func NewAuthHandler(engine *aegis.Engine, cookies *CookieWriter) *AuthHandler {
	return &AuthHandler{engine: engine, cookies: cookies}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyAccountRequest struct {
	OTP string `json:"otp"`
}

type SendResetOTPRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMissing(c, "Missing Details")
		return
	}

	token, err := h.engine.Register(c.Request.Context(), aegis.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	h.cookies.Set(c, token)
	respondOK(c, "Registration Successful")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMissing(c, "Email and password are required")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondMissing(c, "Email and password are required")
		return
	}

	token, err := h.engine.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	h.cookies.Set(c, token)
	respondOK(c, "Login Successful")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	respondOK(c, "Logout Successful")
}

func (h *AuthHandler) SendVerifyOTP(c *gin.Context) {
	userID := c.GetString(middleware.UserIDKey)

	if err := h.engine.SendVerifyOTP(c.Request.Context(), userID); err != nil {
		respondEngineError(c, err)
		return
	}

	respondOK(c, "OTP sent to your email for account verification")
}

func (h *AuthHandler) VerifyAccount(c *gin.Context) {
	var req VerifyAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMissing(c, "Missing Details")
		return
	}
	userID := c.GetString(middleware.UserIDKey)

	if err := h.engine.VerifyAccount(c.Request.Context(), userID, req.OTP); err != nil {
		respondEngineError(c, err)
		return
	}

	respondOK(c, "Account Verified Successfully")
}

func (h *AuthHandler) IsAuth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User is authenticated"})
}

func (h *AuthHandler) SendResetOTP(c *gin.Context) {
	var req SendResetOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		respondMissing(c, "Email is required")
		return
	}

	if err := h.engine.SendResetOTP(c.Request.Context(), req.Email); err != nil {
		respondEngineError(c, err)
		return
	}

	respondOK(c, "Password reset OTP sent to your email")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMissing(c, "Missing Details")
		return
	}

	if err := h.engine.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		respondEngineError(c, err)
		return
	}

	respondOK(c, "Password Reset Successfully")
}
