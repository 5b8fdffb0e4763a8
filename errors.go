package aegis

import "errors"

var (
	// ErrMissingFields is an exported constant or variable used by the authentication engine.
	ErrMissingFields = errors.New("missing required fields")
	// ErrEmailExists is an exported constant or variable used by the authentication engine.
	ErrEmailExists = errors.New("email already registered")
	// ErrInvalidCredentials is an exported constant or variable used by the authentication engine.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound is an exported constant or variable used by the authentication engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyVerified is an exported constant or variable used by the authentication engine.
	ErrAlreadyVerified = errors.New("account is already verified")
	// ErrOTPInvalid is an exported constant or variable used by the authentication engine.
	ErrOTPInvalid = errors.New("invalid otp")
	// ErrOTPExpired is an exported constant or variable used by the authentication engine.
	ErrOTPExpired = errors.New("otp expired")
	// ErrTokenInvalid is an exported constant or variable used by the authentication engine.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is an exported constant or variable used by the authentication engine.
	ErrTokenExpired = errors.New("token expired")
	// ErrUnauthorized is an exported constant or variable used by the authentication engine.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMailUnavailable is an exported constant or variable used by the authentication engine.
	ErrMailUnavailable = errors.New("mail transport unavailable")
	// ErrStoreUnavailable is an exported constant or variable used by the authentication engine.
	ErrStoreUnavailable = errors.New("credential store unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
