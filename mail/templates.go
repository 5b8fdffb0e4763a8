package mail

import (
	"fmt"
	"html/template"
	"strings"
)

const (
	// SubjectWelcome is an exported constant or variable used by the mail package.
	SubjectWelcome = "Welcome to Aegis"
	// SubjectVerifyOTP is an exported constant or variable used by the mail package.
	SubjectVerifyOTP = "Account Verification OTP"
	// SubjectResetOTP is an exported constant or variable used by the mail package.
	SubjectResetOTP = "Password Reset OTP"
)

var verifyTemplate = template.Must(template.New("verify").Parse(`<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto;">
  <h2>Verify your account</h2>
  <p>Your account <strong>{{.Email}}</strong> is almost ready.</p>
  <p>Use the following one-time passcode to verify your account. It expires in 24 hours.</p>
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.OTP}}</p>
  <p>If you did not create this account, you can ignore this message.</p>
</div>`))

var resetTemplate = template.Must(template.New("reset").Parse(`<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto;">
  <h2>Reset your password</h2>
  <p>We received a password reset request for <strong>{{.Email}}</strong>.</p>
  <p>Use the following one-time passcode to proceed. It expires in 15 minutes.</p>
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.OTP}}</p>
  <p>If you did not request a reset, no action is needed.</p>
</div>`))

type otpData struct {
	Email string
	OTP   string
}

// WelcomeBody describes the welcomebody operation and its observable behavior.
func WelcomeBody(email string) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto;">
  <h2>Welcome</h2>
  <p>Your account has been created with the email <strong>%s</strong>.</p>
</div>`, template.HTMLEscapeString(email))
}

// VerifyOTPBody describes the verifyotpbody operation and its observable behavior.
//
// VerifyOTPBody may return an error when input validation, dependency calls, or security checks fail.
func VerifyOTPBody(email, otp string) (string, error) {
	return renderOTP(verifyTemplate, email, otp)
}

// ResetOTPBody describes the resetotpbody operation and its observable behavior.
//
// ResetOTPBody may return an error when input validation, dependency calls, or security checks fail.
func ResetOTPBody(email, otp string) (string, error) {
	return renderOTP(resetTemplate, email, otp)
}

func renderOTP(t *template.Template, email, otp string) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, otpData{Email: email, OTP: otp}); err != nil {
		return "", fmt.Errorf("mail: render template: %w", err)
	}
	return b.String(), nil
}
