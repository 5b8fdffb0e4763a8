package internaldefs

import (
	aegis "github.com/aegisauth/aegis"
)

// CounterDef defines a public type used by aegis APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   aegis.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authentication engine.
var CounterDefs = []CounterDef{
	{ID: aegis.MetricRegisterSuccess, Name: "aegis_register_success_total", Help: "Successful registrations."},
	{ID: aegis.MetricRegisterDuplicate, Name: "aegis_register_duplicate_total", Help: "Registrations rejected as duplicate email."},
	{ID: aegis.MetricRegisterFailure, Name: "aegis_register_failure_total", Help: "Failed registrations."},
	{ID: aegis.MetricLoginSuccess, Name: "aegis_login_success_total", Help: "Successful login attempts."},
	{ID: aegis.MetricLoginFailure, Name: "aegis_login_failure_total", Help: "Failed login attempts."},
	{ID: aegis.MetricTokenIssued, Name: "aegis_token_issued_total", Help: "Issued session tokens."},
	{ID: aegis.MetricTokenRejected, Name: "aegis_token_rejected_total", Help: "Rejected session tokens."},
	{ID: aegis.MetricVerifyOTPSent, Name: "aegis_verify_otp_sent_total", Help: "Dispatched account verification passcodes."},
	{ID: aegis.MetricVerifySuccess, Name: "aegis_verify_success_total", Help: "Successful account verifications."},
	{ID: aegis.MetricVerifyFailure, Name: "aegis_verify_failure_total", Help: "Failed account verifications."},
	{ID: aegis.MetricResetOTPSent, Name: "aegis_reset_otp_sent_total", Help: "Dispatched password reset passcodes."},
	{ID: aegis.MetricResetSuccess, Name: "aegis_reset_success_total", Help: "Successful password resets."},
	{ID: aegis.MetricResetFailure, Name: "aegis_reset_failure_total", Help: "Failed password resets."},
	{ID: aegis.MetricWelcomeMailDropped, Name: "aegis_welcome_mail_dropped_total", Help: "Welcome messages dropped after delivery failure."},
}
