package internal

import (
	"crypto/rand"
	"math/big"
)

// otpRange covers the 6-digit decimal space [100000, 999999].
var (
	otpSpan = big.NewInt(900000)
	otpBase = int64(100000)
)

// OTPDigits is the fixed width of every generated passcode.
const OTPDigits = 6

// NewOTP returns a uniformly random 6-digit decimal passcode drawn from
// crypto/rand. The first digit is never zero, so the string length is
// always exactly OTPDigits.
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpSpan)
	if err != nil {
		return "", err
	}
	v := n.Int64() + otpBase

	buf := [OTPDigits]byte{}
	for i := OTPDigits - 1; i >= 0; i-- {
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[:]), nil
}
