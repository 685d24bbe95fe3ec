package sms

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// ErrInvalidPhone el número no es un móvil de Ruanda.
var ErrInvalidPhone = errors.New("sms: número de teléfono inválido")

const (
	countryCode   = "250"
	defaultRegion = "RW"
)

var (
	nonDigits     = regexp.MustCompile(`\D`)
	localMobileRe = regexp.MustCompile(`^7[2-9]\d{7}$`)
)

// NormalizePhone convierte 0788 123 456, +250788123456 o 250788123456 en el MSISDN 250788123456.
func NormalizePhone(raw string) (string, error) {
	digits := nonDigits.ReplaceAllString(raw, "")
	digits = strings.TrimPrefix(digits, countryCode)
	digits = strings.TrimPrefix(digits, "0")
	if !localMobileRe.MatchString(digits) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	num, err := libphonenumber.Parse("+"+countryCode+digits, defaultRegion)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	return strings.TrimPrefix(libphonenumber.Format(num, libphonenumber.E164), "+"), nil
}
