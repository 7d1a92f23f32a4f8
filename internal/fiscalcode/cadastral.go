package fiscalcode

import (
	"errors"
	"fmt"
)

// CadastralFragmentLength is the length of a municipality cadastral code.
const CadastralFragmentLength = 4

// ErrInvalidCadastralCode is returned by ParseCadastralCode for malformed input.
var ErrInvalidCadastralCode = errors.New("invalid cadastral code")

// CadastralCode identifies a municipality: one upper-case letter followed by
// three digits (e.g. "F205" for Milano).
type CadastralCode string

// ParseCadastralCode validates s and returns it as a CadastralCode. Lower-case
// letters are accepted and upper-cased.
func ParseCadastralCode(s string) (CadastralCode, error) {
	if len(s) != CadastralFragmentLength {
		return "", fmt.Errorf("%w: %q must be %d characters", ErrInvalidCadastralCode, s, CadastralFragmentLength)
	}
	first := toUpper(rune(s[0]))
	if first < 'A' || first > 'Z' {
		return "", fmt.Errorf("%w: %q must start with a letter", ErrInvalidCadastralCode, s)
	}
	for i := 1; i < CadastralFragmentLength; i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", fmt.Errorf("%w: %q must end with three digits", ErrInvalidCadastralCode, s)
		}
	}
	return CadastralCode(string(first) + s[1:]), nil
}

func (c CadastralCode) String() string {
	return string(c)
}
