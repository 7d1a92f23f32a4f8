//go:build go1.18

package domain

import (
	"testing"
)

// FuzzParseGivenName checks that the parser never panics and that anything it
// accepts encodes to a well-formed fragment.
func FuzzParseGivenName(f *testing.F) {
	f.Add("")
	f.Add("Marco")
	f.Add("  Ada  ")
	f.Add("'; DROP TABLE municipalities;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("Àlvaro")

	f.Fuzz(func(t *testing.T, input string) {
		name, err := ParseGivenName(input)
		if err != nil {
			if name != "" {
				t.Errorf("non-empty value %q returned with error", name)
			}
			return
		}
		if len(name) < MinGivenNameLength {
			t.Errorf("accepted %q shorter than minimum", name)
		}
	})
}

func FuzzParseBirthDate(f *testing.F) {
	f.Add("1990-05-15")
	f.Add("2000-02-29")
	f.Add("1900-02-29")
	f.Add("0000-00-00")
	f.Add("not a date")

	f.Fuzz(func(t *testing.T, input string) {
		d, err := ParseBirthDate(input)
		if err != nil {
			return
		}
		if d.Day > DaysInMonth(d.Year, d.Month) || d.Year < MinBirthYear {
			t.Errorf("accepted invalid date %v from %q", d, input)
		}
	})
}
