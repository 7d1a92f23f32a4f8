// Package domain holds the validated value objects accepted at trust
// boundaries (HTTP requests, console input). Parsers return
// domain-errors with CodeInvalidInput and a field-prefixed message.
package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"fiscalcode/internal/fiscalcode"
	dErrors "fiscalcode/pkg/domain-errors"
)

// Minimum accepted lengths for raw personal data.
const (
	MinGivenNameLength        = 3
	MinFamilyNameLength       = 2
	MinMunicipalityNameLength = 2
	maxNameLength             = 64

	// MinBirthYear is the earliest accepted year of birth.
	MinBirthYear = 1900
	maxBirthYear = 9999
)

// GivenName is a validated, alphabetic given name.
type GivenName string

// FamilyName is a validated, alphabetic family name.
type FamilyName string

// MunicipalityName is a validated municipality of birth, matched verbatim
// against the cadastral registry.
type MunicipalityName string

func (n GivenName) String() string        { return string(n) }
func (n FamilyName) String() string       { return string(n) }
func (n MunicipalityName) String() string { return string(n) }

// ParseGivenName trims s and requires at least MinGivenNameLength letters.
func ParseGivenName(s string) (GivenName, error) {
	v, err := parseAlpha("given_name", s, MinGivenNameLength)
	return GivenName(v), err
}

// ParseFamilyName trims s and requires at least MinFamilyNameLength letters.
func ParseFamilyName(s string) (FamilyName, error) {
	v, err := parseAlpha("family_name", s, MinFamilyNameLength)
	return FamilyName(v), err
}

func parseAlpha(field, s string, minLen int) (string, error) {
	s = strings.TrimSpace(s)
	if !govalidator.StringLength(s, strconv.Itoa(minLen), strconv.Itoa(maxNameLength)) {
		return "", invalid(field, "must be between %d and %d characters", minLen, maxNameLength)
	}
	if !govalidator.IsAlpha(s) {
		return "", invalid(field, "must contain only letters")
	}
	return s, nil
}

// ParseMunicipalityName trims s. Letters are required; spaces, apostrophes
// and hyphens are allowed between them ("Reggio Emilia", "Sant'Angelo").
func ParseMunicipalityName(s string) (MunicipalityName, error) {
	const field = "municipality"
	s = strings.TrimSpace(s)
	if !govalidator.StringLength(s, strconv.Itoa(MinMunicipalityNameLength), strconv.Itoa(maxNameLength)) {
		return "", invalid(field, "must be between %d and %d characters", MinMunicipalityNameLength, maxNameLength)
	}
	letters := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\'', '-':
			return -1
		}
		return r
	}, s)
	if letters == "" || !govalidator.IsAlpha(letters) {
		return "", invalid(field, "must contain only letters, spaces, apostrophes or hyphens")
	}
	return MunicipalityName(s), nil
}

// ParseSex accepts "M" or "F" in either case.
func ParseSex(s string) (fiscalcode.Sex, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M":
		return fiscalcode.Male, nil
	case "F":
		return fiscalcode.Female, nil
	default:
		return 0, invalid("sex", "must be M or F")
	}
}

// NewBirthDate validates a calendar date no earlier than MinBirthYear.
func NewBirthDate(year, month, day int) (fiscalcode.BirthDate, error) {
	if year < MinBirthYear || year > maxBirthYear {
		return fiscalcode.BirthDate{}, invalid("birth_date", "year must be between %d and %d", MinBirthYear, maxBirthYear)
	}
	if month < 1 || month > 12 {
		return fiscalcode.BirthDate{}, invalid("birth_date", "month must be between 1 and 12")
	}
	if maxDay := DaysInMonth(year, month); day < 1 || day > maxDay {
		return fiscalcode.BirthDate{}, invalid("birth_date", "day must be between 1 and %d", maxDay)
	}
	return fiscalcode.BirthDate{Day: day, Month: month, Year: year}, nil
}

// ParseBirthDate parses YYYY-MM-DD.
func ParseBirthDate(s string) (fiscalcode.BirthDate, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return fiscalcode.BirthDate{}, invalid("birth_date", "must be formatted as YYYY-MM-DD")
	}
	return NewBirthDate(t.Year(), int(t.Month()), t.Day())
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days of month in year.
func DaysInMonth(year, month int) int {
	switch month {
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// Person is the validated input tuple of a fiscal code computation.
type Person struct {
	GivenName    GivenName
	FamilyName   FamilyName
	Sex          fiscalcode.Sex
	BirthDate    fiscalcode.BirthDate
	Municipality MunicipalityName
}

// NewPerson validates every raw field and returns the first failure.
func NewPerson(givenName, familyName, sex, birthDate, municipality string) (Person, error) {
	given, err := ParseGivenName(givenName)
	if err != nil {
		return Person{}, err
	}
	family, err := ParseFamilyName(familyName)
	if err != nil {
		return Person{}, err
	}
	s, err := ParseSex(sex)
	if err != nil {
		return Person{}, err
	}
	date, err := ParseBirthDate(birthDate)
	if err != nil {
		return Person{}, err
	}
	place, err := ParseMunicipalityName(municipality)
	if err != nil {
		return Person{}, err
	}
	return Person{
		GivenName:    given,
		FamilyName:   family,
		Sex:          s,
		BirthDate:    date,
		Municipality: place,
	}, nil
}

// Subject drops the municipality, which the encoders never see.
func (p Person) Subject() fiscalcode.Subject {
	return fiscalcode.Subject{
		GivenName:  string(p.GivenName),
		FamilyName: string(p.FamilyName),
		Sex:        p.Sex,
		BirthDate:  p.BirthDate,
	}
}

func invalid(field, format string, args ...any) error {
	return dErrors.New(dErrors.CodeInvalidInput, field+": "+fmt.Sprintf(format, args...))
}
