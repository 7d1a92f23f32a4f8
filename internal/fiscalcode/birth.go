package fiscalcode

import "fmt"

// BirthFragmentLength is the length of the year/month/day+sex fragment.
const BirthFragmentLength = 5

// femaleDayOffset is added to the day of month for female subjects.
const femaleDayOffset = 40

// monthLetters maps month numbers 1..12 to their letter. Index 0 is unused.
var monthLetters = [13]byte{0, 'A', 'B', 'C', 'D', 'E', 'H', 'L', 'M', 'P', 'R', 'S', 'T'}

// Sex is the subject's sex as encoded in the day field.
type Sex int

const (
	Male Sex = iota + 1
	Female
)

// String returns "M" or "F".
func (s Sex) String() string {
	switch s {
	case Male:
		return "M"
	case Female:
		return "F"
	default:
		return "unknown"
	}
}

// IsValid reports whether s is Male or Female.
func (s Sex) IsValid() bool {
	return s == Male || s == Female
}

// BirthDate is a calendar-valid date of birth. Construction and validation
// belong to pkg/domain; the encoders trust the value.
type BirthDate struct {
	Day   int
	Month int
	Year  int
}

// String formats the date as YYYY-MM-DD.
func (d BirthDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MonthLetter returns the letter encoding month (1..12).
func MonthLetter(month int) byte {
	return monthLetters[month]
}

// EncodeBirth returns YY + month letter + DD, with 40 added to the day for
// female subjects.
func EncodeBirth(date BirthDate, sex Sex) string {
	day := date.Day
	if sex == Female {
		day += femaleDayOffset
	}
	return fmt.Sprintf("%02d%c%02d", date.Year%100, MonthLetter(date.Month), day)
}
