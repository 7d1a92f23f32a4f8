package fiscalcode

// Length is the length of a complete fiscal code.
const Length = BodyLength + 1

// FiscalCode is a complete 16-character code. It is only built by Compose or
// Encode and never mutated.
type FiscalCode string

func (f FiscalCode) String() string {
	return string(f)
}

// Fragments splits the code back into its components.
func (f FiscalCode) Fragments() Fragments {
	s := string(f)
	if len(s) != Length {
		return Fragments{}
	}
	return Fragments{
		Surname:   s[0:3],
		Name:      s[3:6],
		Birth:     s[6:11],
		Cadastral: s[11:15],
		Check:     s[15:16],
	}
}

// Fragments are the fixed-length segments of a fiscal code.
type Fragments struct {
	Surname   string `json:"surname"`
	Name      string `json:"name"`
	Birth     string `json:"birth"`
	Cadastral string `json:"cadastral"`
	Check     string `json:"check"`
}

// Compose concatenates the fragments in surname, name, birth, cadastral order
// and appends the check character. Fragment lengths are trusted.
func Compose(surname, name, birth string, cadastral CadastralCode) FiscalCode {
	body := surname + name + birth + string(cadastral)
	return FiscalCode(body + string(CheckCharacter(body)))
}

// Subject is the validated input of a single encoding run.
type Subject struct {
	GivenName  string
	FamilyName string
	Sex        Sex
	BirthDate  BirthDate
}

// Encode runs the four encoders over s and composes the final code.
func Encode(s Subject, cadastral CadastralCode) FiscalCode {
	return Compose(
		EncodeSurname(s.FamilyName),
		EncodeName(s.GivenName),
		EncodeBirth(s.BirthDate, s.Sex),
		cadastral,
	)
}
