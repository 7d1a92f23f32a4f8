package fiscalcode

const (
	// NameFragmentLength is the length of both the name and surname fragments.
	NameFragmentLength = 3

	// Filler pads a name fragment when the source has too few letters.
	Filler = 'X'
)

// EncodeSurname returns the 3-character surname fragment: the first three
// consonants, then vowels, then Filler padding.
func EncodeSurname(surname string) string {
	return encodeFragment(surname, firstConsonants(surname))
}

// EncodeName returns the 3-character given-name fragment. It differs from
// EncodeSurname only when the name has four or more consonants: then the
// 1st, 3rd and 4th consonants are taken and the 2nd is skipped.
func EncodeName(name string) string {
	consonants := consonantsOf(name)
	if len(consonants) >= 4 {
		consonants = []rune{consonants[0], consonants[2], consonants[3]}
	}
	return encodeFragment(name, consonants)
}

func firstConsonants(s string) []rune {
	consonants := consonantsOf(s)
	if len(consonants) > NameFragmentLength {
		consonants = consonants[:NameFragmentLength]
	}
	return consonants
}

// encodeFragment runs the vowel and padding phases after the consonant phase
// has produced its letters. Each phase is bounded by the fragment length.
func encodeFragment(source string, consonants []rune) string {
	out := make([]rune, 0, NameFragmentLength)
	out = appendUpTo(out, consonants)
	out = appendUpTo(out, vowelsOf(source))
	for len(out) < NameFragmentLength {
		out = append(out, Filler)
	}
	for i, c := range out {
		out[i] = toUpper(c)
	}
	return string(out)
}

func appendUpTo(out, letters []rune) []rune {
	for _, c := range letters {
		if len(out) == NameFragmentLength {
			break
		}
		out = append(out, c)
	}
	return out
}

func consonantsOf(s string) []rune {
	var out []rune
	for _, c := range s {
		if IsConsonant(c) {
			out = append(out, c)
		}
	}
	return out
}

func vowelsOf(s string) []rune {
	var out []rune
	for _, c := range s {
		if IsVowel(c) {
			out = append(out, c)
		}
	}
	return out
}
