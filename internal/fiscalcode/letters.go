package fiscalcode

// IsVowel reports whether c is one of a, e, i, o, u in either case.
func IsVowel(c rune) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}

// IsConsonant reports whether c is an ASCII letter that is not a vowel.
func IsConsonant(c rune) bool {
	return isLetter(c) && !IsVowel(c)
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func toUpper(c rune) rune {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
