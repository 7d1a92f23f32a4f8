package fiscalcode

// alphabet indexes both value tables: digits 0-9 then letters A-Z.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

var (
	oddValues = [36]int{
		1, 0, 5, 7, 9, 13, 15, 17, 19, 21,
		1, 0, 5, 7, 9, 13, 15, 17, 19, 21, 2, 4, 18, 20, 11, 3, 6, 8, 12, 14, 16, 10, 22, 25, 24, 23,
	}
	evenValues = [36]int{
		0, 1, 2, 3, 4, 5, 6, 7, 8, 9,
		0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25,
	}
)

// BodyLength is the length of the code without its check character.
const BodyLength = 15

// CheckCharacter computes the final character of a fiscal code from its
// 15-character upper-case body. Positions are 1-based: odd positions use the
// odd table, even positions the even table. Characters outside 0-9/A-Z
// contribute nothing.
func CheckCharacter(body string) byte {
	sum := 0
	for i := 0; i < len(body); i++ {
		idx := alphabetIndex(body[i])
		if idx < 0 {
			continue
		}
		if (i+1)%2 == 0 {
			sum += evenValues[idx]
		} else {
			sum += oddValues[idx]
		}
	}
	return byte('A' + sum%26)
}

func alphabetIndex(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return -1
	}
}
