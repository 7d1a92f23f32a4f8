package fiscalcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckCharacter(t *testing.T) {
	tests := []struct {
		body string
		want byte
	}{
		{"RSSMRA85T10A562", 'S'},
		{"RSSMRC90E15F205", 'X'},
		{"BOXDAA00B69H501", 'N'},
		{"FOXAIA00A45L219", 'Y'},
		{"DLCGFR75L31F839", 'G'},
		{"BNCMRA87C45D612", 'G'},
		{"XUXFPP01S01A944", 'L'},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			assert.Equal(t, string(tt.want), string(CheckCharacter(tt.body)))
		})
	}
}

// TestCheckCharacterParity guards the table selection: position 1 is odd.
func TestCheckCharacterParity(t *testing.T) {
	// "A" is worth 1 odd and 0 even; "B" is worth 0 odd and 1 even.
	assert.Equal(t, "A", string(CheckCharacter("B")))
	assert.Equal(t, "C", string(CheckCharacter("AB")))
	assert.Equal(t, "A", string(CheckCharacter("BA")))
}

func TestCheckCharacterIsDeterministic(t *testing.T) {
	body := "RSSMRA85T10A562"
	first := CheckCharacter(body)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, CheckCharacter(body))
	}
}
