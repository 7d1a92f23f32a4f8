package fiscalcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCadastralCode(t *testing.T) {
	t.Run("accepts letter and three digits", func(t *testing.T) {
		code, err := ParseCadastralCode("F205")
		require.NoError(t, err)
		assert.Equal(t, CadastralCode("F205"), code)
	})

	t.Run("upper-cases the letter", func(t *testing.T) {
		code, err := ParseCadastralCode("h501")
		require.NoError(t, err)
		assert.Equal(t, CadastralCode("H501"), code)
	})

	for _, bad := range []string{"", "F20", "F2055", "1205", "FF05", "F20A", "F 05"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			_, err := ParseCadastralCode(bad)
			assert.ErrorIs(t, err, ErrInvalidCadastralCode)
		})
	}
}
