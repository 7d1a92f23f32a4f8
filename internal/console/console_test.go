package console

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiscalcode/internal/fiscalcode"
	"fiscalcode/internal/fiscalcode/service"
	"fiscalcode/internal/municipality"
	"fiscalcode/internal/municipality/store"
	"fiscalcode/pkg/testutil"
)

func newGenerator(t *testing.T) Generator {
	t.Helper()
	registry := store.NewInMemoryRegistry([]municipality.Entry{
		{Name: "Milano", Code: "F205"},
		{Name: "Roma", Code: "H501"},
	})
	svc, err := service.New(registry)
	require.NoError(t, err)
	return svc
}

func run(t *testing.T, lines ...string) (fiscalcode.FiscalCode, string, error) {
	t.Helper()
	var out strings.Builder
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	code, err := New(in, &out, newGenerator(t)).Run(context.Background())
	return code, out.String(), err
}

func TestPrompterRun(t *testing.T) {
	testutil.Given(t, "valid answers and a confirmation", func(t *testing.T) {
		code, out, err := run(t, "Marco", "Rossi", "M", "1990", "5", "15", "Milano", "1")

		testutil.Then(t, "the code is generated and printed", func(t *testing.T) {
			require.NoError(t, err)
			assert.Equal(t, fiscalcode.FiscalCode("RSSMRC90E15F205X"), code)
			assert.Contains(t, out, "Fiscal code: RSSMRC90E15F205X")
		})

		testutil.Then(t, "the summary echoes the answers", func(t *testing.T) {
			assert.Contains(t, out, "Given name: Marco")
			assert.Contains(t, out, "Date of birth: 15/5/1990")
			assert.Contains(t, out, "Place of birth: Milano")
		})
	})

	testutil.Given(t, "invalid answers", func(t *testing.T) {
		code, out, err := run(t,
			"Al", "Marco",
			"R", "Rossi",
			"X", "m",
			"1899", "abc", "1990",
			"13", "5",
			"32", "15",
			"M1lano", "Milano",
			"2", "1",
		)

		testutil.Then(t, "each field is asked again until valid", func(t *testing.T) {
			require.NoError(t, err)
			assert.Equal(t, fiscalcode.FiscalCode("RSSMRC90E15F205X"), code)
			assert.Equal(t, 2, strings.Count(out, "Given name: "))
			assert.Equal(t, 2, strings.Count(out, "Family name: "))
			assert.Equal(t, 3, strings.Count(out, "Year of birth"))
			assert.Equal(t, 9, strings.Count(out, "ERROR. "))
		})
	})

	testutil.Given(t, "a February in a non-leap year", func(t *testing.T) {
		code, out, err := run(t, "Ada", "Bo", "F", "2001", "2", "29", "28", "Roma", "1")

		testutil.Then(t, "the day is bounded by the month length", func(t *testing.T) {
			require.NoError(t, err)
			assert.Contains(t, out, "Day of birth (1 to 28): ")
			assert.Equal(t, "01B68", code.Fragments().Birth)
		})
	})

	testutil.Given(t, "the user rejects the summary", func(t *testing.T) {
		code, out, err := run(t,
			"Marco", "Rossi", "M", "1990", "5", "15", "Roma", "0",
			"Marco", "Rossi", "M", "1990", "5", "15", "Milano", "1",
		)

		testutil.Then(t, "the details are asked again", func(t *testing.T) {
			require.NoError(t, err)
			assert.Equal(t, 2, strings.Count(out, "--- SUMMARY ---"))
			assert.Equal(t, "F205", code.Fragments().Cadastral)
		})
	})

	testutil.Given(t, "a municipality missing from the registry", func(t *testing.T) {
		code, out, err := run(t, "Marco", "Rossi", "M", "1990", "5", "15", "Atlantide", "1")

		testutil.Then(t, "no code is produced and the exit status is 2", func(t *testing.T) {
			require.Error(t, err)
			assert.Empty(t, code)
			assert.True(t, municipality.IsNotFound(err))
			assert.Contains(t, out, "not in the registry")
			assert.Equal(t, ExitUnknownMunicipality, ExitCode(err))
		})
	})

	testutil.Given(t, "input that ends early", func(t *testing.T) {
		_, _, err := run(t, "Marco")

		testutil.Then(t, "the flow fails with exit status 1", func(t *testing.T) {
			require.ErrorIs(t, err, io.ErrUnexpectedEOF)
			assert.Equal(t, ExitFailure, ExitCode(err))
		})
	})
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitUnknownMunicipality, ExitCode(&municipality.NotFoundError{Name: "X"}))
}
