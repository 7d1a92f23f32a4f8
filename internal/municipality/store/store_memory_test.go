package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiscalcode/internal/fiscalcode"
	"fiscalcode/internal/municipality"
	"fiscalcode/internal/municipality/metrics"
	"fiscalcode/pkg/platform/sentinel"
)

func TestInMemoryRegistryResolve(t *testing.T) {
	ctx := context.Background()
	m := metrics.NewWith(prometheus.NewRegistry())
	reg := NewInMemoryRegistry([]municipality.Entry{
		{Name: "Roma", Code: "H501"},
		{Name: "Romano Canavese", Code: "H511"},
		{Name: "Milano", Code: "F205"},
	}, WithMetrics(m))

	t.Run("exact match", func(t *testing.T) {
		code, err := reg.Resolve(ctx, "Milano")
		require.NoError(t, err)
		assert.Equal(t, fiscalcode.CadastralCode("F205"), code)
	})

	t.Run("prefix of another name does not leak", func(t *testing.T) {
		code, err := reg.Resolve(ctx, "Roma")
		require.NoError(t, err)
		assert.Equal(t, fiscalcode.CadastralCode("H501"), code)
	})

	t.Run("substring is not a match", func(t *testing.T) {
		_, err := reg.Resolve(ctx, "Rom")
		assert.True(t, municipality.IsNotFound(err))
	})

	t.Run("matching is case-sensitive", func(t *testing.T) {
		_, err := reg.Resolve(ctx, "milano")
		var nf *municipality.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "milano", nf.Name)
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Lookups.WithLabelValues(backendMemory, metrics.OutcomeFound)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Lookups.WithLabelValues(backendMemory, metrics.OutcomeNotFound)))
}

func TestInMemoryRegistryAddAndEntries(t *testing.T) {
	reg := NewInMemoryRegistry(nil)
	assert.Equal(t, 0, reg.Len())

	reg.Add(municipality.Entry{Name: "Torino", Code: "L219"})
	reg.Add(municipality.Entry{Name: "Bari", Code: "A662"})
	reg.Add(municipality.Entry{Name: "Torino", Code: "L219"})

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []municipality.Entry{
		{Name: "Bari", Code: "A662"},
		{Name: "Torino", Code: "L219"},
	}, reg.Entries())
}

func TestDefaultRegistry(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)
	assert.Greater(t, reg.Len(), 40)

	code, err := reg.Resolve(context.Background(), "Milano")
	require.NoError(t, err)
	assert.Equal(t, fiscalcode.CadastralCode("F205"), code)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("loads a valid file", func(t *testing.T) {
		path := filepath.Join(dir, "ok.csv")
		require.NoError(t, os.WriteFile(path, []byte("Novara;F952\nNapoli;F839\n"), 0o600))

		reg, err := LoadFile(path)
		require.NoError(t, err)
		code, err := reg.Resolve(context.Background(), "Novara")
		require.NoError(t, err)
		assert.Equal(t, fiscalcode.CadastralCode("F952"), code)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "missing.csv"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed rows", func(t *testing.T) {
		path := filepath.Join(dir, "bad.csv")
		require.NoError(t, os.WriteFile(path, []byte("Novara,F952\n"), 0o600))

		_, err := LoadFile(path)
		assert.ErrorIs(t, err, sentinel.ErrMalformed)
	})
}
