package konfoo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesProvider(t *testing.T) {
	prov := NewBytesProvider([]byte{0, 1, 2, 3, 4, 5, 6, 7})

	got, err := prov.Read(2, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3, 4}, got)

	t.Run("ReadIsACopy", func(t *testing.T) {
		got[0] = 0xFF
		again, err := prov.Read(2, 1)
		require.NoError(t, err)
		assert.Equal(t, []byte{2}, again)
	})

	t.Run("Write", func(t *testing.T) {
		require.NoError(t, prov.Write(6, []byte{0x66, 0x77}))
		assert.Equal(t, []byte{0x66, 0x77}, prov.Bytes()[6:8])
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := prov.Read(6, 3)
		assert.ErrorIs(t, err, ErrProviderRange)
		_, err = prov.Read(2, -1)
		assert.ErrorIs(t, err, ErrProviderRange)
		assert.ErrorIs(t, prov.Write(7, []byte{1, 2}), ErrProviderRange)
	})
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registers.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xDE, 0xAD, 0xBE, 0xEF}, 0o644))

	prov, err := NewFileProvider(path)
	require.NoError(t, err)
	assert.Equal(t, path, prov.Path())

	got, err := prov.Read(1, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAD, 0xBE}, got)

	t.Run("WriteStaysInMemoryUntilFlush", func(t *testing.T) {
		require.NoError(t, prov.Write(0, []byte{0x00}))
		onDisk, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, onDisk)

		require.NoError(t, prov.Flush())
		onDisk, err = os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xAD, 0xBE, 0xEF}, onDisk)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := NewFileProvider(filepath.Join(t.TempDir(), "nonesuch.bin"))
		assert.Error(t, err)
	})
}
