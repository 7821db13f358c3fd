package filestore

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	for _, name := range []string{"report.pdf", "sheet.XLSX", "photo.JPeG", "notes.txt"} {
		ext, err := ValidateName(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, ext)
	}

	for _, name := range []string{"script.sh", "binary.exe", "archive.zip", "noext"} {
		_, err := ValidateName(name)
		assert.True(t, errors.Is(err, ErrExtensionNotAllowed), name)
	}
}

func TestSaveAndRead(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	data := []byte("hello world")
	path, err := store.Save("contracts", "doc.pdf", data)
	require.NoError(t, err)
	assert.True(t, store.Exists(path))

	// Bytes on disk match byte for byte.
	read, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, read)
}

func TestSaveRejectsOversize(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("contracts", "big.pdf", make([]byte, MaxFileSize+1))
	assert.True(t, errors.Is(err, ErrFileTooLarge))
}

func TestRemoveIsIdempotent(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("vehicles", "natis.pdf", []byte("x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(path))
	assert.False(t, store.Exists(path))

	// Already gone: still no error.
	require.NoError(t, store.Remove(path))
	require.NoError(t, store.Remove(""))
}
