package engine

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

func TestLocalFSIdentical(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	writeFile(t, src, "abcdef")

	tests := []struct {
		name    string
		content *string
		want    bool
	}{
		{"same bytes", ptr("abcdef"), true},
		{"same size different bytes", ptr("abcdeF"), false},
		{"different size", ptr("abc"), false},
		{"missing destination", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := filepath.Join(t.TempDir(), "dst.jpg")
			if tt.content != nil {
				writeFile(t, dst, *tt.content)
			}
			got, err := LocalFS{}.Identical(src, dst)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("large identical files", func(t *testing.T) {
		data := make([]byte, 3*compareChunk+5)
		for i := range data {
			data[i] = byte(i)
		}
		a := filepath.Join(dir, "big1")
		b := filepath.Join(dir, "big2")
		require.NoError(t, os.WriteFile(a, data, 0o644))
		require.NoError(t, os.WriteFile(b, data, 0o644))
		same, err := LocalFS{}.Identical(a, b)
		require.NoError(t, err)
		assert.True(t, same)
	})

	t.Run("unreadable source", func(t *testing.T) {
		_, err := LocalFS{}.Identical(filepath.Join(dir, "missing"), src)
		require.Error(t, err)
	})
}

func ptr(s string) *string { return &s }

func TestLocalFSCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "dst.jpg")
	writeFile(t, src, "hello sieve")

	n, err := LocalFS{}.Copy(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)
	assert.Equal(t, "hello sieve", readFile(t, dst))

	_, err = LocalFS{}.Copy(context.Background(), filepath.Join(dir, "nope"), dst)
	require.Error(t, err)
}

func TestTmpName(t *testing.T) {
	name := tmpName(filepath.Join("out", "img.jpg"))
	assert.Equal(t, "out", filepath.Dir(name))
	assert.Regexp(t, `^\.img\.jpg\.[0-9a-f-]{8}\.sieve-tmp$`, filepath.Base(name))
}

func TestCleanupTmpFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".x.sieve-tmp")
	writeFile(t, path, "partial")
	RegisterTmp(path)

	assert.Equal(t, 1, CleanupTmpFiles())
	assert.NoFileExists(t, path)
	assert.Zero(t, CleanupTmpFiles())
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.jpg")
	writeFile(t, path, "content")

	got, err := HashFile(path)
	require.NoError(t, err)
	sum := blake3.Sum256([]byte("content"))
	assert.Equal(t, hex.EncodeToString(sum[:]), got)

	_, err = HashFile(path + ".missing")
	require.Error(t, err)
}

func TestVerifyCopyMismatchRemovesDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	writeFile(t, src, "good")
	writeFile(t, dst, "bad!")

	err := verifyCopy(src, dst)
	require.ErrorIs(t, err, ErrVerifyMismatch)
	assert.NoFileExists(t, dst)

	writeFile(t, dst, "good")
	require.NoError(t, verifyCopy(src, dst))
}
