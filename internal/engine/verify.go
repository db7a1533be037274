package engine

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// ErrVerifyMismatch is returned when a copied file does not hash to the
// same digest as its source.
var ErrVerifyMismatch = errors.New("verification failed: checksum mismatch")

// HashFile returns the hex-encoded BLAKE3 digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New()
	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// verifyCopy compares the digests of src and dst. On mismatch dst is
// removed so a corrupt copy never survives under the final name.
func verifyCopy(src, dst string) error {
	want, err := HashFile(src)
	if err != nil {
		return err
	}
	got, err := HashFile(dst)
	if err != nil {
		return err
	}
	if want != got {
		_ = os.Remove(dst)
		return fmt.Errorf("%w: %s", ErrVerifyMismatch, dst)
	}
	return nil
}
