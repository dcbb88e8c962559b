// Package integrity computes and checks streaming content digests.
package integrity

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "github.com/DarrenMaxi/HTPSource/internal/errors"
)

// FileSHA1 returns the hex SHA-1 digest of the file at path. Content is
// streamed, so arbitrarily large files are never held in memory.
func FileSHA1(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return SHA1(f)
}

// SHA1 returns the hex SHA-1 digest of everything read from r.
func SHA1(r io.Reader) (string, error) {
	h := sha1.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyFile re-hashes the file at path and compares it with the
// recorded digest.
func VerifyFile(path, want string) error {
	got, err := FileSHA1(path)
	if err != nil {
		return err
	}
	if !strings.EqualFold(got, want) {
		return fmt.Errorf("%w: %s: recorded %s, computed %s", apperrors.ErrDigestMismatch, path, want, got)
	}
	return nil
}
