// Package fingerprint hashes uploaded files to detect duplicate submissions.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// File streams the file through SHA-256 and returns the hex digest.
func File(path string) (_ string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer func() { err = errors.Join(err, f.Close()) }()

	return Reader(f)
}

func Reader(r io.Reader) (string, error) {
	h := sha256.New()

	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
