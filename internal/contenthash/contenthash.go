// Package contenthash computes content-addressed digests of files so that
// decisions about a finding can be invalidated when the file it points at
// changes. The same digest function is used at decision time and at filter
// time; mixing algorithms would spuriously invalidate every stored decision.
package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Sum returns the hex-encoded SHA-256 digest of raw bytes.
func Sum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile hashes the current contents of path. A missing or unreadable file
// returns an error; callers that are verifying a stored decision treat that
// as "cannot verify unchanged" and invalidate the decision rather than fail.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return Sum(data), nil
}
