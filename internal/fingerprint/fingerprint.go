// Package fingerprint content-hashes preprocessed source so the
// preprocessor can skip rewriting a .pre file whose content would not
// change. Comment stripping itself still runs on every invocation.
package fingerprint

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Of returns the hex-encoded blake2b-256 digest of content.
func Of(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Short returns the first n hex characters of Of(content), for
// display in the CLI's verbose banner.
func Short(content []byte, n int) string {
	full := Of(content)
	if n >= len(full) {
		return full
	}
	return full[:n]
}
