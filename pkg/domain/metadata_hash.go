package domain

import (
	"strings"

	dErrors "hangar/pkg/domain-errors"
)

// MetadataHash is a content-addressed identifier for an asset's off-registry
// descriptive data: a CIDv0-shaped digest, exactly 46 characters, "Qm" prefix,
// base58 body. A hash is bound to at most one asset at any time.
type MetadataHash string

// MetadataHashLen is the exact encoded length accepted at mint time.
const MetadataHashLen = 46

const metadataHashPrefix = "Qm"

// base58 alphabet without 0, O, I, l.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ParseMetadataHash constructs a MetadataHash from external input.
//
// Errors: CodeInvalidMetadata when the input is empty, has the wrong length,
// the wrong prefix, or characters outside the base58 alphabet.
func ParseMetadataHash(s string) (MetadataHash, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidMetadata, "metadata hash cannot be empty")
	}
	if len(s) != MetadataHashLen {
		return "", dErrors.Newf(dErrors.CodeInvalidMetadata, "metadata hash must be exactly %d characters", MetadataHashLen)
	}
	if !strings.HasPrefix(s, metadataHashPrefix) {
		return "", dErrors.New(dErrors.CodeInvalidMetadata, "metadata hash must start with Qm")
	}
	for _, r := range s[len(metadataHashPrefix):] {
		if !strings.ContainsRune(base58Alphabet, r) {
			return "", dErrors.New(dErrors.CodeInvalidMetadata, "metadata hash contains non-base58 characters")
		}
	}
	return MetadataHash(s), nil
}

func (h MetadataHash) String() string { return string(h) }

// IsZero reports whether the hash is unset.
func (h MetadataHash) IsZero() bool { return h == "" }
