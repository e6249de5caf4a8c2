// Package domain holds the value types shared across hangar's domains.
// Construct them via the Parse functions at trust boundaries; direct casting
// bypasses validation.
package domain

import (
	"strconv"
	"strings"
	"unicode"

	dErrors "hangar/pkg/domain-errors"
)

// AccountID identifies an account in the ownership registry and the
// settlement ledger. Opaque, case-sensitive, at most 64 characters.
type AccountID string

const maxAccountIDLen = 64

// ParseAccountID constructs an AccountID from external input.
//
// Errors: CodeInvalidInput when empty, too long, or containing whitespace or
// control characters.
func ParseAccountID(s string) (AccountID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account cannot be empty")
	}
	if len(s) > maxAccountIDLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "account exceeds maximum length")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "account contains invalid characters")
		}
	}
	return AccountID(s), nil
}

func (a AccountID) String() string { return string(a) }

// IsZero reports whether the account is unset.
func (a AccountID) IsZero() bool { return a == "" }

// AssetID identifies a minted asset. IDs are assigned sequentially from 1 at
// mint time and are never reused. 0 is the unset value.
type AssetID uint64

// ParseAssetID constructs an AssetID from its decimal representation.
func ParseAssetID(s string) (AssetID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid asset id")
	}
	return AssetID(n), nil
}

func (id AssetID) String() string { return strconv.FormatUint(uint64(id), 10) }

// IsZero reports whether the asset id is unset.
func (id AssetID) IsZero() bool { return id == 0 }
