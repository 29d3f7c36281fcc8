package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const voucherNumberPrefix = "EVRN"

// GenerateVoucherNumber produces a human-readable voucher reference of the
// form EVRN{YYYYMMDD}-{NNN} with a random 3-digit suffix. Only 1000 suffixes
// exist per day, so the number is provisional: the store's unique index is
// the authority, and callers must regenerate and retry on a duplicate.
func GenerateVoucherNumber(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return fmt.Sprintf("%s%s-%03d", voucherNumberPrefix, now.Format("20060102"), n.Int64()), nil
}
