package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVoucherNumber_Format(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	pattern := regexp.MustCompile(`^EVRN20260830-\d{3}$`)
	for i := 0; i < 50; i++ {
		num, err := GenerateVoucherNumber(now)
		require.NoError(t, err)
		assert.Regexp(t, pattern, num)
	}
}
