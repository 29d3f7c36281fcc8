package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeDateBasedToken(t *testing.T) {
	createdAt := time.Date(2026, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeDateBasedToken(createdAt)
	assert.NotEmpty(t, token, "Token should not be empty")

	decoded, err := DecodeDateBasedToken(token)
	assert.NoError(t, err)
	assert.Equal(t, createdAt, decoded, "Timestamp should round-trip through the token")
}

func TestDecodeDateBasedToken_InvalidBase64(t *testing.T) {
	_, err := DecodeDateBasedToken("not-base64!!!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")
}

func TestDecodeDateBasedToken_InvalidTimestamp(t *testing.T) {
	_, err := DecodeDateBasedToken("bm90LWEtZGF0ZQ==") // "not-a-date"
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "date parse")
}
