package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2025, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(createdAt, "txn-abc-123")
	assert.NotEmpty(t, token)

	decodedAt, decodedID, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, createdAt, decodedAt)
	assert.Equal(t, "txn-abc-123", decodedID)
}

func TestDecodeTokenRejectsGarbage(t *testing.T) {
	_, _, err := DecodeToken("not-base64!!!")
	assert.Error(t, err)

	// Valid base64 but missing the separator.
	_, _, err = DecodeToken("aGVsbG8=")
	assert.Error(t, err)
}
