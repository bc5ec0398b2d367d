package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReferenceNumber(t *testing.T) {
	ref, err := GenerateReferenceNumber()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^TXN[0-9A-F]{12}$`), ref)

	// Two calls should practically never collide.
	other, err := GenerateReferenceNumber()
	require.NoError(t, err)
	assert.NotEqual(t, ref, other)
}

func TestGenerateAccountNumber(t *testing.T) {
	num, err := GenerateAccountNumber()
	require.NoError(t, err)
	assert.Len(t, num, 20)
	assert.Regexp(t, regexp.MustCompile(`^40702810\d{12}$`), num)
}

func TestGenerateApplicationAndContractNumbers(t *testing.T) {
	app, err := GenerateApplicationNumber()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^APP[0-9A-F]{8}$`), app)

	crd, err := GenerateContractNumber()
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^CRD[0-9A-F]{8}$`), crd)
}

func TestGenerateSecureRandomHexRejectsNonPositiveLength(t *testing.T) {
	_, err := GenerateSecureRandomHex(0)
	assert.Error(t, err)
}
