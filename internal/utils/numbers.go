package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const accountNumberPrefix = "40702810" // RUB current-account prefix, 20 digits total

// GenerateSecureRandomHex generates a cryptographically secure random string of
// the specified byte length, hex encoded. lengthInBytes=6 yields 12 hex characters.
func GenerateSecureRandomHex(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateReferenceNumber produces a transaction reference: "TXN" followed by
// 12 uppercase hex characters. The unique index on the transactions table
// rejects the rare collision; callers surface that as a duplicate error.
func GenerateReferenceNumber() (string, error) {
	s, err := GenerateSecureRandomHex(6)
	if err != nil {
		return "", err
	}
	return "TXN" + strings.ToUpper(s), nil
}

// GenerateApplicationNumber produces a credit application number: "APP" + 8 uppercase hex.
func GenerateApplicationNumber() (string, error) {
	s, err := GenerateSecureRandomHex(4)
	if err != nil {
		return "", err
	}
	return "APP" + strings.ToUpper(s), nil
}

// GenerateContractNumber produces a credit contract number: "CRD" + 8 uppercase hex.
func GenerateContractNumber() (string, error) {
	s, err := GenerateSecureRandomHex(4)
	if err != nil {
		return "", err
	}
	return "CRD" + strings.ToUpper(s), nil
}

// GenerateAccountNumber produces a 20-digit account number: the fixed prefix
// "40702810" followed by 12 random digits. Uniqueness is the caller's job.
func GenerateAccountNumber() (string, error) {
	var sb strings.Builder
	sb.WriteString(accountNumberPrefix)
	ten := big.NewInt(10)
	for i := 0; i < 12; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		sb.WriteString(n.String())
	}
	return sb.String(), nil
}
