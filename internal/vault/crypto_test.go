package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashVerify_RoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		iterations int
	}{
		{name: "default iterations", iterations: 0},
		{name: "low iterations", iterations: 1_000},
		{name: "high iterations", iterations: 300_000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := HashPassword([]byte("s3cret"), tc.iterations)
			assert.True(t, VerifyPassword([]byte("s3cret"), rec))
			assert.False(t, VerifyPassword([]byte("s3cret!"), rec))
		})
	}
}

func TestHashPassword_DefaultsIterations(t *testing.T) {
	rec := HashPassword([]byte("x"), 0)
	assert.Equal(t, DefaultIterations, rec.Iterations)
}

func TestHashPassword_FreshSaltEachCall(t *testing.T) {
	a := HashPassword([]byte("same password"), 1_000)
	b := HashPassword([]byte("same password"), 1_000)

	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.DerivedKey, b.DerivedKey)
}

func TestVerifyPassword_MalformedRecord(t *testing.T) {
	tests := []struct {
		name string
		rec  CredentialRecord
	}{
		{name: "empty record", rec: CredentialRecord{}},
		{name: "missing salt", rec: CredentialRecord{DerivedKey: []byte{1}, Iterations: 1000}},
		{name: "missing key", rec: CredentialRecord{Salt: []byte{1}, Iterations: 1000}},
		{name: "zero iterations", rec: CredentialRecord{Salt: []byte{1}, DerivedKey: []byte{1}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, VerifyPassword([]byte("anything"), tc.rec))
		})
	}
}
