// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieSigner(t *testing.T) {
	signer, err := NewCookieSigner("a-long-enough-session-secret-value")
	require.NoError(t, err)

	signed := signer.Sign("session-id")
	assert.True(t, strings.HasPrefix(signed, "session-id."))

	value, ok := signer.Verify(signed)
	require.True(t, ok)
	assert.Equal(t, "session-id", value)

	tests := []struct {
		name   string
		signed string
	}{
		{name: "empty", signed: ""},
		{name: "no mac", signed: "session-id"},
		{name: "empty mac", signed: "session-id."},
		{name: "empty value", signed: "." + strings.Split(signed, ".")[1]},
		{name: "tampered value", signed: "session-iX." + strings.Split(signed, ".")[1]},
		{name: "tampered mac", signed: signed + "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := signer.Verify(tt.signed)
			assert.False(t, ok)
		})
	}
}

func TestCookieSigner_KeyDependsOnSecret(t *testing.T) {
	a, err := NewCookieSigner("first-secret-first-secret-first-secret")
	require.NoError(t, err)
	b, err := NewCookieSigner("second-secret-second-secret-second")
	require.NoError(t, err)

	_, ok := b.Verify(a.Sign("sid"))
	assert.False(t, ok)

	_, err = NewCookieSigner("")
	assert.Error(t, err)
}

func TestHashToken(t *testing.T) {
	h := HashToken("token")

	assert.Equal(t, h, HashToken("token"))
	assert.NotEqual(t, h, HashToken("token2"))
	assert.Len(t, h, 64)
}

func TestGenerateSessionID_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 1000 {
		id, err := GenerateSessionID()
		require.NoError(t, err)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}
