package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentPolicy_Validate(t *testing.T) {
	policy := ContentPolicy{MaxLength: 5}

	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"plain", "hello", false},
		{"emoji counted as runes", "🐦🐦🐦🐦🐦", false},
		{"leading space kept", " hey", false},
		{"empty", "", true},
		{"whitespace only", "  \n\t", true},
		{"too long", "hello!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Validate(tt.content)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidContent)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestContentPolicy_NoMaxLength(t *testing.T) {
	policy := ContentPolicy{}
	assert.NoError(t, policy.Validate(strings.Repeat("a", 10_000)))
}

func TestDefaultContentPolicy(t *testing.T) {
	policy := DefaultContentPolicy()
	assert.NoError(t, policy.Validate(strings.Repeat("a", DefaultMaxContentLength)))
	assert.ErrorIs(t, policy.Validate(strings.Repeat("a", DefaultMaxContentLength+1)), ErrInvalidContent)
}

func TestAuthorProfile_Handle(t *testing.T) {
	alice := "alice"
	empty := ""

	assert.Equal(t, "alice", (&AuthorProfile{ID: "u1", Username: &alice}).Handle())
	assert.Equal(t, "u2", (&AuthorProfile{ID: "u2", Username: &empty}).Handle())
	assert.Equal(t, "u3", (&AuthorProfile{ID: "u3"}).Handle())

	var missing *AuthorProfile
	assert.Equal(t, "", missing.Handle())
}

func TestCaller_IsAuthenticated(t *testing.T) {
	assert.False(t, Anonymous.IsAuthenticated())
	assert.True(t, Caller{UserID: "u1"}.IsAuthenticated())
}
