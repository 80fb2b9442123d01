package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		length  int
		wantErr bool
	}{
		{"title too short", Title, 4, true},
		{"title min", Title, 5, false},
		{"title max", Title, 200, false},
		{"title too long", Title, 201, true},
		{"content too short", Content, 19, true},
		{"content min", Content, 20, false},
		{"content max", Content, 5000, false},
		{"content too long", Content, 5001, true},
		{"comment too short", Comment, 2, true},
		{"comment min", Comment, 3, false},
		{"comment max", Comment, 1000, false},
		{"comment too long", Comment, 1001, true},
		{"username too short", Username, 2, true},
		{"username max", Username, 30, false},
		{"username too long", Username, 31, true},
		{"bio empty", Bio, 0, false},
		{"bio max", Bio, 500, false},
		{"bio too long", Bio, 501, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Check(tt.field, strings.Repeat("a", tt.length))
			if tt.wantErr {
				var ve *Error
				require.True(t, errors.As(err, &ve), "expected *Error, got %v", err)
				assert.Equal(t, tt.field, ve.Field)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.length)
		})
	}
}

func TestCheck_TrimsBeforeMeasuring(t *testing.T) {
	got, err := Check(Comment, "   hi   ")
	require.Error(t, err)
	assert.Equal(t, "Comment must be at least 3 characters", err.Error())
	assert.Empty(t, got)

	got, err = Check(Comment, "\n  nice post \t")
	require.NoError(t, err)
	assert.Equal(t, "nice post", got)
}

func TestCheck_CountsCharactersNotBytes(t *testing.T) {
	// 3 runes, 9 bytes
	got, err := Check(Comment, "日本語")
	require.NoError(t, err)
	assert.Equal(t, "日本語", got)

	_, err = Check(Username, strings.Repeat("é", 3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "letters, numbers")
}

func TestCheck_UsernameCharset(t *testing.T) {
	for _, ok := range []string{"alice", "bob_99", "x-y-z", "ABC"} {
		_, err := Check(Username, ok)
		assert.NoError(t, err, "username %q", ok)
	}
	for _, bad := range []string{"has space", "dot.name", "semi;colon", "emoji🙂"} {
		_, err := Check(Username, bad)
		assert.Error(t, err, "username %q", bad)
	}
}

func TestCheck_FirstViolatedRule(t *testing.T) {
	// Both too short and bad charset: length rule comes first.
	_, err := Check(Username, "a!")
	require.Error(t, err)
	assert.Equal(t, "Username must be at least 3 characters", err.Error())
}

func TestCheck_UnknownField(t *testing.T) {
	_, err := Check(Field("nope"), "value")
	require.Error(t, err)
	var ve *Error
	assert.False(t, errors.As(err, &ve))
}

func TestCheckProfile(t *testing.T) {
	in, err := CheckProfile("  alice_1 ", "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, ProfileInput{Username: "alice_1", Bio: "hello"}, in)

	_, err = CheckProfile("a", strings.Repeat("b", 501))
	require.Error(t, err)
	assert.Equal(t, "Username must be at least 3 characters, Bio must be at most 500 characters", err.Error())

	var errs Errors
	require.True(t, errors.As(err, &errs))
	assert.Len(t, errs, 2)
}
