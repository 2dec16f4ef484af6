package utils

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/impostor-backend/internal"
)

func TestGenerateRoomCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := GenerateRoomCode()
		assert.True(t, IsValidRoomCode(code), "generated %q", code)
	}
}

func TestIsValidRoomCode(t *testing.T) {
	assert.True(t, IsValidRoomCode("ABCD"))
	assert.False(t, IsValidRoomCode("abcd"))
	assert.False(t, IsValidRoomCode("ABC"))
	assert.False(t, IsValidRoomCode("ABCDE"))
	assert.False(t, IsValidRoomCode("AB1D"))
	assert.Equal(t, "ABCD", NormalizeRoomCode("  abCd "))
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "Alice", want: "Alice", wantOK: true},
		{in: "  Bob  ", want: "Bob", wantOK: true},
		{in: "", wantOK: false},
		{in: "    ", wantOK: false},
		{in: strings.Repeat("x", internal.MaxNameLength), want: strings.Repeat("x", internal.MaxNameLength), wantOK: true},
		{in: strings.Repeat("x", internal.MaxNameLength+1), wantOK: false},
		{in: "Zoë Ångström", want: "Zoë Ångström", wantOK: true},
	}
	for _, tt := range tests {
		got, ok := ValidateName(tt.in)
		assert.Equal(t, tt.wantOK, ok, "name %q", tt.in)
		if tt.wantOK {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestSanitizeAnswer(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "script block", in: "<script>alert(1)</script>hi", want: "hi"},
		{name: "inline markup", in: "<b>bold</b> move", want: "bold move"},
		{name: "unterminated tag", in: "pizza <img src=x onerror=alert(1)", want: "pizza"},
		{name: "style block", in: "<style>body{}</style>tea", want: "tea"},
		{name: "whitespace", in: "   plain   ", want: "plain"},
		{name: "truncated", in: strings.Repeat("0123456789", 8), want: strings.Repeat("0123456789", 5)},
		{name: "multibyte truncation", in: strings.Repeat("é", 60), want: strings.Repeat("é", 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeAnswer(tt.in))
		})
	}
}

func TestRandomQuestionPair(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		pair := RandomQuestionPair(DefaultQuestionPairs, rng.Intn)
		require.NotEmpty(t, pair.Normal)
		require.NotEqual(t, pair.Normal, pair.Impostor)
		seen[pair.Normal] = true
	}
	assert.Len(t, seen, len(DefaultQuestionPairs))
	assert.Equal(t, internal.QuestionPair{}, RandomQuestionPair(nil, rng.Intn))
}

func TestReadQuestionsCsvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questions.csv")
	content := strings.Join([]string{
		`"What's your favorite food?","What's a food you hate?",food`,
		`only one column`,
		`"Name a movie", "Name a bad movie"`,
		`,"missing normal",misc`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	pairs, err := ReadQuestionsCsvFile(path)
	require.NoError(t, err)
	assert.Equal(t, []internal.QuestionPair{
		{Normal: "What's your favorite food?", Impostor: "What's a food you hate?", Category: "food"},
		{Normal: "Name a movie", Impostor: "Name a bad movie"},
	}, pairs)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("just,\n"), 0o600))
	_, err = ReadQuestionsCsvFile(empty)
	assert.Error(t, err)

	_, err = ReadQuestionsCsvFile(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
