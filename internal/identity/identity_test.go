package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditware/nightwatch/internal/types"
)

func TestIDDeterministic(t *testing.T) {
	a := ID("myapp", "security", "auth/login.go", "SQL injection in login handler")
	b := ID("myapp", "security", "auth/login.go", "SQL injection in login handler")
	assert.Equal(t, a, b)
	assert.Len(t, a, IDLength)
	assert.Regexp(t, "^[0-9a-f]+$", a)
}

// Wording drift between runs: punctuation, casing, and whitespace changes
// must map to the same identifier.
func TestIDStableUnderWordingDrift(t *testing.T) {
	base := ID("myapp", "security", "auth/login.go", "Unchecked error in ParseConfig")

	variants := []string{
		"unchecked error in parseconfig",
		"Unchecked  error in\tParseConfig",
		"Unchecked error in `ParseConfig`!",
		"Unchecked error in ParseConfig.",
		"UNCHECKED ERROR IN PARSECONFIG",
	}
	for _, title := range variants {
		assert.Equal(t, base, ID("myapp", "security", "auth/login.go", title), "title: %q", title)
	}
}

func TestIDDistinguishesComponents(t *testing.T) {
	base := ID("myapp", "security", "auth/login.go", "hardcoded secret")

	assert.NotEqual(t, base, ID("otherapp", "security", "auth/login.go", "hardcoded secret"))
	assert.NotEqual(t, base, ID("myapp", "hygiene", "auth/login.go", "hardcoded secret"))
	assert.NotEqual(t, base, ID("myapp", "security", "auth/logout.go", "hardcoded secret"))
	assert.NotEqual(t, base, ID("myapp", "security", "auth/login.go", "hardcoded credential"))
}

// A rewritten title is a different finding as far as identity is concerned.
func TestIDChangesWhenTitleReworded(t *testing.T) {
	a := ID("myapp", "security", "db.go", "SQL injection in user lookup")
	b := ID("myapp", "security", "db.go", "user lookup vulnerable to SQL injection")
	assert.NotEqual(t, a, b)
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Unchecked error in `ParseConfig`!", "unchecked error in parseconfig"},
		{"foo-bar", "foo bar"},
		{"  leading and   trailing  ", "leading and trailing"},
		{"CamelCase stays one word", "camelcase stays one word"},
		{"unicode: café résumé", "unicode café résumé"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTitle(tt.in), "input: %q", tt.in)
	}
}

func TestAssignStampsEveryFinding(t *testing.T) {
	findings := []types.Finding{
		{Repo: "myapp", Focus: "security", File: "a.go", Title: "first issue"},
		{Repo: "myapp", Focus: "security", File: "b.go", Title: "second issue"},
	}

	out := Assign(findings)
	require.Len(t, out, 2)
	for i, f := range out {
		assert.Len(t, f.ID, IDLength)
		assert.Equal(t, findings[i].ID, f.ID, "findings must be stamped in place")
	}
	assert.NotEqual(t, out[0].ID, out[1].ID)
}
