package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeAlias(t *testing.T) {
	got, err := normalizeAlias("  Kestrel  ")
	require.NoError(t, err)
	require.Equal(t, "Kestrel", got)

	// Decomposed and precomposed forms of the same name normalize equal.
	precomposed := "R\u00e9my"
	decomposed := "Re\u0301my"
	a, err := normalizeAlias(precomposed)
	require.NoError(t, err)
	b, err := normalizeAlias(decomposed)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestNormalizeAliasRejects(t *testing.T) {
	cases := []string{
		"x",                     // too short
		strings.Repeat("a", 21), // too long
		"two words",             // inner space
		"semi;colon",            // punctuation
		"tab\tname",             // control character
		"",                      // empty
	}
	for _, raw := range cases {
		_, err := normalizeAlias(raw)
		require.Error(t, err, "alias %q", raw)
	}
}
