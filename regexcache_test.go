package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_translateBRE_basicEscaping(t *testing.T) {
	require.Equal(t, `\(a\)`, translateBRE(`(a)`, false))
	require.Equal(t, `(a)`, translateBRE(`\(a\)`, false))
	require.Equal(t, `a\+`, translateBRE(`a+`, false))
	require.Equal(t, `a+`, translateBRE(`a\+`, false))
	require.Equal(t, `a|b`, translateBRE(`a\|b`, false))
}

func Test_translateBRE_extendedPassesThrough(t *testing.T) {
	require.Equal(t, `(a|b)+`, translateBRE(`(a|b)+`, true))
}

func Test_regexCache_patternRoundTrip(t *testing.T) {
	var rc regexCache

	_, err := rc.pattern()
	require.Equal(t, errNoPreviousPat, err)

	re, err := rc.setPattern(`^foo`, true)
	require.NoError(t, err)
	require.True(t, re.MatchString("foobar"))

	got, err := rc.pattern()
	require.NoError(t, err)
	require.Same(t, re, got)
}

func Test_regexCache_setPattern_invalid(t *testing.T) {
	var rc regexCache
	_, err := rc.setPattern(`(unterminated`, true)
	require.Error(t, err)
}

func Test_regexCache_replRoundTrip(t *testing.T) {
	var rc regexCache

	_, err := rc.repl()
	require.Equal(t, errNoPreviousSubst, err)

	parts := []replPart{{lit: []byte("x"), group: -1}}
	rc.setRepl(parts)

	got, err := rc.repl()
	require.NoError(t, err)
	require.Equal(t, parts, got)
}
