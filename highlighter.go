package main

import (
	"path/filepath"
	"regexp"
)

// highlightRule pairs a pattern with the ANSI SGR code to wrap its matches
// in, adapting the teacher's patternScanner/regexpScanner pattern-to-action
// dispatch (io.go) from its streaming trace-output pipeline down to a
// single already-read line, and from its " {{{ "/" }}} " text marker pairs
// (markBuffer.openMark/closeMark) to real ANSI escape wrapping.
type highlightRule struct {
	pattern *regexp.Regexp
	sgr     string
}

const ansiReset = "\x1b[0m"

var goRules = []highlightRule{
	{regexp.MustCompile(`//.*$`), "36"},
	{regexp.MustCompile(`\b(func|package|import|return|if|else|for|range|switch|case|default|type|struct|interface|var|const|go|defer|chan|map)\b`), "35"},
	{regexp.MustCompile(`"(\\.|[^"\\])*"`), "32"},
}

var cRules = []highlightRule{
	{regexp.MustCompile(`/\*.*?\*/|//.*$`), "36"},
	{regexp.MustCompile(`\b(if|else|for|while|return|struct|typedef|switch|case|default|void|int|char|long|static|const)\b`), "35"},
	{regexp.MustCompile(`"(\\.|[^"\\])*"`), "32"},
}

var shRules = []highlightRule{
	{regexp.MustCompile(`#.*$`), "36"},
	{regexp.MustCompile(`\b(if|then|else|fi|for|do|done|while|case|esac|function|return)\b`), "35"},
	{regexp.MustCompile(`"(\\.|[^"\\])*"`), "32"},
}

var rulesByExt = map[string][]highlightRule{
	".go":  goRules,
	".c":   cRules,
	".h":   cRules,
	".cpp": cRules,
	".cc":  cRules,
	".sh":  shRules,
	".bash": shRules,
}

// highlightLine wraps recognized tokens of text in ANSI color codes,
// chosen by filename's extension, for display under the l/n/p highlight
// option (§6). Unrecognized extensions return text unchanged.
func highlightLine(text []byte, filename string) []byte {
	rules, ok := rulesByExt[filepath.Ext(filename)]
	if !ok {
		return text
	}

	out := append([]byte(nil), text...)
	for _, rule := range rules {
		out = wrapMatches(out, rule)
	}
	return out
}

func wrapMatches(text []byte, rule highlightRule) []byte {
	locs := rule.pattern.FindAllIndex(text, -1)
	if len(locs) == 0 {
		return text
	}

	var out []byte
	last := 0
	for _, loc := range locs {
		out = append(out, text[last:loc[0]]...)
		out = append(out, "\x1b["+rule.sgr+"m"...)
		out = append(out, text[loc[0]:loc[1]]...)
		out = append(out, ansiReset...)
		last = loc[1]
	}
	out = append(out, text[last:]...)
	return out
}
