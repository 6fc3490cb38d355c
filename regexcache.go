package main

import (
	"regexp"
)

// regexCache remembers the handful of pattern slots ed semantics require
// remembering across commands (§4.4, §4.5): the last regular expression
// used by any command that takes one (shared by addressing and by s///),
// and the replacement template from the last substitution (so `s` with a
// lone `%` as its replacement repeats it). There is no third-party POSIX regex
// engine anywhere in the retrieved examples, so this is grounded directly
// on the teacher's own use of the standard regexp package in its top-level
// command plumbing; RE2 syntax is a superset-ish approximation of
// POSIX BRE/ERE close enough for everyday ed scripts, and is flagged as
// such in the package doc rather than silently pretending to be POSIX.
type regexCache struct {
	lastPattern *regexp.Regexp
	lastRepl    []replPart
}

// setPattern translates pat from BRE/ERE escaping to Go regexp syntax (via
// translateBRE), compiles it, and remembers it as the last pattern used,
// returning it.
func (rc *regexCache) setPattern(pat string, extended bool) (*regexp.Regexp, error) {
	re, err := regexp.Compile(translateBRE(pat, extended))
	if err != nil {
		return nil, parseErrorf("invalid pattern: %v", err)
	}
	rc.lastPattern = re
	return re, nil
}

// pattern returns the last remembered pattern, or errNoPreviousPat if none
// has been set yet this session.
func (rc *regexCache) pattern() (*regexp.Regexp, error) {
	if rc.lastPattern == nil {
		return nil, errNoPreviousPat
	}
	return rc.lastPattern, nil
}

// setRepl remembers parts as the last substitution's replacement template.
func (rc *regexCache) setRepl(parts []replPart) {
	if parts == nil {
		parts = []replPart{}
	}
	rc.lastRepl = parts
}

// repl returns the last remembered replacement template, or
// errNoPreviousSubst if none has been set yet.
func (rc *regexCache) repl() ([]replPart, error) {
	if rc.lastRepl == nil {
		return nil, errNoPreviousSubst
	}
	return rc.lastRepl, nil
}

// translateBRE adapts the small set of POSIX BRE/ERE escaping conventions
// that differ from RE2 syntax: in basic mode, bare ( ) { } | + ? are
// literal and only their backslashed forms are special, the reverse of
// extended mode and of RE2. Unescaped metacharacters are passed through
// untouched in extended mode, since RE2's syntax already agrees with ERE
// for the constructs ed scripts actually use.
func translateBRE(pat string, extended bool) string {
	if extended {
		return pat
	}

	out := make([]byte, 0, len(pat))
	for i := 0; i < len(pat); i++ {
		c := pat[i]
		if c == '\\' && i+1 < len(pat) {
			next := pat[i+1]
			switch next {
			case '(', ')', '{', '}', '|', '+', '?':
				out = append(out, next)
				i++
				continue
			}
			out = append(out, c, next)
			i++
			continue
		}
		switch c {
		case '(', ')', '{', '}', '|', '+', '?':
			out = append(out, '\\', c)
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
