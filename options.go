package main

import (
	"io"

	"github.com/jcorbin/goed/internal/flushio"
)

// EditorOption configures an Editor at construction time, mirroring the
// teacher's VMOption/VMOptions pattern (options.go).
type EditorOption interface{ apply(ed *Editor) }

type editorOptions struct {
	prompt         string
	restricted     bool
	scripted       bool
	verboseErrors  bool
	extendedRegex  bool
	stripCR        bool
	loose          bool
	highlight      bool
}

var defaultEditorOptions = EditorOptions()

// EditorOptions flattens a sequence of options into one, the same way
// VMOptions does, so that option-producing helpers can return a single
// value.
func EditorOptions(opts ...EditorOption) EditorOption {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

type noption struct{}

func (noption) apply(ed *Editor) {}

type options []EditorOption

func (opts options) apply(ed *Editor) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(ed)
		}
	}
}

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(ed *Editor) { ed.logfn = logfn }

// WithLogfn installs a diagnostic log sink for logf; -v/--verbose does not
// install one (it only enables verbose error messages).
func WithLogfn(logfn func(mess string, args ...interface{})) EditorOption {
	return withLogfn(logfn)
}

type inputOption struct {
	r    io.Reader
	name string
}

// WithInput adds r to the command input queue (§6): multiple calls queue
// multiple sources, read in order, the way the teacher's inputOption feeds
// VM.Queue.
func WithInput(r io.Reader, name string) EditorOption { return inputOption{r, name} }

func (i inputOption) apply(ed *Editor) {
	ed.Queue = append(ed.Queue, namedReader{i.r, i.name})
}

type namedReader struct {
	io.Reader
	name string
}

func (n namedReader) Name() string { return n.name }

type outputOption struct{ io.Writer }

// WithOutput sets the editor's primary output stream, flushing and
// replacing whatever was installed before (matching teacher semantics for
// repeated application).
func WithOutput(w io.Writer) EditorOption { return outputOption{w} }

func (o outputOption) apply(ed *Editor) {
	if ed.out != nil {
		ed.out.Flush()
	}
	ed.out = flushio.NewWriteFlusher(o.Writer)
	if cl, ok := o.Writer.(io.Closer); ok {
		ed.closers = append(ed.closers, cl)
	}
}

type promptOption string

// WithPrompt sets the command prompt string printed when -p is given or
// toggled on via P.
func WithPrompt(p string) EditorOption { return promptOption(p) }

func (p promptOption) apply(ed *Editor) { ed.opts.prompt = string(p) }

type boolOption struct {
	set func(*editorOptions, bool)
	val bool
}

func (b boolOption) apply(ed *Editor) { b.set(&ed.opts, b.val) }

// WithRestricted enables restricted mode (-r): shell escapes, and
// filenames containing '/' or starting with '!', are rejected.
func WithRestricted(v bool) EditorOption {
	return boolOption{func(o *editorOptions, v bool) { o.restricted = v }, v}
}

// WithScripted enables scripted mode (-s): no diagnostics or byte counts
// are printed, matching classic ed -s.
func WithScripted(v bool) EditorOption {
	return boolOption{func(o *editorOptions, v bool) { o.scripted = v }, v}
}

// WithVerboseErrors enables -H/-v style full error-message printing
// instead of a bare "?".
func WithVerboseErrors(v bool) EditorOption {
	return boolOption{func(o *editorOptions, v bool) { o.verboseErrors = v }, v}
}

// WithExtendedRegex selects POSIX-ERE-flavored pattern syntax (-E) instead
// of the BRE-flavored default.
func WithExtendedRegex(v bool) EditorOption {
	return boolOption{func(o *editorOptions, v bool) { o.extendedRegex = v }, v}
}

// WithStripCR enables --strip-trailing-cr, stripping a trailing \r from
// every line read in.
func WithStripCR(v bool) EditorOption {
	return boolOption{func(o *editorOptions, v bool) { o.stripCR = v }, v}
}

// WithLoose records the -G compatibility-mode flag. No command consults it,
// so it does not change which commands are accepted.
func WithLoose(v bool) EditorOption {
	return boolOption{func(o *editorOptions, v bool) { o.loose = v }, v}
}

// WithHighlighter enables the ANSI syntax-highlighting hook on l/n/p output
// for recognized file types.
func WithHighlighter(v bool) EditorOption {
	return boolOption{func(o *editorOptions, v bool) { o.highlight = v }, v}
}
