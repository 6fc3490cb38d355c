// Package fileinput implements sequential input-line reading across a queue
// of named byte streams, tracking the current and last-scanned line for
// error reporting, and assembling extended (backslash-newline continued)
// lines per the classic ed input discipline.
package fileinput

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jcorbin/goed/internal/runeio"
)

// Location names an a line in an Input file.
type Location struct {
	Name string
	Line int
}

// Line combines a Location along with a bytes.Buffer for handling it.
type Line struct {
	Location
	bytes.Buffer
}

func (loc Location) String() string { return fmt.Sprintf("%v:%v", loc.Name, loc.Line) }
func (il Line) String() string      { return fmt.Sprintf("%v %q", il.Location, il.Buffer.String()) }

// Input implements sequential rune reading through a Queue of one or more
// input streams. Both the current and last scanned lines are tracked to
// facilitate user feedback.
type Input struct {
	rr    io.RuneReader
	Queue []io.Reader
	Last  Line
	Scan  Line
}

// ReadRune reads one rune from the current input stream, appending it into
// the current Scan line, and rolling Scan over to Last after line feed. A
// NUL byte is returned as a genuine rune (it is meaningful input, not a
// sentinel): callers that want to detect it do so by comparing the
// returned rune, not by treating err == nil && r == 0 as "no data".
func (in *Input) ReadRune() (rune, int, error) {
	if in.rr == nil && !in.nextIn() {
		return 0, 0, io.EOF
	}

	r, n, err := in.rr.ReadRune()
	if err != nil {
		if err == io.EOF && in.nextIn() {
			return in.ReadRune()
		}
		return 0, n, err
	}

	if r == '\n' {
		in.nextLine()
	} else {
		in.Scan.WriteRune(r)
	}
	return r, n, nil
}

// ReadLine reads one full logical input line, joining "extended" lines: a
// physical line whose final newline is preceded by an odd number of
// trailing backslashes is continued, with one backslash stripped before
// concatenation (the line's own newline is never included in the result).
// The returned bool is false if the stream ended without a final newline
// (the returned bytes, if any, are the unterminated tail); binary is set to
// true the first time a NUL byte is observed across any call.
func (in *Input) ReadLine(binary *bool) (line []byte, terminated bool, err error) {
	for {
		var part []byte
		for {
			r, _, rerr := in.ReadRune()
			if rerr != nil {
				if rerr == io.EOF {
					return append(line, part...), false, nil
				}
				return nil, false, rerr
			}
			if r == 0 && binary != nil {
				*binary = true
			}
			if r == '\n' {
				break
			}
			part = appendRune(part, r)
		}
		if n := trailingBackslashes(part); n%2 == 1 {
			line = append(line, part[:len(part)-1]...)
			continue
		}
		line = append(line, part...)
		return line, true, nil
	}
}

func appendRune(buf []byte, r rune) []byte {
	var tmp [4]byte
	n := copy(tmp[:], string(r))
	return append(buf, tmp[:n]...)
}

func trailingBackslashes(b []byte) int {
	n := 0
	for i := len(b) - 1; i >= 0 && b[i] == '\\'; i-- {
		n++
	}
	return n
}

func (in *Input) nextLine() {
	in.Last.Reset()
	in.Last.Name = in.Scan.Name
	in.Last.Line = in.Scan.Line
	in.Last.Write(in.Scan.Bytes())
	in.Scan.Reset()
	in.Scan.Line++
}

func (in *Input) nextIn() bool {
	in.nextLine()
	if in.rr != nil {
		if cl, ok := in.rr.(io.Closer); ok {
			cl.Close()
		}
		in.rr = nil
	}
	if len(in.Queue) > 0 {
		r := in.Queue[0]
		in.Queue = in.Queue[1:]
		in.rr = runeio.NewReader(r)
		in.Scan.Name = nameOf(r)
		in.Scan.Line = 1
	}
	return in.rr != nil
}

func nameOf(obj interface{}) string {
	if nom, ok := obj.(interface{ Name() string }); ok {
		return nom.Name()
	}
	return fmt.Sprintf("<unnamed %T>", obj)
}
