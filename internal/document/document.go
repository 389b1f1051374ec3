// Package document holds a text document as an ordered list of lines sharing a
// single line-ending convention.
package document

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// EOL is a line-ending convention.
type EOL string

const (
	LF   EOL = "\n"
	CRLF EOL = "\r\n"
)

// ErrLineOutOfRange is returned by [Document.Insert] for a line that is
// neither in the document nor directly after its last line.
var ErrLineOutOfRange = errors.New("line out of range")

// Document is a line-addressable text document. Lines never contain their
// line ending.
type Document struct {
	Path  string
	Lines []string
	EOL   EOL

	// terminated reports whether the last line carries a line ending.
	terminated bool
}

// Parse splits src into lines. The line-ending convention is taken from the
// first line ending found, defaulting to LF.
func Parse(path string, src []byte) *Document {
	text := string(src)
	doc := &Document{Path: path, EOL: detectEOL(text)}

	if len(text) == 0 {
		doc.Lines = []string{""}

		return doc
	}

	doc.Lines = strings.Split(text, "\n")

	if last := len(doc.Lines) - 1; len(doc.Lines[last]) == 0 {
		doc.Lines = doc.Lines[:last]
		doc.terminated = true
	}

	for i, line := range doc.Lines {
		doc.Lines[i] = strings.TrimSuffix(line, "\r")
	}

	return doc
}

func detectEOL(text string) EOL {
	idx := strings.IndexByte(text, '\n')
	if idx > 0 && text[idx-1] == '\r' {
		return CRLF
	}

	return LF
}

// String renders the document back to text.
func (d *Document) String() string {
	text := strings.Join(d.Lines, string(d.EOL))
	if d.terminated {
		text += string(d.EOL)
	}

	return text
}

// Bytes renders the document back to text.
func (d *Document) Bytes() []byte {
	return []byte(d.String())
}

// Insert places text at the first column of line. Inserting at len(Lines)
// appends to the document, terminating its last line first when needed.
func (d *Document) Insert(line int, text string) error {
	if line < 0 || line > len(d.Lines) {
		return fmt.Errorf("%w: %d of %d", ErrLineOutOfRange, line, len(d.Lines))
	}

	var sb strings.Builder

	for _, l := range d.Lines[:line] {
		sb.WriteString(l)
		sb.WriteString(string(d.EOL))
	}

	sb.WriteString(text)

	rest := &Document{Lines: d.Lines[line:], EOL: d.EOL, terminated: d.terminated}
	if line < len(d.Lines) {
		sb.WriteString(rest.String())
	}

	updated := Parse(d.Path, []byte(sb.String()))
	updated.EOL = d.EOL

	*d = *updated

	return nil
}

// FS is the file access a document needs.
type FS interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// Load reads and parses the document at path.
func Load(fsys FS, path string) (*Document, error) {
	src, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return Parse(path, src), nil
}

// Save writes the document back to its path.
func Save(fsys FS, doc *Document) error {
	if err := fsys.WriteFile(doc.Path, doc.Bytes(), fileMode); err != nil {
		return fmt.Errorf("failed to write %s: %w", doc.Path, err)
	}

	return nil
}

const fileMode = 0o644
