// Package editor is the file-backed host editor: it exposes one document, a
// cursor, settings, and user notices to the run command.
package editor

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ezerfernandes/mdplay/internal/document"
)

// ErrStaleDocument is returned by [FileHost.InsertText] when the file changed
// on disk after the session was opened, so recorded lines may no longer match.
var ErrStaleDocument = errors.New("document changed since it was read")

// Settings looks up string settings by key.
type Settings interface {
	Setting(key string) string
}

// FileHost edits one document through a document.FS.
type FileHost struct {
	fsys     document.FS
	doc      *document.Document
	original []byte
	cursor   int
	settings Settings
	notices  io.Writer
}

// Open loads the document at path with the cursor on the given 0-based line.
// An empty path opens a host without an active document.
func Open(fsys document.FS, path string, cursor int, settings Settings, notices io.Writer) (*FileHost, error) {
	host := &FileHost{fsys: fsys, cursor: cursor, settings: settings, notices: notices}

	if len(path) == 0 {
		return host, nil
	}

	src, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	host.doc = document.Parse(path, src)
	host.original = src

	return host, nil
}

// ActiveDocument returns the open document, if any.
func (h *FileHost) ActiveDocument() (*document.Document, bool) {
	return h.doc, h.doc != nil
}

// CursorLine returns the 0-based cursor line.
func (h *FileHost) CursorLine() int {
	return h.cursor
}

// InsertText inserts text at the start of line and saves the document in a
// single write.
func (h *FileHost) InsertText(line int, text string) error {
	if h.doc == nil {
		return errors.New("no active document")
	}

	current, err := h.fsys.ReadFile(h.doc.Path)
	if err != nil {
		return fmt.Errorf("failed to re-read %s: %w", h.doc.Path, err)
	}

	if !bytes.Equal(current, h.original) {
		return fmt.Errorf("%w: %s", ErrStaleDocument, h.doc.Path)
	}

	if err := h.doc.Insert(line, text); err != nil {
		return err
	}

	if err := document.Save(h.fsys, h.doc); err != nil {
		return err
	}

	h.original = h.doc.Bytes()

	return nil
}

// Setting returns the value of a setting, or "" when there are no settings.
func (h *FileHost) Setting(key string) string {
	if h.settings == nil {
		return ""
	}

	return h.settings.Setting(key)
}

// ShowError displays a notice to the user.
func (h *FileHost) ShowError(message string) {
	if h.notices == nil {
		return
	}

	fmt.Fprintln(h.notices, color.New(color.FgRed).Sprint(message))
}
