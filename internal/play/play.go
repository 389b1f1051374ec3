// Package play runs the code block under the cursor and appends its output to
// the document.
package play

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ezerfernandes/mdplay/internal/config"
	"github.com/ezerfernandes/mdplay/internal/document"
	"github.com/ezerfernandes/mdplay/internal/filelock"
	"github.com/ezerfernandes/mdplay/internal/mdcode"
	"github.com/ezerfernandes/mdplay/internal/runner"
)

// NotFoundNotice is shown when the cursor is not inside a runnable block.
const NotFoundNotice = "no code section found"

// Editor is the part of the host editor a run needs.
type Editor interface {
	ActiveDocument() (*document.Document, bool)
	CursorLine() int
	InsertText(line int, text string) error
	Setting(key string) string
	ShowError(message string)
}

// Runner executes source code with the given working directory and returns
// its output.
type Runner interface {
	Run(ctx context.Context, src runner.Source, dir string) (string, error)
}

// Output is the log channel, cleared at the start of every run.
type Output interface {
	Clear()
	LogInfo(message string)
	LogTrace(message string)
}

// Command is the "run embedded code block" command.
type Command struct {
	Lang   string
	Runner Runner
	Output Output

	// LockDir holds per-document lock files; empty means os.TempDir().
	LockDir string
}

// Execute runs the block under the editor's cursor. Without an active document
// it does nothing. A cursor outside any block is reported to the user and is
// not an error; runner failures are returned and leave the document as is.
func (c *Command) Execute(ctx context.Context, ed Editor) error {
	doc, ok := ed.ActiveDocument()
	if !ok {
		return nil
	}

	lock, err := filelock.ForDocument(c.LockDir, doc.Path)
	if err != nil {
		return err
	}

	acquired, err := lock.TryLock()
	if err != nil {
		return err
	}

	if !acquired {
		if err := lock.Lock(); err != nil {
			return err
		}
	}

	defer lock.Unlock()

	c.clear()

	if !acquired {
		c.info("waited for another run on " + doc.Path)
	}

	loc := mdcode.Locator{Lang: c.Lang, EOL: string(doc.EOL)}

	section, err := loc.Locate(doc.Lines, ed.CursorLine())
	if errors.Is(err, mdcode.ErrNotFoundCodeSection) {
		ed.ShowError(NotFoundNotice)

		return nil
	}

	if err != nil {
		return err
	}

	dir := WorkDir(ed.Setting(config.KeyWorkDir), doc.Path)

	c.info(fmt.Sprintf("running %s block at line %d in %s", section.Lang, section.OpenLine+1, dir))

	c.trace("source:\n" + section.Code)

	src := runner.Source{Code: section.Code, Lang: section.Lang, File: section.Meta.File()}

	out, err := c.Runner.Run(ctx, src, dir)
	if err != nil {
		return err
	}

	return ed.InsertText(section.InsertAfterLine, mdcode.FormatOutput(out, string(doc.EOL)))
}

// WorkDir returns override when set, otherwise the directory holding the
// document.
func WorkDir(override, docPath string) string {
	if len(override) != 0 {
		return override
	}

	return filepath.Dir(docPath)
}

func (c *Command) clear() {
	if c.Output != nil {
		c.Output.Clear()
	}
}

func (c *Command) info(message string) {
	if c.Output != nil {
		c.Output.LogInfo(message)
	}
}

func (c *Command) trace(message string) {
	if c.Output != nil {
		c.Output.LogTrace(message)
	}
}
