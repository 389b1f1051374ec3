// Package runner writes a code block to a file and runs an external tool on it
// through an in-process POSIX shell.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Source is the code handed to the tool.
type Source struct {
	Code string
	Lang string
	// File is the requested file name; empty means main.<lang>.
	File string
}

func (s Source) filename() string {
	if len(s.File) != 0 {
		return filepath.Base(filepath.FromSlash(s.File))
	}

	if len(s.Lang) != 0 {
		return "main." + strings.ToLower(s.Lang)
	}

	return "main.txt"
}

// Log receives the tool's standard error and progress messages.
type Log interface {
	Append(text string)
	LogDebug(message string)
}

// ToolError reports a tool that ran and exited with a non-zero status.
type ToolError struct {
	Status uint8
	Stderr string
}

func (e *ToolError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if len(msg) == 0 {
		return fmt.Sprintf("command exited with %d", e.Status)
	}

	if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
		msg = msg[:idx]
	}

	return fmt.Sprintf("command exited with %d: %s", e.Status, msg)
}

var ErrEmptyCommand = errors.New("command is empty")

// Shell runs Command for every source. Placeholders in Command:
//
//	{}      path of the source file
//	{tool}  Tool
//	{lang}  language of the source
//	{dir}   working directory
type Shell struct {
	Command string
	Tool    string

	// TempDir holds one directory per run; empty means os.TempDir().
	TempDir string
	// Keep leaves the per-run directory in place.
	Keep bool

	Log Log
}

// Run writes src to a fresh directory and runs the command in dir. It returns
// the command's standard output. A non-zero exit yields a *ToolError after the
// standard error has been written to Log.
func (s *Shell) Run(ctx context.Context, src Source, dir string) (string, error) {
	if len(strings.TrimSpace(s.Command)) == 0 {
		return "", ErrEmptyCommand
	}

	path, cleanup, err := s.writeSource(src)
	if err != nil {
		return "", err
	}

	defer cleanup()

	expanded := s.expand(path, src, dir)
	s.debug("running " + expanded)

	var stdout, stderr bytes.Buffer

	status, err := runCommand(ctx, expanded, dir, &stdout, &stderr)

	s.append(stderr.String())

	if err != nil {
		return "", err
	}

	if status != 0 {
		return "", &ToolError{Status: status, Stderr: stderr.String()}
	}

	return stdout.String(), nil
}

func (s *Shell) writeSource(src Source) (string, func(), error) {
	base := s.TempDir
	if len(base) == 0 {
		base = os.TempDir()
	}

	runDir := filepath.Join(base, "mdplay-"+uuid.NewString())

	if err := os.MkdirAll(runDir, dirMode); err != nil {
		return "", nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	cleanup := func() {
		if s.Keep {
			s.debug("kept " + runDir)

			return
		}

		os.RemoveAll(runDir)
	}

	path := filepath.Join(runDir, src.filename())

	if err := os.WriteFile(path, []byte(src.Code), fileMode); err != nil {
		cleanup()

		return "", nil, fmt.Errorf("failed to write source file: %w", err)
	}

	return path, cleanup, nil
}

func (s *Shell) expand(path string, src Source, dir string) string {
	expanded := strings.ReplaceAll(s.Command, "{tool}", s.Tool)
	expanded = strings.ReplaceAll(expanded, "{lang}", src.Lang)
	expanded = strings.ReplaceAll(expanded, "{dir}", quote(dir))

	return strings.ReplaceAll(expanded, "{}", quote(path))
}

// quote single-quotes s for the shell unless it is made of safe characters.
func quote(s string) string {
	if len(s) != 0 && strings.IndexFunc(s, unsafeRune) < 0 {
		return s
	}

	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func unsafeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("/._-+:=@%,", r):
		return false
	default:
		return true
	}
}

func runCommand(ctx context.Context, command, dir string, stdout, stderr *bytes.Buffer) (uint8, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return 0, fmt.Errorf("failed to parse command %q: %w", command, err)
	}

	runner, err := interp.New(interp.Dir(dir), interp.StdIO(nil, stdout, stderr))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare command: %w", err)
	}

	err = runner.Run(ctx, file)
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return status, nil
		}

		return 0, fmt.Errorf("failed to run command: %w", err)
	}

	return 0, nil
}

func (s *Shell) debug(message string) {
	if s.Log != nil {
		s.Log.LogDebug(message)
	}
}

func (s *Shell) append(text string) {
	if s.Log != nil {
		s.Log.Append(text)
	}
}

const (
	dirMode  = 0o755
	fileMode = 0o644
)
