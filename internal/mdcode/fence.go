package mdcode

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrNotFoundCodeSection is returned by [Locator.Locate] when the cursor is
	// not inside a fenced block of the target language.
	ErrNotFoundCodeSection = errors.New("no code section found")

	// ErrCursorOutOfRange is returned when the cursor line is not a line of
	// the document.
	ErrCursorOutOfRange = errors.New("cursor line out of range")
)

var reFence = regexp.MustCompile("^[[:blank:]]*(`{3,})(.*)$")

type fenceKind int

const (
	notFence fenceKind = iota
	plainFence
	taggedFence
)

type fence struct {
	kind fenceKind
	lang string
	info string
}

func parseFence(line string) fence {
	subs := reFence.FindStringSubmatch(line)
	if subs == nil {
		return fence{kind: notFence}
	}

	info := strings.TrimSpace(subs[2])
	if len(info) == 0 {
		return fence{kind: plainFence}
	}

	f := fence{kind: taggedFence, info: info}

	if all := reInfo.FindStringSubmatch(info); all != nil {
		f.lang = all[1]
	}

	return f
}

// Locator finds the fenced block of one language enclosing a cursor line.
//
// Only fences tagged with Lang open a block and only plain fences close one,
// so an output block appended after a run is never itself executable.
type Locator struct {
	Lang string
	// EOL terminates every body line of the returned section.
	EOL string
}

// Locate returns the section enclosing the cursor line. The scan is inclusive
// of the cursor line in both directions, so a cursor placed on either fence
// resolves to the same section as a cursor inside the body.
func (l Locator) Locate(lines []string, cursor int) (*Section, error) {
	if cursor < 0 || cursor >= len(lines) {
		return nil, fmt.Errorf("%w: %d of %d", ErrCursorOutOfRange, cursor, len(lines))
	}

	open, err := l.findOpen(lines, cursor)
	if err != nil {
		return nil, err
	}

	closing := l.findClose(lines, cursor)
	if closing < 0 || closing <= open.line {
		return nil, ErrNotFoundCodeSection
	}

	lang, meta, err := parseInfo([]byte(open.info))
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", open.line+1, err)
	}

	return &Section{
		Lang:            lang,
		Meta:            meta,
		Code:            l.join(lines[open.line+1 : closing]),
		OpenLine:        open.line,
		CloseLine:       closing,
		InsertAfterLine: closing + 1,
	}, nil
}

type openFence struct {
	line int
	info string
}

// findOpen walks up from the cursor. Any other fence met above the cursor
// means the cursor sits outside a block of the target language.
func (l Locator) findOpen(lines []string, cursor int) (openFence, error) {
	for i := cursor; i >= 0; i-- {
		f := parseFence(lines[i])

		switch {
		case f.kind == notFence:
			continue
		case f.kind == taggedFence && f.lang == l.Lang:
			return openFence{line: i, info: f.info}, nil
		case f.kind == plainFence && i == cursor:
			continue
		default:
			return openFence{}, ErrNotFoundCodeSection
		}
	}

	return openFence{}, ErrNotFoundCodeSection
}

func (l Locator) findClose(lines []string, cursor int) int {
	for i := cursor; i < len(lines); i++ {
		if parseFence(lines[i]).kind == plainFence {
			return i
		}
	}

	return -1
}

func (l Locator) join(lines []string) string {
	var sb strings.Builder

	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString(l.eol())
	}

	return sb.String()
}

func (l Locator) eol() string {
	if len(l.EOL) == 0 {
		return "\n"
	}

	return l.EOL
}
