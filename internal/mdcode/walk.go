package mdcode

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// reInfo splits an info string into its first word, the language, and the
// metadata that follows it.
var reInfo = regexp.MustCompile(`^\s*(\S+)\s*(.*?)\s*$`)

// Walker is a callback invoked for each fenced code block found in a Markdown
// document.
type Walker func(block *Block) error

// Scan parses a Markdown document with goldmark and calls walker for every
// fenced code block, in document order. Scanning stops at the first error
// returned by walker.
func Scan(source []byte, walker Walker) error {
	parser := goldmark.DefaultParser()
	reader := text.NewReader(source)
	root := parser.Parse(reader).OwnerDocument()

	// consumed is the offset up to which source belongs to blocks already
	// seen; a fence without info string or body is searched for after it.
	var consumed int

	return ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			consumed = max(consumed, blockStop(node))

			return ast.WalkContinue, nil
		}

		fcb := asFencedCodeBlock(node, entering)
		if fcb == nil {
			return ast.WalkContinue, nil
		}

		block, err := extractBlock(fcb, source, consumed)
		if err != nil {
			return ast.WalkStop, err
		}

		consumed = max(consumed, lineStart(source, block.EndLine+1))

		if err := walker(block); err != nil {
			return ast.WalkStop, err
		}

		return ast.WalkContinue, nil
	})
}

func blockStop(node ast.Node) int {
	if node.Type() != ast.TypeBlock {
		return 0
	}

	lines := node.Lines()
	if lines == nil || lines.Len() == 0 {
		return 0
	}

	return lines.At(lines.Len() - 1).Stop
}

func asFencedCodeBlock(node ast.Node, entering bool) *ast.FencedCodeBlock {
	if entering || node.Kind() != ast.KindFencedCodeBlock {
		return nil
	}

	if fcb, ok := node.(*ast.FencedCodeBlock); ok {
		return fcb
	}

	return nil
}

func extractBlock(fcb *ast.FencedCodeBlock, source []byte, consumed int) (*Block, error) {
	lang, meta, err := extractInfo(fcb, source)
	if err != nil {
		return nil, err
	}

	block := &Block{Lang: lang, Meta: meta, Code: extractCode(fcb, source)}
	block.StartLine, block.EndLine = extractLines(fcb, source, consumed)

	return block, nil
}

// extractLines returns the 1-based lines of the opening and closing fences.
func extractLines(fcb *ast.FencedCodeBlock, source []byte, consumed int) (int, int) {
	var startLine int

	lines := fcb.Lines()

	switch {
	case fcb.Info != nil:
		startLine = lineAt(source, fcb.Info.Segment.Start)
	case lines.Len() > 0:
		startLine = lineAt(source, lines.At(0).Start) - 1
	default:
		startLine = bareFenceLine(source, consumed)
	}

	if lines.Len() == 0 {
		return startLine, startLine + 1
	}

	// The last segment includes its newline, so its stop offset already sits
	// on the closing fence line.
	last := lines.At(lines.Len() - 1)
	endLine := lineAt(source, last.Stop)

	if last.Stop == 0 || source[last.Stop-1] != '\n' {
		endLine++
	}

	return startLine, endLine
}

func lineAt(source []byte, offset int) int {
	if offset < 0 {
		return 1
	}

	if offset > len(source) {
		offset = len(source)
	}

	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}

var reBareFence = regexp.MustCompile("^[[:blank:]]*(`{3,}|~{3,})[[:blank:]]*\r?$")

// bareFenceLine returns the 1-based line of the first fence without info
// string at or after offset.
func bareFenceLine(source []byte, offset int) int {
	offset = min(max(offset, 0), len(source))
	line := lineAt(source, offset)

	for rest := source[offset:]; len(rest) > 0; line++ {
		current := rest

		if idx := bytes.IndexByte(rest, '\n'); idx >= 0 {
			current, rest = rest[:idx], rest[idx+1:]
		} else {
			rest = nil
		}

		if reBareFence.Match(current) {
			return line
		}
	}

	return line
}

// lineStart returns the offset at which the 1-based line begins, or
// len(source) past the last line.
func lineStart(source []byte, line int) int {
	offset := 0

	for n := 1; n < line; n++ {
		idx := bytes.IndexByte(source[offset:], '\n')
		if idx < 0 {
			return len(source)
		}

		offset += idx + 1
	}

	return offset
}

func extractCode(fcb *ast.FencedCodeBlock, source []byte) []byte {
	var buff bytes.Buffer

	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)

		buff.Write(seg.Value(source))
	}

	return buff.Bytes()
}

func extractInfo(fcb *ast.FencedCodeBlock, source []byte) (string, Meta, error) {
	if fcb.Info == nil {
		return "", nil, nil
	}

	return parseInfo(fcb.Info.Text(source))
}

func parseInfo(text []byte) (string, Meta, error) {
	all := reInfo.FindSubmatch(text)
	if all == nil {
		return "", nil, nil
	}

	var (
		lang string
		meta Meta
		err  error
	)

	if len(all) > 1 {
		lang = string(all[1])
	}

	if len(all) <= 2 { //nolint:gomnd
		return lang, meta, nil
	}

	meta, err = parseMeta(all[2])

	return lang, meta, err
}
