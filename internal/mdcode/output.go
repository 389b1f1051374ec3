package mdcode

import "strings"

const fenceMarker = "```"

// FormatOutput renders program output as a plain fenced block ready to be
// inserted at the start of the line following a code block. Line endings in
// output are converted to eol.
func FormatOutput(output, eol string) string {
	if len(eol) == 0 {
		eol = "\n"
	}

	output = normalizeEOL(output, eol)

	var sb strings.Builder

	sb.WriteString(eol)
	sb.WriteString(fenceMarker)
	sb.WriteString(eol)
	sb.WriteString(output)

	if !strings.HasSuffix(output, eol) {
		sb.WriteString(eol)
	}

	sb.WriteString(fenceMarker)
	sb.WriteString(eol)

	return sb.String()
}

func normalizeEOL(s, eol string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if eol == "\n" {
		return s
	}

	return strings.ReplaceAll(s, "\n", eol)
}
