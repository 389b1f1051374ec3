package mdcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		eol    string
		want   string
	}{
		{"terminated", "2\n", "\n", "\n```\n2\n```\n"},
		{"unterminated", "2", "\n", "\n```\n2\n```\n"},
		{"crlf document", "a\nb\n", "\r\n", "\r\n```\r\na\r\nb\r\n```\r\n"},
		{"crlf output in lf document", "a\r\nb", "\n", "\n```\na\nb\n```\n"},
		{"empty", "", "\n", "\n```\n\n```\n"},
		{"default eol", "x\n", "", "\n```\nx\n```\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatOutput(tt.output, tt.eol))
		})
	}
}

func TestFormatOutputSplicesAfterBlock(t *testing.T) {
	sec, err := Locator{Lang: "v", EOL: "\n"}.Locate(sample, 2)
	if err != nil {
		t.Fatal(err)
	}

	head := strings.Join(sample[:sec.InsertAfterLine], "\n") + "\n"
	tail := strings.Join(sample[sec.InsertAfterLine:], "\n")
	doc := head + FormatOutput("2\n", "\n") + tail

	want := []string{"text", "```v", "println(1+1)", "```", "", "```", "2", "```", "more"}
	assert.Equal(t, want, strings.Split(doc, "\n"))
}
