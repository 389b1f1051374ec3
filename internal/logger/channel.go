package logger

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// Channel is the output channel external tool output is reported on. It is
// created once per process and cleared at the start of every run; Transcript
// returns what was written since the last Clear.
type Channel struct {
	*ConsoleLogger

	name   string
	out    io.Writer
	mu     sync.Mutex
	buffer bytes.Buffer
}

// NewChannel creates a channel named name. Raw output goes to out; log
// messages are formatted by a ConsoleLogger at logLevel.
func NewChannel(name string, out io.Writer, logLevel string) *Channel {
	ch := &Channel{name: name, out: out}
	ch.ConsoleLogger = NewConsoleLogger(&teeWriter{ch: ch}, logLevel)
	ch.ConsoleLogger.colorOutput = IsTerminal(out)

	return ch
}

// Name returns the channel name.
func (c *Channel) Name() string {
	return c.name
}

// Clear starts a new run.
func (c *Channel) Clear() {
	c.mu.Lock()
	c.buffer.Reset()
	c.mu.Unlock()

	c.LogDebug("--- " + c.name + " ---")
}

// Append writes raw text, such as a tool's standard error, to the channel.
// A missing trailing newline is added.
func (c *Channel) Append(text string) {
	if len(text) == 0 {
		return
	}

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	c.write([]byte(text))
}

// Transcript returns everything written since the last Clear.
func (c *Channel) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.buffer.String()
}

func (c *Channel) write(p []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buffer.Write(p)

	if c.out != nil {
		c.out.Write(p)
	}
}

type teeWriter struct {
	ch *Channel
}

func (w *teeWriter) Write(p []byte) (int, error) {
	w.ch.write(p)

	return len(p), nil
}
