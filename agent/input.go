package agent

import (
	"bufio"
	"context"
	"io"
	"sync"
)

const maxLineBytes = 1 << 20

// Input supplies user lines to the agent. ReadLine returns io.EOF once the
// stream is closed.
type Input interface {
	ReadLine(ctx context.Context) (string, error)
}

type scanResult struct {
	line string
	err  error
}

// LineReader reads newline-terminated lines from an io.Reader. The blocking
// read runs in its own goroutine so ReadLine can return when ctx is done.
type LineReader struct {
	scanner *bufio.Scanner
	once    sync.Once
	lines   chan scanResult
}

// NewLineReader wraps r, typically os.Stdin.
func NewLineReader(r io.Reader) *LineReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &LineReader{scanner: scanner, lines: make(chan scanResult)}
}

// ReadLine blocks until a full line is available or ctx is done. A line that
// arrives after cancellation is kept for the next call.
func (l *LineReader) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.once.Do(func() { go l.scan() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-l.lines:
		if !ok {
			return "", io.EOF
		}
		return res.line, res.err
	}
}

func (l *LineReader) scan() {
	defer close(l.lines)
	for l.scanner.Scan() {
		l.lines <- scanResult{line: l.scanner.Text()}
	}
	if err := l.scanner.Err(); err != nil {
		l.lines <- scanResult{err: err}
	}
}
