package agent

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader(t *testing.T) {
	r := NewLineReader(strings.NewReader("first\r\nsecond\nlast"))
	ctx := context.Background()

	for _, want := range []string{"first", "second", "last"} {
		got, err := r.ReadLine(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := r.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReaderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLineReader(strings.NewReader("x\n")).ReadLine(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLineReaderCancelWhileBlocked(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	r := NewLineReader(pr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := r.ReadLine(ctx)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("ReadLine did not return after cancel")
	}

	// The pending line is delivered to the next caller.
	go func() { _, _ = io.WriteString(pw, "late\n") }()
	got, err := r.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late", got)
}

func TestLineReaderScanError(t *testing.T) {
	pr, pw := io.Pipe()
	boom := errors.New("tty gone")
	go func() { _ = pw.CloseWithError(boom) }()

	_, err := NewLineReader(pr).ReadLine(context.Background())
	assert.ErrorIs(t, err, boom)
}
