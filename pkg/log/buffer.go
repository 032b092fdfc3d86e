package log

import (
	"fmt"
	"io"
	"sync"
)

const defaultBufferLines = 100

// Buffer keeps the most recent log records in memory. It is installed as the
// log writer while the TUI owns the terminal and flushed once it exits.
type Buffer struct {
	lines [][]byte
	next  int
	count int
	mu    sync.Mutex
}

// NewBuffer returns a [Buffer] keeping up to n records. n <= 0 keeps 100.
func NewBuffer(n int) *Buffer {
	if n <= 0 {
		n = defaultBufferLines
	}

	return &Buffer{lines: make([][]byte, n)}
}

// Write stores a copy of p as one record, dropping the oldest record when the
// buffer is full.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines[b.next] = append([]byte(nil), p...)
	b.next = (b.next + 1) % len(b.lines)
	b.count = min(b.count+1, len(b.lines))

	return len(p), nil
}

// Records returns copies of the stored records, oldest first.
func (b *Buffer) Records() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return nil
	}

	out := make([][]byte, 0, b.count)
	start := (b.next - b.count + len(b.lines)) % len(b.lines)

	for i := range b.count {
		line := b.lines[(start+i)%len(b.lines)]
		out = append(out, append([]byte(nil), line...))
	}

	return out
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.count
}

func (b *Buffer) Cap() int {
	return len(b.lines)
}

func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	clear(b.lines)
	b.next = 0
	b.count = 0
}

// WriteTo writes the stored records to w, oldest first.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, line := range b.Records() {
		n, err := w.Write(line)
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("write log record: %w", err)
		}
	}

	return total, nil
}
