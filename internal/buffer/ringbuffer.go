package buffer

import (
	"strings"
	"sync"
)

type Buffer interface {
	GetMessages() string
}

// RingBuffer хранит последние строки лога для команды /logs.
// Реализует io.Writer, поэтому подключается через log.SetOutput.
type RingBuffer struct {
	mu    sync.Mutex
	lines []string
	max   int
}

func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		lines: make([]string, 0, size),
		max:   size,
	}
}

// Write - потокобезопасная запись, пустые строки не сохраняются
func (rb *RingBuffer) Write(p []byte) (n int, err error) {
	line := strings.TrimSpace(string(p))
	if line == "" {
		return len(p), nil
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.lines = append(rb.lines, line)
	if len(rb.lines) > rb.max {
		// Вытесняем самые старые строки
		rb.lines = append(rb.lines[:0], rb.lines[len(rb.lines)-rb.max:]...)
	}

	return len(p), nil
}

// Lines - копия сохранённых строк, от старых к новым
func (rb *RingBuffer) Lines() []string {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	out := make([]string, len(rb.lines))
	copy(out, rb.lines)
	return out
}

// GetMessages - сохранённые строки одним сообщением
func (rb *RingBuffer) GetMessages() string {
	return strings.Join(rb.Lines(), "\n")
}
