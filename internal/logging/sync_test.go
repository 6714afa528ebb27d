package logging

import (
	"bytes"
	"io"
	"sync"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

// newSyncBuffer returns a reader func and a writer safe to share across goroutines.
func newSyncBuffer() (func() string, io.Writer) {
	s := &syncBuffer{}
	return func() string {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.buf.String()
	}, s
}
