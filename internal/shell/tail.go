package shell

import "strings"

// TailBuffer is an io.Writer that keeps only the last limit bytes written.
type TailBuffer struct {
	limit int
	buf   []byte
}

// NewTailBuffer creates a TailBuffer keeping limit bytes.
func NewTailBuffer(limit int) *TailBuffer {
	return &TailBuffer{limit: limit}
}

func (t *TailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if n >= t.limit {
		t.buf = append(t.buf[:0], p[n-t.limit:]...)
		return n, nil
	}
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = t.buf[over:]
	}
	return n, nil
}

func (t *TailBuffer) String() string {
	return strings.TrimSpace(string(t.buf))
}
