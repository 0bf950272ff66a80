package utils

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// DeferredWriter buffers writes in memory until Flush is called. When Limit
// is positive only the most recent Limit bytes are kept and Flush reports
// how many were dropped. Safe for concurrent use.
type DeferredWriter struct {
	Limit int

	mu      sync.Mutex
	buf     bytes.Buffer
	dropped int
}

// Write stores p in the internal buffer. It never fails.
func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.buf.Write(p)
	if d.Limit > 0 && d.buf.Len() > d.Limit {
		over := d.buf.Len() - d.Limit
		d.buf.Next(over)
		d.dropped += over
	}
	return len(p), nil
}

// Len returns the number of buffered bytes.
func (d *DeferredWriter) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Len()
}

// Flush writes all buffered data to w and clears the buffer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dropped > 0 {
		if _, err := fmt.Fprintf(w, "... %d bytes of earlier output dropped\n", d.dropped); err != nil {
			return err
		}
		d.dropped = 0
	}
	if d.buf.Len() == 0 {
		return nil
	}

	_, err := d.buf.WriteTo(w)
	return err
}
