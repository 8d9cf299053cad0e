// Package utils contains small helpers shared by the command line entry point.
package utils

import (
	"io"
	"sync"
)

// DeferredWriter buffers writes until Flush. zerolog writes one event per
// Write call, so each call is kept as a separate record and replayed in order.
type DeferredWriter struct {
	mu      sync.Mutex
	records [][]byte
}

func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec := make([]byte, len(p))
	copy(rec, p)
	d.records = append(d.records, rec)

	return len(p), nil
}

// Flush replays buffered records to w and empties the buffer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	records := d.records
	d.records = nil
	d.mu.Unlock()

	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return err
		}
	}

	return nil
}

// Len returns the number of buffered records.
func (d *DeferredWriter) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.records)
}
