package upload

import (
	"sync"
	"sync/atomic"
)

// part is the bookkeeping record for one multipart part.
type part struct {
	number int // 1-based
	offset int64
	size   int64

	// loaded counts bytes confirmed uploaded for this part; never exceeds size
	loaded atomic.Int64
	etag   string
}

// splitParts slices total bytes into consecutive parts of at most partSize.
func splitParts(total, partSize int64) []*part {
	count := int((total + partSize - 1) / partSize)
	parts := make([]*part, 0, count)
	for i := 0; i < count; i++ {
		offset := int64(i) * partSize
		size := partSize
		if remaining := total - offset; remaining < size {
			size = remaining
		}
		parts = append(parts, &part{number: i + 1, offset: offset, size: size})
	}
	return parts
}

// progressTracker accumulates confirmed bytes and serializes OnProgress
// callbacks. Only successful transfers are counted, keeping reported
// progress monotonic across retries.
type progressTracker struct {
	total int64
	cb    func(Progress)

	mu   sync.Mutex
	sent int64 // guarded by mu so callbacks observe non-decreasing totals
}

func newProgressTracker(total int64, cb func(Progress)) *progressTracker {
	return &progressTracker{total: total, cb: cb}
}

func (pt *progressTracker) add(n int64) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.sent += n
	if pt.cb == nil {
		return
	}
	pt.cb(Progress{
		TotalBytes: pt.total,
		SentBytes:  pt.sent,
		Percent:    float64(pt.sent) / float64(pt.total) * 100,
	})
}
