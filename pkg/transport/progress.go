package transport

import (
	"io"
	"sync"
)

// progressReader reports bytes read from r to fn.
type progressReader struct {
	r     io.Reader
	total int64
	fn    ProgressFunc

	mu     sync.Mutex
	loaded int64
}

func newProgressReader(r io.Reader, total int64, fn ProgressFunc) io.Reader {
	if fn == nil {
		return r
	}
	return &progressReader{r: r, total: total, fn: fn}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.mu.Lock()
		p.loaded += int64(n)
		loaded := p.loaded
		p.mu.Unlock()
		p.fn(loaded, p.total)
	}
	return n, err
}
