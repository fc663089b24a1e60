package archive

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Pool shares extraction resources between concurrent imports: the
// concurrency limiter and the temporary directory extracted files land in.
//
// The pool is reference counted. Acquire creates the underlying resources
// on first use; closing the last Extractor removes the temporary directory
// and everything extracted into it. Callers must keep their Extractor open
// for as long as they read the blobs it produced.
type Pool struct {
	logger *slog.Logger
	batch  int

	mu   sync.Mutex
	refs int
	dir  string
	seq  int
	sem  chan struct{}
}

// NewPool creates an idle pool. No resources are held until Acquire.
// batch bounds concurrent entry decompression; 0 means BatchSize.
func NewPool(logger *slog.Logger, batch int) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	if batch <= 0 {
		batch = BatchSize
	}
	return &Pool{logger: logger, batch: batch}
}

// Acquire returns an Extractor backed by the shared pool, starting the
// pool's resources if this is the first reference.
func (p *Pool) Acquire() (*Extractor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.refs == 0 {
		dir, err := os.MkdirTemp("", "tanko-extract-")
		if err != nil {
			return nil, fmt.Errorf("create extraction dir: %w", err)
		}
		p.dir = dir
		p.sem = make(chan struct{}, p.batch)
		p.logger.Debug("extraction pool started", "dir", dir)
	}
	p.refs++
	return &Extractor{pool: p}, nil
}

func (p *Pool) release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.refs--
	if p.refs > 0 {
		return
	}
	if err := os.RemoveAll(p.dir); err != nil {
		p.logger.Warn("failed to remove extraction dir", "dir", p.dir, "error", err)
	}
	p.logger.Debug("extraction pool stopped", "dir", p.dir)
	p.dir = ""
	p.sem = nil
}

// nextDir reserves a fresh subdirectory for one archive's output so entries
// from different archives with the same internal paths cannot collide.
func (p *Pool) nextDir() (string, error) {
	p.mu.Lock()
	p.seq++
	dir := filepath.Join(p.dir, strconv.Itoa(p.seq))
	p.mu.Unlock()

	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}
	return dir, nil
}

// Extractor is one reference to the shared pool. Not safe for concurrent
// use; acquire one per goroutine instead.
type Extractor struct {
	pool *Pool
	once sync.Once
}

// Close releases the pool reference. Blobs returned by this extractor
// become invalid once the last reference is gone. Idempotent.
func (e *Extractor) Close() error {
	e.once.Do(e.pool.release)
	return nil
}
