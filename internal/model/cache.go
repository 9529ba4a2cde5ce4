package model

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/KirMaid/CloudCS-Lab1/internal/pkg/metrics"
)

// CachingProvider keeps loaded models across requests.
// Local model files are watched; any change to a file evicts its models so
// the next Load picks up the replacement.
type CachingProvider struct {
	next    Provider
	cache   *lru.Cache[string, Model]
	watcher *fsnotify.Watcher
	logger  *zap.Logger

	// mu serializes loads and evictions so an event can never be lost
	// between a load finishing and its result being cached
	mu          sync.Mutex
	keysByFile  map[string]map[string]struct{}
	watchedDirs map[string]bool
}

// NewCachingProvider wraps next with an LRU of the given size
func NewCachingProvider(next Provider, size int, logger *zap.Logger) (*CachingProvider, error) {
	cache, err := lru.New[string, Model](size)
	if err != nil {
		return nil, fmt.Errorf("create model cache: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create model watcher: %w", err)
	}

	return &CachingProvider{
		next:        next,
		cache:       cache,
		watcher:     watcher,
		logger:      logger,
		keysByFile:  make(map[string]map[string]struct{}),
		watchedDirs: make(map[string]bool),
	}, nil
}

// Load returns the cached model for path, loading it on a miss
func (p *CachingProvider) Load(ctx context.Context, path string) (Model, error) {
	if m, ok := p.cache.Get(path); ok {
		metrics.RecordModelCache(true)
		return m, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another request may have loaded it while we waited
	if m, ok := p.cache.Get(path); ok {
		metrics.RecordModelCache(true)
		return m, nil
	}
	metrics.RecordModelCache(false)

	// Watch before loading so a write during the load still evicts
	if local, ok := LocalPath(path); ok {
		if err := p.watch(local, path); err != nil {
			p.logger.Warn("model file will not be hot-reloaded",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}

	m, err := p.next.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	p.cache.Add(path, m)
	return m, nil
}

// Cached reports whether a model for path is currently cached
func (p *CachingProvider) Cached(path string) bool {
	return p.cache.Contains(path)
}

// Run processes file events until ctx is done
func (p *CachingProvider) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-p.watcher.Events:
			if !ok {
				return nil
			}
			p.handleEvent(event)
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("model watcher error", zap.Error(err))
		}
	}
}

// Close stops the file watcher
func (p *CachingProvider) Close() error {
	return p.watcher.Close()
}

func (p *CachingProvider) watch(file, key string) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}

	// Watch the directory: editors and deploy tools often replace the file
	// with a rename, which drops a watch placed on the file itself
	dir := filepath.Dir(abs)
	if !p.watchedDirs[dir] {
		if err := p.watcher.Add(dir); err != nil {
			return err
		}
		p.watchedDirs[dir] = true
	}

	keys, ok := p.keysByFile[abs]
	if !ok {
		keys = make(map[string]struct{})
		p.keysByFile[abs] = keys
	}
	keys[key] = struct{}{}
	return nil
}

func (p *CachingProvider) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	abs := filepath.Clean(event.Name)
	for key := range p.keysByFile[abs] {
		if p.cache.Remove(key) {
			p.logger.Info("model file changed, evicted cached model",
				zap.String("path", key),
				zap.String("op", event.Op.String()),
			)
		}
	}
}
