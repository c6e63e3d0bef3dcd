package convert

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/semmap/model"
	"github.com/c360studio/semmap/prefix"
)

// WatchConfig configures the directory watcher.
type WatchConfig struct {
	// Root is the directory to watch, recursively.
	Root string

	// Pattern selects inputs by their slash-separated path relative to
	// Root, e.g. "**/*.sssom.tsv".
	Pattern string

	OutputDir    string
	InputFormat  string
	OutputFormat string

	Prefixes *prefix.Map
	Metadata model.Metadata

	// DebounceDelay is how long to wait for more changes before converting.
	DebounceDelay time.Duration
}

// WatchEvent reports one conversion triggered by a file change.
type WatchEvent struct {
	// Path is the file path relative to Root.
	Path string

	Operation WatchOperation

	// Result is nil for delete operations.
	Result *Result

	Error error
}

// WatchOperation indicates the type of file operation.
type WatchOperation string

const (
	OpCreate WatchOperation = "create"
	OpModify WatchOperation = "modify"
	OpDelete WatchOperation = "delete"
)

// Watcher converts matching files whenever they change.
type Watcher struct {
	config    WatchConfig
	converter *Converter
	watcher   *fsnotify.Watcher
	logger    *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op // path → most recent operation

	hashMu sync.RWMutex
	hashes map[string]string // relative path → content hash

	events chan WatchEvent
}

// NewWatcher creates a watcher converting with c.
func (c *Converter) NewWatcher(config WatchConfig) (*Watcher, error) {
	if config.OutputFormat == "" {
		return nil, model.ConfigError("convert", "NewWatcher", "an output format is required")
	}
	if config.Pattern == "" {
		config.Pattern = "**/*.tsv"
	}
	if !doublestar.ValidatePattern(config.Pattern) {
		return nil, model.ConfigError("convert", "NewWatcher", "invalid pattern %q", config.Pattern)
	}
	if config.DebounceDelay == 0 {
		config.DebounceDelay = 200 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		config:    config,
		converter: c,
		watcher:   fsw,
		logger:    c.logger,
		pending:   make(map[string]fsnotify.Op),
		hashes:    make(map[string]string),
		events:    make(chan WatchEvent, 100),
	}, nil
}

// Events returns the channel of watch events.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start adds the watches and begins processing changes until ctx ends.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.config.Root); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("File watcher started",
		slog.String("root", w.config.Root),
		slog.String("pattern", w.config.Pattern),
		slog.Duration("debounce", w.config.DebounceDelay))

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) skipDir(path string) bool {
	base := filepath.Base(path)
	if path != w.config.Root && strings.HasPrefix(base, ".") {
		return true
	}
	if w.config.OutputDir == "" {
		return false
	}
	out, err := filepath.Abs(w.config.OutputDir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	return err == nil && abs == out
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.skipDir(path) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				slog.String("path", path),
				slog.String("error", err.Error()))
		} else {
			w.logger.Debug("Watching directory", slog.String("path", path))
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// matches reports whether path is an input selected by the pattern.
func (w *Watcher) matches(path string) (string, bool) {
	rel, err := filepath.Rel(w.config.Root, path)
	if err != nil {
		return "", false
	}
	ok, _ := doublestar.Match(w.config.Pattern, filepath.ToSlash(rel))
	return rel, ok
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	rel, ok := w.matches(path)
	if !ok {
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() && !w.skipDir(path) {
				if err := w.addWatchesRecursive(path); err != nil {
					w.logger.Warn("Failed to watch new directory",
						slog.String("path", path),
						slog.String("error", err.Error()))
				}
			}
		}
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("File change detected",
		slog.String("path", rel),
		slog.String("op", event.Op.String()))
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := maps.Clone(w.pending)
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		if ctx.Err() != nil {
			return
		}

		relPath, _ := filepath.Rel(w.config.Root, path)
		event := WatchEvent{Path: relPath}

		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			event.Operation = OpDelete
			w.hashMu.Lock()
			delete(w.hashes, relPath)
			w.hashMu.Unlock()
			w.sendEvent(event)
			continue
		}

		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			event.Operation = OpDelete
			w.sendEvent(event)
			continue
		}
		if err != nil {
			event.Error = err
			w.sendEvent(event)
			continue
		}

		sum := sha256.Sum256(data)
		hash := hex.EncodeToString(sum[:])
		w.hashMu.RLock()
		oldHash, hadHash := w.hashes[relPath]
		w.hashMu.RUnlock()
		if hadHash && oldHash == hash {
			continue
		}
		w.hashMu.Lock()
		w.hashes[relPath] = hash
		w.hashMu.Unlock()

		if op.Has(fsnotify.Create) || !hadHash {
			event.Operation = OpCreate
		} else {
			event.Operation = OpModify
		}

		res, err := w.converter.Convert(ctx, Request{
			Input:        path,
			Output:       OutputPath(path, w.config.Root, w.config.OutputDir, w.config.OutputFormat),
			InputFormat:  w.config.InputFormat,
			OutputFormat: w.config.OutputFormat,
			Prefixes:     w.config.Prefixes,
			Metadata:     w.config.Metadata,
		})
		event.Result = res
		event.Error = err
		w.sendEvent(event)
	}
}

func (w *Watcher) sendEvent(event WatchEvent) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent watch event",
			slog.String("path", event.Path),
			slog.String("op", string(event.Operation)))
	default:
		w.logger.Warn("Event channel full, dropping event",
			slog.String("path", event.Path))
	}
}
