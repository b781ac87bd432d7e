package migration

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is how long the watcher waits for more changes to a
// file before migrating it.
const defaultDebounce = 500 * time.Millisecond

// ExportWatcher watches a directory of legacy export files and feeds
// changed exports through the orchestrator. The wizard UI writes one
// JSON export per saved form; the watcher migrates each as it lands.
type ExportWatcher struct {
	dir          string
	debounce     time.Duration
	orchestrator *Orchestrator
	watcher      *fsnotify.Watcher
	logger       *slog.Logger

	// Debouncing: collect changed paths before migrating
	pendingMu sync.Mutex
	pending   map[string]struct{}
}

// NewExportWatcher creates a watcher over dir. A zero debounce uses
// the default.
func NewExportWatcher(dir string, debounce time.Duration, orchestrator *Orchestrator, logger *slog.Logger) (*ExportWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &ExportWatcher{
		dir:          dir,
		debounce:     debounce,
		orchestrator: orchestrator,
		watcher:      fsw,
		logger:       logger,
		pending:      make(map[string]struct{}),
	}, nil
}

// Run watches until ctx is cancelled. It creates the export directory
// if needed and migrates every export already present before watching
// for new ones.
func (w *ExportWatcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	defer w.watcher.Close()

	// Pick up exports that landed before the watch started.
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() && isExportFile(entry.Name()) {
			w.migrateFile(ctx, filepath.Join(w.dir, entry.Name()))
		}
	}

	w.logger.Info("export watcher started",
		slog.String("dir", w.dir),
		slog.Duration("debounce", w.debounce))

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !isExportFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.pendingMu.Lock()
				w.pending[event.Name] = struct{}{}
				w.pendingMu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// flushPending migrates every debounced path.
func (w *ExportWatcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	for _, path := range paths {
		w.migrateFile(ctx, path)
	}
}

// migrateFile loads one export and runs it through the pipeline.
func (w *ExportWatcher) migrateFile(ctx context.Context, path string) {
	export, err := LoadExport(path)
	if err != nil {
		w.logger.Warn("skipping export", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	result := w.orchestrator.Migrate(ctx, export.Form(), export.ProcessID, export.Data)
	if result.Success {
		w.logger.Info("export migrated",
			slog.String("path", path),
			slog.String("process_id", export.ProcessID),
			slog.String("form_type", export.FormType))
	} else {
		w.logger.Warn("export migration failed",
			slog.String("path", path),
			slog.String("process_id", export.ProcessID),
			slog.String("form_type", export.FormType),
			slog.Any("errors", result.Errors))
	}
}

func isExportFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}
