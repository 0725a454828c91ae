package endpoint

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the records from path whenever the file changes, until ctx
// is canceled. A file that fails to load keeps the previous records.
//
// The directory is watched rather than the file so that editors which
// replace the file on save are picked up too.
func (s *Server) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || (!event.Has(fsnotify.Write) && !event.Has(fsnotify.Create)) {
				continue
			}

			records, err := LoadRecords(path, s.field)
			if err != nil {
				s.logger.Warn("failed to reload candidates", zap.String("file", path), zap.Error(err))
				continue
			}
			s.Replace(records)
			s.logger.Info("reloaded candidates", zap.String("file", path), zap.Int("count", len(records)))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("candidate watcher error", zap.Error(err))
		}
	}
}
