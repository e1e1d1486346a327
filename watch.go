package ballast

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Snapshot describes one applied reload of the backing file.
type Snapshot struct {
	Version  int64     // Increments on each applied reload (starts at 1)
	LoadedAt time.Time // When the reload was applied
	Cause    string    // What triggered it (e.g., "WRITE", "initial")
	Changed  []string  // Keys added, updated, or removed, sorted
}

const debounceDelay = 100 * time.Millisecond

// Watch monitors the backing file and reloads the store when it changes.
// Returns a snapshots channel, an errors channel, and a startup error.
//
// The parent directory is watched rather than the file itself so atomic
// replace-by-rename (including the store's own persistence) is observed.
// Bursts of events are debounced. Reload failures keep the previous state
// and surface on the errors channel; watching continues. Both channels close
// when ctx is cancelled.
func (s *Store) Watch(ctx context.Context) (<-chan Snapshot, <-chan error, error) {
	path := s.Path()
	if path == "" {
		return nil, nil, ErrNoPath
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, fmt.Errorf("ballast: resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("ballast: start watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		return nil, nil, fmt.Errorf("ballast: watch %s: %w", path, err)
	}

	snapshotCh := make(chan Snapshot)
	errorCh := make(chan error)

	go s.watchLoop(ctx, watcher, target, snapshotCh, errorCh)

	return snapshotCh, errorCh, nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, target string, snapshotCh chan<- Snapshot, errorCh chan<- error) {
	defer close(errorCh)
	defer close(snapshotCh)
	defer watcher.Close()

	version := int64(1)

	// Emit initial snapshot
	select {
	case snapshotCh <- Snapshot{
		Version:  version,
		LoadedAt: time.Now(),
		Cause:    "initial",
		Changed:  s.Keys(),
	}:
	case <-ctx.Done():
		return
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	// Debounced events land here; buffered so the timer callback never blocks.
	fire := make(chan string, 1)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			eventPath, err := filepath.Abs(event.Name)
			if err != nil || eventPath != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce: restart the timer on each event in a burst.
			cause := event.Op.String()
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case fire <- cause:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			select {
			case errorCh <- fmt.Errorf("ballast: watch: %w", err):
			case <-ctx.Done():
				return
			}

		case cause := <-fire:
			changed, err := s.reload()
			if err != nil {
				select {
				case errorCh <- fmt.Errorf("ballast: reload: %w", err):
				case <-ctx.Done():
					return
				}
				continue
			}
			if len(changed) == 0 {
				continue
			}

			version++
			select {
			case snapshotCh <- Snapshot{
				Version:  version,
				LoadedAt: time.Now(),
				Cause:    cause,
				Changed:  changed,
			}:
			case <-ctx.Done():
				return
			}
		}
	}
}
