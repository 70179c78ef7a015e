package pitchset

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/gethiox/notepitch/internal/pkg/logger"
)

// DetectSetChanges notifies about written or created set files in given
// directories. Channel is closed when ctx is done.
func DetectSetChanges(ctx context.Context, dirs ...string) (<-chan bool, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher failed: %w", err)
	}

	for _, dir := range dirs {
		err = watcher.Add(dir)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watching \"%s\" failed: %w", dir, err)
		}
	}

	var change = make(chan bool)

	go func() {
		<-ctx.Done()
		err := watcher.Close()
		if err != nil {
			log.Info(fmt.Sprintf("closing watcher failed: %v", err), logger.Debug)
		}
	}()

	go func() {
		defer close(change)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if !supported(event.Name) {
					continue
				}
				log.Info(fmt.Sprintf("set change detected: %s", event.Name), logger.Info)
				select {
				case change <- true:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Info(fmt.Sprintf("watcher error: %v", err), logger.Warning)
			}
		}
	}()

	return change, nil
}
