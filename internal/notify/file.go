package notify

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// signalSuffix marks the files that carry signals inside the watched directory.
const signalSuffix = ".signal"

// FileBus broadcasts signals between processes sharing a directory.
//
// Publish atomically replaces <dir>/<name>.signal with the publisher's origin
// token and a sequence number. Every FileBus watching the directory picks up
// the change through fsnotify and dispatches it to its subscribers on its own
// goroutine. A process never receives the signals it published itself.
type FileBus struct {
	dir    string
	origin string
	seq    atomic.Uint64
	reg    registry
	log    zerolog.Logger

	watcher   *fsnotify.Watcher
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewFileBus starts watching dir for signals. The directory is created if needed.
func NewFileBus(dir string, logger zerolog.Logger) (*FileBus, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create signal directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	b := &FileBus{
		dir:     dir,
		origin:  newOrigin(),
		log:     logger,
		watcher: watcher,
	}

	b.wg.Add(1)
	go b.run()

	return b, nil
}

// Origin returns the token this bus stamps on its signals.
func (b *FileBus) Origin() string {
	return b.origin
}

// Subscribe registers h.
func (b *FileBus) Subscribe(h Handler) Token {
	return b.reg.subscribe(h)
}

// Unsubscribe removes a handler.
func (b *FileBus) Unsubscribe(t Token) {
	b.reg.unsubscribe(t)
}

// Publish writes the signal file for e. Failures are logged and dropped.
func (b *FileBus) Publish(e Event) {
	if err := b.write(e); err != nil {
		b.log.Warn().Err(err).Str("signal", e.Name).Msg("Failed to publish signal")
		return
	}
	b.log.Debug().Str("signal", e.Name).Msg("Published signal")
}

// Close stops watching. Pending deliveries finish before Close returns.
func (b *FileBus) Close() error {
	var err error
	b.closeOnce.Do(func() {
		err = b.watcher.Close()
		b.wg.Wait()
	})
	return err
}

func (b *FileBus) signalPath(name string) string {
	return filepath.Join(b.dir, name+signalSuffix)
}

func (b *FileBus) write(e Event) error {
	tmp, err := os.CreateTemp(b.dir, "."+e.Name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	payload := fmt.Sprintf("%s %d\n", b.origin, b.seq.Add(1))
	if _, err := tmp.WriteString(payload); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write signal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close signal: %w", err)
	}
	if err := os.Rename(tmpPath, b.signalPath(e.Name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace signal: %w", err)
	}
	return nil
}

func (b *FileBus) run() {
	defer b.wg.Done()

	for {
		select {
		case ev, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			b.handle(ev)
		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			b.log.Warn().Err(err).Msg("Signal watcher error")
		}
	}
}

func (b *FileBus) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, signalSuffix) {
		return
	}

	data, err := os.ReadFile(ev.Name)
	if err != nil {
		b.log.Debug().Err(err).Str("file", base).Msg("Signal vanished before read")
		return
	}
	origin, _, _ := strings.Cut(strings.TrimSpace(string(data)), " ")
	if origin == b.origin {
		return
	}

	name := strings.TrimSuffix(base, signalSuffix)
	b.log.Debug().Str("signal", name).Str("origin", origin).Msg("Received signal")
	b.reg.dispatch(Event{Name: name, Origin: origin})
}

// newOrigin returns a token unique to this bus instance.
func newOrigin() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("pid-%d", os.Getpid())
	}
	return fmt.Sprintf("%d-%s", os.Getpid(), hex.EncodeToString(buf))
}
