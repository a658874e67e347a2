// Package storage persists the link collection in a namespace shared by
// every shelf process and announces each save on a notify.Bus.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jacksmith/shelf/internal/model"
	"github.com/jacksmith/shelf/internal/notify"
	"github.com/rs/zerolog"
)

// Storage provides access to a shelf directory.
type Storage struct {
	root   string
	cfg    *Config
	ns     Namespace
	bus    notify.Bus
	origin string
	logger zerolog.Logger
}

// Option configures Storage.
type Option func(*Storage)

// WithBus sets the bus that Save publishes to.
func WithBus(bus notify.Bus) Option {
	return func(s *Storage) {
		if bus != nil {
			s.bus = bus
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Storage) {
		s.logger = logger
	}
}

// Open returns a Storage for dir, creating the directory if needed.
// The backend is chosen by dir/config.yaml.
func Open(dir string, opts ...Option) (*Storage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create shelf directory: %w", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		return nil, err
	}

	var ns Namespace
	switch cfg.Backend {
	case BackendSQLite:
		ns, err = OpenSQLiteNamespace(filepath.Join(dir, sqliteFile))
		if err != nil {
			return nil, err
		}
	default:
		ns = NewFileNamespace(dir)
	}

	s := New(ns, opts...)
	s.root = dir
	s.cfg = cfg
	return s, nil
}

// Init writes a config.yaml for the chosen backend and opens the shelf.
// Returns error if the shelf already has a config.
func Init(dir string, backend string, opts ...Option) (*Storage, error) {
	if _, err := os.Stat(filepath.Join(dir, configFile)); err == nil {
		return nil, fmt.Errorf("shelf already initialized in %s", dir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check for %s: %w", configFile, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create shelf directory: %w", err)
	}

	cfg := DefaultConfig()
	if backend != "" {
		cfg.Backend = backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := WriteConfig(dir, cfg); err != nil {
		return nil, err
	}

	return Open(dir, opts...)
}

// New wraps an already opened namespace. Used for tests and embedding.
func New(ns Namespace, opts ...Option) *Storage {
	s := &Storage{
		cfg:    DefaultConfig(),
		ns:     ns,
		bus:    notify.Nop{},
		origin: uuid.NewString(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the shelf directory, or "" for storages built with New.
func (s *Storage) Root() string {
	return s.root
}

// Config returns the loaded configuration.
func (s *Storage) Config() *Config {
	return s.cfg
}

// Origin returns the token stamped on the signals this Storage publishes.
func (s *Storage) Origin() string {
	return s.origin
}

// Close releases the namespace.
func (s *Storage) Close() error {
	return s.ns.Close()
}

// Load returns every persisted link. A missing key or a corrupt payload
// yields an empty collection; the failure is logged, never returned.
func (s *Storage) Load() []model.Link {
	data, ok, err := s.ns.Get(LinksKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read links, using empty collection")
		return []model.Link{}
	}
	if !ok {
		return []model.Link{}
	}

	links, err := model.DecodeLinks(data)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Corrupt links payload, using empty collection")
		return []model.Link{}
	}
	return links
}

// Save replaces the whole persisted collection and then publishes
// notify.LinksChanged. If encoding or writing fails nothing is written,
// nothing is published, and the failure is only logged.
func (s *Storage) Save(links []model.Link) {
	data, err := model.EncodeLinks(links)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode links, save dropped")
		return
	}
	if err := s.ns.Set(LinksKey, data); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write links, save dropped")
		return
	}

	s.logger.Debug().Int("count", len(links)).Msg("Saved links")
	s.bus.Publish(notify.Event{Name: notify.LinksChanged, Origin: s.origin})
}

// HasLaunched reports whether the shelf has been bootstrapped before.
func (s *Storage) HasLaunched() bool {
	data, ok, err := s.ns.Get(HasLaunchedKey)
	if err != nil || !ok {
		return false
	}
	var launched bool
	if err := json.Unmarshal(data, &launched); err != nil {
		return false
	}
	return launched
}

// MarkLaunched records that first-launch seeding has run.
func (s *Storage) MarkLaunched() {
	if err := s.ns.Set(HasLaunchedKey, []byte("true")); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to record launch state")
	}
}
