package theme

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// StorageKey is the namespaced durable key holding the preset.
	StorageKey = "scholar-admin-theme-preset"
	// AttributeName is the root attribute stylesheets key off.
	AttributeName = "data-theme-preset"
)

// ErrUnknownPreset is returned for values outside the preset enumeration.
var ErrUnknownPreset = errors.New("theme: unknown preset")

// Telemetry records store events (load fallbacks, changes, hook failures).
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

// Change describes one successful preset replacement.
type Change struct {
	ID       string    `json:"id"`
	Previous Preset    `json:"previous"`
	Current  Preset    `json:"current"`
	At       time.Time `json:"at"`
}

// ChangeHook is notified after a preset has been stored and applied.
type ChangeHook interface {
	PresetChanged(ctx context.Context, change Change) error
}

// ChangeHookFunc adapts a function to ChangeHook.
type ChangeHookFunc func(ctx context.Context, change Change) error

func (fn ChangeHookFunc) PresetChanged(ctx context.Context, change Change) error {
	return fn(ctx, change)
}

// Options configures a Store. Nil collaborators fall back to in-memory
// storage, a detached document and no telemetry.
type Options struct {
	Storage   Storage
	Document  Document
	Telemetry Telemetry
	Hooks     []ChangeHook
	Key       string
	Attribute string
	Now       func() time.Time
}

// Store holds the current preset. Every successful Set updates memory,
// persists the value and applies the root attribute before returning.
type Store struct {
	mu      sync.Mutex
	current Preset
	opts    Options

	hookMu sync.RWMutex
	hooks  []ChangeHook
}

// NewStore reads the durable value once and applies it to the document.
// Missing, corrupt or unknown values resolve to Default.
func NewStore(ctx context.Context, opts Options) *Store {
	if opts.Storage == nil {
		opts.Storage = NewMemoryStorage()
	}
	if opts.Document == nil {
		opts.Document = noopDocument{}
	}
	if opts.Telemetry == nil {
		opts.Telemetry = noopTelemetry{}
	}
	if opts.Key == "" {
		opts.Key = StorageKey
	}
	if opts.Attribute == "" {
		opts.Attribute = AttributeName
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Store{opts: opts, hooks: append([]ChangeHook(nil), opts.Hooks...)}
	s.current = s.load(ctx)
	s.opts.Document.SetAttribute(s.opts.Attribute, string(s.current))
	return s
}

// Get returns the current preset.
func (s *Store) Get() Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Presets returns the switcher options.
func (s *Store) Presets() []PresetOption {
	return Presets()
}

// Key returns the durable storage key.
func (s *Store) Key() string { return s.opts.Key }

// Attribute returns the root attribute name.
func (s *Store) Attribute() string { return s.opts.Attribute }

// AddHook registers a change hook.
func (s *Store) AddHook(hook ChangeHook) {
	if hook == nil {
		return
	}
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Set replaces the current preset. When persisting fails the previous value
// is kept and the error returned.
func (s *Store) Set(ctx context.Context, preset Preset) error {
	if !preset.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, string(preset))
	}
	payload, err := encodePreset(preset)
	if err != nil {
		return err
	}

	s.mu.Lock()
	previous := s.current
	s.current = preset
	persistErr := s.opts.Storage.Set(ctx, s.opts.Key, payload)
	if persistErr != nil && !errors.Is(persistErr, ErrStorageReset) {
		s.current = previous
		s.mu.Unlock()
		return fmt.Errorf("theme: persist preset: %w", persistErr)
	}
	s.opts.Document.SetAttribute(s.opts.Attribute, string(preset))
	s.mu.Unlock()

	if persistErr != nil {
		s.opts.Telemetry.Record(ctx, "theme.storage.reset", map[string]any{
			"key":   s.opts.Key,
			"error": persistErr.Error(),
		})
	}

	change := Change{
		ID:       uuid.NewString(),
		Previous: previous,
		Current:  preset,
		At:       s.opts.Now().UTC(),
	}
	s.opts.Telemetry.Record(ctx, "theme.preset.set", map[string]any{
		"previous": string(previous),
		"preset":   string(preset),
	})
	s.notify(ctx, change)
	return nil
}

func (s *Store) notify(ctx context.Context, change Change) {
	s.hookMu.RLock()
	hooks := append([]ChangeHook(nil), s.hooks...)
	s.hookMu.RUnlock()
	for _, hook := range hooks {
		if err := hook.PresetChanged(ctx, change); err != nil {
			s.opts.Telemetry.Record(ctx, "theme.preset.hook_error", map[string]any{
				"preset": string(change.Current),
				"error":  err.Error(),
			})
		}
	}
}

func (s *Store) load(ctx context.Context) Preset {
	raw, ok, err := s.opts.Storage.Get(ctx, s.opts.Key)
	if err != nil {
		s.fallback(ctx, "storage_error", err)
		return Default
	}
	if !ok {
		return Default
	}
	preset, err := decodePreset(raw)
	if err != nil {
		s.fallback(ctx, "invalid_value", err)
		return Default
	}
	return preset
}

func (s *Store) fallback(ctx context.Context, reason string, err error) {
	s.opts.Telemetry.Record(ctx, "theme.preset.load_fallback", map[string]any{
		"key":    s.opts.Key,
		"reason": reason,
		"error":  err.Error(),
	})
}

// persistedPreset mirrors the client-side persisted shape
// {"state":{"preset":"…"},"version":0}.
type persistedPreset struct {
	State   persistedState `json:"state"`
	Version int            `json:"version"`
}

type persistedState struct {
	Preset string `json:"preset"`
}

func encodePreset(preset Preset) ([]byte, error) {
	data, err := json.Marshal(persistedPreset{State: persistedState{Preset: string(preset)}})
	if err != nil {
		return nil, fmt.Errorf("theme: encode preset: %w", err)
	}
	return data, nil
}

func decodePreset(raw []byte) (Preset, error) {
	var doc struct {
		State  *persistedState `json:"state"`
		Preset string          `json:"preset"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("theme: decode preset: %w", err)
	}
	value := doc.Preset
	if doc.State != nil {
		value = doc.State.Preset
	}
	preset := Preset(value)
	if !preset.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPreset, value)
	}
	return preset, nil
}
