package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"moodtray/internal/core/model"
)

const (
	entriesDirName = "entries"
	entryFileExt   = ".json"
	dataDirMode    = 0o755
	entryFileMode  = 0o644
)

var (
	// ErrInvalidEntry indicates the payload is not a JSON value.
	ErrInvalidEntry = errors.New("mood entry is not valid JSON")
	// ErrInvalidDayKey indicates a key that is not a YYYY-MM-DD date.
	ErrInvalidDayKey = errors.New("invalid day key")
)

// EntryStore persists mood entries as one JSON array file per calendar day.
type EntryStore struct {
	root   string
	now    func() time.Time
	logger zerolog.Logger
	locks  sync.Map
}

// NewEntryStore creates a store rooted at dataDir/entries.
func NewEntryStore(dataDir string, now func() time.Time, logger zerolog.Logger) *EntryStore {
	if now == nil {
		now = time.Now
	}
	return &EntryStore{
		root:   filepath.Join(filepath.Clean(dataDir), entriesDirName),
		now:    now,
		logger: logger.With().Str("component", "entry-store").Logger(),
	}
}

// Dir returns the directory holding the day files.
func (store *EntryStore) Dir() string {
	return store.root
}

// AppendEntry appends entry to today's file.
func (store *EntryStore) AppendEntry(ctx context.Context, entry model.MoodEntry) error {
	return store.AppendEntryForDay(ctx, model.DayKey(store.now()), entry)
}

// AppendEntryForDay appends entry to the file for key. Concurrent appends to the
// same key are serialized.
func (store *EntryStore) AppendEntryForDay(ctx context.Context, key string, entry model.MoodEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateDayKey(key); err != nil {
		return err
	}
	if !json.Valid(entry) {
		return ErrInvalidEntry
	}

	lock := store.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(store.root, dataDirMode); err != nil {
		return fmt.Errorf("create entries directory: %w", err)
	}

	path := store.pathFor(key)
	entries, err := readEntries(path)
	if err != nil {
		store.logger.Warn().Err(err).Str("day", key).Msg("existing day file is unreadable, moving it aside")
		if moveErr := quarantine(path, store.now()); moveErr != nil {
			return fmt.Errorf("append entry for %s: %w", key, errors.Join(err, moveErr))
		}
		entries = nil
	}

	entries = append(entries, json.RawMessage(bytes.Clone(entry)))
	if err := writeEntries(path, entries); err != nil {
		return fmt.Errorf("append entry for %s: %w", key, err)
	}

	store.logger.Debug().Str("day", key).Int("count", len(entries)).Msg("entry appended")
	return nil
}

// ReadDay returns the entries recorded for key. A missing file yields an empty list.
func (store *EntryStore) ReadDay(ctx context.Context, key string) ([]model.MoodEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateDayKey(key); err != nil {
		return nil, err
	}

	lock := store.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	entries, err := readEntries(store.pathFor(key))
	if err != nil {
		return nil, fmt.Errorf("read day %s: %w", key, err)
	}
	return toMoodEntries(entries), nil
}

// ReadSummary returns every persisted day. Days that cannot be read are logged
// and omitted; the call itself never fails.
func (store *EntryStore) ReadSummary(ctx context.Context) model.Summary {
	summary := model.Summary{}

	files, err := os.ReadDir(store.root)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			store.logger.Error().Err(err).Str("dir", store.root).Msg("failed to list entries directory")
		}
		return summary
	}

	for _, file := range files {
		if ctx.Err() != nil {
			store.logger.Warn().Err(ctx.Err()).Msg("summary read interrupted")
			return summary
		}
		if file.IsDir() || filepath.Ext(file.Name()) != entryFileExt {
			continue
		}
		key := strings.TrimSuffix(file.Name(), entryFileExt)
		if validateDayKey(key) != nil {
			continue
		}

		entries, err := store.ReadDay(ctx, key)
		if err != nil {
			store.logger.Warn().Err(err).Str("day", key).Msg("skipping unreadable day file")
			continue
		}
		summary[key] = entries
	}

	return summary
}

func (store *EntryStore) lockFor(key string) *sync.Mutex {
	lock, _ := store.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (store *EntryStore) pathFor(key string) string {
	return filepath.Join(store.root, key+entryFileExt)
}

func validateDayKey(key string) error {
	parsed, err := time.Parse(model.DayKeyLayout, key)
	if err != nil || parsed.Format(model.DayKeyLayout) != key {
		return fmt.Errorf("%w: %q", ErrInvalidDayKey, key)
	}
	return nil
}

func readEntries(path string) ([]json.RawMessage, error) {
	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read entries file: %w", err)
	}
	if len(bytes.TrimSpace(rawData)) == 0 {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(rawData, &entries); err != nil {
		return nil, fmt.Errorf("parse entries file: %w", err)
	}
	return entries, nil
}

func writeEntries(path string, entries []json.RawMessage) error {
	serialized, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp entries file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(serialized); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp entries file: %w", err)
	}
	if err := tmp.Chmod(entryFileMode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp entries file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp entries file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace entries file: %w", err)
	}
	return nil
}

func quarantine(path string, now time.Time) error {
	target := fmt.Sprintf("%s.corrupt-%d", path, now.Unix())
	if err := os.Rename(path, target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("move unreadable entries file: %w", err)
	}
	return nil
}

func toMoodEntries(entries []json.RawMessage) []model.MoodEntry {
	if entries == nil {
		return []model.MoodEntry{}
	}
	return entries
}
