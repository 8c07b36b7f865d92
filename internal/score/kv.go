package score

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/ini.v1"
)

// Storage names shared by every backend.
const (
	PrefsName = "NovaRushScores"
	ScoresKey = "scores"
)

// ErrEmptyKey is returned for operations on an empty key.
var ErrEmptyKey = errors.New("score: empty key")

// KV is flat string key-value storage. A missing key reads as "".
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryKV keeps values in memory.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MemoryKV) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// IniKV stores keys in one section of an ini file. The file is re-read on every
// Get so several processes can share it.
type IniKV struct {
	mu      sync.Mutex
	path    string
	section string
}

// iniOptions keeps ';' and '#' inside values; the legacy score format uses ';'.
var iniOptions = ini.LoadOptions{
	Loose:               true,
	IgnoreInlineComment: true,
}

// NewIniKV creates a store backed by path, using section as the preferences name.
func NewIniKV(path, section string) *IniKV {
	if section == "" {
		section = PrefsName
	}
	return &IniKV{path: path, section: section}
}

// Path returns the backing file.
func (k *IniKV) Path() string {
	return k.path
}

func (k *IniKV) load() (*ini.File, error) {
	f, err := ini.LoadSources(iniOptions, k.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", k.path, err)
	}
	return f, nil
}

func (k *IniKV) save(f *ini.File) error {
	if err := os.MkdirAll(filepath.Dir(k.path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(k.path), err)
	}
	if err := f.SaveTo(k.path); err != nil {
		return fmt.Errorf("write %s: %w", k.path, err)
	}
	return nil
}

func (k *IniKV) Get(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	f, err := k.load()
	if err != nil {
		return "", err
	}
	return f.Section(k.section).Key(key).String(), nil
}

func (k *IniKV) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	f, err := k.load()
	if err != nil {
		return err
	}
	f.Section(k.section).Key(key).SetValue(value)
	return k.save(f)
}

func (k *IniKV) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	f, err := k.load()
	if err != nil {
		return err
	}
	sec := f.Section(k.section)
	if !sec.HasKey(key) {
		return nil
	}
	sec.DeleteKey(key)
	return k.save(f)
}
