package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file name inside the data directory.
const FileName = "settings.yaml"

const header = `# cedolino contract settings.
# Missing values fall back to the CCNL defaults. Edit with "cedolino settings set".
`

// Store persists Settings as YAML. The calculation engine never writes
// settings; Update is the only mutation path.
type Store struct {
	path string
}

// NewStore returns a Store for the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file, creating it with defaults on first run.
// Missing sections are defaulted; invalid values are an error.
func (s *Store) Load() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		def := Defaults()
		if err := s.Save(def); err != nil {
			return Settings{}, err
		}
		return def, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings %s: %w", s.path, err)
	}
	return Parse(data)
}

// Parse decodes YAML settings over the defaults and validates the result.
// Keys missing from data keep their default; explicit values, zero
// included, are kept.
func Parse(data []byte) (Settings, error) {
	out := Defaults()
	if err := yaml.Unmarshal(data, &out); err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	out.ApplyDefaults()
	if err := out.Validate(); err != nil {
		return Settings{}, err
	}
	return out, nil
}

// Save validates and atomically writes settings.
func (s *Store) Save(st Settings) error {
	if err := st.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append([]byte(header), data...), 0o600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// Update loads the settings, applies fn and saves the result. Nothing is
// written when fn or validation fails.
func (s *Store) Update(fn func(*Settings) error) (Settings, error) {
	cur, err := s.Load()
	if err != nil {
		return Settings{}, err
	}
	if err := fn(&cur); err != nil {
		return Settings{}, err
	}
	cur.ApplyDefaults()
	if err := s.Save(cur); err != nil {
		return Settings{}, err
	}
	return cur, nil
}
