package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

// ConfigBackend is the platform store that `config set` writes to and Load
// reads from before environment overrides.
type ConfigBackend interface {
	GetString(key string) (val string, ok bool, err error)
	GetInt(key string) (val int, ok bool, err error)
	SetString(key, val string) error
	SetInt(key string, val int) error
	Delete(key string) error
}

// jsonFile keeps config keys as a flat JSON object. Unreadable or corrupt
// files are reported and treated as empty.
type jsonFile struct {
	path   string
	values map[string]any
}

func openJSONFile(path string) *jsonFile {
	f := &jsonFile{path: path, values: map[string]any{}}
	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		fmt.Fprintf(os.Stderr, "[WARN] could not read config file %s: %v. Using default values.\n", path, err)
	default:
		if err := json.Unmarshal(raw, &f.values); err != nil {
			f.values = map[string]any{}
			fmt.Fprintf(os.Stderr, "[WARN] could not parse config file %s: %v. Using default values.\n", path, err)
		}
	}
	return f
}

func (f *jsonFile) flush() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	raw, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, raw, 0o600)
}

func (f *jsonFile) GetString(key string) (string, bool, error) {
	v, ok := f.values[key]
	if !ok {
		return "", false, nil
	}
	if s, isString := v.(string); isString {
		return s, true, nil
	}
	return fmt.Sprint(v), true, nil
}

// GetInt accepts JSON numbers and numeric strings, so hand-edited files work.
func (f *jsonFile) GetInt(key string) (int, bool, error) {
	v, ok := f.values[key]
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n < math.MinInt || n > math.MaxInt {
			return 0, true, fmt.Errorf("value %v for %s is not a valid integer", n, key)
		}
		return int(n), true, nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, true, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return i, true, nil
	default:
		return 0, true, fmt.Errorf("invalid type %T for %s", v, key)
	}
}

func (f *jsonFile) SetString(key, val string) error {
	f.values[key] = val
	return f.flush()
}

func (f *jsonFile) SetInt(key string, val int) error {
	f.values[key] = val
	return f.flush()
}

func (f *jsonFile) Delete(key string) error {
	if _, ok := f.values[key]; !ok {
		return nil
	}
	delete(f.values, key)
	return f.flush()
}
