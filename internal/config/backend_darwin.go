//go:build darwin

package config

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultsDomain = "com.firmsfinder.app"

func defaultDataDir() string {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, "Library", "Application Support", "FirmsFinder")
	}
	return "firmsfinder-data"
}

// userDefaults reads and writes the app's UserDefaults domain through the
// `defaults` tool.
type userDefaults struct {
	domain string
}

func newPlatformBackend() ConfigBackend {
	return userDefaults{domain: defaultsDomain}
}

func (u userDefaults) run(args ...string) (string, error) {
	out, err := exec.Command("defaults", append([]string{args[0], u.domain}, args[1:]...)...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// missing reports the exit status `defaults` uses for an absent key.
func missing(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == 1
}

func (u userDefaults) GetString(key string) (string, bool, error) {
	out, err := u.run("read", key)
	switch {
	case missing(err):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("reading default %s: %w, output: %s", key, err, out)
	}
	return out, true, nil
}

func (u userDefaults) GetInt(key string) (int, bool, error) {
	s, ok, err := u.GetString(key)
	if !ok || err != nil {
		return 0, ok, err
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, true, fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	return i, true, nil
}

func (u userDefaults) SetString(key, val string) error {
	_, err := u.run("write", key, "-string", val)
	return err
}

func (u userDefaults) SetInt(key string, val int) error {
	_, err := u.run("write", key, "-int", strconv.Itoa(val))
	return err
}

func (u userDefaults) Delete(key string) error {
	if _, err := u.run("delete", key); err != nil && !missing(err) {
		return fmt.Errorf("deleting default %s: %w", key, err)
	}
	return nil
}
