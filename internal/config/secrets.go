package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	secretService = "firmsfinder"
	tokenAccount  = "auth_token"
)

// ErrNoToken is returned when no auth token has been stored yet.
var ErrNoToken = errors.New("no auth token stored")

// SecretStore abstracts the platform secret store.
// macOS uses the login Keychain; other platforms use a 0600 JSON file.
type SecretStore interface {
	Get(service, account string) (string, error)
	Set(service, account, value string) error
	Delete(service, account string) error
}

// TokenStore keeps the backend auth token apart from the session record.
type TokenStore struct {
	secrets SecretStore
}

// NewTokenStore returns a TokenStore backed by the platform secret store.
func NewTokenStore() *TokenStore {
	return &TokenStore{secrets: platformSecrets()}
}

// NewFileTokenStore returns a TokenStore backed by a JSON secrets file at path.
func NewFileTokenStore(path string) *TokenStore {
	return &TokenStore{secrets: fileSecrets{path: path}}
}

// Token returns the stored token or ErrNoToken.
func (s *TokenStore) Token() (string, error) {
	tok, err := s.secrets.Get(secretService, tokenAccount)
	if err != nil {
		return "", err
	}
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

func (s *TokenStore) SetToken(token string) error {
	return s.secrets.Set(secretService, tokenAccount, token)
}

// ClearToken removes the stored token. Clearing an absent token is not an error.
func (s *TokenStore) ClearToken() error {
	err := s.secrets.Delete(secretService, tokenAccount)
	if errors.Is(err, ErrNoToken) {
		return nil
	}
	return err
}

// fileSecrets stores secrets as {service: {account: value}} in a JSON file.
type fileSecrets struct {
	path string
}

func (f fileSecrets) read() (map[string]map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets file: %w", err)
	}
	var secrets map[string]map[string]string
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &secrets); err != nil {
			return nil, fmt.Errorf("parsing secrets file: %w", err)
		}
	}
	if secrets == nil {
		secrets = make(map[string]map[string]string)
	}
	return secrets, nil
}

func (f fileSecrets) write(secrets map[string]map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating secrets dir: %w", err)
	}
	out, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, out, 0o600)
}

func (f fileSecrets) Get(service, account string) (string, error) {
	secrets, err := f.read()
	if err != nil {
		return "", err
	}
	val, ok := secrets[service][account]
	if !ok {
		return "", ErrNoToken
	}
	return val, nil
}

func (f fileSecrets) Set(service, account, value string) error {
	secrets, err := f.read()
	if err != nil {
		return err
	}
	if secrets[service] == nil {
		secrets[service] = make(map[string]string)
	}
	secrets[service][account] = value
	return f.write(secrets)
}

func (f fileSecrets) Delete(service, account string) error {
	secrets, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := secrets[service][account]; !ok {
		return ErrNoToken
	}
	delete(secrets[service], account)
	return f.write(secrets)
}
