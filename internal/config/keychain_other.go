//go:build !darwin

package config

import "path/filepath"

func platformSecrets() SecretStore {
	dir, ok := xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if !ok {
		dir = filepath.Join(".", "firmsfinder")
	}
	return fileSecrets{path: filepath.Join(dir, "secrets.json")}
}
