//go:build darwin

package config

import (
	"errors"
	"os/exec"
	"strings"
)

// errSecItemNotFound is the exit status of `security` when no item matches.
const errSecItemNotFound = 44

type keychainSecrets struct{}

func platformSecrets() SecretStore {
	return keychainSecrets{}
}

func (keychainSecrets) Get(service, account string) (string, error) {
	out, err := exec.Command(
		"security", "find-generic-password",
		"-s", service,
		"-a", account,
		"-w",
	).Output()
	if err != nil {
		return "", mapKeychainErr(err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (keychainSecrets) Set(service, account, value string) error {
	return exec.Command(
		"security", "add-generic-password",
		"-U",
		"-s", service,
		"-a", account,
		"-w", value,
	).Run()
}

func (keychainSecrets) Delete(service, account string) error {
	err := exec.Command(
		"security", "delete-generic-password",
		"-s", service,
		"-a", account,
	).Run()
	if err != nil {
		return mapKeychainErr(err)
	}
	return nil
}

func mapKeychainErr(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == errSecItemNotFound {
		return ErrNoToken
	}
	return err
}
