//go:build darwin

package crypto

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// keychain keeps the database key in the macOS Keychain under ServiceName.
type keychain struct{}

func newPlatformKeyring() Keyring {
	return keychain{}
}

func (keychain) GetKey() (string, error) {
	key, err := keyring.Get(ServiceName, KeyName)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", fmt.Errorf("no invoiceflow key in keychain: %w", err)
	case err != nil:
		return "", fmt.Errorf("keychain read failed: %w", err)
	case key == "":
		return "", errors.New("keychain holds an empty invoiceflow key")
	}
	return key, nil
}

func (keychain) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	if err := keyring.Set(ServiceName, KeyName, password); err != nil {
		return fmt.Errorf("keychain write failed: %w", err)
	}
	return nil
}

func (keychain) DeleteKey() error {
	if err := keyring.Delete(ServiceName, KeyName); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keychain delete failed: %w", err)
	}
	return nil
}

// IsAvailable writes and removes a probe entry.
func (keychain) IsAvailable() bool {
	probe := KeyName + ".probe"
	if err := keyring.Set(ServiceName, probe, "1"); err != nil {
		return false
	}
	_ = keyring.Delete(ServiceName, probe)
	return true
}
