//go:build !darwin

package crypto

import (
	"errors"
	"fmt"
	"os"
)

type envKeyring struct{}

func newPlatformKeyring() Keyring {
	return &envKeyring{}
}

// GetKey reads the encryption key from the INVOICEFLOW_DB_KEY environment variable
func (k *envKeyring) GetKey() (string, error) {
	key := os.Getenv(EnvKey)
	if key == "" {
		return "", fmt.Errorf("%s environment variable not set", EnvKey)
	}
	return key, nil
}

// SetKey cannot persist anything; it tells the user which variable to export
func (k *envKeyring) SetKey(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}
	return fmt.Errorf("keyring not available on this platform: export %s with the password you just chose, e.g. in a .env file", EnvKey)
}

// DeleteKey returns an error suggesting to unset the environment variable
func (k *envKeyring) DeleteKey() error {
	return fmt.Errorf("keyring not available on this platform: unset %s manually", EnvKey)
}

// IsAvailable reports whether INVOICEFLOW_DB_KEY is set
func (k *envKeyring) IsAvailable() bool {
	return os.Getenv(EnvKey) != ""
}
