// Package credentials keeps remote source passwords in the system keyring.
package credentials

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tartampluch/orbita/internal/config"
	"github.com/zalando/go-keyring"
)

// Resolve returns the password to use for user. An explicit envPassword wins;
// otherwise the keyring is consulted. A user without a stored password gets
// "" and no error, so anonymous sources keep working.
func Resolve(user, envPassword string) (string, error) {
	if envPassword != "" {
		return envPassword, nil
	}
	if user == "" {
		return "", nil
	}

	pwd, err := keyring.Get(config.KeyringService, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrKeyringGet, err)
	}

	slog.Debug(config.MsgPasswordLookup, config.LogKeyComponent, config.CompCredentials)
	return pwd, nil
}

// Store saves password for user, replacing any previous value.
func Store(user, password string) error {
	if user == "" {
		return errors.New(config.ErrUserRequired)
	}
	if err := keyring.Set(config.KeyringService, user, password); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringSet, err)
	}
	return nil
}
