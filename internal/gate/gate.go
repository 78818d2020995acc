// Package gate is a local password prompt in front of the tracker. The
// password is kept as-is in the OS keyring; this is a convenience lock,
// not a security boundary.
package gate

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/levelup/internal/constants"
)

var (
	// ErrEmptyPassword is returned when an unlock attempt is blank
	ErrEmptyPassword = errors.New("password cannot be empty")
	// ErrNotFound is returned when no password is stored in the keyring
	ErrNotFound = errors.New("password not found in keyring")
	// ErrUnavailable is returned when the OS keyring is not available
	ErrUnavailable = errors.New("OS keyring is not available")
)

// Status is the outcome of an unlock attempt.
type Status int

const (
	StatusDenied Status = iota
	// StatusCreated means no password existed and the attempt became the password.
	StatusCreated
	StatusUnlocked
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusUnlocked:
		return "unlocked"
	default:
		return "denied"
	}
}

type Gate struct {
	service string
	user    string
}

func New() *Gate {
	return &Gate{
		service: constants.AppName,
		user:    constants.GateKeyringUser,
	}
}

func (g *Gate) get() (string, error) {
	secret, err := keyring.Get(g.service, g.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return secret, nil
}

// IsSet reports whether a password has been stored.
func (g *Gate) IsSet() (bool, error) {
	_, err := g.get()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Unlock checks attempt against the stored password. On first use the
// attempt is stored and StatusCreated is returned.
func (g *Gate) Unlock(attempt string) (Status, error) {
	if attempt == "" {
		return StatusDenied, ErrEmptyPassword
	}

	secret, err := g.get()
	switch {
	case errors.Is(err, ErrNotFound):
		if err := g.Set(attempt); err != nil {
			return StatusDenied, err
		}
		return StatusCreated, nil
	case err != nil:
		return StatusDenied, err
	}

	if attempt != secret {
		return StatusDenied, nil
	}
	return StatusUnlocked, nil
}

// Set replaces the stored password.
func (g *Gate) Set(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if err := keyring.Set(g.service, g.user, password); err != nil {
		return fmt.Errorf("%w: failed to store password: %v", ErrUnavailable, err)
	}
	return nil
}

// Reset removes the stored password so the next unlock creates a new one.
func (g *Gate) Reset() error {
	err := keyring.Delete(g.service, g.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: failed to delete password: %v", ErrUnavailable, err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
