package gate

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestUnlockFirstUseCreates(t *testing.T) {
	gokeyring.MockInit()
	g := New()

	set, err := g.IsSet()
	if err != nil {
		t.Fatalf("IsSet() failed: %v", err)
	}
	if set {
		t.Fatal("IsSet() = true on a fresh keyring")
	}

	status, err := g.Unlock("hunter2")
	if err != nil {
		t.Fatalf("Unlock() failed: %v", err)
	}
	if status != StatusCreated {
		t.Errorf("Unlock() = %v, want %v", status, StatusCreated)
	}

	set, _ = g.IsSet()
	if !set {
		t.Error("IsSet() = false after first unlock")
	}
}

func TestUnlock(t *testing.T) {
	tests := []struct {
		name    string
		attempt string
		want    Status
		wantErr error
	}{
		{"correct", "hunter2", StatusUnlocked, nil},
		{"wrong", "hunter3", StatusDenied, nil},
		{"case sensitive", "HUNTER2", StatusDenied, nil},
		{"empty", "", StatusDenied, ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gokeyring.MockInit()
			g := New()
			if err := g.Set("hunter2"); err != nil {
				t.Fatalf("Set() failed: %v", err)
			}

			status, err := g.Unlock(tt.attempt)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Unlock() error = %v, want %v", err, tt.wantErr)
			}
			if status != tt.want {
				t.Errorf("Unlock() = %v, want %v", status, tt.want)
			}
		})
	}
}

func TestDeniedAttemptDoesNotOverwrite(t *testing.T) {
	gokeyring.MockInit()
	g := New()
	if _, err := g.Unlock("first"); err != nil {
		t.Fatalf("Unlock() failed: %v", err)
	}
	if status, _ := g.Unlock("second"); status != StatusDenied {
		t.Errorf("Unlock(second) = %v, want %v", status, StatusDenied)
	}
	if status, _ := g.Unlock("first"); status != StatusUnlocked {
		t.Errorf("Unlock(first) = %v, want %v", status, StatusUnlocked)
	}
}

func TestReset(t *testing.T) {
	gokeyring.MockInit()
	g := New()
	if err := g.Set("hunter2"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := g.Reset(); err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if err := g.Reset(); err != ErrNotFound {
		t.Errorf("Reset() on empty keyring error = %v, want %v", err, ErrNotFound)
	}

	status, err := g.Unlock("new-password")
	if err != nil {
		t.Fatalf("Unlock() failed: %v", err)
	}
	if status != StatusCreated {
		t.Errorf("Unlock() after Reset = %v, want %v", status, StatusCreated)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()
	if err := New().Set(""); err != ErrEmptyPassword {
		t.Errorf("Set(\"\") error = %v, want %v", err, ErrEmptyPassword)
	}
}

func TestUnavailableKeyring(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus"))
	g := New()

	if _, err := g.IsSet(); !errors.Is(err, ErrUnavailable) {
		t.Errorf("IsSet() error = %v, want %v", err, ErrUnavailable)
	}
	if _, err := g.Unlock("x"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Unlock() error = %v, want %v", err, ErrUnavailable)
	}
	if IsAvailable() {
		t.Error("IsAvailable() = true with a failing keyring")
	}
}

func TestStatusString(t *testing.T) {
	if StatusCreated.String() != "created" || StatusUnlocked.String() != "unlocked" || StatusDenied.String() != "denied" {
		t.Error("unexpected Status strings")
	}
}
