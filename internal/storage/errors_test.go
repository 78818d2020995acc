package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesSentinels(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		sentinel error
	}{
		{name: "not found", kind: KindNotFound, sentinel: ErrNotFound},
		{name: "unavailable", kind: KindUnavailable, sentinel: ErrUnavailable},
		{name: "quota", kind: KindQuotaExceeded, sentinel: ErrQuotaExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewError("get log", tt.kind, errors.New("boom"))
			assert.ErrorIs(t, err, tt.sentinel)

			wrapped := fmt.Errorf("toggle: %w", err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.kind, KindOf(wrapped))
		})
	}
}

func TestErrorDoesNotMatchOtherKinds(t *testing.T) {
	err := NewError("put log", KindQuotaExceeded, errors.New("disk full"))
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnavailable)
	assert.False(t, IsNotFound(err))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := NewError("open", KindUnavailable, cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "open")
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestNewErrorNil(t *testing.T) {
	assert.NoError(t, NewError("open", KindInternal, nil))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("wrap: %w", ErrNotFound)))
	assert.Equal(t, KindUnavailable, KindOf(ErrUnavailable))
}
