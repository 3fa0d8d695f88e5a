package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("kind", "must be lost or found"), KindValidation},
		{"not found", NotFound("post not found"), KindNotFound},
		{"conflict wrapped", fmt.Errorf("resolve: %w", Conflict("post is already resolved")), KindConflict},
		{"auth", Auth("invalid email or password"), KindAuth},
		{"storage", Storage("list posts", errors.New("dial tcp: refused")), KindStorage},
		{"plain error", errors.New("boom"), KindStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("get post: %w", NotFound("post not found"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
}

func TestStorageUnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage("insert post", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestValidationMessage(t *testing.T) {
	err := Validation("title", "is required")
	assert.Equal(t, "validation_error: title: is required", err.Error())
}
