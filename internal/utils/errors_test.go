package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid argument", E(CodeInvalidArgument, "op", "bad", nil), http.StatusBadRequest},
		{"not found", E(CodeNotFound, "op", "missing", nil), http.StatusNotFound},
		{"oracle failure", E(CodeOracleFailure, "op", "llm", errors.New("boom")), http.StatusInternalServerError},
		{"internal", E(CodeInternal, "op", "db", nil), http.StatusInternalServerError},
		{"unknown code", E(Code("SOMETHING_ELSE"), "op", "x", nil), http.StatusInternalServerError},
		{"wrapped app error", fmt.Errorf("outer: %w", E(CodeNotFound, "op", "x", nil)), http.StatusNotFound},
		{"bare sentinel", ErrNotFound, http.StatusNotFound},
		{"plain error", errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := E(CodeInternal, "SessionService.Delete", "failed to delete session", errors.New("conn reset"))
	assert.Equal(t, "SessionService.Delete: failed to delete session: conn reset", err.Error())
	assert.True(t, IsCode(err, CodeInternal))
	assert.False(t, IsCode(err, CodeNotFound))

	assert.Equal(t, "only message", E(CodeInternal, "", "only message", nil).Error())
}

func TestAppErrorUnwrap(t *testing.T) {
	err := E(CodeNotFound, "op", "candidate not found", ErrNotFound)
	assert.True(t, errors.Is(err, ErrNotFound))
}
