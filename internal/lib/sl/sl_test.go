package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/club-portal/internal/lib/sl"
)

func TestErr_ReturnsCorrectAttr(t *testing.T) {
	err := errors.New("something went wrong")
	attr := sl.Err(err)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("something went wrong"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	assert.Panics(t, func() {
		_ = sl.Err(nil)
	})
}

func TestSecret_MasksValue(t *testing.T) {
	attr := sl.Secret("access_token", "eyJhbGciOiJIUzI1NiJ9")

	assert.Equal(t, "access_token", attr.Key)
	assert.Equal(t, slog.StringValue("eyJh****"), attr.Value)
}

func TestSecret_ShortValue(t *testing.T) {
	attr := sl.Secret("access_token", "abc")

	assert.Equal(t, slog.StringValue("****"), attr.Value)
}
