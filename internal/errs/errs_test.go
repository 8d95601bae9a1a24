package errs

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", cause, 1},
		{"config", E(Config, "load", cause), 2},
		{"network", E(Network, "send", cause), 3},
		{"parse", E(Parse, "decode", cause), 4},
		{"schema", E(Schema, "extract", cause), 5},
		{"io", E(IO, "save", cause), 6},
		{"wrapped", fmt.Errorf("run: %w", E(Schema, "extract", cause)), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestErrorUnwrapsCause(t *testing.T) {
	err := E(IO, "save deck", fs.ErrPermission)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, "save deck: permission denied", err.Error())
	assert.True(t, Is(err, IO))
	assert.False(t, Is(err, Config))
}

func TestENilIsNil(t *testing.T) {
	assert.NoError(t, E(Config, "load", nil))
}

func TestErrorfWrapsWithVerb(t *testing.T) {
	err := Errorf(Network, "send", "status %d: %w", 503, fs.ErrNotExist)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Equal(t, Network, KindOf(err))
	assert.Equal(t, "network", KindOf(err).String())
}
