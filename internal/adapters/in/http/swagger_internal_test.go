package http

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerRegistry_RemembersFailedRegistration(t *testing.T) {
	var registry swaggerRegistry
	encodeErr := errors.New("unsupported value")
	calls := 0
	encode := func() ([]byte, error) {
		calls++
		return nil, encodeErr
	}

	first := registry.register(encode)
	second := registry.register(encode)

	require.ErrorIs(t, first, encodeErr)
	require.ErrorIs(t, second, encodeErr)
	assert.Equal(t, 1, calls)
}
