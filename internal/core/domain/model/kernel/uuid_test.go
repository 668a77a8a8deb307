package kernel_test

import (
	"encoding/json"
	"testing"

	"bytebite/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("should create a new UUID", func(t *testing.T) {
		id := kernel.NewUUID()

		require.NoError(t, id.Validate())
		assert.False(t, id.IsZero())
		assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, id.String())
	})

	t.Run("should create unique UUIDs", func(t *testing.T) {
		id1 := kernel.NewUUID()
		id2 := kernel.NewUUID()

		assert.False(t, id1.IsEqual(id2))
	})
}

func TestUUIDFromString(t *testing.T) {
	validUUID := "550e8400-e29b-41d4-a716-446655440000"

	t.Run("should accept supported forms", func(t *testing.T) {
		for _, in := range []string{
			validUUID,
			"{550e8400-e29b-41d4-a716-446655440000}",
			"urn:uuid:550e8400-e29b-41d4-a716-446655440000",
			"550e8400e29b41d4a716446655440000",
		} {
			id, err := kernel.UUIDFromString(in)
			require.NoError(t, err, in)
			assert.Equal(t, validUUID, id.String())
		}
	})

	t.Run("should return error for invalid UUID format", func(t *testing.T) {
		for _, in := range []string{"", "not-a-uuid", "550e8400-e29b-41d4-a716", "zzze8400-e29b-41d4-a716-446655440000"} {
			_, err := kernel.UUIDFromString(in)
			require.Error(t, err, in)
			assert.Contains(t, err.Error(), "invalid UUID format")
		}
	})

	t.Run("nil UUID parses but is not valid", func(t *testing.T) {
		id, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000000")

		require.NoError(t, err)
		assert.True(t, id.IsZero())
		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
	})
}

func TestMustUUIDFromString(t *testing.T) {
	assert.NotPanics(t, func() { kernel.MustUUIDFromString("550e8400-e29b-41d4-a716-446655440000") })
	assert.Panics(t, func() { kernel.MustUUIDFromString("nope") })
}

func TestUUID_Validate(t *testing.T) {
	var id kernel.UUID

	assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
	assert.True(t, id.IsEqual(kernel.UUID{}))
}

func TestUUID_JSON(t *testing.T) {
	type body struct {
		DeliveryID kernel.UUID `json:"deliveryId"`
	}

	t.Run("round trips through text encoding", func(t *testing.T) {
		id := kernel.MustUUIDFromString("550e8400-e29b-41d4-a716-446655440000")

		raw, err := json.Marshal(body{DeliveryID: id})
		require.NoError(t, err)
		assert.JSONEq(t, `{"deliveryId":"550e8400-e29b-41d4-a716-446655440000"}`, string(raw))

		var decoded body
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.True(t, id.IsEqual(decoded.DeliveryID))
	})

	t.Run("rejects malformed ids", func(t *testing.T) {
		var decoded body
		err := json.Unmarshal([]byte(`{"deliveryId":"42"}`), &decoded)
		require.Error(t, err)
	})
}
