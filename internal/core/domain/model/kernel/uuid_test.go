package kernel_test

import (
	"testing"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	id1 := kernel.NewUUID()
	id2 := kernel.NewUUID()

	require.NoError(t, id1.Validate())
	assert.False(t, id1.IsEqual(id2))
	assert.True(t, id1.IsEqual(id1))
}

func TestUUIDFromString(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id, err := kernel.UUIDFromString("550e8400-e29b-41d4-a716-446655440000")

		require.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("nil_uuid", func(t *testing.T) {
		_, err := kernel.UUIDFromString(uuid.Nil.String())

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	original := kernel.NewUUID()
	raw := original.Bytes()

	restored, err := kernel.UUIDFromBytes(raw[:])
	require.NoError(t, err)
	assert.True(t, original.IsEqual(restored))

	_, err = kernel.UUIDFromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestUUID_ZeroValueIsInvalid(t *testing.T) {
	var id kernel.UUID

	require.ErrorIs(t, id.Validate(), kernel.ErrUUIDIsNotConstructed)
}
