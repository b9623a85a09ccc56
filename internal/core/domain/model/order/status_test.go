package order_test

import (
	"testing"
	"time"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want order.Status
	}{
		{"O", order.Open},
		{"P", order.Preparing},
		{"D", order.Delivering},
		{"C", order.Cancelled},
		{"F", order.Delivered},
		{"DELIVERED", order.Delivered},
		{"CANCELLED", order.Cancelled},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := order.ParseStatus(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := order.ParseStatus("X")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_StringAndCode(t *testing.T) {
	assert.Equal(t, "DELIVERING", order.Delivering.String())
	assert.Equal(t, "D", order.Delivering.Code())
	assert.Equal(t, "UNKNOWN", order.Unknown.String())
	require.Error(t, order.Unknown.Validate())
}

func TestStatus_IsFinal(t *testing.T) {
	assert.True(t, order.Cancelled.IsFinal())
	assert.True(t, order.Delivered.IsFinal())
	assert.False(t, order.Delivering.IsFinal())
	assert.False(t, order.Open.IsFinal())
}

func TestNewStatusEntry(t *testing.T) {
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.FixedZone("X", 7200))

	e, err := order.NewStatusEntry(order.Preparing, ts)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, e.Timestamp().Location())

	_, err = order.NewStatusEntry(order.Preparing, time.Time{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
