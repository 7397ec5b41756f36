package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate(t *testing.T) {
	rec := &Recorder{}
	require.NoError(t, Simulate(context.Background(), rec, PrintIDCard("VIC001", time.Millisecond)))

	got := rec.All()
	require.Len(t, got, 2)
	assert.Equal(t, LevelInfo, got[0].Level)
	assert.Equal(t, "Printing ID card...", got[0].Message)
	assert.Equal(t, LevelSuccess, got[1].Level)
	assert.Equal(t, "ID card printed successfully!", got[1].Message)
	assert.Equal(t, "VIC001", got[1].Topic)
}

func TestSimulateCancelled(t *testing.T) {
	rec := &Recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Simulate(ctx, rec, SendToAuthorities(time.Hour))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"Sending report to authorities..."}, rec.Messages())
}

func TestSendNilNotifier(t *testing.T) {
	assert.NotPanics(t, func() { Send(context.Background(), nil, LevelInfo, "", "x") })
	assert.NotPanics(t, func() { Nop.Notify(context.Background(), Notification{}) })
}
