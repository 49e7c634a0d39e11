package refetch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveFiresOnDuration(t *testing.T) {
	spec := TimeoutSpec{Duration: 20 * time.Millisecond}
	ctx, cancel := spec.Derive()
	defer cancel()

	select {
	case <-ctx.Done():
		assert.Equal(t, context.DeadlineExceeded, ctx.Err())
	case <-time.After(time.Second):
		t.Fatal("derived context never fired")
	}
}

func TestDeriveFiresOnExternalSignal(t *testing.T) {
	external, cancelExternal := context.WithCancel(context.Background())
	spec := TimeoutSpec{Duration: time.Minute, Signal: external}
	ctx, cancel := spec.Derive()
	defer cancel()

	cancelExternal()

	select {
	case <-ctx.Done():
		assert.Equal(t, context.Canceled, ctx.Err())
	case <-time.After(time.Second):
		t.Fatal("external cancellation did not propagate into derived context")
	}
}

func TestDeriveFirstFiresWins(t *testing.T) {
	external, cancelExternal := context.WithCancel(context.Background())
	defer cancelExternal()

	// Duration much shorter than the external signal's lifetime.
	spec := TimeoutSpec{Duration: 10 * time.Millisecond, Signal: external}
	ctx, cancel := spec.Derive()
	defer cancel()

	<-ctx.Done()
	assert.Equal(t, context.DeadlineExceeded, ctx.Err())
	assert.NoError(t, external.Err(), "derived firing must never propagate to the external signal")
}

func TestDeriveNonOwning(t *testing.T) {
	external, cancelExternal := context.WithCancel(context.Background())
	defer cancelExternal()

	spec := TimeoutSpec{Duration: time.Minute, Signal: external}
	ctx, cancel := spec.Derive()

	cancel()
	require.Error(t, ctx.Err())
	assert.NoError(t, external.Err(), "cancelling the derived context must not cancel the external signal")
}

func TestDeriveIdempotentCancel(t *testing.T) {
	spec := TimeoutSpec{Duration: time.Minute}
	ctx, cancel := spec.Derive()

	cancel()
	firstErr := ctx.Err()
	cancel()

	assert.Equal(t, firstErr, ctx.Err(), "a fired signal never un-fires and firing twice is a no-op")
}

func TestDeriveZeroDurationNoDeadline(t *testing.T) {
	spec := TimeoutSpec{}
	ctx, cancel := spec.Derive()
	defer cancel()

	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline, "no TimeoutSpec duration means no derived deadline")

	select {
	case <-ctx.Done():
		t.Fatal("derived context fired without a deadline or external cancellation")
	case <-time.After(30 * time.Millisecond):
	}
}

func TestDeriveNilSignalUsesBackground(t *testing.T) {
	spec := TimeoutSpec{Duration: time.Minute, Signal: nil}
	ctx, cancel := spec.Derive()
	defer cancel()

	assert.NoError(t, ctx.Err())
}
