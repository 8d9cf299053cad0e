package capture

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate_Transitions(t *testing.T) {
	var g Gate
	assert.Equal(t, StateIdle, g.State())

	require.NoError(t, g.TryStart())
	assert.Equal(t, StateBusy, g.State())

	assert.ErrorIs(t, g.TryStart(), ErrBusy)
	assert.Equal(t, StateBusy, g.State())

	g.Done()
	assert.Equal(t, StateIdle, g.State())
	assert.NoError(t, g.TryStart())
}

func TestGate_AdmitsOne(t *testing.T) {
	var (
		g        Gate
		admitted atomic.Int32
		wg       sync.WaitGroup
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryStart() == nil {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), admitted.Load())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "busy", StateBusy.String())
}
