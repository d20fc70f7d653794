package debounce

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSchedule_CoalescesBurst(t *testing.T) {
	d := New(40 * time.Millisecond)
	var runs int32
	for i := 0; i < 10; i++ {
		d.Schedule("doc", func() { atomic.AddInt32(&runs, 1) })
		time.Sleep(5 * time.Millisecond)
	}
	require.True(t, d.Pending("doc"))
	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) == 1 }, time.Second, 5*time.Millisecond)

	// nothing else fires after the window closed
	time.Sleep(80 * time.Millisecond)
	require.EqualValues(t, 1, atomic.LoadInt32(&runs))
	require.False(t, d.Pending("doc"))
}

func TestSchedule_KeysAreIndependent(t *testing.T) {
	d := New(20 * time.Millisecond)
	var a, b int32
	d.Schedule("a", func() { atomic.AddInt32(&a, 1) })
	d.Schedule("b", func() { atomic.AddInt32(&b, 1) })
	d.Schedule("a", func() { atomic.AddInt32(&a, 1) })

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&a) == 1 && atomic.LoadInt32(&b) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestSchedule_LatestFunctionWins(t *testing.T) {
	d := New(20 * time.Millisecond)
	var got atomic.Value
	d.Schedule("k", func() { got.Store("first") })
	d.Schedule("k", func() { got.Store("second") })
	require.Eventually(t, func() bool { return got.Load() == "second" }, time.Second, 5*time.Millisecond)
}

func TestStop_CancelsPendingAndIgnoresLater(t *testing.T) {
	d := New(20 * time.Millisecond)
	var runs int32
	d.Schedule("k", func() { atomic.AddInt32(&runs, 1) })
	d.Stop()
	d.Schedule("k", func() { atomic.AddInt32(&runs, 1) })
	require.False(t, d.Pending("k"))

	time.Sleep(60 * time.Millisecond)
	require.EqualValues(t, 0, atomic.LoadInt32(&runs))
}
