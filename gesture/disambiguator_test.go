package gesture

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// counter records callback invocations
type counter struct {
	mu      sync.Mutex
	singles []Click
	doubles []Click
}

func (c *counter) single(cl Click) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.singles = append(c.singles, cl)
}

func (c *counter) double(cl Click) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doubles = append(c.doubles, cl)
}

func (c *counter) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.singles), len(c.doubles)
}

func newFrameDisambiguator(c *counter) (*Disambiguator, *FrameScheduler) {
	clock := NewFrameScheduler(0)
	return New(DefaultDelay, c.single, c.double, WithScheduler(clock)), clock
}

func TestSingleClickAfterSilence(t *testing.T) {
	c := &counter{}
	d, clock := newFrameDisambiguator(c)

	d.HandleClick(Click{X: 3, Y: 4})
	clock.Advance(DefaultDelay - time.Millisecond)
	singles, doubles := c.counts()
	require.Zero(t, singles, "window still open")
	require.True(t, d.Pending())

	clock.Advance(DefaultDelay + 10*time.Millisecond)
	singles, doubles = c.counts()
	assert.Equal(t, 1, singles)
	assert.Zero(t, doubles)
	assert.Equal(t, Click{X: 3, Y: 4}, c.singles[0])
	assert.False(t, d.Pending())

	// Nothing more fires later
	clock.Advance(10 * time.Second)
	singles, doubles = c.counts()
	assert.Equal(t, 1, singles)
	assert.Zero(t, doubles)
}

func TestDoubleClickInsideWindow(t *testing.T) {
	c := &counter{}
	d, clock := newFrameDisambiguator(c)

	d.HandleClick(Click{X: 1})
	clock.Advance(DefaultDelay - 10*time.Millisecond)
	d.HandleClick(Click{X: 2})

	singles, doubles := c.counts()
	assert.Zero(t, singles)
	assert.Equal(t, 1, doubles)
	assert.Equal(t, Click{X: 2}, c.doubles[0])
	assert.False(t, d.Pending())
	assert.Zero(t, clock.Pending(), "no residual timer")

	clock.Advance(10 * time.Second)
	singles, doubles = c.counts()
	assert.Zero(t, singles)
	assert.Equal(t, 1, doubles)
}

func TestClickSequences(t *testing.T) {
	type step struct {
		at    time.Duration
		click bool
	}
	cases := []struct {
		name    string
		steps   []step
		singles int
		doubles int
	}{
		{"two slow clicks", []step{{0, true}, {300 * time.Millisecond, true}, {700 * time.Millisecond, false}}, 2, 0},
		{"triple click", []step{{0, true}, {100 * time.Millisecond, true}, {150 * time.Millisecond, true}, {500 * time.Millisecond, false}}, 1, 1},
		{"two doubles", []step{{0, true}, {50 * time.Millisecond, true}, {400 * time.Millisecond, true}, {450 * time.Millisecond, true}, {2 * time.Second, false}}, 0, 2},
		{"boundary fires single first", []step{{0, true}, {DefaultDelay, true}, {time.Second, false}}, 2, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &counter{}
			d, clock := newFrameDisambiguator(c)
			for _, s := range tc.steps {
				clock.Advance(s.at)
				if s.click {
					d.HandleClick(Click{})
				}
			}
			singles, doubles := c.counts()
			assert.Equal(t, tc.singles, singles)
			assert.Equal(t, tc.doubles, doubles)
		})
	}
}

func TestCloseCancelsWindow(t *testing.T) {
	c := &counter{}
	d, clock := newFrameDisambiguator(c)

	d.HandleClick(Click{})
	d.Close()
	clock.Advance(time.Second)

	singles, doubles := c.counts()
	assert.Zero(t, singles)
	assert.Zero(t, doubles)
	assert.False(t, d.Pending())

	// A click after Close opens a fresh window
	d.HandleClick(Click{})
	clock.Advance(2 * time.Second)
	singles, _ = c.counts()
	assert.Equal(t, 1, singles)
}

func TestDefaultDelay(t *testing.T) {
	clock := NewFrameScheduler(0)
	d := New(0, nil, nil, WithScheduler(clock))
	d.HandleClick(Click{})
	clock.Advance(249 * time.Millisecond)
	assert.True(t, d.Pending())
	clock.Advance(250 * time.Millisecond)
	assert.False(t, d.Pending())

	// Nil callbacks are tolerated
	d = New(time.Millisecond, nil, nil, WithScheduler(clock))
	d.HandleClick(Click{})
	clock.Advance(time.Second)
	d.HandleClick(Click{})
	d.HandleClick(Click{})
	assert.False(t, d.Pending())
}

func TestWallSchedulerSingleAndDouble(t *testing.T) {
	const delay = 40 * time.Millisecond
	c := &counter{}
	d := New(delay, c.single, c.double, WithScheduler(WallScheduler{}))

	d.HandleClick(Click{})
	assert.Eventually(t, func() bool {
		singles, _ := c.counts()
		return singles == 1
	}, time.Second, 5*time.Millisecond)

	d.HandleClick(Click{})
	d.HandleClick(Click{})
	time.Sleep(delay + 30*time.Millisecond)

	singles, doubles := c.counts()
	assert.Equal(t, 1, singles)
	assert.Equal(t, 1, doubles)
}

func TestWallSchedulerConcurrentClicksFireOncePerWindow(t *testing.T) {
	var fired atomic.Int32
	d := New(time.Millisecond, func(Click) { fired.Add(1) }, func(Click) { fired.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d.HandleClick(Click{})
			}
		}()
	}
	wg.Wait()
	time.Sleep(20 * time.Millisecond)
	d.Close()

	// Every window ends in exactly one callback, and a window needs at
	// least one click, so callbacks can never outnumber clicks
	assert.LessOrEqual(t, int(fired.Load()), 400)
	assert.Greater(t, int(fired.Load()), 0)
}

func TestDisambiguatorLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	clock := NewFrameScheduler(0)
	d := New(DefaultDelay, nil, nil, WithScheduler(clock), WithLogger(zap.New(core)))

	d.HandleClick(Click{})
	clock.Advance(time.Second)
	d.HandleClick(Click{})
	d.HandleClick(Click{})

	assert.Equal(t, 1, logs.FilterMessage("single click").Len())
	assert.Equal(t, 1, logs.FilterMessage("double click").Len())
}
