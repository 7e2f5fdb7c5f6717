package testutil

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/registry"
)

// ExecutionRecord holds the start and end times of one constructed sleeper.
type ExecutionRecord struct {
	Start time.Time
	End   time.Time
}

// Sleeper is the instance type produced by SleeperModule targets.
type Sleeper struct {
	Name string
}

// SleeperModule registers one target type per named duration; each
// constructor sleeps for its duration and records when it ran. Batch tests
// use the records to assert overlap, ordering, and wall-clock shape.
type SleeperModule struct {
	durations map[string]time.Duration

	mu      sync.Mutex
	records map[string]*ExecutionRecord

	active    atomic.Int32
	maxActive atomic.Int32
}

// NewSleeperModule creates a sleeper module for the given target durations.
func NewSleeperModule(durations map[string]time.Duration) *SleeperModule {
	return &SleeperModule{
		durations: durations,
		records:   make(map[string]*ExecutionRecord),
	}
}

// Register registers each sleeper as a parameterless target type.
func (m *SleeperModule) Register(r *registry.Registry) {
	for name, d := range m.durations {
		r.RegisterTarget(name, &registry.Constructor{
			Fn: m.constructor(name, d),
		})
	}
}

func (m *SleeperModule) constructor(name string, d time.Duration) func() *Sleeper {
	return func() *Sleeper {
		cur := m.active.Add(1)
		for {
			max := m.maxActive.Load()
			if cur <= max || m.maxActive.CompareAndSwap(max, cur) {
				break
			}
		}
		defer m.active.Add(-1)

		start := time.Now()
		time.Sleep(d)

		m.mu.Lock()
		m.records[name] = &ExecutionRecord{Start: start, End: time.Now()}
		m.mu.Unlock()
		return &Sleeper{Name: name}
	}
}

// Record returns the execution record for one target, if it ran.
func (m *SleeperModule) Record(name string) (*ExecutionRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[name]
	return rec, ok
}

// MaxActive reports the highest number of constructors observed running at
// the same time.
func (m *SleeperModule) MaxActive() int {
	return int(m.maxActive.Load())
}
