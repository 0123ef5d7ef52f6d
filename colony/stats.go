package colony

import (
	"time"
)

// Timings aggregates the durations of repeated measurements.
type Timings struct {
	Count         int
	Latest        time.Duration
	MovingAverage time.Duration
	Min, Max      time.Duration
}

func (t Timings) Add(d time.Duration) Timings {
	t.Latest = d

	if t.Count == 0 {
		t.Min = d
		t.Max = d
		t.MovingAverage = d
	} else {
		t.Min = min(t.Min, d)
		t.Max = max(t.Max, d)
		t.MovingAverage = (95*t.MovingAverage + 5*d) / 100
	}

	t.Count += 1

	return t
}

// TickStats records how long each phase of a tick takes.
type TickStats struct {
	ByPhase    map[string]Timings
	PhaseOrder []string

	Tick Timings
}

func NewTickStats() TickStats {
	return TickStats{
		ByPhase: map[string]Timings{},
	}
}

func (t *TickStats) MeasurePhase(phase string) Stopwatch {
	startTime := time.Now()

	if _, ok := t.ByPhase[phase]; !ok {
		t.PhaseOrder = append(t.PhaseOrder, phase)
	}

	return Stopwatch{
		Stop: func() {
			t.ByPhase[phase] = t.ByPhase[phase].Add(time.Since(startTime))
		},
	}
}

func (t *TickStats) MeasureTick() Stopwatch {
	startTime := time.Now()

	return Stopwatch{
		Stop: func() {
			t.Tick = t.Tick.Add(time.Since(startTime))
		},
	}
}

type Stopwatch struct {
	Stop func()
}
