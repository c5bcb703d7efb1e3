package telemetry

import (
	"log/slog"
	"slices"
	"time"
)

// Phase names for one frame of the playground, or one solve headless.
const (
	PhaseInput     = "input"
	PhaseSolve     = "solve"
	PhaseTrail     = "trail"
	PhaseRender    = "render"
	PhaseTelemetry = "telemetry"
)

var phaseOrder = [...]string{PhaseInput, PhaseSolve, PhaseTrail, PhaseRender, PhaseTelemetry}

// Phases returns the phase names in reporting order.
func Phases() []string {
	return slices.Clone(phaseOrder[:])
}

func phaseIndex(name string) int {
	return slices.Index(phaseOrder[:], name)
}

// tick is one timed frame. Unknown phase names are not timed.
type tick struct {
	total      time.Duration
	phases     [len(phaseOrder)]time.Duration
	iterations int
}

// PerfCollector times ticks and their phases over a ring of the most recent
// ticks, along with how many solver iterations each tick ran.
type PerfCollector struct {
	ring  []tick
	next  int
	count int

	cur        tick
	tickStart  time.Time
	phaseStart time.Time
	phase      int

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tick, window), phase: -1}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = tick{}
	p.phase = -1
}

// StartPhase closes the running phase and starts timing the named one.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phaseIndex(name)
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// AddIterations credits n solver iterations to the current tick.
func (p *PerfCollector) AddIterations(n int) {
	p.cur.iterations += n
}

// EndTick closes the tick and pushes it into the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = -1
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// RecordFrame marks a rendered frame. Frame timing is tracked apart from
// ticks so the FPS reflects vsync as well.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the ticks currently in the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average tick, 0 to 100

	TicksPerSecond      float64
	IterationsPerSecond float64 // solver iterations per second of tick time

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes the window averages.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration, len(phaseOrder)),
		PhasePct:      make(map[string]float64, len(phaseOrder)),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	var sums [len(phaseOrder)]time.Duration
	iterations := 0
	for i, t := range p.ring[:p.count] {
		total += t.total
		if i == 0 || t.total < s.MinTickDuration {
			s.MinTickDuration = t.total
		}
		s.MaxTickDuration = max(s.MaxTickDuration, t.total)
		for j, d := range t.phases {
			sums[j] += d
		}
		iterations += t.iterations
	}

	n := time.Duration(p.count)
	s.AvgTickDuration = total / n
	for j, name := range phaseOrder {
		if sums[j] == 0 {
			continue
		}
		avg := sums[j] / n
		s.PhaseAvg[name] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	if total > 0 {
		s.IterationsPerSecond = float64(iterations) / total.Seconds()
	}
	return s
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("iters_per_sec", int(s.IterationsPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, name := range phaseOrder {
		if pct := s.PhasePct[name]; pct >= 0.1 {
			attrs = append(attrs, slog.Float64(name+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	ItersPerSec  float64 `csv:"iters_per_sec"`
	FPS          float64 `csv:"fps"`
	InputPct     float64 `csv:"input_pct"`
	SolvePct     float64 `csv:"solve_pct"`
	TrailPct     float64 `csv:"trail_pct"`
	RenderPct    float64 `csv:"render_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		ItersPerSec:  s.IterationsPerSecond,
		FPS:          s.FPS,
		InputPct:     s.PhasePct[PhaseInput],
		SolvePct:     s.PhasePct[PhaseSolve],
		TrailPct:     s.PhasePct[PhaseTrail],
		RenderPct:    s.PhasePct[PhaseRender],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
