package telemetry

// Counts tallies events by type.
type Counts struct {
	Escapes         int `csv:"escapes"`
	Captures        int `csv:"captures"`
	Herds           int `csv:"herds"`
	Repairs         int `csv:"repairs"`
	Feeds           int `csv:"feeds"`
	EggsCollected   int `csv:"eggs_collected"`
	EggsDeposited   int `csv:"eggs_deposited"`
	GoldenDeposited int `csv:"golden_deposited"`
	EggsLost        int `csv:"eggs_lost"`
	Neutralized     int `csv:"neutralized"`
	HolesOpened     int `csv:"holes_opened"`
	RaccoonsSpawned int `csv:"raccoons_spawned"`
}

func (c *Counts) add(ev Event) {
	switch ev.Type {
	case EventEscape:
		c.Escapes++
	case EventCapture:
		c.Captures++
	case EventHerd:
		c.Herds++
	case EventRepair:
		c.Repairs++
	case EventFeed:
		c.Feeds++
	case EventEggCollected:
		c.EggsCollected++
	case EventEggsDeposited:
		c.EggsDeposited += ev.Count
		c.GoldenDeposited += ev.Golden
	case EventNeutralize:
		c.Neutralized++
	case EventHoleOpened:
		c.HolesOpened++
	case EventRaccoonSpawned:
		c.RaccoonsSpawned++
	case EventDrop:
		c.EggsLost += ev.Count
	}
}

// Sample is the flock and field state at a window boundary.
type Sample struct {
	InCoop    int
	Escaped   int
	Captured  int
	OpenHoles int
	Raccoons  int
	Score     int
	Lives     int
	Hungers   []float64
}

// Collector accumulates events within time windows and produces WindowStats.
// It also keeps running totals for the whole round.
type Collector struct {
	windowDuration float64
	windowStart    float64
	roundID        string

	window Counts
	round  Counts
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in round seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 10
	}
	return &Collector{windowDuration: windowDurationSec}
}

// StartRound clears every counter and tags later windows with roundID.
func (c *Collector) StartRound(roundID string) {
	c.roundID = roundID
	c.windowStart = 0
	c.window = Counts{}
	c.round = Counts{}
}

// Record adds an event to the current window and the round totals.
func (c *Collector) Record(ev Event) {
	c.window.add(ev)
	c.round.add(ev)
}

// ShouldFlush returns true if enough round time has passed to flush the window.
func (c *Collector) ShouldFlush(now float64) bool {
	return now-c.windowStart >= c.windowDuration
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(now float64, s Sample) WindowStats {
	mean, std, p10, p50, p90 := ComputeHungerStats(s.Hungers)

	stats := WindowStats{
		RoundID:     c.roundID,
		WindowStart: c.windowStart,
		WindowEnd:   now,
		Counts:      c.window,

		InCoop:    s.InCoop,
		Escaped:   s.Escaped,
		Captured:  s.Captured,
		OpenHoles: s.OpenHoles,
		Raccoons:  s.Raccoons,
		Score:     s.Score,
		Lives:     s.Lives,

		HungerMean: mean,
		HungerStd:  std,
		HungerP10:  p10,
		HungerP50:  p50,
		HungerP90:  p90,
	}

	// Reset for next window
	c.windowStart = now
	c.window = Counts{}

	return stats
}

// Round returns the totals since StartRound.
func (c *Collector) Round() Counts {
	return c.round
}

// WindowDuration returns the window length in seconds.
func (c *Collector) WindowDuration() float64 {
	return c.windowDuration
}
