package flock

import (
	"math/rand"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/coopkeeper/config"
	"github.com/pthm-cable/coopkeeper/coop"
	"github.com/pthm-cable/coopkeeper/spatial"
)

const testDT = 1.0 / 60.0

type fixture struct {
	cfg   *config.Config
	coop  *coop.Coop
	holes *coop.HoleManager
	mgr   *Manager
}

// newFixture builds a flock from the defaults. tweak may edit the config
// before anything is constructed.
func newFixture(t *testing.T, tweak func(cfg *config.Config)) *fixture {
	t.Helper()
	cfg := config.Default()
	if tweak != nil {
		tweak(cfg)
	}
	table, err := NewBreedTable(cfg.Breeds)
	if err != nil {
		t.Fatalf("NewBreedTable: %v", err)
	}
	rng := rand.New(rand.NewSource(42))
	c := coop.New(cfg.Coop)
	field := spatial.Rect{Max: r2.Vec{X: cfg.Field.Width, Y: cfg.Field.Height}}
	f := &fixture{
		cfg:   cfg,
		coop:  c,
		holes: coop.NewHoleManager(cfg.Fence, cfg.Interaction.RepairReach, c, rng),
		mgr:   NewManager(table, cfg.Flock, field, rng),
	}
	f.mgr.SpawnChickens(c)
	return f
}

// onlyBold makes one breed certain to breach and every other breed inert.
func onlyBold(b Breed) func(cfg *config.Config) {
	return func(cfg *config.Config) {
		for i := range cfg.Breeds {
			if cfg.Breeds[i].Name == b.String() {
				cfg.Breeds[i].Boldness = 1e6
			} else {
				cfg.Breeds[i].Boldness = 0
			}
		}
	}
}

func TestSpawnChickensOnePerBreed(t *testing.T) {
	f := newFixture(t, nil)
	roster := f.mgr.Chickens()
	if len(roster) != NumBreeds {
		t.Fatalf("roster size = %d, want %d", len(roster), NumBreeds)
	}
	seen := make(map[Breed]bool)
	for _, ch := range roster {
		if seen[ch.Breed] {
			t.Errorf("duplicate breed %s", ch.Breed)
		}
		seen[ch.Breed] = true
		if !f.coop.Contains(ch.Pos) {
			t.Errorf("%s spawned outside the coop at %v", ch.Breed, ch.Pos)
		}
	}

	// Reset builds a fresh roster
	f.mgr.Reset(f.coop)
	if f.mgr.Chickens()[0] == roster[0] {
		t.Error("Reset should replace the roster")
	}
}

func TestInitialCounts(t *testing.T) {
	f := newFixture(t, nil)
	f.mgr.Update(0, f.coop, nil, 0)
	if got := f.mgr.InCoopCount(); got != 12 {
		t.Errorf("InCoopCount = %d, want 12", got)
	}
	if got := f.mgr.EscapedCount(); got != 0 {
		t.Errorf("EscapedCount = %d, want 0", got)
	}
}

func TestForcedBreachReportsEscapeOnce(t *testing.T) {
	f := newFixture(t, onlyBold(BreedLeghorn))
	if _, ok := f.holes.SpawnHoleAt(coop.SideBottom, 0.5); !ok {
		t.Fatal("hole should open")
	}
	leghorn := f.mgr.ByBreed(BreedLeghorn)

	reports := 0
	sawBreaching := false
	for i := 0; i < 20*60; i++ {
		escaped := f.mgr.Update(testDT, f.coop, f.holes.OpenHoles(), float64(i)*testDT)
		if leghorn.State == StateBreaching {
			sawBreaching = true
		}
		for _, ch := range escaped {
			if ch != leghorn {
				t.Fatalf("unexpected escape by %s", ch.Breed)
			}
			reports++
		}
	}

	if !sawBreaching {
		t.Error("chicken never passed through Breaching")
	}
	if reports != 1 {
		t.Errorf("escape reported %d times, want 1", reports)
	}
	if leghorn.State != StateEscaped || !leghorn.IsEscaped() {
		t.Errorf("leghorn state = %s, want escaped", leghorn.State)
	}
	if got := f.mgr.EscapedCount(); got != 1 {
		t.Errorf("EscapedCount = %d, want 1", got)
	}
	if f.coop.Contains(leghorn.Pos) {
		t.Error("escaped chicken roamed back into the coop")
	}
}

func TestMidBreachIsNotEscaped(t *testing.T) {
	f := newFixture(t, onlyBold(BreedLeghorn))
	h, _ := f.holes.SpawnHoleAt(coop.SideBottom, 0.5)
	ch := f.mgr.Get(0)
	if !ch.BeginBreach(h) {
		t.Fatal("BeginBreach should succeed for an in-coop chicken")
	}
	f.mgr.Update(testDT, f.coop, f.holes.OpenHoles(), 0)
	if ch.State != StateBreaching {
		t.Fatalf("state = %s, want breaching", ch.State)
	}
	if f.mgr.InCoopCount()+f.mgr.EscapedCount() != 11 {
		t.Errorf("mid-breach chicken should be in neither count, got %d + %d",
			f.mgr.InCoopCount(), f.mgr.EscapedCount())
	}
}

func TestBreachRevertsWhenHoleCloses(t *testing.T) {
	f := newFixture(t, nil)
	h, _ := f.holes.SpawnHoleAt(coop.SideBottom, 0.5)
	ch := f.mgr.Get(3)
	ch.BeginBreach(h)

	// Hole gone before the chicken reached it
	f.mgr.Update(testDT, f.coop, nil, 0)
	if ch.State != StateInCoop || !ch.InCoop {
		t.Errorf("state = %s, want in_coop after the hole closed", ch.State)
	}
}

func TestCountInvariantHolds(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		for i := range cfg.Breeds {
			cfg.Breeds[i].Boldness *= 20
		}
		cfg.Fence.FirstSpawnDelay = 0
	})
	for i := 0; i < 60*60; i++ {
		f.holes.Update(testDT)
		f.mgr.Update(testDT, f.coop, f.holes.OpenHoles(), float64(i)*testDT)
		if sum := f.mgr.InCoopCount() + f.mgr.EscapedCount(); sum > NumBreeds {
			t.Fatalf("frame %d: InCoopCount + EscapedCount = %d > %d", i, sum, NumBreeds)
		}
	}
}

func TestHungerMonotonicAndEggsOnlyInCoop(t *testing.T) {
	f := newFixture(t, onlyBold(BreedGoldenPhoenix))
	f.holes.SpawnHoleAt(coop.SideRight, 0.5)
	golden := f.mgr.SpecialChicken()
	if golden == nil || golden.Breed != BreedGoldenPhoenix {
		t.Fatalf("SpecialChicken = %v, want golden_phoenix", golden)
	}

	prev := f.mgr.Hungers()
	for i := 0; i < 90*60; i++ {
		wasInCoop := golden.InCoop
		hadEgg := golden.HasEgg
		f.mgr.Update(testDT, f.coop, f.holes.OpenHoles(), float64(i)*testDT)

		cur := f.mgr.Hungers()
		for j := range cur {
			if cur[j] > prev[j] {
				t.Fatalf("frame %d: hunger of chicken %d rose from %f to %f without feeding", i, j, prev[j], cur[j])
			}
		}
		prev = cur

		if !wasInCoop && !golden.InCoop && !hadEgg && golden.HasEgg {
			t.Fatalf("frame %d: egg appeared outside the coop", i)
		}
	}
}

func TestLayerKeepsLayingWhenHungry(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		cfg.Flock.InitialHunger = 0
		for i := range cfg.Breeds {
			cfg.Breeds[i].Boldness = 0
			cfg.Breeds[i].EggInterval = 1
		}
	})
	for i := 0; i < 2*60; i++ {
		f.mgr.Update(testDT, f.coop, nil, float64(i)*testDT)
	}
	for _, ch := range f.mgr.ChickensWithEggs() {
		if ch.Stats.Special != SpecialLayer {
			t.Errorf("%s laid while starving", ch.Breed)
		}
	}
	if n := len(f.mgr.ChickensWithEggs()); n != 2 {
		t.Errorf("ChickensWithEggs = %d, want the 2 layers", n)
	}
}

func TestTankBlocking(t *testing.T) {
	f := newFixture(t, nil)
	env := &Env{Params: f.cfg.Flock}
	ch := f.mgr.ByBreed(BreedSussex)

	open := ch.BreachRate(env)
	env.TanksInCoop = 2
	blocked := ch.BreachRate(env)
	if blocked >= open {
		t.Errorf("tanks should lower the breach rate: open %f, blocked %f", open, blocked)
	}
	want := open / (1 + 2*f.cfg.Flock.TankBlock)
	if diff := blocked - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("blocked rate = %f, want %f", blocked, want)
	}

	// A tank does not block itself
	tank := f.mgr.ByBreed(BreedBrahma)
	env.TanksInCoop = 1
	solo := tank.BreachRate(env)
	env.TanksInCoop = 0
	if solo != tank.BreachRate(env) {
		t.Error("a lone tank should not damp its own breach rate")
	}
	if got := len(f.mgr.TankChickens()); got != 2 {
		t.Errorf("TankChickens = %d, want 2", got)
	}
}

func TestHerdReturnsChicken(t *testing.T) {
	f := newFixture(t, onlyBold(BreedPolish))
	f.holes.SpawnHoleAt(coop.SideTop, 0.5)
	polish := f.mgr.ByBreed(BreedPolish)
	for i := 0; i < 20*60 && polish.State != StateEscaped; i++ {
		f.mgr.Update(testDT, f.coop, f.holes.OpenHoles(), float64(i)*testDT)
	}
	if polish.State != StateEscaped {
		t.Fatalf("polish state = %s, want escaped", polish.State)
	}

	if !polish.Herd() {
		t.Fatal("Herd should turn an escaped chicken around")
	}
	if polish.Herd() {
		t.Error("Herd on a returning chicken should be a no-op")
	}

	returned := false
	for i := 0; i < 20*60 && !returned; i++ {
		// No holes, so the returned chicken stays put
		f.mgr.Update(testDT, f.coop, nil, 0)
		returned = polish.State == StateInCoop
	}
	if !returned || !polish.InCoop {
		t.Fatalf("herded chicken never returned, state %s", polish.State)
	}
	if f.mgr.EscapedCount() != 0 || f.mgr.InCoopCount() != 12 {
		t.Errorf("counts after return = %d in coop, %d escaped", f.mgr.InCoopCount(), f.mgr.EscapedCount())
	}
}

func TestInteractionPreconditions(t *testing.T) {
	f := newFixture(t, nil)
	ch := f.mgr.Get(5)

	tests := []struct {
		name string
		do   func() bool
		want bool
	}{
		{"feed full chicken", func() bool { ch.Hunger = 95; return ch.Feed(50, 90) }, false},
		{"feed hungry chicken", func() bool { ch.Hunger = 20; return ch.Feed(50, 90) }, true},
		{"collect without egg", func() bool { ch.HasEgg = false; return ch.CollectEgg() }, false},
		{"collect egg", func() bool { ch.HasEgg = true; return ch.CollectEgg() }, true},
		{"herd in-coop chicken", ch.Herd, false},
		{"calm in-coop chicken", func() bool { return ch.Calm(3) }, true},
		{"capture", ch.Capture, true},
		{"capture twice", ch.Capture, false},
		{"feed captured chicken", func() bool { ch.Hunger = 0; return ch.Feed(50, 90) }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.do(); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
	if ch.Hunger != 0 {
		t.Errorf("captured chicken hunger changed to %f", ch.Hunger)
	}
}

func TestCapturedExcludedFromCounts(t *testing.T) {
	f := newFixture(t, nil)
	f.mgr.Get(0).Capture()
	f.mgr.Update(testDT, f.coop, nil, 0)
	if f.mgr.InCoopCount() != 11 || f.mgr.EscapedCount() != 0 || f.mgr.CapturedCount() != 1 {
		t.Errorf("counts = %d in coop, %d escaped, %d captured",
			f.mgr.InCoopCount(), f.mgr.EscapedCount(), f.mgr.CapturedCount())
	}
	for _, ch := range f.mgr.HungryChickens(101) {
		if ch.State == StateCaptured {
			t.Error("HungryChickens returned a captured chicken")
		}
	}
}

func TestDefaultHungryUsesConfiguredThreshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		want      int
	}{
		{"none below zero", 0, 0},
		{"all below full", MaxHunger + 1, NumBreeds - 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, func(cfg *config.Config) {
				cfg.Flock.HungryThreshold = tc.threshold
			})
			f.mgr.Get(0).Capture()
			f.mgr.Update(testDT, f.coop, nil, 0)

			got := f.mgr.DefaultHungryChickens()
			if len(got) != tc.want {
				t.Errorf("DefaultHungryChickens = %d chickens, want %d", len(got), tc.want)
			}
			if len(got) != len(f.mgr.HungryChickens(tc.threshold)) {
				t.Error("DefaultHungryChickens disagrees with HungryChickens at the configured threshold")
			}
		})
	}
}

func TestCalmSuppressesBreach(t *testing.T) {
	f := newFixture(t, onlyBold(BreedLeghorn))
	f.holes.SpawnHoleAt(coop.SideBottom, 0.5)
	leghorn := f.mgr.ByBreed(BreedLeghorn)
	leghorn.Calm(1)
	for i := 0; i < 30; i++ {
		f.mgr.Update(testDT, f.coop, f.holes.OpenHoles(), 0)
	}
	if leghorn.State != StateInCoop {
		t.Errorf("calmed chicken breached, state %s", leghorn.State)
	}
}

func TestQueriesReflectLastUpdate(t *testing.T) {
	f := newFixture(t, nil)
	ch := f.mgr.Get(2)
	ch.HasEgg = true
	if len(f.mgr.ChickensWithEggs()) != 0 {
		t.Error("query observed a change made after the last update")
	}
	f.mgr.Update(0, f.coop, nil, 0)
	if len(f.mgr.ChickensWithEggs()) != 1 {
		t.Error("query should see the egg after an update")
	}
}

func TestParseBreed(t *testing.T) {
	b, err := ParseBreed(" Golden_Phoenix ")
	if err != nil || b != BreedGoldenPhoenix {
		t.Errorf("ParseBreed = %v, %v", b, err)
	}
	_, err = ParseBreed("legorn")
	if err == nil || !strings.Contains(err.Error(), `"leghorn"`) {
		t.Errorf("ParseBreed(legorn) error = %v, want a leghorn suggestion", err)
	}
}

func TestNewBreedTableErrors(t *testing.T) {
	base := config.Default().Breeds

	tests := []struct {
		name  string
		edit  func([]config.BreedConfig) []config.BreedConfig
		match string
	}{
		{"missing", func(r []config.BreedConfig) []config.BreedConfig { return r[1:] }, "missing"},
		{"duplicate", func(r []config.BreedConfig) []config.BreedConfig { return append(r, r[0]) }, "twice"},
		{"unknown", func(r []config.BreedConfig) []config.BreedConfig { r[0].Name = "bantam"; return r }, "unknown breed"},
		{"bad special", func(r []config.BreedConfig) []config.BreedConfig { r[0].Special = "tnak"; return r }, `"tank"`},
		{"zero radius", func(r []config.BreedConfig) []config.BreedConfig { r[0].Radius = 0; return r }, "positive"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records := append([]config.BreedConfig(nil), base...)
			_, err := NewBreedTable(tc.edit(records))
			if err == nil || !strings.Contains(err.Error(), tc.match) {
				t.Errorf("error = %v, want one containing %q", err, tc.match)
			}
		})
	}
}

func TestUpdateNegativeDTPanics(t *testing.T) {
	f := newFixture(t, nil)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative dt")
		}
	}()
	f.mgr.Update(-1, f.coop, nil, 0)
}
