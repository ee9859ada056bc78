package interact

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/coopkeeper/config"
	"github.com/pthm-cable/coopkeeper/coop"
	"github.com/pthm-cable/coopkeeper/flock"
	"github.com/pthm-cable/coopkeeper/intruders"
	"github.com/pthm-cable/coopkeeper/pickups"
	"github.com/pthm-cable/coopkeeper/spatial"
)

type fixture struct {
	cfg      *config.Config
	coop     *coop.Coop
	holes    *coop.HoleManager
	items    *pickups.Items
	hero     *pickups.Hero
	raccoons *intruders.Spawner
	resolver *Resolver
}

func newFixture(t *testing.T, tweak func(cfg *config.Config)) *fixture {
	t.Helper()
	cfg := config.Default()
	if tweak != nil {
		tweak(cfg)
	}
	rng := rand.New(rand.NewSource(1))
	field := spatial.Rect{Max: r2.Vec{X: cfg.Field.Width, Y: cfg.Field.Height}}
	c := coop.New(cfg.Coop)
	return &fixture{
		cfg:      cfg,
		coop:     c,
		holes:    coop.NewHoleManager(cfg.Fence, cfg.Interaction.RepairReach, c, rng),
		items:    pickups.NewItems(cfg.Items),
		hero:     pickups.NewHero(cfg.Hero),
		raccoons: intruders.NewSpawner(cfg.Raccoons, field, rng),
		resolver: NewResolver(cfg.Interaction, cfg.Derived.Armed),
	}
}

func (f *fixture) scene(chickens ...*flock.Chicken) Scene {
	return Scene{
		Hero:     f.hero,
		Items:    f.items,
		Holes:    f.holes,
		Chickens: chickens,
		Raccoons: f.raccoons,
	}
}

// chickenAt builds an in-coop chicken at p.
func chickenAt(p r2.Vec) *flock.Chicken {
	return &flock.Chicken{
		Pos:    p,
		State:  flock.StateInCoop,
		InCoop: true,
		Hunger: 50,
		Stats:  flock.BreedStats{Radius: 10},
	}
}

func kinds(out []Outcome) []Kind {
	ks := make([]Kind, len(out))
	for i, o := range out {
		ks[i] = o.Kind
	}
	return ks
}

func has(out []Outcome, k Kind) bool {
	for _, o := range out {
		if o.Kind == k {
			return true
		}
	}
	return false
}

func TestRepairNeedsHammer(t *testing.T) {
	tests := []struct {
		name       string
		hammer     bool
		wantRepair bool
	}{
		{"with hammer", true, true},
		{"without hammer", false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			h, _ := f.holes.SpawnHoleAt(coop.SideBottom, 0.5)
			f.hero.Pos = h.Pos
			if tc.hammer {
				f.hero.Hold(pickups.KindHammer, 3)
			}

			out := f.resolver.Resolve(f.scene())

			if got := has(out, KindRepair); got != tc.wantRepair {
				t.Errorf("repair outcome = %v, want %v (%v)", got, tc.wantRepair, kinds(out))
			}
			open := len(f.holes.OpenHoles())
			if tc.wantRepair && open != 0 {
				t.Error("hole should be gone after repair")
			}
			if !tc.wantRepair && open != 1 {
				t.Error("hole set should be unchanged without the hammer")
			}
		})
	}
}

func TestLastHammerUseIsSpent(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) { cfg.Fence.MinSpacing = 0 })
	h, _ := f.holes.SpawnHoleAt(coop.SideBottom, 0.5)
	f.holes.SpawnHoleAt(coop.SideBottom, 0.52)
	f.hero.Pos = h.Pos
	f.hero.Hold(pickups.KindHammer, 1)

	out := f.resolver.Resolve(f.scene())
	if n := len(f.holes.OpenHoles()); n != 1 {
		t.Errorf("open holes = %d, want 1: a single use repairs one hole", n)
	}
	if !has(out, KindUsedUp) || !f.hero.EmptyHanded() {
		t.Errorf("spent hammer should leave the hero's hands, outcomes %v", kinds(out))
	}
	if f.items.Get(pickups.KindHammer).Available {
		t.Error("spent hammer should wait for its respawn")
	}
}

func TestDepositAndPickupSameFrame(t *testing.T) {
	f := newFixture(t, func(cfg *config.Config) {
		// Food sits next to the crate so one hero position touches both
		cfg.Items.Food = config.PointConfig{X: cfg.Items.Crate.X + 20, Y: cfg.Items.Crate.Y}
	})
	f.hero.Pos = r2.Vec{X: f.cfg.Items.Crate.X + 10, Y: f.cfg.Items.Crate.Y}
	f.hero.Hold(pickups.KindBasket, 6)
	f.hero.AddEgg(false)
	f.hero.AddEgg(true)

	out := f.resolver.Resolve(f.scene())

	var deposit *Outcome
	for i := range out {
		if out[i].Kind == KindDeposit {
			deposit = &out[i]
		}
	}
	if deposit == nil || deposit.Count != 2 || deposit.Golden != 1 {
		t.Fatalf("deposit outcome = %+v, outcomes %v", deposit, kinds(out))
	}
	if !has(out, KindPickup) || f.hero.Carrying != pickups.KindFood {
		t.Errorf("hero should pick up the food after depositing, carrying %s", f.hero.Carrying)
	}
}

func TestDepositWithoutEggsIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	f.hero.Pos = r2.Vec{X: f.cfg.Items.Crate.X, Y: f.cfg.Items.Crate.Y}
	if out := f.resolver.Resolve(f.scene()); len(out) != 0 {
		t.Errorf("empty-handed hero at the crate produced %v", kinds(out))
	}
	f.hero.Hold(pickups.KindBasket, 6)
	if out := f.resolver.Resolve(f.scene()); has(out, KindDeposit) {
		t.Error("empty basket should not deposit")
	}
}

func TestChickenTouches(t *testing.T) {
	tests := []struct {
		name    string
		carry   pickups.Kind
		prepare func(ch *flock.Chicken)
		want    Kind
		check   func(t *testing.T, ch *flock.Chicken, hero *pickups.Hero)
	}{
		{
			name:  "food feeds hungry chicken",
			carry: pickups.KindFood,
			want:  KindFeed,
			check: func(t *testing.T, ch *flock.Chicken, hero *pickups.Hero) {
				if ch.Hunger != 100 {
					t.Errorf("hunger = %f, want 100", ch.Hunger)
				}
				if hero.Uses != 3 {
					t.Errorf("portions left = %d, want 3", hero.Uses)
				}
			},
		},
		{
			name:  "basket collects egg",
			carry: pickups.KindBasket,
			prepare: func(ch *flock.Chicken) {
				ch.HasEgg = true
				ch.Stats.Special = flock.SpecialGolden
			},
			want: KindCollect,
			check: func(t *testing.T, ch *flock.Chicken, hero *pickups.Hero) {
				if ch.HasEgg || hero.Eggs != 1 || hero.Golden != 1 {
					t.Errorf("egg not moved: chicken %v, basket %d/%d", ch.HasEgg, hero.Eggs, hero.Golden)
				}
			},
		},
		{
			name:  "empty hands calm",
			carry: pickups.KindNone,
			want:  KindCalm,
			check: func(t *testing.T, ch *flock.Chicken, _ *pickups.Hero) {
				if ch.CalmTimer <= 0 {
					t.Error("chicken should be calmed")
				}
			},
		},
		{
			name:  "hammer herds escaped chicken",
			carry: pickups.KindHammer,
			prepare: func(ch *flock.Chicken) {
				ch.State = flock.StateEscaped
				ch.InCoop = false
				ch.CrossedThreshold = true
			},
			want: KindHerd,
			check: func(t *testing.T, ch *flock.Chicken, _ *pickups.Hero) {
				if ch.State != flock.StateReturning || ch.IsEscaped() {
					t.Errorf("state = %s, want returning", ch.State)
				}
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.hero.Pos = f.coop.Center()
			if tc.carry != pickups.KindNone {
				f.items.Take(tc.carry)
				f.hero.Hold(tc.carry, f.items.Capacity(tc.carry))
			}
			ch := chickenAt(f.coop.Center())
			if tc.prepare != nil {
				tc.prepare(ch)
			}

			out := f.resolver.Resolve(f.scene(ch))
			if len(out) != 1 || out[0].Kind != tc.want || out[0].Chicken != ch {
				t.Fatalf("outcomes = %v, want [%s]", kinds(out), tc.want)
			}
			tc.check(t, ch, f.hero)
		})
	}
}

func TestFullChickenRefusesFood(t *testing.T) {
	f := newFixture(t, nil)
	f.hero.Pos = f.coop.Center()
	f.hero.Hold(pickups.KindFood, 4)
	ch := chickenAt(f.coop.Center())
	ch.Hunger = f.cfg.Interaction.FeedBelow

	if out := f.resolver.Resolve(f.scene(ch)); len(out) != 0 {
		t.Errorf("full chicken produced %v", kinds(out))
	}
	if f.hero.Uses != 4 {
		t.Error("refused feeding should not spend a portion")
	}
}

func TestLastPortionStopsFeeding(t *testing.T) {
	f := newFixture(t, nil)
	f.hero.Pos = f.coop.Center()
	f.items.Take(pickups.KindFood)
	f.hero.Hold(pickups.KindFood, 1)
	a := chickenAt(f.coop.Center())
	b := chickenAt(f.coop.Center())

	out := f.resolver.Resolve(f.scene(a, b))
	feeds := 0
	for _, o := range out {
		if o.Kind == KindFeed {
			feeds++
		}
	}
	if feeds != 1 {
		t.Errorf("feeds = %d, want 1 with one portion", feeds)
	}
	if b.CalmTimer > 0 {
		t.Error("spent food should not turn into an empty-handed calm this frame")
	}
}

func TestNeutralizePolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy string
		hammer bool
		want   bool
	}{
		{"unarmed bare hands", "unarmed", false, true},
		{"armed bare hands", "armed", false, false},
		{"armed with hammer", "armed", true, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, func(cfg *config.Config) {
				cfg.Interaction.Neutralize = tc.policy
				cfg.Derived.Armed = tc.policy == "armed"
			})
			f.hero.Pos = r2.Vec{X: 50, Y: 300}
			if tc.hammer {
				f.hero.Hold(pickups.KindHammer, 3)
			}
			id, _ := f.raccoons.SpawnAt(f.hero.Pos)

			out := f.resolver.Resolve(f.scene())
			if got := has(out, KindNeutralize); got != tc.want {
				t.Errorf("neutralized = %v, want %v", got, tc.want)
			}
			if _, alive := f.raccoons.Get(id); alive == tc.want {
				t.Errorf("raccoon alive = %v after resolve", alive)
			}
		})
	}
}

func TestDropReturnsItemHome(t *testing.T) {
	f := newFixture(t, nil)
	f.items.Take(pickups.KindBasket)
	f.hero.Hold(pickups.KindBasket, 6)
	f.hero.AddEgg(false)
	f.hero.Pos = f.items.Get(pickups.KindBasket).Home

	s := f.scene()
	s.Interact = true
	out := f.resolver.Resolve(s)

	if len(out) != 1 || out[0].Kind != KindDrop || out[0].Count != 1 {
		t.Fatalf("outcomes = %+v, want a single drop losing 1 egg", out)
	}
	if !f.hero.EmptyHanded() || !f.items.Get(pickups.KindBasket).Available {
		t.Error("dropped basket should be back home and not re-taken this frame")
	}
}
