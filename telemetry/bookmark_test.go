package telemetry

import (
	"testing"
)

func hasBookmark(bms []Bookmark, typ BookmarkType) bool {
	for _, bm := range bms {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_MassEscape(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		stats := WindowStats{WindowEnd: float64(i * 10), InCoop: 12}
		stats.Escapes = 1
		bd.Check(stats)
	}

	burst := WindowStats{RoundID: "r1", WindowEnd: 60, InCoop: 8}
	burst.Escapes = 4
	bms := bd.Check(burst)

	if !hasBookmark(bms, BookmarkMassEscape) {
		t.Fatal("expected mass_escape bookmark")
	}
	for _, bm := range bms {
		if bm.RoundID != "r1" || bm.Time != 60 {
			t.Errorf("bookmark not stamped with window: %+v", bm)
		}
	}
}

func TestBookmarkDetector_Raid(t *testing.T) {
	bd := NewBookmarkDetector(10)

	one := WindowStats{InCoop: 11}
	one.Captures = 1
	if hasBookmark(bd.Check(one), BookmarkRaid) {
		t.Error("single capture should not be a raid")
	}

	two := WindowStats{InCoop: 9}
	two.Captures = 2
	if !hasBookmark(bd.Check(two), BookmarkRaid) {
		t.Error("expected raid bookmark")
	}
}

func TestBookmarkDetector_EggRush(t *testing.T) {
	bd := NewBookmarkDetector(10)

	first := WindowStats{InCoop: 12}
	first.EggsDeposited = 10
	if hasBookmark(bd.Check(first), BookmarkEggRush) {
		t.Error("no history, no rush")
	}

	for i := 0; i < 4; i++ {
		w := WindowStats{InCoop: 12}
		w.EggsDeposited = 2
		bd.Check(w)
	}
	rush := WindowStats{InCoop: 12}
	rush.EggsDeposited = 12
	if !hasBookmark(bd.Check(rush), BookmarkEggRush) {
		t.Error("expected egg_rush bookmark")
	}
}

func TestBookmarkDetector_HungerCrisisTriggersOnce(t *testing.T) {
	bd := NewBookmarkDetector(10)

	hungry := WindowStats{InCoop: 12, HungerP10: 10, HungerMean: 30}
	if !hasBookmark(bd.Check(hungry), BookmarkHungerCrisis) {
		t.Fatal("expected hunger_crisis bookmark")
	}
	if hasBookmark(bd.Check(hungry), BookmarkHungerCrisis) {
		t.Error("crisis should not repeat until hunger recovers")
	}

	bd.Check(WindowStats{InCoop: 12, HungerP10: 60})
	if !hasBookmark(bd.Check(hungry), BookmarkHungerCrisis) {
		t.Error("crisis should fire again after recovery")
	}

	bd.Reset()
	if hasBookmark(bd.Check(WindowStats{HungerP10: 0}), BookmarkHungerCrisis) {
		t.Error("empty field is not a hunger crisis")
	}
}

func TestBookmarkDetector_CalmStretch(t *testing.T) {
	bd := NewBookmarkDetector(10)

	var count int
	for i := 0; i < 10; i++ {
		stats := WindowStats{WindowEnd: float64(i * 10), InCoop: 12, HungerP10: 70}
		if hasBookmark(bd.Check(stats), BookmarkCalmStretch) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("calm_stretch fired %d times, want exactly once", count)
	}

	holed := WindowStats{InCoop: 12, HungerP10: 70, OpenHoles: 1}
	bd.Check(holed)
	for i := 0; i < calmStretchLen-1; i++ {
		if hasBookmark(bd.Check(WindowStats{InCoop: 12, HungerP10: 70}), BookmarkCalmStretch) {
			t.Fatal("open hole should restart the stretch")
		}
	}
	if !hasBookmark(bd.Check(WindowStats{InCoop: 12, HungerP10: 70}), BookmarkCalmStretch) {
		t.Error("expected a second stretch after the fence was fixed")
	}
}
