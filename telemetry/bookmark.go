package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkMassEscape   BookmarkType = "mass_escape"
	BookmarkRaid         BookmarkType = "raid"
	BookmarkEggRush      BookmarkType = "egg_rush"
	BookmarkHungerCrisis BookmarkType = "hunger_crisis"
	BookmarkCalmStretch  BookmarkType = "calm_stretch"
)

// Thresholds for bookmark detection.
const (
	massEscapeMin   = 3  // escapes in one window
	raidMin         = 2  // captures in one window
	eggRushMin      = 6  // eggs deposited in one window
	hungerCrisisP10 = 25 // tenth percentile hunger
	calmStretchLen  = 5  // consecutive quiet windows
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	RoundID     string       `csv:"round_id"`
	Time        float64      `csv:"time"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"round_id", b.RoundID,
		"time", b.Time,
		"description", b.Description,
	)
}

// BookmarkDetector flags notable windows in a round.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	inCrisis   bool // hunger crisis already reported, waiting for recovery
	quietCount int  // consecutive windows with no losses and no open holes
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Reset forgets all history, for a new round.
func (bd *BookmarkDetector) Reset() {
	clear(bd.history)
	bd.historyIdx = 0
	bd.historyFull = false
	bd.inCrisis = false
	bd.quietCount = 0
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	for _, check := range []func(WindowStats) *Bookmark{
		bd.checkMassEscape,
		bd.checkRaid,
		bd.checkEggRush,
		bd.checkHungerCrisis,
		bd.checkCalmStretch,
	} {
		if b := check(stats); b != nil {
			b.RoundID = stats.RoundID
			b.Time = stats.WindowEnd
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// average returns the mean of f over the history, and false when empty.
func (bd *BookmarkDetector) average(f func(WindowStats) int) (float64, bool) {
	history := bd.getHistory()
	if len(history) == 0 {
		return 0, false
	}
	total := 0
	for _, h := range history {
		total += f(h)
	}
	return float64(total) / float64(len(history)), true
}

func (bd *BookmarkDetector) checkMassEscape(stats WindowStats) *Bookmark {
	if stats.Escapes < massEscapeMin {
		return nil
	}
	avg, _ := bd.average(func(w WindowStats) int { return w.Escapes })
	if float64(stats.Escapes) <= avg*2 && avg > 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkMassEscape,
		Description: fmt.Sprintf("%d chickens escaped in one window (average %.1f)", stats.Escapes, avg),
	}
}

func (bd *BookmarkDetector) checkRaid(stats WindowStats) *Bookmark {
	if stats.Captures < raidMin {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkRaid,
		Description: fmt.Sprintf("Raccoons carried off %d chickens", stats.Captures),
	}
}

func (bd *BookmarkDetector) checkEggRush(stats WindowStats) *Bookmark {
	avg, ok := bd.average(func(w WindowStats) int { return w.EggsDeposited })
	if !ok || avg == 0 {
		return nil
	}
	if stats.EggsDeposited >= eggRushMin && float64(stats.EggsDeposited) > avg*2 {
		return &Bookmark{
			Type:        BookmarkEggRush,
			Description: fmt.Sprintf("Deposited %d eggs, %.1fx average (%.1f)", stats.EggsDeposited, float64(stats.EggsDeposited)/avg, avg),
		}
	}
	return nil
}

// checkHungerCrisis fires when the hungriest tenth of the flock falls below
// the crisis line, then stays quiet until it recovers.
func (bd *BookmarkDetector) checkHungerCrisis(stats WindowStats) *Bookmark {
	if stats.InCoop+stats.Escaped == 0 {
		return nil
	}
	if stats.HungerP10 >= hungerCrisisP10 {
		bd.inCrisis = false
		return nil
	}
	if bd.inCrisis {
		return nil
	}
	bd.inCrisis = true
	return &Bookmark{
		Type:        BookmarkHungerCrisis,
		Description: fmt.Sprintf("Hunger p10 fell to %.0f (mean %.0f)", stats.HungerP10, stats.HungerMean),
	}
}

func (bd *BookmarkDetector) checkCalmStretch(stats WindowStats) *Bookmark {
	if stats.Escapes > 0 || stats.Captures > 0 || stats.OpenHoles > 0 {
		bd.quietCount = 0
		return nil
	}
	bd.quietCount++
	if bd.quietCount == calmStretchLen { // trigger exactly once per stretch
		return &Bookmark{
			Type:        BookmarkCalmStretch,
			Description: fmt.Sprintf("No losses and a sound fence for %d windows, %d in coop", calmStretchLen, stats.InCoop),
		}
	}
	return nil
}
