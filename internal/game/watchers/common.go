package watchers

import (
	"sort"

	"github.com/magefree/unstable-students/internal/game/rules"
)

// PlayStats is a per-player tally of notable actions.
type PlayStats struct {
	Player      string
	Played      int
	Drawn       int
	Blocked     int
	Stolen      int
	Taken       int
	Eliminated  int
	Discarded   int
	CardsWasted int
	Swaps       int
}

// PlayStatsWatcher tallies actions for the whole game. It feeds the
// end-of-game recap.
type PlayStatsWatcher struct {
	*rules.BaseWatcher
	stats map[string]*PlayStats
}

// NewPlayStatsWatcher creates a new play stats watcher.
func NewPlayStatsWatcher() *PlayStatsWatcher {
	return &PlayStatsWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, "PlayStatsWatcher"),
		stats:       make(map[string]*PlayStats),
	}
}

func (w *PlayStatsWatcher) entry(name string) *PlayStats {
	s, ok := w.stats[name]
	if !ok {
		s = &PlayStats{Player: name}
		w.stats[name] = s
	}
	return s
}

// Watch implements the Watcher interface.
func (w *PlayStatsWatcher) Watch(event rules.Event) {
	if event.Player == "" {
		return
	}
	switch event.Type {
	case rules.EventCardPlayed:
		w.entry(event.Player).Played++
	case rules.EventCardDrawn:
		w.entry(event.Player).Drawn++
	case rules.EventEffectBlocked:
		w.entry(event.Player).Blocked++
	case rules.EventCardStolen:
		w.entry(event.Player).Stolen++
	case rules.EventCardTaken:
		w.entry(event.Player).Taken++
	case rules.EventCardEliminated:
		w.entry(event.Player).Eliminated++
	case rules.EventCardDiscarded:
		w.entry(event.Player).Discarded++
	case rules.EventCardWasted:
		w.entry(event.Player).CardsWasted++
	case rules.EventHandsSwapped:
		w.entry(event.Player).Swaps++
	default:
		return
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *PlayStatsWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.stats = make(map[string]*PlayStats)
}

// Get returns the tally for a player.
func (w *PlayStatsWatcher) Get(name string) PlayStats {
	if s, ok := w.stats[name]; ok {
		return *s
	}
	return PlayStats{Player: name}
}

// All returns every tally sorted by player name.
func (w *PlayStatsWatcher) All() []PlayStats {
	out := make([]PlayStats, 0, len(w.stats))
	for _, s := range w.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Player < out[j].Player })
	return out
}

// DrawsThisRoundWatcher counts the cards drawn during the current round and
// whether the draw pool had to be rebuilt from the discard pool.
type DrawsThisRoundWatcher struct {
	*rules.BaseWatcher
	drawn      int
	reshuffled bool
}

// NewDrawsThisRoundWatcher creates a new round scoped draw watcher.
func NewDrawsThisRoundWatcher() *DrawsThisRoundWatcher {
	return &DrawsThisRoundWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeRound, "DrawsThisRoundWatcher"),
	}
}

// Watch implements the Watcher interface.
func (w *DrawsThisRoundWatcher) Watch(event rules.Event) {
	switch event.Type {
	case rules.EventCardDrawn:
		w.drawn++
	case rules.EventDeckReshuffle:
		w.reshuffled = true
	default:
		return
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *DrawsThisRoundWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.drawn = 0
	w.reshuffled = false
}

// Drawn returns how many cards were drawn this round.
func (w *DrawsThisRoundWatcher) Drawn() int {
	return w.drawn
}

// Reshuffled reports whether the discard pool was recycled this round.
func (w *DrawsThisRoundWatcher) Reshuffled() bool {
	return w.reshuffled
}
