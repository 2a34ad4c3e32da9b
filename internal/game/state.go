package game

import (
	"math/rand/v2"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/magefree/unstable-students/internal/game/player"
	"github.com/magefree/unstable-students/internal/game/rules"
	"go.uber.org/zap"
)

// Rule constants fixed by the game.
const (
	MinPlayers         = 2
	MaxPlayers         = 4
	StartingHand       = 5
	StartingFreshmen   = 1
	MaxGameNameLength  = 100
	MaxDescriptionSize = 255
)

// State is the shared table: the three pools, the ring of players, whose
// turn it is and the round counter.
type State struct {
	Name        string
	DrawPool    *card.Deck
	DiscardPool *card.Deck
	StudyPool   *card.Deck
	Current     int

	ring   *player.Ring
	round  int
	rng    card.Randomizer
	bus    *rules.EventBus
	logger *zap.Logger
}

// NewState creates an empty table for the named game. rng may be nil, in
// which case an unseeded source is used.
func NewState(name string, ring *player.Ring, rng card.Randomizer, bus *rules.EventBus, logger *zap.Logger) *State {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if ring == nil {
		ring = player.NewRing()
	}
	return &State{
		Name:        name,
		DrawPool:    &card.Deck{},
		DiscardPool: &card.Deck{},
		StudyPool:   &card.Deck{},
		ring:        ring,
		rng:         rng,
		bus:         bus,
		logger:      logger,
	}
}

// Ring returns the players in turn order.
func (s *State) Ring() *player.Ring {
	return s.ring
}

// Round returns the round in progress, 0 before the first turn.
func (s *State) Round() int {
	return s.round
}

// SetRound records the round the turn manager has reached.
func (s *State) SetRound(round int) {
	s.round = round
}

// DrawOne moves the top of the draw pool into the hand of the player at seat.
// An empty draw pool is refilled from the shuffled discard pool first.
func (s *State) DrawOne(seat int) (card.Card, error) {
	const op = "game.draw"
	p, err := s.ring.Player(seat)
	if err != nil {
		return card.Card{}, err
	}

	if s.DrawPool.Empty() {
		if s.DiscardPool.Empty() {
			return card.Card{}, gameerr.Invariant(op, "draw and discard pools are both empty")
		}
		s.reshuffle()
	}

	c, err := s.DrawPool.Take(0)
	if err != nil {
		return card.Card{}, err
	}
	p.Hand.Append(c)

	s.publish(rules.NewEvent(rules.EventCardDrawn, s.round, p.Name).WithCard(c.ID, c.Name))
	s.logger.Debug("card drawn",
		zap.String("player", p.Name),
		zap.String("card", c.Name),
		zap.Int("draw_pool", s.DrawPool.Count()))
	return c, nil
}

func (s *State) reshuffle() {
	moved := s.DiscardPool.Drain()
	for _, c := range moved {
		s.DrawPool.Append(c)
	}
	s.DrawPool.Shuffle(s.rng)

	ev := rules.NewEvent(rules.EventDeckReshuffle, s.round, "")
	ev.Amount = len(moved)
	s.publish(ev)
	s.logger.Debug("discard pool reshuffled into draw pool", zap.Int("cards", len(moved)))
}

// Discard puts c on top of the discard pool.
func (s *State) Discard(c card.Card) {
	s.DiscardPool.Push(c)
}

// CurrentPlayer returns the player whose turn it is.
func (s *State) CurrentPlayer() *player.Player {
	return s.ring.MustPlayer(s.Current)
}

func (s *State) publish(ev rules.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ev)
}
