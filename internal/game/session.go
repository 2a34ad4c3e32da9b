package game

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/effects"
	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/magefree/unstable-students/internal/game/interact"
	"github.com/magefree/unstable-students/internal/game/player"
	"github.com/magefree/unstable-students/internal/game/rules"
	"github.com/magefree/unstable-students/internal/game/watchers"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var gameNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Registry records which games have been saved.
type Registry interface {
	Register(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

// RoundObserver is told which round is in progress whenever one begins.
type RoundObserver interface {
	SetRound(rc rules.RoundContext)
}

// Deps are the collaborators a session runs with.
type Deps struct {
	Prompter  interact.Prompter
	Presenter interact.Presenter
	Saver     *Saver
	Registry  Registry
	Bus       *rules.EventBus
	Rand      card.Randomizer
	Logger    *zap.Logger
	Rounds    []RoundObserver
}

// Result describes how a session ended.
type Result struct {
	Winner string
	Exited bool
	Rounds int
}

// Session owns the state of one game from setup or load until it ends.
type Session struct {
	state    *State
	engine   *effects.Engine
	in       interact.Prompter
	out      interact.Presenter
	bus      *rules.EventBus
	watchers *rules.WatcherRegistry
	stats    *watchers.PlayStatsWatcher
	draws    *watchers.DrawsThisRoundWatcher
	rounds   []RoundObserver
	saver    *Saver
	registry Registry
	logger   *zap.Logger

	resumed bool
	busSub  int
	closers []func() error
}

// ValidateGameName checks the name a game is saved under.
func ValidateGameName(name string) error {
	const op = "game.name"
	switch {
	case name == "":
		return gameerr.Input(op, "game name cannot be empty")
	case len(name) > MaxGameNameLength:
		return gameerr.Input(op, "game name longer than %d characters", MaxGameNameLength)
	case !gameNamePattern.MatchString(name):
		return gameerr.Input(op, "game name may only contain letters, digits, '-' and '_'")
	}
	return nil
}

func newSession(state *State, deps Deps) *Session {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		state:    state,
		in:       deps.Prompter,
		out:      deps.Presenter,
		bus:      deps.Bus,
		watchers: rules.NewWatcherRegistry(),
		stats:    watchers.NewPlayStatsWatcher(),
		draws:    watchers.NewDrawsThisRoundWatcher(),
		rounds:   deps.Rounds,
		saver:    deps.Saver,
		registry: deps.Registry,
		logger:   logger,
		busSub:   -1,
	}
	s.engine = effects.NewEngine(state, deps.Prompter, deps.Presenter, deps.Bus, logger.Named("effects"))
	s.watchers.AddWatcher(s.stats)
	s.watchers.AddWatcher(s.draws)
	if deps.Bus != nil {
		s.busSub = s.watchers.Attach(deps.Bus)
	}
	return s
}

// NewSession asks for a game name and the players, then deals a new game
// from templates.
func NewSession(ctx context.Context, deps Deps, templates []card.Template) (*Session, error) {
	name, err := deps.Prompter.Text(ctx, "Name of the new game", func(v string) error {
		if err := ValidateGameName(v); err != nil {
			return err
		}
		if deps.Registry == nil {
			return nil
		}
		exists, err := deps.Registry.Exists(ctx, v)
		if err != nil {
			return err
		}
		if exists {
			return gameerr.Input("game.name", "a game named %q already exists", v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	count, err := deps.Prompter.Int(ctx, fmt.Sprintf("Number of players (%d-%d)", MinPlayers, MaxPlayers), MinPlayers, MaxPlayers)
	if err != nil {
		return nil, err
	}
	ring := player.NewRing()
	for i := 0; i < count; i++ {
		taken := ring.Names()
		pname, err := deps.Prompter.Text(ctx, fmt.Sprintf("Name of player %d", i+1), func(v string) error {
			return player.ValidateName(v, taken)
		})
		if err != nil {
			return nil, err
		}
		ring.Add(player.New(pname))
	}

	state := NewState(name, ring, deps.Rand, deps.Bus, deps.Logger)
	if err := Deal(state, templates); err != nil {
		return nil, err
	}

	s := newSession(state, deps)
	if s.registry != nil {
		if err := s.registry.Register(ctx, name); err != nil {
			return nil, err
		}
	}
	ev := rules.NewEvent(rules.EventGameInitialised, 0, "")
	ev.Data = name
	ev.Amount = count
	s.bus.Publish(ev)
	s.logger.Info("game initialised",
		zap.String("game", name),
		zap.Strings("players", ring.Names()),
		zap.Int("draw_pool", state.DrawPool.Count()))
	return s, nil
}

// Deal fills the pools of a fresh state from templates: the shuffled draw
// pool minus the Freshmen, StartingHand cards each dealt round robin, and
// StartingFreshmen from the study pool into every play-area.
func Deal(s *State, templates []card.Template) error {
	const op = "game.deal"
	s.DrawPool = card.Materialize(templates)
	s.DrawPool.Shuffle(s.rng)
	s.StudyPool = s.DrawPool.SplitByKind(card.KindFreshman)

	players := s.ring.Players()
	for i := 0; i < StartingHand; i++ {
		for _, p := range players {
			if s.DrawPool.Empty() {
				return gameerr.Invariant(op, "draw pool too small to deal %d cards to %d players", StartingHand, len(players))
			}
			c, err := s.DrawPool.Take(0)
			if err != nil {
				return err
			}
			p.Hand.Append(c)
		}
	}
	for i := 0; i < StartingFreshmen; i++ {
		for _, p := range players {
			if s.StudyPool.Empty() {
				return gameerr.Invariant(op, "study pool too small for %d players", len(players))
			}
			c, err := s.StudyPool.Take(0)
			if err != nil {
				return err
			}
			p.PlayArea.Append(c)
		}
	}
	return nil
}

// LoadSession resumes the saved game named name.
func LoadSession(ctx context.Context, deps Deps, name string) (*Session, error) {
	if deps.Saver == nil {
		return nil, gameerr.Invariant("game.load", "no saver configured")
	}
	snap, err := deps.Saver.Load(name)
	if err != nil {
		return nil, err
	}
	state := snap.Restore(deps.Rand, deps.Bus, deps.Logger)
	s := newSession(state, deps)
	s.resumed = true
	if s.registry != nil {
		if err := s.registry.Register(ctx, name); err != nil {
			return nil, err
		}
	}

	ev := rules.NewEvent(rules.EventGameLoaded, 0, "")
	ev.Data = name
	ev.Amount = snap.Round
	s.bus.Publish(ev)
	s.logger.Info("game loaded",
		zap.String("game", name),
		zap.Int("round", snap.Round),
		zap.String("current", state.CurrentPlayer().Name))
	return s, nil
}

// State returns the table the session plays on.
func (s *Session) State() *State {
	return s.state
}

// Stats returns the per-player tallies gathered so far.
func (s *Session) Stats() []watchers.PlayStats {
	return s.stats.All()
}

// OnClose registers a function run by Close.
func (s *Session) OnClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

// Close releases the players and the pools and runs the OnClose hooks.
func (s *Session) Close() error {
	var err error
	if s.bus != nil && s.busSub >= 0 {
		s.bus.Unsubscribe(s.busSub)
		s.busSub = -1
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.closers[i]())
	}
	s.closers = nil
	s.watchers.ResetWatchers()
	for _, p := range s.state.ring.Players() {
		p.Hand.Drain()
		p.PlayArea.Drain()
		p.BonusMalus.Drain()
	}
	s.state.DrawPool.Drain()
	s.state.DiscardPool.Drain()
	s.state.StudyPool.Drain()
	return err
}

var errExit = errors.New("player chose to exit")

// Run plays turns until a player wins, a player exits or ctx is cancelled.
func (s *Session) Run(ctx context.Context) (Result, error) {
	tm := rules.NewTurnManager(s.state.Current, s.state.Round())
	first := true

	for {
		if ctx.Err() != nil {
			return Result{Exited: true, Rounds: tm.Round()}, nil
		}

		seat := tm.ActiveSeat()
		var err error
		switch step := tm.CurrentStep(); step {
		case rules.StepRoundStart:
			err = s.startRound(ctx, tm, first)
			first = false
		case rules.StepMandatoryDraw:
			err = s.draw(seat)
		case rules.StepActionChoice:
			err = s.chooseAction(ctx, seat)
		case rules.StepEndOfTurnCleanup:
			err = s.cleanup(ctx, seat)
		case rules.StepWinCheck:
			p := s.state.ring.MustPlayer(seat)
			if rules.HasWon(p) {
				s.announce(seat)
				return Result{Winner: p.Name, Rounds: tm.Round()}, nil
			}
		default:
			err = gameerr.Invariant("game.run", "unknown step %s", step)
		}

		if errors.Is(err, errExit) || errors.Is(err, context.Canceled) {
			s.logger.Info("game exited", zap.String("game", s.state.Name), zap.Int("round", tm.Round()))
			return Result{Exited: true, Rounds: tm.Round()}, nil
		}
		if err != nil {
			if !gameerr.Fatal(err) {
				s.report(err)
			} else {
				s.logger.Error("session aborted",
					zap.String("game", s.state.Name),
					zap.Stringer("step", tm.CurrentStep()),
					zap.Error(err))
				return Result{Rounds: tm.Round()}, err
			}
		}
		tm.AdvanceStep(s.state.ring.Next(seat))
	}
}

// startRound saves the game, then fires the turn start triggers of the
// active player. The first turn after a load is not saved again.
func (s *Session) startRound(ctx context.Context, tm *rules.TurnManager, first bool) error {
	seat := tm.ActiveSeat()
	s.state.Current = seat
	if !(first && s.resumed) && s.saver != nil {
		if err := s.saver.Save(s.state); err != nil {
			return err
		}
		ev := rules.NewEvent(rules.EventGameSaved, tm.Round(), "")
		ev.Data = SavePath(s.saver.Dir(), s.state.Name)
		s.bus.Publish(ev)
	}

	round := tm.BeginRound()
	s.state.SetRound(round)
	rc := tm.Context()
	for _, o := range s.rounds {
		o.SetRound(rc)
	}
	p := s.state.ring.MustPlayer(seat)
	ev := rules.NewEvent(rules.EventRoundStarted, round, p.Name)
	ev.Amount = round
	s.bus.Publish(ev)

	s.out.Message(interact.LevelInfo, fmt.Sprintf("Round %d: it is %s's turn.", round, p.Name))
	s.out.ShowPlayer(p, true)

	q := rules.CollectTriggers(p, seat, card.TimingOnTurnStart)
	for t, ok := q.Next(); ok; t, ok = q.Next() {
		c, found := t.Locate(p)
		if !found {
			s.logger.Debug("trigger source left play", zap.String("card", t.SourceName))
			continue
		}
		if err := s.engine.Resolve(ctx, seat, c, card.TimingOnTurnStart); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) draw(seat int) error {
	c, err := s.state.DrawOne(seat)
	if err != nil {
		return err
	}
	s.out.Message(interact.LevelSuccess, fmt.Sprintf("%s drew a card.", s.state.ring.MustPlayer(seat).Name))
	s.out.ShowCard(c)
	return nil
}

func actionMenu(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, choose an action:\n", name)
	for _, a := range rules.Actions() {
		fmt.Fprintf(&b, "  %d. %s\n", int(a), a)
	}
	return b.String()
}

func (s *Session) chooseAction(ctx context.Context, seat int) error {
	p := s.state.ring.MustPlayer(seat)
	actions := rules.Actions()
	for {
		n, err := s.in.Int(ctx, actionMenu(p.Name), int(actions[0]), int(actions[len(actions)-1]))
		if err != nil {
			return err
		}
		switch a := rules.Action(n); a {
		case rules.ActionPlay:
			if rules.CountPlayable(p, card.KindAny) == 0 {
				s.out.Message(interact.LevelWarning, fmt.Sprintf("%s has no playable card.", p.Name))
				continue
			}
			if err := s.engine.PlayFromHand(ctx, seat, card.KindAny, false); err != nil {
				return err
			}
		case rules.ActionDrawExtra:
			if err := s.draw(seat); err != nil {
				return err
			}
		case rules.ActionShowSelf:
			s.out.ShowPlayer(p, true)
		case rules.ActionShowOthers:
			for _, other := range s.state.ring.Others(seat) {
				op := s.state.ring.MustPlayer(other)
				s.out.ShowPlayer(op, rules.HandVisible(op))
			}
		case rules.ActionExit:
			return errExit
		default:
			s.out.Message(interact.LevelWarning, fmt.Sprintf("Unknown action %d.", n))
			continue
		}
		if rules.Action(n).EndsTurn() {
			return nil
		}
	}
}

// cleanup makes the player discard down to the hand limit.
func (s *Session) cleanup(ctx context.Context, seat int) error {
	p := s.state.ring.MustPlayer(seat)
	for p.Hand.Count() > rules.MaxHandSize {
		s.out.Message(interact.LevelWarning, fmt.Sprintf("%s holds %d cards, the limit is %d.", p.Name, p.Hand.Count(), rules.MaxHandSize))
		s.out.ShowDeck("Hand of "+p.Name, p.Hand, false)
		i, err := interact.ChooseCard(ctx, s.in, fmt.Sprintf("%s, choose a card to discard", p.Name), p.Hand.Count())
		if err != nil {
			return err
		}
		c, err := p.Hand.Take(i)
		if err != nil {
			return err
		}
		s.state.Discard(c)
		s.bus.Publish(rules.NewEvent(rules.EventCardDiscarded, s.state.Round(), p.Name).WithCard(c.ID, c.Name))
	}
	s.summarize(p)
	return nil
}

// summarize reports the draws of the turn that is ending.
func (s *Session) summarize(p *player.Player) {
	s.out.Message(interact.LevelInfo, fmt.Sprintf("End of %s's turn: %d card(s) drawn, %d in hand.", p.Name, s.draws.Drawn(), p.Hand.Count()))
	if s.draws.Reshuffled() {
		s.out.Message(interact.LevelInfo, "The discard pool was shuffled back into the draw pool this turn.")
	}
}

// announce reveals the whole table and the tallies once seat has won.
func (s *Session) announce(seat int) {
	winner := s.state.ring.MustPlayer(seat)
	s.out.Message(interact.LevelSuccess, fmt.Sprintf("%s has won the game!", winner.Name))
	for _, other := range s.state.ring.From(seat, true) {
		s.out.ShowPlayer(s.state.ring.MustPlayer(other), true)
	}
	s.out.ShowDeck("Discard pool", s.state.DiscardPool, false)
	for _, st := range s.stats.All() {
		s.out.Message(interact.LevelInfo, fmt.Sprintf("%s: %d played, %d drawn, %d blocked, %d stolen, %d taken, %d eliminated, %d discarded",
			st.Player, st.Played, st.Drawn, st.Blocked, st.Stolen, st.Taken, st.Eliminated, st.Discarded))
	}
	s.bus.Publish(rules.NewEvent(rules.EventGameWon, s.state.Round(), winner.Name))
	s.logger.Info("game won",
		zap.String("game", s.state.Name),
		zap.String("winner", winner.Name),
		zap.Int("round", s.state.Round()))
}

func (s *Session) report(err error) {
	msg := err.Error()
	var ge *gameerr.Error
	if errors.As(err, &ge) {
		msg = ge.Message
	}
	s.out.Message(interact.LevelWarning, msg)
	s.logger.Info("rule violation", zap.Error(err))
}
