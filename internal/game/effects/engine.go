// Package effects resolves the effects printed on cards: target selection,
// the blocking protocol and the action handlers.
package effects

import (
	"context"
	"errors"
	"fmt"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/magefree/unstable-students/internal/game/interact"
	"github.com/magefree/unstable-students/internal/game/player"
	"github.com/magefree/unstable-students/internal/game/rules"
	"github.com/magefree/unstable-students/internal/game/targeting"
	"go.uber.org/zap"
)

// Table is the shared game state the engine acts upon.
type Table interface {
	Ring() *player.Ring
	Round() int
	// DrawOne moves the top card of the draw pool into the seat's hand.
	DrawOne(seat int) (card.Card, error)
	// Discard puts c on top of the discard pool.
	Discard(c card.Card)
}

// Engine resolves card effects against a Table.
type Engine struct {
	table  Table
	in     interact.Prompter
	out    interact.Presenter
	bus    *rules.EventBus
	logger *zap.Logger
}

// NewEngine creates an effect engine. bus may be nil.
func NewEngine(table Table, in interact.Prompter, out interact.Presenter, bus *rules.EventBus, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		table:  table,
		in:     in,
		out:    out,
		bus:    bus,
		logger: logger,
	}
}

// activation is one effect of one card being applied.
type activation struct {
	owner  int
	source card.Card
	effect card.Effect
	plan   targeting.Plan
}

// Resolve fires the effects of c owned by the player at seat owner, if c
// triggers at timing. Effects run in order; the first accepted block
// cancels the rest of the card. Rule violations are reported to the players
// and skipped, anything else is returned.
func (e *Engine) Resolve(ctx context.Context, owner int, c card.Card, timing card.Timing) error {
	if !c.FiresOn(timing) {
		return nil
	}
	ring := e.table.Ring()
	p, err := ring.Player(owner)
	if err != nil {
		return err
	}

	e.out.Message(interact.LevelInfo, fmt.Sprintf("Activating the effects of %q...", c.Name))
	e.out.ShowCard(c)

	if c.Optional {
		ok, err := interact.Confirm(ctx, e.in, fmt.Sprintf("%s, do you want to activate the effect of %q?", p.Name, c.Name))
		if err != nil {
			return err
		}
		if !ok {
			e.out.Message(interact.LevelInfo, fmt.Sprintf("%s chose not to activate %q.", p.Name, c.Name))
			e.publish(rules.EventEffectDeclined, p.Name, "", c, "")
			return nil
		}
	}

	var pin targeting.Pin
	for _, fx := range c.Effects {
		plan, err := targeting.Select(ctx, e.in, ring, owner, fx.Scope, &pin)
		if err != nil {
			return err
		}
		blocked, err := e.offerBlocks(ctx, plan.Blockers, c)
		if err != nil {
			return err
		}
		if blocked {
			e.logger.Debug("card blocked, remaining effects cancelled",
				zap.String("card", c.Name),
				zap.Stringer("effect", fx))
			return nil
		}

		a := activation{owner: owner, source: c, effect: fx, plan: plan}
		if err := e.activate(ctx, a); err != nil {
			if !gameerr.IsKind(err, gameerr.KindRule) {
				return err
			}
			e.reportRule(err)
		}
	}
	return nil
}

func (e *Engine) activate(ctx context.Context, a activation) error {
	e.logger.Debug("activating effect",
		zap.String("card", a.source.Name),
		zap.Stringer("effect", a.effect),
		zap.Ints("targets", a.plan.Targets))

	if a.effect.Action.Passive() {
		// Block, Show, Prevent and WinBlocker are read by the rules, never run.
		return nil
	}
	switch a.effect.Action {
	case card.ActionPlay:
		return a.plan.ForEachTarget(func(seat int) error { return e.play(ctx, a, seat) })
	case card.ActionDiscard:
		return a.plan.ForEachTarget(func(seat int) error { return e.discard(ctx, a, seat) })
	case card.ActionEliminate:
		return a.plan.ForEachTarget(func(seat int) error { return e.eliminate(ctx, a, seat) })
	case card.ActionSteal:
		return a.plan.ForEachTarget(func(seat int) error { return e.steal(ctx, a, seat) })
	case card.ActionDraw:
		return a.plan.ForEachTarget(func(seat int) error { return e.draw(ctx, a, seat) })
	case card.ActionTake:
		return a.plan.ForEachTarget(func(seat int) error { return e.take(ctx, a, seat) })
	case card.ActionSwap:
		return e.swap(ctx, a)
	default:
		return gameerr.Invariant("effects.activate", "card %q has unknown action %s", a.source.Name, a.effect.Action)
	}
}

// offerBlocks asks each candidate in order whether they want to block c.
// It stops at the first block.
func (e *Engine) offerBlocks(ctx context.Context, seats []int, c card.Card) (bool, error) {
	ring := e.table.Ring()
	for _, seat := range seats {
		p, err := ring.Player(seat)
		if err != nil {
			return false, err
		}
		if !rules.CanBlock(p, c) {
			continue
		}
		ok, err := interact.Confirm(ctx, e.in, fmt.Sprintf("%s, do you want to block the effect of %q?", p.Name, c.Name))
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		if _, err := e.block(ctx, seat, c); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// block lets the player at seat pick one of their qualifying instants. The
// instant goes to the discard pool.
func (e *Engine) block(ctx context.Context, seat int, c card.Card) (card.Card, error) {
	p := e.table.Ring().MustPlayer(seat)
	idxs := rules.BlockingIndexes(p, c)
	if len(idxs) == 0 {
		return card.Card{}, gameerr.Invariant("effects.block", "%s has no instant able to block %q", p.Name, c.Name)
	}

	choices := make([]card.Card, 0, len(idxs))
	for _, i := range idxs {
		ic, err := p.Hand.At(i)
		if err != nil {
			return card.Card{}, err
		}
		choices = append(choices, ic)
	}
	e.out.ShowDeck("Instants able to block", card.NewDeck(choices...), false)
	k, err := interact.ChooseCard(ctx, e.in, fmt.Sprintf("%s, choose the instant to use", p.Name), len(choices))
	if err != nil {
		return card.Card{}, err
	}

	instant, err := p.Hand.Take(idxs[k])
	if err != nil {
		return card.Card{}, err
	}
	e.table.Discard(instant)

	e.out.Message(interact.LevelSuccess, fmt.Sprintf("%s blocked %q with %q.", p.Name, c.Name, instant.Name))
	e.publish(rules.EventEffectBlocked, p.Name, "", c, instant.Name)
	e.logger.Debug("effect blocked",
		zap.String("player", p.Name),
		zap.String("card", c.Name),
		zap.String("instant", instant.Name))
	return instant, nil
}

func (e *Engine) reportRule(err error) {
	e.out.Message(interact.LevelWarning, ruleMessage(err))
	e.logger.Info("rule violation", zap.Error(err))
}

func ruleMessage(err error) string {
	var ge *gameerr.Error
	if errors.As(err, &ge) {
		return ge.Message
	}
	return err.Error()
}

func (e *Engine) publish(t rules.EventType, actor, target string, c card.Card, data string) {
	if e.bus == nil {
		return
	}
	ev := rules.NewEvent(t, e.table.Round(), actor).WithTarget(target).WithCard(c.ID, c.Name)
	ev.Data = data
	e.bus.Publish(ev)
}
