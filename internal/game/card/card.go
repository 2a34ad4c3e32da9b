package card

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind is the category of a card. It doubles as a target filter for effects.
type Kind int

// Kind values follow the numbering used by deck template files.
const (
	KindAny Kind = iota
	KindStudent
	KindFreshman
	KindPlainStudent
	KindGraduand
	KindBonus
	KindMalus
	KindSpell
	KindInstant
)

// KindWildcard matches every kind in ContainsEffect queries.
const KindWildcard Kind = -1

var kindNames = map[Kind]string{
	KindAny:          "ANY",
	KindStudent:      "STUDENT",
	KindFreshman:     "FRESHMAN",
	KindPlainStudent: "PLAIN_STUDENT",
	KindGraduand:     "GRADUAND",
	KindBonus:        "BONUS",
	KindMalus:        "MALUS",
	KindSpell:        "SPELL",
	KindInstant:      "INSTANT",
	KindWildcard:     "WILDCARD",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// Valid reports whether k is a kind a card or filter may carry.
func (k Kind) Valid() bool {
	return k >= KindAny && k <= KindInstant
}

// IsStudent reports whether k is one of the concrete student kinds or the
// Student supertype itself.
func (k Kind) IsStudent() bool {
	switch k {
	case KindStudent, KindFreshman, KindPlainStudent, KindGraduand:
		return true
	}
	return false
}

// Playable reports whether a physical card can have kind k. Any is only
// used as a filter.
func (k Kind) Playable() bool {
	return k.Valid() && k != KindAny
}

// IsArea reports whether cards of kind k live in the bonus/malus area.
func (k Kind) IsArea() bool {
	return k == KindBonus || k == KindMalus
}

// Matches reports whether a card of kind k satisfies filter. Student matches
// its three subtypes; Any and the wildcard match everything.
func (k Kind) Matches(filter Kind) bool {
	switch {
	case filter == KindWildcard, filter == KindAny:
		return true
	case filter == KindStudent:
		return k.IsStudent()
	default:
		return k == filter
	}
}

// Action is what an effect does when it resolves.
type Action int

const (
	ActionPlay Action = iota
	ActionDiscard
	ActionEliminate
	ActionSteal
	ActionDraw
	ActionTake
	ActionBlock
	ActionSwap
	ActionShow
	ActionPrevent
	ActionWinBlocker
)

// ActionWildcard matches every action in ContainsEffect queries.
const ActionWildcard Action = -1

var actionNames = map[Action]string{
	ActionPlay:       "PLAY",
	ActionDiscard:    "DISCARD",
	ActionEliminate:  "ELIMINATE",
	ActionSteal:      "STEAL",
	ActionDraw:       "DRAW",
	ActionTake:       "TAKE",
	ActionBlock:      "BLOCK",
	ActionSwap:       "SWAP",
	ActionShow:       "SHOW",
	ActionPrevent:    "PREVENT",
	ActionWinBlocker: "WIN_BLOCKER",
	ActionWildcard:   "WILDCARD",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ACTION_%d", int(a))
}

// Valid reports whether a is a concrete action.
func (a Action) Valid() bool {
	return a >= ActionPlay && a <= ActionWinBlocker
}

// Passive reports whether the action is only ever consulted as a predicate.
func (a Action) Passive() bool {
	switch a {
	case ActionBlock, ActionShow, ActionPrevent, ActionWinBlocker:
		return true
	}
	return false
}

// Scope selects which players an effect applies to.
type Scope int

const (
	ScopeSelf Scope = iota
	ScopeChosenOpponent
	ScopeAllOthers
	ScopeEveryone
)

// ScopeWildcard matches every scope in ContainsEffect queries.
const ScopeWildcard Scope = -1

var scopeNames = map[Scope]string{
	ScopeSelf:           "SELF",
	ScopeChosenOpponent: "CHOSEN_OPPONENT",
	ScopeAllOthers:      "ALL_OTHERS",
	ScopeEveryone:       "EVERYONE",
	ScopeWildcard:       "WILDCARD",
}

func (s Scope) String() string {
	if name, ok := scopeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SCOPE_%d", int(s))
}

// Valid reports whether s is a concrete scope.
func (s Scope) Valid() bool {
	return s >= ScopeSelf && s <= ScopeEveryone
}

// Timing is the moment a card's effects fire.
type Timing int

const (
	TimingOnPlayImmediate Timing = iota
	TimingOnTurnStart
	TimingOnRemoved
	TimingNever
	TimingAlways
)

var timingNames = map[Timing]string{
	TimingOnPlayImmediate: "ON_PLAY",
	TimingOnTurnStart:     "ON_TURN_START",
	TimingOnRemoved:       "ON_REMOVED",
	TimingNever:           "NEVER",
	TimingAlways:          "ALWAYS",
}

func (t Timing) String() string {
	if name, ok := timingNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TIMING_%d", int(t))
}

// Valid reports whether t is a known timing.
func (t Timing) Valid() bool {
	return t >= TimingOnPlayImmediate && t <= TimingAlways
}

// Effect is one immutable instruction printed on a card.
type Effect struct {
	Action Action
	Scope  Scope
	Kind   Kind
}

// Match reports whether the effect satisfies the query. Wildcards in the
// query match any value.
func (e Effect) Match(action Action, scope Scope, kind Kind) bool {
	if action != ActionWildcard && e.Action != action {
		return false
	}
	if scope != ScopeWildcard && e.Scope != scope {
		return false
	}
	if kind != KindWildcard && e.Kind != kind {
		return false
	}
	return true
}

func (e Effect) String() string {
	return fmt.Sprintf("%s %s %s", e.Action, e.Scope, e.Kind)
}

// Card is one physical card. Cards are moved between decks by value and are
// never shared.
type Card struct {
	ID          string
	Name        string
	Description string
	Kind        Kind
	Effects     []Effect
	Timing      Timing
	Optional    bool
}

// New builds a card with a fresh physical identity.
func New(name, description string, kind Kind, timing Timing, optional bool, effects ...Effect) Card {
	fx := make([]Effect, len(effects))
	copy(fx, effects)
	return Card{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Kind:        kind,
		Effects:     fx,
		Timing:      timing,
		Optional:    optional,
	}
}

// Copy returns an independent physical copy of c with a new ID.
func (c Card) Copy() Card {
	dup := c
	dup.ID = uuid.NewString()
	dup.Effects = make([]Effect, len(c.Effects))
	copy(dup.Effects, c.Effects)
	return dup
}

// HasEffect reports whether any of the card's effects satisfies the query.
func (c Card) HasEffect(action Action, scope Scope, kind Kind) bool {
	for _, e := range c.Effects {
		if e.Match(action, scope, kind) {
			return true
		}
	}
	return false
}

// FiresOn reports whether the card has effects that fire at timing t.
func (c Card) FiresOn(t Timing) bool {
	return len(c.Effects) > 0 && c.Timing == t
}

func (c Card) String() string {
	return fmt.Sprintf("%s [%s]", c.Name, c.Kind)
}
