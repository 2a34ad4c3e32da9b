package player

import (
	"strings"
	"unicode/utf8"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/gameerr"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MaxNameLength is the longest display name a player may choose.
const MaxNameLength = 31

// Player owns a hand, a play-area of students and a bonus/malus area.
type Player struct {
	Name       string
	Hand       *card.Deck
	PlayArea   *card.Deck
	BonusMalus *card.Deck
}

// New creates a player with three empty decks.
func New(name string) *Player {
	return &Player{
		Name:       NormalizeName(name),
		Hand:       &card.Deck{},
		PlayArea:   &card.Deck{},
		BonusMalus: &card.Deck{},
	}
}

// AreaFor returns the deck a card of kind k is placed in when played, or nil
// for kinds that never stay in front of a player.
func (p *Player) AreaFor(k card.Kind) *card.Deck {
	switch {
	case k.IsStudent():
		return p.PlayArea
	case k.IsArea():
		return p.BonusMalus
	}
	return nil
}

// HasEffect reports whether a card in the play-area or the bonus/malus area
// carries a matching effect.
func (p *Player) HasEffect(action card.Action, scope card.Scope, kind card.Kind) bool {
	return p.PlayArea.ContainsEffect(action, scope, kind) ||
		p.BonusMalus.ContainsEffect(action, scope, kind)
}

// Students returns the number of student cards in the play-area.
func (p *Player) Students() int {
	return p.PlayArea.CountKind(card.KindStudent)
}

// NormalizeName trims, composes and collapses inner whitespace.
func NormalizeName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), " ")
}

// NameKey returns the comparison key used for uniqueness checks.
func NameKey(name string) string {
	return cases.Fold().String(NormalizeName(name))
}

// ValidateName checks a candidate display name against the names already
// taken in the game.
func ValidateName(name string, taken []string) error {
	n := NormalizeName(name)
	if n == "" {
		return gameerr.Input("player.name", "name cannot be empty")
	}
	if utf8.RuneCountInString(n) > MaxNameLength {
		return gameerr.Input("player.name", "name longer than %d characters", MaxNameLength)
	}
	key := NameKey(n)
	for _, t := range taken {
		if NameKey(t) == key {
			return gameerr.Input("player.name", "name %q already taken", n)
		}
	}
	return nil
}
