package card

import (
	"github.com/magefree/unstable-students/internal/game/gameerr"
)

// ShuffleRounds is the number of random pairwise swaps performed by Shuffle.
const ShuffleRounds = 1000

// Randomizer is the source of randomness used by Shuffle.
// *math/rand/v2.Rand satisfies it.
type Randomizer interface {
	IntN(n int) int
}

// Deck is an ordered collection of owned cards. The zero value is an empty
// deck ready for use.
type Deck struct {
	cards []Card
}

// NewDeck builds a deck that owns the given cards in order.
func NewDeck(cards ...Card) *Deck {
	d := &Deck{cards: make([]Card, 0, len(cards))}
	d.cards = append(d.cards, cards...)
	return d
}

// Append adds c at the tail. It never fails.
func (d *Deck) Append(c Card) {
	d.cards = append(d.cards, c)
}

// Push adds c at the head, where Take(0) finds it first.
func (d *Deck) Push(c Card) {
	d.cards = append(d.cards, Card{})
	copy(d.cards[1:], d.cards)
	d.cards[0] = c
}

// Count returns the number of cards in the deck.
func (d *Deck) Count() int {
	if d == nil {
		return 0
	}
	return len(d.cards)
}

// Empty reports whether the deck has no cards.
func (d *Deck) Empty() bool {
	return d.Count() == 0
}

// At returns the card at index i without removing it.
func (d *Deck) At(i int) (Card, error) {
	if err := d.checkIndex("deck.at", i); err != nil {
		return Card{}, err
	}
	return d.cards[i], nil
}

// Take removes the card at index i and returns it ownerless.
func (d *Deck) Take(i int) (Card, error) {
	if err := d.checkIndex("deck.take", i); err != nil {
		return Card{}, err
	}
	c := d.cards[i]
	d.cards = append(d.cards[:i], d.cards[i+1:]...)
	return c, nil
}

func (d *Deck) checkIndex(op string, i int) error {
	if d.Count() == 0 {
		return gameerr.Invariant(op, "deck is empty")
	}
	if i < 0 || i >= len(d.cards) {
		return gameerr.Invariant(op, "index %d out of range [0,%d)", i, len(d.cards))
	}
	return nil
}

// IndexOf returns the position of the card with the given physical id, or -1.
func (d *Deck) IndexOf(id string) int {
	if d == nil {
		return -1
	}
	for i, c := range d.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Cards returns a copy of the deck contents in order.
func (d *Deck) Cards() []Card {
	if d == nil {
		return nil
	}
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Drain removes and returns every card, leaving the deck empty.
func (d *Deck) Drain() []Card {
	out := d.cards
	d.cards = nil
	return out
}

// Shuffle performs ShuffleRounds random pairwise swaps. Decks with fewer than
// two cards are left untouched.
func (d *Deck) Shuffle(rng Randomizer) {
	n := len(d.cards)
	if n < 2 {
		return
	}
	for i := 0; i < ShuffleRounds; i++ {
		a, b := rng.IntN(n), rng.IntN(n)
		d.cards[a], d.cards[b] = d.cards[b], d.cards[a]
	}
}

// SplitByKind moves every card of exactly kind k into a new deck. The
// relative order of both decks is preserved.
func (d *Deck) SplitByKind(k Kind) *Deck {
	out := &Deck{}
	kept := d.cards[:0]
	for _, c := range d.cards {
		if c.Kind == k {
			out.cards = append(out.cards, c)
			continue
		}
		kept = append(kept, c)
	}
	d.cards = kept
	return out
}

// ContainsName reports whether a card named name is in the deck.
func (d *Deck) ContainsName(name string) bool {
	for _, c := range d.Cards() {
		if c.Name == name {
			return true
		}
	}
	return false
}

// ContainsKind reports whether a card matching filter is in the deck.
func (d *Deck) ContainsKind(filter Kind) bool {
	return d.CountKind(filter) > 0
}

// CountKind returns how many cards match filter.
func (d *Deck) CountKind(filter Kind) int {
	n := 0
	for _, c := range d.Cards() {
		if c.Kind.Matches(filter) {
			n++
		}
	}
	return n
}

// ContainsEffect reports whether any card carries an effect matching the
// query. Wildcards in the query match any value.
func (d *Deck) ContainsEffect(action Action, scope Scope, kind Kind) bool {
	for _, c := range d.Cards() {
		if c.HasEffect(action, scope, kind) {
			return true
		}
	}
	return false
}

// Filter returns the indexes of the cards for which keep returns true.
func (d *Deck) Filter(keep func(Card) bool) []int {
	var idx []int
	for i, c := range d.Cards() {
		if keep(c) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Swap exchanges the contents of two decks.
func Swap(a, b *Deck) {
	a.cards, b.cards = b.cards, a.cards
}
