package card

// Template is a card definition with the number of physical copies to build.
type Template struct {
	Quantity int
	Card     Card
}

// Materialize produces a deck containing Quantity independent copies of every
// template, in template order.
func Materialize(templates []Template) *Deck {
	total := 0
	for _, t := range templates {
		if t.Quantity > 0 {
			total += t.Quantity
		}
	}
	d := &Deck{cards: make([]Card, 0, total)}
	for _, t := range templates {
		for i := 0; i < t.Quantity; i++ {
			d.cards = append(d.cards, t.Card.Copy())
		}
	}
	return d
}
