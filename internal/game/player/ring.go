package player

import (
	"github.com/magefree/unstable-students/internal/game/gameerr"
)

// Ring is the fixed circular turn order. Players live in an arena indexed by
// their seat; next holds the seat that follows each seat.
type Ring struct {
	players []*Player
	next    []int
}

// NewRing builds a ring seating players in the given order.
func NewRing(players ...*Player) *Ring {
	r := &Ring{}
	for _, p := range players {
		r.Add(p)
	}
	return r
}

// Add seats p just before the head, closing the circle.
func (r *Ring) Add(p *Player) int {
	seat := len(r.players)
	r.players = append(r.players, p)
	r.next = append(r.next, 0)
	if seat > 0 {
		r.next[seat-1] = seat
	}
	return seat
}

// Count returns the number of seated players.
func (r *Ring) Count() int {
	return len(r.players)
}

// Player returns the player at seat.
func (r *Ring) Player(seat int) (*Player, error) {
	if seat < 0 || seat >= len(r.players) {
		return nil, gameerr.Invariant("ring.player", "seat %d out of range [0,%d)", seat, len(r.players))
	}
	return r.players[seat], nil
}

// MustPlayer returns the player at a seat known to be valid.
func (r *Ring) MustPlayer(seat int) *Player {
	return r.players[seat]
}

// Next returns the seat after seat.
func (r *Ring) Next(seat int) int {
	return r.next[seat]
}

// SeatOf returns the seat of p, or -1.
func (r *Ring) SeatOf(p *Player) int {
	for i, q := range r.players {
		if q == p {
			return i
		}
	}
	return -1
}

// From returns the seats in ring order beginning at start. When inclusive is
// false start itself is left out.
func (r *Ring) From(start int, inclusive bool) []int {
	if len(r.players) == 0 {
		return nil
	}
	seats := make([]int, 0, len(r.players))
	if inclusive {
		seats = append(seats, start)
	}
	for s := r.next[start]; s != start; s = r.next[s] {
		seats = append(seats, s)
	}
	return seats
}

// Others returns every seat except anchor in ring order after anchor.
func (r *Ring) Others(anchor int) []int {
	return r.From(anchor, false)
}

// Players returns the seated players in seat order.
func (r *Ring) Players() []*Player {
	out := make([]*Player, len(r.players))
	copy(out, r.players)
	return out
}

// Names returns the players' display names in seat order.
func (r *Ring) Names() []string {
	out := make([]string, len(r.players))
	for i, p := range r.players {
		out[i] = p.Name
	}
	return out
}
