package player

import (
	"context"
	"fmt"
	"strings"
)

// IntAsker is the part of the input provider needed to pick a player.
type IntAsker interface {
	Int(ctx context.Context, question string, min, max int) (int, error)
}

// ChoosePlayer lists the ring members, optionally leaving out anchor, and
// resolves the 1-based answer to a seat.
func ChoosePlayer(ctx context.Context, in IntAsker, r *Ring, anchor int, includeSelf bool) (int, error) {
	seats := r.From(anchor, includeSelf)
	if len(seats) == 0 {
		return -1, fmt.Errorf("choose player: no candidates")
	}
	var b strings.Builder
	b.WriteString("Choose a player:\n")
	for i, s := range seats {
		label := r.MustPlayer(s).Name
		if s == anchor {
			label += " (you)"
		}
		fmt.Fprintf(&b, "  %d. %s\n", i+1, label)
	}
	choice, err := in.Int(ctx, b.String(), 1, len(seats))
	if err != nil {
		return -1, fmt.Errorf("choose player: %w", err)
	}
	return seats[choice-1], nil
}
