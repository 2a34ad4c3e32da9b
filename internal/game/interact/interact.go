// Package interact defines the boundary between the rules engine and the
// people playing: questions go out through a Prompter, state is rendered
// through a Presenter.
package interact

import (
	"context"
	"fmt"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/player"
)

// Prompter supplies validated answers. Implementations loop on invalid input
// and only return values inside the requested range or set.
type Prompter interface {
	Int(ctx context.Context, question string, min, max int) (int, error)
	Char(ctx context.Context, question string, allowed string) (rune, error)
	Text(ctx context.Context, question string, validate func(string) error) (string, error)
}

// Level tags a message shown to players.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

var levelNames = map[Level]string{
	LevelInfo:    "INFO",
	LevelSuccess: "SUCCESS",
	LevelWarning: "WARNING",
	LevelError:   "ERROR",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL_%d", int(l))
}

// Presenter renders game data. The engine never formats anything itself.
type Presenter interface {
	ShowCard(c card.Card)
	ShowDeck(title string, d *card.Deck, hidden bool)
	ShowPlayer(p *player.Player, handVisible bool)
	Message(level Level, text string)
}

// Confirm asks a yes/no question.
func Confirm(ctx context.Context, in Prompter, question string) (bool, error) {
	r, err := in.Char(ctx, question+" (y/n)", "yYnN")
	if err != nil {
		return false, err
	}
	return r == 'y' || r == 'Y', nil
}

// ChooseCard asks for a 1-based position in a deck of n cards and returns the
// 0-based index.
func ChooseCard(ctx context.Context, in Prompter, question string, n int) (int, error) {
	if n <= 0 {
		return -1, fmt.Errorf("choose card: no cards to choose from")
	}
	i, err := in.Int(ctx, question, 1, n)
	if err != nil {
		return -1, err
	}
	return i - 1, nil
}
