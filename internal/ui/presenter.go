// Package ui renders the game in a terminal and reads the players' answers.
package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/interact"
	"github.com/magefree/unstable-students/internal/game/player"
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Terminal is a pterm based Presenter and Prompter.
type Terminal struct {
	w        io.Writer
	readLine func(prompt string) (string, error)
}

var (
	_ interact.Presenter = (*Terminal)(nil)
	_ interact.Prompter  = (*Terminal)(nil)
)

// Option configures a Terminal.
type Option func(*Terminal)

// WithWriter sends the output to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return func(t *Terminal) { t.w = w }
}

// WithLineReader replaces the interactive text input.
func WithLineReader(read func(prompt string) (string, error)) Option {
	return func(t *Terminal) { t.readLine = read }
}

// NewTerminal creates a terminal writing to stdout and reading with pterm's
// interactive text input.
func NewTerminal(opts ...Option) *Terminal {
	t := &Terminal{w: os.Stdout, readLine: interactiveLine}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func interactiveLine(prompt string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithDefaultText(prompt).Show()
}

// SetColor turns colored output on or off.
func SetColor(enabled bool) {
	if enabled {
		pterm.EnableColor()
		return
	}
	pterm.DisableColor()
}

func (t *Terminal) print(s string) {
	fmt.Fprintln(t.w, strings.TrimRight(s, "\n"))
}

// Banner prints the game title.
func (t *Terminal) Banner() {
	s, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Unstable ", pterm.FgLightMagenta.ToStyle()),
		putils.LettersFromStringWithStyle("Students", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err != nil {
		t.print("UNSTABLE STUDENTS")
		return
	}
	t.print(s)
}

var titleCaser = cases.Title(language.English)

// KindLabel turns a kind into a readable label such as "Plain Student".
func KindLabel(k card.Kind) string {
	return titleCaser.String(strings.ToLower(strings.ReplaceAll(k.String(), "_", " ")))
}

func describeEffect(e card.Effect) string {
	action := titleCaser.String(strings.ToLower(strings.ReplaceAll(e.Action.String(), "_", " ")))
	scope := strings.ToLower(strings.ReplaceAll(e.Scope.String(), "_", " "))
	target := "any card"
	if e.Kind != card.KindAny && e.Kind != card.KindWildcard {
		target = KindLabel(e.Kind)
	}
	return fmt.Sprintf("%s (%s, %s)", action, scope, target)
}

// ShowCard prints a boxed card.
func (t *Terminal) ShowCard(c card.Card) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", pterm.LightCyan(KindLabel(c.Kind)))
	if c.Description != "" {
		fmt.Fprintf(&b, "%s\n", c.Description)
	}
	for _, e := range c.Effects {
		fmt.Fprintf(&b, "- %s\n", describeEffect(e))
	}
	if len(c.Effects) > 0 {
		when := strings.ToLower(strings.ReplaceAll(c.Timing.String(), "_", " "))
		if c.Optional {
			when += ", optional"
		}
		fmt.Fprintf(&b, "%s", pterm.Gray("when: "+when))
	}
	box := pterm.DefaultBox.WithHorizontalPadding(2).WithTitle(pterm.LightYellow(c.Name)).WithTitleTopCenter()
	t.print(box.Sprint(strings.TrimRight(b.String(), "\n")))
}

// ShowDeck prints a deck as a numbered table. Hidden decks only show the
// positions.
func (t *Terminal) ShowDeck(title string, d *card.Deck, hidden bool) {
	t.print(pterm.DefaultSection.WithLevel(2).Sprint(title))
	if d == nil || d.Empty() {
		t.print(pterm.Gray("  (empty)"))
		return
	}
	data := pterm.TableData{{"#", "Name", "Kind", "Description"}}
	for i, c := range d.Cards() {
		row := []string{strconv.Itoa(i + 1), "?", "?", ""}
		if !hidden {
			row = []string{strconv.Itoa(i + 1), c.Name, KindLabel(c.Kind), c.Description}
		}
		data = append(data, row)
	}
	s, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		for _, row := range data[1:] {
			t.print(strings.Join(row, " | "))
		}
		return
	}
	t.print(s)
}

// ShowPlayer prints the three areas of p.
func (t *Terminal) ShowPlayer(p *player.Player, handVisible bool) {
	header := fmt.Sprintf("%s  (%d students, %d cards in hand)", p.Name, p.Students(), p.Hand.Count())
	t.print(pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).Sprint(header))
	t.ShowDeck("Hand of "+p.Name, p.Hand, !handVisible)
	t.ShowDeck("Classroom of "+p.Name, p.PlayArea, false)
	t.ShowDeck("Bonus/Malus of "+p.Name, p.BonusMalus, false)
}

// Message prints text with a prefix matching level.
func (t *Terminal) Message(level interact.Level, text string) {
	switch level {
	case interact.LevelSuccess:
		t.print(pterm.Success.Sprint(text))
	case interact.LevelWarning:
		t.print(pterm.Warning.Sprint(text))
	case interact.LevelError:
		t.print(pterm.Error.Sprint(text))
	default:
		t.print(pterm.Info.Sprint(text))
	}
}
