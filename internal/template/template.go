// Package template reads deck definition files.
//
// A deck file is a sequence of records, each made of:
//
//	quantity
//	name line
//	description line
//	kind numEffects
//	action scope kind     (numEffects times)
//	timing optional
//
// Numbers may be split across lines freely. Enum values use the card
// package numbering, -1 is the wildcard.
package template

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/magefree/unstable-students/internal/game/player"
	"github.com/spf13/afero"
)

// MaxDescriptionLength caps card descriptions.
const MaxDescriptionLength = 255

// Entry is a card definition and its number of copies.
type Entry = card.Template

// Load parses the deck file at path.
func Load(fs afero.Fs, path string) ([]Entry, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, gameerr.IO("template.load", path, err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, gameerr.IO("template.load", path, err)
	}
	return entries, nil
}

// Materialize builds the draw pool from entries.
func Materialize(entries []Entry) *card.Deck {
	return card.Materialize(entries)
}

// Parse reads deck records from r until the input is exhausted.
func Parse(r io.Reader) ([]Entry, error) {
	lx := newLexer(r)
	var out []Entry
	for {
		qty, ok, err := lx.optionalInt()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if qty < 0 {
			return nil, lx.errorf("negative quantity %d", qty)
		}
		c, err := readCard(lx)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Quantity: qty, Card: c})
	}
	if err := lx.err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("deck file has no cards")
	}
	return out, nil
}

func readCard(lx *lexer) (card.Card, error) {
	name, err := lx.line("name")
	if err != nil {
		return card.Card{}, err
	}
	name = truncate(player.NormalizeName(name), player.MaxNameLength)
	desc, err := lx.line("description of " + strconv.Quote(name))
	if err != nil {
		return card.Card{}, err
	}
	desc = truncate(strings.TrimSpace(desc), MaxDescriptionLength)

	kind, err := lx.number("kind of " + name)
	if err != nil {
		return card.Card{}, err
	}
	if !card.Kind(kind).Valid() {
		return card.Card{}, lx.errorf("card %q has invalid kind %d", name, kind)
	}
	if !card.Kind(kind).Playable() {
		return card.Card{}, lx.errorf("card %q has kind %s, which only works as a filter", name, card.Kind(kind))
	}

	n, err := lx.number("effect count of " + name)
	if err != nil {
		return card.Card{}, err
	}
	if n < 0 {
		return card.Card{}, lx.errorf("card %q has negative effect count %d", name, n)
	}
	effects := make([]card.Effect, 0, n)
	for i := 0; i < n; i++ {
		fx, err := readEffect(lx, name, i+1)
		if err != nil {
			return card.Card{}, err
		}
		effects = append(effects, fx)
	}

	timing, err := lx.number("timing of " + name)
	if err != nil {
		return card.Card{}, err
	}
	if !card.Timing(timing).Valid() {
		return card.Card{}, lx.errorf("card %q has invalid timing %d", name, timing)
	}
	optional, err := lx.number("optional flag of " + name)
	if err != nil {
		return card.Card{}, err
	}
	if optional != 0 && optional != 1 {
		return card.Card{}, lx.errorf("card %q has optional flag %d, want 0 or 1", name, optional)
	}

	return card.New(name, desc, card.Kind(kind), card.Timing(timing), optional == 1, effects...), nil
}

func readEffect(lx *lexer, name string, n int) (card.Effect, error) {
	what := fmt.Sprintf("effect %d of %s", n, name)
	action, err := lx.number(what)
	if err != nil {
		return card.Effect{}, err
	}
	scope, err := lx.number(what)
	if err != nil {
		return card.Effect{}, err
	}
	kind, err := lx.number(what)
	if err != nil {
		return card.Effect{}, err
	}
	fx := card.Effect{Action: card.Action(action), Scope: card.Scope(scope), Kind: card.Kind(kind)}
	switch {
	case !fx.Action.Valid():
		return card.Effect{}, lx.errorf("%s has invalid action %d", what, action)
	case !fx.Scope.Valid():
		return card.Effect{}, lx.errorf("%s has invalid scope %d", what, scope)
	case !fx.Kind.Valid() && fx.Kind != card.KindWildcard:
		return card.Effect{}, lx.errorf("%s has invalid kind %d", what, kind)
	}
	return fx, nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max]))
}

// lexer hands out whitespace separated integers and whole lines.
type lexer struct {
	sc     *bufio.Scanner
	lineNo int
	rest   string
	eof    bool
}

func newLexer(r io.Reader) *lexer {
	return &lexer{sc: bufio.NewScanner(r)}
}

func (lx *lexer) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", lx.lineNo, fmt.Sprintf(format, args...))
}

func (lx *lexer) err() error {
	if err := lx.sc.Err(); err != nil {
		return fmt.Errorf("read deck: %w", err)
	}
	return nil
}

// skipSpace advances to the next non blank character. It reports false at
// the end of the input.
func (lx *lexer) skipSpace() bool {
	for {
		lx.rest = strings.TrimLeftFunc(lx.rest, unicode.IsSpace)
		if lx.rest != "" {
			return true
		}
		if lx.eof || !lx.sc.Scan() {
			lx.eof = true
			return false
		}
		lx.lineNo++
		lx.rest = lx.sc.Text()
	}
}

func (lx *lexer) token() (string, bool) {
	if !lx.skipSpace() {
		return "", false
	}
	end := strings.IndexFunc(lx.rest, unicode.IsSpace)
	if end < 0 {
		end = len(lx.rest)
	}
	tok := lx.rest[:end]
	lx.rest = lx.rest[end:]
	return tok, true
}

func (lx *lexer) optionalInt() (int, bool, error) {
	tok, ok := lx.token()
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false, lx.errorf("expected a quantity, got %q", tok)
	}
	return v, true, nil
}

func (lx *lexer) number(what string) (int, error) {
	tok, ok := lx.token()
	if !ok {
		return 0, lx.errorf("unexpected end of file reading %s", what)
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, lx.errorf("expected a number for %s, got %q", what, tok)
	}
	return v, nil
}

// line returns the rest of the current line after leading blanks, moving
// to the following lines when it is empty.
func (lx *lexer) line(what string) (string, error) {
	if !lx.skipSpace() {
		return "", lx.errorf("unexpected end of file reading %s", what)
	}
	s := strings.TrimSpace(lx.rest)
	lx.rest = ""
	return s, nil
}
