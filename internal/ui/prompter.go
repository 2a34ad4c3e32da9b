package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/pterm/pterm"
)

// ask prints question, then reads lines until accept returns nil.
func (t *Terminal) ask(ctx context.Context, question, hint string, accept func(string) error) error {
	t.print(strings.TrimRight(question, "\n"))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := t.readLine(hint)
		if err != nil {
			return fmt.Errorf("read answer: %w", err)
		}
		err = accept(strings.TrimSpace(line))
		if err == nil {
			return nil
		}
		t.print(pterm.Warning.Sprint(inputMessage(err)))
	}
}

func inputMessage(err error) string {
	var ge *gameerr.Error
	if errors.As(err, &ge) {
		return ge.Message
	}
	return err.Error()
}

// Int reads a number in [min, max].
func (t *Terminal) Int(ctx context.Context, question string, min, max int) (int, error) {
	var v int
	err := t.ask(ctx, question, fmt.Sprintf("Choice (%d-%d)", min, max), func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return gameerr.Input("ui.int", "%q is not a number", s)
		}
		if n < min || n > max {
			return gameerr.Input("ui.int", "choose a number between %d and %d", min, max)
		}
		v = n
		return nil
	})
	return v, err
}

// Char reads a single character from allowed.
func (t *Terminal) Char(ctx context.Context, question string, allowed string) (rune, error) {
	var v rune
	err := t.ask(ctx, question, "Answer", func(s string) error {
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) || !strings.ContainsRune(allowed, r) {
			return gameerr.Input("ui.char", "answer with one of %q", allowed)
		}
		v = r
		return nil
	})
	return v, err
}

// Text reads a line accepted by validate.
func (t *Terminal) Text(ctx context.Context, question string, validate func(string) error) (string, error) {
	var v string
	err := t.ask(ctx, question, "Answer", func(s string) error {
		if validate != nil {
			if err := validate(s); err != nil {
				return err
			}
		}
		v = s
		return nil
	})
	return v, err
}
