package interact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/player"
)

// ErrScriptExhausted is returned once a Scripted prompter runs out of answers.
var ErrScriptExhausted = errors.New("scripted prompter: no answers left")

// Scripted is a Prompter fake for tests. It replays queued answers, each an
// int, a rune or a string, and records every question it was asked.
type Scripted struct {
	mu        sync.Mutex
	answers   []any
	Questions []string
}

// NewScripted queues the given answers.
func NewScripted(answers ...any) *Scripted {
	return &Scripted{answers: answers}
}

// Push appends more answers.
func (s *Scripted) Push(answers ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, answers...)
}

// Remaining returns the number of unused answers.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

func (s *Scripted) pop(ctx context.Context, question string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Questions = append(s.Questions, question)
	if len(s.answers) == 0 {
		return nil, fmt.Errorf("%w (question %q)", ErrScriptExhausted, question)
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

// Int returns the next queued int. Out of range answers are skipped, as an
// interactive prompter would re-ask.
func (s *Scripted) Int(ctx context.Context, question string, min, max int) (int, error) {
	for {
		a, err := s.pop(ctx, question)
		if err != nil {
			return 0, err
		}
		v, ok := a.(int)
		if !ok {
			return 0, fmt.Errorf("scripted prompter: want int for %q, got %T", question, a)
		}
		if v >= min && v <= max {
			return v, nil
		}
	}
}

// Char returns the next queued rune from the allowed set.
func (s *Scripted) Char(ctx context.Context, question string, allowed string) (rune, error) {
	for {
		a, err := s.pop(ctx, question)
		if err != nil {
			return 0, err
		}
		r, ok := a.(rune)
		if !ok {
			return 0, fmt.Errorf("scripted prompter: want rune for %q, got %T", question, a)
		}
		if strings.ContainsRune(allowed, r) {
			return r, nil
		}
	}
}

// Text returns the next queued string that passes validate.
func (s *Scripted) Text(ctx context.Context, question string, validate func(string) error) (string, error) {
	for {
		a, err := s.pop(ctx, question)
		if err != nil {
			return "", err
		}
		v, ok := a.(string)
		if !ok {
			return "", fmt.Errorf("scripted prompter: want string for %q, got %T", question, a)
		}
		if validate == nil || validate(v) == nil {
			return v, nil
		}
	}
}

// Recorder is a Presenter that keeps every message it is asked to show.
type Recorder struct {
	mu       sync.Mutex
	Messages []string
	Shown    []string
}

func (r *Recorder) ShowCard(c card.Card) {
	r.record(&r.Shown, "card:"+c.Name)
}

func (r *Recorder) ShowDeck(title string, d *card.Deck, hidden bool) {
	r.record(&r.Shown, fmt.Sprintf("deck:%s:%d:%t", title, d.Count(), hidden))
}

func (r *Recorder) ShowPlayer(p *player.Player, handVisible bool) {
	r.record(&r.Shown, fmt.Sprintf("player:%s:%t", p.Name, handVisible))
}

func (r *Recorder) Message(level Level, text string) {
	r.record(&r.Messages, level.String()+": "+text)
}

func (r *Recorder) record(dst *[]string, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	*dst = append(*dst, line)
}

// Contains reports whether any recorded message contains text.
func (r *Recorder) Contains(text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.Messages {
		if strings.Contains(m, text) {
			return true
		}
	}
	return false
}
