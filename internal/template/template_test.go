package template

import (
	"strings"
	"testing"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `2
  Bookworm  
Lives in the library.
3 0
3 0

1
Tutor
Steal a bonus card.
7
2
3 1 5
4 0 -1
0 1
`

func TestParseRecords(t *testing.T) {
	entries, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, 2, entries[0].Quantity)
	assert.Equal(t, "Bookworm", entries[0].Card.Name)
	assert.Equal(t, card.KindPlainStudent, entries[0].Card.Kind)
	assert.Empty(t, entries[0].Card.Effects)
	assert.Equal(t, card.TimingNever, entries[0].Card.Timing)

	tutor := entries[1].Card
	assert.Equal(t, card.KindSpell, tutor.Kind)
	assert.True(t, tutor.Optional)
	assert.Equal(t, []card.Effect{
		{Action: card.ActionSteal, Scope: card.ScopeChosenOpponent, Kind: card.KindBonus},
		{Action: card.ActionDraw, Scope: card.ScopeSelf, Kind: card.KindWildcard},
	}, tutor.Effects)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"bad quantity":    "two\nName\nDesc\n3 0 3 0\n",
		"truncated":       "1\nName\nDesc\n3 1\n4 0\n",
		"bad kind":        "1\nName\nDesc\n12 0 3 0\n",
		"filter kind":     "1\nName\nDesc\n0 0 3 0\n",
		"bad action":      "1\nName\nDesc\n7 1 42 0 0 0 0\n",
		"bad timing":      "1\nName\nDesc\n3 0 9 0\n",
		"bad optional":    "1\nName\nDesc\n3 0 3 2\n",
		"missing desc":    "1\nName\n",
		"negative effect": "1\nName\nDesc\n3 -1 3 0\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(input))
			assert.Error(t, err)
		})
	}
}

func TestParseRejectsAnyAsCardKind(t *testing.T) {
	_, err := Parse(strings.NewReader("1\nJolly\nFits anywhere\n0 0 3 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only works as a filter")
}

func TestParseReportsLine(t *testing.T) {
	_, err := Parse(strings.NewReader("1\nName\nDesc\n3 0\n3 x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 5")
}

func TestParseCapsLengths(t *testing.T) {
	long := strings.Repeat("n", 40)
	desc := strings.Repeat("d", 300)
	entries, err := Parse(strings.NewReader("1\n" + long + "\n" + desc + "\n3 0 3 0\n"))
	require.NoError(t, err)
	assert.Len(t, entries[0].Card.Name, 31)
	assert.Len(t, entries[0].Card.Description, MaxDescriptionLength)
}

func TestLoadFromFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "decks/main.txt", []byte(sample), 0o644))

	entries, err := Load(fs, "decks/main.txt")
	require.NoError(t, err)
	deck := Materialize(entries)
	assert.Equal(t, 3, deck.Count())

	_, err = Load(fs, "decks/missing.txt")
	require.Error(t, err)
	assert.True(t, gameerr.IsKind(err, gameerr.KindIO))
	assert.Contains(t, err.Error(), "decks/missing.txt")
}

func TestBundledDeckParses(t *testing.T) {
	entries, err := Load(afero.NewOsFs(), "../../assets/deck.txt")
	require.NoError(t, err)

	deck := Materialize(entries)
	freshmen := deck.SplitByKind(card.KindFreshman)
	assert.GreaterOrEqual(t, freshmen.Count(), 4)
	assert.GreaterOrEqual(t, deck.Count(), 4*5+4)
}
