package game

import (
	"compress/gzip"
	"encoding/gob"
	"testing"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func populatedState(t *testing.T) *State {
	t.Helper()
	s := newTestState(t, nil, "Anna", "Bea", "Carlo")
	s.DrawPool.Append(student("Pescata"))
	s.Discard(student("Scartata"))
	s.StudyPool.Append(card.New("Matricola", "", card.KindFreshman, card.TimingNever, false))

	anna := s.Ring().MustPlayer(0)
	anna.Hand.Append(card.New("Furto", "Ruba un bonus", card.KindSpell, card.TimingOnPlayImmediate, true,
		card.Effect{Action: card.ActionSteal, Scope: card.ScopeChosenOpponent, Kind: card.KindBonus}))
	anna.PlayArea.Append(student("Secchione"))
	s.Ring().MustPlayer(2).BonusMalus.Append(card.New("Caffè", "", card.KindBonus, card.TimingAlways, false,
		card.Effect{Action: card.ActionShow, Scope: card.ScopeSelf, Kind: card.KindWildcard}))

	s.Current = 2
	s.SetRound(7)
	return s
}

func ids(d *card.Deck) []string {
	var out []string
	for _, c := range d.Cards() {
		out = append(out, c.ID)
	}
	return out
}

func TestChecksumIsDeterministic(t *testing.T) {
	s := populatedState(t)

	a, err := Capture(s)
	require.NoError(t, err)
	b, err := Capture(s)
	require.NoError(t, err)

	assert.Equal(t, a.Checksum.Hash, b.Checksum.Hash)
	assert.Len(t, a.Checksum.Hash, 64)
	assert.Equal(t, SnapshotVersion, a.Checksum.Version)
}

func TestChecksumDetectsDeckOrder(t *testing.T) {
	s := populatedState(t)
	before, err := Capture(s)
	require.NoError(t, err)

	s.DrawPool.Append(student("Ultima"))
	after, err := Capture(s)
	require.NoError(t, err)

	assert.NotEqual(t, before.Checksum.Hash, after.Checksum.Hash)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := populatedState(t)

	require.NoError(t, SaveFile(fs, "saves", s))
	exists, err := afero.Exists(fs, "saves/partita.sav")
	require.NoError(t, err)
	require.True(t, exists)

	snap, err := LoadFile(fs, "saves", "partita")
	require.NoError(t, err)
	restored := snap.Restore(testRand(), nil, zaptest.NewLogger(t))

	assert.Equal(t, "partita", restored.Name)
	assert.Equal(t, 7, restored.Round())
	assert.Equal(t, 2, restored.Current)
	assert.Equal(t, []string{"Anna", "Bea", "Carlo"}, restored.Ring().Names())
	assert.Equal(t, 0, restored.Ring().Next(2))

	anna := restored.Ring().MustPlayer(0)
	assert.Equal(t, ids(s.Ring().MustPlayer(0).Hand), ids(anna.Hand))
	furto, err := anna.Hand.At(0)
	require.NoError(t, err)
	assert.True(t, furto.Optional)
	assert.True(t, furto.HasEffect(card.ActionSteal, card.ScopeChosenOpponent, card.KindBonus))
	assert.True(t, restored.Ring().MustPlayer(2).BonusMalus.ContainsName("Caffè"))
	assert.Equal(t, ids(s.DrawPool), ids(restored.DrawPool))
	assert.Equal(t, ids(s.DiscardPool), ids(restored.DiscardPool))
	assert.Equal(t, 1, restored.StudyPool.Count())
}

func TestLoadRejectsTamperedSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	snap, err := Capture(populatedState(t))
	require.NoError(t, err)
	snap.Round = 99

	require.NoError(t, fs.MkdirAll("saves", 0o755))
	f, err := fs.Create("saves/partita.sav")
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	enc := gob.NewEncoder(gz)
	require.NoError(t, enc.Encode(&saveMetadata{Version: SnapshotVersion, Name: snap.Name}))
	require.NoError(t, enc.Encode(snap))
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	_, err = LoadFile(fs, "saves", "partita")
	require.Error(t, err)
	assert.True(t, gameerr.IsKind(err, gameerr.KindIO))
	assert.Contains(t, err.Error(), "checksum mismatch")
	assert.Contains(t, err.Error(), "partita.sav")
}

func TestLoadMissingSave(t *testing.T) {
	sv := NewSaver(afero.NewMemMapFs(), "saves", zaptest.NewLogger(t))

	exists, err := sv.Exists("nessuna")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = sv.Load("nessuna")
	require.Error(t, err)
	assert.True(t, gameerr.IsKind(err, gameerr.KindIO))
}
