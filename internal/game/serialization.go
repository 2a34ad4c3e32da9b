package game

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/magefree/unstable-students/internal/game/card"
	"github.com/magefree/unstable-students/internal/game/player"
	"github.com/magefree/unstable-students/internal/game/rules"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// SnapshotVersion is bumped whenever the snapshot layout changes.
const SnapshotVersion = 1

// SerializationChecksum is a deterministic digest of a snapshot.
type SerializationChecksum struct {
	Hash    string // hex blake2b-256 of the canonical representation
	Version int
}

// PlayerSnapshot holds one player's name and decks.
type PlayerSnapshot struct {
	Name       string
	Hand       []card.Card
	PlayArea   []card.Card
	BonusMalus []card.Card
}

// Snapshot is the complete persisted form of a State. Players are stored in
// seat order, which is also the ring order.
type Snapshot struct {
	Name        string
	Round       int
	Current     int
	Players     []PlayerSnapshot
	DrawPool    []card.Card
	DiscardPool []card.Card
	StudyPool   []card.Card
	Timestamp   time.Time
	Checksum    SerializationChecksum
}

// Capture copies s into a snapshot and seals it with a checksum.
func Capture(s *State) (*Snapshot, error) {
	snap := &Snapshot{
		Name:        s.Name,
		Round:       s.round,
		Current:     s.Current,
		DrawPool:    s.DrawPool.Cards(),
		DiscardPool: s.DiscardPool.Cards(),
		StudyPool:   s.StudyPool.Cards(),
		Timestamp:   time.Now().UTC(),
	}
	for _, p := range s.ring.Players() {
		snap.Players = append(snap.Players, PlayerSnapshot{
			Name:       p.Name,
			Hand:       p.Hand.Cards(),
			PlayArea:   p.PlayArea.Cards(),
			BonusMalus: p.BonusMalus.Cards(),
		})
	}
	sum, err := snap.ComputeChecksum()
	if err != nil {
		return nil, err
	}
	snap.Checksum = *sum
	return snap, nil
}

// Restore rebuilds a State from the snapshot.
func (snap *Snapshot) Restore(rng card.Randomizer, bus *rules.EventBus, logger *zap.Logger) *State {
	ring := player.NewRing()
	for _, ps := range snap.Players {
		p := player.New(ps.Name)
		p.Hand = card.NewDeck(ps.Hand...)
		p.PlayArea = card.NewDeck(ps.PlayArea...)
		p.BonusMalus = card.NewDeck(ps.BonusMalus...)
		ring.Add(p)
	}
	s := NewState(snap.Name, ring, rng, bus, logger)
	s.DrawPool = card.NewDeck(snap.DrawPool...)
	s.DiscardPool = card.NewDeck(snap.DiscardPool...)
	s.StudyPool = card.NewDeck(snap.StudyPool...)
	s.Current = snap.Current
	s.round = snap.Round
	return s
}

// ComputeChecksum hashes the canonical representation of the snapshot. The
// timestamp and the stored checksum are left out.
func (snap *Snapshot) ComputeChecksum() (*SerializationChecksum, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create hash: %w", err)
	}
	if _, err := h.Write([]byte(snap.buildDeterministicRepresentation())); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}
	return &SerializationChecksum{
		Hash:    hex.EncodeToString(h.Sum(nil)),
		Version: SnapshotVersion,
	}, nil
}

// VerifyChecksum reports whether the stored checksum matches the content.
func (snap *Snapshot) VerifyChecksum() (bool, error) {
	computed, err := snap.ComputeChecksum()
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return computed.Hash == snap.Checksum.Hash && computed.Version == snap.Checksum.Version, nil
}

// buildDeterministicRepresentation renders the snapshot as text. Deck order
// is game state, so cards are written in deck order rather than sorted.
func (snap *Snapshot) buildDeterministicRepresentation() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "GAME:%s|%d|%d|%d\n", strconv.Quote(snap.Name), snap.Round, snap.Current, len(snap.Players))
	for i, p := range snap.Players {
		fmt.Fprintf(&buf, "PLAYER:%d|%s\n", i, strconv.Quote(p.Name))
		writeCards(&buf, "  HAND", p.Hand)
		writeCards(&buf, "  PLAY", p.PlayArea)
		writeCards(&buf, "  BONUS_MALUS", p.BonusMalus)
	}
	writeCards(&buf, "DRAW", snap.DrawPool)
	writeCards(&buf, "DISCARD", snap.DiscardPool)
	writeCards(&buf, "STUDY", snap.StudyPool)
	return buf.String()
}

func writeCards(buf *bytes.Buffer, label string, cards []card.Card) {
	fmt.Fprintf(buf, "%s:%d\n", label, len(cards))
	for _, c := range cards {
		fmt.Fprintf(buf, "%s:CARD:%s|%s|%s|%d|%d|%t\n",
			label, c.ID, strconv.Quote(c.Name), strconv.Quote(c.Description),
			c.Kind, c.Timing, c.Optional)
		for _, e := range c.Effects {
			fmt.Fprintf(buf, "%s:EFFECT:%d|%d|%d\n", label, e.Action, e.Scope, e.Kind)
		}
	}
}
