package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"path/filepath"
	"time"

	"github.com/magefree/unstable-students/internal/game/gameerr"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// SaveExtension is the file suffix of save files.
const SaveExtension = ".sav"

// saveMetadata is written ahead of the snapshot so a save can be described
// without decoding the whole game.
type saveMetadata struct {
	Version     int
	Name        string
	Round       int
	PlayerCount int
	Timestamp   time.Time
}

// SavePath returns the file a game named name is saved to.
func SavePath(dir, name string) string {
	return filepath.Join(dir, name+SaveExtension)
}

// SaveFile writes s to <dir>/<name>.sav as a gzip compressed gob stream.
func SaveFile(fs afero.Fs, dir string, s *State) (err error) {
	const op = "game.save"
	path := SavePath(dir, s.Name)

	snap, err := Capture(s)
	if err != nil {
		return gameerr.IO(op, path, err)
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return gameerr.IO(op, dir, err)
	}
	file, err := fs.Create(path)
	if err != nil {
		return gameerr.IO(op, path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			err = multierr.Append(err, gameerr.IO(op, path, cerr))
		}
	}()

	gz := gzip.NewWriter(file)
	defer func() {
		if cerr := gz.Close(); cerr != nil {
			err = multierr.Append(err, gameerr.IO(op, path, cerr))
		}
	}()

	enc := gob.NewEncoder(gz)
	meta := saveMetadata{
		Version:     SnapshotVersion,
		Name:        snap.Name,
		Round:       snap.Round,
		PlayerCount: len(snap.Players),
		Timestamp:   snap.Timestamp,
	}
	if err := enc.Encode(&meta); err != nil {
		return gameerr.IO(op, path, fmt.Errorf("failed to encode metadata: %w", err))
	}
	if err := enc.Encode(snap); err != nil {
		return gameerr.IO(op, path, fmt.Errorf("failed to encode snapshot: %w", err))
	}
	return nil
}

// LoadFile reads the save of the game named name and checks its checksum.
func LoadFile(fs afero.Fs, dir, name string) (*Snapshot, error) {
	const op = "game.load"
	path := SavePath(dir, name)

	file, err := fs.Open(path)
	if err != nil {
		return nil, gameerr.IO(op, path, err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, gameerr.IO(op, path, fmt.Errorf("failed to create gzip reader: %w", err))
	}
	defer gz.Close()

	dec := gob.NewDecoder(gz)
	var meta saveMetadata
	if err := dec.Decode(&meta); err != nil {
		return nil, gameerr.IO(op, path, fmt.Errorf("failed to decode metadata: %w", err))
	}
	if meta.Version != SnapshotVersion {
		return nil, gameerr.IO(op, path, fmt.Errorf("unsupported save version: %d", meta.Version))
	}

	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, gameerr.IO(op, path, fmt.Errorf("failed to decode snapshot: %w", err))
	}
	ok, err := snap.VerifyChecksum()
	if err != nil {
		return nil, gameerr.IO(op, path, err)
	}
	if !ok {
		return nil, gameerr.IO(op, path, fmt.Errorf("checksum mismatch, the save is corrupt"))
	}
	if err := snap.validate(); err != nil {
		return nil, gameerr.IO(op, path, err)
	}
	return &snap, nil
}

func (snap *Snapshot) validate() error {
	if n := len(snap.Players); n < MinPlayers || n > MaxPlayers {
		return fmt.Errorf("save has %d players", n)
	}
	if snap.Current < 0 || snap.Current >= len(snap.Players) {
		return fmt.Errorf("current seat %d out of range", snap.Current)
	}
	if snap.Round < 0 {
		return fmt.Errorf("negative round %d", snap.Round)
	}
	return nil
}

// Saver persists games into one directory.
type Saver struct {
	fs     afero.Fs
	dir    string
	logger *zap.Logger
}

// NewSaver creates a saver writing to dir on fs.
func NewSaver(fs afero.Fs, dir string, logger *zap.Logger) *Saver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saver{fs: fs, dir: dir, logger: logger}
}

// Dir returns the save directory.
func (sv *Saver) Dir() string {
	return sv.dir
}

// Save writes s to disk.
func (sv *Saver) Save(s *State) error {
	if err := SaveFile(sv.fs, sv.dir, s); err != nil {
		return err
	}
	sv.logger.Info("saved game to disk",
		zap.String("game", s.Name),
		zap.Int("round", s.Round()),
		zap.String("directory", sv.dir))
	return nil
}

// Load reads the save of the game named name.
func (sv *Saver) Load(name string) (*Snapshot, error) {
	snap, err := LoadFile(sv.fs, sv.dir, name)
	if err != nil {
		return nil, err
	}
	sv.logger.Info("loaded game from disk",
		zap.String("game", name),
		zap.Int("round", snap.Round),
		zap.Int("players", len(snap.Players)))
	return snap, nil
}

// Exists reports whether a save file for name is present.
func (sv *Saver) Exists(name string) (bool, error) {
	return afero.Exists(sv.fs, SavePath(sv.dir, name))
}
