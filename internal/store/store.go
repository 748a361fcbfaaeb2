package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/calligan/skirmish/internal/game"
)

// SnapshotRecord is one persisted battle snapshot. Unit state is stored as
// a JSON document rather than normalized rows: snapshots are read back
// whole, never queried per unit.
type SnapshotRecord struct {
	ID       uint   `gorm:"primarykey"`
	BattleID string `gorm:"index"`
	Turn     int
	Phase    string
	Units    []byte
	TakenAt  time.Time
}

// BattleRecord summarizes one completed battle.
type BattleRecord struct {
	ID        uint   `gorm:"primarykey"`
	BattleID  string `gorm:"uniqueIndex"`
	Scenario  string
	Seed      int64
	Winner    string
	Turns     int
	Survivors int
	EndedAt   time.Time
}

// Manager owns the battle history database.
type Manager struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the SQLite database at path, creating the schema if
// needed. An empty path opens an in-memory database, used by tests and by
// runs that do not care about history.
func Open(path string, log zerolog.Logger) (*Manager, error) {
	dsn := "file::memory:?cache=shared"
	if path != "" {
		dsn = path
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open battle database: %w", err)
	}
	if err := db.AutoMigrate(&SnapshotRecord{}, &BattleRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate battle schema: %w", err)
	}

	m := &Manager{db: db, log: log.With().Str("component", "store").Logger()}
	if path != "" {
		m.log.Info().Str("path", path).Msg("battle database opened")
	}
	return m, nil
}

// Close releases the underlying connection.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveSnapshot persists one snapshot under battleID.
func (m *Manager) SaveSnapshot(battleID string, snap game.Snapshot) error {
	units, err := json.Marshal(snap.Units)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot units: %w", err)
	}
	rec := SnapshotRecord{
		BattleID: battleID,
		Turn:     snap.Turn,
		Phase:    snap.Phase,
		Units:    units,
		TakenAt:  time.Now(),
	}
	if err := m.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recently saved snapshot for battleID.
func (m *Manager) LatestSnapshot(battleID string) (game.Snapshot, error) {
	var rec SnapshotRecord
	err := m.db.Where("battle_id = ?", battleID).Order("id DESC").First(&rec).Error
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	return decodeSnapshot(rec)
}

// History returns every snapshot for battleID in the order taken.
func (m *Manager) History(battleID string) ([]game.Snapshot, error) {
	var recs []SnapshotRecord
	err := m.db.Where("battle_id = ?", battleID).Order("id ASC").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot history: %w", err)
	}
	out := make([]game.Snapshot, 0, len(recs))
	for _, rec := range recs {
		snap, err := decodeSnapshot(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

// SaveResult records a battle's final outcome.
func (m *Manager) SaveResult(battleID, scenario string, seed int64, res game.BattleResult) error {
	rec := BattleRecord{
		BattleID:  battleID,
		Scenario:  scenario,
		Seed:      seed,
		Winner:    res.Winner,
		Turns:     res.Turns,
		Survivors: res.Survivors,
		EndedAt:   time.Now(),
	}
	if err := m.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to save battle result: %w", err)
	}
	return nil
}

// Results returns every recorded battle outcome, oldest first.
func (m *Manager) Results() ([]BattleRecord, error) {
	var recs []BattleRecord
	if err := m.db.Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to load battle results: %w", err)
	}
	return recs, nil
}

func decodeSnapshot(rec SnapshotRecord) (game.Snapshot, error) {
	snap := game.Snapshot{Turn: rec.Turn, Phase: rec.Phase}
	if err := json.Unmarshal(rec.Units, &snap.Units); err != nil {
		return game.Snapshot{}, fmt.Errorf("failed to decode snapshot units: %w", err)
	}
	return snap, nil
}
