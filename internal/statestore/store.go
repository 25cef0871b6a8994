package statestore

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Store persists screening state in a local SQLite database.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// SeenEntry is the last recorded risk verdict for a candidate.
type SeenEntry struct {
	Level string
	At    time.Time
}

// Snapshot is the in-memory view of persisted state for one screening run.
// It is loaded once at run start, mutated in memory, and saved once at run
// end. It is not safe for concurrent use.
type Snapshot struct {
	Sent      map[string]time.Time
	Seen      map[string]SeenEntry
	QuotaDay  string
	QuotaUsed int
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string, logger *logrus.Logger) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	if err := db.AutoMigrate(&SentRecord{}, &SeenRecord{}, &QuotaRecord{}); err != nil {
		return nil, fmt.Errorf("migrate state database: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Load reads all persisted state into a snapshot. Read failures degrade to an
// empty snapshot so a corrupt or fresh database never blocks a run.
func (s *Store) Load(ctx context.Context) *Snapshot {
	snap := &Snapshot{
		Sent: make(map[string]time.Time),
		Seen: make(map[string]SeenEntry),
	}

	var sent []SentRecord
	if err := s.db.WithContext(ctx).Find(&sent).Error; err != nil {
		s.logger.WithError(err).Warn("Failed to load sent alerts, starting from empty state")
		return snap
	}
	for _, r := range sent {
		snap.Sent[r.Key] = time.Unix(r.LastAlertT, 0).UTC()
	}

	var seen []SeenRecord
	if err := s.db.WithContext(ctx).Find(&seen).Error; err != nil {
		s.logger.WithError(err).Warn("Failed to load seen risk records")
	} else {
		for _, r := range seen {
			snap.Seen[r.Key] = SeenEntry{Level: r.RiskLevel, At: time.Unix(r.SeenTS, 0).UTC()}
		}
	}

	var quota QuotaRecord
	if err := s.db.WithContext(ctx).First(&quota, 1).Error; err == nil {
		snap.QuotaDay = quota.Day
		snap.QuotaUsed = quota.Count
	}

	return snap
}

// Save writes the snapshot back to the database in a single transaction.
func (s *Store) Save(ctx context.Context, snap *Snapshot) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, ts := range snap.Sent {
			record := SentRecord{Key: key, LastAlertT: ts.Unix()}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&record).Error; err != nil {
				return err
			}
		}
		for key, entry := range snap.Seen {
			record := SeenRecord{Key: key, RiskLevel: entry.Level, SeenTS: entry.At.Unix()}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&record).Error; err != nil {
				return err
			}
		}
		quota := QuotaRecord{ID: 1, Day: snap.QuotaDay, Count: snap.QuotaUsed}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&quota).Error
	})
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// CanAlert reports whether key is outside its cooldown window at now.
func (snap *Snapshot) CanAlert(key string, now time.Time, cooldown time.Duration) bool {
	last, ok := snap.Sent[key]
	if !ok {
		return true
	}
	return now.Sub(last) >= cooldown
}

// MarkAlerted records that an alert for key was dispatched at now.
func (snap *Snapshot) MarkAlerted(key string, now time.Time) {
	snap.Sent[key] = now
}

// RecordSeen stores the latest risk verdict for key.
func (snap *Snapshot) RecordSeen(key, level string, now time.Time) {
	snap.Seen[key] = SeenEntry{Level: level, At: now}
}

// PreviousRisk returns the last recorded risk level for key, if any.
func (snap *Snapshot) PreviousRisk(key string) (string, bool) {
	entry, ok := snap.Seen[key]
	if !ok {
		return "", false
	}
	return entry.Level, true
}

// ResetDailyIfNeeded zeroes the quota counter when the date (in loc) has
// advanced past the stored quota day.
func (snap *Snapshot) ResetDailyIfNeeded(now time.Time, loc *time.Location) {
	day := now.In(loc).Format("2006-01-02")
	if snap.QuotaDay != day {
		snap.QuotaDay = day
		snap.QuotaUsed = 0
	}
}

// QuotaRemaining returns how many alerts may still be sent today.
func (snap *Snapshot) QuotaRemaining(limit int) int {
	remaining := limit - snap.QuotaUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ConsumeQuota counts one dispatched alert against the daily limit.
func (snap *Snapshot) ConsumeQuota() {
	snap.QuotaUsed++
}
