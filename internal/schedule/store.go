// Package schedule persists planned observations and refuses reservations
// that overlap one already in the plan.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/suchnamemuchuser/bc-thesis-web/internal/metrics"
	"github.com/suchnamemuchuser/bc-thesis-web/internal/visibility"
)

var (
	// ErrConflict is returned when a reservation overlaps an existing entry.
	ErrConflict = errors.New("time slot overlaps an existing plan entry")
	// ErrInvalidRange is returned when start is not before end.
	ErrInvalidRange = errors.New("start time must be before end time")
)

// PlanEntry is one row of the plan table. Times are unix seconds.
// The table has no primary key; rows are identified by their contents.
type PlanEntry struct {
	ObjectName     string `gorm:"column:object_name;type:text" json:"object_name"`
	IsInterstellar bool   `gorm:"column:is_interstellar;type:integer" json:"is_interstellar"`
	StartTime      int64  `gorm:"column:start_time;type:integer;index" json:"start_time"`
	EndTime        int64  `gorm:"column:end_time;type:integer" json:"end_time"`
}

// TableName keeps the table name shared with the other tools reading plan.db.
func (PlanEntry) TableName() string { return "plan" }

// NewEntry builds a plan entry covering w.
func NewEntry(name string, interstellar bool, w visibility.Window) PlanEntry {
	return PlanEntry{
		ObjectName:     name,
		IsInterstellar: interstellar,
		StartTime:      w.Start.Unix(),
		EndTime:        w.End.Unix(),
	}
}

// Start returns the entry start as a time.
func (e PlanEntry) Start() time.Time { return time.Unix(e.StartTime, 0) }

// End returns the entry end as a time.
func (e PlanEntry) End() time.Time { return time.Unix(e.EndTime, 0) }

// Store is the plan table.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewStore migrates the plan table on db and returns a Store over it.
func NewStore(db *gorm.DB, logger *slog.Logger) (*Store, error) {
	if err := db.AutoMigrate(&PlanEntry{}); err != nil {
		return nil, fmt.Errorf("migrate plan table: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// overlap selects entries sharing any instant with the half-open range
// [start, end). Its arguments are (end, start).
const overlap = "start_time < ? AND end_time > ?"

// Reserve inserts e unless it overlaps an existing entry. The check and the
// insert are one statement, so two concurrent reservations cannot both win.
func (s *Store) Reserve(ctx context.Context, e PlanEntry) error {
	e.ObjectName = strings.TrimSpace(e.ObjectName)
	if e.StartTime >= e.EndTime {
		metrics.RecordReservation(metrics.OutcomeInvalid)
		return fmt.Errorf("reserve %s: %w", e.ObjectName, ErrInvalidRange)
	}

	res := s.db.WithContext(ctx).Exec(
		"INSERT INTO plan (object_name, is_interstellar, start_time, end_time) "+
			"SELECT ?, ?, ?, ? WHERE NOT EXISTS (SELECT 1 FROM plan WHERE "+overlap+")",
		e.ObjectName, e.IsInterstellar, e.StartTime, e.EndTime,
		e.EndTime, e.StartTime,
	)
	if res.Error != nil {
		metrics.RecordReservation(metrics.OutcomeError)
		return fmt.Errorf("reserve %s: %w", e.ObjectName, res.Error)
	}
	if res.RowsAffected == 0 {
		metrics.RecordReservation(metrics.OutcomeConflict)
		s.logger.Info("reservation rejected", "target", e.ObjectName, "start_time", e.StartTime, "end_time", e.EndTime)
		return fmt.Errorf("reserve %s: %w", e.ObjectName, ErrConflict)
	}

	metrics.RecordReservation(metrics.OutcomeReserved)
	s.logger.Info("reservation stored", "target", e.ObjectName, "start_time", e.StartTime, "end_time", e.EndTime)
	return nil
}

// Conflicts returns the entries overlapping [start, end).
func (s *Store) Conflicts(ctx context.Context, start, end int64) ([]PlanEntry, error) {
	var entries []PlanEntry
	err := s.db.WithContext(ctx).Where(overlap, end, start).Order("start_time").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("query conflicts: %w", err)
	}
	return entries, nil
}

// List returns the entries overlapping [from, to) ordered by start time.
// A zero to lists everything from from onwards.
func (s *Store) List(ctx context.Context, from, to time.Time) ([]PlanEntry, error) {
	q := s.db.WithContext(ctx).Where("end_time > ?", from.Unix())
	if !to.IsZero() {
		q = q.Where("start_time < ?", to.Unix())
	}

	var entries []PlanEntry
	if err := q.Order("start_time").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list plan: %w", err)
	}
	return entries, nil
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
