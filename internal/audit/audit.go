// Package audit keeps a record of account-level actions (subscription changes,
// data exports, erasures) outside of the user document itself, so the record
// survives account deletion.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitai-backend/pkg/logging"
)

// Actions recorded by the API and admin tooling
const (
	ActionPremiumGranted = "premium_granted"
	ActionPremiumRevoked = "premium_revoked"
	ActionDataExported   = "data_exported"
	ActionAccountDeleted = "account_deleted"
	ActionCoachLinked    = "coach_linked"
	ActionCoachUnlinked  = "coach_unlinked"
)

// Entry is one audit row
type Entry struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Action    string    `json:"action" gorm:"index;not null"`
	UserID    string    `json:"user_id" gorm:"index"`
	Actor     string    `json:"actor"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

func (Entry) TableName() string { return "audit_entries" }

// Recorder persists audit entries
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// gormRecorder implements Recorder on Postgres through gorm
type gormRecorder struct {
	db *gorm.DB
}

// NewGormRecorder migrates the audit table and returns a Recorder backed by it
func NewGormRecorder(db *gorm.DB) (Recorder, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &gormRecorder{db: db}, nil
}

func (r *gormRecorder) Record(ctx context.Context, entry Entry) error {
	stamp(&entry)
	return r.db.WithContext(ctx).Create(&entry).Error
}

// logRecorder only writes entries to the structured log
type logRecorder struct{}

// NewLogRecorder is used when no database is configured
func NewLogRecorder() Recorder {
	return logRecorder{}
}

func (logRecorder) Record(_ context.Context, entry Entry) error {
	stamp(&entry)
	logging.Component("audit").Info().
		Str("action", entry.Action).
		Str("user_id", entry.UserID).
		Str("actor", entry.Actor).
		Str("detail", entry.Detail).
		Msg("audit entry")
	return nil
}

func stamp(entry *Entry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
}
