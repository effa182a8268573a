package blocklist

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

const (
	SeverityBlock = "block"
	SeverityWarn  = "warn"
)

// Entry is one phrase policy rule. Severity "block" rejects the content
// outright; "warn" allows it through but records a review flag.
type Entry struct {
	ID       uint   `gorm:"primarykey" json:"-"`
	Phrase   string `gorm:"index;not null" json:"phrase"`
	Language string `json:"language,omitempty"`
	Severity string `gorm:"default:block" json:"severity"`
}

func (Entry) TableName() string {
	return "blocklist_entries"
}

// Store is a source of blocklist entries.
type Store interface {
	List(ctx context.Context) ([]Entry, error)
	Add(ctx context.Context, e Entry) error
}

// GormStore reads entries from a relational table, the primary source in
// deployments.
type GormStore struct {
	DB *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating blocklist table: %w", err)
	}
	return &GormStore{DB: db}, nil
}

func (s *GormStore) List(ctx context.Context) ([]Entry, error) {
	var out []Entry
	if err := s.DB.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing blocklist entries: %w", err)
	}
	return out, nil
}

func (s *GormStore) Add(ctx context.Context, e Entry) error {
	if e.Phrase == "" {
		return fmt.Errorf("refusing to add empty blocklist phrase")
	}
	if e.Severity == "" {
		e.Severity = SeverityBlock
	}
	if e.Severity != SeverityBlock && e.Severity != SeverityWarn {
		return fmt.Errorf("unknown blocklist severity: %s", e.Severity)
	}
	if err := s.DB.WithContext(ctx).Create(&e).Error; err != nil {
		return fmt.Errorf("adding blocklist entry: %w", err)
	}
	return nil
}

// EnvStore holds entries parsed from a configuration-supplied JSON array,
// used as a fallback when no remote table is configured or it is empty.
type EnvStore struct {
	entries []Entry
}

var _ Store = (*EnvStore)(nil)

// NewEnvStore parses a JSON array of {phrase, severity} objects. An empty
// string yields an empty store.
func NewEnvStore(raw string) (*EnvStore, error) {
	s := &EnvStore{}
	if raw == "" {
		return s, nil
	}
	if err := json.Unmarshal([]byte(raw), &s.entries); err != nil {
		return nil, fmt.Errorf("parsing blocklist JSON: %w", err)
	}
	for i := range s.entries {
		if s.entries[i].Severity == "" {
			s.entries[i].Severity = SeverityBlock
		}
	}
	return s, nil
}

func (s *EnvStore) List(ctx context.Context) ([]Entry, error) {
	return s.entries, nil
}

func (s *EnvStore) Add(ctx context.Context, e Entry) error {
	return fmt.Errorf("env-configured blocklist is read-only")
}

// StaticStore is a fixed in-memory store for tests.
type StaticStore struct {
	Entries []Entry
}

var _ Store = (*StaticStore)(nil)

func (s *StaticStore) List(ctx context.Context) ([]Entry, error) {
	return s.Entries, nil
}

func (s *StaticStore) Add(ctx context.Context, e Entry) error {
	s.Entries = append(s.Entries, e)
	return nil
}
