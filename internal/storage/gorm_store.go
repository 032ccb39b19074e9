package storage

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultSnapshotQuota is the per-snapshot size limit for the metadata
// store, mirroring the few-megabyte budget of a browser's local storage.
const DefaultSnapshotQuota = 5 * 1024 * 1024

// Config holds the database settings for the GORM-backed stores.
type Config struct {
	// Driver is either "sqlite" or "postgres".
	Driver string
	// DSN is a file path for sqlite or a connection string for postgres.
	DSN string
	// SnapshotQuota caps the byte size of a single metadata snapshot.
	// Zero means DefaultSnapshotQuota.
	SnapshotQuota int
}

type snapshotRow struct {
	Key   string `gorm:"primaryKey;type:varchar(100)"`
	Value string
}

func (snapshotRow) TableName() string { return "snapshots" }

type blobRow struct {
	ID      string `gorm:"primaryKey;type:varchar(36)"`
	Payload []byte
}

func (blobRow) TableName() string { return "blobs" }

// Open connects to the configured database, migrates the snapshot and
// blob tables, and returns both stores backed by the same connection.
func Open(cfg Config) (*GORMMetadataStore, *GORMBlobStore, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&snapshotRow{}, &blobRow{}); err != nil {
		return nil, nil, fmt.Errorf("failed to migrate storage tables: %w", err)
	}

	quota := cfg.SnapshotQuota
	if quota <= 0 {
		quota = DefaultSnapshotQuota
	}
	return &GORMMetadataStore{db: db, quota: quota}, &GORMBlobStore{db: db}, nil
}

// GORMMetadataStore is a GORM implementation of MetadataStore.
type GORMMetadataStore struct {
	db    *gorm.DB
	quota int
}

// NewGORMMetadataStore wraps an existing GORM connection.
func NewGORMMetadataStore(db *gorm.DB, quota int) *GORMMetadataStore {
	if quota <= 0 {
		quota = DefaultSnapshotQuota
	}
	return &GORMMetadataStore{db: db, quota: quota}
}

// Load retrieves the snapshot stored under key.
func (s *GORMMetadataStore) Load(key string) (string, bool, error) {
	var row snapshotRow
	if err := s.db.First(&row, "key = ?", key).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to load snapshot %s: %w", key, err)
	}
	return row.Value, true, nil
}

// Save replaces the snapshot stored under key.
func (s *GORMMetadataStore) Save(key, value string) error {
	if len(value) > s.quota {
		return fmt.Errorf("%w: snapshot %s is %d bytes (quota %d)", ErrQuotaExceeded, key, len(value), s.quota)
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&snapshotRow{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", key, err)
	}
	return nil
}

// GORMBlobStore is a GORM implementation of BlobStore.
type GORMBlobStore struct {
	db *gorm.DB
}

// NewGORMBlobStore wraps an existing GORM connection.
func NewGORMBlobStore(db *gorm.DB) *GORMBlobStore {
	return &GORMBlobStore{db: db}
}

// Put stores the payload under id, replacing any previous entry.
func (s *GORMBlobStore) Put(ctx context.Context, id, payload string) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload"}),
	}).Create(&blobRow{ID: id, Payload: []byte(payload)}).Error
	if err != nil {
		return fmt.Errorf("failed to put blob %s: %w", id, err)
	}
	return nil
}

// Get retrieves the payload stored under id.
func (s *GORMBlobStore) Get(ctx context.Context, id string) (string, bool, error) {
	var row blobRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get blob %s: %w", id, err)
	}
	return string(row.Payload), true, nil
}

// Delete removes the payload stored under id, if any.
func (s *GORMBlobStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&blobRow{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", id, err)
	}
	return nil
}
