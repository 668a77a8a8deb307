// Package table holds what every entity table of the store shares: the
// partition/row key pair, the etag version column, and the insert and
// etag-conditional update primitives the repositories are built on.
package table

import (
	"context"
	"errors"
	"strings"
	"time"

	"bytebite/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// Entity is embedded in every row type. PartitionKey is the delivery area,
// RowKey the entity id, ETag the version the row was last written with.
type Entity struct {
	PartitionKey string    `gorm:"column:partition_key;primaryKey;size:64"`
	RowKey       string    `gorm:"column:row_key;primaryKey;size:64"`
	ETag         int64     `gorm:"column:etag;not null;default:1"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

// NewEntity returns the entity header of a row about to be inserted.
func NewEntity(partitionKey, rowKey string, now time.Time) Entity {
	return Entity{PartitionKey: partitionKey, RowKey: rowKey, ETag: 1, UpdatedAt: Timestamp(now)}
}

// Timestamp normalizes a time to what both drivers round-trip: UTC, microseconds.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// TimestampPtr is Timestamp for optional columns.
func TimestampPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	ts := Timestamp(*t)
	return &ts
}

// Insert creates row. An existing key yields an errs.ConflictError, any other
// failure an errs.PersistenceError.
func Insert[T any](ctx context.Context, db *gorm.DB, entity, id string, row *T) error {
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		if IsDuplicate(err) {
			return errs.NewConflictErrorWithCause(entity, id, "already exists", err)
		}
		return errs.NewPersistenceError("insert "+entity, err)
	}
	return nil
}

// UpdateIfMatch overwrites every non-key column of the row at (partitionKey,
// rowKey) with row, but only while the stored etag equals expected. row must
// already carry expected+1 as its ETag.
//
// Returns errs.ObjectNotFoundError if the row does not exist and
// errs.VersionIsInvalidError if another writer got there first.
func UpdateIfMatch[T any](
	ctx context.Context,
	db *gorm.DB,
	entity, partitionKey, rowKey string,
	expected int64,
	row *T,
) error {
	result := db.WithContext(ctx).
		Model(new(T)).
		Where("partition_key = ? AND row_key = ? AND etag = ?", partitionKey, rowKey, expected).
		Select("*").
		Omit("partition_key", "row_key", "created_at").
		Updates(row)
	if result.Error != nil {
		return errs.NewPersistenceError("update "+entity, result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).
		Model(new(T)).
		Where("partition_key = ? AND row_key = ?", partitionKey, rowKey).
		Count(&count).Error; err != nil {
		return errs.NewPersistenceError("update "+entity, err)
	}
	if count == 0 {
		return errs.NewObjectNotFoundError(entity, rowKey)
	}
	return errs.NewVersionIsInvalidError(entity)
}

// Get loads the row at (partitionKey, rowKey) into row.
func Get[T any](ctx context.Context, db *gorm.DB, entity, partitionKey, rowKey string, row *T) error {
	err := db.WithContext(ctx).
		Where("partition_key = ? AND row_key = ?", partitionKey, rowKey).
		Take(row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError(entity, rowKey)
	}
	if err != nil {
		return errs.NewPersistenceError("get "+entity, err)
	}
	return nil
}

// IsDuplicate reports whether err is a primary key or unique violation on
// either supported driver.
func IsDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
