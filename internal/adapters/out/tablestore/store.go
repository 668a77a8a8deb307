// Package tablestore is the entity store of the service: partition/row keyed
// tables with an etag version column, on top of GORM.
//
// Two drivers are supported:
//   - postgres: production; schema managed by golang-migrate from the embedded
//     migrations directory
//   - sqlite: local runs and tests (pure Go, no cgo); schema created with
//     AutoMigrate and a single connection so writers are serialized
//
// Example:
//
//	store, err := tablestore.Open(ctx, tablestore.Config{Driver: tablestore.DriverSQLite, SQLitePath: "bytebite.db"}, clock)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	deliveries := store.Deliveries()
package tablestore

import (
	"context"
	"errors"
	"fmt"

	"bytebite/internal/adapters/out/tablestore/deliveryrepo"
	"bytebite/internal/adapters/out/tablestore/menurepo"
	"bytebite/internal/adapters/out/tablestore/orderrepo"
	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/errs"

	"github.com/glebarez/sqlite"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnknownDriver = errors.New("unknown store driver")

type Config struct {
	Driver      string
	PostgresDSN string
	SQLitePath  string
}

// Models lists every row type of the store.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&deliveryrepo.DeliveryDTO{},
		&menurepo.RestaurantDTO{},
		&menurepo.MealDTO{},
	}
}

// Store owns the database handle and hands out repositories bound to it.
type Store struct {
	db    *gorm.DB
	clock ports.Clock
}

// Open connects with the configured driver and brings the schema up to date.
func Open(ctx context.Context, cfg Config, clock ports.Clock) (*Store, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverPostgres:
		if err = MigratePostgres(cfg.PostgresDSN); err != nil {
			return nil, err
		}
		db, err = gorm.Open(gormpostgres.Open(cfg.PostgresDSN), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return nil, dbErr
		}
		sqlDB.SetMaxOpenConns(1)
		if err = db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	return NewStore(db, clock), nil
}

// NewStore wraps an already migrated connection.
func NewStore(db *gorm.DB, clock ports.Clock) *Store {
	return &Store{db: db, clock: clock}
}

func (s *Store) Orders() *orderrepo.GormOrderRepository {
	return orderrepo.NewGormOrderRepository(s.db, s.clock)
}

func (s *Store) Deliveries() *deliveryrepo.GormDeliveryRepository {
	return deliveryrepo.NewGormDeliveryRepository(s.db, s.clock)
}

func (s *Store) Restaurants() *menurepo.GormRestaurantRepository {
	return menurepo.NewGormRestaurantRepository(s.db, s.clock)
}

func (s *Store) Meals() *menurepo.GormMealRepository {
	return menurepo.NewGormMealRepository(s.db, s.clock)
}

// DB exposes the handle for read-side queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errs.NewPersistenceError("ping store", err)
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		return errs.NewPersistenceError("ping store", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
