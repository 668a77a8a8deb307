package menurepo

import (
	"context"
	"errors"
	"strings"

	"bytebite/internal/adapters/out/tablestore/table"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/menu"
	"bytebite/internal/core/ports"
	"bytebite/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormRestaurantRepository implements ports.RestaurantRepository.
type GormRestaurantRepository struct {
	db    *gorm.DB
	clock ports.Clock
}

func NewGormRestaurantRepository(db *gorm.DB, clock ports.Clock) *GormRestaurantRepository {
	return &GormRestaurantRepository{db: db, clock: clock}
}

func (r *GormRestaurantRepository) Add(ctx context.Context, aggregate *menu.Restaurant) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	dto := restaurantFromDomain(aggregate, r.clock.Now())
	return table.Insert(ctx, r.db, "restaurant", dto.RowKey, &dto)
}

// FindByName returns the earliest registered restaurant with that name in the area.
func (r *GormRestaurantRepository) FindByName(
	ctx context.Context,
	area kernel.Area,
	name string,
) (*menu.Restaurant, error) {
	var dto RestaurantDTO
	err := r.db.WithContext(ctx).
		Where("partition_key = ? AND restaurant_name = ?", area.String(), strings.TrimSpace(name)).
		Order("created_at").
		Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("restaurant", name)
	}
	if err != nil {
		return nil, errs.NewPersistenceError("find restaurant", err)
	}

	restaurant, err := restaurantToDomain(dto)
	if err != nil {
		return nil, errs.NewCorruptRecordError("restaurant", dto.RowKey, err)
	}
	return restaurant, nil
}

// GormMealRepository implements ports.MealRepository.
type GormMealRepository struct {
	db    *gorm.DB
	clock ports.Clock
}

func NewGormMealRepository(db *gorm.DB, clock ports.Clock) *GormMealRepository {
	return &GormMealRepository{db: db, clock: clock}
}

func (r *GormMealRepository) Add(ctx context.Context, aggregate *menu.Meal) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	dto := mealFromDomain(aggregate, r.clock.Now())
	return table.Insert(ctx, r.db, "meal", dto.RowKey, &dto)
}

func (r *GormMealRepository) ListByArea(ctx context.Context, area kernel.Area) ([]*menu.Meal, error) {
	var dtos []MealDTO
	err := r.db.WithContext(ctx).
		Where("partition_key = ?", area.String()).
		Order("restaurant_name").
		Order("dish_name").
		Order("row_key").
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewPersistenceError("list meals", err)
	}

	meals := make([]*menu.Meal, 0, len(dtos))
	for _, dto := range dtos {
		m, decodeErr := mealToDomain(dto)
		if decodeErr != nil {
			return nil, errs.NewCorruptRecordError("meal", dto.RowKey, decodeErr)
		}
		meals = append(meals, m)
	}
	return meals, nil
}
