package menusheet

import (
	"context"
	"io"
	"strings"

	"bytebite/internal/core/application/usecases/commands"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/core/domain/model/menu"
	"bytebite/internal/pkg/logger"
)

type restaurantRegistrar interface {
	Handle(ctx context.Context, cmd commands.RegisterRestaurantCommand) (kernel.UUID, error)
}

type mealRegistrar interface {
	Handle(ctx context.Context, cmd commands.RegisterMealCommand) (kernel.UUID, error)
}

type Report struct {
	Restaurants int
	Meals       int
	Errors      []error
}

// Importer registers the restaurants and meals of a workbook. Each
// restaurant is registered once per area, on its first row.
type Importer struct {
	restaurants restaurantRegistrar
	meals       mealRegistrar
	log         logger.ILogger
}

func NewImporter(restaurants restaurantRegistrar, meals mealRegistrar, log logger.ILogger) *Importer {
	return &Importer{
		restaurants: restaurants,
		meals:       meals,
		log:         log.With(logger.String("component", "menu_import")),
	}
}

// Import stops at the first store failure. Invalid rows are skipped and
// listed in the report.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Report, error) {
	rows, rowErrs, err := Parse(r)
	if err != nil {
		return Report{}, err
	}
	report := Report{Errors: rowErrs}

	seen := make(map[string]bool)
	for _, row := range rows {
		mealCmd, err := commands.NewRegisterMealCommand(row.Area, menu.MealDetails{
			RestaurantName:  row.RestaurantName,
			DishName:        row.DishName,
			Description:     row.Description,
			Price:           row.Price,
			PrepTimeMinutes: row.PrepTimeMinutes,
		})
		if err != nil {
			report.Errors = append(report.Errors, &RowError{Line: row.Line, Err: err})
			continue
		}

		key := mealCmd.Area().String() + "\x00" + strings.ToLower(mealCmd.Details().RestaurantName)
		if !seen[key] {
			restaurantCmd, err := commands.NewRegisterRestaurantCommand(mealCmd.Details().RestaurantName, mealCmd.Area().String())
			if err != nil {
				report.Errors = append(report.Errors, &RowError{Line: row.Line, Err: err})
				continue
			}
			if _, err = im.restaurants.Handle(ctx, restaurantCmd); err != nil {
				return report, err
			}
			seen[key] = true
			report.Restaurants++
		}

		if _, err = im.meals.Handle(ctx, mealCmd); err != nil {
			return report, err
		}
		report.Meals++
	}

	for _, e := range report.Errors {
		im.log.Warn("skipped menu row", logger.Error(e))
	}
	im.log.Info("menu imported",
		logger.Int("restaurants", report.Restaurants),
		logger.Int("meals", report.Meals),
		logger.Int("skipped", len(report.Errors)),
	)
	return report, nil
}
