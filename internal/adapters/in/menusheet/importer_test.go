package menusheet_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"bytebite/internal/adapters/in/menusheet"
	"bytebite/internal/adapters/out/tablestore"
	"bytebite/internal/core/application/usecases/commands"
	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/pkg/errs"
	"bytebite/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	_, err := f.NewSheet(menusheet.SheetName)
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(menusheet.SheetName, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var header = []any{"Area", "Restaurant", "Dish", "Description", "Price", "Prep Time"}

func TestParse(t *testing.T) {
	buf := workbook(t, [][]any{
		header,
		{"downtown", "Pho 88", "Pho", "Beef noodle soup", 10.5, 15},
		{},
		{"downtown", "Pho 88", "Rolls", "Spring rolls", "cheap", 5},
		{"uptown", "Taco Town", "Taco", "Two tacos", "7", "10"},
	})

	rows, rowErrs, err := menusheet.Parse(buf)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, menusheet.Row{
		Line: 2, Area: "downtown", RestaurantName: "Pho 88", DishName: "Pho",
		Description: "Beef noodle soup", Price: 10.5, PrepTimeMinutes: 15,
	}, rows[0])
	assert.Equal(t, 5, rows[1].Line)
	assert.InDelta(t, 7.0, rows[1].Price, 1e-9)

	require.Len(t, rowErrs, 1)
	var rowErr *menusheet.RowError
	require.ErrorAs(t, rowErrs[0], &rowErr)
	assert.Equal(t, 4, rowErr.Line)
	assert.ErrorIs(t, rowErrs[0], errs.ErrValueIsInvalid)
}

func TestParse_MissingColumns(t *testing.T) {
	buf := workbook(t, [][]any{{"Area", "Restaurant", "Dish"}})

	_, _, err := menusheet.Parse(buf)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.ErrorContains(t, err, "price")
	assert.ErrorContains(t, err, "preptime")
}

func TestParse_NotAWorkbook(t *testing.T) {
	_, _, err := menusheet.Parse(bytes.NewBufferString("area,restaurant\n"))

	assert.Error(t, err)
}

type fixedClock struct{}

func (fixedClock) Now() time.Time {
	return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
}

func TestImporter_RegistersRestaurantsOncePerArea(t *testing.T) {
	ctx := t.Context()
	store, err := tablestore.Open(ctx, tablestore.Config{
		Driver:     tablestore.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "menu.db"),
	}, fixedClock{})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	importer := menusheet.NewImporter(
		commands.NewRegisterRestaurantCommandHandler(store.Restaurants()),
		commands.NewRegisterMealCommandHandler(store.Meals()),
		logger.NewNop(),
	)
	buf := workbook(t, [][]any{
		header,
		{"downtown", "Pho 88", "Pho", "Beef noodle soup", 10, 15},
		{"downtown", "Pho 88", "Rolls", "Spring rolls", 5, 5},
		{"uptown", "Pho 88", "Pho", "Beef noodle soup", 11, 15},
		{"uptown", "Taco Town", "Taco", "", 7, 10},
	})

	report, err := importer.Import(ctx, buf)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Restaurants)
	assert.Equal(t, 3, report.Meals)
	require.Len(t, report.Errors, 1)
	assert.ErrorIs(t, report.Errors[0], errs.ErrValueIsRequired)

	downtown, err := store.Meals().ListByArea(ctx, kernel.MustNewArea("downtown"))
	require.NoError(t, err)
	assert.Len(t, downtown, 2)
}

type failingRestaurants struct{}

func (failingRestaurants) Handle(context.Context, commands.RegisterRestaurantCommand) (kernel.UUID, error) {
	return kernel.UUID{}, errs.NewPersistenceError("add restaurant", errors.New("disk full"))
}

type countingMeals struct{ calls int }

func (m *countingMeals) Handle(context.Context, commands.RegisterMealCommand) (kernel.UUID, error) {
	m.calls++
	return kernel.NewUUID(), nil
}

func TestImporter_StopsOnStoreFailure(t *testing.T) {
	meals := &countingMeals{}
	importer := menusheet.NewImporter(failingRestaurants{}, meals, logger.NewNop())

	_, err := importer.Import(t.Context(), workbook(t, [][]any{
		header,
		{"downtown", "Pho 88", "Pho", "Beef noodle soup", 10, 15},
	}))

	require.ErrorIs(t, err, errs.ErrPersistence)
	assert.Zero(t, meals.calls)
}
