// Package menusheet imports restaurant menus from an xlsx workbook.
//
// The workbook has a sheet named "Meals" whose first row is a header with
// the columns Area, Restaurant, Dish, Description, Price and PrepTime in any
// order. Every following non-empty row is one meal.
package menusheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"bytebite/internal/pkg/errs"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Meals"

var columns = []string{"area", "restaurant", "dish", "description", "price", "preptime"}

// Row is one meal line of the workbook. Line is the 1-based spreadsheet row.
type Row struct {
	Line            int
	Area            string
	RestaurantName  string
	DishName        string
	Description     string
	Price           float64
	PrepTimeMinutes int
}

// RowError reports a line that could not be read or imported.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// Parse reads every meal row of the workbook. Rows with unreadable numbers
// are returned as RowErrors next to the rows that parsed.
func Parse(r io.Reader) ([]Row, []error, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", SheetName, err)
	}
	if len(rows) == 0 {
		return nil, nil, errs.NewValueIsRequiredError("header row")
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, nil, err
	}

	var (
		parsed  []Row
		rowErrs []error
	)
	for i, cells := range rows[1:] {
		line := i + 2
		if blank(cells) {
			continue
		}
		row, err := parseRow(line, cells, index)
		if err != nil {
			rowErrs = append(rowErrs, &RowError{Line: line, Err: err})
			continue
		}
		parsed = append(parsed, row)
	}
	return parsed, rowErrs, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(columns))
	for i, name := range header {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))
		index[key] = i
	}

	var missing []error
	for _, c := range columns {
		if _, ok := index[c]; !ok {
			missing = append(missing, errs.NewValueIsRequiredError("column "+c))
		}
	}
	return index, errors.Join(missing...)
}

func parseRow(line int, cells []string, index map[string]int) (Row, error) {
	cell := func(name string) string {
		i := index[name]
		if i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	price, priceErr := cast.ToFloat64E(cell("price"))
	if priceErr != nil {
		priceErr = errs.NewValueIsInvalidErrorWithCause("price", priceErr)
	}
	prep, prepErr := cast.ToIntE(cell("preptime"))
	if prepErr != nil {
		prepErr = errs.NewValueIsInvalidErrorWithCause("prepTime", prepErr)
	}
	if err := errors.Join(priceErr, prepErr); err != nil {
		return Row{}, err
	}

	return Row{
		Line:            line,
		Area:            cell("area"),
		RestaurantName:  cell("restaurant"),
		DishName:        cell("dish"),
		Description:     cell("description"),
		Price:           price,
		PrepTimeMinutes: prep,
	}, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
