package queries

import (
	"errors"

	"bytebite/internal/core/domain/model/kernel"
	"bytebite/internal/pkg/guard"
)

var ErrGetMealsByAreaQueryIsNotConstructed = errors.New(
	"GetMealsByAreaQuery must be created via NewGetMealsByAreaQuery constructor",
)

type GetMealsByAreaQuery struct {
	area kernel.Area

	guard guard.ConstructorGuard
}

func NewGetMealsByAreaQuery(area string) (GetMealsByAreaQuery, error) {
	a, err := kernel.NewArea(area)
	if err != nil {
		return GetMealsByAreaQuery{}, err
	}
	return GetMealsByAreaQuery{area: a, guard: guard.NewConstructorGuard()}, nil
}

func (q GetMealsByAreaQuery) Validate() error {
	return q.guard.Validate(ErrGetMealsByAreaQueryIsNotConstructed)
}

func (q GetMealsByAreaQuery) Area() kernel.Area {
	return q.area
}
