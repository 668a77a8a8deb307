package kernel

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"bytebite/internal/pkg/errs"
	"bytebite/internal/pkg/guard"
)

// MaxAreaLength bounds the area name; it ends up in store keys and queue names.
const MaxAreaLength = 64

// ErrAreaIsNotConstructed is returned when validating a zero-value Area.
var ErrAreaIsNotConstructed = errs.NewValueIsRequiredError("area must be created via NewArea")

// Area is a delivery area such as "downtown". Orders, deliveries, restaurants and
// meals are partitioned by area, and every area owns one dispatch queue.
//
// Example:
//
//	area, err := kernel.NewArea(" Downtown ")
//	// area.String() == "Downtown"
type Area struct {
	name  string
	guard guard.ConstructorGuard
}

// NewArea trims the name and rejects blank, oversized or control-character names.
func NewArea(name string) (Area, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Area{}, errs.NewValueIsRequiredError("deliveryArea")
	}
	if n := utf8.RuneCountInString(trimmed); n > MaxAreaLength {
		return Area{}, errs.NewValueIsOutOfRangeError("deliveryArea length", n, 1, MaxAreaLength)
	}
	for _, r := range trimmed {
		if r < 0x20 || r == 0x7f {
			return Area{}, errs.NewValueIsInvalidErrorWithCause(
				"deliveryArea", fmt.Errorf("control character %U is not allowed", r))
		}
	}
	return Area{name: trimmed, guard: guard.NewConstructorGuard()}, nil
}

// MustNewArea is NewArea for fixtures. It panics on bad input.
func MustNewArea(name string) Area {
	a, err := NewArea(name)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Area) Validate() error {
	return a.guard.Validate(ErrAreaIsNotConstructed)
}

func (a Area) String() string {
	return a.name
}

func (a Area) IsEqual(other Area) bool {
	return a.name == other.name
}
