package delivery

import (
	"fmt"

	"bytebite/internal/pkg/errs"
)

// Status is the lifecycle state of a delivery. Its String form is the value
// used on the wire and in the store.
type Status int

const (
	// Unknown catches uninitialized or unparsable values.
	Unknown Status = iota
	Pending
	Assigned
	PickedUp
	InTransit
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Assigned:  "assigned",
		PickedUp:  "picked_up",
		InTransit: "in_transit",
		Delivered: "delivered",
	}
}

// ParseStatus converts a wire value into a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("unknown status %q", s))
}

// ParseReportedStatus accepts only the statuses a driver may report:
// picked_up, in_transit and delivered.
func ParseReportedStatus(s string) (Status, error) {
	status, err := ParseStatus(s)
	if err != nil {
		return Unknown, err
	}
	if status == Pending || status == Assigned {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s cannot be reported by a driver", status),
		)
	}
	return status, nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s Status) Validate() error {
	if s <= Unknown || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no further transitions exist.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// Next returns the immediate successor of s.
func (s Status) Next() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if s.IsTerminal() {
		return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%s is terminal", s))
	}
	return s + 1, nil
}

// ValidateAdvanceTo checks that target is exactly the successor of s.
// Skips, repeats and backward moves are rejected.
func (s Status) ValidateAdvanceTo(target Status) error {
	next, err := s.Next()
	if err != nil {
		return err
	}
	if target != next {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("cannot move from %s to %s, next status is %s", s, target, next),
		)
	}
	return nil
}

// ValidateCanHaveDriver checks the status/driver consistency rule: a driver is
// present in every status except Pending.
func (s Status) ValidateCanHaveDriver(hasDriver bool) error {
	if hasDriver && s == Pending {
		return errs.NewValueIsInvalidErrorWithCause("driverEmail", fmt.Errorf("%s delivery cannot have a driver", s))
	}
	if !hasDriver && s != Pending {
		return errs.NewValueIsRequiredErrorWithCause("driverEmail", fmt.Errorf("%s delivery must have a driver", s))
	}
	return nil
}
