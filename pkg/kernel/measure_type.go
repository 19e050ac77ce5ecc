package kernel

import (
	"fmt"
	"strings"
)

// MeasureType is how an entry is measured. The set is closed: Weight and
// Liquid are the only members, and the zero value means "not set".
type MeasureType struct {
	id   int
	name string
}

var (
	// Weight entries are measured by mass.
	Weight = MeasureType{id: 1, name: "weight"}
	// Liquid entries are measured by volume.
	Liquid = MeasureType{id: 2, name: "liquid"}
)

// MeasureTypes returns every member in declaration order.
func MeasureTypes() []MeasureType {
	return []MeasureType{Weight, Liquid}
}

// MeasureTypeFromID resolves a member by its exact id.
func MeasureTypeFromID(id int) (MeasureType, error) {
	for _, mt := range MeasureTypes() {
		if mt.id == id {
			return mt, nil
		}
	}
	return MeasureType{}, unknownMeasureType()
}

// MeasureTypeFromName resolves a member by name, ignoring case.
func MeasureTypeFromName(name string) (MeasureType, error) {
	for _, mt := range MeasureTypes() {
		if strings.EqualFold(mt.name, name) {
			return mt, nil
		}
	}
	return MeasureType{}, unknownMeasureType()
}

func unknownMeasureType() *Error {
	names := make([]string, 0, 2)
	for _, mt := range MeasureTypes() {
		names = append(names, mt.name)
	}
	return NewError(ErrUnknownMeasureType, "unknown.measure.type",
		fmt.Sprintf("Possible values for MeasureType: %s", strings.Join(names, ",")))
}

// ID returns the stable integer identity (the measure_types primary key).
func (m MeasureType) ID() int { return m.id }

// Name returns the lowercase name.
func (m MeasureType) Name() string { return m.name }

// IsZero reports whether m is unset.
func (m MeasureType) IsZero() bool { return m.id == 0 }

// Equal compares by id.
func (m MeasureType) Equal(other MeasureType) bool { return m.id == other.id }

func (m MeasureType) String() string { return m.name }
