package domain

import "github.com/ghuser/pantry/pkg/kernel"

// Kinds tag product context errors: codes start with "product." or "measure.".
var (
	ProductKind = kernel.Kind{Name: "Product", Code: "product"}
	MeasureKind = kernel.Kind{Name: "Measure", Code: "measure"}
)
