package domain

import (
	"github.com/google/uuid"

	"github.com/ghuser/pantry/pkg/kernel"
)

// ItemKind tags item errors: codes start with "item.".
var ItemKind = kernel.Kind{Name: "Item", Code: "item"}

// ItemIDAlreadyExists reports an item whose id is already in the catalog.
// It is a unique violation, not a duplicate name.
func ItemIDAlreadyExists(id uuid.UUID) *kernel.Error {
	return kernel.IDAlreadyExists(id, ItemKind)
}
