package services

import (
	"github.com/ghuser/pantry/pkg/kernel"
	itemdomain "github.com/ghuser/pantry/services/item/domain"
	"github.com/ghuser/pantry/services/item/domain/models"
)

// AddToCatalog appends newItem to all after checking it against every
// existing item, archived ones included. The input slice is not modified.
func AddToCatalog(newItem *models.Item, all []*models.Item) ([]*models.Item, error) {
	if newItem == nil {
		return nil, kernel.ValueRequired("newItem")
	}
	if all == nil {
		return nil, kernel.ValueRequired("allItems")
	}

	entries := make([]kernel.Entry, 0, len(all))
	for _, existing := range all {
		if existing.ID() == newItem.ID() {
			return nil, itemdomain.ItemIDAlreadyExists(newItem.ID())
		}
		entries = append(entries, existing.Entry())
	}
	if kernel.ContainsDuplicate(entries, newItem.Entry(), kernel.SameNameAndTypeName) {
		return nil, kernel.UniqueViolation(itemdomain.ItemKind, newItem.Name(), newItem.MeasureType())
	}

	out := make([]*models.Item, len(all), len(all)+1)
	copy(out, all)
	return append(out, newItem), nil
}
