package view

import "github.com/hunglv/expensive/internal/model"

// CategoryByID finds a catalog entry by id.
func CategoryByID(catalog []model.Category, id int) (model.Category, bool) {
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

// CategoryOrPlaceholder returns the catalog entry for id, or model.Uncategorized.
func CategoryOrPlaceholder(catalog []model.Category, id int) model.Category {
	if c, ok := CategoryByID(catalog, id); ok {
		return c
	}
	return model.Uncategorized
}
