package records

import (
	"context"
	"slices"

	"github.com/julianstephens/questlog/internal/models"
)

// Collection describes one named array inside the aggregate.
type Collection[T any] struct {
	Name string
	get  func(models.Aggregate) []T
	set  func(*models.Aggregate, []T)
	id   func(T) string
}

var (
	Campaigns = Collection[models.Campaign]{
		Name: "campaigns",
		get:  func(a models.Aggregate) []models.Campaign { return a.Campaigns },
		set:  func(a *models.Aggregate, v []models.Campaign) { a.Campaigns = v },
		id:   func(c models.Campaign) string { return c.ID },
	}
	Characters = Collection[models.Character]{
		Name: "characters",
		get:  func(a models.Aggregate) []models.Character { return a.Characters },
		set:  func(a *models.Aggregate, v []models.Character) { a.Characters = v },
		id:   func(c models.Character) string { return c.ID },
	}
	DiaryEntries = Collection[models.DiaryEntry]{
		Name: "diaryEntries",
		get:  func(a models.Aggregate) []models.DiaryEntry { return a.DiaryEntries },
		set:  func(a *models.Aggregate, v []models.DiaryEntry) { a.DiaryEntries = v },
		id:   func(e models.DiaryEntry) string { return e.ID },
	}
)

// GetCollection reads one collection from the persisted aggregate.
func GetCollection[T any](ctx context.Context, s *Store, c Collection[T]) []T {
	return c.get(s.GetAggregate(ctx))
}

// SaveCollection replaces one collection and writes the full aggregate back.
// The other collections are left as they were.
func SaveCollection[T any](ctx context.Context, s *Store, c Collection[T], items []T) error {
	items = slices.Clone(items)
	if items == nil {
		items = []T{}
	}
	return s.update(ctx, func(agg *models.Aggregate) error {
		c.set(agg, items)
		return nil
	})
}

func indexOf[T any](items []T, c Collection[T], id string) int {
	return slices.IndexFunc(items, func(item T) bool { return c.id(item) == id })
}
