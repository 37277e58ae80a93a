package records

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/julianstephens/questlog/internal/models"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// Confirmer asks the user before a destructive operation.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) (bool, error)

func (f ConfirmFunc) Confirm(prompt string) (bool, error) { return f(prompt) }

// AlwaysConfirm approves every prompt, for --yes.
var AlwaysConfirm = ConfirmFunc(func(string) (bool, error) { return true, nil })

func upsert[T any](ctx context.Context, s *Store, c Collection[T], item T) error {
	return s.update(ctx, func(agg *models.Aggregate) error {
		items := slices.Clone(c.get(*agg))
		if i := indexOf(items, c, c.id(item)); i >= 0 {
			items[i] = item
		} else {
			items = append(items, item)
		}
		c.set(agg, items)
		return nil
	})
}

func find[T any](ctx context.Context, s *Store, c Collection[T], id string) (T, error) {
	items := GetCollection(ctx, s, c)
	if i := indexOf(items, c, id); i >= 0 {
		return items[i], nil
	}
	var zero T
	return zero, fmt.Errorf("%s %q: %w", c.Name, id, ErrNotFound)
}

// remove deletes one record after confirmation. A declined prompt leaves the
// aggregate untouched.
func remove[T any](ctx context.Context, s *Store, c Collection[T], id string, confirm Confirmer, prompt string) (bool, error) {
	ok, err := confirm.Confirm(prompt)
	if err != nil || !ok {
		return false, err
	}

	err = s.update(ctx, func(agg *models.Aggregate) error {
		items := c.get(*agg)
		i := indexOf(items, c, id)
		if i < 0 {
			return fmt.Errorf("%s %q: %w", c.Name, id, ErrNotFound)
		}
		c.set(agg, slices.Delete(slices.Clone(items), i, i+1))
		return nil
	})
	return err == nil, err
}

// UpsertCampaign replaces the campaign with the same id or appends it.
func (s *Store) UpsertCampaign(ctx context.Context, c models.Campaign) error {
	return upsert(ctx, s, Campaigns, c)
}

func (s *Store) UpsertCharacter(ctx context.Context, c models.Character) error {
	return upsert(ctx, s, Characters, c)
}

func (s *Store) UpsertDiaryEntry(ctx context.Context, e models.DiaryEntry) error {
	return upsert(ctx, s, DiaryEntries, e)
}

func (s *Store) FindCampaign(ctx context.Context, id string) (models.Campaign, error) {
	return find(ctx, s, Campaigns, id)
}

func (s *Store) FindCharacter(ctx context.Context, id string) (models.Character, error) {
	return find(ctx, s, Characters, id)
}

func (s *Store) FindDiaryEntry(ctx context.Context, id string) (models.DiaryEntry, error) {
	return find(ctx, s, DiaryEntries, id)
}

// DeleteCampaign removes a campaign. Characters and diary entries that
// reference it keep their references.
func (s *Store) DeleteCampaign(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	c, err := s.FindCampaign(ctx, id)
	if err != nil {
		return false, err
	}
	return remove(ctx, s, Campaigns, id, confirm, fmt.Sprintf("Delete campaign %q?", c.Name))
}

func (s *Store) DeleteCharacter(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	c, err := s.FindCharacter(ctx, id)
	if err != nil {
		return false, err
	}
	return remove(ctx, s, Characters, id, confirm, fmt.Sprintf("Delete character %q?", c.Name))
}

// JoinCampaign adds campaignID to the character's memberships.
func (s *Store) JoinCampaign(ctx context.Context, characterID, campaignID string) error {
	return s.setMembership(ctx, characterID, campaignID, true)
}

// LeaveCampaign removes campaignID from the character's memberships.
func (s *Store) LeaveCampaign(ctx context.Context, characterID, campaignID string) error {
	return s.setMembership(ctx, characterID, campaignID, false)
}

func (s *Store) setMembership(ctx context.Context, characterID, campaignID string, member bool) error {
	return s.update(ctx, func(agg *models.Aggregate) error {
		i := indexOf(agg.Characters, Characters, characterID)
		if i < 0 {
			return fmt.Errorf("characters %q: %w", characterID, ErrNotFound)
		}
		chars := slices.Clone(agg.Characters)
		if chars[i].InCampaign(campaignID) != member {
			chars[i].ToggleCampaign(campaignID)
		}
		agg.Characters = chars
		return nil
	})
}
