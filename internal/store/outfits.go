package store

import (
	"context"
	"strings"
	"time"

	"github.com/erazemk/omara/internal/apperror"
	"github.com/erazemk/omara/internal/model"
	"github.com/erazemk/omara/internal/storage"
)

// OutfitStore keeps the outfit list.
type OutfitStore struct {
	base
}

// NewOutfitStore returns an OutfitStore over kv.
func NewOutfitStore(kv *storage.Adapter, opts ...Option) *OutfitStore {
	return &OutfitStore{base: newBase(kv, opts)}
}

func (s *OutfitStore) load(ctx context.Context) []model.Outfit {
	return storage.Read(ctx, s.kv, storage.KeyOutfits, []model.Outfit{})
}

// List returns all outfits in creation order.
func (s *OutfitStore) List(ctx context.Context) ([]model.Outfit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	outfits := s.load(ctx)
	if outfits == nil {
		outfits = []model.Outfit{}
	}
	return outfits, nil
}

// Get returns an outfit by ID.
func (s *OutfitStore) Get(ctx context.Context, id string) (*model.Outfit, error) {
	outfits, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOfOutfit(outfits, id)
	if i < 0 {
		return nil, apperror.NotFound("outfit", id)
	}
	return &outfits[i], nil
}

// Create appends a new outfit.
func (s *OutfitStore) Create(ctx context.Context, in model.OutfitInput) (*model.Outfit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := model.Validate(in); err != nil {
		return nil, err
	}

	now := s.timestamp()
	outfit := model.Outfit{
		ID:        s.newID(),
		Name:      in.Name,
		Items:     append([]string{}, in.Items...),
		Occasion:  in.Occasion,
		Rating:    in.Rating,
		ImageURL:  in.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	outfits := append(s.load(ctx), outfit)
	storage.Write(ctx, s.kv, storage.KeyOutfits, outfits)

	return &outfit, nil
}

// Update merges patch into the outfit.
func (s *OutfitStore) Update(ctx context.Context, id string, patch model.OutfitPatch) (*model.Outfit, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "name is required")
		}
		patch.Name = &name
	}
	if err := model.Validate(patch); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(o *model.Outfit) {
		patch.Apply(o)
	})
}

// MarkWorn records that the outfit was worn at the given time.
func (s *OutfitStore) MarkWorn(ctx context.Context, id string, at time.Time) (*model.Outfit, error) {
	return s.mutate(ctx, id, func(o *model.Outfit) {
		o.LastWorn = at.UTC().Format(time.RFC3339)
	})
}

func (s *OutfitStore) mutate(ctx context.Context, id string, fn func(*model.Outfit)) (*model.Outfit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outfits := s.load(ctx)
	i := indexOfOutfit(outfits, id)
	if i < 0 {
		return nil, apperror.NotFound("outfit", id)
	}

	outfit := outfits[i]
	createdAt := outfit.CreatedAt
	fn(&outfit)
	outfit.ID = id
	outfit.CreatedAt = createdAt
	outfit.UpdatedAt = s.timestamp()

	outfits[i] = outfit
	storage.Write(ctx, s.kv, storage.KeyOutfits, outfits)

	return &outfit, nil
}

// Delete removes the outfit. Deleting a missing outfit is not an error.
func (s *OutfitStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	outfits := s.load(ctx)
	i := indexOfOutfit(outfits, id)
	if i < 0 {
		return nil
	}
	outfits = append(outfits[:i], outfits[i+1:]...)
	storage.Write(ctx, s.kv, storage.KeyOutfits, outfits)
	return nil
}

func indexOfOutfit(outfits []model.Outfit, id string) int {
	for i := range outfits {
		if outfits[i].ID == id {
			return i
		}
	}
	return -1
}
