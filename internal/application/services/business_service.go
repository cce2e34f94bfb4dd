package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bizlink/directory-backend/internal/domain/entities"
	"github.com/bizlink/directory-backend/internal/domain/repositories"
	"github.com/bizlink/directory-backend/internal/validation"
	apperrors "github.com/bizlink/directory-backend/pkg/errors"
)

// BusinessService orchestrates listing CRUD on top of the repository,
// stamping ownership and audit fields from the authenticated identity.
type BusinessService struct {
	repo repositories.BusinessRepository
}

func NewBusinessService(repo repositories.BusinessRepository) *BusinessService {
	return &BusinessService{repo: repo}
}

// Create validates the listing, assigns a fresh ID and ownership fields,
// and persists it.
func (s *BusinessService) Create(ctx context.Context, business *entities.Business, identity entities.UserIdentity) (*entities.Business, error) {
	if errs := validation.ValidateBusiness(business); len(errs) > 0 {
		return nil, apperrors.NewValidationError(errs[0].Error())
	}

	business.ID = uuid.NewString()
	business.UserID = identity.UID
	business.CreatedBy = identity.Username()
	business.UpdatedBy = identity.Username()

	if err := s.repo.Create(ctx, business); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("business_id", business.ID).
		Str("created_by", business.CreatedBy).
		Msg("business created")

	return business, nil
}

func (s *BusinessService) GetByID(ctx context.Context, id string) (*entities.Business, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("business id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *BusinessService) GetAll(ctx context.Context) ([]*entities.Business, error) {
	return s.repo.GetAll(ctx)
}

func (s *BusinessService) GetRecent(ctx context.Context, limit int) ([]*entities.Business, error) {
	return s.repo.GetRecent(ctx, limit)
}

// Update applies the incoming fields to the stored listing. The write is
// skipped entirely when nothing actually changed, so audit fields only move
// on real edits. Ownership fields on the incoming payload are ignored.
func (s *BusinessService) Update(ctx context.Context, id string, incoming *entities.Business, identity entities.UserIdentity) (*entities.Business, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Name = incoming.Name
	updated.Brief = incoming.Brief
	updated.Description = incoming.Description
	updated.ProfilePhoto = incoming.ProfilePhoto
	updated.Categories = incoming.Categories
	updated.Addresses = incoming.Addresses

	if errs := validation.ValidateBusiness(&updated); len(errs) > 0 {
		return nil, apperrors.NewValidationError(errs[0].Error())
	}

	if businessesEqual(current, &updated) {
		return current, nil
	}

	updated.UpdatedBy = identity.Username()

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("business_id", id).
		Str("updated_by", updated.UpdatedBy).
		Msg("business updated")

	return &updated, nil
}

func (s *BusinessService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.NewValidationError("business id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	log.Ctx(ctx).Info().Str("business_id", id).Msg("business deleted")
	return nil
}

// businessesEqual compares the editable payloads of two listings, ignoring
// timestamps and audit fields.
func businessesEqual(a, b *entities.Business) bool {
	return marshalPayload(a) == marshalPayload(b)
}

func marshalPayload(b *entities.Business) string {
	payload := struct {
		Name         string             `json:"name"`
		Brief        string             `json:"brief"`
		Description  string             `json:"description"`
		ProfilePhoto string             `json:"profilePhoto"`
		Categories   []string           `json:"categories"`
		Addresses    []entities.Address `json:"addresses"`
	}{
		Name:         b.Name,
		Brief:        b.Brief,
		Description:  b.Description,
		ProfilePhoto: b.ProfilePhoto,
		Categories:   b.Categories,
		Addresses:    b.Addresses,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(raw)
}
