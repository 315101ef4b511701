package service

import (
	"context"
	"errors"

	"fitcoach/coaching-api/internal/domain"
	"fitcoach/coaching-api/internal/policy"
	"fitcoach/coaching-api/internal/repository"
)

// --- Error Definitions ---
var (
	ErrTaxonomyNotFound  = errors.New("taxonomy item not found")
	ErrTaxonomyNameTaken = errors.New("taxonomy item with this name already exists")
	ErrUnknownTaxonomy   = errors.New("unknown taxonomy kind")
)

// TaxonomyInput carries the writable fields of a classification row.
type TaxonomyInput struct {
	Name          string
	Displacement  bool
	MetabolicType string
}

// TaxonomyService manages the six exercise classification tables
// through one interface, selected by kind.
type TaxonomyService interface {
	Create(ctx context.Context, actor policy.Actor, kind domain.TaxonomyKind, input TaxonomyInput) (*domain.TaxonomyItem, error)
	Get(ctx context.Context, kind domain.TaxonomyKind, id string) (*domain.TaxonomyItem, error)
	List(ctx context.Context, kind domain.TaxonomyKind, skip, limit int) ([]domain.TaxonomyItem, int64, error)
	Update(ctx context.Context, actor policy.Actor, kind domain.TaxonomyKind, id string, input TaxonomyInput) (*domain.TaxonomyItem, error)
	Delete(ctx context.Context, actor policy.Actor, kind domain.TaxonomyKind, id string) error
}

type taxonomyService struct {
	repos map[domain.TaxonomyKind]repository.TaxonomyRepository
}

// NewTaxonomyService creates a new instance of taxonomyService bound
// to one repository per classification table.
func NewTaxonomyService(repos map[domain.TaxonomyKind]repository.TaxonomyRepository) TaxonomyService {
	return &taxonomyService{repos: repos}
}

func (s *taxonomyService) repo(kind domain.TaxonomyKind) (repository.TaxonomyRepository, error) {
	repo, ok := s.repos[kind]
	if !ok {
		return nil, ErrUnknownTaxonomy
	}
	return repo, nil
}

func (s *taxonomyService) Create(ctx context.Context, actor policy.Actor, kind domain.TaxonomyKind, input TaxonomyInput) (*domain.TaxonomyItem, error) {
	if !policy.CanMutateTaxonomy(actor) {
		return nil, ErrPermissionDenied
	}
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, ErrValidationFailed
	}

	item := &domain.TaxonomyItem{
		Name:          input.Name,
		Displacement:  input.Displacement,
		MetabolicType: input.MetabolicType,
	}
	id, err := repo.Create(ctx, item)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrTaxonomyNameTaken
		}
		return nil, err
	}
	item.ID = id
	return item, nil
}

func (s *taxonomyService) Get(ctx context.Context, kind domain.TaxonomyKind, id string) (*domain.TaxonomyItem, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	item, err := repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaxonomyNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *taxonomyService) List(ctx context.Context, kind domain.TaxonomyKind, skip, limit int) ([]domain.TaxonomyItem, int64, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.List(ctx, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *taxonomyService) Update(ctx context.Context, actor policy.Actor, kind domain.TaxonomyKind, id string, input TaxonomyInput) (*domain.TaxonomyItem, error) {
	if !policy.CanMutateTaxonomy(actor) {
		return nil, ErrPermissionDenied
	}
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	item, err := repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaxonomyNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		item.Name = input.Name
	}
	item.Displacement = input.Displacement
	item.MetabolicType = input.MetabolicType

	if err := repo.Update(ctx, item); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrTaxonomyNameTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTaxonomyNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *taxonomyService) Delete(ctx context.Context, actor policy.Actor, kind domain.TaxonomyKind, id string) error {
	if !policy.CanMutateTaxonomy(actor) {
		return ErrPermissionDenied
	}
	repo, err := s.repo(kind)
	if err != nil {
		return err
	}
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaxonomyNotFound
		}
		return err
	}
	return nil
}
