package services

import (
	"context"

	"bizbook/internal/domain"
	"bizbook/internal/validate"
)

const (
	maxName        = 100
	maxDescription = 2000
	maxShort       = 200
)

type CatalogService struct {
	Store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{Store: store}
}

func (s *CatalogService) BusinessDetails(ctx context.Context) (domain.BusinessDetails, error) {
	return s.Store.BusinessDetails(ctx)
}

// UpdateBusinessDetails applies the supplied fields and returns the new row.
func (s *CatalogService) UpdateBusinessDetails(ctx context.Context, p domain.BusinessPatch) (domain.BusinessDetails, error) {
	if p.Name != nil {
		v, ok := validate.Text(*p.Name, maxName)
		if !ok {
			return domain.BusinessDetails{}, domain.Invalid("name", "must be 1-100 characters")
		}
		p.Name = &v
	}
	if err := optionalText(&p.Description, "description", maxDescription); err != nil {
		return domain.BusinessDetails{}, err
	}
	if err := optionalText(&p.Address, "address", maxShort); err != nil {
		return domain.BusinessDetails{}, err
	}
	if err := optionalText(&p.Phone, "phone", maxShort); err != nil {
		return domain.BusinessDetails{}, err
	}
	if p.Email != nil && *p.Email != "" {
		v, ok := validate.Email(*p.Email)
		if !ok {
			return domain.BusinessDetails{}, domain.Invalid("email", "is not a valid address")
		}
		p.Email = &v
	}
	if err := s.Store.UpdateBusinessDetails(ctx, p); err != nil {
		return domain.BusinessDetails{}, err
	}
	return s.Store.BusinessDetails(ctx)
}

func (s *CatalogService) ListServices(ctx context.Context, activeOnly bool) ([]domain.Service, error) {
	return s.Store.ListServices(ctx, activeOnly)
}

func (s *CatalogService) GetService(ctx context.Context, id int64) (domain.Service, error) {
	return s.Store.GetService(ctx, id)
}

func (s *CatalogService) CreateService(ctx context.Context, in domain.NewService) (domain.Service, error) {
	name, ok := validate.Text(in.Name, maxName)
	if !ok {
		return domain.Service{}, domain.Invalid("name", "is required")
	}
	in.Name = name
	if in.Price == nil {
		return domain.Service{}, domain.Invalid("price", "is required")
	}
	if in.Duration == nil {
		return domain.Service{}, domain.Invalid("duration", "is required")
	}
	if err := checkPriceDuration(in.Price, in.Duration); err != nil {
		return domain.Service{}, err
	}
	desc, ok := validate.Optional(in.Description, maxDescription)
	if !ok {
		return domain.Service{}, domain.Invalid("description", "is too long")
	}
	in.Description = desc
	return s.Store.CreateService(ctx, in)
}

// UpdateService applies the patch and returns the updated service.
func (s *CatalogService) UpdateService(ctx context.Context, id int64, p domain.ServicePatch) (domain.Service, error) {
	if p.Name != nil {
		v, ok := validate.Text(*p.Name, maxName)
		if !ok {
			return domain.Service{}, domain.Invalid("name", "must be 1-100 characters")
		}
		p.Name = &v
	}
	if err := optionalText(&p.Description, "description", maxDescription); err != nil {
		return domain.Service{}, err
	}
	if err := checkPriceDuration(p.Price, p.Duration); err != nil {
		return domain.Service{}, err
	}
	if err := s.Store.UpdateService(ctx, id, p); err != nil {
		return domain.Service{}, err
	}
	return s.Store.GetService(ctx, id)
}

func (s *CatalogService) DeleteService(ctx context.Context, id int64) error {
	return s.Store.DeleteService(ctx, id)
}

func checkPriceDuration(price *float64, duration *int) error {
	if price != nil && *price < 0 {
		return domain.Invalid("price", "must not be negative")
	}
	if duration != nil && *duration <= 0 {
		return domain.Invalid("duration", "must be a positive number of minutes")
	}
	return nil
}

// optionalText trims a patch field in place; nil stays nil.
func optionalText(p **string, field string, max int) error {
	if *p == nil {
		return nil
	}
	v, ok := validate.Optional(**p, max)
	if !ok {
		return domain.Invalid(field, "is too long")
	}
	*p = &v
	return nil
}
