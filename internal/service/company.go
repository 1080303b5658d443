package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/greenmobilitypass/backend/internal/domain"
	"github.com/greenmobilitypass/backend/internal/repo"
)

// CompanyService implements business logic for company management.
type CompanyService struct {
	companies repo.CompanyRepo
}

// NewCompanyService constructs a CompanyService backed by the provided CompanyRepo.
func NewCompanyService(companies repo.CompanyRepo) *CompanyService {
	return &CompanyService{companies: companies}
}

// Create validates and persists a new company.
func (s *CompanyService) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	if err := validateCompany(company); err != nil {
		return domain.Company{}, err
	}
	result, err := s.companies.Create(ctx, company)
	if err != nil {
		return domain.Company{}, fmt.Errorf("service.CompanyService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single company by ID.
func (s *CompanyService) GetByID(ctx context.Context, id uuid.UUID) (domain.Company, error) {
	result, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return domain.Company{}, fmt.Errorf("service.CompanyService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all companies ordered by name.
// Always returns a non-nil slice so callers can safely range over it.
func (s *CompanyService) List(ctx context.Context) ([]domain.Company, error) {
	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CompanyService.List: %w", err)
	}
	if companies == nil {
		return []domain.Company{}, nil
	}
	return companies, nil
}

// Update validates and persists changes to an existing company.
func (s *CompanyService) Update(ctx context.Context, company domain.Company) (domain.Company, error) {
	if err := validateCompany(company); err != nil {
		return domain.Company{}, err
	}
	result, err := s.companies.Update(ctx, company)
	if err != nil {
		return domain.Company{}, fmt.Errorf("service.CompanyService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a company by ID. Member users keep their accounts with a
// cleared company link (ON DELETE SET NULL).
func (s *CompanyService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.companies.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.CompanyService.Delete: %w", err)
	}
	return nil
}

// validateCompany enforces business rules common to both Create and Update.
func validateCompany(c domain.Company) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(c.DomainName) == "" {
		return fmt.Errorf("%w: domain_name is required", domain.ErrValidation)
	}
	return nil
}
