package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/greenmobilitypass/backend/internal/domain"
)

// CompanyRepo defines the persistence operations for companies.
type CompanyRepo interface {
	// Create inserts a new company and returns the persisted record.
	Create(ctx context.Context, company domain.Company) (domain.Company, error)

	// GetByID retrieves a company by primary key.
	// Returns domain.ErrNotFound if no such company exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Company, error)

	// List returns all companies ordered by name.
	List(ctx context.Context) ([]domain.Company, error)

	// Update overwrites the mutable fields of a company.
	// Returns domain.ErrNotFound if no such company exists.
	Update(ctx context.Context, company domain.Company) (domain.Company, error)

	// Delete removes a company by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgCompanyRepo is the Postgres implementation of CompanyRepo.
type pgCompanyRepo struct {
	db db
}

// NewCompanyRepo constructs a CompanyRepo backed by the provided db connection.
func NewCompanyRepo(db db) CompanyRepo {
	return &pgCompanyRepo{db: db}
}

func (r *pgCompanyRepo) Create(ctx context.Context, company domain.Company) (domain.Company, error) {
	const q = `
		INSERT INTO companies (name, domain_name, location)
		VALUES (@name, @domain_name, @location)
		RETURNING id, name, domain_name, location`

	args := pgx.NamedArgs{
		"name":        company.Name,
		"domain_name": company.DomainName,
		"location":    company.Location,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanCompany(row)
	if err != nil {
		return domain.Company{}, fmt.Errorf("repo.CompanyRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Company, error) {
	const q = `SELECT id, name, domain_name, location FROM companies WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanCompany(row)
	if err != nil {
		return domain.Company{}, fmt.Errorf("repo.CompanyRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgCompanyRepo) List(ctx context.Context) ([]domain.Company, error) {
	const q = `SELECT id, name, domain_name, location FROM companies ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.CompanyRepo.List: %w", err)
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CompanyRepo.List: scan: %w", err)
		}
		companies = append(companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CompanyRepo.List: rows: %w", err)
	}

	return companies, nil
}

func (r *pgCompanyRepo) Update(ctx context.Context, company domain.Company) (domain.Company, error) {
	const q = `
		UPDATE companies
		SET name        = @name,
		    domain_name = @domain_name,
		    location    = @location
		WHERE id = @id
		RETURNING id, name, domain_name, location`

	args := pgx.NamedArgs{
		"id":          company.ID,
		"name":        company.Name,
		"domain_name": company.DomainName,
		"location":    company.Location,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanCompany(row)
	if err != nil {
		return domain.Company{}, fmt.Errorf("repo.CompanyRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgCompanyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM companies WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.CompanyRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CompanyRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanCompany maps a single database row into a domain.Company.
func scanCompany(s scanner) (domain.Company, error) {
	var (
		c  domain.Company
		id pgtype.UUID
	)

	err := s.Scan(&id, &c.Name, &c.DomainName, &c.Location)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Company{}, domain.ErrNotFound
		}
		return domain.Company{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	return c, nil
}
