package postgres

import (
	"context"
	"fmt"

	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	"github.com/fluxocaixa/fiscal-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementação de CategoryRepository (usável com pool ou tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste uma nova categoria.
func (r *CategoryRepo) Create(category *entity.Category) error {
	query := `
		INSERT INTO categories (id, company_id, name, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		category.ID, category.CompanyID, category.Name, category.Type,
		category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByCompanyAndName obtém uma categoria por empresa e nome.
func (r *CategoryRepo) GetByCompanyAndName(companyID, name string) (*entity.Category, error) {
	query := `
		SELECT id, company_id, name, type, created_at, updated_at
		FROM categories WHERE company_id = $1 AND name = $2`
	var c entity.Category
	err := r.q.QueryRow(context.Background(), query, companyID, name).Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Type, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return &c, nil
}

// ListByCompany lista categorias da empresa.
func (r *CategoryRepo) ListByCompany(companyID string) ([]*entity.Category, error) {
	query := `
		SELECT id, company_id, name, type, created_at, updated_at
		FROM categories WHERE company_id = $1 ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Type, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
