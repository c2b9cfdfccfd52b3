package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/fluxocaixa/fiscal-api/internal/application/dto"
	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	"github.com/fluxocaixa/fiscal-api/internal/domain/repository"
	"github.com/fluxocaixa/fiscal-api/pkg/fiscal"
)

// CompanyUseCase regras de negócio de empresas (tenants).
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase constrói o caso de uso com o porto de persistência.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Create cria uma nova empresa. Valida o CNPJ (dígitos verificadores) e gera
// ID e status inicial. Devolve domain.ErrDuplicate se o CNPJ já existe.
func (uc *CompanyUseCase) Create(in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	cnpj := fiscal.Digits(in.CNPJ)
	if err := fiscal.ValidateCNPJ(cnpj); err != nil {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		CNPJ:      cnpj,
		Address:   in.Address,
		City:      in.City,
		Phone:     in.Phone,
		Email:     in.Email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(company); err != nil {
		return nil, err
	}
	return companyResponse(company), nil
}

// GetByID obtém uma empresa por ID. nil, nil quando não existe.
func (uc *CompanyUseCase) GetByID(id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, nil
	}
	return companyResponse(company), nil
}

// List lista empresas com paginação.
func (uc *CompanyUseCase) List(page dto.PageRequest) ([]*dto.CompanyResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, companyResponse(c))
	}
	return items, nil
}

func companyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:      c.ID,
		Name:    c.Name,
		CNPJ:    c.CNPJ,
		Address: c.Address,
		City:    c.City,
		Status:  c.Status,
	}
}
