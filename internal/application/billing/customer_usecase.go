package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fluxocaixa/fiscal-api/internal/application/dto"
	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	"github.com/fluxocaixa/fiscal-api/internal/domain/repository"
	pkgfiscal "github.com/fluxocaixa/fiscal-api/pkg/fiscal"
)

// CustomerUseCase CRUD de clientes/tomadores. O CPF/CNPJ é validado por
// dígito verificador e armazenado normalizado (somente dígitos); a unicidade
// do documento é por tenant.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase constrói o caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create cadastra um tomador.
func (uc *CustomerUseCase) Create(companyID string, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nome obrigatório", domain.ErrInvalidInput)
	}
	taxID := pkgfiscal.Digits(req.TaxID)
	if err := pkgfiscal.ValidateTaxID(taxID); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByCompanyAndTaxID(companyID, taxID)
	if err != nil {
		return nil, fmt.Errorf("criar cliente: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: CPF/CNPJ já cadastrado para esta empresa", domain.ErrDuplicate)
	}

	personType := entity.PersonOrganization
	if pkgfiscal.IsIndividual(taxID) {
		personType = entity.PersonIndividual
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		Name:       name,
		TaxID:      taxID,
		PersonType: personType,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, fmt.Errorf("criar cliente: %w", err)
	}
	return customerResponse(customer), nil
}

// Get devolve o cliente pelo id, restrito ao tenant.
func (uc *CustomerUseCase) Get(companyID, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("obter cliente: %w", err)
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return customerResponse(customer), nil
}

// List devolve os clientes do tenant paginados.
func (uc *CustomerUseCase) List(companyID string, page dto.PageRequest) ([]*dto.CustomerResponse, error) {
	page.DefaultPage()
	customers, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	out := make([]*dto.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerResponse(c))
	}
	return out, nil
}

func customerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:         c.ID,
		CompanyID:  c.CompanyID,
		Name:       c.Name,
		TaxID:      c.TaxID,
		PersonType: c.PersonType,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
	}
}
