package usecase

import (
	"context"

	"github.com/fluxocaixa/fiscal-api/internal/application/dto"
	"github.com/fluxocaixa/fiscal-api/internal/domain"
	"github.com/fluxocaixa/fiscal-api/internal/domain/entity"
	"github.com/fluxocaixa/fiscal-api/internal/domain/repository"
)

// ServiceCodeUseCase consulta da tabela de códigos de serviço (LC 116/2003).
// Tabela somente leitura, populada pelo seed; compartilhada entre tenants.
type ServiceCodeUseCase struct {
	repo repository.ServiceCodeRepository
}

// NewServiceCodeUseCase constrói o caso de uso.
func NewServiceCodeUseCase(repo repository.ServiceCodeRepository) *ServiceCodeUseCase {
	return &ServiceCodeUseCase{repo: repo}
}

// Get obtém um código de serviço pelo código (ex.: "01.07").
func (uc *ServiceCodeUseCase) Get(ctx context.Context, code string) (*dto.ServiceCodeResponse, error) {
	if code == "" {
		return nil, domain.ErrInvalidInput
	}
	sc, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, domain.ErrNotFound
	}
	return serviceCodeResponse(sc), nil
}

// List lista os códigos de serviço em ordem de código.
func (uc *ServiceCodeUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.ServiceCodeResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.ServiceCodeResponse, 0, len(list))
	for _, sc := range list {
		items = append(items, serviceCodeResponse(sc))
	}
	return items, nil
}

func serviceCodeResponse(sc *entity.ServiceCode) *dto.ServiceCodeResponse {
	return &dto.ServiceCodeResponse{
		Code:        sc.Code,
		CNAE:        sc.CNAE,
		Description: sc.Description,
		DefaultRate: sc.DefaultRate,
	}
}
