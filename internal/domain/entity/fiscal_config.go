package entity

import (
	"time"

	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
)

// PlaceholderCredential marca credenciais criadas de forma preguiçosa na
// primeira troca de ambiente; emissão real falha enquanto não forem
// substituídas pelas credenciais do gateway.
const PlaceholderCredential = "PENDENTE_CONFIGURACAO"

// FiscalConfig guarda as credenciais do gateway fiscal e o ambiente corrente
// do tenant. Uma linha por empresa (singleton por company_id); criada na
// primeira troca de ambiente e atualizada a cada troca posterior.
type FiscalConfig struct {
	ID                    string
	CompanyID             string
	Environment           invoice.Environment
	GatewayToken          string // token da API do intermediário fiscal
	MunicipalRegistration string // inscrição municipal do prestador
	RPSSeries             string // série do RPS usada na emissão
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// CredentialsComplete informa se a configuração já saiu do estado placeholder.
func (c *FiscalConfig) CredentialsComplete() bool {
	return c.GatewayToken != "" && c.GatewayToken != PlaceholderCredential &&
		c.MunicipalRegistration != "" && c.MunicipalRegistration != PlaceholderCredential
}
