package entity

import (
	"github.com/shopspring/decimal"
)

// ServiceCode é a tabela de referência da LC 116/2003: mapeia o código do
// serviço para o CNAE correspondente e a alíquota padrão de ISS.
// Dados imutáveis: consultados, nunca alterados por este subsistema.
type ServiceCode struct {
	Code        string // ex.: "01.07"
	CNAE        string // ex.: "6209-1/00"
	Description string
	DefaultRate decimal.Decimal // alíquota padrão de ISS (percentual)
}
