// Package invoice define a máquina de estados da nota fiscal de serviço
// (NFS-e) vinculada a um lançamento financeiro.
//
// Ciclo de vida:
//
//	none ──► pending ──► processing ──► issued ──► cancelled
//	                          │
//	                          └──────► rejected ──► (novo ciclo pending → processing)
//
// Nenhuma transição pula "processing"; "cancelled" só é alcançável a partir
// de "issued"; "rejected" permite reemissão em um ciclo novo.
package invoice

import (
	"fmt"

	"github.com/fluxocaixa/fiscal-api/internal/domain"
)

// Status é o conjunto fechado de estados da NFS-e. Qualquer valor fora das
// constantes abaixo é inválido; use Parse para converter entrada externa.
type Status string

const (
	StatusNone       Status = "none"       // lançamento sem nota
	StatusPending    Status = "pending"    // elegível, ainda não enviada
	StatusProcessing Status = "processing" // enviada ao gateway, aguardando veredito
	StatusIssued     Status = "issued"     // autorizada pela prefeitura, tem número
	StatusRejected   Status = "rejected"   // rejeitada pelo gateway, reemissão permitida
	StatusCancelled  Status = "cancelled"  // cancelada; terminal e irreversível
)

// MinCancelJustification é o tamanho mínimo (em caracteres) exigido pela
// prefeitura para a justificativa de cancelamento.
const MinCancelJustification = 15

// Parse valida uma string vinda de fora (DB, HTTP) e a converte em Status.
// String vazia é tratada como StatusNone (lançamento criado antes do módulo fiscal).
func Parse(s string) (Status, error) {
	switch Status(s) {
	case StatusNone, StatusPending, StatusProcessing, StatusIssued, StatusRejected, StatusCancelled:
		return Status(s), nil
	case "":
		return StatusNone, nil
	}
	return "", fmt.Errorf("%w: status desconhecido %q", domain.ErrInvalidInput, s)
}

// Terminal informa se o status encerra um ciclo de emissão.
// "rejected" é terminal para o ciclo corrente, mas o lançamento continua
// elegível para um ciclo novo (ver BeginIssuance).
func (s Status) Terminal() bool {
	return s == StatusIssued || s == StatusRejected || s == StatusCancelled
}

// InFlight informa se há uma emissão em andamento (aguardando o gateway).
func (s Status) InFlight() bool { return s == StatusProcessing }

// BeginIssuance valida a transição para "processing". Permitida apenas a
// partir de none, pending ou rejected — garante no máximo uma emissão ativa
// por lançamento.
func BeginIssuance(current Status) error {
	switch current {
	case StatusNone, StatusPending, StatusRejected:
		return nil
	case StatusProcessing:
		return fmt.Errorf("%w: já existe uma emissão em andamento", domain.ErrInvalidTransition)
	case StatusIssued:
		return fmt.Errorf("%w: o lançamento já possui nota emitida", domain.ErrInvalidTransition)
	case StatusCancelled:
		return fmt.Errorf("%w: nota cancelada não pode ser reemitida no mesmo ciclo", domain.ErrInvalidTransition)
	}
	return fmt.Errorf("%w: status atual %q", domain.ErrInvalidTransition, current)
}

// Confirm valida a transição processing → issued. Exige o número definitivo
// devolvido pelo gateway; nunca se confirma sem número.
func Confirm(current Status, number string) error {
	if current != StatusProcessing {
		return fmt.Errorf("%w: confirmar exige status processing, atual %q", domain.ErrInvalidTransition, current)
	}
	if number == "" {
		return fmt.Errorf("%w: emissão confirmada sem número de nota", domain.ErrInvalidInput)
	}
	return nil
}

// Reject valida a transição processing → rejected. Exige o motivo reportado
// pelo gateway para que o operador consiga corrigir a entrada.
func Reject(current Status, reason string) error {
	if current != StatusProcessing {
		return fmt.Errorf("%w: rejeitar exige status processing, atual %q", domain.ErrInvalidTransition, current)
	}
	if reason == "" {
		return fmt.Errorf("%w: rejeição sem motivo do gateway", domain.ErrInvalidInput)
	}
	return nil
}

// Cancel valida a transição issued → cancelled. A justificativa é checada
// aqui, antes de qualquer chamada externa (fail fast).
func Cancel(current Status, justification string) error {
	if len([]rune(justification)) < MinCancelJustification {
		return domain.ErrJustificationTooShort
	}
	if current != StatusIssued {
		return fmt.Errorf("%w: cancelar exige status issued, atual %q", domain.ErrInvalidTransition, current)
	}
	return nil
}
