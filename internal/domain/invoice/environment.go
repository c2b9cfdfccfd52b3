package invoice

import (
	"fmt"
	"strings"

	"github.com/fluxocaixa/fiscal-api/internal/domain"
)

// Environment identifica o ambiente do gateway fiscal sob o qual a nota foi
// (ou será) emitida. O valor é carimbado na nota no início da emissão e nunca
// muda retroativamente — trocar o ambiente do tenant não promove notas de
// homologação a notas reais.
type Environment string

const (
	EnvSandbox    Environment = "SANDBOX"    // homologação: sem efeito legal
	EnvProduction Environment = "PRODUCTION" // produção: documento fiscal real
)

// ParseEnvironment valida entrada externa (aceita caixa baixa).
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(strings.ToUpper(strings.TrimSpace(s))) {
	case EnvSandbox:
		return EnvSandbox, nil
	case EnvProduction:
		return EnvProduction, nil
	}
	return "", fmt.Errorf("%w: ambiente desconhecido %q (usar SANDBOX ou PRODUCTION)", domain.ErrInvalidInput, s)
}
