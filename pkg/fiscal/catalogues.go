package fiscal

// Natureza da Operação (modelo ABRASF v2.x, campo NaturezaOperacao).
const (
	NatureTaxedInCity       = "1" // Tributação no município
	NatureTaxedOutsideCity  = "2" // Tributação fora do município
	NatureExempt            = "3" // Isenção
	NatureImmune            = "4" // Imune
	NatureSuspendedJudicial = "5" // Exigibilidade suspensa por decisão judicial
	NatureSuspendedAdmin    = "6" // Exigibilidade suspensa por procedimento administrativo
)
