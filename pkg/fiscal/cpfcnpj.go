// Package fiscal contém catálogos e validações de documentos fiscais
// brasileiros usados na emissão de NFS-e: CPF/CNPJ (dígitos verificadores,
// módulo 11) e códigos do modelo ABRASF.
package fiscal

import (
	"fmt"
	"unicode"
)

// pesos do primeiro e do segundo dígito verificador do CNPJ.
var (
	cnpjWeightsFirst  = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeightsSecond = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Digits devolve apenas os dígitos de um documento ("12.345.678/0001-95" →
// "12345678000195"). É a forma normalizada usada em chaves de lookup.
func Digits(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

// IsIndividual infere o tipo de pessoa pelo tamanho do documento:
// até 11 dígitos ⇒ CPF (pessoa física), senão CNPJ (pessoa jurídica).
func IsIndividual(taxID string) bool {
	return len(Digits(taxID)) <= 11
}

// ValidateTaxID valida CPF ou CNPJ conforme o tamanho, com ou sem máscara.
func ValidateTaxID(taxID string) error {
	digits := Digits(taxID)
	switch len(digits) {
	case 11:
		return ValidateCPF(digits)
	case 14:
		return ValidateCNPJ(digits)
	}
	return fmt.Errorf("fiscal: documento deve ter 11 (CPF) ou 14 (CNPJ) dígitos, encontrados %d", len(digits))
}

// ValidateCPF valida os dois dígitos verificadores do CPF (módulo 11).
func ValidateCPF(cpf string) error {
	digits := Digits(cpf)
	if len(digits) != 11 {
		return fmt.Errorf("fiscal: CPF deve ter 11 dígitos, encontrados %d", len(digits))
	}
	if allSame(digits) {
		return fmt.Errorf("fiscal: CPF com todos os dígitos iguais é inválido")
	}
	for _, pos := range []int{9, 10} {
		var sum int
		for i := 0; i < pos; i++ {
			sum += int(digits[i]-'0') * (pos + 1 - i)
		}
		expected := 11 - sum%11
		if expected >= 10 {
			expected = 0
		}
		if int(digits[pos]-'0') != expected {
			return fmt.Errorf("fiscal: dígito verificador do CPF inválido: esperado %d, recebido %c", expected, digits[pos])
		}
	}
	return nil
}

// ValidateCNPJ valida os dois dígitos verificadores do CNPJ (módulo 11 com
// pesos 5..2,9..2).
func ValidateCNPJ(cnpj string) error {
	digits := Digits(cnpj)
	if len(digits) != 14 {
		return fmt.Errorf("fiscal: CNPJ deve ter 14 dígitos, encontrados %d", len(digits))
	}
	if allSame(digits) {
		return fmt.Errorf("fiscal: CNPJ com todos os dígitos iguais é inválido")
	}
	check := func(weights []int, pos int) error {
		var sum int
		for i, w := range weights {
			sum += int(digits[i]-'0') * w
		}
		expected := sum % 11
		if expected < 2 {
			expected = 0
		} else {
			expected = 11 - expected
		}
		if int(digits[pos]-'0') != expected {
			return fmt.Errorf("fiscal: dígito verificador do CNPJ inválido: esperado %d, recebido %c", expected, digits[pos])
		}
		return nil
	}
	if err := check(cnpjWeightsFirst[:], 12); err != nil {
		return err
	}
	return check(cnpjWeightsSecond[:], 13)
}

func allSame(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}
