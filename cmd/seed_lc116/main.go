// seed_lc116 gera o script SQL que popula a tabela service_codes a partir do
// CSV da lista de serviços da LC 116/2003 (exportado do site da prefeitura,
// codificação ISO-8859-1, separador ';').
//
// Formato esperado por linha: codigo;cnae;descricao;aliquota_padrao
//
// Uso: go run ./cmd/seed_lc116 [caminho/lc116.csv]
// Por padrão procura lc116.csv no diretório atual.
// Escreve: internal/infrastructure/postgres/migrations/002_seed_service_codes.sql
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type serviceItem struct {
	code        string
	cnae        string
	description string
	defaultRate decimal.Decimal
}

func main() {
	csvPath := "lc116.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// Arquivos das prefeituras vêm em ISO-8859-1; decodificar para UTF-8.
	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = 4

	records, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ler CSV: %v\n", err)
		os.Exit(1)
	}

	seen := make(map[string]bool)
	var items []serviceItem
	for _, rec := range records {
		code := strings.TrimSpace(rec[0])
		desc := strings.TrimSpace(rec[2])
		if code == "" || desc == "" || strings.EqualFold(code, "codigo") {
			continue // linha vazia ou cabeçalho
		}
		if seen[code] {
			continue
		}
		rate, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[3]), ",", "."))
		if err != nil || rate.IsNegative() {
			fmt.Fprintf(os.Stderr, "alíquota inválida no código %s: %q\n", code, rec[3])
			os.Exit(1)
		}
		seen[code] = true
		items = append(items, serviceItem{
			code:        code,
			cnae:        strings.TrimSpace(rec[1]),
			description: desc,
			defaultRate: rate,
		})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].code < items[j].code })

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_service_codes.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "criar arquivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Lista de serviços da LC 116/2003 com CNAE e alíquota padrão de ISS\n")
	out.WriteString("-- Gerado por cmd/seed_lc116 a partir do CSV oficial\n\n")
	out.WriteString("INSERT INTO service_codes (code, cnae, description, default_rate) VALUES\n")
	for i, it := range items {
		sep := ","
		if i == len(items)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  ('%s', '%s', '%s', %s)%s\n",
			escapeSQL(it.code), escapeSQL(it.cnae), escapeSQL(it.description),
			it.defaultRate.StringFixed(2), sep)
	}
	out.WriteString("ON CONFLICT (code) DO UPDATE SET\n")
	out.WriteString("  cnae = EXCLUDED.cnae,\n")
	out.WriteString("  description = EXCLUDED.description,\n")
	out.WriteString("  default_rate = EXCLUDED.default_rate;\n")

	fmt.Printf("gerado %s: %d códigos de serviço\n", outPath, len(items))
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
