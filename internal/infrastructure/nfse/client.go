// Package nfse implementa o cliente HTTP do intermediário de NFS-e
// (API estilo Focus NFe): emissão assíncrona referenciada por Ref, consulta
// de status, cancelamento e URLs de artefatos. Respostas da prefeitura podem
// embutir o XML de retorno do modelo ABRASF; os códigos e mensagens desse XML
// são extraídos com etree.
package nfse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fluxocaixa/fiscal-api/internal/application/billing"
	"github.com/fluxocaixa/fiscal-api/internal/domain/invoice"
	"github.com/fluxocaixa/fiscal-api/pkg/config"
	"github.com/fluxocaixa/fiscal-api/pkg/fiscal"
	"github.com/fluxocaixa/fiscal-api/pkg/logger"
)

var _ billing.Gateway = (*Client)(nil)

// Client implementa billing.Gateway sobre a API REST do intermediário.
// Usa net/http da stdlib; o token do tenant vai como usuário do basic auth,
// convenção da API.
type Client struct {
	sandboxBaseURL    string
	productionBaseURL string
	httpClient        *http.Client
	log               *logger.Logger
}

// NewClient constrói o cliente com os endpoints e timeout da configuração.
func NewClient(cfg config.NFSEConfig, log *logger.Logger) *Client {
	return &Client{
		sandboxBaseURL:    strings.TrimRight(cfg.SandboxBaseURL, "/"),
		productionBaseURL: strings.TrimRight(cfg.ProductionBaseURL, "/"),
		httpClient:        &http.Client{Timeout: cfg.Timeout()},
		log:               log,
	}
}

func (c *Client) baseURL(env invoice.Environment) string {
	if env == invoice.EnvProduction {
		return c.productionBaseURL
	}
	return c.sandboxBaseURL
}

// ── payloads da API ────────────────────────────────────────────────────────

type issuePayload struct {
	DataEmissao                 string `json:"data_emissao"`
	NaturezaOperacao            string `json:"natureza_operacao"`
	InscricaoMunicipal          string `json:"prestador_inscricao_municipal"`
	CNPJPrestador               string `json:"prestador_cnpj"`
	SerieRPS                    string `json:"serie_rps"`
	CodigoServico               string `json:"servico_item_lista_servico"`
	CNAE                        string `json:"servico_codigo_cnae,omitempty"`
	Discriminacao               string `json:"servico_discriminacao"`
	ValorServicos               string `json:"servico_valor_servicos"`
	ValorISS                    string `json:"servico_valor_iss"`
	ValorLiquido                string `json:"servico_valor_liquido"`
	ValorPIS                    string `json:"servico_valor_pis,omitempty"`
	ValorCOFINS                 string `json:"servico_valor_cofins,omitempty"`
	ValorCSLL                   string `json:"servico_valor_csll,omitempty"`
	ValorIR                     string `json:"servico_valor_ir,omitempty"`
	ValorINSS                   string `json:"servico_valor_inss,omitempty"`
	TomadorDocumento            string `json:"tomador_cnpj_cpf"`
	TomadorRazaoSocial          string `json:"tomador_razao_social"`
}

type statusPayload struct {
	Status            string `json:"status"` // autorizado | processando_autorizacao | erro_autorizacao | cancelado
	Numero            string `json:"numero"`
	CodigoVerificacao string `json:"codigo_verificacao"`
	URLDanfse         string `json:"url_danfse"`
	CaminhoXML        string `json:"caminho_xml_nota_fiscal"`
	XMLRetorno        string `json:"xml_retorno,omitempty"` // ABRASF cru, quando a prefeitura o devolve
	Erros             []struct {
		Codigo   string `json:"codigo"`
		Mensagem string `json:"mensagem"`
	} `json:"erros,omitempty"`
}

type cancelPayload struct {
	Justificativa string `json:"justificativa"`
}

// ── billing.Gateway ────────────────────────────────────────────────────────

// Issue envia o pedido de emissão. A API é idempotente por Ref dentro de um
// ambiente: reenviar o mesmo Ref não duplica a nota.
func (c *Client) Issue(ctx context.Context, req billing.GatewayIssueRequest) (*billing.GatewayResult, error) {
	payload := issuePayload{
		DataEmissao:        req.IssueDate.Format(time.RFC3339),
		NaturezaOperacao:   fiscal.NatureTaxedInCity,
		InscricaoMunicipal: req.Credentials.MunicipalRegistration,
		CNPJPrestador:      req.CompanyCNPJ,
		SerieRPS:           req.Credentials.RPSSeries,
		CodigoServico:      req.ServiceCode,
		CNAE:               req.CNAE,
		Discriminacao:      req.Description,
		ValorServicos:      req.GrossAmount.StringFixed(2),
		ValorISS:           req.ISSAmount.StringFixed(2),
		ValorLiquido:       req.NetAmount.StringFixed(2),
		TomadorDocumento:   req.CustomerTaxID,
		TomadorRazaoSocial: req.CustomerName,
	}
	if req.Withholdings.PIS.IsPositive() {
		payload.ValorPIS = req.Withholdings.PIS.StringFixed(2)
	}
	if req.Withholdings.COFINS.IsPositive() {
		payload.ValorCOFINS = req.Withholdings.COFINS.StringFixed(2)
	}
	if req.Withholdings.CSLL.IsPositive() {
		payload.ValorCSLL = req.Withholdings.CSLL.StringFixed(2)
	}
	if req.Withholdings.IRPJ.IsPositive() {
		payload.ValorIR = req.Withholdings.IRPJ.StringFixed(2)
	}
	if req.Withholdings.INSS.IsPositive() {
		payload.ValorINSS = req.Withholdings.INSS.StringFixed(2)
	}

	url := fmt.Sprintf("%s/v2/nfse?ref=%s", c.baseURL(req.Environment), req.Ref)
	var st statusPayload
	if err := c.do(ctx, http.MethodPost, url, req.Credentials.Token, payload, &st); err != nil {
		return nil, err
	}
	return c.toResult(&st), nil
}

// Status consulta o desfecho da emissão referenciada por ref.
func (c *Client) Status(ctx context.Context, ref string, env invoice.Environment, creds billing.GatewayCredentials) (*billing.GatewayResult, error) {
	url := fmt.Sprintf("%s/v2/nfse/%s", c.baseURL(env), ref)
	var st statusPayload
	if err := c.do(ctx, http.MethodGet, url, creds.Token, nil, &st); err != nil {
		return nil, err
	}
	return c.toResult(&st), nil
}

// Cancel cancela a nota na prefeitura. A justificativa já chega validada.
func (c *Client) Cancel(ctx context.Context, ref, justification string, env invoice.Environment, creds billing.GatewayCredentials) error {
	url := fmt.Sprintf("%s/v2/nfse/%s", c.baseURL(env), ref)
	return c.do(ctx, http.MethodDelete, url, creds.Token, cancelPayload{Justificativa: justification}, nil)
}

// Download devolve a URL transitória do artefato. A API expõe as URLs na
// própria consulta de status; a URL é assinada e expira, nunca persistir.
func (c *Client) Download(ctx context.Context, ref, format string, env invoice.Environment, creds billing.GatewayCredentials) (string, error) {
	url := fmt.Sprintf("%s/v2/nfse/%s", c.baseURL(env), ref)
	var st statusPayload
	if err := c.do(ctx, http.MethodGet, url, creds.Token, nil, &st); err != nil {
		return "", err
	}
	if st.Status != "autorizado" && st.Status != "cancelado" {
		return "", fmt.Errorf("nfse: nota %s sem artefatos (status %s)", ref, st.Status)
	}
	switch format {
	case billing.FormatPDF:
		if st.URLDanfse == "" {
			return "", fmt.Errorf("nfse: PDF indisponível para %s", ref)
		}
		return st.URLDanfse, nil
	case billing.FormatXML:
		if st.CaminhoXML == "" {
			return "", fmt.Errorf("nfse: XML indisponível para %s", ref)
		}
		return c.baseURL(env) + st.CaminhoXML, nil
	}
	return "", fmt.Errorf("nfse: formato desconhecido %q", format)
}

// ── helpers ────────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, method, url, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("nfse: marshal payload: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("nfse: montar request: %w", err)
	}
	req.SetBasicAuth(token, "")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("nfse: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("nfse: ler resposta: %w", err)
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("nfse: gateway devolveu %d: %s", resp.StatusCode, truncate(raw, 200))
	}
	if resp.StatusCode >= 400 {
		// 4xx com corpo JSON de status ainda é um veredito (erro_autorizacao);
		// sem corpo parseável é erro de chamada.
		if out != nil && json.Unmarshal(raw, out) == nil {
			return nil
		}
		return fmt.Errorf("nfse: gateway devolveu %d: %s", resp.StatusCode, truncate(raw, 200))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("nfse: decodificar resposta: %w", err)
	}
	return nil
}

// toResult mapeia o status da API para o veredito do domínio. Mensagens de
// rejeição vêm do array de erros ou, na falta dele, do XML ABRASF embutido.
func (c *Client) toResult(st *statusPayload) *billing.GatewayResult {
	result := &billing.GatewayResult{
		Number:           st.Numero,
		VerificationCode: st.CodigoVerificacao,
		PDFURL:           st.URLDanfse,
		XMLURL:           st.CaminhoXML,
	}
	switch st.Status {
	case "autorizado":
		result.Verdict = billing.VerdictAuthorized
		if result.VerificationCode == "" && st.XMLRetorno != "" {
			if parsed, err := ParseReturnXML(st.XMLRetorno); err == nil {
				result.VerificationCode = parsed.VerificationCode
				if result.Number == "" {
					result.Number = parsed.Number
				}
			}
		}
	case "erro_autorizacao", "cancelado_erro":
		result.Verdict = billing.VerdictRejected
		result.RejectionReason = c.rejectionReason(st)
	default:
		// processando_autorizacao e variantes: ainda sem veredito.
		result.Verdict = billing.VerdictPending
	}
	return result
}

func (c *Client) rejectionReason(st *statusPayload) string {
	if len(st.Erros) > 0 {
		parts := make([]string, 0, len(st.Erros))
		for _, e := range st.Erros {
			parts = append(parts, fmt.Sprintf("%s: %s", e.Codigo, e.Mensagem))
		}
		return strings.Join(parts, "; ")
	}
	if st.XMLRetorno != "" {
		if parsed, err := ParseReturnXML(st.XMLRetorno); err == nil && len(parsed.Messages) > 0 {
			parts := make([]string, 0, len(parsed.Messages))
			for _, m := range parsed.Messages {
				parts = append(parts, fmt.Sprintf("%s: %s", m.Code, m.Message))
			}
			return strings.Join(parts, "; ")
		}
	}
	return "rejeitada pela prefeitura sem detalhe"
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
