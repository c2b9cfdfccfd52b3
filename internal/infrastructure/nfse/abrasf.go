package nfse

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ReturnMessage mensagem de retorno do modelo ABRASF (erro ou alerta da
// prefeitura).
type ReturnMessage struct {
	Code    string // ex.: "E178"
	Message string
}

// ParsedReturn campos extraídos do XML de retorno ABRASF.
type ParsedReturn struct {
	Number           string // Numero da NFS-e
	VerificationCode string // CodigoVerificacao
	Messages         []ReturnMessage
}

// ParseReturnXML extrai número, código de verificação e mensagens de um XML
// de retorno no modelo ABRASF (ConsultarNfseResposta e variantes). Cada
// prefeitura usa namespaces próprios, então a busca é por nome local do
// elemento, ignorando o prefixo.
func ParseReturnXML(raw string) (*ParsedReturn, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(raw); err != nil {
		return nil, fmt.Errorf("abrasf: XML malformado: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("abrasf: documento vazio")
	}

	parsed := &ParsedReturn{}
	walk(root, func(el *etree.Element) {
		switch el.Tag {
		case "Numero":
			// O primeiro Numero fora de IdentificacaoRps é o da NFS-e.
			if parsed.Number == "" && parentTag(el) != "IdentificacaoRps" {
				parsed.Number = strings.TrimSpace(el.Text())
			}
		case "CodigoVerificacao":
			if parsed.VerificationCode == "" {
				parsed.VerificationCode = strings.TrimSpace(el.Text())
			}
		case "MensagemRetorno":
			msg := ReturnMessage{
				Code:    childText(el, "Codigo"),
				Message: childText(el, "Mensagem"),
			}
			if msg.Code != "" || msg.Message != "" {
				parsed.Messages = append(parsed.Messages, msg)
			}
		}
	})
	return parsed, nil
}

func walk(el *etree.Element, fn func(*etree.Element)) {
	fn(el)
	for _, child := range el.ChildElements() {
		walk(child, fn)
	}
}

func parentTag(el *etree.Element) string {
	if p := el.Parent(); p != nil {
		return p.Tag
	}
	return ""
}

func childText(el *etree.Element, tag string) string {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return strings.TrimSpace(child.Text())
		}
	}
	return ""
}
