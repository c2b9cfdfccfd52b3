package nfse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const returnOKXML = `<?xml version="1.0" encoding="UTF-8"?>
<ConsultarNfseResposta xmlns="http://www.abrasf.org.br/nfse.xsd">
  <ListaNfse>
    <CompNfse>
      <Nfse>
        <InfNfse>
          <Numero>202600000123</Numero>
          <CodigoVerificacao>ABCD-1234</CodigoVerificacao>
          <DeclaracaoPrestacaoServico>
            <InfDeclaracaoPrestacaoServico>
              <Rps>
                <IdentificacaoRps>
                  <Numero>55</Numero>
                </IdentificacaoRps>
              </Rps>
            </InfDeclaracaoPrestacaoServico>
          </DeclaracaoPrestacaoServico>
        </InfNfse>
      </Nfse>
    </CompNfse>
  </ListaNfse>
</ConsultarNfseResposta>`

const returnErrorXML = `<?xml version="1.0" encoding="UTF-8"?>
<ConsultarNfseResposta xmlns="http://www.abrasf.org.br/nfse.xsd">
  <ListaMensagemRetorno>
    <MensagemRetorno>
      <Codigo>E178</Codigo>
      <Mensagem>Inscricao municipal nao habilitada para o item da lista de servico informado.</Mensagem>
    </MensagemRetorno>
    <MensagemRetorno>
      <Codigo>E10</Codigo>
      <Mensagem>RPS ja informado.</Mensagem>
    </MensagemRetorno>
  </ListaMensagemRetorno>
</ConsultarNfseResposta>`

func TestParseReturnXML_Authorized(t *testing.T) {
	parsed, err := ParseReturnXML(returnOKXML)
	require.NoError(t, err)
	// O Numero do RPS (55) não pode ser confundido com o da NFS-e.
	assert.Equal(t, "202600000123", parsed.Number)
	assert.Equal(t, "ABCD-1234", parsed.VerificationCode)
	assert.Empty(t, parsed.Messages)
}

func TestParseReturnXML_Rejection(t *testing.T) {
	parsed, err := ParseReturnXML(returnErrorXML)
	require.NoError(t, err)
	require.Len(t, parsed.Messages, 2)
	assert.Equal(t, "E178", parsed.Messages[0].Code)
	assert.Contains(t, parsed.Messages[0].Message, "Inscricao municipal")
	assert.Equal(t, "E10", parsed.Messages[1].Code)
}

func TestParseReturnXML_Malformed(t *testing.T) {
	_, err := ParseReturnXML("<aberto sem fechar")
	require.Error(t, err)
}
