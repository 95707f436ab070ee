package metaclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metadomain "github.com/vfg2006/meta-ads-reporter/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/meta-ads-reporter/internal/config"
)

func newTestClient(serverURL string) Client {
	cfg := &config.Config{}
	cfg.Meta.URL = serverURL
	cfg.Meta.AccessToken = "token-de-teste"
	cfg.Fetch.TimeoutSeconds = 5
	cfg.Fetch.MaxRetries = 3
	cfg.Fetch.RetryDelaySeconds = 0

	return NewClient(cfg)
}

func TestGetAdInsights_SeguePaginacaoAteOFim(t *testing.T) {
	var requests atomic.Int32

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := requests.Add(1)

		// Quatro páginas: as três primeiras apontam a próxima via cursor
		// autossuficiente; a última não tem paging.
		if n < 4 {
			fmt.Fprintf(w, `{
				"data": [{"ad_id": "ad_%d", "ad_name": "Anúncio %d", "spend": "1.00"}],
				"paging": {"next": "%s/page/%d"}
			}`, n, n, server.URL, n+1)
			return
		}

		fmt.Fprintf(w, `{"data": [{"ad_id": "ad_4", "ad_name": "Anúncio 4", "spend": "1.00"}]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.GetAdInsights(context.Background(), "act_123")
	require.NoError(t, err)

	assert.True(t, result.Complete)
	assert.Equal(t, int32(4), requests.Load())
	require.Len(t, result.Records, 4)
	assert.Equal(t, "ad_1", result.Records[0].AdID)
	assert.Equal(t, "ad_4", result.Records[3].AdID)
}

func TestGetAdInsights_PrimeiraRequisicaoCarregaParametros(t *testing.T) {
	var capturedQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetAdInsights(context.Background(), "act_123")
	require.NoError(t, err)

	assert.Contains(t, capturedQuery, "access_token=token-de-teste")
	assert.Contains(t, capturedQuery, "date_preset=today")
	assert.Contains(t, capturedQuery, "level=ad")
}

func TestGetAdInsights_RetentaFalhaTransitoria(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Duas falhas transitórias antes de responder com sucesso
		if requests.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"data": [{"ad_id": "ad_1", "ad_name": "A", "spend": "2.00"}]}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.GetAdInsights(context.Background(), "act_123")
	require.NoError(t, err)

	assert.True(t, result.Complete)
	assert.Equal(t, int32(3), requests.Load())
	require.Len(t, result.Records, 1)
}

func TestGetAdInsights_ParcialAposEsgotarTentativas(t *testing.T) {
	var requests atomic.Int32

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Primeira página OK; a segunda falha em todas as tentativas
		if requests.Add(1) == 1 {
			fmt.Fprintf(w, `{
				"data": [{"ad_id": "ad_1", "ad_name": "A", "spend": "1.00"}],
				"paging": {"next": "%s/page/2"}
			}`, server.URL)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.GetAdInsights(context.Background(), "act_123")
	require.NoError(t, err)

	// O que foi coletado até a falha é devolvido, marcado como incompleto
	assert.False(t, result.Complete)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "ad_1", result.Records[0].AdID)

	// 1 página boa + 3 tentativas da página ruim
	assert.Equal(t, int32(4), requests.Load())
}

func TestGetAdInsights_CredencialRejeitadaEhFatal(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "Invalid OAuth access token", "type": "OAuthException", "code": 190}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.GetAdInsights(context.Background(), "act_123")
	require.Error(t, err)
	assert.Nil(t, result)

	var authErr *metadomain.AuthError
	assert.ErrorAs(t, err, &authErr)

	// Sem retentativa para erro de credencial
	assert.Equal(t, int32(1), requests.Load())
}

func TestGetAdInsights_TetoDeTentativasNaoPositivo(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `{"data": [{"ad_id": "ad_1", "ad_name": "A", "spend": "1.00"}]}`)
	}))
	defer server.Close()

	// Config montado à mão com teto zero: a coleta degrada para resultado
	// parcial vazio, nunca pânico.
	cfg := &config.Config{}
	cfg.Meta.URL = server.URL
	cfg.Meta.AccessToken = "token-de-teste"
	cfg.Fetch.TimeoutSeconds = 5
	cfg.Fetch.MaxRetries = 0

	client := NewClient(cfg)

	result, err := client.GetAdInsights(context.Background(), "act_123")
	require.NoError(t, err)

	assert.False(t, result.Complete)
	assert.Empty(t, result.Records)
	assert.Equal(t, int32(0), requests.Load())
}

func TestGetAdInsights_RespostaInvalidaEhTransitoria(t *testing.T) {
	var requests atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `isto não é JSON`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.GetAdInsights(context.Background(), "act_123")
	require.NoError(t, err)

	assert.False(t, result.Complete)
	assert.Empty(t, result.Records)
	assert.Equal(t, int32(3), requests.Load())
}
