package metaclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/meta-ads-reporter/infrastructure/integrator/meta/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// insightFields são os campos solicitados por requisição. A API só expõe a
// janela "hoje até agora" (date_preset=today); não há replay de horas
// passadas, apenas o snapshot acumulado do dia no momento da coleta.
const insightFields = "date_start,date_stop,impressions,clicks,spend,actions,action_values,ad_id,ad_name"

type responseAdInsights struct {
	Data   []metadomain.AdInsight `json:"data"`
	Paging *paging                `json:"paging,omitempty"`
}

type paging struct {
	Next string `json:"next"`
}

func (c *MetaClient) GetAdInsights(ctx context.Context, accountID string) (*FetchResult, error) {
	baseURL := fmt.Sprintf("%s/%s/insights", c.Cfg.Meta.URL, accountID)

	params := url.Values{}
	params.Set("access_token", c.Cfg.Meta.AccessToken)
	params.Set("fields", insightFields)
	params.Set("date_preset", "today")
	params.Set("level", "ad")

	result := &FetchResult{Complete: true}

	// O cursor de paginação é uma próxima requisição completa e autossuficiente;
	// nenhum parâmetro adicional é acrescentado ao segui-lo.
	nextURL := baseURL + "?" + params.Encode()
	pages := 0

	for nextURL != "" {
		page, err := c.fetchPage(ctx, nextURL)
		if err != nil {
			var authErr *metadomain.AuthError
			if errors.As(err, &authErr) {
				return nil, err
			}

			// Teto de tentativas esgotado: devolve o que foi coletado até aqui
			// e sinaliza coleta incompleta, isolando a falha desta janela.
			logrus.WithError(err).WithFields(logrus.Fields{
				"account_id": accountID,
				"pages":      pages,
				"records":    len(result.Records),
			}).Warn("Coleta de insights incompleta após esgotar tentativas")
			result.Complete = false
			return result, nil
		}

		result.Records = append(result.Records, page.Data...)
		pages++

		nextURL = ""
		if page.Paging != nil {
			nextURL = page.Paging.Next
		}
	}

	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"pages":      pages,
		"records":    len(result.Records),
	}).Debug("Coleta de insights concluída")

	return result, nil
}

// fetchPage executa uma única requisição com retentativas de teto fixo.
// Erros de autenticação interrompem imediatamente; os demais são retentados
// com intervalo fixo entre tentativas.
func (c *MetaClient) fetchPage(ctx context.Context, reqURL string) (*responseAdInsights, error) {
	// A configuração valida o teto, mas quem constrói o Config direto (como
	// os testes) pode passar zero; sem este guarda o laço não executaria e
	// devolveria página nula.
	if c.Cfg.Fetch.MaxRetries < 1 {
		return nil, &metadomain.TransientError{Message: "teto de tentativas não positivo"}
	}

	var lastErr error

	for attempt := 1; attempt <= c.Cfg.Fetch.MaxRetries; attempt++ {
		page, err := c.doRequest(ctx, reqURL)
		if err == nil {
			return page, nil
		}

		var authErr *metadomain.AuthError
		if errors.As(err, &authErr) {
			return nil, err
		}

		lastErr = err
		logrus.WithError(err).WithField("attempt", attempt).Warn("Requisição à API do Meta falhou")

		if attempt < c.Cfg.Fetch.MaxRetries {
			select {
			case <-ctx.Done():
				return nil, &metadomain.TransientError{Message: ctx.Err().Error()}
			case <-time.After(c.retryDelay):
			}
		}
	}

	return nil, lastErr
}

func (c *MetaClient) doRequest(ctx context.Context, reqURL string) (*responseAdInsights, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &metadomain.TransientError{Message: err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &metadomain.TransientError{Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &metadomain.TransientError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		var errResp metadomain.ErrorResponse
		parsed := json.Unmarshal(body, &errResp) == nil

		// Rejeição de credencial é fatal; todo o resto é transitório.
		if (parsed && errResp.IsAuthError()) ||
			resp.StatusCode == http.StatusUnauthorized ||
			resp.StatusCode == http.StatusForbidden {
			return nil, &metadomain.AuthError{Message: errResp.Error.Message}
		}

		message := errResp.Error.Message
		if message == "" {
			message = resp.Status
		}
		return nil, &metadomain.TransientError{StatusCode: resp.StatusCode, Message: message}
	}

	var response responseAdInsights
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &metadomain.TransientError{StatusCode: resp.StatusCode, Message: "erro ao decodificar JSON: " + err.Error()}
	}

	return &response, nil
}
