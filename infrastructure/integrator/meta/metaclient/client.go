package metaclient

import (
	"context"
	"net/http"
	"time"

	metadomain "github.com/vfg2006/meta-ads-reporter/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/meta-ads-reporter/internal/config"
)

// Client busca registros brutos de insights na API do Meta.
type Client interface {
	// GetAdInsights retorna todos os registros no nível de anúncio da janela
	// "hoje até agora" de uma conta, seguindo a paginação até o fim. Um
	// resultado com Complete=false indica que o teto de tentativas foi
	// esgotado e apenas parte das páginas foi coletada.
	GetAdInsights(ctx context.Context, accountID string) (*FetchResult, error)
}

// FetchResult agrega os registros coletados e a indicação de completude.
type FetchResult struct {
	Records  []metadomain.AdInsight
	Complete bool
}

type MetaClient struct {
	Cfg        *config.Config
	httpClient *http.Client
	retryDelay time.Duration
}

func NewClient(cfg *config.Config) Client {
	return &MetaClient{
		Cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		},
		retryDelay: time.Duration(cfg.Fetch.RetryDelaySeconds) * time.Second,
	}
}
