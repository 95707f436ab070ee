package aggregating

import (
	metadomain "github.com/vfg2006/meta-ads-reporter/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/meta-ads-reporter/internal/domain"
	"github.com/vfg2006/meta-ads-reporter/pkg/utils"
)

// Service transforma registros brutos de insights em métricas agregadas por
// entidade. A agregação é um fold puro e sem estado: soma os contadores
// primeiro e só então calcula as razões derivadas (razões de somas, nunca
// médias de razões).
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// AggregateByAd agrupa os registros por (Ad ID, Ad Name) e produz uma linha
// de métricas por anúncio. Registros de várias contas caem no mesmo grupo
// quando compartilham a chave.
func (s *Service) AggregateByAd(records []metadomain.AdInsight) map[domain.EntityKey]*domain.AdMetrics {
	byAd := make(map[domain.EntityKey]*domain.AdMetrics)

	for i := range records {
		rec := &records[i]
		key := domain.EntityKey{ID: rec.AdID, Name: rec.AdName}

		metrics, ok := byAd[key]
		if !ok {
			metrics = &domain.AdMetrics{}
			byAd[key] = metrics
		}

		accumulate(metrics, rec)
	}

	for _, metrics := range byAd {
		metrics.ComputeRatios()
	}

	return byAd
}

// AggregateTotal soma todos os registros em uma única linha de métricas,
// independentemente da entidade.
func (s *Service) AggregateTotal(records []metadomain.AdInsight) *domain.AdMetrics {
	total := &domain.AdMetrics{}

	for i := range records {
		accumulate(total, &records[i])
	}

	total.ComputeRatios()
	return total
}

// accumulate soma um registro bruto nos contadores. Toda coerção numérica é
// segura: valor ausente ou não numérico conta como zero, nunca erro.
func accumulate(m *domain.AdMetrics, rec *metadomain.AdInsight) {
	m.Spend += utils.SafeFloat(rec.Spend)
	m.Impressions += utils.SafeInt(rec.Impressions)
	m.Clicks += utils.SafeInt(rec.Clicks)

	for _, action := range rec.Actions {
		value := utils.SafeInt(action.Value)

		switch action.ActionType {
		case metadomain.ActionTypeLinkClick:
			m.LinkClicks += value
		case metadomain.ActionTypeLandingPageView:
			m.LandingPageViews += value
		case metadomain.ActionTypeAddToCart:
			m.AddToCart += value
		case metadomain.ActionTypeInitiateCheckout:
			m.InitiateCheckout += value
		case metadomain.ActionTypePurchase:
			m.Purchases += value
		}
		// Tipos de ação desconhecidos são ignorados
	}

	for _, actionValue := range rec.ActionValues {
		if actionValue.ActionType == metadomain.ActionTypePurchase {
			m.PurchasesValue += utils.SafeFloat(actionValue.Value)
		}
	}
}
