package domain

import "github.com/vfg2006/meta-ads-reporter/pkg/utils"

// EntityKey identifica a entidade agregada (anúncio) em uma linha de relatório.
type EntityKey struct {
	ID   string
	Name string
}

// AdMetrics é o resultado da agregação de registros brutos de insights.
// Os contadores são somados; as razões derivadas são sempre recalculadas a
// partir dos contadores somados, nunca combinadas aritmeticamente entre si.
type AdMetrics struct {
	Spend            float64
	Impressions      int
	Clicks           int
	LinkClicks       int
	LandingPageViews int
	AddToCart        int
	InitiateCheckout int
	Purchases        int
	PurchasesValue   float64

	// Razões derivadas. Denominador zero resulta em 0, nunca NaN/Inf.
	ROAS        float64
	CPC         float64
	CPM         float64
	CTR         float64
	LCToLPV     float64
	LPVToATC    float64
	ATCToCI     float64
	CIToOrdered float64
	CVR         float64
}

// Add soma os contadores de other em m. As razões ficam obsoletas até a
// próxima chamada de ComputeRatios.
func (m *AdMetrics) Add(other *AdMetrics) {
	m.Spend += other.Spend
	m.Impressions += other.Impressions
	m.Clicks += other.Clicks
	m.LinkClicks += other.LinkClicks
	m.LandingPageViews += other.LandingPageViews
	m.AddToCart += other.AddToCart
	m.InitiateCheckout += other.InitiateCheckout
	m.Purchases += other.Purchases
	m.PurchasesValue += other.PurchasesValue
}

// ComputeRatios recalcula todas as razões derivadas a partir dos contadores.
func (m *AdMetrics) ComputeRatios() {
	m.ROAS = utils.SafeDivide(m.PurchasesValue, m.Spend)
	m.CPC = utils.SafeDivide(m.Spend, float64(m.Clicks))
	m.CPM = utils.SafeDivide(m.Spend, float64(m.Impressions)) * 1000
	m.CTR = utils.SafeDivide(float64(m.Clicks), float64(m.Impressions)) * 100
	m.LCToLPV = utils.SafeDivide(float64(m.LandingPageViews), float64(m.LinkClicks)) * 100
	m.LPVToATC = utils.SafeDivide(float64(m.AddToCart), float64(m.LandingPageViews)) * 100
	m.ATCToCI = utils.SafeDivide(float64(m.InitiateCheckout), float64(m.AddToCart)) * 100
	m.CIToOrdered = utils.SafeDivide(float64(m.Purchases), float64(m.InitiateCheckout)) * 100
	m.CVR = utils.SafeDivide(float64(m.Purchases), float64(m.LinkClicks)) * 100
}
