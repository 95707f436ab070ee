package metadomain

// AdInsight representa uma linha bruta de insights no nível de anúncio
// retornada pela API do Meta. Os campos numéricos chegam como strings e são
// convertidos com coerção segura apenas na agregação. O registro é imutável
// e pertence exclusivamente à etapa de busca que o produziu.
type AdInsight struct {
	AdID         string        `json:"ad_id"`
	AdName       string        `json:"ad_name"`
	DateStart    string        `json:"date_start"`
	DateStop     string        `json:"date_stop"`
	Impressions  string        `json:"impressions"`
	Clicks       string        `json:"clicks"`
	Spend        string        `json:"spend"`
	Actions      []ActionEntry `json:"actions"`
	ActionValues []ActionEntry `json:"action_values"`
}

// ActionEntry é um par (tipo de ação, valor) das listas actions e
// action_values da API.
type ActionEntry struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// Tipos de ação do pixel reconhecidos pelo funil. Tipos desconhecidos são
// ignorados, nunca tratados como erro.
const (
	ActionTypeLinkClick        = "link_click"
	ActionTypeLandingPageView  = "landing_page_view"
	ActionTypeAddToCart        = "add_to_cart"
	ActionTypeInitiateCheckout = "initiate_checkout"
	ActionTypePurchase         = "offsite_conversion.fb_pixel_purchase"
)
