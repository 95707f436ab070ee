package domain

import (
	"sort"

	"github.com/vfg2006/meta-ads-reporter/pkg/utils"
)

// Nomes de colunas compartilhados entre as tabelas do ledger.
const (
	ColumnDate      = "Date"
	ColumnTimestamp = "Timestamp"
	ColumnAdID      = "Ad ID"
)

var adLevelColumns = []string{
	ColumnDate, ColumnAdID, "Ad Name", "Spend", "Revenue", "Orders",
	"Impressions", "Clicks", "Link Clicks", "Landing Page Views",
	"Add to Cart", "Initiate Checkout", "ROAS", "CPC", "CTR", "CPM",
}

var hourlyColumns = []string{
	ColumnDate, ColumnTimestamp, "Spend", "Purchases Value", "Purchases",
	"Impressions", "Link Clicks", "Landing Page Views", "Add to Cart",
	"Initiate Checkout", "ROAS", "CPC", "CTR", "LC TO LPV", "LPV TO ATC",
	"ATC TO CI", "CI TO ORDERED", "CVR", "CPM",
}

// BuildAdLevelTable monta a tabela diária por anúncio para uma partição
// (data). Linhas ordenadas por investimento decrescente; o desempate por
// Ad ID mantém a saída determinística.
func BuildAdLevelTable(dateLabel string, byAd map[EntityKey]*AdMetrics) Table {
	keys := make([]EntityKey, 0, len(byAd))
	for key := range byAd {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		mi, mj := byAd[keys[i]], byAd[keys[j]]
		if mi.Spend != mj.Spend {
			return mi.Spend > mj.Spend
		}
		return keys[i].ID < keys[j].ID
	})

	rows := make([]Row, 0, len(keys))
	for _, key := range keys {
		m := byAd[key]
		rows = append(rows, Row{
			ColumnDate:           dateLabel,
			ColumnAdID:           key.ID,
			"Ad Name":            key.Name,
			"Spend":              utils.RoundWithTwoDecimalPlace(m.Spend),
			"Revenue":            utils.RoundWithTwoDecimalPlace(m.PurchasesValue),
			"Orders":             m.Purchases,
			"Impressions":        m.Impressions,
			"Clicks":             m.Clicks,
			"Link Clicks":        m.LinkClicks,
			"Landing Page Views": m.LandingPageViews,
			"Add to Cart":        m.AddToCart,
			"Initiate Checkout":  m.InitiateCheckout,
			"ROAS":               utils.RoundWithTwoDecimalPlace(m.ROAS),
			"CPC":                utils.RoundWithTwoDecimalPlace(m.CPC),
			"CTR":                utils.RoundWithTwoDecimalPlace(m.CTR),
			"CPM":                utils.RoundWithTwoDecimalPlace(m.CPM),
		})
	}

	return Table{Columns: append([]string(nil), adLevelColumns...), Rows: rows}
}

// BuildHourlyTable monta a linha da trilha horária para uma janela. O rótulo
// de timestamp identifica a janela pretendida, não o instante da coleta.
func BuildHourlyTable(dateLabel, timestampLabel string, total *AdMetrics) Table {
	row := Row{
		ColumnDate:           dateLabel,
		ColumnTimestamp:      timestampLabel,
		"Spend":              utils.RoundWithTwoDecimalPlace(total.Spend),
		"Purchases Value":    utils.RoundWithTwoDecimalPlace(total.PurchasesValue),
		"Purchases":          total.Purchases,
		"Impressions":        total.Impressions,
		"Link Clicks":        total.LinkClicks,
		"Landing Page Views": total.LandingPageViews,
		"Add to Cart":        total.AddToCart,
		"Initiate Checkout":  total.InitiateCheckout,
		"ROAS":               utils.RoundWithTwoDecimalPlace(total.ROAS),
		"CPC":                utils.RoundWithTwoDecimalPlace(total.CPC),
		"CTR":                utils.RoundWithTwoDecimalPlace(total.CTR),
		"LC TO LPV":          utils.RoundWithTwoDecimalPlace(total.LCToLPV),
		"LPV TO ATC":         utils.RoundWithTwoDecimalPlace(total.LPVToATC),
		"ATC TO CI":          utils.RoundWithTwoDecimalPlace(total.ATCToCI),
		"CI TO ORDERED":      utils.RoundWithTwoDecimalPlace(total.CIToOrdered),
		"CVR":                utils.RoundWithTwoDecimalPlace(total.CVR),
		"CPM":                utils.RoundWithTwoDecimalPlace(total.CPM),
	}

	return Table{Columns: append([]string(nil), hourlyColumns...), Rows: []Row{row}}
}

// BuildDailyTable monta a linha do resumo diário: a mesma visão da trilha
// horária, sem a coluna de timestamp, chaveada pela data.
func BuildDailyTable(dateLabel string, total *AdMetrics) Table {
	hourly := BuildHourlyTable(dateLabel, "", total)

	columns := make([]string, 0, len(hourly.Columns)-1)
	for _, col := range hourly.Columns {
		if col != ColumnTimestamp {
			columns = append(columns, col)
		}
	}

	row := hourly.Rows[0]
	delete(row, ColumnTimestamp)

	return Table{Columns: columns, Rows: []Row{row}}
}
