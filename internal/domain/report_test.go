package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAdLevelTable_OrdenaPorInvestimento(t *testing.T) {
	byAd := map[EntityKey]*AdMetrics{
		{ID: "ad_b", Name: "B"}: {Spend: 5.0},
		{ID: "ad_a", Name: "A"}: {Spend: 20.0},
		{ID: "ad_c", Name: "C"}: {Spend: 10.0},
	}

	table := BuildAdLevelTable("03/10/2025", byAd)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, "ad_a", table.Rows[0][ColumnAdID])
	assert.Equal(t, "ad_c", table.Rows[1][ColumnAdID])
	assert.Equal(t, "ad_b", table.Rows[2][ColumnAdID])
}

func TestBuildAdLevelTable_DesempatePorAdID(t *testing.T) {
	byAd := map[EntityKey]*AdMetrics{
		{ID: "ad_2", Name: "B"}: {Spend: 10.0},
		{ID: "ad_1", Name: "A"}: {Spend: 10.0},
	}

	table := BuildAdLevelTable("03/10/2025", byAd)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "ad_1", table.Rows[0][ColumnAdID])
	assert.Equal(t, "ad_2", table.Rows[1][ColumnAdID])
}

func TestBuildAdLevelTable_TodasAsLinhasCarregamAData(t *testing.T) {
	byAd := map[EntityKey]*AdMetrics{
		{ID: "ad_1", Name: "A"}: {Spend: 1.0},
		{ID: "ad_2", Name: "B"}: {Spend: 2.0},
	}

	table := BuildAdLevelTable("03/10/2025", byAd)

	for _, row := range table.Rows {
		assert.Equal(t, "03/10/2025", row[ColumnDate])
	}
}

func TestBuildHourlyTable_UmaLinhaPorJanela(t *testing.T) {
	total := &AdMetrics{Spend: 15.456, Purchases: 3, PurchasesValue: 120.0}
	total.ComputeRatios()

	table := BuildHourlyTable("03/10/2025", "03/10/2025 14:00:00", total)

	require.Len(t, table.Rows, 1)
	row := table.Rows[0]
	assert.Equal(t, "03/10/2025", row[ColumnDate])
	assert.Equal(t, "03/10/2025 14:00:00", row[ColumnTimestamp])
	assert.Equal(t, 15.46, row["Spend"]) // arredondado a 2 casas
	assert.Equal(t, 3, row["Purchases"])
}

func TestBuildDailyTable_SemColunaDeTimestamp(t *testing.T) {
	total := &AdMetrics{Spend: 10.0}
	total.ComputeRatios()

	table := BuildDailyTable("03/10/2025", total)

	assert.NotContains(t, table.Columns, ColumnTimestamp)
	require.Len(t, table.Rows, 1)
	assert.NotContains(t, table.Rows[0], ColumnTimestamp)
	assert.Equal(t, "03/10/2025", table.Rows[0][ColumnDate])
}

func TestTable_GridRoundTrip(t *testing.T) {
	original := Table{
		Columns: []string{"Date", "Spend"},
		Rows: []Row{
			{"Date": "03/10/2025", "Spend": 10.5},
			{"Date": "03/11/2025", "Spend": 12.0},
		},
	}

	restored := TableFromGrid(original.ToGrid(true))

	assert.Equal(t, original.Columns, restored.Columns)
	assert.Equal(t, original.Rows, restored.Rows)
}

func TestTableFromGrid_GradeVazia(t *testing.T) {
	table := TableFromGrid(nil)
	assert.True(t, table.IsEmpty())
}

func TestTable_CloneIndependente(t *testing.T) {
	original := Table{
		Columns: []string{"Date"},
		Rows:    []Row{{"Date": "03/10/2025"}},
	}

	clone := original.Clone()
	clone.Rows[0]["Date"] = "alterado"

	assert.Equal(t, "03/10/2025", original.Rows[0]["Date"])
}
