package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/meta-ads-reporter/internal/config"
)

func newTestService(backfillEnabled bool, maxHours int) *Service {
	return NewService(config.Backfill{
		Enabled:  backfillEnabled,
		MaxHours: maxHours,
	}, time.UTC)
}

func intPtr(v int) *int {
	return &v
}

func TestPlan_PrimeiraExecucao(t *testing.T) {
	service := newTestService(true, 24)
	now := time.Date(2025, 3, 10, 14, 37, 0, 0, time.UTC)

	buckets := service.Plan(nil, now, nil)

	require.Len(t, buckets, 1)
	assert.Equal(t, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC), buckets[0])
}

func TestPlan_SemLacuna(t *testing.T) {
	service := newTestService(true, 24)
	now := time.Date(2025, 3, 10, 14, 37, 0, 0, time.UTC)
	last := time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC)

	buckets := service.Plan(&last, now, nil)

	require.Len(t, buckets, 1)
	assert.Equal(t, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC), buckets[0])
}

func TestPlan_LacunaDeTresHoras(t *testing.T) {
	service := newTestService(true, 24)

	// Última janela há 3 horas: as 3 janelas perdidas mais a atual, em ordem
	// cronológica.
	now := time.Date(2025, 3, 10, 14, 10, 0, 0, time.UTC)
	last := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)

	buckets := service.Plan(&last, now, nil)

	require.Len(t, buckets, 4)
	assert.Equal(t, time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC), buckets[0])
	assert.Equal(t, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), buckets[1])
	assert.Equal(t, time.Date(2025, 3, 10, 13, 0, 0, 0, time.UTC), buckets[2])
	assert.Equal(t, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC), buckets[3])
}

func TestPlan_LacunaMaiorQueOTeto(t *testing.T) {
	service := newTestService(true, 24)

	// 50 horas de lacuna com teto de 24: só as 24 janelas mais recentes mais
	// a atual; as mais antigas são puladas em definitivo.
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	last := now.Add(-50 * time.Hour)

	buckets := service.Plan(&last, now, nil)

	require.Len(t, buckets, 25)
	assert.Equal(t, now.Add(-24*time.Hour), buckets[0])
	assert.Equal(t, now, buckets[len(buckets)-1])
}

func TestPlan_BackfillDesabilitado(t *testing.T) {
	service := newTestService(false, 24)

	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	last := now.Add(-10 * time.Hour)

	buckets := service.Plan(&last, now, nil)

	require.Len(t, buckets, 1)
	assert.Equal(t, now, buckets[0])
}

func TestPlan_OverrideManual(t *testing.T) {
	service := newTestService(true, 24)

	// O override ignora a última janela registrada: 2 janelas anteriores mais
	// a atual, mesmo sem lacuna.
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	last := now.Add(-1 * time.Hour)

	buckets := service.Plan(&last, now, intPtr(2))

	require.Len(t, buckets, 3)
	assert.Equal(t, now.Add(-2*time.Hour), buckets[0])
	assert.Equal(t, now.Add(-1*time.Hour), buckets[1])
	assert.Equal(t, now, buckets[2])
}

func TestPlan_OverrideComBackfillDesabilitado(t *testing.T) {
	// O override manual tem precedência sobre o backfill desabilitado
	service := newTestService(false, 24)
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

	buckets := service.Plan(nil, now, intPtr(3))

	require.Len(t, buckets, 4)
	assert.Equal(t, now.Add(-3*time.Hour), buckets[0])
	assert.Equal(t, now, buckets[len(buckets)-1])
}

func TestPlan_Deterministico(t *testing.T) {
	service := newTestService(true, 24)
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	last := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	first := service.Plan(&last, now, nil)
	second := service.Plan(&last, now, nil)

	assert.Equal(t, first, second)
}
