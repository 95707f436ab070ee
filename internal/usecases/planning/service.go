package planning

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/meta-ads-reporter/internal/config"
	"github.com/vfg2006/meta-ads-reporter/pkg/utils"
)

// Service decide quais janelas horárias precisam ser (re)processadas em uma
// execução, comparando a última janela registrada com o relógio atual.
type Service struct {
	backfillEnabled bool
	maxHours        int
	location        *time.Location
}

func NewService(cfg config.Backfill, loc *time.Location) *Service {
	return &Service{
		backfillEnabled: cfg.Enabled,
		maxHours:        cfg.MaxHours,
		location:        loc,
	}
}

// Plan retorna as janelas pendentes em ordem cronológica, sempre terminando
// na janela da hora atual. A função é pura e determinística: não lê relógio
// nem faz I/O além dos argumentos recebidos.
//
// Prioridade das regras:
//  1. override manual de N horas ignora o estado registrado;
//  2. backfill desabilitado processa só a hora atual;
//  3. primeira execução (nenhuma janela registrada) processa só a hora atual;
//  4. lacuna de mais de 1 hora é preenchida até o teto configurado; janelas
//     mais antigas que o teto são puladas em definitivo.
func (s *Service) Plan(lastRecorded *time.Time, now time.Time, overrideHours *int) []time.Time {
	current := utils.TruncateToHour(now, s.location)

	if overrideHours != nil && *overrideHours > 0 {
		return s.bucketsEndingAt(current, *overrideHours)
	}

	if !s.backfillEnabled {
		return []time.Time{current}
	}

	if lastRecorded == nil {
		return []time.Time{current}
	}

	last := utils.TruncateToHour(*lastRecorded, s.location)
	hoursSinceLast := int(current.Sub(last) / time.Hour)
	if hoursSinceLast <= 1 {
		return []time.Time{current}
	}

	if hoursSinceLast > s.maxHours {
		logrus.WithFields(logrus.Fields{
			"hours_since_last": hoursSinceLast,
			"max_hours":        s.maxHours,
		}).Warn("Lacuna maior que o teto de backfill; janelas mais antigas serão puladas em definitivo")
		hoursSinceLast = s.maxHours
	}

	return s.bucketsEndingAt(current, hoursSinceLast)
}

// bucketsEndingAt devolve as preceding janelas anteriores a current mais a
// própria current, da mais antiga para a mais recente.
func (s *Service) bucketsEndingAt(current time.Time, preceding int) []time.Time {
	buckets := make([]time.Time, 0, preceding+1)
	for i := preceding; i >= 0; i-- {
		buckets = append(buckets, current.Add(-time.Duration(i)*time.Hour))
	}
	return buckets
}
