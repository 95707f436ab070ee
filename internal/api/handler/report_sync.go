package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/meta-ads-reporter/internal/scheduler"
	"github.com/vfg2006/meta-ads-reporter/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RunReportSync dispara manualmente uma sincronização de relatórios. A
// execução acontece em segundo plano; a resposta só confirma o disparo.
func RunReportSync(service *scheduler.ReportSyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunReportSync")

		if service == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização de relatórios não disponível", nil)
			return
		}

		service.TriggerManualSync()

		response := map[string]any{
			"message": "Sincronização de relatórios iniciada com sucesso",
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetReportSyncStatus retorna o status do agendador e o resumo da última
// execução.
func GetReportSyncStatus(service *scheduler.ReportSyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetReportSyncStatus")

		if service == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização de relatórios não disponível", nil)
			return
		}

		json.NewEncoder(w).Encode(service.GetStatus())
	}
}
