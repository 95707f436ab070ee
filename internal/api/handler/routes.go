package handler

import (
	"net/http"

	"github.com/vfg2006/meta-ads-reporter/internal/api/handler/router"
	"github.com/vfg2006/meta-ads-reporter/internal/scheduler"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func ReportSync(service *scheduler.ReportSyncService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/sync/run",
			Method:  http.MethodPost,
			Handler: RunReportSync(service),
		},
		{
			Path:    "/v1/sync/status",
			Method:  http.MethodGet,
			Handler: GetReportSyncStatus(service),
		},
	}
}
