package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/meta-ads-reporter/infrastructure/database/postgres"
	metadomain "github.com/vfg2006/meta-ads-reporter/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/meta-ads-reporter/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/meta-ads-reporter/infrastructure/tablestore"
	"github.com/vfg2006/meta-ads-reporter/internal/api"
	"github.com/vfg2006/meta-ads-reporter/internal/config"
	"github.com/vfg2006/meta-ads-reporter/internal/scheduler"
	"github.com/vfg2006/meta-ads-reporter/internal/usecases/aggregating"
	"github.com/vfg2006/meta-ads-reporter/internal/usecases/planning"
	"github.com/vfg2006/meta-ads-reporter/internal/usecases/reconciling"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	if cfg.Meta.AccessToken == "" {
		logrus.Fatal("META_ACCESS_TOKEN não configurado")
	}
	if len(cfg.Meta.AdAccountIDs) == 0 {
		logrus.Fatal("META_AD_ACCOUNT_IDS não configurado")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, cleanup := newTableStore(ctx, cfg)
	defer cleanup()

	metaClient := metaclient.NewClient(cfg)
	aggregator := aggregating.NewService()
	planner := planning.NewService(cfg.Backfill, cfg.Report.Location)
	reconciler := reconciling.NewService(store)

	reportSyncService := scheduler.NewReportSyncService(
		store,
		metaClient,
		aggregator,
		planner,
		reconciler,
		cfg,
	)

	if cfg.App.RunMode == "once" {
		runOnce(ctx, reportSyncService)
		return
	}

	if err := reportSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de relatórios")
	} else {
		logrus.Info("Agendador de sincronização de relatórios iniciado com sucesso")
	}

	server, err := api.New(cfg, reportSyncService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// runOnce executa uma única sincronização e encerra o processo. O código de
// saída reflete o resultado: 0 quando ao menos uma janela foi reconciliada,
// 1 caso contrário.
func runOnce(ctx context.Context, service *scheduler.ReportSyncService) {
	result, err := service.RunOnce(ctx)
	if err != nil {
		var authErr *metadomain.AuthError
		if errors.As(err, &authErr) {
			logrus.WithError(err).Error("Credencial rejeitada pela API; execução abortada")
		} else {
			logrus.WithError(err).Error("Sincronização de relatórios falhou")
		}
		os.Exit(1)
	}

	if result.Succeeded == 0 {
		logrus.WithField("attempted", result.Attempted).Error("Nenhuma janela foi reconciliada")
		os.Exit(1)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// newTableStore escolhe o armazenamento tabular: PostgreSQL quando
// DATABASE_URL está configurado, memória caso contrário. O modo em memória
// serve para desenvolvimento local; nada sobrevive ao processo.
func newTableStore(ctx context.Context, cfg *config.Config) (tablestore.TableStore, func()) {
	if cfg.Database.DSN == "" {
		logrus.Warn("DATABASE_URL não configurado; usando armazenamento em memória (dados não persistem)")
		return tablestore.NewMemoryStore(), func() {}
	}

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")

	store := tablestore.NewPostgresStore(conn)
	if err := store.EnsureSchema(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao preparar o schema do ledger")
	}

	return store, func() { conn.Close() }
}
