package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/meta-ads-reporter/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/meta-ads-reporter/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/meta-ads-reporter/infrastructure/tablestore"
	"github.com/vfg2006/meta-ads-reporter/internal/config"
	"github.com/vfg2006/meta-ads-reporter/internal/domain"
	"github.com/vfg2006/meta-ads-reporter/internal/usecases/aggregating"
	"github.com/vfg2006/meta-ads-reporter/internal/usecases/planning"
	"github.com/vfg2006/meta-ads-reporter/internal/usecases/reconciling"
	"github.com/vfg2006/meta-ads-reporter/pkg/utils"
)

// ErrSyncAlreadyRunning indica que uma execução sobreposta foi abortada pelo
// guarda de voo único. Duas reconciliações nunca podem disputar o mesmo
// ledger: as políticas de upsert e de partição leem e reescrevem a tabela
// inteira.
var ErrSyncAlreadyRunning = errors.New("sincronização de relatórios já em andamento")

// ReportSyncConfig representa a configuração do agendador de relatórios
type ReportSyncConfig struct {
	CronSchedule         string
	BucketDelaySeconds   int
	MaxConcurrentFetches int
	SyncEnabled          bool
}

// RunResult resume uma execução: janelas tentadas versus concluídas. A
// execução como um todo é bem-sucedida quando ao menos uma janela concluiu.
type RunResult struct {
	RunID     string
	Attempted int
	Succeeded int
	Failed    int
}

// ReportSyncService orquestra, para cada janela pendente, a sequência
// buscar → agregar → reconciliar, isolando falhas por janela.
type ReportSyncService struct {
	scheduler  *gocron.Scheduler
	config     ReportSyncConfig
	appConfig  *config.Config
	store      tablestore.TableStore
	metaClient metaclient.Client
	aggregator *aggregating.Service
	planner    *planning.Service
	reconciler *reconciling.Service

	syncRunning        bool
	syncMutex          sync.Mutex
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
	lastResult         *RunResult
}

// NewReportSyncService cria uma nova instância do serviço de sincronização de relatórios
func NewReportSyncService(
	store tablestore.TableStore,
	metaClient metaclient.Client,
	aggregator *aggregating.Service,
	planner *planning.Service,
	reconciler *reconciling.Service,
	appConfig *config.Config,
) *ReportSyncService {
	syncConfig := ReportSyncConfig{
		CronSchedule:         appConfig.Sync.CronSchedule,
		BucketDelaySeconds:   appConfig.Sync.BucketDelaySeconds,
		MaxConcurrentFetches: appConfig.Fetch.MaxConcurrentFetches,
		SyncEnabled:          appConfig.Sync.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":        syncConfig.CronSchedule,
		"bucket_delay_seconds": syncConfig.BucketDelaySeconds,
		"max_concurrent":       syncConfig.MaxConcurrentFetches,
		"sync_enabled":         syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de relatórios carregada")

	return &ReportSyncService{
		scheduler:  gocron.NewScheduler(appConfig.Report.Location),
		config:     syncConfig,
		appConfig:  appConfig,
		store:      store,
		metaClient: metaClient,
		aggregator: aggregator,
		planner:    planner,
		reconciler: reconciler,
	}
}

// Start inicia o agendador
func (s *ReportSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de relatórios desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de relatórios")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runScheduled(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de relatórios: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de relatórios")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *ReportSyncService) runScheduled(ctx context.Context) {
	result, err := s.RunOnce(ctx)
	if err != nil {
		if errors.Is(err, ErrSyncAlreadyRunning) {
			logrus.Info("Sincronização de relatórios já em andamento, ignorando disparo do agendador")
			return
		}
		logrus.WithError(err).Error("Sincronização de relatórios abortada")
		return
	}

	if result.Succeeded == 0 {
		logrus.WithFields(logrus.Fields{
			"run_id":    result.RunID,
			"attempted": result.Attempted,
		}).Error("Nenhuma janela foi reconciliada nesta execução")
	}
}

// TriggerManualSync inicia manualmente uma sincronização de relatórios
func (s *ReportSyncService) TriggerManualSync() {
	go func() {
		if _, err := s.RunOnce(context.Background()); err != nil && !errors.Is(err, ErrSyncAlreadyRunning) {
			logrus.WithError(err).Error("Sincronização manual de relatórios falhou")
		}
	}()
}

// RunOnce executa uma sincronização completa: planeja as janelas pendentes e
// processa cada uma em sequência estrita. Falha de uma janela não interrompe
// as seguintes; rejeição de credencial aborta a execução inteira.
func (s *ReportSyncService) RunOnce(ctx context.Context) (*RunResult, error) {
	startTime := time.Now()

	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		return nil, ErrSyncAlreadyRunning
	}
	s.syncRunning = true
	s.lastRunStartedAt = startTime
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	runID, err := utils.GenerateID()
	if err != nil {
		runID = "run"
	}

	now := time.Now()
	last := s.lastRecordedBucket(ctx)

	var override *int
	if s.appConfig.Backfill.OverrideHours > 0 {
		override = &s.appConfig.Backfill.OverrideHours
	}

	buckets := s.planner.Plan(last, now, override)

	logrus.WithFields(logrus.Fields{
		"run_id":  runID,
		"buckets": len(buckets),
		"from":    buckets[0].Format(utils.TimestampLabelLayout),
		"to":      buckets[len(buckets)-1].Format(utils.TimestampLabelLayout),
	}).Info("Janelas planejadas para sincronização")

	result := &RunResult{RunID: runID, Attempted: len(buckets)}

	for i, bucket := range buckets {
		if err := s.processBucket(ctx, runID, bucket, now); err != nil {
			var authErr *metadomain.AuthError
			if errors.As(err, &authErr) {
				// Sem credencial válida nenhuma janela pode concluir
				result.Failed = result.Attempted - result.Succeeded
				s.finishRun(result, startTime)
				return result, err
			}

			result.Failed++
			logrus.WithError(err).WithFields(logrus.Fields{
				"run_id": runID,
				"bucket": bucket.Format(utils.TimestampLabelLayout),
			}).Error("Falha ao processar janela; seguindo para a próxima")
		} else {
			result.Succeeded++
		}

		// Intervalo entre janelas para respeitar o rate limit da API
		if i < len(buckets)-1 {
			time.Sleep(time.Duration(s.config.BucketDelaySeconds) * time.Second)
		}
	}

	s.finishRun(result, startTime)
	return result, nil
}

func (s *ReportSyncService) finishRun(result *RunResult, startTime time.Time) {
	s.syncMutex.Lock()
	s.lastRunCompletedAt = time.Now()
	s.lastResult = result
	s.syncMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"run_id":    result.RunID,
		"attempted": result.Attempted,
		"succeeded": result.Succeeded,
		"failed":    result.Failed,
		"duration":  time.Since(startTime).String(),
	}).Info("Sincronização de relatórios concluída")
}

// lastRecordedBucket lê a última janela registrada na trilha horária. Sem
// registro (ou com rótulo ilegível) retorna nil, o que o planejador trata
// como primeira execução.
func (s *ReportSyncService) lastRecordedBucket(ctx context.Context) *time.Time {
	grid, err := s.store.ReadAll(ctx, s.appConfig.Report.HourlyTableID)
	if err != nil {
		logrus.WithError(err).Warn("Erro ao ler a trilha horária; assumindo primeira execução")
		return nil
	}

	tbl := domain.TableFromGrid(grid)
	for i := len(tbl.Rows) - 1; i >= 0; i-- {
		label, ok := tbl.Rows[i][domain.ColumnTimestamp].(string)
		if !ok || label == "" {
			continue // linhas de erro não carregam timestamp
		}

		bucket, err := utils.ParseTimestampLabel(label, s.appConfig.Report.Location)
		if err != nil {
			logrus.WithField("label", label).Warn("Rótulo de timestamp ilegível na trilha horária")
			continue
		}
		return &bucket
	}

	return nil
}

// processBucket executa buscar → agregar → reconciliar para uma janela.
func (s *ReportSyncService) processBucket(ctx context.Context, runID string, bucket, now time.Time) error {
	bucketLabel := bucket.Format(utils.TimestampLabelLayout)
	dateLabel := bucket.Format(utils.DateLabelLayout)

	logger := logrus.WithFields(logrus.Fields{
		"run_id": runID,
		"bucket": bucketLabel,
	})

	current := utils.TruncateToHour(now, s.appConfig.Report.Location)
	if bucket.Before(current) {
		// A API só expõe o acumulado do dia corrente: uma janela retroativa
		// recebe o rótulo pretendido, mas carrega o snapshot do momento da
		// coleta, não a atividade isolada daquela hora.
		logger.Warn("Janela retroativa: dados refletem o acumulado do dia no momento da coleta")
	}

	records, err := s.fetchAllAccounts(ctx, logger)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return fmt.Errorf("nenhum registro de insights retornado para a janela %s", bucketLabel)
	}

	byAd := s.aggregator.AggregateByAd(records)
	total := s.aggregator.AggregateTotal(records)

	// Tabela diária por anúncio: o dia corrente é recalculado por inteiro,
	// dias anteriores ficam congelados.
	adLevel := domain.BuildAdLevelTable(dateLabel, byAd)
	err = s.reconciler.Reconcile(ctx, s.appConfig.Report.AdLevelTableID, adLevel, reconciling.Options{
		Policy:          domain.PolicyReplacePartition,
		PartitionColumn: domain.ColumnDate,
		PartitionKey:    dateLabel,
	})
	if err != nil {
		s.writeErrorRow(ctx, fmt.Sprintf("Erro na tabela por anúncio (%s): %v", bucketLabel, err))
		return err
	}

	// Trilha horária: uma linha por janela, append puro.
	hourly := domain.BuildHourlyTable(dateLabel, bucketLabel, total)
	err = s.reconciler.Reconcile(ctx, s.appConfig.Report.HourlyTableID, hourly, reconciling.Options{
		Policy: domain.PolicyAppendOnly,
	})
	if err != nil {
		s.writeErrorRow(ctx, fmt.Sprintf("Erro na trilha horária (%s): %v", bucketLabel, err))
		return err
	}

	// Resumo diário: última visão conhecida do dia, chaveada pela data.
	daily := domain.BuildDailyTable(dateLabel, total)
	err = s.reconciler.Reconcile(ctx, s.appConfig.Report.DailyTableID, daily, reconciling.Options{
		Policy:    domain.PolicyUpsertByKey,
		KeyColumn: domain.ColumnDate,
	})
	if err != nil {
		s.writeErrorRow(ctx, fmt.Sprintf("Erro no resumo diário (%s): %v", bucketLabel, err))
		return err
	}

	logger.WithFields(logrus.Fields{
		"records": len(records),
		"ads":     len(byAd),
	}).Info("Janela reconciliada com sucesso")

	return nil
}

// fetchAllAccounts busca os insights de todas as contas configuradas com
// concorrência limitada. Falhas transitórias degradam para dados parciais;
// rejeição de credencial é propagada e aborta a execução.
func (s *ReportSyncService) fetchAllAccounts(ctx context.Context, logger *logrus.Entry) ([]metadomain.AdInsight, error) {
	semaphore := make(chan struct{}, s.config.MaxConcurrentFetches)
	var wg sync.WaitGroup
	var mu sync.Mutex

	var records []metadomain.AdInsight
	var authErr error
	incomplete := 0

	for _, accountID := range s.appConfig.Meta.AdAccountIDs {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(id string) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			result, err := s.metaClient.GetAdInsights(ctx, id)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				var ae *metadomain.AuthError
				if errors.As(err, &ae) {
					authErr = err
					return
				}
				logger.WithError(err).WithField("account_id", id).Error("Erro ao buscar insights da conta")
				incomplete++
				return
			}

			records = append(records, result.Records...)
			if !result.Complete {
				incomplete++
			}
		}(accountID)
	}

	wg.Wait()

	if authErr != nil {
		return nil, authErr
	}

	if incomplete > 0 {
		logger.WithField("incomplete_accounts", incomplete).Warn("Coleta parcial: algumas contas não retornaram todas as páginas")
	}

	return records, nil
}

// writeErrorRow registra a falha como uma linha de evento na trilha horária,
// em melhor esforço.
func (s *ReportSyncService) writeErrorRow(ctx context.Context, message string) {
	tableID := s.appConfig.Report.HourlyTableID

	grid, err := s.store.ReadAll(ctx, tableID)
	if err != nil {
		logrus.WithError(err).Warn("Não foi possível ler a trilha horária para registrar o erro")
		return
	}

	// Em tabela nunca inicializada a linha 1 seria interpretada como
	// cabeçalho na próxima leitura, transformando a mensagem em coluna.
	if len(grid) == 0 {
		logrus.WithField("message", message).Warn("Trilha horária sem cabeçalho; linha de erro não registrada")
		return
	}

	timestamp := time.Now().In(s.appConfig.Report.Location).Format(utils.TimestampLabelLayout)
	row := []any{fmt.Sprintf("Erro em %s: %s", timestamp, message)}

	if err := s.store.WriteRows(ctx, tableID, [][]any{row}, len(grid)+1); err != nil {
		logrus.WithError(err).Warn("Não foi possível registrar a linha de erro na trilha horária")
	}
}

// GetStatus retorna o status atual do agendador
func (s *ReportSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"backfill_enabled":       s.appConfig.Backfill.Enabled,
		"backfill_max_hours":     s.appConfig.Backfill.MaxHours,
		"last_sync_started_at":   s.lastRunStartedAt,
		"last_sync_completed_at": s.lastRunCompletedAt,
	}

	if s.lastResult != nil {
		status["last_run_id"] = s.lastResult.RunID
		status["last_run_attempted"] = s.lastResult.Attempted
		status["last_run_succeeded"] = s.lastResult.Succeeded
		status["last_run_failed"] = s.lastResult.Failed
	}

	return status
}
