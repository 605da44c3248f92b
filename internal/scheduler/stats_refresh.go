package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-api/internal/cache"
	"github.com/vfg2006/crm-api/internal/config"
	"github.com/vfg2006/crm-api/internal/usecases/dashboarding"
)

// StatsRefreshConfig representa a configuração do agendador de estatísticas
type StatsRefreshConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// StatsRefreshService mantém as estatísticas do dashboard aquecidas no cache,
// recalculando o agregado periodicamente em vez de esperar a primeira
// requisição após cada invalidação.
type StatsRefreshService struct {
	scheduler           *gocron.Scheduler
	config              StatsRefreshConfig
	dashboardService    dashboarding.DashboardService
	store               *cache.Store
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       error
}

// NewStatsRefreshService cria uma nova instância do serviço de atualização de estatísticas
func NewStatsRefreshService(
	dashboardService dashboarding.DashboardService,
	store *cache.Store,
	appConfig *config.Config,
) *StatsRefreshService {
	statsConfig := StatsRefreshConfig{
		CronSchedule: appConfig.StatsSync.CronSchedule,
		SyncEnabled:  appConfig.StatsSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": statsConfig.CronSchedule,
		"sync_enabled":  statsConfig.SyncEnabled,
	}).Info("Configuração do agendador de estatísticas carregada")

	return &StatsRefreshService{
		scheduler:        scheduler,
		config:           statsConfig,
		dashboardService: dashboardService,
		store:            store,
		syncRunning:      false,
	}
}

// Start inicia o agendador
func (s *StatsRefreshService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Atualização periódica de estatísticas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de atualização de estatísticas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.refreshStats()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar atualização de estatísticas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de atualização de estatísticas")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualSync dispara a atualização fora da grade do cron
func (s *StatsRefreshService) TriggerManualSync() {
	go s.refreshStats()
}

// Status retorna o estado atual do agendador
func (s *StatsRefreshService) Status() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"enabled":       s.config.SyncEnabled,
		"cron_schedule": s.config.CronSchedule,
		"running":       s.syncRunning,
	}

	if !s.lastSyncStartedAt.IsZero() {
		status["last_sync_started_at"] = s.lastSyncStartedAt
	}
	if !s.lastSyncCompletedAt.IsZero() {
		status["last_sync_completed_at"] = s.lastSyncCompletedAt
	}
	if s.lastSyncError != nil {
		status["last_sync_error"] = s.lastSyncError.Error()
	}

	return status
}

func (s *StatsRefreshService) refreshStats() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Atualização de estatísticas já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	// Invalida e recalcula para que a próxima leitura já encontre o valor quente
	if s.store != nil {
		s.store.InvalidateKind(cache.KindDashboard)
	}

	stats, err := s.dashboardService.GetDashboardStats()

	s.syncMutex.Lock()
	s.lastSyncError = err
	s.syncMutex.Unlock()

	if err != nil {
		logrus.WithError(err).Error("Erro ao atualizar estatísticas do dashboard")
		return
	}

	logrus.WithFields(logrus.Fields{
		"total_deals": stats.TotalDeals,
		"won_deals":   stats.WonDeals,
	}).Info("Estatísticas do dashboard atualizadas")
}
