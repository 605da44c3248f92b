package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/crm-api/infrastructure/database/postgres"
	"github.com/vfg2006/crm-api/infrastructure/integrator/calls"
	"github.com/vfg2006/crm-api/infrastructure/integrator/calls/callsclient"
	"github.com/vfg2006/crm-api/infrastructure/repository"
	"github.com/vfg2006/crm-api/internal/api"
	"github.com/vfg2006/crm-api/internal/cache"
	"github.com/vfg2006/crm-api/internal/config"
	"github.com/vfg2006/crm-api/internal/events"
	"github.com/vfg2006/crm-api/internal/scheduler"
	"github.com/vfg2006/crm-api/internal/usecases/activity"
	"github.com/vfg2006/crm-api/internal/usecases/authenticating"
	"github.com/vfg2006/crm-api/internal/usecases/company"
	"github.com/vfg2006/crm-api/internal/usecases/contact"
	"github.com/vfg2006/crm-api/internal/usecases/dashboarding"
	"github.com/vfg2006/crm-api/internal/usecases/deal"
	"github.com/vfg2006/crm-api/internal/usecases/profile"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	companyRepo := repository.NewCompanyRepository(pgConn)
	contactRepo := repository.NewContactRepository(pgConn)
	dealRepo := repository.NewDealRepository(pgConn)
	activityRepo := repository.NewActivityRepository(pgConn)
	profileRepo := repository.NewProfileRepository(pgConn)

	// Barramento de eventos de domínio: toda mutação relevante gera um
	// registro de auditoria via assinante, sem acoplar os serviços
	bus := events.NewBus()
	bus.Subscribe(events.NewActivityRecorder(activityRepo))

	// Cache de consultas compartilhado entre os serviços
	var store *cache.Store
	if cfg.Cache.Enabled {
		store = cache.New(time.Duration(cfg.Cache.TTLSeconds) * time.Second)
		logrus.WithField("ttl_seconds", cfg.Cache.TTLSeconds).Info("Cache de consultas habilitado")
	} else {
		logrus.Info("Cache de consultas desabilitado por configuração")
	}

	authenticator := authenticating.NewService(profileRepo, cfg)

	companyService := company.NewService(companyRepo, bus).(*company.Service).WithCache(store)
	contactService := contact.NewService(contactRepo, bus).(*contact.Service).WithCache(store)
	dealService := deal.NewService(dealRepo, bus).(*deal.Service).WithCache(store)
	activityService := activity.NewService(activityRepo).(*activity.Service).WithCache(store)
	dashboardService := dashboarding.NewService(dealRepo).(*dashboarding.Service).WithCache(store)
	profileService := profile.NewService(profileRepo).(*profile.Service).WithCache(store)

	callsClient := callsclient.NewClient(cfg)
	callsIntegrator := calls.New(cfg, callsClient)

	// Agendador que mantém as estatísticas do dashboard aquecidas
	statsRefreshService := scheduler.NewStatsRefreshService(dashboardService, store, cfg)
	if err := statsRefreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de atualização de estatísticas")
	} else {
		logrus.Info("Agendador de atualização de estatísticas iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		companyService,
		contactService,
		dealService,
		activityService,
		dashboardService,
		profileService,
		authenticator,
		callsIntegrator,
		statsRefreshService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
