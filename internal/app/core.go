package app

import (
	"github.com/2beens/fitprogress/internal/config"
	"github.com/2beens/fitprogress/internal/inference"
	"github.com/2beens/fitprogress/internal/plans"
	"github.com/2beens/fitprogress/internal/profiles"
	"github.com/2beens/fitprogress/internal/progress/evaluation"
	"github.com/2beens/fitprogress/internal/progress/logs"
	"github.com/2beens/fitprogress/internal/telemetry/metrics"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Core holds the domain services shared by the HTTP service, the MCP server and progressctl.
type Core struct {
	LogsRepo        *logs.Repo
	ProfilesRepo    *profiles.Repo
	EvaluationsRepo *evaluation.Repo
	PlansRepo       *plans.Repo

	Orchestrator *inference.Orchestrator
	Logs         *logs.Service
	Evaluations  *evaluation.Service
	Plans        *plans.Synthesizer
}

func NewCore(
	dbPool *pgxpool.Pool,
	cfg *config.Config,
	inferenceAPIKey string,
	metricsManager *metrics.Manager,
) *Core {
	if inferenceAPIKey == "" {
		log.Warnln("inference API key not set, default feedback and template plans will be used")
	}

	client := inference.NewClient(inference.ClientParams{
		APIURL:  cfg.Inference.APIURL,
		APIKey:  inferenceAPIKey,
		Referer: cfg.Inference.Referer,
		Title:   cfg.Inference.Title,
		Timeout: cfg.Inference.Timeout(),
	})
	orchestrator := inference.NewOrchestrator(client, inference.OrchestratorParams{
		PrimaryModel:   cfg.Inference.Model,
		FallbackModel:  cfg.Inference.FallbackModel,
		CacheSizeMB:    cfg.Inference.CacheSizeMB,
		CacheTTL:       cfg.Inference.CacheTTL(),
		MetricsManager: metricsManager,
	})

	logsRepo := logs.NewRepo(dbPool)
	profilesRepo := profiles.NewRepo(dbPool)
	evaluationsRepo := evaluation.NewRepo(dbPool)
	plansRepo := plans.NewRepo(dbPool)

	return &Core{
		LogsRepo:        logsRepo,
		ProfilesRepo:    profilesRepo,
		EvaluationsRepo: evaluationsRepo,
		PlansRepo:       plansRepo,
		Orchestrator:    orchestrator,
		Logs:            logs.NewService(logsRepo, metricsManager),
		Evaluations: evaluation.NewService(evaluation.ServiceParams{
			LogsRepo:        logsRepo,
			ProfilesRepo:    profilesRepo,
			EvaluationsRepo: evaluationsRepo,
			Generator:       orchestrator,
			MetricsManager:  metricsManager,
			DispatchTimeout: cfg.EvaluationTimeout(),
		}),
		Plans: plans.NewSynthesizer(orchestrator, plansRepo, profilesRepo, metricsManager),
	}
}
