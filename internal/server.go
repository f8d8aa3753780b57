package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/fitprogress/internal/app"
	"github.com/2beens/fitprogress/internal/auth"
	"github.com/2beens/fitprogress/internal/config"
	"github.com/2beens/fitprogress/internal/db"
	"github.com/2beens/fitprogress/internal/middleware"
	"github.com/2beens/fitprogress/internal/misc"
	"github.com/2beens/fitprogress/internal/plans"
	"github.com/2beens/fitprogress/internal/progress/evaluation"
	"github.com/2beens/fitprogress/internal/progress/logs"
	progressmcp "github.com/2beens/fitprogress/internal/progress/mcp"
	"github.com/2beens/fitprogress/internal/scheduler"
	"github.com/2beens/fitprogress/internal/telemetry/metrics"
	"github.com/2beens/fitprogress/internal/telemetry/tracing"
)

// log and plan requests are small JSON documents
const maxRequestBodyBytes = 1 << 20

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string
	adminSecret       string // guards /admin and /mcp

	config *config.Config
	dbPool *pgxpool.Pool
	core   *app.Core

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service
	scheduler    *scheduler.Scheduler

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config      *config.Config
	Secrets     *config.Secrets
	VersionInfo string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.Secrets.PostgresPassword,
		TracingEnabled: params.Secrets.HoneycombEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fitprogress", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.Secrets.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.Secrets.HoneycombEnabled, "fitprogress", rdb)
	if err != nil {
		return nil, err
	}

	core := app.NewCore(dbPool, params.Config, params.Secrets.InferenceAPIKey, metricsManager)
	authService := auth.NewAuthService(auth.NewUsersRepo(dbPool), auth.DefaultTTL, rdb)

	var sched *scheduler.Scheduler
	if params.Config.Scheduler.Enabled {
		sched, err = scheduler.New(scheduler.Params{
			Regenerator:             core.Plans,
			PlansRegenerationCron:   params.Config.Scheduler.PlansRegenerationCron,
			SessionsCleaner:         authService,
			SessionsCleanupInterval: time.Duration(params.Config.Scheduler.SessionsCleanupMinutes) * time.Minute,
		})
		if err != nil {
			return nil, fmt.Errorf("new scheduler: %w", err)
		}
	}

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		core:        core,
		versionInfo: params.VersionInfo,
		adminSecret: params.Secrets.AdminSecret,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),
		scheduler:    sched,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

type routerDeps struct {
	logs         *logs.Handler
	evaluations  *evaluation.Handler
	plans        *plans.Handler
	misc         *misc.Handler
	mcpServer    *mcp.Server
	rateLimiter  middleware.RequestRateLimiter
	loginChecker auth.Checker
}

func (s *Server) routerSetup() (*mux.Router, error) {
	return s.newRouter(routerDeps{
		logs:         logs.NewHandler(s.core.Logs, s.core.Evaluations),
		evaluations:  evaluation.NewHandler(s.core.Evaluations),
		plans:        plans.NewHandler(s.core.Plans),
		misc:         misc.NewHandler(s.versionInfo, s.authService),
		mcpServer:    progressmcp.NewServer(s.core.Evaluations, s.core.Plans),
		rateLimiter:  redis_rate.NewLimiter(s.redisClient),
		loginChecker: s.loginChecker,
	}), nil
}

func (s *Server) newRouter(deps routerDeps) *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	deps.misc.SetupRoutes(r, deps.rateLimiter, s.metricsManager, s.config.LoginRateLimitAllowedPerMin)

	r.HandleFunc("/progress/training/log", deps.logs.HandleLogTraining).Methods("POST", "OPTIONS").Name("log-training")
	r.HandleFunc("/progress/training/history", deps.logs.HandleTrainingHistory).Methods("GET", "OPTIONS").Name("training-history")
	r.HandleFunc("/progress/nutrition/log", deps.logs.HandleLogNutrition).Methods("POST", "OPTIONS").Name("log-nutrition")
	r.HandleFunc("/progress/nutrition/history", deps.logs.HandleNutritionHistory).Methods("GET", "OPTIONS").Name("nutrition-history")

	r.HandleFunc("/progress/training/exercise/{id}/progress", deps.evaluations.HandleExerciseProgress).Methods("GET", "OPTIONS").Name("exercise-progress")
	r.HandleFunc("/progress/nutrition/daily-summary", deps.evaluations.HandleDailySummary).Methods("GET", "OPTIONS").Name("daily-summary")
	r.HandleFunc("/progress/evaluate/history", deps.evaluations.HandleHistory).Methods("GET", "OPTIONS").Name("evaluation-history")

	// on-demand evaluations call the inference provider
	evaluateRouter := r.PathPrefix("/progress/evaluate").Subrouter()
	evaluateRouter.HandleFunc("/training", deps.evaluations.HandleEvaluateTraining).Methods("GET", "OPTIONS").Name("evaluate-training")
	evaluateRouter.HandleFunc("/nutrition", deps.evaluations.HandleEvaluateNutrition).Methods("GET", "OPTIONS").Name("evaluate-nutrition")
	evaluateRouter.HandleFunc("/full", deps.evaluations.HandleEvaluateFull).Methods("GET", "OPTIONS").Name("evaluate-full")
	evaluateRouter.Use(middleware.RateLimit(
		deps.rateLimiter,
		"evaluate",
		s.config.EvaluateRateLimitAllowedPerMin,
		s.metricsManager,
	))

	r.HandleFunc("/plans/workout/generate", deps.plans.HandleGenerateWorkout).Methods("POST", "OPTIONS").Name("generate-workout-plan")
	r.HandleFunc("/plans/meal/generate", deps.plans.HandleGenerateMeal).Methods("POST", "OPTIONS").Name("generate-meal-plan")
	r.HandleFunc("/plans/workout/latest", deps.plans.HandleLatestWorkout).Methods("GET", "OPTIONS").Name("latest-workout-plan")
	r.HandleFunc("/plans/meal/latest", deps.plans.HandleLatestMeal).Methods("GET", "OPTIONS").Name("latest-meal-plan")

	adminRouter := r.PathPrefix("/admin").Subrouter()
	adminRouter.HandleFunc("/plans/regenerate", deps.plans.HandleRegenerateAll).Methods("POST", "OPTIONS").Name("regenerate-plans")
	adminRouter.Use(middleware.AdminSecret(s.adminSecret))

	if deps.mcpServer != nil {
		mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return deps.mcpServer
		}, nil)
		r.PathPrefix("/mcp").Handler(middleware.AdminSecret(s.adminSecret)(mcpHandler)).Name("mcp")
	}

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(deps.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest(maxRequestBodyBytes))

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler: router,
		Addr:    ipAndPort,
		// evaluations and plan generation wait on the inference provider
		WriteTimeout: 3 * time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	if s.scheduler != nil {
		s.scheduler.Start(ctx)
	}

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.scheduler != nil {
		s.scheduler.Stop()
		log.Debugln("scheduler stopped")
	}

	// background evaluations still hold db connections
	log.Debugln("waiting for pending evaluations ...")
	s.core.Evaluations.Wait()

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
