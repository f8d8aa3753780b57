//go:build integration_test || all_tests

package test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"testing"
	"time"

	"github.com/2beens/fitprogress/internal"
	"github.com/2beens/fitprogress/internal/config"
	"github.com/2beens/fitprogress/pkg"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"
)

const (
	serverPort = 9000
	serverHost = "127.0.0.1"
	testDBName = "fitprogress"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

var (
	testEmail       = "ana@fitprogress.test"
	testPassword    = "testpass"
	testAdminSecret = "admin-secret"
	testUserID      = 1
	// seeded in initSQL
	testExerciseID = 1
)

// Define the suite, and absorb the built-in basic suite
// functionality from testify - including a T() method which
// returns the current testing context
type IntegrationTestSuite struct {
	suite.Suite

	DB         *sql.DB
	dockerPool *dockertest.Pool
	server     *internal.Server
	httpClient *http.Client
	teardown   []func()
}

// In order for 'go test' to run this suite, we need to create
// a normal test function and pass our suite to suite.Run
func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

// runs before all tests are executed
func (s *IntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	fmt.Println("setting up test suite...")

	s.teardown = make([]func(), 0)
	s.httpClient = &http.Client{Timeout: 30 * time.Second}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	var err error
	s.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}
	fmt.Println("dockertest poool created")

	// uses pool to try to connect to Docker
	if err = s.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}
	fmt.Println("dockertest pool ping successful")

	redisPort, err := s.redisSetup()
	if err != nil {
		s.cleanup()
		log.Fatalf("failed to setup redis: %s", err.Error())
	}
	fmt.Println("redis setup successful")

	pgPort, err := s.postgresSetup()
	if err != nil {
		s.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}
	fmt.Println("postgres setup successful")

	cfg := getTestConfig(redisPort, pgPort)
	s.server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config: cfg,
			Secrets: &config.Secrets{
				// no inference key: default feedback and template plans
				AdminSecret: testAdminSecret,
			},
			VersionInfo: "test-version-info",
		},
	)
	if err != nil {
		s.cleanup()
		log.Fatalf("new server: %s", err)
	}
	fmt.Println("server created")

	s.server.Serve(ctx, cfg.Host, cfg.Port)

	if err := s.dockerPool.Retry(func() error {
		resp, err := s.httpClient.Get(serverEndpoint + "/")
		if err != nil {
			return err
		}
		return resp.Body.Close()
	}); err != nil {
		s.cleanup()
		log.Fatalf("server not reachable: %s", err)
	}
	fmt.Println("server started")
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.cleanup()
}

func (s *IntegrationTestSuite) cleanup() {
	fmt.Println(" --> cleaning up test suite...")
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			fmt.Printf(" --> test suite db close error: %s\n", err)
		}
	}
	fmt.Println(" --> test suite db closed")
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	fmt.Println(" --> test suite server shut down")
	for _, teardown := range s.teardown {
		teardown()
	}
	fmt.Println(" --> test suite cleanup done")
}

func getTestConfig(redisPort, postgresPort string) *config.Config {
	return &config.Config{
		Host:                           serverHost,
		Port:                           serverPort,
		Environment:                    "test",
		RedisHost:                      "localhost",
		RedisPort:                      redisPort,
		PostgresPort:                   postgresPort,
		PostgresHost:                   "localhost",
		PostgresDBName:                 testDBName,
		PostgresUser:                   "postgres",
		PrometheusMetricsHost:          serverHost,
		PrometheusMetricsPort:          "9001",
		LoginRateLimitAllowedPerMin:    100,
		EvaluateRateLimitAllowedPerMin: 100,
		EvaluationTimeoutSeconds:       10,
	}
}

func (s *IntegrationTestSuite) redisSetup() (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Name:       "fitprogress-redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := redisResource.Close(); err != nil {
			fmt.Printf("redis teardown: %s\n", err)
		}
	})

	redisPort := redisResource.GetPort("6379/tcp")
	return redisPort, nil
}

func (s *IntegrationTestSuite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=" + testDBName,
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		if err := pgResource.Close(); err != nil {
			fmt.Printf("postgres teardown: %s\n", err)
		}
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf(
		"postgres://postgres@localhost:%s/%s?sslmode=disable",
		pgPort, testDBName,
	)

	s.DB, err = sql.Open("postgres", dsn)
	if err != nil {
		return "", fmt.Errorf("open db: %w", err)
	}

	if err := s.dockerPool.Retry(s.DB.Ping); err != nil {
		return "", fmt.Errorf("connect to db: %s", err)
	}

	if _, err := s.DB.Exec(initSQL); err != nil {
		return "", fmt.Errorf("run init script: %s", err)
	}

	passwordHash, err := pkg.HashPassword(testPassword)
	if err != nil {
		return "", err
	}
	if _, err := s.DB.Exec(
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3);`,
		testUserID, testEmail, passwordHash,
	); err != nil {
		return "", fmt.Errorf("seed user: %w", err)
	}
	if _, err := s.DB.Exec(seedSQL); err != nil {
		return "", fmt.Errorf("seed data: %w", err)
	}

	return pgPort, nil
}

const initSQL = `
CREATE TABLE public.users
(
    id            SERIAL PRIMARY KEY,
    email         VARCHAR NOT NULL UNIQUE,
    password_hash VARCHAR NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE public.user_profile
(
    user_id                  INTEGER PRIMARY KEY REFERENCES users (id),
    username                 VARCHAR NOT NULL,
    gender                   VARCHAR NOT NULL DEFAULT '',
    birth_date               DATE,
    current_weight_kg        DOUBLE PRECISION,
    height_cm                DOUBLE PRECISION,
    primary_goal             VARCHAR NOT NULL DEFAULT '',
    fitness_level            VARCHAR NOT NULL DEFAULT '',
    activity_level           VARCHAR NOT NULL DEFAULT '',
    training_days_per_week   INTEGER,
    session_duration_minutes INTEGER,
    equipment                VARCHAR NOT NULL DEFAULT '',
    injuries                 TEXT[],
    allergies                TEXT[],
    medical_conditions       TEXT[],
    diet_type                VARCHAR NOT NULL DEFAULT '',
    meals_per_day            INTEGER,
    target_calories          DOUBLE PRECISION,
    target_protein           DOUBLE PRECISION,
    target_carbs             DOUBLE PRECISION,
    target_fat               DOUBLE PRECISION
);

CREATE TABLE public.exercise
(
    id           SERIAL PRIMARY KEY,
    name         VARCHAR NOT NULL,
    muscle_group VARCHAR NOT NULL DEFAULT '',
    description  TEXT    NOT NULL DEFAULT ''
);

CREATE TABLE public.training_log
(
    id               SERIAL PRIMARY KEY,
    user_id          INTEGER          NOT NULL REFERENCES users (id),
    exercise_id      INTEGER          NOT NULL REFERENCES exercise (id),
    log_date         DATE             NOT NULL,
    sets             INTEGER          NOT NULL,
    reps             INTEGER          NOT NULL,
    load_kg          DOUBLE PRECISION NOT NULL,
    rest_seconds     INTEGER,
    duration_minutes INTEGER,
    effort           VARCHAR,
    notes            TEXT             NOT NULL DEFAULT '',
    completed        BOOLEAN          NOT NULL DEFAULT true
);
CREATE INDEX ix_training_log_user_date ON public.training_log (user_id, log_date);

CREATE TABLE public.nutrition_log
(
    id          SERIAL PRIMARY KEY,
    user_id     INTEGER NOT NULL REFERENCES users (id),
    log_date    DATE    NOT NULL,
    meal_slot   VARCHAR NOT NULL,
    calories    DOUBLE PRECISION,
    protein_g   DOUBLE PRECISION,
    carbs_g     DOUBLE PRECISION,
    fat_g       DOUBLE PRECISION,
    fiber_g     DOUBLE PRECISION,
    water_ml    DOUBLE PRECISION,
    description TEXT    NOT NULL DEFAULT '',
    planned     BOOLEAN NOT NULL DEFAULT false
);
CREATE INDEX ix_nutrition_log_user_date ON public.nutrition_log (user_id, log_date);

CREATE TABLE public.evaluation
(
    id                       SERIAL PRIMARY KEY,
    user_id                  INTEGER     NOT NULL REFERENCES users (id),
    evaluated_on             DATE        NOT NULL,
    kind                     VARCHAR     NOT NULL,
    training                 JSONB,
    nutrition                JSONB,
    training_trend           VARCHAR,
    training_improvement_pct DOUBLE PRECISION,
    nutrition_trend          VARCHAR,
    feedback                 TEXT        NOT NULL,
    recommendations          TEXT[]      NOT NULL DEFAULT '{}',
    achievements             TEXT[]      NOT NULL DEFAULT '{}',
    created_at               TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX ix_evaluation_user_created ON public.evaluation (user_id, created_at DESC);

CREATE TABLE public.workout_plan
(
    id         SERIAL PRIMARY KEY,
    user_id    INTEGER     NOT NULL REFERENCES users (id),
    starts_on  DATE        NOT NULL,
    source     VARCHAR     NOT NULL,
    days       JSONB       NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE public.meal_plan
(
    id         SERIAL PRIMARY KEY,
    user_id    INTEGER     NOT NULL REFERENCES users (id),
    starts_on  DATE        NOT NULL,
    source     VARCHAR     NOT NULL,
    days       JSONB       NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const seedSQL = `
SELECT setval('users_id_seq', (SELECT MAX(id) FROM users));

INSERT INTO user_profile (user_id, username, gender, birth_date, current_weight_kg, height_cm, primary_goal,
                          fitness_level, activity_level, training_days_per_week, session_duration_minutes,
                          equipment, diet_type, meals_per_day, target_calories, target_protein, target_carbs,
                          target_fat)
VALUES (1, 'ana', 'FEMALE', '1992-05-10', 64.5, 170, 'GAIN_MUSCLE', 'INTERMEDIATE', 'MODERATE', 4, 60,
        'GYM', 'OMNIVORE', 4, 2200, 130, 250, 70);

INSERT INTO exercise (name, muscle_group, description)
VALUES ('Barbell Squat', 'legs', 'back squat'),
       ('Bench Press', 'chest', 'flat bench');
`
