// Package main provides the long-running review service: it serves the
// current evaluation over HTTP, memoized through a TTL cache, alongside
// health and Prometheus metrics endpoints.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"promotion-lab/internal/decision"
	"promotion-lab/internal/domain"
	"promotion-lab/internal/observability"
	"promotion-lab/internal/review"
	"promotion-lab/internal/storage"
	chstore "promotion-lab/internal/storage/clickhouse"
	"promotion-lab/internal/storage/instrument"
	"promotion-lab/internal/storage/memory"
	"promotion-lab/internal/storage/migrations"
	pgstore "promotion-lab/internal/storage/postgres"
	"promotion-lab/internal/timeline"
)

// Server holds the wired components and request defaults.
type Server struct {
	cache   *review.Cache
	metrics *observability.Metrics
	logger  *log.Logger

	defaultConfig review.Config
}

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", ":8080", "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useFixtures := flag.Bool("use-fixtures", false, "Use in-memory fixtures instead of database")
	startDate := flag.String("start-date", "", "Default evaluation window start (YYYY-MM-DD)")
	deadline := flag.String("deadline", "", "Default decision deadline (YYYY-MM-DD)")
	capital := flag.Float64("capital", 100000, "Starting capital")
	benchmarkSymbol := flag.String("benchmark", "SPY", "Benchmark instrument symbol (empty to disable)")
	cacheTTL := flag.Duration("cache-ttl", 5*time.Minute, "Evaluation cache TTL")
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if !*useFixtures && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-fixtures for demo data)")
	}
	if *useFixtures {
		if names := fixtureOverrides(flag.CommandLine); len(names) > 0 {
			logger.Fatalf("%s cannot be combined with --use-fixtures: the demo dataset pins its own evaluation window", strings.Join(names, ", "))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics("")

	var (
		engine  *review.Engine
		cleanup func()
		cfg     review.Config
	)

	if *useFixtures {
		tradeStore := memory.NewTradeStore()
		priceStore := memory.NewPriceSeriesStore()
		snapshotStore := memory.NewBalanceSnapshotStore()
		runStore := memory.NewRunStore()
		if err := review.LoadFixtures(ctx, tradeStore, priceStore, snapshotStore, runStore); err != nil {
			logger.Fatalf("Failed to load fixtures: %v", err)
		}
		engine = review.NewEngine(tradeStore, priceStore, snapshotStore, runStore).
			WithClock(func() time.Time { return review.FixtureNow })
		cfg = review.FixtureConfig()
		cleanup = func() {}
	} else {
		var err error
		engine, cleanup, err = createDatabaseEngine(ctx, *postgresDSN, *clickhouseDSN, metrics)
		if err != nil {
			logger.Fatalf("Failed to create stores: %v", err)
		}

		cfg = review.Config{
			StartingCapital: *capital,
			Targets:         decision.DefaultTargets(),
		}
		if cfg.StartDate, err = time.Parse("2006-01-02", *startDate); err != nil {
			logger.Fatalf("Invalid --start-date %q: expected YYYY-MM-DD", *startDate)
		}
		if cfg.Deadline, err = time.Parse("2006-01-02", *deadline); err != nil {
			logger.Fatalf("Invalid --deadline %q: expected YYYY-MM-DD", *deadline)
		}
	}
	defer cleanup()

	if *benchmarkSymbol != "" {
		engine = engine.WithBenchmark(*benchmarkSymbol)
	}

	cache := review.NewCache(engine, *cacheTTL).WithObserver(func(hit bool) {
		if hit {
			metrics.CacheHits.Inc()
		} else {
			metrics.CacheMisses.Inc()
		}
	})

	srv := &Server{
		cache:         cache,
		metrics:       metrics,
		logger:        logger,
		defaultConfig: cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/review", srv.handleReview)
	mux.HandleFunc("/healthz", srv.handleHealthz)
	mux.Handle("/metrics", observability.Handler())

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("Listening on %s", *addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Printf("Received %v, shutting down", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Shutdown error: %v", err)
	}
}

// reviewResponse is the JSON shape of /api/review.
type reviewResponse struct {
	GeneratedAt  time.Time `json:"generated_at"`
	Verdict      string    `json:"verdict"`
	Passed       int       `json:"passed"`
	Checks       int       `json:"checks"`
	Gaps         []string  `json:"gaps"`
	KPI          kpiBlock  `json:"kpi"`
	DrawdownMode string    `json:"drawdown_mode"`
	TimelineDays int       `json:"timeline_days"`
	LastBalance  *dayBlock `json:"last_balance,omitempty"`
}

type kpiBlock struct {
	WinRate      float64 `json:"win_rate"`
	AnnualReturn float64 `json:"annual_return"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	Uptime       float64 `json:"uptime"`
	TotalTrades  int     `json:"total_trades"`
	TotalPnL     float64 `json:"total_pnl"`
}

type dayBlock struct {
	Date   string  `json:"date"`
	Cash   float64 `json:"cash"`
	Equity float64 `json:"equity"`
	Total  float64 `json:"total"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	started := time.Now()
	result, err := s.cache.Evaluate(r.Context(), s.defaultConfig)
	if err != nil {
		if errors.Is(err, timeline.ErrInvalidDateRange) || errors.Is(err, timeline.ErrZeroStartingCapital) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Printf("Evaluation failed: %v", err)
		http.Error(w, "evaluation failed", http.StatusInternalServerError)
		return
	}

	s.metrics.RecordEvaluation(
		string(result.Verdict.Verdict),
		time.Since(started).Seconds(),
		map[string]float64{
			"win_rate":      result.KPI.WinRate,
			"annual_return": result.KPI.AnnualReturn,
			"max_drawdown":  result.KPI.MaxDrawdown,
			"uptime":        result.KPI.Uptime,
		},
		result.Verdict.Passed,
		len(result.Timeline),
		result.GeneratedAt.Unix(),
	)

	resp := reviewResponse{
		GeneratedAt:  result.GeneratedAt,
		Verdict:      string(result.Verdict.Verdict),
		Passed:       result.Verdict.Passed,
		Checks:       len(result.Verdict.Checks),
		Gaps:         result.Verdict.Gaps,
		DrawdownMode: string(result.DrawdownMode),
		TimelineDays: len(result.Timeline),
		KPI: kpiBlock{
			WinRate:      domain.Round1(result.KPI.WinRate),
			AnnualReturn: domain.Round1(result.KPI.AnnualReturn),
			MaxDrawdown:  domain.Round1(result.KPI.MaxDrawdown),
			Uptime:       domain.Round1(result.KPI.Uptime),
			TotalTrades:  result.KPI.TotalTrades,
			TotalPnL:     domain.Round2(result.KPI.TotalPnL),
		},
	}
	if n := len(result.Timeline); n > 0 {
		last := result.Timeline[n-1]
		resp.LastBalance = &dayBlock{
			Date:   last.Date.Format("2006-01-02"),
			Cash:   last.Cash,
			Equity: last.Equity,
			Total:  last.Total,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Printf("Encode response: %v", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

// fixtureOverrides reports the evaluation flags that were set
// explicitly even though --use-fixtures pins the demo configuration.
func fixtureOverrides(fs *flag.FlagSet) []string {
	var names []string
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "start-date", "deadline", "capital":
			names = append(names, "--"+f.Name)
		}
	})
	return names
}

// createDatabaseEngine connects to PostgreSQL and ClickHouse, applies
// migrations and wires the instrumented stores into an engine.
func createDatabaseEngine(ctx context.Context, postgresDSN, clickhouseDSN string, metrics *observability.Metrics) (*review.Engine, func(), error) {
	pgPool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pgPool); err != nil {
		pgPool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pgPool.Close()
		return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}

	var (
		trades    storage.TradeStore           = instrument.NewTradeStore(pgstore.NewTradeStore(pgPool), "postgres", metrics)
		snapshots storage.BalanceSnapshotStore = instrument.NewBalanceSnapshotStore(pgstore.NewBalanceSnapshotStore(pgPool), "postgres", metrics)
		runs      storage.RunStore             = instrument.NewRunStore(pgstore.NewRunStore(pgPool), "postgres", metrics)
		prices    storage.PriceSeriesStore     = instrument.NewPriceSeriesStore(chstore.NewPriceSeriesStore(chConn), "clickhouse", metrics)
	)

	cleanup := func() {
		pgPool.Close()
		_ = chConn.Close()
	}
	return review.NewEngine(trades, prices, snapshots, runs), cleanup, nil
}
