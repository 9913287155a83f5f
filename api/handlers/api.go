package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/lexmatch-api/api"
	"github.com/linesmerrill/lexmatch-api/api/handlers/search"
	"github.com/linesmerrill/lexmatch-api/config"
	"github.com/linesmerrill/lexmatch-api/databases"
	"github.com/linesmerrill/lexmatch-api/escrow"
	"github.com/linesmerrill/lexmatch-api/intake"
	"github.com/linesmerrill/lexmatch-api/marketplace"
	"github.com/linesmerrill/lexmatch-api/models"
	"github.com/linesmerrill/lexmatch-api/notify"
)

// App stores the router and the services behind it, so it can be reused
type App struct {
	Router *mux.Router
	Config config.Config

	// Seed, Provider and Notifier may be set before Initialize; otherwise
	// they are built from Config
	Seed     *databases.Seed
	Provider intake.Provider
	Notifier notify.Notifier

	DB       *databases.Database
	Analyzer *intake.Analyzer
	Tasks    *intake.Tasks
	Market   *marketplace.Market
	Sessions *api.SessionManager
	Metrics  *api.MetricsCollector
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()
	r.Use(api.RequestMiddleware(a.Metrics))

	s := Session{Sessions: a.Sessions}
	in := Intake{Analyzer: a.Analyzer, Tasks: a.Tasks}
	c := Case{Market: a.Market}
	l := Lawyer{Market: a.Market}
	ls := search.Lawyer{Market: a.Market}
	m := Metrics{Collector: a.Metrics}

	timeout := api.TimeoutMiddleware(a.Config.RequestTimeout)
	authed := func(h http.HandlerFunc) http.Handler {
		return a.Sessions.Middleware(timeout(h))
	}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/session", timeout(http.HandlerFunc(s.CreateSessionHandler))).Methods("POST")
	apiCreate.Handle("/session/switch", authed(s.SwitchSessionHandler)).Methods("POST")
	apiCreate.Handle("/session", authed(s.DeleteSessionHandler)).Methods("DELETE")
	apiCreate.Handle("/me", authed(s.MeHandler)).Methods("GET")

	apiCreate.Handle("/intake/analyze", authed(in.AnalyzeHandler)).Methods("POST")
	apiCreate.Handle("/intake/tasks", authed(in.CreateTaskHandler)).Methods("POST")
	apiCreate.Handle("/intake/tasks/{task_id}", authed(in.TaskHandler)).Methods("GET")
	// no request timeout: the stream stays open until the task finishes
	apiCreate.Handle("/intake/tasks/{task_id}/ws", a.Sessions.StreamMiddleware(http.HandlerFunc(in.TaskStreamHandler))).Methods("GET")

	apiCreate.Handle("/cases", authed(c.CreateCaseHandler)).Methods("POST")
	apiCreate.Handle("/cases", authed(c.CasesHandler)).Methods("GET")
	apiCreate.Handle("/cases/open", authed(c.OpenCasesHandler)).Methods("GET")
	apiCreate.Handle("/cases/{case_id}", authed(c.CaseByIDHandler)).Methods("GET")
	apiCreate.Handle("/cases/{case_id}/bids", authed(c.CreateBidHandler)).Methods("POST")
	apiCreate.Handle("/cases/{case_id}/bids/{bid_id}/accept", authed(c.AcceptBidHandler)).Methods("POST")
	apiCreate.Handle("/cases/{case_id}/complete", authed(c.CompleteCaseHandler)).Methods("POST")

	apiCreate.Handle("/lawyers", authed(l.LawyersHandler)).Methods("GET")
	apiCreate.Handle("/lawyers/search", authed(ls.LawyerSearchHandler)).Methods("GET")
	apiCreate.Handle("/lawyers/{lawyer_id}", authed(l.LawyerByIDHandler)).Methods("GET")
	apiCreate.Handle("/lawyers/{lawyer_id}/enquire", authed(l.EnquireHandler)).Methods("POST")

	apiCreate.Handle("/metrics", authed(m.MetricsHandler)).Methods("GET")

	return r
}

// Initialize is invoked by main to build the stores, the analyzer and the router
func (a *App) Initialize(ctx context.Context) error {
	if a.Seed == nil {
		seed, err := loadSeed(a.Config.SeedFile)
		if err != nil {
			zap.S().With(err).Error("failed to load seed data")
			return err
		}
		a.Seed = seed
	}
	a.DB = databases.NewDatabase(a.Seed)

	if a.Provider == nil && a.Config.GeminiAPIKey != "" {
		provider, err := intake.NewGeminiProvider(ctx, a.Config.GeminiAPIKey)
		if err != nil {
			zap.S().Errorw("failed to create gemini provider, analysis will use the fallback brief", "error", err)
		} else {
			a.Provider = provider
		}
	}
	if a.Provider == nil {
		zap.S().Warnw("no AI provider configured, analysis will use the fallback brief")
	}

	a.Metrics = api.NewMetricsCollector()
	a.Analyzer = intake.NewAnalyzer(a.Provider,
		intake.WithModel(a.Config.GeminiModel),
		intake.WithTimeout(analyzeTimeout(a.Config)),
		intake.WithObserver(func(o intake.Outcome) {
			if o.Degraded() {
				a.Metrics.RecordAnalysis(string(o.Failure))
				return
			}
			a.Metrics.RecordAnalysis(string(models.TaskResolved))
		}),
	)
	a.Tasks = intake.NewTasks(a.Analyzer)

	if a.Notifier == nil {
		a.Notifier = notify.New(&a.Config)
	}
	a.Market = marketplace.NewMarket(a.DB, escrow.NewSimulated(), a.Notifier, a.Config.BaseURL)
	a.Sessions = api.NewSessionManager(ctx, a.Config.SessionSecret, a.Config.SessionTTL, a.DB.Users)

	// initialize api router
	a.initializeRoutes()
	return nil
}

// Close stops background analyses
func (a *App) Close() {
	if a.Tasks != nil {
		a.Tasks.Close()
	}
}

// analyzeTimeout keeps the provider deadline inside the request deadline so
// the synchronous analyze route answers with the fallback brief, not a 408
func analyzeTimeout(conf config.Config) time.Duration {
	limit := conf.RequestTimeout * 4 / 5
	if conf.RequestTimeout <= 0 || (conf.AnalyzeTimeout > 0 && conf.AnalyzeTimeout <= limit) {
		return conf.AnalyzeTimeout
	}
	zap.S().Warnw("ANALYZE_TIMEOUT exceeds the request timeout, clamping",
		"analyzeTimeout", conf.AnalyzeTimeout,
		"requestTimeout", conf.RequestTimeout,
		"clamped", limit)
	return limit
}

func loadSeed(path string) (*databases.Seed, error) {
	if path != "" {
		zap.S().Infow("loading seed data", "path", path)
		return databases.LoadSeedFile(path, time.Now().UTC())
	}
	return databases.DefaultSeed(time.Now().UTC())
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
