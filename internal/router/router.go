package router

import (
	"database/sql"
	"net/http"

	_ "baby-health-tracker/docs"
	mem "baby-health-tracker/internal/adapters/storage/memory"
	pg "baby-health-tracker/internal/adapters/storage/postgres"
	rest "baby-health-tracker/internal/adapters/storage/postgrest"
	"baby-health-tracker/internal/adapters/supabase"
	"baby-health-tracker/internal/domain/accounts"
	"baby-health-tracker/internal/domain/babies"
	"baby-health-tracker/internal/domain/caregivers"
	"baby-health-tracker/internal/domain/feed"
	"baby-health-tracker/internal/domain/mealplans"
	"baby-health-tracker/internal/domain/measurements"
	"baby-health-tracker/internal/domain/preferences"
	"baby-health-tracker/internal/domain/vaccines"
	"baby-health-tracker/internal/middleware"
	"baby-health-tracker/internal/platform/kv"
	"baby-health-tracker/internal/ports/auth"
	"baby-health-tracker/internal/reminders"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
)

type Options struct {
	Verifier auth.Verifier // puede ser nil (modo dev)
	Gateway  auth.Gateway  // nil => /auth/* responde 503

	// Opcional: si viene, usa Postgres para todo.
	DB *sql.DB
	// Con StorageBackend=supabase y Tables != nil, bebés, vacunas y
	// mediciones van a PostgREST; el resto queda in-memory.
	StorageBackend string
	Tables         *supabase.Client

	KV            kv.Store // nil => in-memory
	Publisher     reminders.Publisher
	PublicBaseURL string
	Log           *zap.Logger
}

// App expone el handler y el barrido de recordatorios, que comparte
// servicios con las rutas.
type App struct {
	Handler   http.Handler
	Reminders *reminders.Sweeper
	Backend   string
}

type repos struct {
	babies       babies.Repository
	grants       caregivers.Repository
	schedules    vaccines.Repository
	measurements measurements.Repository
	mealPlans    mealplans.Repository
	feed         feed.Repository
}

func pickRepos(opts Options) (repos, string) {
	if opts.DB != nil {
		return repos{
			babies:       pg.NewBabiesRepo(opts.DB),
			grants:       pg.NewCaregiverGrantsRepo(opts.DB),
			schedules:    pg.NewVaccineSchedulesRepo(opts.DB),
			measurements: pg.NewMeasurementsRepo(opts.DB),
			mealPlans:    pg.NewMealPlansRepo(opts.DB),
			feed:         pg.NewFeedRepo(opts.DB),
		}, BackendPostgres
	}

	rs := repos{
		babies:       mem.NewBabyRepo(),
		grants:       mem.NewCaregiverGrantRepo(),
		schedules:    mem.NewVaccineScheduleRepo(),
		measurements: mem.NewMeasurementRepo(),
		mealPlans:    mem.NewMealPlanRepo(),
		feed:         mem.NewFeedRepo(),
	}
	if opts.StorageBackend == BackendSupabase && opts.Tables.IsConfigured() {
		rs.babies = rest.NewBabiesRepo(opts.Tables)
		rs.schedules = rest.NewVaccineSchedulesRepo(opts.Tables)
		rs.measurements = rest.NewMeasurementsRepo(opts.Tables)
		return rs, BackendSupabase
	}
	return rs, BackendMemory
}

func New(opts Options) *App {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	store := opts.KV
	if store == nil {
		store = kv.NewMemoryStore()
	}
	pub := opts.Publisher
	if pub == nil {
		pub = reminders.LogPublisher{Log: log.Named("reminders")}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLog(log))

	r.Use(middleware.AuthContext(opts.Verifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	rs, backend := pickRepos(opts)

	// Services por módulo
	grantsSvc := caregivers.NewService(rs.grants, log.Named("caregivers"))
	babiesSvc := babies.NewService(rs.babies, grantsSvc, log.Named("babies"))
	vaccinesSvc := vaccines.NewService(rs.schedules, log.Named("vaccines"))
	measurementsSvc := measurements.NewService(rs.measurements, log.Named("measurements"))
	prefsSvc := preferences.NewService(store, log.Named("preferences"))
	mealPlansSvc := mealplans.NewService(rs.mealPlans, store, log.Named("mealplans"))
	feedSvc := feed.NewService(rs.feed, log.Named("feed"))
	accountsSvc := accounts.NewService(opts.Gateway, store, log.Named("accounts"))

	// Rutas por módulo
	accounts.RegisterRoutes(r, accountsSvc)
	babies.RegisterRoutes(r, babiesSvc, prefsSvc)
	caregivers.RegisterRoutes(r, grantsSvc, babiesSvc)
	vaccines.RegisterRoutes(r, vaccinesSvc, babiesSvc, opts.PublicBaseURL)
	measurements.RegisterRoutes(r, measurementsSvc, babiesSvc)
	mealplans.RegisterRoutes(r, mealPlansSvc, babiesSvc)
	preferences.RegisterRoutes(r, prefsSvc)
	feed.RegisterRoutes(r, feedSvc)

	return &App{
		Handler:   r,
		Reminders: reminders.NewSweeper(babiesSvc, vaccinesSvc, pub, log.Named("reminders")),
		Backend:   backend,
	}
}

func NewRouter(opts Options) http.Handler {
	return New(opts).Handler
}
