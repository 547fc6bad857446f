package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "vetcare-api/internal/adapters/storage/memory"
	pg "vetcare-api/internal/adapters/storage/postgres"
	"vetcare-api/internal/domain/access"
	"vetcare-api/internal/domain/appointments"
	"vetcare-api/internal/domain/history"
	"vetcare-api/internal/domain/notifications"
	"vetcare-api/internal/domain/pets"
	"vetcare-api/internal/domain/users"
	"vetcare-api/internal/middleware"
	"vetcare-api/internal/platform/logger"
	"vetcare-api/internal/platform/staticcache"
	"vetcare-api/internal/ports/auth"

	_ "vetcare-api/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger *logger.Logger

	// Dominios de email descartable rechazados en el registro.
	DisposableDomains []string

	// Base pública para las URLs de QR de mascotas.
	QRBaseURL string

	// Opcional: cache de assets estáticos montado en /assets.
	Assets *staticcache.Cache
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler())

	var (
		usersRepo         users.Repository
		petsRepo          pets.Repository
		historyRepo       history.Repository
		appointmentsRepo  appointments.Repository
		notificationsRepo notifications.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		usersRepo = pg.NewUsersRepo(db)
		petsRepo = pg.NewPetsRepo(db)
		historyRepo = pg.NewHistoryRepo(db)
		appointmentsRepo = pg.NewAppointmentsRepo(db)
		notificationsRepo = pg.NewNotificationsRepo(db)
	} else {
		usersRepo = mem.NewUsersRepo()
		petsRepo = mem.NewPetsRepo()
		historyRepo = mem.NewHistoryRepo()
		appointmentsRepo = mem.NewAppointmentsRepo()
		notificationsRepo = mem.NewNotificationsRepo()
	}

	// Services por módulo
	notificationsSvc := notifications.NewService(notificationsRepo)
	usersSvc := users.NewService(usersRepo, opts.DisposableDomains)
	resolver := access.NewResolver(usersSvc)
	petsSvc := pets.NewService(petsRepo, notificationsSvc, opts.Logger, opts.QRBaseURL)
	historySvc := history.NewService(historyRepo, petsSvc, resolver, opts.Logger)
	appointmentsSvc := appointments.NewService(appointmentsRepo, petsSvc, notificationsSvc, opts.Logger)

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc)
	pets.RegisterRoutes(r, petsSvc, resolver)
	history.RegisterRoutes(r, historySvc)
	appointments.RegisterRoutes(r, appointmentsSvc, usersSvc)
	notifications.RegisterRoutes(r, notificationsSvc)

	if opts.Assets != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets", opts.Assets.Handler()))
	}

	return r
}
