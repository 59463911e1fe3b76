package router

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	mem "ong-shelter-api/internal/adapters/storage/memory"
	pg "ong-shelter-api/internal/adapters/storage/postgres"
	"ong-shelter-api/internal/domain/adoptions"
	"ong-shelter-api/internal/domain/blog"
	"ong-shelter-api/internal/domain/contacts"
	"ong-shelter-api/internal/domain/dogs"
	"ong-shelter-api/internal/domain/donations"
	"ong-shelter-api/internal/domain/stats"
	"ong-shelter-api/internal/domain/users"
	"ong-shelter-api/internal/domain/volunteers"
	"ong-shelter-api/internal/middleware"
	"ong-shelter-api/internal/platform/logger"
	"ong-shelter-api/internal/platform/pix"
	"ong-shelter-api/internal/ports/auth"
	"ong-shelter-api/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Options struct {
	Log logger.Logger

	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	TokenIssuer  auth.TokenIssuer  // puede ser nil (login deshabilitado)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: rate limit de formularios públicos. Nil = deshabilitado.
	Redis      *redis.Client
	RateLimit  int
	RateWindow time.Duration

	// Opcional: notificaciones (RabbitMQ en prod). Nil = sin notificaciones.
	Publisher notify.Publisher

	// Opcional: pagos. Nil = endpoints responden 503.
	Pix      *pix.Generator
	Checkout donations.CheckoutProvider

	// Opcional: registro de métricas. Nil = sin /metrics.
	Metrics prometheus.Registerer
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if opts.Metrics != nil {
		if g, ok := opts.Metrics.(prometheus.Gatherer); ok {
			r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
		}
	}

	var (
		dogRepo       dogs.Repository
		adoptionRepo  adoptions.Repository
		volunteerRepo volunteers.Repository
		contactRepo   contacts.Repository
		blogRepo      blog.Repository
		donationRepo  donations.Repository
		userRepo      users.Repository
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
		dogRepo = pg.NewDogsRepo(db)
		adoptionRepo = pg.NewAdoptionsRepo(db)
		volunteerRepo = pg.NewVolunteersRepo(db)
		contactRepo = pg.NewContactsRepo(db)
		blogRepo = pg.NewBlogRepo(db)
		donationRepo = pg.NewDonationsRepo(db)
		userRepo = pg.NewUsersRepo(db)
	} else {
		dogRepo = mem.NewDogRepo()
		adoptionRepo = mem.NewAdoptionRepo(dogRepo)
		volunteerRepo = mem.NewVolunteerRepo()
		contactRepo = mem.NewContactRepo()
		blogRepo = mem.NewBlogRepo()
		donationRepo = mem.NewDonationRepo()
		userRepo = mem.NewUserRepo()
	}

	// Services por módulo
	dogsSvc := dogs.NewService(dogRepo)
	adoptionsSvc := adoptions.NewService(adoptionRepo, dogsSvc, opts.Publisher, log)
	volunteersSvc := volunteers.NewService(volunteerRepo, opts.Publisher, log)
	contactsSvc := contacts.NewService(contactRepo, opts.Publisher, log)
	blogSvc := blog.NewService(blogRepo)
	donationsSvc := donations.NewService(donationRepo, opts.Pix, opts.Checkout, log)
	usersSvc := users.NewService(userRepo, opts.TokenIssuer)
	statsSvc := stats.NewService(dogRepo, adoptionRepo, volunteerRepo, contactRepo, donationRepo)

	// Grupos de rutas: público abierto, formularios con rate limit,
	// panel con RequireStaff y gestión de usuarios solo admin.
	public := chi.Router(r)
	forms := r.With(middleware.RateLimit(opts.Redis, opts.RateLimit, opts.RateWindow))
	staff := r.With(middleware.RequireStaff)
	admin := r.With(middleware.RequireStaff, middleware.RequireRole(auth.RoleAdmin))

	dogs.RegisterRoutes(public, staff, dogsSvc, log)
	adoptions.RegisterRoutes(forms, staff, adoptionsSvc, log)
	volunteers.RegisterRoutes(forms, staff, volunteersSvc, log)
	contacts.RegisterRoutes(forms, staff, contactsSvc, log)
	blog.RegisterRoutes(public, staff, blogSvc, log)

	// El webhook de Stripe queda fuera del rate limit.
	donations.RegisterRoutes(public, donationsSvc, log)

	users.RegisterRoutes(forms, staff, admin, usersSvc, log)
	stats.RegisterRoutes(public, staff, statsSvc, log)

	return r
}
