package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/borealpetro/fueldesk-backend/api/controllers"
	"github.com/borealpetro/fueldesk-backend/api/middleware"
	"github.com/borealpetro/fueldesk-backend/internal/auth"
	"github.com/borealpetro/fueldesk-backend/internal/bookings"
	"github.com/borealpetro/fueldesk-backend/internal/deliverylogs"
	"github.com/borealpetro/fueldesk-backend/internal/equipment"
	"github.com/borealpetro/fueldesk-backend/internal/invoices"
	"github.com/borealpetro/fueldesk-backend/internal/pricing"
	"github.com/borealpetro/fueldesk-backend/internal/sites"
	"github.com/borealpetro/fueldesk-backend/internal/stats"
	"github.com/borealpetro/fueldesk-backend/internal/tanks"
	"github.com/borealpetro/fueldesk-backend/internal/users"
	"github.com/borealpetro/fueldesk-backend/pkg/auth/session"
	"github.com/borealpetro/fueldesk-backend/pkg/config"
	"github.com/borealpetro/fueldesk-backend/pkg/enums"
	"github.com/borealpetro/fueldesk-backend/pkg/logger"
	"github.com/borealpetro/fueldesk-backend/pkg/metrics"
	"github.com/borealpetro/fueldesk-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	RedisClient      *redis.Client
	IdempotencyStore redis.IdempotencyStore
	SessionManager   session.AccessSessionChecker
	Registry         *prometheus.Registry
	ReadyChecks      []controllers.ReadyCheck

	AuthService      auth.Service
	PricingService   pricing.Service
	BookingsService  bookings.Service
	InvoicesService  invoices.Service
	TanksService     tanks.Service
	EquipmentService equipment.Service
	SitesService     sites.Service
	LogsService      deliverylogs.Service
	StatsService     stats.Service
	UsersService     users.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	requestMetrics := metrics.NewRequestMetrics(registry)
	r.Use(middleware.Metrics(requestMetrics))

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.ReadyChecks...))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.RedisClient, logg)).Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionManager, logg))
		r.Use(middleware.Idempotency(deps.IdempotencyStore, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Get("/v1/auth/me", controllers.AuthMe(deps.AuthService, logg))

		r.Get("/v1/pricing", controllers.PricingConfigGet(deps.PricingService, logg))

		r.Route("/v1/bookings", func(r chi.Router) {
			r.Post("/", controllers.BookingCreate(deps.BookingsService, logg))
			r.Get("/", controllers.BookingList(deps.BookingsService, logg))
			r.Get("/{bookingId}", controllers.BookingDetail(deps.BookingsService, logg))
			r.Get("/{bookingId}/invoice", controllers.InvoiceExport(deps.InvoicesService, logg))
			r.Get("/{bookingId}/logs", controllers.DeliveryLogListForBooking(deps.LogsService, logg))
			r.Get("/{bookingId}/images", controllers.InvoiceImageList(deps.InvoicesService, logg))
			r.Get("/{bookingId}/images/{imageName}", controllers.InvoiceImageDownload(deps.InvoicesService, logg))
		})

		r.Route("/v1/tanks", func(r chi.Router) {
			r.Post("/", controllers.TankCreate(deps.TanksService, logg))
			r.Get("/", controllers.TankList(deps.TanksService, logg))
			r.Get("/{tankId}", controllers.TankDetail(deps.TanksService, logg))
			r.Put("/{tankId}", controllers.TankUpdate(deps.TanksService, logg))
			r.Delete("/{tankId}", controllers.TankDelete(deps.TanksService, logg))
		})

		r.Route("/v1/equipment", func(r chi.Router) {
			r.Post("/", controllers.EquipmentCreate(deps.EquipmentService, logg))
			r.Get("/", controllers.EquipmentList(deps.EquipmentService, logg))
			r.Get("/{equipmentId}", controllers.EquipmentDetail(deps.EquipmentService, logg))
			r.Put("/{equipmentId}", controllers.EquipmentUpdate(deps.EquipmentService, logg))
			r.Delete("/{equipmentId}", controllers.EquipmentDelete(deps.EquipmentService, logg))
		})

		r.Route("/v1/sites", func(r chi.Router) {
			r.Post("/", controllers.SiteCreate(deps.SitesService, logg))
			r.Get("/", controllers.SiteList(deps.SitesService, logg))
			r.Get("/{siteId}", controllers.SiteDetail(deps.SitesService, logg))
			r.Put("/{siteId}", controllers.SiteUpdate(deps.SitesService, logg))
			r.Delete("/{siteId}", controllers.SiteDelete(deps.SitesService, logg))
		})

		r.Route("/v1/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))

			r.Get("/ping", controllers.AdminPing())
			r.Get("/stats", controllers.AdminStats(deps.StatsService, logg))
			r.Put("/pricing", controllers.PricingConfigUpdate(deps.PricingService, logg))

			r.Route("/bookings/{bookingId}", func(r chi.Router) {
				r.Patch("/status", controllers.BookingUpdateStatus(deps.BookingsService, logg))
				r.Put("/trucks", controllers.BookingUpdateTrucks(deps.BookingsService, logg))
				r.Post("/reconcile", controllers.InvoiceReconcile(deps.InvoicesService, logg))
				r.Post("/logs", controllers.DeliveryLogCreate(deps.LogsService, logg))
				r.Post("/images", controllers.InvoiceImageUpload(deps.InvoicesService, int64(cfg.Invoices.MaxUploadMB), logg))
				r.Delete("/images/{imageName}", controllers.InvoiceImageDelete(deps.InvoicesService, logg))
			})

			r.Get("/logs", controllers.DeliveryLogRecent(deps.LogsService, logg))

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", controllers.CustomerList(deps.UsersService, logg))
				r.Get("/{userId}", controllers.CustomerDetail(deps.UsersService, logg))
				r.Put("/{userId}/price-modifier", controllers.CustomerSetPriceModifier(deps.UsersService, logg))
				r.Put("/{userId}/status", controllers.CustomerSetActive(deps.UsersService, logg))

				r.Route("/{userId}/tanks", func(r chi.Router) {
					r.Post("/", controllers.TankCreate(deps.TanksService, logg))
					r.Get("/", controllers.TankList(deps.TanksService, logg))
				})
				r.Route("/{userId}/equipment", func(r chi.Router) {
					r.Post("/", controllers.EquipmentCreate(deps.EquipmentService, logg))
					r.Get("/", controllers.EquipmentList(deps.EquipmentService, logg))
				})
				r.Route("/{userId}/sites", func(r chi.Router) {
					r.Post("/", controllers.SiteCreate(deps.SitesService, logg))
					r.Get("/", controllers.SiteList(deps.SitesService, logg))
				})
			})
		})
	})

	return r
}
