package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/careops/frontdesk/internal/http/handlers"
	httpmiddleware "github.com/careops/frontdesk/internal/http/middleware"
	"github.com/careops/frontdesk/internal/session"
	"github.com/careops/frontdesk/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger *logging.Logger

	Auth          *handlers.AuthHandler
	PublicBooking *handlers.PublicBookingHandler
	PublicLinks   *handlers.PublicLinkHandler
	PublicForms   *handlers.PublicFormsHandler
	Bookings      *handlers.BookingsHandler
	Leads         *handlers.LeadsHandler
	Inventory     *handlers.InventoryHandler
	Inbox         *handlers.InboxHandler
	Forms         *handlers.FormsHandler
	Admin         *handlers.AdminHandler

	SessionCodec *session.Codec
	LoginPath    string

	MetricsHandler http.Handler

	CORSAllowedOrigins []string
	PublicRateLimit    int
	PublicRateWindow   time.Duration
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Public surfaces: the booking wizard, email-link pages, and forms.
	// These carry no session and sit behind a per-IP rate limit.
	r.Group(func(public chi.Router) {
		if cfg.PublicRateLimit > 0 {
			public.Use(httpmiddleware.RateLimit(cfg.PublicRateLimit, cfg.PublicRateWindow))
		}

		public.Route("/book/{workspace}", func(r chi.Router) {
			r.Get("/services", cfg.PublicBooking.ListServices)
			r.Post("/drafts", cfg.PublicBooking.StartDraft)
			r.Route("/drafts/{draftID}", func(r chi.Router) {
				r.Get("/", cfg.PublicBooking.GetDraft)
				r.Post("/service", cfg.PublicBooking.SelectService)
				r.Get("/slots", cfg.PublicBooking.Slots)
				r.Post("/slot", cfg.PublicBooking.SelectSlot)
				r.Post("/contact", cfg.PublicBooking.SetContact)
				r.Post("/back", cfg.PublicBooking.Back)
				r.Post("/submit", cfg.PublicBooking.Submit)
			})
		})

		public.Route("/booking/{workspace}", func(r chi.Router) {
			r.Get("/cancel", cfg.PublicLinks.CancelView)
			r.Post("/cancel", cfg.PublicLinks.Cancel)
			r.Get("/reschedule", cfg.PublicLinks.RescheduleView)
			r.Get("/reschedule/slots", cfg.PublicLinks.RescheduleSlots)
			r.Post("/reschedule", cfg.PublicLinks.Reschedule)
		})

		public.Post("/forms/{workspace}/lead", cfg.PublicForms.SubmitLeadForm)
		public.Route("/forms/p/{formID}", func(r chi.Router) {
			r.Get("/", cfg.PublicForms.GetForm)
			r.Post("/", cfg.PublicForms.SubmitForm)
		})
		public.Route("/forms/intake/{bookingID}", func(r chi.Router) {
			r.Get("/", cfg.PublicForms.GetIntake)
			r.Post("/", cfg.PublicForms.SubmitIntake)
		})

		public.Post("/auth/login", cfg.Auth.Login)
	})

	// Authenticated app surface. Sections are gated per capability; owners
	// pass every gate.
	r.Group(func(app chi.Router) {
		app.Use(httpmiddleware.RequireSession(cfg.SessionCodec, cfg.LoginPath))

		app.Post("/auth/logout", cfg.Auth.Logout)
		app.Get("/auth/session", cfg.Auth.Session)
		app.Get("/app/nav", cfg.Admin.Nav)
		app.Get("/app/dashboard", cfg.Admin.Dashboard)

		app.Route("/app/bookings", func(r chi.Router) {
			r.Use(httpmiddleware.RequireCapability(session.CapBookings))
			r.Get("/", cfg.Bookings.List)
			r.Post("/{bookingID}/cancel", cfg.Bookings.Cancel)
			r.Post("/{bookingID}/reschedule", cfg.Bookings.Reschedule)
			r.Get("/{bookingID}/history", cfg.Bookings.History)
			r.With(httpmiddleware.RequireOwner()).Post("/{bookingID}/restore", cfg.Bookings.Restore)
		})

		app.Route("/app/leads", func(r chi.Router) {
			r.Use(httpmiddleware.RequireCapability(session.CapLeads))
			r.Get("/", cfg.Leads.List)
			r.Post("/{leadID}/status", cfg.Leads.UpdateStatus)
		})

		app.Route("/app/inventory", func(r chi.Router) {
			r.Use(httpmiddleware.RequireCapability(session.CapInventory))
			r.Get("/", cfg.Inventory.List)
			r.Post("/", cfg.Inventory.Create)
			r.Put("/{itemID}", cfg.Inventory.Update)
			r.Delete("/{itemID}", cfg.Inventory.Delete)
		})

		app.Route("/app/inbox", func(r chi.Router) {
			r.Use(httpmiddleware.RequireCapability(session.CapInbox))
			r.Get("/", cfg.Inbox.List)
			r.Post("/sync", cfg.Inbox.Sync)
			r.Get("/{conversationID}", cfg.Inbox.Get)
			r.Post("/{conversationID}/messages", cfg.Inbox.SendMessage)
		})

		app.Route("/app/forms", func(r chi.Router) {
			r.Use(httpmiddleware.RequireOwner())
			r.Get("/", cfg.Forms.List)
			r.Post("/", cfg.Forms.Create)
			r.Put("/{formID}", cfg.Forms.Update)
			r.Delete("/{formID}", cfg.Forms.Delete)
		})

		app.Route("/app/services", func(r chi.Router) {
			r.Use(httpmiddleware.RequireOwner())
			r.Get("/", cfg.Admin.ListServices)
			r.Post("/", cfg.Admin.CreateService)
			r.Delete("/{serviceID}", cfg.Admin.DeleteService)
		})

		app.Route("/app/staff", func(r chi.Router) {
			r.Use(httpmiddleware.RequireOwner())
			r.Get("/", cfg.Admin.ListStaff)
			r.Post("/invite", cfg.Admin.InviteStaff)
		})
	})

	return r
}
