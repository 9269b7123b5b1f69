package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/FranciscoFerrutti/sportsmatch-back/internal/auth"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/club"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/config"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/email"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/event"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/field"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/payment"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/reservation"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/sport"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/timeslot"
	"github.com/FranciscoFerrutti/sportsmatch-back/internal/user"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	db         *sqlx.DB
	config     *config.Config
	email      *email.Service
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service, loc *time.Location) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	userRepo := user.NewRepository(db)
	userSvc := user.NewService(userRepo, cfg.JWTSecret)
	userHandler := user.NewHandler(userSvc)

	clubRepo := club.NewRepository(db)
	clubSvc := club.NewService(clubRepo, club.NewLocalityGeocoder(clubRepo), cfg.JWTSecret, cfg.DefaultRadiusKm)
	clubHandler := club.NewHandler(clubSvc)

	sportRepo := sport.NewRepository(db)
	sportHandler := sport.NewHandler(sportRepo)

	fieldRepo := field.NewRepository(db)
	fieldSvc := field.NewService(fieldRepo)
	fieldHandler := field.NewHandler(fieldSvc)

	slotRepo := timeslot.NewRepository(db)
	slotSvc := timeslot.NewService(slotRepo, fieldSvc, loc)
	slotHandler := timeslot.NewHandler(slotSvc)

	eventRepo := event.NewRepository(db)
	eventSvc := event.NewService(eventRepo, userRepo, clubRepo)
	eventHandler := event.NewHandler(eventSvc)

	reservationRepo := reservation.NewRepository(db)
	reservationSvc := reservation.NewService(
		reservationRepo, slotRepo, slotSvc,
		fieldRepo, fieldSvc,
		eventRepo, eventSvc,
		clubSvc, emailService, loc,
	)
	reservationHandler := reservation.NewHandler(reservationSvc)

	gateway := payment.NewMercadoPago(cfg.MercadoPagoBaseURL, cfg.MercadoPagoToken)
	paymentRepo := payment.NewRepository(db)
	paymentSvc := payment.NewService(paymentRepo, gateway, reservationSvc, eventSvc)
	paymentHandler := payment.NewHandler(paymentSvc)

	reservationSvc.SetRefunder(paymentSvc)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	clubAuth := router.Group("/club-auth")
	{
		clubAuth.POST("/register", clubHandler.Register)
		clubAuth.POST("/login", clubHandler.Login)
	}

	// Gateway notifications carry no bearer token.
	router.POST("/payments/webhook", paymentHandler.Webhook)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/sports", sportHandler.ListSports)
		protected.GET("/clubs", clubHandler.ListClubs)
		protected.GET("/clubs/:clubID", clubHandler.GetClub)

		protected.POST("/events", eventHandler.CreateEvent)
		protected.GET("/events", eventHandler.SearchEvents)
		protected.GET("/events/:eventID", eventHandler.GetEvent)
		protected.GET("/events/:eventID/available-fields", reservationHandler.FindAvailableFields)
		protected.GET("/events/:eventID/reservations", reservationHandler.ListEventReservations)
		protected.GET("/fields/:fieldID", fieldHandler.GetField)
		protected.GET("/fields/:fieldID/slots", slotHandler.ListTimeSlots)

		protected.POST("/reservations", reservationHandler.CreateReservation)
		protected.GET("/reservations/:reservationID", reservationHandler.GetReservation)
		protected.DELETE("/reservations/:reservationID", reservationHandler.CancelReservation)
		protected.POST("/reservations/:reservationID/checkout", paymentHandler.CreateCheckout)
		protected.GET("/reservations/:reservationID/payment", paymentHandler.GetReservationPayment)
	}

	clubOnly := router.Group("/")
	clubOnly.Use(authMiddleware, auth.RequireRole(auth.RoleClub))
	{
		clubOnly.PUT("/clubs/me/location", clubHandler.UpdateLocation)
		clubOnly.GET("/reservations", reservationHandler.ListClubReservations)

		clubOnly.POST("/fields", fieldHandler.CreateField)
		clubOnly.GET("/fields", fieldHandler.ListMyFields)
		clubOnly.PUT("/fields/:fieldID", fieldHandler.UpdateField)

		clubOnly.POST("/fields/:fieldID/slots", slotHandler.CreateTimeSlots)
		clubOnly.PATCH("/fields/:fieldID/slots/:slotID", slotHandler.UpdateSlotStatus)
		clubOnly.DELETE("/fields/:fieldID/slots/:slotID", slotHandler.DeleteTimeSlot)

		clubOnly.POST("/reservations/:reservationID/confirm", reservationHandler.ConfirmReservation)
	}

	router.GET("/health", Health(db))
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.httpServer = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
