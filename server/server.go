package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"hotel-server/cache"
	"hotel-server/confs"
	"hotel-server/db"
	"hotel-server/events"
	"hotel-server/handlers"
	httpHandler "hotel-server/handlers/http"
	"hotel-server/logger"
	"hotel-server/mailer"
	"hotel-server/repositories"
	"hotel-server/services"
	"hotel-server/storage"
	"hotel-server/usecases"
	"hotel-server/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Dependencies are the collaborators built in main. Sweeper is nil when
// codes live in a shared store.
type Dependencies struct {
	Codes     cache.VerificationStore
	Sweeper   *services.CodeSweeper
	Mailer    mailer.Mailer
	Images    *storage.LocalStore
	Manager   *ws.Manager
	Publisher events.Publisher
}

type Server struct {
	app  *gin.Engine
	db   db.Database
	cfg  *confs.Config
	deps Dependencies
}

func NewServer(cfg *confs.Config, database db.Database, deps Dependencies) *Server {
	if deps.Manager == nil {
		deps.Manager = ws.NewManager()
	}
	if deps.Publisher == nil {
		deps.Publisher = deps.Manager
	}

	s := &Server{
		app:  gin.New(),
		db:   database,
		cfg:  cfg,
		deps: deps,
	}
	s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.app
}

func (s *Server) routes() {
	s.app.Use(gin.Recovery(), RequestID(), Logging())

	// Setup CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader}
	s.app.Use(cors.New(config))

	// Initialize repositories
	userRepo := repositories.NewUserPgRepository(s.db)
	hotelRepo := repositories.NewHotelPgRepository(s.db)

	// Initialize use cases
	authUseCase := usecases.NewAuthUseCase(userRepo, s.deps.Codes, s.deps.Mailer, s.cfg.Auth.CodeTTL)
	hotelUseCase := usecases.NewHotelUseCase(hotelRepo, s.deps.Images, s.deps.Publisher, s.cfg.Hotel.MaxPageSize)

	// Initialize handlers
	rootHandler := httpHandler.NewRootHandler(s.cfg.Database.Driver)
	authHandler := httpHandler.NewAuthHandler(authUseCase)
	hotelHandler := httpHandler.NewHotelHandler(hotelUseCase)
	wsHandler := handlers.NewWSHandler(s.deps.Manager)

	s.app.GET("/", rootHandler.Describe)
	s.app.GET("/health", rootHandler.Health)
	s.app.Static("/uploads", s.deps.Images.Dir())

	api := s.app.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/sendCode", authHandler.SendCode)
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		hotel := api.Group("/hotel")
		{
			hotel.POST("/create", hotelHandler.CreateHotel)
			hotel.GET("/list", hotelHandler.ListHotels)
			hotel.GET("/:id", hotelHandler.GetHotel)
			hotel.PUT("/:id", hotelHandler.UpdateHotel)
			hotel.DELETE("/:id", hotelHandler.DeleteHotel)
		}

		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/clients", wsHandler.GetConnectedClients)
			if s.deps.Sweeper != nil {
				codeHandler := handlers.NewCodeHandler(s.deps.Sweeper)
				dashboard.GET("/codes/stats", codeHandler.GetStats)
				dashboard.POST("/codes/sweep", codeHandler.Sweep)
			}
		}
	}

	s.app.GET("/ws/hotels", wsHandler.HandleHotelEvents)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      s.app,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("hotel server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down hotel server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
