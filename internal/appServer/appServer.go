package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/poolpass/pool-booking/config"
	repository "github.com/poolpass/pool-booking/internal/database/postgres"
	"github.com/poolpass/pool-booking/internal/service"
	"github.com/poolpass/pool-booking/internal/transport"
	"github.com/poolpass/pool-booking/internal/worker"

	"github.com/poolpass/pool-booking/pkg/memberdir"
	"github.com/poolpass/pool-booking/pkg/mq"
	"github.com/poolpass/pool-booking/pkg/postgres"
	"github.com/poolpass/pool-booking/pkg/redis"
	"github.com/poolpass/pool-booking/pkg/scheduler"
	"github.com/poolpass/pool-booking/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// allowAllSwimChecker stands in for the member directory when no base URL is
// configured. Only meant for local development.
type allowAllSwimChecker struct{}

func (allowAllSwimChecker) HasSwimAbility(ctx context.Context, memberID int64) (bool, error) {
	return true, nil
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	db, err := postgres.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	timeslotRepo := repository.NewTimeslotRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	packageRepo := repository.NewPackageRepository(db)
	facilityRepo := repository.NewFacilityRepository(db)
	windowRepo := repository.NewEducationWindowRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)

	// Optional collaborators
	var swimChecker service.SwimAbilityChecker
	if cfg.MemberDir.BaseURL != "" {
		swimChecker = memberdir.NewClient(cfg.MemberDir.BaseURL)
		logrus.Info("Member directory client initialized")
	} else {
		swimChecker = allowAllSwimChecker{}
		logrus.Warn("Member directory URL not provided, swim ability checks disabled")
	}

	var publisher service.EventPublisher
	if cfg.RabbitMQ.Enabled {
		p, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			logrus.Errorf("Failed to initialize RabbitMQ publisher: %v. Continuing without notifications...", err)
		} else {
			defer p.Close()
			publisher = p
			logrus.Info("RabbitMQ publisher initialized")
		}
	}

	var holidayService service.HolidayService
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewRedisClient(&cfg.Redis)
		defer redisClient.Close()
		holidayService = service.NewHolidayService(holidayRepo, redis.NewCache(redisClient), cfg.Redis.CacheTTL)
		logrus.Info("Holiday cache initialized")
	} else {
		holidayService = service.NewHolidayService(holidayRepo, nil, 0)
		logrus.Warn("Redis address not provided, holiday lookups go straight to the database")
	}

	// Services
	educationService := service.NewEducationService(windowRepo)
	bookingService := service.NewBookingService(
		reservationRepo, timeslotRepo, packageRepo, swimChecker, publisher,
		cfg.Booking.Horizon, cfg.Booking.CancelCutoff,
	)
	timeslotService := service.NewTimeslotService(
		facilityRepo, timeslotRepo, holidayService, educationService,
		cfg.Generator.WindowDays, cfg.Generator.LookaheadDays, cfg.Generator.SlotLength,
	)

	issuer := token.NewIssuer(cfg.CheckIn.Secret, cfg.CheckIn.EntryLead)
	checkInService := service.NewCheckInService(reservationRepo, timeslotRepo, issuer, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background jobs
	generationScheduler := scheduler.NewScheduler(timeslotService, cfg.Generator.Interval)
	go generationScheduler.Start(ctx)
	logrus.Info("Generation scheduler started")

	noShowWorker := worker.NewNoShowWorker(bookingService, cfg.Worker.SweepInterval)
	go noShowWorker.Start(ctx)
	logrus.Info("No-show sweep worker started")

	// Handlers
	reservationHandler := transport.NewReservationHandler(bookingService)
	timeslotHandler := transport.NewTimeslotHandler(bookingService, timeslotService)
	educationHandler := transport.NewEducationHandler(educationService)
	holidayHandler := transport.NewHolidayHandler(holidayService)
	checkInHandler := transport.NewCheckInHandler(checkInService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		routes := transport.InitRoutes(reservationHandler, timeslotHandler, educationHandler, holidayHandler, checkInHandler)
		if err := srv.Run(cfg, routes); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	if err := srv.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
