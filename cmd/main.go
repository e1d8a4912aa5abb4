package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelReservationHandler "github.com/m04kA/GameClub-ReservationService/internal/api/handlers/cancel_reservation"
	checkAvailabilityHandler "github.com/m04kA/GameClub-ReservationService/internal/api/handlers/check_availability"
	confirmPaymentHandler "github.com/m04kA/GameClub-ReservationService/internal/api/handlers/confirm_payment"
	createReservationHandler "github.com/m04kA/GameClub-ReservationService/internal/api/handlers/create_reservation"
	getAvailableUnitsHandler "github.com/m04kA/GameClub-ReservationService/internal/api/handlers/get_available_units"
	getReservationHandler "github.com/m04kA/GameClub-ReservationService/internal/api/handlers/get_reservation"
	getUserReservationsHandler "github.com/m04kA/GameClub-ReservationService/internal/api/handlers/get_user_reservations"
	"github.com/m04kA/GameClub-ReservationService/internal/api/middleware"
	"github.com/m04kA/GameClub-ReservationService/internal/config"
	reservationRepo "github.com/m04kA/GameClub-ReservationService/internal/infra/storage/reservation"
	clubServiceClient "github.com/m04kA/GameClub-ReservationService/internal/integrations/clubservice"
	paymentServiceClient "github.com/m04kA/GameClub-ReservationService/internal/integrations/paymentservice"
	"github.com/m04kA/GameClub-ReservationService/internal/service/jobs"
	reservationsService "github.com/m04kA/GameClub-ReservationService/internal/service/reservations"
	checkAvailabilityUC "github.com/m04kA/GameClub-ReservationService/internal/usecase/check_availability"
	createReservationUC "github.com/m04kA/GameClub-ReservationService/internal/usecase/create_group_reservation"
	getAvailableUnitsUC "github.com/m04kA/GameClub-ReservationService/internal/usecase/get_available_units"
	"github.com/m04kA/GameClub-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/GameClub-ReservationService/pkg/logger"
	"github.com/m04kA/GameClub-ReservationService/pkg/metrics"
	"github.com/m04kA/GameClub-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/GameClub-ReservationService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting GameClub-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	clubClient := clubServiceClient.NewClient(
		cfg.ClubService.URL,
		time.Duration(cfg.ClubService.Timeout)*time.Second,
		log,
	)
	paymentClient := paymentServiceClient.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (ClubService=%s timeout=%ds, PaymentService=%s timeout=%ds)",
		cfg.ClubService.URL, cfg.ClubService.Timeout, cfg.PaymentService.URL, cfg.PaymentService.Timeout)

	// Инициализируем репозиторий и transaction manager (с метриками или без)
	var reservationRepository *reservationRepo.Repository

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		txMgr,
		clubClient,
		paymentClient,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		clubClient,
		paymentClient,
		txMgr,
		log,
	)

	getAvailableUnitsUseCase := getAvailableUnitsUC.NewUseCase(
		reservationRepository,
		clubClient,
		log,
	)

	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		reservationRepository,
		clubClient,
		log,
	)

	// Запускаем фоновые задачи
	var jobRunner *jobs.Runner
	if cfg.Jobs.Enabled {
		jobRunner = jobs.NewRunner(reservationSvc, log)
		if err := jobRunner.Start(cfg.Jobs.CompletionSpec); err != nil {
			log.Fatal("Failed to start background jobs: %v", err)
		}
	}

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getAvailableUnits := getAvailableUnitsHandler.NewHandler(getAvailableUnitsUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	confirmPayment := confirmPaymentHandler.NewHandler(reservationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные юниты на окно бронирования
	api.HandleFunc("/clubs/{clubId}/available-units",
		getAvailableUnits.Handle).Methods(http.MethodGet)

	// Проверка доступности конкретного юнита
	api.HandleFunc("/clubs/{clubId}/availability",
		checkAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// INTERNAL ROUTES (для платежного сервиса)
	// ============================================================

	// Колбэк результата оплаты группы
	api.HandleFunc("/internal/payments/callback",
		confirmPayment.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Создание бронирования (одиночного или группового)
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)

	// История бронирований пользователя
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи
	if jobRunner != nil {
		jobRunner.Stop()
	}

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
