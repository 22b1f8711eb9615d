package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	appointmentsStreamHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/appointments_stream"
	bookingWizardHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/booking_wizard"
	createBookingHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/create_booking"
	deleteAppointmentHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/delete_appointment"
	getAppointmentHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/get_available_slots"
	getClientAppointmentsHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/get_client_appointments"
	getShiftsHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/get_shifts"
	getStatsHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/get_stats"
	listAppointmentsHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/list_appointments"
	listServicesHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/list_services"
	listStylistsHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/list_stylists"
	notificationsFeedHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/notifications_feed"
	previewMessageHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/preview_message"
	replaceShiftsHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/replace_shifts"
	sendAppointmentMessageHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/send_appointment_message"
	updateAppointmentStatusHandler "github.com/m04kA/BarberBookingService/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/BarberBookingService/internal/api/middleware"
	"github.com/m04kA/BarberBookingService/internal/config"
	"github.com/m04kA/BarberBookingService/internal/infra/events"
	appointmentRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/catalog"
	messageLogRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/messagelog"
	notificationRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/notification"
	shiftRepo "github.com/m04kA/BarberBookingService/internal/infra/storage/shift"
	"github.com/m04kA/BarberBookingService/internal/infra/storage/wizardsession"
	"github.com/m04kA/BarberBookingService/internal/integrations/email"
	"github.com/m04kA/BarberBookingService/internal/integrations/whatsapp"
	"github.com/m04kA/BarberBookingService/internal/messaging/templates"
	appointmentsService "github.com/m04kA/BarberBookingService/internal/service/appointments"
	catalogService "github.com/m04kA/BarberBookingService/internal/service/catalog"
	notificationsService "github.com/m04kA/BarberBookingService/internal/service/notifications"
	shiftsService "github.com/m04kA/BarberBookingService/internal/service/shifts"
	createBookingUC "github.com/m04kA/BarberBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/BarberBookingService/internal/usecase/get_available_slots"
	sendMessageUC "github.com/m04kA/BarberBookingService/internal/usecase/send_appointment_message"
	"github.com/m04kA/BarberBookingService/internal/wizard"
	"github.com/m04kA/BarberBookingService/pkg/dbmetrics"
	"github.com/m04kA/BarberBookingService/pkg/logger"
	"github.com/m04kA/BarberBookingService/pkg/metrics"
	"github.com/m04kA/BarberBookingService/pkg/slotlock"
	"github.com/m04kA/BarberBookingService/pkg/txmanager"
)

const (
	slotLockPrefix    = "barber:slot"
	sessionLockPrefix = "barber:session"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting BarberBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Invalid booking timezone: %v", err)
	}
	grid := cfg.Booking.SlotGrid()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Без метрик обёртка просто пробрасывает запросы
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = wrappedDB.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	shiftRepository := shiftRepo.NewRepository(wrappedDB)
	notificationRepository := notificationRepo.NewRepository(wrappedDB)
	messageLogRepository := messageLogRepo.NewRepository(wrappedDB)

	txMgr := txmanager.NewTransactionManager(wrappedDB).WithMaxRetries(cfg.Database.TxMaxRetries)

	// Redis: локи слотов и черновики мастера записи
	var (
		slotLocker    createBookingUC.SlotLocker
		sessionLocker wizard.SessionLocker
		sessionStore  wizard.SessionStore
	)
	sessionTTL := time.Duration(cfg.Redis.SessionTTL) * time.Second
	lockTTL := time.Duration(cfg.Redis.LockTTLMillis) * time.Millisecond
	lockWait := time.Duration(cfg.Redis.LockWaitMillis) * time.Millisecond

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(redisCtx).Err()
		redisCancel()
		if err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}

		slotLocker = slotlock.NewRedisLocker(rdb, lockTTL, lockWait, slotLockPrefix)
		sessionLocker = slotlock.NewRedisLocker(rdb, lockTTL, lockWait, sessionLockPrefix)
		sessionStore = wizardsession.NewRedisStore(rdb, sessionTTL)
		log.Info("Redis enabled at %s (session ttl=%s)", cfg.Redis.Addr, sessionTTL)
	} else {
		slotLocker = slotlock.NewLocalLocker(lockWait)
		sessionLocker = slotlock.NewLocalLocker(lockWait)
		sessionStore = wizardsession.NewMemoryStore(sessionTTL)
		log.Warn("Redis disabled: wizard sessions and locks are kept in process memory, run a single instance")
	}

	// Интеграции
	whatsAppClient := whatsapp.NewClient(whatsapp.Config{
		Enabled:     cfg.WhatsApp.Enabled,
		BaseURL:     cfg.WhatsApp.URL,
		Token:       cfg.WhatsApp.Token,
		Timeout:     time.Duration(cfg.WhatsApp.Timeout) * time.Second,
		Language:    cfg.WhatsApp.LanguageCode,
		CountryCode: cfg.Booking.CountryCode,
	}, log)

	var emailSender sendMessageUC.EmailSender
	if cfg.Email.Enabled {
		emailSender = email.NewSendGridSender(email.Config{
			APIKey:    cfg.Email.SendGridAPIKey,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		}, log)
	} else {
		emailSender = email.NewStubSender(log)
	}
	log.Info("Integrations initialized (whatsapp enabled=%t, email enabled=%t)",
		cfg.WhatsApp.Enabled, cfg.Email.Enabled)

	templateEngine, err := templates.NewEngine(cfg.Booking.Locale)
	if err != nil {
		log.Fatal("Failed to load message templates: %v", err)
	}
	log.Info("Message templates loaded (locale=%s)", templateEngine.Locale())

	// Сервисы
	notificationSvc := notificationsService.NewService(notificationRepository, metricsCollector, log)
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		catalogRepository,
		notificationSvc,
		location,
		log,
	)
	shiftSvc := shiftsService.NewService(shiftRepository, catalogRepository, txMgr, grid, log)
	catalogSvc := catalogService.NewService(catalogRepository, log)

	// Use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		catalogRepository,
		shiftRepository,
		appointmentRepository,
		getAvailableSlotsUC.Options{
			Grid:         grid,
			IgnoreShifts: cfg.Booking.IgnoreShifts,
			Location:     location,
		},
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		shiftRepository,
		slotLocker,
		notificationSvc,
		metricsCollector,
		txMgr,
		createBookingUC.Options{
			Grid:         grid,
			IgnoreShifts: cfg.Booking.IgnoreShifts,
			Location:     location,
		},
		log,
	)

	sendMessageUseCase := sendMessageUC.NewUseCase(
		appointmentRepository,
		appointmentSvc,
		templateEngine,
		whatsAppClient,
		emailSender,
		messageLogRepository,
		notificationSvc,
		metricsCollector,
		sendMessageUC.Options{CountryCode: cfg.Booking.CountryCode},
		log,
	)

	wizardMachine := wizard.NewMachine(
		catalogRepository,
		getAvailableSlotsUseCase,
		createBookingUseCase,
		sessionStore,
		sessionLocker,
		wizard.Options{Location: location},
		log,
	)

	// LISTEN/NOTIFY: без запуска listener стрим просто не получает событий
	listener := events.NewListener(cfg.Database.DSN(), cfg.Events.Channel, log.With("component", "events"))
	listenerCtx, stopListener := context.WithCancel(context.Background())
	defer stopListener()

	if cfg.Events.Enabled {
		go func() {
			if err := listener.Run(listenerCtx); err != nil {
				log.Error("Events listener stopped: %v", err)
			}
		}()
	}

	// Handlers
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	listStylists := listStylistsHandler.NewHandler(catalogSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, location, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, location, log)
	bookingWizard := bookingWizardHandler.NewHandler(wizardMachine, location, log)
	getClientAppointments := getClientAppointmentsHandler.NewHandler(appointmentSvc, log)

	listAppointments := listAppointmentsHandler.NewHandler(appointmentSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	deleteAppointment := deleteAppointmentHandler.NewHandler(appointmentSvc, log)
	sendAppointmentMessage := sendAppointmentMessageHandler.NewHandler(sendMessageUseCase, log)
	previewMessage := previewMessageHandler.NewHandler(sendMessageUseCase, log)
	getStats := getStatsHandler.NewHandler(appointmentSvc, log)
	getShifts := getShiftsHandler.NewHandler(shiftSvc, log)
	replaceShifts := replaceShiftsHandler.NewHandler(shiftSvc, log)
	notificationsFeed := notificationsFeedHandler.NewHandler(notificationSvc, log)
	appointmentsStream := appointmentsStreamHandler.NewHandler(appointmentSvc, listener, metricsCollector, log)

	limiter, err := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, cfg.Server.TrustedProxies)
	if err != nil {
		log.Fatal("Invalid server.trusted_proxies: %v", err)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Timeout(time.Duration(cfg.Server.RequestTimeout) * time.Second))

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/stylists", listStylists.Handle).Methods(http.MethodGet)
	api.HandleFunc("/stylists/{stylistId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.Handle("/bookings", limiter.Middleware(http.HandlerFunc(createBooking.Handle))).Methods(http.MethodPost)

	// --- Мастер записи ---
	api.HandleFunc("/wizard/sessions", bookingWizard.Start).Methods(http.MethodPost)
	api.HandleFunc("/wizard/sessions/{sessionId}", bookingWizard.Get).Methods(http.MethodGet)
	api.HandleFunc("/wizard/sessions/{sessionId}/services", bookingWizard.SelectServices).Methods(http.MethodPut)
	api.HandleFunc("/wizard/sessions/{sessionId}/stylist", bookingWizard.SelectStylist).Methods(http.MethodPut)
	api.HandleFunc("/wizard/sessions/{sessionId}/date", bookingWizard.SelectDate).Methods(http.MethodPut)
	api.HandleFunc("/wizard/sessions/{sessionId}/time", bookingWizard.SelectTime).Methods(http.MethodPut)
	api.HandleFunc("/wizard/sessions/{sessionId}/details", bookingWizard.SetDetails).Methods(http.MethodPut)
	api.HandleFunc("/wizard/sessions/{sessionId}/next", bookingWizard.Next).Methods(http.MethodPost)
	api.HandleFunc("/wizard/sessions/{sessionId}/previous", bookingWizard.Previous).Methods(http.MethodPost)
	api.Handle("/wizard/sessions/{sessionId}/submit",
		limiter.Middleware(http.HandlerFunc(bookingWizard.Submit))).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	protected.HandleFunc("/me/appointments", getClientAppointments.Handle).Methods(http.MethodGet)

	// ============================================================
	// ADMIN ROUTES (X-User-Role: admin)
	// ============================================================

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth, middleware.RequireAdmin)

	// --- Записи ---
	admin.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/stream", appointmentsStream.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{appointmentId}", deleteAppointment.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	admin.HandleFunc("/appointments/{appointmentId}/messages", sendAppointmentMessage.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/appointments/{appointmentId}/messages/preview", previewMessage.Handle).Methods(http.MethodGet)

	// --- Дашборд ---
	admin.HandleFunc("/stats", getStats.Handle).Methods(http.MethodGet)

	// --- Графики мастеров ---
	admin.HandleFunc("/stylists/{stylistId}/shifts", getShifts.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/stylists/{stylistId}/shifts", replaceShifts.Handle).Methods(http.MethodPut)

	// --- Уведомления ---
	admin.HandleFunc("/notifications", notificationsFeed.List).Methods(http.MethodGet)
	admin.HandleFunc("/notifications/read-all", notificationsFeed.MarkAllRead).Methods(http.MethodPost)
	admin.HandleFunc("/notifications/{notificationId}/read", notificationsFeed.MarkRead).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      middleware.CORS(cfg.Server.AllowedOrigins)(r),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	stopListener()

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
