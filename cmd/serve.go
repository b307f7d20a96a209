package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_available_slots"
	getCalendarDaysHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_calendar_days"
	getDayConfigHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_day_config"
	getSpecialistScheduleHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_specialist_schedule"
	listAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_appointments"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/reschedule_appointment"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_appointment_status"
	updateDayConfigHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_day_config"
	updateSpecialistScheduleHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_specialist_schedule"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	calendarCache "github.com/m04kA/SMC-SalonBooking/internal/infra/cache/calendar"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	calendarRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/calendar"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/integrations/eventbus"
	notifyServiceClient "github.com/m04kA/SMC-SalonBooking/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-SalonBooking/internal/notifier"
	"github.com/m04kA/SMC-SalonBooking/internal/realtime"
	appointmentsService "github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	calendarService "github.com/m04kA/SMC-SalonBooking/internal/service/calendar"
	createAppointmentUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/reschedule_appointment"
	sendRemindersUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/send_reminders"
	reminderWorker "github.com/m04kA/SMC-SalonBooking/internal/worker/reminder"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
)

const (
	rateLimitVisitorTTL    = 10 * time.Minute
	rateLimitCleanupPeriod = time.Minute
	reminderSweepTimeout   = 2 * time.Minute
	workerShutdownTimeout  = 30 * time.Second
)

func runServe(configPath string) error {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Booking.Location()
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := openDatabase(cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	// Без метрик обёртка работает как обычный *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	calendarRepository := calendarRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)

	// Кэш календаря в Redis (если включен и доступен)
	var dayStore calendarService.DayStore = calendarRepository
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()

		if err != nil {
			log.Warn("Redis is unavailable, calendar cache disabled: addr=%s, error=%v", cfg.Redis.Addr, err)
		} else {
			dayStore = calendarCache.NewCachedStore(calendarRepository, redisClient, time.Duration(cfg.Redis.TTL)*time.Second, log)
			log.Info("Calendar cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.TTL)
		}
	}

	// Уведомления: WebSocket всегда, Kafka по конфигурации
	hub := realtime.NewHub(log)

	var producer notifier.EventProducer
	if cfg.Kafka.Enabled {
		kafkaProducer, err := eventbus.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic,
			time.Duration(cfg.Kafka.WriteTimeout)*time.Second, log)
		if err != nil {
			return fmt.Errorf("create kafka producer: %w", err)
		}
		defer func() {
			if err := kafkaProducer.Close(); err != nil {
				log.Error("Failed to close kafka producer: %v", err)
			}
		}()
		producer = kafkaProducer
		log.Info("Kafka producer enabled (brokers=%v, topic=%s)", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	appointmentNotifier := notifier.New(hub, producer, metricsCollector, log)

	notifyClient := notifyServiceClient.NewClient(
		cfg.NotificationService.URL,
		time.Duration(cfg.NotificationService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (NotificationService=%s timeout=%ds)",
		cfg.NotificationService.URL, cfg.NotificationService.Timeout)

	// Инициализируем сервисы
	calendarSvc := calendarService.NewService(
		dayStore,
		calendarRepository,
		catalogRepository,
		txMgr,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		txMgr,
		appointmentNotifier,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		calendarSvc,
		location,
		log,
	)
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		txMgr,
		appointmentNotifier,
		metricsCollector,
		location,
		log,
	)
	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		catalogRepository,
		txMgr,
		appointmentNotifier,
		metricsCollector,
		location,
		log,
	)
	sendRemindersUseCase := sendRemindersUC.NewUseCase(
		appointmentRepository,
		notifyClient,
		metricsCollector,
		sendRemindersUC.Options{
			Lead:      time.Duration(cfg.Reminders.LeadMinutes) * time.Minute,
			BatchSize: cfg.Reminders.BatchSize,
		},
		location,
		log,
	)

	// Рассылка напоминаний по расписанию
	var worker *reminderWorker.Worker
	if cfg.Reminders.Enabled {
		worker, err = reminderWorker.New(sendRemindersUseCase, cfg.Reminders.Schedule, reminderSweepTimeout, location, log)
		if err != nil {
			return err
		}
		if err := worker.Start(); err != nil {
			return err
		}
	}

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentsSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentsSvc, log)
	getCalendarDays := getCalendarDaysHandler.NewHandler(calendarSvc, log)
	getDayConfig := getDayConfigHandler.NewHandler(calendarSvc, log)
	updateDayConfig := updateDayConfigHandler.NewHandler(calendarSvc, log)
	getSpecialistSchedule := getSpecialistScheduleHandler.NewHandler(calendarSvc, log)
	updateSpecialistSchedule := updateSpecialistScheduleHandler.NewHandler(calendarSvc, log)
	realtimeHandler := realtime.NewHandler(hub, log)

	// Ограничение частоты на изменяющих запросах
	limited := func(h http.HandlerFunc) http.Handler { return h }
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, rateLimitVisitorTTL)
		go limiter.RunCleanup(rateLimitCleanupPeriod, stopMetricsCh)
		limited = func(h http.HandlerFunc) http.Handler { return limiter.Middleware(h) }
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободные слоты салона или мастера
	api.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Календарь салона
	api.HandleFunc("/calendar/days", getCalendarDays.Handle).Methods(http.MethodGet)
	api.HandleFunc("/calendar/days/{weekday:[0-9]+}", getDayConfig.Handle).Methods(http.MethodGet)

	// График мастера
	api.HandleFunc("/specialists/{specialistId:[0-9]+}/schedule", getSpecialistSchedule.Handle).Methods(http.MethodGet)

	// События в реальном времени
	api.Handle("/ws", realtimeHandler).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.Handle("/appointments", limited(createAppointment.Handle)).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.Handle("/appointments/{appointmentId}/reschedule", limited(rescheduleAppointment.Handle)).Methods(http.MethodPatch)
	protected.Handle("/appointments/{appointmentId}/cancel", limited(cancelAppointment.Handle)).Methods(http.MethodPatch)

	// --- Администрирование ---
	admin := protected.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireAdmin)

	admin.Handle("/appointments/{appointmentId}/status", limited(updateAppointmentStatus.Handle)).Methods(http.MethodPatch)
	admin.Handle("/calendar/days/{weekday:[0-9]+}", limited(updateDayConfig.Handle)).Methods(http.MethodPut)
	admin.Handle("/specialists/{specialistId:[0-9]+}/schedule", limited(updateSpecialistSchedule.Handle)).Methods(http.MethodPut)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		log.Error("Server failed: %v", err)
		return err
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Порядок: новые записи уже не принимаются, дожидаемся фоновой работы
	if worker != nil {
		workerCtx, cancelWorker := context.WithTimeout(context.Background(), workerShutdownTimeout)
		_ = worker.Stop(workerCtx)
		cancelWorker()
	}
	appointmentNotifier.Wait()
	hub.CloseAll()

	log.Info("Server stopped gracefully")
	return nil
}
