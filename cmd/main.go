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

	addExceptionHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/add_exception"
	addWorkingHoursHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/add_working_hours"
	createAppointmentHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/create_appointment"
	deactivateWorkingHoursHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/deactivate_working_hours"
	getAppointmentHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/get_available_slots"
	getDoctorAppointmentsHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/get_doctor_appointments"
	getPatientAppointmentsHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/get_patient_appointments"
	listExceptionsHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/list_exceptions"
	listWorkingHoursHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/list_working_hours"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/reschedule_appointment"
	transitionAppointmentHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/transition_appointment"
	updateClinicalNotesHandler "github.com/m04kA/SMC-ClinicScheduling/internal/api/handlers/update_clinical_notes"
	"github.com/m04kA/SMC-ClinicScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicScheduling/internal/config"
	"github.com/m04kA/SMC-ClinicScheduling/internal/infra/lock"
	appointmentRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/schedule"
	directoryClient "github.com/m04kA/SMC-ClinicScheduling/internal/integrations/directory"
	appointmentsService "github.com/m04kA/SMC-ClinicScheduling/internal/service/appointments"
	scheduleService "github.com/m04kA/SMC-ClinicScheduling/internal/service/schedule"
	createAppointmentUC "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/reschedule_appointment"
	transitionAppointmentUC "github.com/m04kA/SMC-ClinicScheduling/internal/usecase/transition_appointment"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/logger"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/metrics"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/txmanager"
)

// dayLocker блокировка дня врача, общая для создания и переноса записей
type dayLocker interface {
	createAppointmentUC.DayLocker
	rescheduleAppointmentUC.DayLocker
}

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

	log.Info("Starting SMC-ClinicScheduling...")
	log.Info("Configuration loaded from %s", configPath)

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Invalid scheduling timezone: %v", err)
	}

	// Инициализируем метрики (если включены). Методы *metrics.Metrics допускают nil.
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

	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, metricsCollector, cfg.Metrics.ServiceName)
	}

	// Инициализируем репозитории и менеджер транзакций
	appointmentRepository := appointmentRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Блокировка дня врача: Redis для нескольких реплик, иначе внутри процесса
	var locker dayLocker
	if cfg.Redis.Enabled {
		redisClient, err := lock.NewRedisClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to redis: %v", err)
		}
		defer redisClient.Close()

		locker = lock.NewRedisLocker(redisClient, cfg.Redis.LockTTLDuration(), cfg.Redis.LockWaitDuration(), metricsCollector, log)
		log.Info("Redis doctor-day lock enabled (addr=%s, ttl=%s, wait=%s)",
			cfg.Redis.Addr, cfg.Redis.LockTTLDuration(), cfg.Redis.LockWaitDuration())
	} else {
		locker = lock.NewLocalLocker(metricsCollector)
		log.Warn("Redis disabled: doctor-day lock is local to this process")
	}

	// Справочник врачей и пациентов (необязателен)
	var directory createAppointmentUC.DirectoryClient
	if cfg.Directory.Enabled {
		directory = directoryClient.NewClient(
			cfg.Directory.URL,
			time.Duration(cfg.Directory.Timeout)*time.Second,
			log,
		)
		log.Info("Directory client initialized (url=%s, timeout=%ds)", cfg.Directory.URL, cfg.Directory.Timeout)
	} else {
		log.Info("Directory disabled: default appointment duration is %d minutes", cfg.Scheduling.DefaultAppointmentMinutes)
	}

	// Инициализируем сервисы
	appointmentsSvc := appointmentsService.NewService(appointmentRepository, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, txMgr, log)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		directory,
		locker,
		txMgr,
		metricsCollector,
		createAppointmentUC.Options{
			Location:                  location,
			DefaultAppointmentMinutes: cfg.Scheduling.DefaultAppointmentMinutes,
		},
		log,
	)

	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		locker,
		txMgr,
		metricsCollector,
		location,
		log,
	)

	transitionAppointmentUseCase := transitionAppointmentUC.NewUseCase(
		appointmentRepository,
		txMgr,
		transitionAppointmentUC.Options{
			Location:                        location,
			NoShowRequiresPastDate:          cfg.Scheduling.NoShowRequiresPastDate,
			RequireClinicalFieldsOnComplete: cfg.Scheduling.RequireClinicalFieldsOnComplete,
		},
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		location,
		cfg.Scheduling.MaxRangeDays,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	transitionAppointment := transitionAppointmentHandler.NewHandler(transitionAppointmentUseCase, log)
	updateClinicalNotes := updateClinicalNotesHandler.NewHandler(appointmentsSvc, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	getDoctorAppointments := getDoctorAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getPatientAppointments := getPatientAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	addWorkingHours := addWorkingHoursHandler.NewHandler(scheduleSvc, log)
	listWorkingHours := listWorkingHoursHandler.NewHandler(scheduleSvc, log)
	deactivateWorkingHours := deactivateWorkingHoursHandler.NewHandler(scheduleSvc, log)
	addException := addExceptionHandler.NewHandler(scheduleSvc, log)
	listExceptions := listExceptionsHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Свободное время врача
	api.HandleFunc("/doctors/{doctorId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Рабочие окна и исключения врача
	api.HandleFunc("/doctors/{doctorId}/working-hours", listWorkingHours.Handle).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/exceptions", listExceptions.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/schedule", rescheduleAppointment.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/appointments/{appointmentId}/status", transitionAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/clinical-notes", updateClinicalNotes.Handle).Methods(http.MethodPatch)

	// --- Агенда врача и история пациента ---
	protected.HandleFunc("/doctors/{doctorId}/appointments", getDoctorAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/patients/{patientId}/appointments", getPatientAppointments.Handle).Methods(http.MethodGet)

	// --- Управление расписанием (врач или персонал) ---
	protected.HandleFunc("/doctors/{doctorId}/working-hours", addWorkingHours.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/doctors/{doctorId}/working-hours/{workingHoursId}", deactivateWorkingHours.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/doctors/{doctorId}/exceptions", addException.Handle).Methods(http.MethodPost)

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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

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
