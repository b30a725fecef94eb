package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-ClinicScheduling/internal/config"
	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/appointment"
	scheduleRepo "github.com/m04kA/SMC-ClinicScheduling/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ClinicScheduling/internal/scheduling"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/logger"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/ptr"
	"github.com/m04kA/SMC-ClinicScheduling/pkg/types"
)

// Демо-расписание: два окна в будни, прием по 30 минут
var demoWindows = [][2]string{{"08:00", "12:00"}, {"14:00", "18:00"}}

const slotMinutes = 30

func main() {
	configPath := flag.String("config", "config.toml", "путь к config.toml")
	doctors := flag.Int("doctors", 10, "количество врачей")
	patients := flag.Int("patients", 200, "количество пациентов")
	days := flag.Int("days", 14, "горизонт записей в днях")
	perDay := flag.Int("per-day", 4, "записей на врача в рабочий день")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("", cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Invalid scheduling timezone: %v", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	s := &seeder{
		appointments: appointmentRepo.NewRepository(db),
		schedule:     scheduleRepo.NewRepository(db),
		validator:    scheduling.NewValidator(scheduling.RealTimeProvider{}, location),
		log:          log,
	}

	today := domain.DateOf(time.Now().In(location))
	for doctorID := int64(1); doctorID <= int64(*doctors); doctorID++ {
		hours, err := s.seedWorkingHours(ctx, doctorID)
		if err != nil {
			log.Fatal("seed working hours for doctor %d: %v", doctorID, err)
		}
		exceptions, err := s.seedException(ctx, doctorID, today, *days)
		if err != nil {
			log.Fatal("seed exception for doctor %d: %v", doctorID, err)
		}
		if err := s.seedAppointments(ctx, doctorID, today, *days, *perDay, *patients, hours, exceptions); err != nil {
			log.Fatal("seed appointments for doctor %d: %v", doctorID, err)
		}
	}

	log.Info("Seed complete: doctors=%d, working_hours=%d, exceptions=%d, appointments=%d, rejected=%d",
		*doctors, s.hours, s.exceptions, s.created, s.rejected)
}

type seeder struct {
	appointments *appointmentRepo.Repository
	schedule     *scheduleRepo.Repository
	validator    *scheduling.Validator
	log          *logger.Logger

	hours      int
	exceptions int
	created    int
	rejected   int
}

func (s *seeder) seedWorkingHours(ctx context.Context, doctorID int64) ([]*domain.WorkingHours, error) {
	var hours []*domain.WorkingHours
	for weekday := domain.Monday; weekday <= domain.Friday; weekday++ {
		for _, window := range demoWindows {
			created, err := s.schedule.CreateWorkingHours(ctx, &domain.WorkingHours{
				DoctorID:  doctorID,
				Weekday:   weekday,
				StartTime: types.TimeString(window[0]),
				EndTime:   types.TimeString(window[1]),
				Active:    true,
			})
			if err != nil {
				return nil, err
			}
			hours = append(hours, created)
			s.hours++
		}
	}
	return hours, nil
}

// seedException примерно каждому третьему врачу добавляет отсутствие внутри горизонта
func (s *seeder) seedException(ctx context.Context, doctorID int64, today time.Time, days int) ([]*domain.Exception, error) {
	if days < 3 || gofakeit.Number(0, 2) != 0 {
		return nil, nil
	}

	start := today.AddDate(0, 0, gofakeit.Number(1, days-2))
	exception := &domain.Exception{
		DoctorID:    doctorID,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, gofakeit.Number(0, 2)),
		Reason:      domain.ExceptionReason(gofakeit.RandomString([]string{"vacaciones", "capacitacion", "personal"})),
		Description: ptr.Ptr(gofakeit.RandomString([]string{"congreso", "licencia", "tramite familiar"})),
	}

	created, err := s.schedule.CreateException(ctx, exception)
	if err != nil {
		return nil, err
	}
	s.exceptions++
	return []*domain.Exception{created}, nil
}

// seedAppointments сохраняет только записи, допущенные валидатором по снимку дня
func (s *seeder) seedAppointments(ctx context.Context, doctorID int64, today time.Time, days, perDay, patients int,
	hours []*domain.WorkingHours, exceptions []*domain.Exception) error {
	for offset := 1; offset <= days; offset++ {
		date := today.AddDate(0, 0, offset)

		existing, err := s.appointments.GetWithFilter(ctx, domain.AppointmentsFilter{
			DoctorID:  &doctorID,
			StartDate: &date,
			EndDate:   &date,
			Statuses:  domain.BlockingStatuses,
		})
		if err != nil {
			return err
		}

		planned, rejected := planDay(s.validator, doctorID, date, perDay, patients, hours, exceptions, existing)
		s.rejected += rejected

		for _, a := range planned {
			if _, err := s.appointments.Create(ctx, a); err != nil {
				if errors.Is(err, appointmentRepo.ErrDuplicateSlot) {
					s.rejected++
					continue
				}
				return err
			}
			s.created++
		}
	}
	s.log.Info("Doctor %d seeded", doctorID)
	return nil
}

var (
	appointmentTypes = []string{
		string(domain.TypeFirstVisit),
		string(domain.TypeFollowUp),
		string(domain.TypeUrgent),
		string(domain.TypeTelemedicine),
	}
	motives = []string{"dolor de cabeza", "control anual", "resultados de laboratorio", "fiebre", "revision de tratamiento"}
)

// planDay подбирает до perDay записей на день. Каждый кандидат проходит
// scheduling.Validator по снимку с уже принятыми записями; отклоненные считаются.
func planDay(validator *scheduling.Validator, doctorID int64, date time.Time, perDay, patients int,
	hours []*domain.WorkingHours, exceptions []*domain.Exception, existing []*domain.Appointment) ([]*domain.Appointment, int) {
	ledger := append([]*domain.Appointment(nil), existing...)
	var planned []*domain.Appointment
	rejected := 0

	taken := make(map[int]bool)
	for i := 0; i < perDay; i++ {
		window := demoWindows[gofakeit.Number(0, len(demoWindows)-1)]
		start, end, ok := pickSlot(window, taken)
		if !ok {
			continue
		}

		proposal := scheduling.Proposal{DoctorID: doctorID, Date: date, StartTime: start, EndTime: end}
		if err := validator.Validate(scheduling.NewSnapshot(hours, exceptions, ledger), proposal); err != nil {
			rejected++
			continue
		}

		status := domain.StatusPending
		if gofakeit.Bool() {
			status = domain.StatusConfirmed
		}

		a := &domain.Appointment{
			DoctorID:  doctorID,
			PatientID: int64(gofakeit.Number(1, patients)),
			Date:      date,
			StartTime: start,
			EndTime:   end,
			Type:      domain.AppointmentType(gofakeit.RandomString(appointmentTypes)),
			Status:    status,
			Motive:    gofakeit.RandomString(motives),
		}
		planned = append(planned, a)
		ledger = append(ledger, a)
	}
	return planned, rejected
}

// pickSlot выбирает свободный слот сетки внутри окна
func pickSlot(window [2]string, taken map[int]bool) (types.TimeString, types.TimeString, bool) {
	from := types.TimeString(window[0]).Minutes()
	to := types.TimeString(window[1]).Minutes()
	count := (to - from) / slotMinutes

	for attempt := 0; attempt < count; attempt++ {
		startMin := from + gofakeit.Number(0, count-1)*slotMinutes
		if taken[startMin] {
			continue
		}
		taken[startMin] = true

		start, err := types.NewTimeStringFromMinutes(startMin)
		if err != nil {
			return "", "", false
		}
		end, err := types.NewTimeStringFromMinutes(startMin + slotMinutes)
		if err != nil {
			return "", "", false
		}
		return start, end, true
	}
	return "", "", false
}
