package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClinicScheduling/internal/domain"
	"github.com/m04kA/SMC-ClinicScheduling/internal/scheduling"
)

// UseCase use case для получения свободного времени врача
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	location        *time.Location
	maxRangeDays    int
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	location *time.Location,
	maxRangeDays int,
	logger Logger,
) *UseCase {
	if maxRangeDays <= 0 {
		maxRangeDays = domain.DefaultMaxRangeDays
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		location:        location,
		maxRangeDays:    maxRangeDays,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения свободного времени.
// Результат не резервирует время: запись все равно проходит полную проверку.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: doctor=%d, from=%s, to=%s, slotMinutes=%d",
		req.DoctorID, formatDate(req.From), formatDate(req.To), req.SlotMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Определяем период
	today := scheduling.NewValidator(uc.timeProvider, uc.location).Today()
	from, to, err := uc.resolveRange(req, today)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid range for doctor=%d: %v", req.DoctorID, err)
		return nil, err
	}

	response := &Response{DoctorID: req.DoctorID, From: from, To: to, Slots: make([]Slot, 0)}

	// Период целиком в прошлом
	if to.Before(from) {
		return response, nil
	}

	// 3. Загружаем расписание и записи за период
	snapshot, err := uc.loadSnapshot(ctx, req.DoctorID, from, to)
	if err != nil {
		return nil, err
	}

	// 4. Вычисляем свободные интервалы
	for slot := range scheduling.BookableSlots(snapshot, req.DoctorID, from, to) {
		for _, piece := range slot.Split(req.SlotMinutes) {
			response.Slots = append(response.Slots, Slot{
				Date:            piece.Date,
				StartTime:       piece.Start,
				EndTime:         piece.End,
				DurationMinutes: piece.Minutes(),
			})
		}
	}

	uc.logger.Info("GetAvailableSlots: found %d slots for doctor=%d", len(response.Slots), req.DoctorID)
	return response, nil
}

// resolveRange применяет значения по умолчанию и ограничения периода.
// Начало в прошлом сдвигается на сегодня.
func (uc *UseCase) resolveRange(req *Request, today time.Time) (time.Time, time.Time, error) {
	from := today
	if req.From != nil {
		from = domain.DateOf(*req.From)
	}
	if req.To != nil && domain.DateOf(*req.To).Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}

	if from.Before(today) {
		from = today
	}

	// период по умолчанию отсчитывается от уже сдвинутого начала
	to := from.AddDate(0, 0, min(domain.DefaultAvailabilityDays, uc.maxRangeDays-1))
	if req.To != nil {
		to = domain.DateOf(*req.To)
	}

	if days := int(to.Sub(from).Hours()/24) + 1; days > uc.maxRangeDays {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %d days requested, at most %d allowed",
			ErrRangeTooLong, days, uc.maxRangeDays)
	}

	return from, to, nil
}

func (uc *UseCase) loadSnapshot(ctx context.Context, doctorID int64, from, to time.Time) (scheduling.Snapshot, error) {
	appointments, err := uc.appointmentRepo.GetWithFilter(ctx, domain.AppointmentsFilter{
		DoctorID:  &doctorID,
		StartDate: &from,
		EndDate:   &to,
		Statuses:  domain.OccupyingStatuses,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return scheduling.Snapshot{}, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	hours, err := uc.scheduleRepo.GetWorkingHours(ctx, doctorID, nil, false)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get working hours: %v", err)
		return scheduling.Snapshot{}, fmt.Errorf("%w: failed to get working hours: %v", ErrInternal, err)
	}

	exceptions, err := uc.scheduleRepo.GetExceptions(ctx, doctorID, &from, &to)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get exceptions: %v", err)
		return scheduling.Snapshot{}, fmt.Errorf("%w: failed to get exceptions: %v", ErrInternal, err)
	}

	return scheduling.NewSnapshot(hours, exceptions, appointments), nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.DoctorID <= 0 {
		return fmt.Errorf("%w: doctorId must be positive", ErrInvalidInput)
	}

	if req.SlotMinutes != 0 && (req.SlotMinutes < domain.MinSlotMinutes || req.SlotMinutes > domain.MaxSlotMinutes) {
		return fmt.Errorf("%w: slotMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotMinutes, domain.MaxSlotMinutes)
	}

	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(domain.DateFormat)
}
