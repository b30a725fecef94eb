package directory

// Specialty специальность врача и длительность приема по ней
type Specialty struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	AppointmentMinutes int    `json:"appointmentMinutes"`
}

// Doctor врач из справочника
type Doctor struct {
	ID          int64       `json:"id"`
	FullName    string      `json:"fullName"`
	Active      bool        `json:"active"`
	Specialties []Specialty `json:"specialties"`
}

// AppointmentMinutes длительность приема по первой специальности.
// Возвращает fallback, если специальностей нет или длительность не задана.
func (d *Doctor) AppointmentMinutes(fallback int) int {
	if len(d.Specialties) == 0 || d.Specialties[0].AppointmentMinutes <= 0 {
		return fallback
	}
	return d.Specialties[0].AppointmentMinutes
}

// Patient пациент из справочника
type Patient struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Active   bool   `json:"active"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
