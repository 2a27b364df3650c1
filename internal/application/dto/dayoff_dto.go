package dto

// RequestDaysOffRequest entrada de request-days-off.
type RequestDaysOffRequest struct {
	Dates []string `json:"dates" validate:"required,min=1,dive,datetime=2006-01-02"`
}

// RequestDaysOffResponse resultado de una admisión exitosa.
type RequestDaysOffResponse struct {
	Message string          `json:"message"`
	DaysOff []DayOffSummary `json:"daysOff"`
}

// CancelDayOffRequest entrada de cancel-day-off.
type CancelDayOffRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// CalendarQuery mes/año consultados.
type CalendarQuery struct {
	Month int `query:"month" validate:"required,min=1,max=12"`
	Year  int `query:"year" validate:"required,min=2000,max=2100"`
}

// DayOffSummary solicitud propia en el calendario.
type DayOffSummary struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

// CalendarResponse salida de get-calendar.
type CalendarResponse struct {
	ShiftDayCounts map[string]int  `json:"shiftDayCounts"`
	MyDaysOff      []DayOffSummary `json:"myDaysOff"`
}

// ManageRequestRequest entrada de admin-manage-request.
type ManageRequestRequest struct {
	DayOffID int64  `json:"dayOffId" validate:"required,gt=0"`
	Action   string `json:"action" validate:"required,oneof=approve reject"`
}

// DayOffResponse solicitud tras un cambio de estado.
type DayOffResponse struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Date   string `json:"date"`
	Status string `json:"status"`
}

// DayCounts pending/approved de una fecha (calendario de administración).
type DayCounts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
}

// DayDetailsQuery fecha consultada en admin-get-day-details.
type DayDetailsQuery struct {
	Date string `query:"date" validate:"required,datetime=2006-01-02"`
}

// DayOffDetailResponse solicitud con datos del dueño.
type DayOffDetailResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	Shift     string `json:"shift"`
	Status    string `json:"status"`
}
