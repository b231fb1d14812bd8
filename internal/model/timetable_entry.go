package model

// Weekday день недели: 1 = Monday ... 7 = Sunday
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// IsValid проверяет что день недели в диапазоне 1..7
func (w Weekday) IsValid() bool {
	return w >= Monday && w <= Sunday
}

// TimetableEntry постоянное занятие в расписании
type TimetableEntry struct {
	ID          int64   `json:"id"`
	RoomID      int64   `json:"room_id"`
	Weekday     Weekday `json:"weekday"`
	Slot        int     `json:"slot"`
	Subject     string  `json:"subject"`
	FacultyName string  `json:"faculty_name"`
	Section     string  `json:"section"`

	// Заполняется при выборке с join
	RoomNo string `json:"room_no,omitempty"`
}
