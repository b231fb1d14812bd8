package model

import (
	"fmt"
	"time"
)

// OccupancyKey составной ключ (аудитория, дата, слот)
type OccupancyKey struct {
	RoomID int64
	Date   time.Time
	Slot   int
}

// String используется как имя блокировки
func (k OccupancyKey) String() string {
	return fmt.Sprintf("room:%d/date:%s/slot:%d", k.RoomID, k.Date.Format("2006-01-02"), k.Slot)
}

type OccupancyStatus string

const (
	OccupancyFree     OccupancyStatus = "free"
	OccupancyOccupied OccupancyStatus = "occupied"
)

// Verdict результат проверки занятости одной аудитории
type Verdict struct {
	RoomID    int64           `json:"room_id"`
	RoomNo    string          `json:"room"`
	Status    OccupancyStatus `json:"status"`
	Reason    string          `json:"reason"`
	BookingID string          `json:"booking_id,omitempty"`
}

// IsFree возвращает true если аудитория свободна
func (v Verdict) IsFree() bool {
	return v.Status == OccupancyFree
}
