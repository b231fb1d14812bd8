package model

type RoomStatus string

const (
	RoomStatusAvailable RoomStatus = "available"
	RoomStatusOccupied  RoomStatus = "occupied"
)

// Room аудитория. Status - кэшируемый флаг, источником истины не является
type Room struct {
	ID       int64      `json:"id"`
	RoomNo   string     `json:"room_no"`
	Building string     `json:"building"`
	Capacity int        `json:"capacity"`
	Status   RoomStatus `json:"status"`
}
