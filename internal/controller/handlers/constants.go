package handlers

// Ограничения вывода в чат
const (
	// Максимум заявок в одном сообщении (лимит Telegram 4096 символов)
	MaxListedBookings = 15

	// Длина цели бронирования
	PurposeMaxLength = 500
)
