package formatting

// PluralizeBookings возвращает правильное склонение слова "заявка"
func PluralizeBookings(count int) string {
	return pluralize(count, "заявка", "заявки", "заявок")
}

// PluralizeRooms возвращает правильное склонение слова "аудитория"
func PluralizeRooms(count int) string {
	return pluralize(count, "аудитория", "аудитории", "аудиторий")
}

func pluralize(count int, one, few, many string) string {
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}
