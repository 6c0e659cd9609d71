package handlers

// Форматы callback data
const (
	// decide:approve:<request_id>
	DecidePrefix = "decide:"
	// cal:<hall>:<year>:<month>
	CalendarPrefix = "cal:"
	// calday:<hall>:<YYYY-MM-DD>
	CalendarDayPrefix = "calday:"
	Noop              = "noop"
)

const (
	// Сколько заявок показывать в /pending и /history
	MaxListItems = 10
	// Сколько последних уведомлений показывать в /notifications
	MaxNotifications = 10
)
