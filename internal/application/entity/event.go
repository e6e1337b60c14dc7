package entity

type RepeatType string

const (
	RepeatNone    RepeatType = "none"
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
	RepeatYearly  RepeatType = "yearly"
)

// RepeatInfo описывает правило повторения. Разворачивание делает engine.Occurrences.
type RepeatInfo struct {
	Type     RepeatType `json:"type" validate:"omitempty,repeat_type"`
	Interval int        `json:"interval" validate:"gte=0"`
	EndDate  string     `json:"endDate,omitempty" validate:"date_ymd_optional"`
}

type Event struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Location         string     `json:"location"`
	Date             string     `json:"date"`
	StartTime        string     `json:"startTime"`
	EndTime          string     `json:"endTime"`
	Category         string     `json:"category"`
	NotificationTime int        `json:"notificationTime"`
	Repeat           RepeatInfo `json:"repeat"`
}

// EventDraft - тело формы события. Пустой ID означает создание нового события.
type EventDraft struct {
	ID               string     `json:"id,omitempty" validate:"omitempty,max=100"`
	Title            string     `json:"title" validate:"required,max=200"`
	Description      string     `json:"description" validate:"omitempty,max=1000"`
	Location         string     `json:"location" validate:"omitempty,max=200"`
	Date             string     `json:"date" validate:"required,date_ymd"`
	StartTime        string     `json:"startTime" validate:"required,time_hm"`
	EndTime          string     `json:"endTime" validate:"required,time_hm"`
	Category         string     `json:"category" validate:"omitempty,category"`
	NotificationTime int        `json:"notificationTime" validate:"gte=0"`
	Repeat           RepeatInfo `json:"repeat"`
}

// WithID собирает событие из черновика с указанным идентификатором.
func (d EventDraft) WithID(id string) Event {
	return Event{
		ID:               id,
		Title:            d.Title,
		Description:      d.Description,
		Location:         d.Location,
		Date:             d.Date,
		StartTime:        d.StartTime,
		EndTime:          d.EndTime,
		Category:         d.Category,
		NotificationTime: d.NotificationTime,
		Repeat:           d.Repeat,
	}
}

func (e Event) Draft() EventDraft {
	return EventDraft{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		Location:         e.Location,
		Date:             e.Date,
		StartTime:        e.StartTime,
		EndTime:          e.EndTime,
		Category:         e.Category,
		NotificationTime: e.NotificationTime,
		Repeat:           e.Repeat,
	}
}

// NewDraft формирует черновик из данных формы: ID берется у редактируемого события, если оно есть.
func NewDraft(editing *Event, form EventDraft) EventDraft {
	form.ID = ""
	if editing != nil {
		form.ID = editing.ID
	}
	if form.Repeat.Type == "" {
		form.Repeat.Type = RepeatNone
	}
	return form
}

// Notification - отрендеренное напоминание о событии.
type Notification struct {
	EventID string `json:"eventId"`
	Message string `json:"message"`
}

// ReminderPayload - сообщение о наступившем напоминании, уходит в Kafka через outbox.
type ReminderPayload struct {
	EventID   string `json:"eventId"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	FiredAt   string `json:"firedAt"`
}

// ReminderAck - подтверждение получения напоминания из Kafka.
type ReminderAck struct {
	EventID string `json:"eventId"`
}

// CalendarDay - клетка сетки календаря: события дня и праздник.
type CalendarDay struct {
	Date    string  `json:"date" example:"2024-10-03"`
	Day     int     `json:"day" example:"3"`
	Holiday string  `json:"holiday,omitempty" example:"개천절"`
	Events  []Event `json:"events"`
}

// CalendarView - сетка недели (одна строка) или месяца. Клетки вне месяца - null.
type CalendarView struct {
	View  string           `json:"view" example:"month"`
	Date  string           `json:"date" example:"2024-10-15"`
	Weeks [][]*CalendarDay `json:"weeks"`
}
