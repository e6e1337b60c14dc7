package entity

var WeekDays = [7]string{"일", "월", "화", "수", "목", "금", "토"}

const (
	CategoryWork     = "업무"
	CategoryPersonal = "개인"
	CategoryFamily   = "가족"
	CategoryOther    = "기타"
)

var Categories = []string{CategoryWork, CategoryPersonal, CategoryFamily, CategoryOther}

type NotificationOption struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

var NotificationOptions = []NotificationOption{
	{Value: 1, Label: "1분 전"},
	{Value: 10, Label: "10분 전"},
	{Value: 60, Label: "1시간 전"},
	{Value: 120, Label: "2시간 전"},
	{Value: 1440, Label: "1일 전"},
}

var RepeatTypes = []RepeatType{RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly}

func IsCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

func IsRepeatType(s string) bool {
	for _, t := range RepeatTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Meta - справочники для клиентской формы.
type Meta struct {
	WeekDays            [7]string            `json:"weekDays"`
	Categories          []string             `json:"categories"`
	NotificationOptions []NotificationOption `json:"notificationOptions"`
	RepeatTypes         []RepeatType         `json:"repeatTypes"`
}

func DefaultMeta() Meta {
	return Meta{
		WeekDays:            WeekDays,
		Categories:          Categories,
		NotificationOptions: NotificationOptions,
		RepeatTypes:         RepeatTypes,
	}
}
