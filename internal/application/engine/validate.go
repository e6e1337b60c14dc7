package engine

import "planner/internal/application/entity"

const (
	MsgRequiredFields = "필수 정보를 모두 입력해주세요."
	MsgTimeSettings   = "시간 설정을 확인해주세요."
	MsgStartAfterEnd  = "시작 시간은 종료 시간보다 빨라야 합니다."
	MsgEndBeforeStart = "종료 시간은 시작 시간보다 늦어야 합니다."
)

type Validation struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ValidateDraft - проверка формы перед поиском пересечений. Не заменяет FindConflicts.
func ValidateDraft(title, date, startTime, endTime, startTimeError, endTimeError string) Validation {
	if title == "" || date == "" || startTime == "" || endTime == "" {
		return Validation{Message: MsgRequiredFields}
	}
	if startTimeError != "" || endTimeError != "" {
		return Validation{Message: MsgTimeSettings}
	}
	return Validation{Valid: true}
}

// TimeErrors - ошибки полей времени: начало должно быть строго раньше конца.
// Если хотя бы одно время не разобрано, ошибок нет: формат проверяется отдельно.
func TimeErrors(startTime, endTime string) (startErr, endErr string) {
	start, ok := ParseClock(startTime)
	if !ok {
		return "", ""
	}
	end, ok := ParseClock(endTime)
	if !ok {
		return "", ""
	}
	if start >= end {
		return MsgStartAfterEnd, MsgEndBeforeStart
	}
	return "", ""
}

func CheckDraft(d entity.EventDraft) Validation {
	startErr, endErr := TimeErrors(d.StartTime, d.EndTime)
	return ValidateDraft(d.Title, d.Date, d.StartTime, d.EndTime, startErr, endErr)
}
