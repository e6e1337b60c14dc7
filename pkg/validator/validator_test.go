package validator

import (
	"errors"
	"planner/internal/application/entity"
	"testing"

	playground "github.com/go-playground/validator/v10"
)

func validDraft() entity.EventDraft {
	return entity.EventDraft{
		Title:            "주간 회의",
		Date:             "2024-07-01",
		StartTime:        "10:00",
		EndTime:          "11:00",
		Category:         entity.CategoryWork,
		NotificationTime: 10,
		Repeat:           entity.RepeatInfo{Type: entity.RepeatWeekly, Interval: 1, EndDate: "2024-12-31"},
	}
}

func failedTags(err error) map[string]string {
	out := map[string]string{}
	var verrs playground.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			out[e.Field()] = e.Tag()
		}
	}
	return out
}

func TestValidateDraft(t *testing.T) {
	if err := Validate.Struct(validDraft()); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*entity.EventDraft)
		field  string
		tag    string
	}{
		{"missing title", func(d *entity.EventDraft) { d.Title = "" }, "Title", "required"},
		{"bad date", func(d *entity.EventDraft) { d.Date = "2024-02-30" }, "Date", "date_ymd"},
		{"bad start", func(d *entity.EventDraft) { d.StartTime = "25:00" }, "StartTime", "time_hm"},
		{"bad end", func(d *entity.EventDraft) { d.EndTime = "7pm" }, "EndTime", "time_hm"},
		{"unknown category", func(d *entity.EventDraft) { d.Category = "회의" }, "Category", "category"},
		{"negative notification", func(d *entity.EventDraft) { d.NotificationTime = -1 }, "NotificationTime", "gte"},
		{"unknown repeat", func(d *entity.EventDraft) { d.Repeat.Type = "hourly" }, "Type", "repeat_type"},
		{"bad repeat end", func(d *entity.EventDraft) { d.Repeat.EndDate = "someday" }, "EndDate", "date_ymd_optional"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			tags := failedTags(Validate.Struct(d))
			if tags[tt.field] != tt.tag {
				t.Fatalf("failed tags = %v, want %s:%s", tags, tt.field, tt.tag)
			}
		})
	}
}

func TestValidateDraftOptionalFields(t *testing.T) {
	d := validDraft()
	d.Category = ""
	d.Repeat = entity.RepeatInfo{}
	if err := Validate.Struct(d); err != nil {
		t.Fatalf("optional fields rejected: %v", err)
	}
}
