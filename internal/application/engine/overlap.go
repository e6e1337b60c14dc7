package engine

import "planner/internal/application/entity"

// Overlaps - пересечение полуоткрытых интервалов [start, end).
// Касание концами пересечением не считается; любой Invalid конец дает false.
func Overlaps(a, b TimeRange) bool {
	if !a.Valid() || !b.Valid() {
		return false
	}
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// FindConflicts возвращает существующие события, пересекающиеся с черновиком, в исходном порядке.
// Событие с тем же ID (редактирование самого себя) в результат не попадает.
func FindConflicts(draft entity.EventDraft, existing []entity.Event) []entity.Event {
	conflicts := make([]entity.Event, 0)

	target := DraftRange(draft)
	if !target.Valid() {
		return conflicts
	}

	for _, e := range existing {
		if draft.ID != "" && e.ID == draft.ID {
			continue
		}
		if Overlaps(target, EventRange(e)) {
			conflicts = append(conflicts, e)
		}
	}

	return conflicts
}
