package segment

import (
	"fmt"
	"strings"
)

// Sort — порядок выдачи ленты.
type Sort string

const (
	// SortLatest — хронологический порядок, новые сверху.
	SortLatest Sort = "latest"
	// SortViews — по числу просмотров в окне времени.
	SortViews Sort = "views"
)

// TimeRange — окно времени для топа: 1, 7, 30 дней или всё время.
type TimeRange string

const (
	RangeDay   TimeRange = "1"
	RangeWeek  TimeRange = "7"
	RangeMonth TimeRange = "30"
	RangeAll   TimeRange = "all"
)

// Days возвращает длину окна в днях; 0 — без ограничения.
func (r TimeRange) Days() int {
	switch r {
	case RangeDay:
		return 1
	case RangeWeek:
		return 7
	case RangeMonth:
		return 30
	default:
		return 0
	}
}

// ParseTimeRange разбирает окно времени; пустая строка — RangeAll.
func ParseTimeRange(s string) (TimeRange, error) {
	switch r := TimeRange(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeAll, nil
	case RangeDay, RangeWeek, RangeMonth, RangeAll:
		return r, nil
	default:
		return "", fmt.Errorf("unknown time range %q", s)
	}
}

// Filters — параметры, определяющие содержимое сегмента.
//
// Тип сравним по значению: одинаковые входы дают равные Filters, поэтому
// повторная оценка без изменений не порождает новых загрузок. По той же
// причине окно времени хранится токеном, а даты вычисляются на транспорте.
type Filters struct {
	Category   string    `json:"category,omitempty"`
	Page       int       `json:"page,omitempty"`
	Size       int       `json:"size,omitempty"`
	Sort       Sort      `json:"sort,omitempty"`
	TimeRange  TimeRange `json:"time_range,omitempty"`
	ExcludeIDs string    `json:"exclude_ids,omitempty"`
	Query      string    `json:"query,omitempty"`
	PostID     string    `json:"post_id,omitempty"`
}

// IsZero сообщает, что фильтры ещё не вычислялись.
func (f Filters) IsZero() bool { return f == Filters{} }
