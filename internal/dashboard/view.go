package dashboard

import (
	"fmt"
	"sort"
	"time"

	"followupTracker/internal/models/task"
)

// Чистая календарная математика дашборда, без HTTP и без хранилища.
// Вся группировка считается в зоне просмотра пользователя.

const dayLayout = "2006-01-02"
const monthLayout = "2006-01"

type DayView struct {
	Date    string       `json:"date"` // YYYY-MM-DD в зоне просмотра
	Pending bool         `json:"pending"`
	Tasks   []*task.Task `json:"tasks"`
}

// ParseDay разбирает дату вида 2026-08-28 в начало суток заданной зоны
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(dayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("разбор даты %q: %w", s, err)
	}
	return day, nil
}

// ParseMonth разбирает месяц вида 2026-08 в первое число месяца заданной зоны
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	month, err := time.ParseInLocation(monthLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("разбор месяца %q: %w", s, err)
	}
	return month, nil
}

// DayWindow - окно суток [начало дня, начало следующего дня)
func DayWindow(date time.Time, loc *time.Location) (time.Time, time.Time) {
	d := date.In(loc)
	from := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}

// MonthWindow - окно месяца [первое число, первое число следующего месяца)
func MonthWindow(date time.Time, loc *time.Location) (time.Time, time.Time) {
	d := date.In(loc)
	from := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 1, 0)
}

// SortForDisplay стабильно опускает завершённые задачи под открытые.
// Исходный порядок (возрастание due_at из хранилища) внутри групп сохраняется
func SortForDisplay(tasks []*task.Task) []*task.Task {
	sorted := make([]*task.Task, len(tasks))
	copy(sorted, tasks)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Status.IsOpen() && !sorted[j].Status.IsOpen()
	})
	return sorted
}

// HasPending - день подсвечивается, если есть хоть одна незавершённая задача
func HasPending(tasks []*task.Task) bool {
	for _, t := range tasks {
		if t.Status.IsOpen() {
			return true
		}
	}
	return false
}

// GroupByDay раскладывает выборку за период по календарным дням зоны loc.
// Дни идут по возрастанию, внутри дня задачи отсортированы для показа
func GroupByDay(tasks []*task.Task, loc *time.Location) []DayView {
	byDay := make(map[string][]*task.Task)

	for _, t := range tasks {
		key := t.DueAt.In(loc).Format(dayLayout)
		byDay[key] = append(byDay[key], t)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	views := make([]DayView, 0, len(days))
	for _, day := range days {
		dayTasks := byDay[day]
		views = append(views, DayView{
			Date:    day,
			Pending: HasPending(dayTasks),
			Tasks:   SortForDisplay(dayTasks),
		})
	}

	return views
}
