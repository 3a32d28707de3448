package handlers

import (
	"net/http"
	"time"

	"followupTracker/internal/dashboard"
	"followupTracker/internal/logger"

	"go.uber.org/zap"
)

// JSON-представление дашборда. Вся календарная математика живёт
// в пакете dashboard, здесь только окно выборки и сериализация

// DashboardToday - GET /dashboard/today, задачи на сегодня в зоне просмотра
func (s *TaskHandler) DashboardToday(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	from, to := dashboard.DayWindow(time.Now().In(s.Location), s.Location)

	tasks, err := s.TaskService.GetTasksDueBetween(r.Context(), from, to)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "dashboard_today"))
		responseWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	view := dashboard.DayView{
		Date:    from.Format("2006-01-02"),
		Pending: dashboard.HasPending(tasks),
		Tasks:   dashboard.SortForDisplay(tasks),
	}

	logger.Info("HTTP_OUT: Дашборд за день",
		zap.String("date", view.Date),
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, toPayload("day", view))
}

// DashboardMonth - GET /dashboard?month=YYYY-MM.
// Отдаёт месяц по дням с маркерами pending для подсветки календаря
func (s *TaskHandler) DashboardMonth(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	monthStart := time.Now().In(s.Location)
	if monthParam := r.URL.Query().Get("month"); monthParam != "" {
		parsed, err := dashboard.ParseMonth(monthParam, s.Location)
		if err != nil {

			logger.Warn("HTTP: Ошибка получения параметра",
				zap.Error(err),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, "invalid month")
			return
		}
		monthStart = parsed
	}

	from, to := dashboard.MonthWindow(monthStart, s.Location)

	tasks, err := s.TaskService.GetTasksDueBetween(r.Context(), from, to)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "dashboard_month"))
		responseWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	days := dashboard.GroupByDay(tasks, s.Location)

	logger.Info("HTTP_OUT: Дашборд за месяц",
		zap.String("month", from.Format("2006-01")),
		zap.Int("days", len(days)),
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK,
		toPayload("month", from.Format("2006-01")),
		toPayload("days", days),
	)
}
