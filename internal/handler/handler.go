// Package handler は日程候補APIのHTTPハンドラーを提供する。
package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/k-negishi/schedule-candidate-picker/internal/candidate"
	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
	"github.com/k-negishi/schedule-candidate-picker/internal/formatter"
	"github.com/k-negishi/schedule-candidate-picker/internal/holiday"
	"github.com/k-negishi/schedule-candidate-picker/internal/week"
)

// HolidayService 祝日判定のポート
type HolidayService interface {
	HolidayName(date time.Time) (string, bool)
	HolidaysInYear(year int) ([]domain.HolidayEntry, error)
	Mode() holiday.Mode
}

// Sharer 日程候補を共有するポート
type Sharer interface {
	Execute(ctx context.Context, opts formatter.Options) (text string, skipped bool, err error)
}

// Handler 日程候補APIのハンドラー
type Handler struct {
	store    *candidate.Store
	holidays HolidayService
	sharer   Sharer
	grid     week.Config
	location *time.Location
	clock    func() time.Time
	logger   *zap.Logger
	validate *validator.Validate

	navMu     sync.Mutex
	navigator *week.Navigator
}

// NewHandler ハンドラーを作成。sharerがnilの場合は共有APIが503を返す
func NewHandler(store *candidate.Store, holidays HolidayService, sharer Sharer, grid week.Config, location *time.Location, clock func() time.Time, logger *zap.Logger) *Handler {
	if clock == nil {
		clock = time.Now
	}
	localClock := func() time.Time { return clock().In(location) }
	return &Handler{
		store:     store,
		holidays:  holidays,
		sharer:    sharer,
		grid:      grid,
		location:  location,
		clock:     localClock,
		logger:    logger,
		validate:  validator.New(),
		navigator: week.NewNavigator(localClock),
	}
}

// dayResponse 週の1日分
type dayResponse struct {
	Date        string `json:"date"`
	Weekday     int    `json:"weekday"`
	DayOffset   int    `json:"dayOffset"`
	IsToday     bool   `json:"isToday"`
	IsHoliday   bool   `json:"isHoliday"`
	HolidayName string `json:"holidayName,omitempty"`
}

// weekResponse 表示する週
type weekResponse struct {
	Start       string        `json:"start"`
	End         string        `json:"end"`
	HolidayMode holiday.Mode  `json:"holidayMode"`
	Days        []dayResponse `json:"days"`
}

// slotResponse 時間枠
type slotResponse struct {
	Hour       int    `json:"hour"`
	Minute     int    `json:"minute"`
	Label      string `json:"label"`
	IsHourMark bool   `json:"isHourMark"`
}

// GetWeek 週を返す。dateを指定するとその日を含む週、actionで表示中の週を移動する
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	var wk week.Week

	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := h.parseDate(raw)
		if err != nil {
			writeError(h.logger, w, err)
			return
		}
		wk = week.WeekContaining(date)
	} else {
		h.navMu.Lock()
		switch action := r.URL.Query().Get("action"); action {
		case "":
			wk = h.navigator.Week()
		case "next":
			wk = h.navigator.Next()
		case "prev":
			wk = h.navigator.Prev()
		case "today":
			wk = h.navigator.Today()
		default:
			h.navMu.Unlock()
			writeError(h.logger, w, fmt.Errorf("%w: action %s", errBadRequest, action))
			return
		}
		h.navMu.Unlock()
	}

	writeSuccess(w, http.StatusOK, "", h.buildWeek(wk))
}

func (h *Handler) buildWeek(wk week.Week) weekResponse {
	today := h.clock()
	days := make([]dayResponse, 0, len(wk))
	for i, d := range wk {
		name, ok := h.holidays.HolidayName(d)
		days = append(days, dayResponse{
			Date:        d.Format(domain.DateLayout),
			Weekday:     int(d.Weekday()),
			DayOffset:   i,
			IsToday:     domain.SameDate(d, today),
			IsHoliday:   ok,
			HolidayName: name,
		})
	}
	return weekResponse{
		Start:       wk.Start().Format(domain.DateLayout),
		End:         wk.End().Format(domain.DateLayout),
		HolidayMode: h.holidays.Mode(),
		Days:        days,
	}
}

// GetSlots グリッドの時間枠を返す
func (h *Handler) GetSlots(w http.ResponseWriter, _ *http.Request) {
	slots := week.TimeSlots(h.grid)
	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResponse{
			Hour:       s.Hour,
			Minute:     s.Minute,
			Label:      s.Label,
			IsHourMark: s.IsHourMark,
		})
	}
	writeSuccess(w, http.StatusOK, "", out)
}

// GetHoliday 指定日が祝日かどうかを返す
func (h *Handler) GetHoliday(w http.ResponseWriter, r *http.Request) {
	date, err := h.parseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	name, ok := h.holidays.HolidayName(date)
	writeSuccess(w, http.StatusOK, "", map[string]any{
		"date":        date.Format(domain.DateLayout),
		"isHoliday":   ok,
		"holidayName": name,
		"mode":        h.holidays.Mode(),
	})
}

// ListHolidays 指定年（省略時は今年）の祝日一覧を返す
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year := h.clock().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			writeError(h.logger, w, fmt.Errorf("%w: year %s", errBadRequest, raw))
			return
		}
		year = y
	}

	entries, err := h.holidays.HolidaysInYear(year)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	if entries == nil {
		entries = []domain.HolidayEntry{}
	}
	writeSuccess(w, http.StatusOK, "", entries)
}

// parseDate YYYY-MM-DD形式の日付を設定のタイムゾーンで解釈
func (h *Handler) parseDate(raw string) (time.Time, error) {
	date, err := time.ParseInLocation(domain.DateLayout, raw, h.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: 日付 %s", errBadRequest, raw)
	}
	return date, nil
}

// decodeBody JSONボディを読み込み検証する
func (h *Handler) decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return err
	}
	return nil
}
