package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/k-negishi/schedule-candidate-picker/internal/candidate"
	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
	"github.com/k-negishi/schedule-candidate-picker/internal/formatter"
)

// slotRequest ドラッグの端点となる時間枠
type slotRequest struct {
	Hour   int `json:"hour" validate:"min=0,max=24"`
	Minute int `json:"minute" validate:"min=0,max=59"`
}

// createCandidateRequest ドラッグ選択から候補を作成するリクエスト
type createCandidateRequest struct {
	Date string      `json:"date" validate:"required,datetime=2006-01-02"`
	From slotRequest `json:"from"`
	To   slotRequest `json:"to"`
}

// fullDayRequest 終日候補を切り替えるリクエスト
type fullDayRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// rangeRequest 日付と時間帯で範囲を指定するリクエスト
type rangeRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
}

// updateCandidateRequest 候補の時間帯を変更するリクエスト
type updateCandidateRequest struct {
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
}

// shareRequest 共有するテキストの形式
type shareRequest struct {
	Template string `json:"template" validate:"omitempty,oneof=standard simple detailed"`
	Merge    bool   `json:"merge"`
}

// candidateResponse 候補1件
type candidateResponse struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	IsFullDay       bool   `json:"isFullDay"`
	DayOffset       int    `json:"dayOffset"`
	DurationMinutes int    `json:"durationMinutes"`
	Text            string `json:"text"`
}

// conflictResponse 重なっている候補の組
type conflictResponse struct {
	A candidateResponse `json:"a"`
	B candidateResponse `json:"b"`
}

func toCandidateResponse(c domain.Candidate) candidateResponse {
	return candidateResponse{
		ID:              c.ID,
		Date:            c.DateKey(),
		StartTime:       c.StartClock(),
		EndTime:         c.EndClock(),
		IsFullDay:       c.IsFullDay,
		DayOffset:       c.DayOffset,
		DurationMinutes: c.DurationMinutes(),
		Text:            formatter.Format(c, formatter.TemplateStandard),
	}
}

func toCandidateResponses(cs []domain.Candidate) []candidateResponse {
	out := make([]candidateResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCandidateResponse(c))
	}
	return out
}

// parseClock HH:MM を0時からの経過分に変換
func parseClock(raw string) (int, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, fmt.Errorf("%w: 時刻 %s", errBadRequest, raw)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ListCandidates 候補一覧
func (h *Handler) ListCandidates(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "", toCandidateResponses(h.store.List()))
}

// CreateCandidate ドラッグ選択の端点から候補を作成
func (h *Handler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req createCandidateRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(h.logger, w, err)
		return
	}

	date, err := h.parseDate(req.Date)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	from := domain.TimeSlot{Hour: req.From.Hour, Minute: req.From.Minute}
	to := domain.TimeSlot{Hour: req.To.Hour, Minute: req.To.Minute}
	c, err := candidate.FromDrag(date, from, to, h.grid)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	added, err := h.store.Add(c)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "候補を追加しました", toCandidateResponse(added))
}

// ToggleFullDay 終日候補を切り替える
func (h *Handler) ToggleFullDay(w http.ResponseWriter, r *http.Request) {
	var req fullDayRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(h.logger, w, err)
		return
	}

	date, err := h.parseDate(req.Date)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	c, added, err := h.store.ToggleFullDay(date)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	message := "終日候補を削除しました"
	code := http.StatusOK
	if added {
		message = "終日候補を追加しました"
		code = http.StatusCreated
	}
	writeSuccess(w, code, message, map[string]any{
		"added":     added,
		"candidate": toCandidateResponse(c),
	})
}

// UpdateCandidate 候補の時間帯を変更する。新しいIDの候補に置き換わる
func (h *Handler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	var req updateCandidateRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(h.logger, w, err)
		return
	}

	start, err := parseClock(req.StartTime)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	c, err := h.store.Replace(chi.URLParam(r, "id"), start, end)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "候補を変更しました", toCandidateResponse(c))
}

// DeleteCandidate 候補を1件削除
func (h *Handler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Remove(chi.URLParam(r, "id")); err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "候補を削除しました", nil)
}

// RemoveMerged 結合表示の範囲に含まれる候補をまとめて削除
func (h *Handler) RemoveMerged(w http.ResponseWriter, r *http.Request) {
	var req rangeRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(h.logger, w, err)
		return
	}

	date, err := h.parseDate(req.Date)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	start, err := parseClock(req.StartTime)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	end, err := parseClock(req.EndTime)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	span := domain.Candidate{Date: date}.WithRange(start, end)
	removed, err := h.store.RemoveMerged(span)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "候補を削除しました", map[string]any{
		"removedIds": removed,
	})
}

// ResetCandidates すべての候補を削除
func (h *Handler) ResetCandidates(w http.ResponseWriter, _ *http.Request) {
	h.store.Reset()
	writeSuccess(w, http.StatusOK, "すべての候補を削除しました", nil)
}

// ListMerged 結合済みの表示用一覧
func (h *Handler) ListMerged(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "", toCandidateResponses(h.store.Merged()))
}

// ListConflicts 時間が重なる候補の組
func (h *Handler) ListConflicts(w http.ResponseWriter, _ *http.Request) {
	conflicts := h.store.Conflicts()
	out := make([]conflictResponse, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, conflictResponse{A: toCandidateResponse(c.A), B: toCandidateResponse(c.B)})
	}
	writeSuccess(w, http.StatusOK, "", out)
}

// GetText 候補をテキストに整形して返す
func (h *Handler) GetText(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tmpl, err := formatter.ParseTemplate(q.Get("template"))
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	merge := false
	if raw := q.Get("merge"); raw != "" {
		merge, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(h.logger, w, fmt.Errorf("%w: merge %s", errBadRequest, raw))
			return
		}
	}

	style := formatter.Style(q.Get("style"))
	if style == "" {
		style = formatter.StyleList
	}

	text, err := formatter.Render(style, h.store.List(), formatter.Options{Template: tmpl, Merge: merge})
	if err != nil {
		writeError(h.logger, w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", map[string]any{
		"text":  text,
		"count": h.store.Len(),
	})
}

// ExportCandidates 候補一覧をJSONファイルとしてダウンロードさせる
func (h *Handler) ExportCandidates(w http.ResponseWriter, _ *http.Request) {
	now := h.clock()
	data, err := formatter.Export(h.store.List(), now)
	if err != nil {
		writeError(h.logger, w, fmt.Errorf("候補のエクスポートに失敗しました: %w", err))
		return
	}

	filename := fmt.Sprintf("schedule-candidates-%s.json", now.Format(domain.DateLayout))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ShareCandidates 候補をチャット形式でLINEに送信
func (h *Handler) ShareCandidates(w http.ResponseWriter, r *http.Request) {
	if h.sharer == nil {
		writeError(h.logger, w, errShareDisabled)
		return
	}

	var req shareRequest
	if err := h.decodeBody(r, &req); err != nil {
		writeError(h.logger, w, err)
		return
	}

	tmpl, err := formatter.ParseTemplate(req.Template)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	text, skipped, err := h.sharer.Execute(r.Context(), formatter.Options{Template: tmpl, Merge: req.Merge})
	if err != nil {
		writeError(h.logger, w, fmt.Errorf("候補の共有に失敗しました: %w", err))
		return
	}
	if skipped {
		writeSuccess(w, http.StatusOK, "共有する候補がありません", map[string]any{"skipped": true})
		return
	}
	writeSuccess(w, http.StatusOK, "候補を共有しました", map[string]any{
		"skipped": false,
		"text":    text,
	})
}
