package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

// EventsProvider カレンダーイベントの一覧取得を抽象化
type EventsProvider interface {
	ListEvents(ctx context.Context, calendarID, timeMin, timeMax string) ([]*calendar.Event, error)
}

// calendarServiceProvider Google Calendar APIを使用したEventsProviderの実装
type calendarServiceProvider struct {
	service *calendar.Service
}

// ListEvents ページングしながら期間内の全イベントを取得
func (p *calendarServiceProvider) ListEvents(ctx context.Context, calendarID, timeMin, timeMax string) ([]*calendar.Event, error) {
	var items []*calendar.Event
	err := p.service.Events.List(calendarID).
		TimeMin(timeMin).
		TimeMax(timeMax).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(250).
		Pages(ctx, func(events *calendar.Events) error {
			items = append(items, events.Items...)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GoogleHolidaySource Googleの祝日カレンダーを使用したHolidaySourceの実装
type GoogleHolidaySource struct {
	provider   EventsProvider
	calendarID string
	timezone   *time.Location
	clock      func() time.Time
	logger     *zap.Logger
}

// NewGoogleHolidaySource サービスアカウント認証で祝日カレンダーの取得元を作成
func NewGoogleHolidaySource(ctx context.Context, credentialsJSON []byte, calendarID string, timezone *time.Location, logger *zap.Logger, opts ...option.ClientOption) (*GoogleHolidaySource, error) {
	creds, err := google.CredentialsFromJSON(ctx, credentialsJSON, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("google認証情報の読み込みに失敗しました: %w", err)
	}

	service, err := calendar.NewService(ctx, append([]option.ClientOption{option.WithCredentials(creds)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("google Calendar APIサービスの作成に失敗しました: %w", err)
	}

	return NewGoogleHolidaySourceWithProvider(&calendarServiceProvider{service: service}, calendarID, timezone, time.Now, logger), nil
}

// NewGoogleHolidaySourceWithProvider EventsProviderを指定して作成
func NewGoogleHolidaySourceWithProvider(provider EventsProvider, calendarID string, timezone *time.Location, clock func() time.Time, logger *zap.Logger) *GoogleHolidaySource {
	return &GoogleHolidaySource{
		provider:   provider,
		calendarID: calendarID,
		timezone:   timezone,
		clock:      clock,
		logger:     logger,
	}
}

// DataSource データ提供元の名称
func (s *GoogleHolidaySource) DataSource() string {
	return "Google Calendar 日本の祝日"
}

// SourceURL 取得元URL
func (s *GoogleHolidaySource) SourceURL() string {
	return "https://www.googleapis.com/calendar/v3/calendars/" + url.PathEscape(s.calendarID) + "/events"
}

// FetchHolidays 今年と翌年の祝日を取得
func (s *GoogleHolidaySource) FetchHolidays(ctx context.Context) ([]domain.HolidayEntry, error) {
	now := s.clock().In(s.timezone)

	// 今年の1/1から翌々年の1/1まで (exclusive)
	timeMin := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, s.timezone)
	timeMax := timeMin.AddDate(2, 0, 0)

	events, err := s.provider.ListEvents(ctx, s.calendarID, timeMin.Format(time.RFC3339), timeMax.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("祝日カレンダーの取得に失敗しました: %w", err)
	}

	entries := make([]domain.HolidayEntry, 0, len(events))
	for _, event := range events {
		entry, err := convertToHoliday(event)
		if err != nil {
			s.logger.Warn("祝日イベントの変換をスキップしました", zap.String("eventId", event.Id), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// convertToHoliday 終日イベントを祝日に変換
func convertToHoliday(event *calendar.Event) (domain.HolidayEntry, error) {
	if event.Start == nil || event.Start.Date == "" {
		return domain.HolidayEntry{}, fmt.Errorf("終日イベントではありません")
	}

	date, err := time.Parse(domain.DateLayout, event.Start.Date)
	if err != nil {
		return domain.HolidayEntry{}, fmt.Errorf("開始日の解析に失敗しました: %w", err)
	}

	name := strings.TrimSpace(event.Summary)
	if name == "" {
		return domain.HolidayEntry{}, fmt.Errorf("祝日名が設定されていません")
	}

	return domain.HolidayEntry{
		Date: date.Format(domain.DateLayout),
		Name: name,
	}, nil
}
