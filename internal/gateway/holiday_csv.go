package gateway

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

// minHolidayYear 祝日法の施行年。これより前の行は不正として扱う
const minHolidayYear = 1948

// CabinetOfficeCSVSource 内閣府の祝日CSVを取得するHolidaySourceの実装
type CabinetOfficeCSVSource struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewCabinetOfficeCSVSource 祝日CSVの取得元を作成
func NewCabinetOfficeCSVSource(url string, logger *zap.Logger) *CabinetOfficeCSVSource {
	return &CabinetOfficeCSVSource{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// DataSource データ提供元の名称
func (s *CabinetOfficeCSVSource) DataSource() string {
	return "内閣府「国民の祝日」について"
}

// SourceURL 取得元URL
func (s *CabinetOfficeCSVSource) SourceURL() string {
	return s.url
}

// FetchHolidays CSVを取得して祝日一覧に変換。Shift_JISでの取得に失敗した場合はUTF-8で取得し直す
func (s *CabinetOfficeCSVSource) FetchHolidays(ctx context.Context) ([]domain.HolidayEntry, error) {
	body, err := s.fetch(ctx, func(r io.Reader) io.Reader {
		return transform.NewReader(r, japanese.ShiftJIS.NewDecoder())
	})
	if err != nil {
		s.logger.Warn("Shift_JISでの祝日CSV取得に失敗したためUTF-8で再取得します", zap.Error(err))
		body, err = s.fetch(ctx, func(r io.Reader) io.Reader { return r })
		if err != nil {
			return nil, fmt.Errorf("祝日CSVの取得に失敗しました: %w", err)
		}
	}

	return parseHolidayCSV(body, s.logger), nil
}

// fetch CSVを取得し、decodeで文字コードを変換した本文を返す
func (s *CabinetOfficeCSVSource) fetch(ctx context.Context, decode func(io.Reader) io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("祝日CSVリクエストの送信に失敗しました: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("祝日CSVの取得に失敗しました (Status: %d)", resp.StatusCode)
	}

	content, err := io.ReadAll(decode(resp.Body))
	if err != nil {
		return "", fmt.Errorf("祝日CSVの読み込みに失敗しました: %w", err)
	}
	return strings.TrimPrefix(string(content), "\ufeff"), nil
}

// parseHolidayCSV ヘッダー行を除いた「日付,名称」の行を解析する。不正な行は読み飛ばす
func parseHolidayCSV(body string, logger *zap.Logger) []domain.HolidayEntry {
	reader := csv.NewReader(strings.NewReader(body))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var entries []domain.HolidayEntry
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		// 1行目は読めたかどうかに関わらずヘッダーとして扱う
		if line == 1 {
			continue
		}
		if err != nil {
			logger.Debug("祝日CSVの行を読み飛ばしました", zap.Int("line", line), zap.Error(err))
			continue
		}

		entry, err := parseHolidayRecord(record)
		if err != nil {
			logger.Debug("祝日CSVの行を読み飛ばしました", zap.Int("line", line), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// parseHolidayRecord 1行分を検証して祝日に変換
func parseHolidayRecord(record []string) (domain.HolidayEntry, error) {
	if len(record) < 2 {
		return domain.HolidayEntry{}, fmt.Errorf("列が不足しています: %v", record)
	}
	rawDate := strings.TrimSpace(record[0])
	name := strings.TrimSpace(record[1])
	if rawDate == "" || name == "" {
		return domain.HolidayEntry{}, fmt.Errorf("日付または名称が空です: %v", record)
	}

	parts := strings.Split(strings.ReplaceAll(rawDate, "-", "/"), "/")
	if len(parts) != 3 {
		return domain.HolidayEntry{}, fmt.Errorf("日付の形式が不正です: %s", rawDate)
	}

	var ymd [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return domain.HolidayEntry{}, fmt.Errorf("日付の形式が不正です: %s", rawDate)
		}
		ymd[i] = n
	}

	year, month, day := ymd[0], ymd[1], ymd[2]
	if year < minHolidayYear {
		return domain.HolidayEntry{}, fmt.Errorf("年が不正です: %s", rawDate)
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return domain.HolidayEntry{}, fmt.Errorf("存在しない日付です: %s", rawDate)
	}

	return domain.HolidayEntry{
		Date: date.Format(domain.DateLayout),
		Name: name,
	}, nil
}
