// Package formatter は日程候補をメールやチャットに貼り付けるテキストへ整形する。
package formatter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/k-negishi/schedule-candidate-picker/internal/candidate"
	"github.com/k-negishi/schedule-candidate-picker/internal/domain"
)

// Template 1件分の書式
type Template string

const (
	TemplateStandard Template = "standard"
	TemplateSimple   Template = "simple"
	TemplateDetailed Template = "detailed"
)

var (
	// ErrUnknownTemplate 未知の書式名
	ErrUnknownTemplate = errors.New("未知のテンプレートです")
	// ErrUnknownStyle 未知の出力形式
	ErrUnknownStyle = errors.New("未知の出力形式です")
)

// ParseTemplate 書式名を解析。空ならstandard
func ParseTemplate(s string) (Template, error) {
	switch t := Template(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return TemplateStandard, nil
	case TemplateStandard, TemplateSimple, TemplateDetailed:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, s)
	}
}

// Options 一覧整形のオプション
type Options struct {
	Template Template
	Merge    bool
}

// emailHeader メール用の書き出し
const emailHeader = "以下の日程でご都合はいかがでしょうか。"

// chatBullet チャット用の行頭記号
const chatBullet = "・"

// Format 候補1件を書式に従って整形
func Format(c domain.Candidate, tmpl Template) string {
	d := c.Date
	wd := domain.WeekdayJapanese(d.Weekday())

	switch tmpl {
	case TemplateSimple:
		return fmt.Sprintf("%d/%d (%s) %d:%02d〜%d:%02d",
			int(d.Month()), d.Day(), wd, c.StartHour, c.StartMinute, c.EndHour, c.EndMinute)
	case TemplateDetailed:
		return fmt.Sprintf("%04d年%02d月%02d日 (%s曜日) %02d:%02d〜%02d:%02d",
			d.Year(), int(d.Month()), d.Day(), wd, c.StartHour, c.StartMinute, c.EndHour, c.EndMinute)
	default:
		return fmt.Sprintf("%d月%d日 (%s) %d:%02d〜%d:%02d",
			int(d.Month()), d.Day(), wd, c.StartHour, c.StartMinute, c.EndHour, c.EndMinute)
	}
}

// prepare 並べ替え（必要なら結合）したコピーを返す
func prepare(candidates []domain.Candidate, opts Options) []domain.Candidate {
	if opts.Merge {
		return candidate.MergeContiguous(candidates)
	}
	return candidate.Sort(candidates)
}

func lines(candidates []domain.Candidate, tmpl Template) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Format(c, tmpl))
	}
	return out
}

// FormatList 1行1件で改行区切り
func FormatList(candidates []domain.Candidate, opts Options) string {
	return strings.Join(lines(prepare(candidates, opts), opts.Template), "\n")
}

// FormatGroupedByDate 日付ごとにまとめ、日付の間に空行を入れる
func FormatGroupedByDate(candidates []domain.Candidate, opts Options) string {
	var groups []string
	var current []string
	var currentDate time.Time
	for _, c := range prepare(candidates, opts) {
		if len(current) > 0 && !domain.SameDate(currentDate, c.Date) {
			groups = append(groups, strings.Join(current, "\n"))
			current = nil
		}
		currentDate = c.Date
		current = append(current, Format(c, opts.Template))
	}
	if len(current) > 0 {
		groups = append(groups, strings.Join(current, "\n"))
	}
	return strings.Join(groups, "\n\n")
}

// FormatEmail 書き出しと番号付きの一覧
func FormatEmail(candidates []domain.Candidate, opts Options) string {
	var b strings.Builder
	b.WriteString(emailHeader)
	b.WriteString("\n\n")
	for i, line := range lines(prepare(candidates, opts), opts.Template) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("%d. %s", i+1, line))
	}
	return b.String()
}

// FormatChat 行頭に記号を付けた一覧
func FormatChat(candidates []domain.Candidate, opts Options) string {
	ls := lines(prepare(candidates, opts), opts.Template)
	for i := range ls {
		ls[i] = chatBullet + ls[i]
	}
	return strings.Join(ls, "\n")
}

// Style 一覧の出力形式
type Style string

const (
	StyleList    Style = "list"
	StyleGrouped Style = "grouped"
	StyleEmail   Style = "email"
	StyleChat    Style = "chat"
)

// Render 出力形式を指定して整形
func Render(style Style, candidates []domain.Candidate, opts Options) (string, error) {
	switch style {
	case StyleList, "":
		return FormatList(candidates, opts), nil
	case StyleGrouped:
		return FormatGroupedByDate(candidates, opts), nil
	case StyleEmail:
		return FormatEmail(candidates, opts), nil
	case StyleChat:
		return FormatChat(candidates, opts), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownStyle, style)
	}
}

// ParseWeekday standard書式の行から曜日を読み取る
func ParseWeekday(line string) (time.Weekday, bool) {
	open := strings.Index(line, "(")
	if open < 0 {
		return 0, false
	}
	rest := line[open+1:]
	end := strings.Index(rest, ")")
	if end < 0 {
		return 0, false
	}
	label := strings.TrimSuffix(rest[:end], "曜日")
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if domain.WeekdayJapanese(wd) == label {
			return wd, true
		}
	}
	return 0, false
}
