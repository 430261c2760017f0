package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"

	"github.com/k-negishi/schedule-candidate-picker/internal/week"
)

// 祝日データの取得元
const (
	HolidaySourceCSV    = "csv"
	HolidaySourceGoogle = "google"
)

// DefaultHolidayCSVURL 内閣府「国民の祝日」CSV
const DefaultHolidayCSVURL = "https://www8.cao.go.jp/chosei/shukujitsu/syukujitsu.csv"

// DefaultHolidayCalendarID Googleの日本の祝日カレンダー
const DefaultHolidayCalendarID = "ja.japanese.official#holiday@group.v.calendar.google.com"

// SSMParameterGetter Parameter Storeから値を取得するポート
type SSMParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Config アプリケーション設定構造体
type Config struct {
	// 実行環境
	Env        string
	LogLevel   string
	Timezone   string
	ServerAddr string

	// APIサーバー設定
	AllowedOrigins     []string
	RateLimitPerSecond int

	// 週グリッド設定
	Grid week.Config

	// 祝日データ設定
	HolidaySource      string
	HolidayCSVURL      string
	HolidayCalendarID  string
	HolidayCachePath   string
	HolidayCacheURL    string
	HolidayCacheBucket string
	HolidayCacheObject string

	// MinIO（S3互換ストレージ）設定
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool

	// Google Calendar設定（HolidaySourceがgoogleの場合のみ使用）
	GoogleCredentials string

	// LINE API設定（共有機能を使う場合のみ）
	LineShareEnabled       bool
	LineChannelAccessToken string
	LineUserID             string

	// AWS関連（本番環境でのみ使用）
	ssmClient SSMParameterGetter
}

// Load 環境に応じて設定を読み込み
func Load() (*Config, error) {
	// AWS Lambda環境かどうか判定
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return loadAWSConfig()
	}
	return loadLocalConfig()
}

// loadBaseConfig 環境変数から共通の設定を読み込み
func loadBaseConfig() *Config {
	return &Config{
		Env:                getEnvOrDefault("APP_ENV", "development"),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		Timezone:           getEnvOrDefault("TIMEZONE", "Asia/Tokyo"),
		ServerAddr:         getEnvOrDefault("SERVER_ADDR", ":8080"),
		AllowedOrigins:     splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		RateLimitPerSecond: getEnvIntOrDefault("RATE_LIMIT_PER_SECOND", 20),
		Grid: week.Config{
			StartHour:      getEnvIntOrDefault("GRID_START_HOUR", 9),
			EndHour:        getEnvIntOrDefault("GRID_END_HOUR", 18),
			MinuteInterval: getEnvIntOrDefault("GRID_MINUTE_INTERVAL", 15),
		},
		HolidaySource:          strings.ToLower(getEnvOrDefault("HOLIDAY_SOURCE", HolidaySourceCSV)),
		HolidayCSVURL:          getEnvOrDefault("HOLIDAY_CSV_URL", DefaultHolidayCSVURL),
		HolidayCalendarID:      getEnvOrDefault("HOLIDAY_CALENDAR_ID", DefaultHolidayCalendarID),
		HolidayCachePath:       getEnvOrDefault("HOLIDAY_CACHE_PATH", "data/holidays.json"),
		HolidayCacheURL:        getEnvOrDefault("HOLIDAY_CACHE_URL", ""),
		HolidayCacheBucket:     getEnvOrDefault("HOLIDAY_CACHE_BUCKET", ""),
		HolidayCacheObject:     getEnvOrDefault("HOLIDAY_CACHE_OBJECT", "holidays.json"),
		MinioEndpoint:          getEnvOrDefault("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:         getEnvOrDefault("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:         getEnvOrDefault("MINIO_SECRET_KEY", ""),
		MinioUseSSL:            getEnvBoolOrDefault("MINIO_USE_SSL", false),
		LineShareEnabled:       getEnvBoolOrDefault("LINE_SHARE_ENABLED", false),
		GoogleCredentials:      getEnvOrDefault("GOOGLE_CREDENTIALS", ""),
		LineChannelAccessToken: getEnvOrDefault("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LineUserID:             getEnvOrDefault("LINE_USER_ID", ""),
	}
}

// loadLocalConfig ローカル開発環境用の設定読み込み
func loadLocalConfig() (*Config, error) {
	// .envファイルを読み込み（存在する場合のみ）
	if err := godotenv.Load(); err != nil {
		// .envファイルが存在しない場合はエラーにしない
		fmt.Printf("Warning: .envファイルが見つかりません: %v\n", err)
	}

	cfg := loadBaseConfig()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadAWSConfig AWS Lambda環境用の設定読み込み
func loadAWSConfig() (*Config, error) {
	// AWS設定を初期化
	awsConfig, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("AWS設定の読み込みに失敗しました: %w", err)
	}

	cfg := loadBaseConfig()
	cfg.ssmClient = ssm.NewFromConfig(awsConfig)

	// Parameter Storeから機密情報を取得
	if err := cfg.loadFromParameterStore(); err != nil {
		return nil, fmt.Errorf("parameter Storeからの設定読み込みに失敗しました: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromParameterStore Parameter Storeから機密情報を読み込み
func (c *Config) loadFromParameterStore() error {
	ctx := context.TODO()

	if c.HolidaySource == HolidaySourceGoogle {
		googleCredsParam := getEnvOrDefault("GOOGLE_CREDS_PARAM", "/schedule-candidate-picker/google-creds")
		googleCreds, err := c.getParameter(ctx, googleCredsParam, true)
		if err != nil {
			return fmt.Errorf("google認証情報の取得に失敗しました: %w", err)
		}
		c.GoogleCredentials = googleCreds
	}

	if c.LineShareEnabled {
		lineTokenParam := getEnvOrDefault("LINE_CHANNEL_ACCESS_TOKEN_PARAM", "/schedule-candidate-picker/line-channel-access-token")
		lineToken, err := c.getParameter(ctx, lineTokenParam, true)
		if err != nil {
			return fmt.Errorf("LINE Channel Access Tokenの取得に失敗しました: %w", err)
		}
		c.LineChannelAccessToken = lineToken

		lineUserParam := getEnvOrDefault("LINE_USER_ID_PARAM", "/schedule-candidate-picker/line-user-id")
		lineUser, err := c.getParameter(ctx, lineUserParam, true)
		if err != nil {
			return fmt.Errorf("LINE User IDの取得に失敗しました: %w", err)
		}
		c.LineUserID = lineUser
	}

	return nil
}

// getParameter Parameter Storeから指定されたパラメータを取得
func (c *Config) getParameter(ctx context.Context, paramName string, withDecryption bool) (string, error) {
	input := &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(withDecryption),
	}

	result, err := c.ssmClient.GetParameter(ctx, input)
	if err != nil {
		return "", fmt.Errorf("パラメータ %s の取得に失敗しました: %w", paramName, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil || *result.Parameter.Value == "" {
		return "", fmt.Errorf("パラメータ %s が空です", paramName)
	}

	return *result.Parameter.Value, nil
}

// validate 設定値の整合性を確認
func (c *Config) validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}

	switch c.HolidaySource {
	case HolidaySourceCSV:
	case HolidaySourceGoogle:
		if c.GoogleCredentials == "" {
			return fmt.Errorf("GOOGLE_CREDENTIALS環境変数が設定されていません")
		}
	default:
		return fmt.Errorf("HOLIDAY_SOURCEの値が不正です: %s", c.HolidaySource)
	}

	if c.LineShareEnabled {
		if c.LineChannelAccessToken == "" {
			return fmt.Errorf("LINE_CHANNEL_ACCESS_TOKEN環境変数が設定されていません")
		}
		if c.LineUserID == "" {
			return fmt.Errorf("LINE_USER_ID環境変数が設定されていません")
		}
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location 設定されたタイムゾーン
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("タイムゾーン %s の読み込みに失敗しました: %w", c.Timezone, err)
	}
	return loc, nil
}

// getEnvOrDefault 環境変数を取得し、存在しない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault 整数の環境変数を取得。解析できない場合はデフォルト値
func getEnvIntOrDefault(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvBoolOrDefault 真偽値の環境変数を取得。解析できない場合はデフォルト値
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnvOrDefault(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// splitList カンマ区切りの値を分割し、空要素を除く
func splitList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
