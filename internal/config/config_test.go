package config

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSSMClient は SSMParameterGetter のテスト用モック
type MockSSMClient struct {
	mock.Mock
}

func (m *MockSSMClient) GetParameter(ctx context.Context, params *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ssm.GetParameterOutput), args.Error(1)
}

func paramNamed(name string) interface{} {
	return mock.MatchedBy(func(input *ssm.GetParameterInput) bool {
		return *input.Name == name
	})
}

func paramOutput(value string) *ssm.GetParameterOutput {
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String(value)}}
}

// --- getEnvOrDefault テスト ---

func TestGetEnvOrDefault_WithValue(t *testing.T) {
	t.Setenv("TEST_ENV_KEY", "test-value")
	result := getEnvOrDefault("TEST_ENV_KEY", "default")
	assert.Equal(t, "test-value", result)
}

func TestGetEnvOrDefault_WithDefault(t *testing.T) {
	result := getEnvOrDefault("NONEXISTENT_KEY_FOR_TEST_12345", "default-value")
	assert.Equal(t, "default-value", result)
}

func TestGetEnvOrDefault_TrimsWhitespace(t *testing.T) {
	t.Setenv("TEST_ENV_WHITESPACE", "  trimmed  ")
	result := getEnvOrDefault("TEST_ENV_WHITESPACE", "default")
	assert.Equal(t, "trimmed", result)
}

func TestGetEnvIntOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_INT", "30")
	t.Setenv("TEST_ENV_INT_BAD", "thirty")

	assert.Equal(t, 30, getEnvIntOrDefault("TEST_ENV_INT", 15))
	assert.Equal(t, 15, getEnvIntOrDefault("TEST_ENV_INT_BAD", 15))
	assert.Equal(t, 15, getEnvIntOrDefault("NONEXISTENT_KEY_FOR_TEST_12345", 15))
}

func TestGetEnvBoolOrDefault(t *testing.T) {
	t.Setenv("TEST_ENV_BOOL", "true")

	assert.True(t, getEnvBoolOrDefault("TEST_ENV_BOOL", false))
	assert.False(t, getEnvBoolOrDefault("NONEXISTENT_KEY_FOR_TEST_12345", false))
}

// --- loadLocalConfig テスト ---

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"HOLIDAY_SOURCE", "GOOGLE_CREDENTIALS", "LINE_SHARE_ENABLED",
		"LINE_CHANNEL_ACCESS_TOKEN", "LINE_USER_ID", "TIMEZONE",
		"GRID_START_HOUR", "GRID_END_HOUR", "GRID_MINUTE_INTERVAL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadLocalConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadLocalConfig()
	require.NoError(t, err)
	assert.Equal(t, HolidaySourceCSV, cfg.HolidaySource)
	assert.Equal(t, DefaultHolidayCSVURL, cfg.HolidayCSVURL)
	assert.Equal(t, 9, cfg.Grid.StartHour)
	assert.Equal(t, 18, cfg.Grid.EndHour)
	assert.Equal(t, 15, cfg.Grid.MinuteInterval)
	assert.Equal(t, "Asia/Tokyo", cfg.Timezone)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestLoadLocalConfig_MissingRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOLIDAY_SOURCE", "google")

	_, err := loadLocalConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "環境変数が設定されていません")
}

func TestLoadLocalConfig_LineShareRequiresToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("LINE_SHARE_ENABLED", "true")

	_, err := loadLocalConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LINE_CHANNEL_ACCESS_TOKEN")
}

func TestLoadLocalConfig_InvalidGrid(t *testing.T) {
	clearEnv(t)
	t.Setenv("GRID_MINUTE_INTERVAL", "7")

	_, err := loadLocalConfig()
	assert.Error(t, err)
}

func TestLoadLocalConfig_InvalidSource(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOLIDAY_SOURCE", "ftp")

	_, err := loadLocalConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "HOLIDAY_SOURCE")
}

// --- getParameter テスト（モック使用） ---

func TestGetParameter_Success(t *testing.T) {
	mockSSM := new(MockSSMClient)
	cfg := &Config{ssmClient: mockSSM}

	mockSSM.On("GetParameter", mock.Anything, mock.MatchedBy(func(input *ssm.GetParameterInput) bool {
		return *input.Name == "/test/param" && *input.WithDecryption
	})).Return(paramOutput("test-value"), nil)

	result, err := cfg.getParameter(context.Background(), "/test/param", true)
	require.NoError(t, err)
	assert.Equal(t, "test-value", result)
	mockSSM.AssertExpectations(t)
}

func TestGetParameter_EmptyValue(t *testing.T) {
	mockSSM := new(MockSSMClient)
	cfg := &Config{ssmClient: mockSSM}

	mockSSM.On("GetParameter", mock.Anything, mock.Anything).Return(paramOutput(""), nil)

	_, err := cfg.getParameter(context.Background(), "/test/param", true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "が空です")
}

func TestGetParameter_APIError(t *testing.T) {
	mockSSM := new(MockSSMClient)
	cfg := &Config{ssmClient: mockSSM}

	mockSSM.On("GetParameter", mock.Anything, mock.Anything).Return(nil, errors.New("SSM API error"))

	_, err := cfg.getParameter(context.Background(), "/test/param", true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "パラメータ /test/param の取得に失敗しました")
	mockSSM.AssertExpectations(t)
}

func TestLoadFromParameterStore(t *testing.T) {
	mockSSM := new(MockSSMClient)
	cfg := &Config{
		ssmClient:        mockSSM,
		HolidaySource:    HolidaySourceGoogle,
		LineShareEnabled: true,
	}

	// デフォルトのパラメータ名を使用させるため環境変数をクリア
	t.Setenv("GOOGLE_CREDS_PARAM", "")
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN_PARAM", "")
	t.Setenv("LINE_USER_ID_PARAM", "")

	mockSSM.On("GetParameter", mock.Anything, paramNamed("/schedule-candidate-picker/google-creds")).
		Return(paramOutput(`{"type":"service_account"}`), nil)
	mockSSM.On("GetParameter", mock.Anything, paramNamed("/schedule-candidate-picker/line-channel-access-token")).
		Return(paramOutput("line-token-value"), nil)
	mockSSM.On("GetParameter", mock.Anything, paramNamed("/schedule-candidate-picker/line-user-id")).
		Return(paramOutput("line-user-id-value"), nil)

	err := cfg.loadFromParameterStore()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"service_account"}`, cfg.GoogleCredentials)
	assert.Equal(t, "line-token-value", cfg.LineChannelAccessToken)
	assert.Equal(t, "line-user-id-value", cfg.LineUserID)
	mockSSM.AssertExpectations(t)
}

func TestLoadFromParameterStore_CSVSourceSkipsSecrets(t *testing.T) {
	mockSSM := new(MockSSMClient)
	cfg := &Config{ssmClient: mockSSM, HolidaySource: HolidaySourceCSV}

	require.NoError(t, cfg.loadFromParameterStore())
	mockSSM.AssertNotCalled(t, "GetParameter", mock.Anything, mock.Anything)
}

func TestLoadLocalConfig_ServerOptions(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")
	t.Setenv("RATE_LIMIT_PER_SECOND", "5")

	cfg, err := loadLocalConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 5, cfg.RateLimitPerSecond)
}
