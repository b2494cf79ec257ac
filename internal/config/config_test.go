package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeFile — утилита записи временного файла конфигурации.
func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

// chdir — смена текущего рабочего каталога с авто-возвратом.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

const sampleYAML = `
env: "prod"
api:
  base_url: "https://api.twain.cards"
  user_agent: "twaincards-test"
token:
  store: "redis"
  path: "/tmp/ignored.json"
redis:
  url: "redis://localhost:6379/2"
  prefix: "tc:"
study:
  start_side: "random"
  batch_size: 5
  answer_delay: "10ms"
  transition_delay: "1ms"
  device_type: "terminal"
metrics:
  host: "0.0.0.0"
  port: "9090"
tracing:
  endpoint: "localhost:4318"
  service_name: "tc"
timeouts:
  request: "3s"
`

const minimalYAML = `
env: "dev"
`

const brokenYAML = `
env: [unclosed
`

func TestMetricsConfig_Addr(t *testing.T) {
	t.Parallel()

	cfg := MetricsConfig{Host: "127.0.0.1", Port: "9090"}
	require.Equal(t, "127.0.0.1:9090", cfg.Addr())
	require.True(t, cfg.Enabled())
	require.False(t, MetricsConfig{Host: "127.0.0.1"}.Enabled())
}

func TestLoad_WithExplicitPath_OK(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "https://api.twain.cards", cfg.API.BaseURL)
	require.Equal(t, "twaincards-test", cfg.API.UserAgent)
	require.Equal(t, StoreRedis, cfg.Token.Store)
	require.Equal(t, "redis://localhost:6379/2", cfg.Redis.URL)
	require.Equal(t, "tc:", cfg.Redis.Prefix)
	require.Equal(t, "random", cfg.Study.StartSide)
	require.Equal(t, 5, cfg.Study.BatchSize)
	require.Equal(t, 10*time.Millisecond, cfg.Study.AnswerDelay)
	require.Equal(t, time.Millisecond, cfg.Study.TransitionDelay)
	require.Equal(t, "terminal", cfg.Study.DeviceType)
	require.Equal(t, "0.0.0.0:9090", cfg.Metrics.Addr())
	require.Equal(t, "localhost:4318", cfg.Tracing.Endpoint)
	require.Equal(t, 3*time.Second, cfg.Timeouts.Request)
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", minimalYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	require.Equal(t, StoreFile, cfg.Token.Store)
	require.Equal(t, "front", cfg.Study.StartSide)
	require.Equal(t, 20, cfg.Study.BatchSize)
	require.Equal(t, 950*time.Millisecond, cfg.Study.AnswerDelay)
	require.Equal(t, 50*time.Millisecond, cfg.Study.TransitionDelay)
	require.Equal(t, 30*time.Second, cfg.Timeouts.Request)
	require.False(t, cfg.Metrics.Enabled())
}

func TestLoad_WithExplicitPath_BrokenYAML(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "broken.yaml", brokenYAML)

	_, err := Load(cfgPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_WithExplicitPath_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "stat failed")
}

func TestLoad_WithCONFIG_PATH_OK(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "from_env_path.yaml", minimalYAML)
	t.Setenv("CONFIG_PATH", cfgPath)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
}

func TestLoad_WithLocalYAML_OK(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, ".", "local.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
}

func TestLoad_EnvOnly(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("API_BASE_URL", "http://backend:8080")
	t.Setenv("TOKEN_STORE", "memory")
	t.Setenv("STUDY_START_SIDE", "back")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "http://backend:8080", cfg.API.BaseURL)
	require.Equal(t, StoreMemory, cfg.Token.Store)
	require.Equal(t, "back", cfg.Study.StartSide)
}

func TestValidate_Table(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			API:   APIConfig{BaseURL: "http://localhost:8080"},
			Token: TokenConfig{Store: StoreFile},
			Study: StudyConfig{StartSide: "front", BatchSize: 20},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "redis_without_url", mutate: func(c *Config) { c.Token.Store = StoreRedis }, wantErr: "requires redis.url"},
		{name: "redis_with_url", mutate: func(c *Config) { c.Token.Store = StoreRedis; c.Redis.URL = "redis://x" }},
		{name: "unknown_store", mutate: func(c *Config) { c.Token.Store = "s3" }, wantErr: "unknown token.store"},
		{name: "unknown_side", mutate: func(c *Config) { c.Study.StartSide = "left" }, wantErr: "unknown study.start_side"},
		{name: "zero_batch", mutate: func(c *Config) { c.Study.BatchSize = 0 }, wantErr: "batch_size"},
		{name: "empty_base_url", mutate: func(c *Config) { c.API.BaseURL = "" }, wantErr: "base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrInvalidConfig)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
