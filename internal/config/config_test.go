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
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

// chdir — смена текущего рабочего каталога с автоматическим откатом.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

// Полный корректный YAML (не зависит от дефолтов).
const sampleYAML = `
env: "prod"
api:
  base_url: "https://api.example.com/api/v1/"
  timeout: "20s"
creds:
  path: "/var/lib/mango/creds.bin"
  secret: "yaml-secret"
`

// Минимально валидный YAML (остальное — дефолты).
const minimalYAML = `
creds:
  secret: "min-secret"
`

// Некорректный YAML — для проверки ошибок парсинга.
const brokenYAML = `
api:
  base_url: "https://broken
`

// TestLoad_WithExplicitPath_OK — явный путь имеет высший приоритет.
func TestLoad_WithExplicitPath_OK(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "https://api.example.com/api/v1/", cfg.API.BaseURL)
	require.Equal(t, 20*time.Second, cfg.API.Timeout)
	require.Equal(t, "/var/lib/mango/creds.bin", cfg.Creds.Path)
	require.Equal(t, "yaml-secret", cfg.Creds.Secret)
}

// TestLoad_WithExplicitPath_FileDoesNotExist — явный путь на несуществующий файл.
func TestLoad_WithExplicitPath_FileDoesNotExist(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := Load(missing)
	require.Error(t, err)
	require.Contains(t, err.Error(), "stat failed")
}

// TestLoad_WithExplicitPath_BrokenYAML — битый YAML по явному пути.
func TestLoad_WithExplicitPath_BrokenYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "broken.yaml", brokenYAML)

	_, err := Load(cfgPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config")
}

// TestLoad_WithCONFIG_PATH_OK — путь берётся из CONFIG_PATH, дефолты работают.
func TestLoad_WithCONFIG_PATH_OK(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "from_env_path.yaml", minimalYAML)
	t.Setenv("CONFIG_PATH", cfgPath)

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "min-secret", cfg.Creds.Secret)
	// Берутся дефолты для остальных полей.
	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "https://plannerok.ru/api/v1/", cfg.API.BaseURL)
	require.Equal(t, 15*time.Second, cfg.API.Timeout)
	require.Equal(t, "", cfg.Creds.Path)
}

// TestLoad_WithLocalYAML_OK — если нет CONFIG_PATH, берётся ./local.yaml.
func TestLoad_WithLocalYAML_OK(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, ".", "local.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "yaml-secret", cfg.Creds.Secret)
}

// TestLoad_EnvOnly_OK — конфигурация полностью из ENV без YAML-файлов.
func TestLoad_EnvOnly_OK(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")

	t.Setenv("ENV", "dev")
	t.Setenv("API_BASE_URL", "https://env.example.com/api/v1/")
	t.Setenv("API_TIMEOUT", "7s")
	t.Setenv("CREDS_PATH", "/tmp/creds.bin")
	t.Setenv("CREDS_SECRET", "env-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "https://env.example.com/api/v1/", cfg.API.BaseURL)
	require.Equal(t, 7*time.Second, cfg.API.Timeout)
	require.Equal(t, "/tmp/creds.bin", cfg.Creds.Path)
	require.Equal(t, "env-secret", cfg.Creds.Secret)
}

// TestLoad_Priority_ExplicitWinsOverEnvAndLocal — явный путь важнее CONFIG_PATH и local.yaml.
func TestLoad_Priority_ExplicitWinsOverEnvAndLocal(t *testing.T) {
	dir := t.TempDir()

	explicit := writeFile(t, dir, "explicit.yaml", `
env: "prod"
creds: { secret: "explicit-secret" }
`)
	badEnvPath := writeFile(t, dir, "env_bad.yaml", brokenYAML)
	t.Setenv("CONFIG_PATH", badEnvPath)
	writeFile(t, dir, "local.yaml", `
env: "local"
creds: { secret: "local-secret" }
`)

	chdir(t, dir)

	cfg, err := Load(explicit)
	require.NoError(t, err)
	require.Equal(t, "explicit-secret", cfg.Creds.Secret)
}

// TestLoad_Priority_ENVWinsOverLocal — CONFIG_PATH важнее local.yaml.
func TestLoad_Priority_ENVWinsOverLocal(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	fromEnv := writeFile(t, dir, "from_env.yaml", `
creds: { secret: "env-file-secret" }
`)
	t.Setenv("CONFIG_PATH", fromEnv)
	writeFile(t, dir, "local.yaml", `
creds: { secret: "local-secret" }
`)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "env-file-secret", cfg.Creds.Secret)
}
