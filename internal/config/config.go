package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации сервиса паков.
type Config struct {
	Debug     DebugConfig     `yaml:"debug"`
	Packs     PacksConfig     `yaml:"packs"`
	Render    RenderConfig    `yaml:"render"`
	Storage   StorageConfig   `yaml:"storage"`
	API       APIConfig       `yaml:"api"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DebugConfig флаги подробной диагностики (DEBUG_ALL / DEBUG_PACKS)
type DebugConfig struct {
	All   bool `yaml:"all"`
	Packs bool `yaml:"packs"`
}

type PacksConfig struct {
	Dir          string `yaml:"dir"`
	ModID        string `yaml:"mod_id"`
	DefaultModID string `yaml:"default_mod_id"`
	Language     string `yaml:"language"`
}

type RenderConfig struct {
	AmbientOcclusion bool `yaml:"ambient_occlusion"`
	Distance         int  `yaml:"distance"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type APIConfig struct {
	Addr string `yaml:"addr"`
}

type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Service string `yaml:"service"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Packs: PacksConfig{
			Dir:          "packs",
			ModID:        "almura",
			DefaultModID: "minecraft",
			Language:     "en_US",
		},
		Render: RenderConfig{
			AmbientOcclusion: true,
			Distance:         8,
		},
		Storage:   StorageConfig{Path: "data/reports"},
		API:       APIConfig{Addr: ":8090"},
		Telemetry: TelemetryConfig{Service: "blockpacks"},
		Logging:   LoggingConfig{Level: "info"},
	}
}

// IsDebug true, если включён хотя бы один из флагов отладки
func (d DebugConfig) IsDebug() bool {
	return d.All || d.Packs || envBool("PACKS_DEBUG")
}

// GetDir возвращает каталог паков: config -> env -> default
func (p *PacksConfig) GetDir() string {
	return getStringWithEnvFallback(p.Dir, "PACKS_DIR", "packs")
}

// GetAddr возвращает адрес REST API: config -> env -> default
func (a *APIConfig) GetAddr() string {
	return getStringWithEnvFallback(a.Addr, "PACKS_API_ADDR", ":8090")
}

// GetPath возвращает путь хранилища отчётов: config -> env -> default
func (s *StorageConfig) GetPath() string {
	return getStringWithEnvFallback(s.Path, "PACKS_STORAGE_PATH", "data/reports")
}

// GetDistance возвращает дальность прорисовки с поддержкой fallback значений
func (r *RenderConfig) GetDistance() int {
	return getIntWithEnvFallback(r.Distance, "PACKS_RENDER_DISTANCE", 8)
}

func getStringWithEnvFallback(value, envVar, def string) string {
	if value != "" {
		return value
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return def
}

// getIntWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getIntWithEnvFallback(value int, envVar string, def int) int {
	if value > 0 {
		return value
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		if v, err := strconv.Atoi(envVal); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func envBool(envVar string) bool {
	v, err := strconv.ParseBool(os.Getenv(envVar))
	return err == nil && v
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV BLOCKPACKS_CONFIG, иначе возвращает Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv("BLOCKPACKS_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
