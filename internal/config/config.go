package config

import "time"

// Config is the root application configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	UI      UIConfig      `yaml:"ui"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig holds the remote catalog API settings.
// A negative DetailCacheSize disables the detail cache (0 means the default).
type APIConfig struct {
	BaseURL         string        `yaml:"base_url"          env:"CATALOG_API_URL"               env-default:"http://localhost:8000"`
	Timeout         time.Duration `yaml:"timeout"           env:"CATALOG_API_TIMEOUT"           env-default:"10s"`
	DetailCacheSize int           `yaml:"detail_cache_size" env:"CATALOG_API_DETAIL_CACHE_SIZE" env-default:"128"`
	DetailCacheTTL  time.Duration `yaml:"detail_cache_ttl"  env:"CATALOG_API_DETAIL_CACHE_TTL"  env-default:"1m"`
}

// UIConfig holds interactive browser settings.
type UIConfig struct {
	Debounce time.Duration `yaml:"debounce" env:"CATALOG_DEBOUNCE" env-default:"800ms"`
	Theme    string        `yaml:"theme"    env:"CATALOG_THEME"    env-default:"classic"`
}

// StorageConfig locates the persisted state file. Empty means ~/.catalog/state.json.
type StorageConfig struct {
	Path string `yaml:"path" env:"CATALOG_STATE_PATH"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `yaml:"level"       env:"CATALOG_LOG_LEVEL"       env-default:"info"`
	Format     string `yaml:"format"      env:"CATALOG_LOG_FORMAT"      env-default:"json"`
	Output     string `yaml:"output"      env:"CATALOG_LOG_OUTPUT"      env-default:"file"`
	FilePath   string `yaml:"file_path"   env:"CATALOG_LOG_FILE"`
	MaxSize    int    `yaml:"max_size"    env:"CATALOG_LOG_MAX_SIZE"    env-default:"10"`
	MaxBackups int    `yaml:"max_backups" env:"CATALOG_LOG_MAX_BACKUPS" env-default:"3"`
	MaxAge     int    `yaml:"max_age"     env:"CATALOG_LOG_MAX_AGE"     env-default:"14"`
	Compress   bool   `yaml:"compress"    env:"CATALOG_LOG_COMPRESS"    env-default:"false"`
}
