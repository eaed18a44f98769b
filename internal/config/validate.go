package config

import (
	"fmt"
	"net/url"
	"strings"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"json", "console"}
	logOutputs = []string{"file", "stderr", "both"}
	themes     = []string{"classic", "neon", "mono"}
)

// Validate checks the loaded configuration. Load calls it.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an http(s) URL (got %q)", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be > 0 (got %s)", c.API.Timeout)
	}
	if c.UI.Debounce < 0 {
		return fmt.Errorf("ui.debounce must be >= 0 (got %s)", c.UI.Debounce)
	}
	if err := oneOf("ui.theme", c.UI.Theme, themes); err != nil {
		return err
	}
	if err := oneOf("log.level", c.Log.Level, logLevels); err != nil {
		return err
	}
	if err := oneOf("log.format", c.Log.Format, logFormats); err != nil {
		return err
	}
	if err := oneOf("log.output", c.Log.Output, logOutputs); err != nil {
		return err
	}
	return nil
}

func oneOf(name, value string, allowed []string) error {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s (got %q)", name, strings.Join(allowed, ", "), value)
}
