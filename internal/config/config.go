// Package config loads portfolio settings with Viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the typed view of the settings.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Contact  ContactConfig  `mapstructure:"contact"`
	Theme    ThemeConfig    `mapstructure:"theme"`
	Cursor   CursorConfig   `mapstructure:"cursor"`
	Audio    AudioConfig    `mapstructure:"audio"`
}

type ServerConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	TemplatesGlob string        `mapstructure:"templates_glob"`
	StaticDir     string        `mapstructure:"static_dir"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

// Addr returns the listen address as host:port.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type DatabaseConfig struct {
	Path      string        `mapstructure:"path"`
	Retention time.Duration `mapstructure:"retention"`
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
	To   string `mapstructure:"to"`
}

// Configured reports whether credentials are present.
func (c SMTPConfig) Configured() bool {
	return c.User != "" && c.Pass != ""
}

type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ContactConfig struct {
	RatePerMinute float64 `mapstructure:"rate_per_minute"`
	Burst         int     `mapstructure:"burst"`
}

type ThemeConfig struct {
	Default string `mapstructure:"default"`
}

type CursorConfig struct {
	FrameRate     int     `mapstructure:"frame_rate"`
	GlowSmoothing float64 `mapstructure:"glow_smoothing"`
	DotSmoothing  float64 `mapstructure:"dot_smoothing"`
	HotScale      float64 `mapstructure:"hot_scale"`
}

type AudioConfig struct {
	SampleRate int `mapstructure:"sample_rate"`
}

// envBindings keeps the plain environment names the site has always used.
var envBindings = map[string]string{
	"server.port":    "PORT",
	"smtp.host":      "SMTP_HOST",
	"smtp.port":      "SMTP_PORT",
	"smtp.user":      "SMTP_USER",
	"smtp.pass":      "SMTP_PASS",
	"smtp.to":        "TO_EMAIL",
	"admin.username": "ADMIN_USERNAME",
	"admin.password": "ADMIN_PASSWORD",
}

// Load reads configuration from defaults, an optional file and the
// environment. A missing config file is not an error.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("portfolio")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// PORTFOLIO_SERVER_PORT=9090 style overrides.
	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, "PORTFOLIO_"+envKey(key), env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.templates_glob", "templates/*")
	v.SetDefault("server.static_dir", "./static")
	v.SetDefault("server.shutdown_grace", "10s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.path", "./data/portfolio.db")
	v.SetDefault("database.retention", "8760h")
	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("smtp.to", "iabhijais@gmail.com")
	v.SetDefault("contact.rate_per_minute", 2)
	v.SetDefault("contact.burst", 3)
	v.SetDefault("theme.default", "dark")
	v.SetDefault("cursor.frame_rate", 60)
	v.SetDefault("cursor.glow_smoothing", 0.15)
	v.SetDefault("cursor.dot_smoothing", 0.25)
	v.SetDefault("cursor.hot_scale", 1.5)
	v.SetDefault("audio.sample_rate", 44100)
}

func envKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Decode unmarshals v into a Config.
func Decode(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &c, nil
}
