package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// InfluxConfig holds session metrics output settings.
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
}

// URL assembles the server URL from its parts.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// GraylogConfig holds the optional GELF log shipping settings.
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// RenderConfig holds the initial presentation state of a session.
type RenderConfig struct {
	ScaleFactor     float64 `json:"scaleFactor" mapstructure:"scaleFactor"`
	ShowGrid        bool    `json:"showGrid" mapstructure:"showGrid"`
	ShowAxes        bool    `json:"showAxes" mapstructure:"showAxes"`
	ShowFlightPaths bool    `json:"showFlightPaths" mapstructure:"showFlightPaths"`
}

// StreamConfig holds the optional WebSocket frame streaming settings.
type StreamConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	URL     string `json:"url" mapstructure:"url"`
	Secret  string `json:"secret" mapstructure:"secret"`
}

// PlaybackConfig holds scheduler and viewport settings.
type PlaybackConfig struct {
	TickInterval  time.Duration `json:"tickInterval" mapstructure:"tickInterval"`
	ViewportWidth float64       `json:"viewportWidth" mapstructure:"viewportWidth"`
}

// Load reads configuration from the JSON config file in configDir and
// sets default values.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./dronescope-logs")

	viper.SetDefault("playback.tickInterval", "16ms")
	viper.SetDefault("playback.viewportWidth", 1280)

	viper.SetDefault("render.scaleFactor", 1.0)
	viper.SetDefault("render.showGrid", true)
	viper.SetDefault("render.showAxes", true)
	viper.SetDefault("render.showFlightPaths", false)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "dronescope-metrics")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("stream.enabled", false)
	viper.SetDefault("stream.url", "ws://localhost:5001/playback")
	viper.SetDefault("stream.secret", "")

	viper.SetConfigName("dronescope.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetInfluxConfig returns the metrics output settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Protocol: viper.GetString("influx.protocol"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
	}
}

// GetGraylogConfig returns the GELF shipping settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetStreamConfig returns the WebSocket frame streaming settings.
func GetStreamConfig() StreamConfig {
	return StreamConfig{
		Enabled: viper.GetBool("stream.enabled"),
		URL:     viper.GetString("stream.url"),
		Secret:  viper.GetString("stream.secret"),
	}
}

// GetRenderConfig returns the initial presentation settings.
func GetRenderConfig() RenderConfig {
	return RenderConfig{
		ScaleFactor:     viper.GetFloat64("render.scaleFactor"),
		ShowGrid:        viper.GetBool("render.showGrid"),
		ShowAxes:        viper.GetBool("render.showAxes"),
		ShowFlightPaths: viper.GetBool("render.showFlightPaths"),
	}
}

// GetPlaybackConfig returns scheduler and viewport settings.
func GetPlaybackConfig() PlaybackConfig {
	return PlaybackConfig{
		TickInterval:  viper.GetDuration("playback.tickInterval"),
		ViewportWidth: viper.GetFloat64("playback.viewportWidth"),
	}
}
