// Package config loads Fresh's runtime settings: the pipeline/bridge
// tuning knobs that are not part of any buffer or decoration, the single
// source of truth for "how wide is a tab", "how many decorations a
// namespace may hold before the oldest get evicted", and so on.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is Fresh's single settings struct, loaded from fresh.yaml (or
// fresh.json/fresh.toml — viper sniffs the extension) with environment
// variable overrides under the FRESH_ prefix, layered over Defaults().
type Config struct {
	// TabWidth is how many Space tokens a tab byte expands to in Stage A.
	TabWidth int `mapstructure:"tab_width"`

	// ViewportChangedDebounce bounds how often EventDispatcher emits
	// viewport_changed across frames.
	ViewportChangedDebounce time.Duration `mapstructure:"viewport_changed_debounce"`

	// DecorationNamespaceCap is the safety valve in §7 (DecorationOverflow):
	// the maximum live decorations per namespace per buffer before the
	// oldest are evicted.
	DecorationNamespaceCap int `mapstructure:"decoration_namespace_cap"`

	// PipelineOverrunFactor is loaded and defaulted here, but no other
	// package reads it: the pipeline does not cap or truncate the display
	// lines a frame produces.
	PipelineOverrunFactor int `mapstructure:"pipeline_overrun_factor"`

	// ViewStateLRUSize is the bound on BufferViewState retention after a
	// buffer closes in a split (§3, "moved to a bounded LRU (<=20)").
	ViewStateLRUSize int `mapstructure:"view_state_lru_size"`

	// PluginOpQueueSize is the bounded channel capacity for inbound
	// plugin operations per worker (§5).
	PluginOpQueueSize int `mapstructure:"plugin_op_queue_size"`
}

// Defaults returns Fresh's built-in configuration, used when no config
// file is present and as the base every loaded file is layered onto.
func Defaults() Config {
	return Config{
		TabWidth:                8,
		ViewportChangedDebounce: 16 * time.Millisecond,
		DecorationNamespaceCap:  4096,
		PipelineOverrunFactor:   4,
		ViewStateLRUSize:        20,
		PluginOpQueueSize:       256,
	}
}

// Load reads fresh's configuration from configPath (a directory containing
// fresh.{yaml,json,toml}) and from FRESH_-prefixed environment variables,
// falling back to Defaults() for anything unset. A missing config file is
// not an error — Fresh runs fine on defaults alone.
func Load(configPath string) (Config, error) {
	v := viper.New()
	v.SetConfigName("fresh")
	v.SetEnvPrefix("FRESH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if configPath != "" {
		v.AddConfigPath(configPath)
	}

	def := Defaults()
	v.SetDefault("tab_width", def.TabWidth)
	v.SetDefault("viewport_changed_debounce", def.ViewportChangedDebounce)
	v.SetDefault("decoration_namespace_cap", def.DecorationNamespaceCap)
	v.SetDefault("pipeline_overrun_factor", def.PipelineOverrunFactor)
	v.SetDefault("view_state_lru_size", def.ViewStateLRUSize)
	v.SetDefault("plugin_op_queue_size", def.PluginOpQueueSize)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return def, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return def, err
	}
	return cfg, nil
}
