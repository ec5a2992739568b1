package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// File is the on-disk representation of a Config. Zero values are treated as unset, so
// only the options present in the file override the defaults.
type File struct {
	Pool struct {
		Workers       int `yaml:"workers" json:"workers"`
		QueueCapacity int `yaml:"queue_capacity" json:"queue_capacity"`
		GrowthCeiling int `yaml:"growth_ceiling" json:"growth_ceiling"`
	} `yaml:"pool" json:"pool"`

	Request struct {
		MaxLineLength        int `yaml:"max_line_length" json:"max_line_length"`
		MaxMethodLength      int `yaml:"max_method_length" json:"max_method_length"`
		MaxPathLength        int `yaml:"max_path_length" json:"max_path_length"`
		MaxProtocolLength    int `yaml:"max_protocol_length" json:"max_protocol_length"`
		MaxHeaderNameLength  int `yaml:"max_header_name_length" json:"max_header_name_length"`
		MaxHeaderValueLength int `yaml:"max_header_value_length" json:"max_header_value_length"`
		MaxHeaders           int `yaml:"max_headers" json:"max_headers"`
	} `yaml:"request" json:"request"`

	Body struct {
		MaxSize int `yaml:"max_size" json:"max_size"`
	} `yaml:"body" json:"body"`

	NET struct {
		ReadBufferSize            int    `yaml:"read_buffer_size" json:"read_buffer_size"`
		ReadTimeout               string `yaml:"read_timeout" json:"read_timeout"`
		WriteTimeout              string `yaml:"write_timeout" json:"write_timeout"`
		WriteRetries              int    `yaml:"write_retries" json:"write_retries"`
		MaxHeadSize               int    `yaml:"max_head_size" json:"max_head_size"`
		AcceptLoopInterruptPeriod string `yaml:"accept_loop_interrupt_period" json:"accept_loop_interrupt_period"`
	} `yaml:"net" json:"net"`

	Log struct {
		Requests *bool `yaml:"requests" json:"requests"`
		Color    *bool `yaml:"color" json:"color"`
	} `yaml:"log" json:"log"`

	Metrics struct {
		Addr string `yaml:"addr" json:"addr"`
	} `yaml:"metrics" json:"metrics"`
}

// LoadFile reads a YAML (.yaml, .yml) or JSON (.json) configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var f File

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &f, nil
}

// Validate rejects values which can never be meaningful.
func (f *File) Validate() error {
	ints := []struct {
		name  string
		value int
	}{
		{"pool.workers", f.Pool.Workers},
		{"pool.queue_capacity", f.Pool.QueueCapacity},
		{"pool.growth_ceiling", f.Pool.GrowthCeiling},
		{"request.max_line_length", f.Request.MaxLineLength},
		{"request.max_method_length", f.Request.MaxMethodLength},
		{"request.max_path_length", f.Request.MaxPathLength},
		{"request.max_protocol_length", f.Request.MaxProtocolLength},
		{"request.max_header_name_length", f.Request.MaxHeaderNameLength},
		{"request.max_header_value_length", f.Request.MaxHeaderValueLength},
		{"request.max_headers", f.Request.MaxHeaders},
		{"body.max_size", f.Body.MaxSize},
		{"net.read_buffer_size", f.NET.ReadBufferSize},
		{"net.write_retries", f.NET.WriteRetries},
		{"net.max_head_size", f.NET.MaxHeadSize},
	}

	var errs []error
	for _, v := range ints {
		if v.value < 0 {
			errs = append(errs, fmt.Errorf("%s must be non-negative", v.name))
		}
	}

	for name, d := range map[string]string{
		"net.read_timeout":                 f.NET.ReadTimeout,
		"net.write_timeout":                f.NET.WriteTimeout,
		"net.accept_loop_interrupt_period": f.NET.AcceptLoopInterruptPeriod,
	} {
		if _, err := parseDuration(d); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

// Apply overrides the fields of cfg which are set in the file.
func (f *File) Apply(cfg *Config) error {
	if err := f.Validate(); err != nil {
		return err
	}

	setInt(&cfg.Pool.Workers, f.Pool.Workers)
	setInt(&cfg.Pool.QueueCapacity, f.Pool.QueueCapacity)
	setInt(&cfg.Pool.GrowthCeiling, f.Pool.GrowthCeiling)

	setInt(&cfg.Request.MaxLineLength, f.Request.MaxLineLength)
	setInt(&cfg.Request.MaxMethodLength, f.Request.MaxMethodLength)
	setInt(&cfg.Request.MaxPathLength, f.Request.MaxPathLength)
	setInt(&cfg.Request.MaxProtocolLength, f.Request.MaxProtocolLength)
	setInt(&cfg.Request.MaxHeaderNameLength, f.Request.MaxHeaderNameLength)
	setInt(&cfg.Request.MaxHeaderValueLength, f.Request.MaxHeaderValueLength)
	setInt(&cfg.Request.MaxHeaders, f.Request.MaxHeaders)

	setInt(&cfg.Body.MaxSize, f.Body.MaxSize)

	setInt(&cfg.NET.ReadBufferSize, f.NET.ReadBufferSize)
	setInt(&cfg.NET.WriteRetries, f.NET.WriteRetries)
	setInt(&cfg.NET.MaxHeadSize, f.NET.MaxHeadSize)
	// durations are validated above, errors can't happen here
	setDuration(&cfg.NET.ReadTimeout, f.NET.ReadTimeout)
	setDuration(&cfg.NET.WriteTimeout, f.NET.WriteTimeout)
	setDuration(&cfg.NET.AcceptLoopInterruptPeriod, f.NET.AcceptLoopInterruptPeriod)

	if f.Log.Requests != nil {
		cfg.Log.Requests = *f.Log.Requests
	}
	if f.Log.Color != nil {
		cfg.Log.Color = *f.Log.Color
	}

	if f.Metrics.Addr != "" {
		cfg.Metrics.Addr = f.Metrics.Addr
	}

	return nil
}

func setInt(dst *int, value int) {
	if value > 0 {
		*dst = value
	}
}

func setDuration(dst *time.Duration, value string) {
	if d, _ := parseDuration(value); d > 0 {
		*dst = d
	}
}

func parseDuration(value string) (time.Duration, error) {
	if len(value) == 0 {
		return 0, nil
	}

	d, err := time.ParseDuration(value)
	if err == nil && d < 0 {
		err = errors.New("must be non-negative")
	}

	return d, err
}
