package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dnsscience/dnswalker/internal/resolver"
)

// fileConfig is the on-disk shape of the optional -config YAML file. Any
// field left unset keeps its Default* value.
type fileConfig struct {
	HintsFile     string `yaml:"hints_file"`
	QueryTimeout  string `yaml:"query_timeout"`
	MaxIterations int    `yaml:"max_iterations"`
	MaxGlueDepth  int    `yaml:"max_glue_depth"`
	RateQPS       float64 `yaml:"outbound_rate_qps"`
	RateBurst     int     `yaml:"outbound_rate_burst"`
}

// runConfig is the resolved configuration the rest of main.go uses.
type runConfig struct {
	HintsFile     string
	QueryTimeout  time.Duration
	ResolverCfg   resolver.Config
	RateQPS       float64
	RateBurst     int
}

func defaultRunConfig() runConfig {
	return runConfig{
		HintsFile:    "named.root",
		QueryTimeout: 1 * time.Second,
		ResolverCfg:  resolver.DefaultConfig(),
		RateQPS:      50,
		RateBurst:    10,
	}
}

// loadConfig merges an optional YAML file over the defaults. An empty path
// is not an error: it just means "use the defaults".
func loadConfig(path string) (runConfig, error) {
	cfg := defaultRunConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.HintsFile != "" {
		cfg.HintsFile = fc.HintsFile
	}
	if fc.QueryTimeout != "" {
		d, err := time.ParseDuration(fc.QueryTimeout)
		if err != nil {
			return cfg, fmt.Errorf("parse query_timeout %q: %w", fc.QueryTimeout, err)
		}
		cfg.QueryTimeout = d
	}
	if fc.MaxIterations > 0 {
		cfg.ResolverCfg.MaxIterations = fc.MaxIterations
	}
	if fc.MaxGlueDepth > 0 {
		cfg.ResolverCfg.MaxGlueDepth = fc.MaxGlueDepth
	}
	if fc.RateQPS > 0 {
		cfg.RateQPS = fc.RateQPS
	}
	if fc.RateBurst > 0 {
		cfg.RateBurst = fc.RateBurst
	}

	return cfg, nil
}
