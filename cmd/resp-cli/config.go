package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pior/resp"
	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML configuration accepted by -config.
type fileConfig struct {
	Addresses      []string      `yaml:"addresses"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxConns       int32         `yaml:"max_conns"`
	CredentialsKey string        `yaml:"credentials_key"`
	SessionPrefix  string        `yaml:"session_prefix"`
	CircuitBreaker bool          `yaml:"circuit_breaker"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*fileConfig, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(fc.Addresses) == 0 {
		return nil, fmt.Errorf("config: at least one address is required")
	}
	return &fc, nil
}

// clientConfig converts the file settings for resp.NewClient.
func (fc *fileConfig) clientConfig(logger *slog.Logger) resp.Config {
	config := resp.Config{
		Timeout:        fc.Timeout,
		MaxConns:       fc.MaxConns,
		CredentialsKey: fc.CredentialsKey,
		SessionPrefix:  fc.SessionPrefix,
		Logger:         logger,
	}
	if fc.CircuitBreaker {
		config.NewCircuitBreaker = resp.NewCircuitBreakerConfig(1, 10*time.Second, 5*time.Second)
	}
	return config
}
