package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"profile-service-go/pkg/logger"
)

const configFileEnv = "CONFIG_FILE"

// source resolves a key from the environment first, then from the optional
// YAML file named by CONFIG_FILE. The file is a flat map keyed by the same
// names as the environment variables.
type source struct {
	file map[string]string
}

func newSource(log logger.Logger) (source, error) {
	path := strings.TrimSpace(os.Getenv(configFileEnv))
	if path == "" {
		return source{}, nil
	}

	values, err := readConfigFile(path)
	if err != nil {
		return source{}, err
	}

	log.Info("config: loaded file", "path", path, "keys", len(values))
	return source{file: values}, nil
}

func readConfigFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for key, value := range raw {
		if value == nil {
			continue
		}
		values[strings.ToUpper(strings.TrimSpace(key))] = fmt.Sprint(value)
	}
	return values, nil
}

func (s source) lookup(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return strings.TrimSpace(s.file[key])
}

func (s source) getString(key, fallback string) string {
	if value := s.lookup(key); value != "" {
		return value
	}
	return fallback
}

func (s source) getInt(key string, fallback int) int {
	value := s.lookup(key)
	if value == "" {
		return fallback
	}
	return parseInt(value, fallback)
}

func (s source) getDuration(key string, fallback time.Duration) time.Duration {
	value := s.lookup(key)
	if value == "" {
		return fallback
	}
	return parseDuration(value, fallback)
}

func (s source) getBool(key string, fallback bool) bool {
	value := s.lookup(key)
	if value == "" {
		return fallback
	}
	return parseBool(value, fallback)
}
