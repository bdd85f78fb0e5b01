package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load loads a configuration from a YAML or JSON file. The format is chosen
// by extension; anything other than .json is read as YAML.
func Load(filePath string, config interface{}) error {
	content, err := readFile(filePath)
	if err != nil {
		return err
	}
	return decode(filePath, content, config)
}

// readFile reads a config file and substitutes ${VAR} references
func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec // G304: File path is controlled by caller
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return []byte(substituteEnvVars(string(data))), nil
}

func decode(filePath string, content []byte, config interface{}) error {
	if isJSON(filePath) {
		if err := gojson.Unmarshal(content, config); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
		return nil
	}

	if err := yaml.Unmarshal(content, config); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// Save saves a configuration to a YAML or JSON file, chosen by extension
func Save(filePath string, config interface{}) error {
	var (
		data []byte
		err  error
	)
	if isJSON(filePath) {
		data, err = gojson.MarshalIndent(config, "", "  ")
	} else {
		data, err = yaml.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil { //nolint:gosec
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadPipeline loads a pipeline definition. Top-level scalar options go
// through viper so they can be overridden by PIPES_-prefixed environment
// variables (PIPES_LOG_LEVEL, PIPES_LOG_FORMAT, PIPES_NAME). The pipe list
// is decoded directly so that setting keys keep their case.
//
// Entries are not validated here: building the pipeline reports every bad
// entry on its own.
func LoadPipeline(filePath string) (*PipelineConfig, error) {
	content, err := readFile(filePath)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	if isJSON(filePath) {
		v.SetConfigType("json")
	} else {
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("PIPES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read pipeline config %s: %w", filePath, err)
	}

	var cfg PipelineConfig
	if err := decode(filePath, content, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load pipeline config %s: %w", filePath, err)
	}

	cfg.Name = v.GetString("name")
	cfg.LogLevel = v.GetString("log_level")
	cfg.LogFormat = v.GetString("log_format")

	return &cfg, nil
}

func isJSON(filePath string) bool {
	return strings.EqualFold(filepath.Ext(filePath), ".json")
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		envValue := os.Getenv(varName)
		content = content[:start] + envValue + content[end+1:]
	}
	return content
}
