package configparser

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadAndParseYaml loads the YAML file and the optional .env file into the environment
// and fills cfg from `env` / `default` struct tags.
func LoadAndParseYaml(filepath string, cfg any) error {
	if err := LoadYamlFile(filepath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not load .env file: %w", err)
	}

	return Parse(cfg)
}

// LoadYamlFile reads a YAML file and exports every scalar leaf as an environment variable.
// Nested keys are joined with "_" and upper-cased: safety.check_cadence -> SAFETY_CHECK_CADENCE.
// Values of the form ${VAR:-default} are resolved against the environment.
// Variables already present in the environment are never overwritten.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}

	var root yaml.MapSlice
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("could not parse YAML file: %w", err)
	}

	vars := make(map[string]string)
	flatten(nil, root, vars)

	for key, value := range vars {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("could not set env var %s: %w", key, err)
		}
	}

	return nil
}

func flatten(prefix []string, node yaml.MapSlice, out map[string]string) {
	for _, item := range node {
		key := fmt.Sprint(item.Key)
		path := append(append([]string{}, prefix...), key)

		switch v := item.Value.(type) {
		case yaml.MapSlice:
			flatten(path, v, out)
		case nil:
			// "key:" without a value is a section header or an unset variable
		default:
			out[strings.ToUpper(strings.Join(path, "_"))] = substitute(fmt.Sprint(v))
		}
	}
}

// substitute resolves ${VAR:-default}
func substitute(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") || !strings.Contains(value, ":-") {
		return value
	}

	inner := value[2 : len(value)-1]
	parts := strings.SplitN(inner, ":-", 2)

	if envValue := os.Getenv(strings.TrimSpace(parts[0])); envValue != "" {
		return envValue
	}
	return strings.TrimSpace(parts[1])
}
