package configparser

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadYamlFile reads a YAML file and exports its leaves as environment variables.
// Nested keys are joined with "_" and upper-cased: `mirror: {timeout: 5s}` becomes MIRROR_TIMEOUT.
// Variables already present in the environment are never overridden.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	raw, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("could not open YAML file: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("error reading YAML file: %w", err)
	}

	vars := make(map[string]string)
	flatten("", doc, vars)

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ok := os.LookupEnv(key); ok {
			continue
		}
		if err := os.Setenv(key, expand(vars[key])); err != nil {
			return fmt.Errorf("could not set env var %s: %w", key, err)
		}
	}

	return nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := strings.ToUpper(k)
		if prefix != "" {
			key = prefix + "_" + key
		}

		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprint(item))
			}
			out[key] = strings.Join(parts, ",")
		case nil:
			// "key:" with no value does not describe a variable
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

// expand resolves the ${VAR:-default} form.
func expand(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	inner := value[2 : len(value)-1]
	name, def, found := strings.Cut(inner, ":-")
	if !found {
		return os.Getenv(strings.TrimSpace(inner))
	}
	if env := os.Getenv(strings.TrimSpace(name)); env != "" {
		return env
	}
	return strings.TrimSpace(def)
}

// LoadAndParseYaml exports the YAML file into the environment and then fills cfg from it.
// A missing file is not an error: the environment and `default` tags are used alone.
func LoadAndParseYaml(filepath string, cfg any) error {
	if err := LoadYamlFile(filepath); err != nil && !errors.Is(err, os.ErrNotExist) && !errors.Is(err, ErrNoFilePath) {
		return err
	}
	return ParseEnv(cfg)
}
