package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyOutput    = "output"
	keyLogging   = "logging"
	keyRefData   = "refdata"
	keyBenchmark = "benchmark"
	keyAdvisor   = "advisor"
	keyStorage   = "storage"
)

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Keys absent in the overlay, and unknown keys, are left
// alone.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range overlay {
		if err = mergeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}

// mergeSection decodes node into a fresh value for key so the section is
// replaced rather than merged field by field.
func mergeSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyOutput:
		return replaceSection(node, &target.Output)
	case keyLogging:
		return replaceSection(node, &target.Logging)
	case keyRefData:
		return replaceSection(node, &target.RefData)
	case keyBenchmark:
		return replaceSection(node, &target.Benchmark)
	case keyAdvisor:
		return replaceSection(node, &target.Advisor)
	case keyStorage:
		return replaceSection(node, &target.Storage)
	default:
		return nil
	}
}

func replaceSection[T any](node *yaml.Node, dst *T) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*dst = v
	return nil
}
