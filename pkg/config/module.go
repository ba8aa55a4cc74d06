package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DEFAULT []byte

const (
	maxTaintLimit = 64
	maxDimension  = 1 << 14
)

func decodeYAML(data []byte, config *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	err := decoder.Decode(config)
	// An empty file leaves everything as it was
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func decodeJSON(data []byte, config *Config) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(config)
}

func readFile(path string, config *Config) error {
	// Check if this is a valid file
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("does not exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	extension := filepath.Ext(path)
	switch extension {
	case ".json":
		return decodeJSON(data, config)
	case ".yaml", ".yml":
		return decodeYAML(data, config)
	}

	return fmt.Errorf(
		"not in a valid format",
	)
}

// Validate reports the first setting that the renderer could not use.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Width > maxDimension {
		return fmt.Errorf("screen.width must be in (0, %d]", maxDimension)
	}
	if c.Screen.Height <= 0 || c.Screen.Height > maxDimension {
		return fmt.Errorf("screen.height must be in (0, %d]", maxDimension)
	}
	if c.Render.TaintLimit < 1 || c.Render.TaintLimit > maxTaintLimit {
		return fmt.Errorf("render.taintLimit must be in [1, %d]", maxTaintLimit)
	}
	if c.Render.RefusalLogRate <= 0 {
		return fmt.Errorf("render.refusalLogRate must be positive")
	}
	if c.Render.RefusalLogBurst < 1 {
		return fmt.Errorf("render.refusalLogBurst must be at least 1")
	}
	if c.Demo.Frames < 1 {
		return fmt.Errorf("demo.frames must be at least 1")
	}

	switch c.Demo.Scene {
	case SceneFacing, SceneSkybox, ScenePlane, SceneHorizon, SceneAll:
	default:
		return fmt.Errorf("unknown demo.scene %q", c.Demo.Scene)
	}

	return nil
}

// Process reads the provided configuration files in order on top of the
// default configuration. Later files override the settings they mention.
func Process(configPaths []string) (*Config, error) {
	config := Config{}
	if err := decodeYAML(DEFAULT, &config); err != nil {
		return nil, fmt.Errorf(
			"invalid default config file: %v",
			err,
		)
	}

	for _, path := range configPaths {
		err := readFile(path, &config)
		if err != nil {
			return nil, fmt.Errorf(
				"could not process config file %s: %w",
				path,
				err,
			)
		}

		// Check if the config file is valid
		err = config.Validate()
		if err != nil {
			return nil, fmt.Errorf(
				"config file %s is not valid: %w",
				path,
				err,
			)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
