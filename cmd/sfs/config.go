package main

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

const envVarPrefix = "SFS"

type Config struct {
	Image  string `envconfig:"SFS_IMAGE"  yaml:"image"`
	Blocks uint32 `envconfig:"SFS_BLOCKS" yaml:"blocks"`
	Prompt string `envconfig:"SFS_PROMPT" yaml:"prompt"`
}

// LoadConfig reads the optional YAML config file named by SFS_CONFIG_FILE
// and then applies SFS_* environment overrides on top.
func LoadConfig() (*Config, error) {
	config := Config{Image: "sfs.img", Blocks: 100, Prompt: "sfs> "}

	if configFile := os.Getenv(envVarPrefix + "_CONFIG_FILE"); configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf(
				"loading config file `%s`: %w",
				configFile,
				err,
			)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf(
				"parsing config file `%s`: %w",
				configFile,
				err,
			)
		}
	}

	if err := envconfig.Process(envVarPrefix, &config); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	return &config, nil
}
