package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/modelmesh-lang/modelmesh/pkg/resource"
	"github.com/modelmesh-lang/modelmesh/pkg/resource/filesystem"
)

// Config represents the mctl configuration
type Config struct {
	File string `mapstructure:"file"`
	Port int    `mapstructure:"port"`
}

// loadConfig reads an optional mctl.yaml from the home directory or
// the working directory. Environment variables (MCTL_FILE, MCTL_PORT)
// and command line flags take precedence over file settings.
func loadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 8080)

	v.SetConfigName("mctl")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("mctl")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// loadResource loads the model file selected by the --file flag or
// the configuration into a fresh resource set.
func loadResource(fss ...afero.Fs) (resource.Resource, error) {
	file := modelFile
	if file == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		file = cfg.File
	}
	if file == "" {
		return nil, fmt.Errorf("model file required (--file)")
	}

	set := resource.NewSet()
	f := filesystem.New(fss...)
	set.AddFactory(".yaml", f)
	set.AddFactory(".yml", f)
	set.AddFactory(".json", f)

	r := set.GetResource(file)
	if r == nil {
		return nil, fmt.Errorf("cannot load model file %q", file)
	}
	return r, nil
}
