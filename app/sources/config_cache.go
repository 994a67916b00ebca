package sources

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var validSourceTypes = map[string]bool{
	"json": true,
	"html": true,
	"feed": true,
}

type ConfigCache struct {
	categoriesDir string
	cache         map[string]*CategoryConfig
	mu            sync.RWMutex
}

func NewConfigCache(categoriesDir string) *ConfigCache {
	return &ConfigCache{
		categoriesDir: categoriesDir,
		cache:         make(map[string]*CategoryConfig),
	}
}

func (cc *ConfigCache) Run() error {
	if _, err := os.Stat(cc.categoriesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(cc.categoriesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		// Derive category name from filename (remove .yml extension)
		fileName := filepath.Base(file)
		categoryName := strings.TrimSuffix(fileName, ".yml")

		config, err := cc.LoadConfig(categoryName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Category configuration loaded", "category", categoryName,
			"source", config.Source, "enabled", config.Settings.Enabled)
	}

	return nil
}

func (cc *ConfigCache) LoadConfig(categoryName string) (*CategoryConfig, error) {
	configFile := cc.getConfigFilePath(categoryName)
	config, err := cc.parseConfig(configFile)
	if err != nil {
		return nil, err
	}

	config.Name = categoryName

	if err := cc.validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache[config.Name] = config

	return config, nil
}

func (cc *ConfigCache) GetConfig(categoryName string) (*CategoryConfig, error) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	config, ok := cc.cache[categoryName]
	if !ok {
		return nil, fmt.Errorf("category config with name '%s' not found", categoryName)
	}
	return config, nil
}

func (cc *ConfigCache) GetConfigs() map[string]*CategoryConfig {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	configsCopy := make(map[string]*CategoryConfig, len(cc.cache))
	for k, v := range cc.cache {
		configsCopy[k] = v
	}
	return configsCopy
}

func (cc *ConfigCache) GetEnabledConfigs() map[string]*CategoryConfig {
	cc.mu.RLock()
	defer cc.mu.RUnlock()

	enabled := make(map[string]*CategoryConfig)
	for k, v := range cc.cache {
		if v.Settings.Enabled {
			enabled[k] = v
		}
	}
	return enabled
}

func (cc *ConfigCache) GetConfigCount() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.cache)
}

func (cc *ConfigCache) parseConfig(configFile string) (*CategoryConfig, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config CategoryConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if config.Source == "" {
		config.Source = "json"
	}
	if config.Settings.Timeout == 0 {
		config.Settings.Timeout = 30
	}
	if config.Settings.MaxItems == 0 {
		config.Settings.MaxItems = 200
	}

	return &config, nil
}

func (cc *ConfigCache) validateConfig(config *CategoryConfig) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}

	if config.Name == "" {
		return fmt.Errorf("category name is required")
	}
	if config.URL == "" {
		return fmt.Errorf("category URL is required")
	}
	if !validSourceTypes[config.Source] {
		return fmt.Errorf("invalid source type '%s' (expected json, html or feed)", config.Source)
	}

	nonNegativeFields := map[string]int{
		"timeout":   config.Settings.Timeout,
		"max items": config.Settings.MaxItems,
	}
	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	if config.Source == "html" && config.Selectors.Item == "" {
		return fmt.Errorf("html source requires an item selector")
	}

	return nil
}

func (cc *ConfigCache) getConfigFilePath(categoryName string) string {
	return filepath.Join(cc.categoriesDir, categoryName+".yml")
}
