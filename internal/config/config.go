package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"semspace/internal/domain"
	"semspace/internal/embedding"
	"semspace/internal/vectorstore/qdrant"
)

// QdrantConfig contains connection details for a Qdrant-backed space.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key,omitempty"`
	APIKeyEnv   string `yaml:"api_key_env,omitempty"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// SpaceConfig describes where one named embedding space comes from.
// For qdrant spaces Path and Format name the file used by -import.
type SpaceConfig struct {
	Type   string        `yaml:"type"`
	Path   string        `yaml:"path,omitempty"`
	Format string        `yaml:"format,omitempty"`
	Limit  int           `yaml:"limit,omitempty"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// DefaultsConfig holds the initial values of the request form.
type DefaultsConfig struct {
	Models      []string `yaml:"models"`
	XBase       string   `yaml:"x_base"`
	XContrast   string   `yaml:"x_contrast"`
	YBase       string   `yaml:"y_base"`
	YContrast   string   `yaml:"y_contrast"`
	Groups      []string `yaml:"groups"`
	Operation   string   `yaml:"operation"`
	TargetGroup string   `yaml:"target_group"`
	ExtraWord   string   `yaml:"extra_word"`
}

// RenderConfig sizes the scatter plot area.
type RenderConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Spaces   map[string]SpaceConfig `yaml:"spaces"`
	Defaults DefaultsConfig         `yaml:"defaults"`
	Render   RenderConfig           `yaml:"render"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./semspace.yaml first, then ~/.config/semspace/config.yaml.
// If neither exists, it writes defaults to ~/.config/semspace/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "semspace.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SpaceNames returns the configured space names, sorted.
func (c *AppConfig) SpaceNames() []string {
	names := make([]string, 0, len(c.Spaces))
	for n := range c.Spaces {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Sources converts the space configuration into embedding loader sources.
// Qdrant API keys named by api_key_env are read from the environment.
func (c *AppConfig) Sources() map[string]embedding.Source {
	out := make(map[string]embedding.Source, len(c.Spaces))
	for name, sc := range c.Spaces {
		src := embedding.Source{
			Type:   sc.Type,
			Path:   sc.Path,
			Format: embedding.Format(sc.Format),
			Limit:  sc.Limit,
		}
		if sc.Qdrant != nil {
			key := sc.Qdrant.APIKey
			if key == "" && sc.Qdrant.APIKeyEnv != "" {
				key = os.Getenv(sc.Qdrant.APIKeyEnv)
			}
			src.Qdrant = qdrant.Config{
				URL:        sc.Qdrant.URL,
				APIKey:     key,
				Collection: sc.Qdrant.Collection,
				Timeout:    time.Duration(sc.Qdrant.TimeoutSecs) * time.Second,
			}
		}
		out[name] = src
	}
	return out
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "semspace", "config.yaml"), nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".cache", "semspace")
}

func defaultSpaces() map[string]SpaceConfig {
	dir := defaultDataDir()
	return map[string]SpaceConfig{
		"word2vec": {Type: embedding.SourceFile, Path: filepath.Join(dir, "GoogleNews-vectors-negative300.bin"), Format: string(embedding.FormatBinary)},
		"glove":    {Type: embedding.SourceFile, Path: filepath.Join(dir, "glove.6B.300d.txt"), Format: string(embedding.FormatText)},
		"fasttext": {Type: embedding.SourceFile, Path: filepath.Join(dir, "wiki-news-300d-1M-subword.vec"), Format: string(embedding.FormatText)},
	}
}

func defaultForm() DefaultsConfig {
	return DefaultsConfig{
		Models:      []string{"word2vec"},
		XBase:       "expensive",
		XContrast:   "cheap",
		YBase:       "big",
		YContrast:   "small",
		Groups:      []string{"dog, cat, bird, fish", "car, bicycle, motorcycle, bus", "apple, banana, orange, pear"},
		TargetGroup: domain.TargetAll,
	}
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Spaces:   defaultSpaces(),
		Defaults: defaultForm(),
		Render:   RenderConfig{Width: 80, Height: 24},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if len(cfg.Spaces) == 0 {
		cfg.Spaces = defaultSpaces()
	}
	for name, sc := range cfg.Spaces {
		if sc.Type == "" {
			sc.Type = embedding.SourceFile
		}
		if sc.Format == "" {
			sc.Format = string(embedding.FormatText)
		}
		if sc.Type == embedding.SourceQdrant && sc.Qdrant != nil {
			if sc.Qdrant.URL == "" {
				sc.Qdrant.URL = "http://localhost:6333"
			}
			if sc.Qdrant.Collection == "" {
				sc.Qdrant.Collection = name
			}
			if sc.Qdrant.TimeoutSecs == 0 {
				sc.Qdrant.TimeoutSecs = 15
			}
		}
		cfg.Spaces[name] = sc
	}
	d := defaultForm()
	if len(cfg.Defaults.Models) == 0 {
		cfg.Defaults.Models = d.Models
	}
	if cfg.Defaults.TargetGroup == "" {
		cfg.Defaults.TargetGroup = d.TargetGroup
	}
	if cfg.Render.Width == 0 {
		cfg.Render.Width = 80
	}
	if cfg.Render.Height == 0 {
		cfg.Render.Height = 24
	}
}
