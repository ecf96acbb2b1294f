package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// Topic kinds. Company topics get exclusion terms and the zero-result
// fallback; industry and macro topics search broader thematic groups.
const (
	KindCompany  = "company"
	KindIndustry = "industry"
	KindMacro    = "macro"
)

type Config struct {
	Topics     []Topic   `yaml:"topics"`
	Exclusions []string  `yaml:"exclusions"`
	Fetch      Fetch     `yaml:"fetch"`
	Portals    []Portal  `yaml:"portals"`
	Validator  Validator `yaml:"validator"`
	Dedup      Dedup     `yaml:"dedup"`
	Storage    Storage   `yaml:"storage"`
	Logging    Logging   `yaml:"logging"`
}

// Topic is a named ingestion category scoping queries and storage.
type Topic struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"`
	Aliases []string `yaml:"aliases"`
}

type Fetch struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	PolitenessMS   int    `yaml:"politeness_ms"`
	Workers        int    `yaml:"workers"`
	MaxItems       int    `yaml:"max_items"`
	LookbackDays   int    `yaml:"lookback_days"`
	UserAgent      string `yaml:"user_agent"`
	FeedBaseURL    string `yaml:"feed_base_url"`
}

// Portal describes one external news portal whose search page is scraped
// as a fallback extraction tier.
type Portal struct {
	Name             string   `yaml:"name"`
	SearchURL        string   `yaml:"search_url"` // %s is the encoded query
	LinkSelector     string   `yaml:"link_selector"`
	LinkContains     string   `yaml:"link_contains"`
	ContentSelectors []string `yaml:"content_selectors"`
}

type Validator struct {
	MinChars           int      `yaml:"min_chars"`
	MinScriptChars     int      `yaml:"min_script_chars"`
	MinNormalizedChars int      `yaml:"min_normalized_chars"`
	BoilerplateMarkers []string `yaml:"boilerplate_markers"`
}

type Dedup struct {
	GeneralThreshold   float64  `yaml:"general_threshold"`
	PersonnelThreshold float64  `yaml:"personnel_threshold"`
	PersonnelKeywords  []string `yaml:"personnel_keywords"`
}

type Storage struct {
	DataDir string `yaml:"data_dir"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for newsdesk.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "newsdesk")
}

// DataDir returns the XDG data directory for newsdesk.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "newsdesk")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/newsdesk/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'newsdesk init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Exclusions: []string{"수상", "시상", "기부", "후원", "봉사활동", "포토"},
		Fetch: Fetch{
			TimeoutSeconds: 10,
			PolitenessMS:   500,
			Workers:        3,
			MaxItems:       10,
			LookbackDays:   1,
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
			FeedBaseURL:    "https://news.google.com/rss/search",
		},
		Validator: Validator{
			MinChars:           50,
			MinScriptChars:     10,
			MinNormalizedChars: 30,
			BoilerplateMarkers: []string{"공유하기", "로그인", "회원가입", "구독하기", "카카오톡", "페이스북"},
		},
		Dedup: Dedup{
			GeneralThreshold:   0.6,
			PersonnelThreshold: 0.4,
			PersonnelKeywords:  []string{"[인사]", "인사", "프로필", "선임", "승진", "취임", "임명"},
		},
		Logging: Logging{Level: "INFO"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.Portals) == 0 {
		cfg.Portals = DefaultPortals()
	}
	for i := range cfg.Topics {
		if cfg.Topics[i].Kind == "" {
			cfg.Topics[i].Kind = KindCompany
		}
		if len(cfg.Topics[i].Aliases) == 0 {
			cfg.Topics[i].Aliases = []string{cfg.Topics[i].Name}
		}
	}

	return cfg, nil
}

// DefaultPortals returns the built-in secondary/tertiary portal definitions.
// Naver and Daum fail independently, which is the point of having both.
func DefaultPortals() []Portal {
	return []Portal{
		{
			Name:             "naver",
			SearchURL:        "https://search.naver.com/search.naver?where=news&query=%s",
			LinkSelector:     "a.info",
			LinkContains:     "news.naver.com",
			ContentSelectors: []string{"#dic_area", "#newsEndContents"},
		},
		{
			Name:             "daum",
			SearchURL:        "https://search.daum.net/search?w=news&q=%s",
			LinkSelector:     "a",
			LinkContains:     "v.daum.net",
			ContentSelectors: []string{"#harmonyContainer", ".article_view"},
		},
	}
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir
	}
	return DataDir()
}

// Timeout returns the per-request timeout as a duration.
func (f Fetch) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// Politeness returns the inter-request delay as a duration.
func (f Fetch) Politeness() time.Duration {
	return time.Duration(f.PolitenessMS) * time.Millisecond
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
