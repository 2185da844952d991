package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/teatak/subword/bpe"
	"github.com/teatak/subword/tokenize"
)

// Config holds the settings shared by the command line tools and the server.
type Config struct {
	Tokenizer TokenizerConfig `yaml:"tokenizer" json:"tokenizer"`
	BPE       BPEConfig       `yaml:"bpe" json:"bpe"`
	Encoder   EncoderConfig   `yaml:"encoder" json:"encoder"`
	Bayes     BayesConfig     `yaml:"bayes" json:"bayes"`
	Store     StoreConfig     `yaml:"store" json:"store"`
	Server    ServerConfig    `yaml:"server" json:"server"`
}

// TokenizerConfig selects how raw lines are split into words.
type TokenizerConfig struct {
	Pattern     string `yaml:"pattern" json:"pattern"` // "alphas", "words" or a regexp
	Lowercase   bool   `yaml:"lowercase" json:"lowercase"`
	FoldAccents bool   `yaml:"fold_accents" json:"fold_accents"`
}

// BPEConfig configures vocabulary training.
type BPEConfig struct {
	VocabSize     int    `yaml:"vocab_size" json:"vocab_size"`
	MergeMode     string `yaml:"merge_mode" json:"merge_mode"`
	ProgressEvery int    `yaml:"progress_every" json:"progress_every"`
}

// EncoderConfig configures word encoding.
type EncoderConfig struct {
	UnknownToken string `yaml:"unknown_token" json:"unknown_token"`
	CacheSize    int    `yaml:"cache_size" json:"cache_size"`
}

// BayesConfig configures the Naive Bayes classifier.
type BayesConfig struct {
	Target    string  `yaml:"target" json:"target"`
	Smoothing float64 `yaml:"smoothing" json:"smoothing"`
}

// StoreConfig points at the SQLite database. An empty path disables it.
type StoreConfig struct {
	Path string `yaml:"path" json:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr      string `yaml:"addr" json:"addr"`
	VocabPath string `yaml:"vocab_path" json:"vocab_path"` // CSV file or store:<name>
	ModelPath string `yaml:"model_path" json:"model_path"`
	// AccessLog collects encoded text for retraining. Empty disables it.
	AccessLog string `yaml:"access_log" json:"access_log"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Tokenizer: TokenizerConfig{
			Pattern:   tokenize.PatternAlphas,
			Lowercase: true,
		},
		BPE: BPEConfig{
			VocabSize:     1000,
			MergeMode:     bpe.MergeGreedy.String(),
			ProgressEvery: 100,
		},
		Encoder: EncoderConfig{
			UnknownToken: bpe.Unknown,
			CacheSize:    bpe.DefaultCacheSize,
		},
		Bayes: BayesConfig{
			Smoothing: 1,
		},
		Server: ServerConfig{
			Addr:      ":8080",
			VocabPath: "data/vocab.csv",
			ModelPath: "data/bayes.csv",
			AccessLog: "data/server_access.log",
		},
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load for an optional path: an empty path gives the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// Validate checks values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	var errs []error
	if _, err := bpe.ParseMergeMode(c.BPE.MergeMode); err != nil {
		errs = append(errs, err)
	}
	if c.BPE.VocabSize < 0 {
		errs = append(errs, fmt.Errorf("bpe.vocab_size must not be negative, got %d", c.BPE.VocabSize))
	}
	if c.BPE.ProgressEvery < 0 {
		errs = append(errs, fmt.Errorf("bpe.progress_every must not be negative, got %d", c.BPE.ProgressEvery))
	}
	if c.Encoder.UnknownToken == "" {
		errs = append(errs, errors.New("encoder.unknown_token must be set"))
	}
	if c.Encoder.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("encoder.cache_size must not be negative, got %d", c.Encoder.CacheSize))
	}
	if c.Bayes.Smoothing < 0 {
		errs = append(errs, fmt.Errorf("bayes.smoothing must not be negative, got %v", c.Bayes.Smoothing))
	}
	if _, err := c.NewTokenizer(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// NewTokenizer builds the tokenizer described by the tokenizer section.
func (c *Config) NewTokenizer() (*tokenize.Tokenizer, error) {
	return tokenize.New(tokenize.Options{
		Pattern:     c.Tokenizer.Pattern,
		Lowercase:   c.Tokenizer.Lowercase,
		FoldAccents: c.Tokenizer.FoldAccents,
	})
}

// TrainerOptions converts the bpe section into trainer options.
func (c *Config) TrainerOptions() ([]bpe.Option, error) {
	mode, err := bpe.ParseMergeMode(c.BPE.MergeMode)
	if err != nil {
		return nil, err
	}
	return []bpe.Option{bpe.WithMergeMode(mode), bpe.WithProgress(c.BPE.ProgressEvery)}, nil
}

// EncoderOptions converts the encoder section into encoder options.
func (c *Config) EncoderOptions() []bpe.EncoderOption {
	return []bpe.EncoderOption{
		bpe.WithUnknown(c.Encoder.UnknownToken),
		bpe.WithCacheSize(c.Encoder.CacheSize),
	}
}
