package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "tfcli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Scores    ScoreConfig     `yaml:"scores" envconfig:"SCORES"`
	Buckets   BucketConfig    `yaml:"buckets" envconfig:"BUCKETS"`
	Columns   ColumnConfig    `yaml:"columns" envconfig:"COLUMNS"`
	Trend     TrendConfig     `yaml:"trend" envconfig:"TREND"`
	Sentiment SentimentConfig `yaml:"sentiment" envconfig:"SENTIMENT"`
	Outreach  OutreachConfig  `yaml:"outreach" envconfig:"OUTREACH"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
}

// InputConfig describes the feedback export to ingest
type InputConfig struct {
	File            string `yaml:"file" envconfig:"FILE" validate:"required"`
	TimestampLayout string `yaml:"timestamp_layout" envconfig:"TIMESTAMP_LAYOUT" validate:"required"`
}

// ScoreConfig declares the valid numeric range for score fields
type ScoreConfig struct {
	Min float64 `yaml:"min" envconfig:"MIN"`
	Max float64 `yaml:"max" envconfig:"MAX"`
}

// BucketConfig holds the qualitative bucket thresholds applied to a
// trainer's mean score. Lower bounds are inclusive: mean < NeedsAttentionBelow
// is needs_attention, mean > ExemplaryAbove is exemplary, everything between
// (both ends inclusive) is solid.
type BucketConfig struct {
	NeedsAttentionBelow float64 `yaml:"needs_attention_below" envconfig:"NEEDS_ATTENTION_BELOW"`
	ExemplaryAbove      float64 `yaml:"exemplary_above" envconfig:"EXEMPLARY_ABOVE"`
}

// ColumnConfig is the alias table mapping logical fields to the header name
// variants seen across export versions. A header satisfies an alias if it
// matches exactly or starts with the alias; survey exports append the full
// question text after the question number.
type ColumnConfig struct {
	Trainer   []string            `yaml:"trainer" envconfig:"TRAINER" validate:"required,min=1"`
	Scores    map[string][]string `yaml:"scores" ignored:"true" validate:"required,min=1"`
	Comments  map[string][]string `yaml:"comments" ignored:"true"`
	Timestamp []string            `yaml:"timestamp" envconfig:"TIMESTAMP"`
}

// TrendConfig controls the improvement-over-time split. A trainer needs at
// least MinResponses dated responses before an early/late comparison is
// computed at all.
type TrendConfig struct {
	MinResponses int `yaml:"min_responses" envconfig:"MIN_RESPONSES" validate:"min=2"`
}

// SentimentConfig controls comment classification and quote selection
type SentimentConfig struct {
	PositiveKeywords []string `yaml:"positive_keywords" envconfig:"POSITIVE_KEYWORDS" validate:"required,min=1"`
	MinQuoteLength   int      `yaml:"min_quote_length" envconfig:"MIN_QUOTE_LENGTH" validate:"min=1"`
	MaxQuoteLength   int      `yaml:"max_quote_length" envconfig:"MAX_QUOTE_LENGTH" validate:"min=1"`
	MaxQuotes        int      `yaml:"max_quotes" envconfig:"MAX_QUOTES" validate:"min=0"`
}

// OutreachConfig selects which trainers get a draft and what template is used
type OutreachConfig struct {
	Include      string  `yaml:"include" envconfig:"INCLUDE" validate:"required,oneof=needs_attention all below_threshold"`
	Threshold    float64 `yaml:"threshold" envconfig:"THRESHOLD"`
	Subject      string  `yaml:"subject" envconfig:"SUBJECT"`
	Template     string  `yaml:"template" envconfig:"TEMPLATE"`
	TemplateFile string  `yaml:"template_file" envconfig:"TEMPLATE_FILE"`
}

// OutputConfig contains output directory configuration
type OutputConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"required,oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"required,oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"required,oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Load builds the configuration in three layers: built-in defaults, an
// optional YAML file, then TF_* environment variables. The result is
// validated before anything else runs; an invalid score range or threshold
// table would make all per-row validation meaningless.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		if err := cfg.loadFromFile(configFile); err != nil {
			return nil, apperrors.ErrInvalidConfig.WithMessage("failed to load config from file %s", configFile).Wrap(err)
		}
	}

	if err := envconfig.Process("TF", cfg); err != nil {
		return nil, apperrors.ErrInvalidConfig.WithMessage("failed to load config from env").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.ErrInvalidConfig.WithMessage("config validation failed").Wrap(err)
	}

	return cfg, nil
}

// loadFromFile overlays configuration from a YAML file
func (c *Config) loadFromFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Validate checks structural constraints via validator tags plus the
// cross-field rules the tags cannot express
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Scores.Min >= c.Scores.Max {
		return fmt.Errorf("invalid score range: min %.2f must be below max %.2f", c.Scores.Min, c.Scores.Max)
	}
	if c.Buckets.NeedsAttentionBelow > c.Buckets.ExemplaryAbove {
		return fmt.Errorf("invalid bucket thresholds: needs_attention_below %.2f exceeds exemplary_above %.2f",
			c.Buckets.NeedsAttentionBelow, c.Buckets.ExemplaryAbove)
	}
	if c.Buckets.NeedsAttentionBelow < c.Scores.Min || c.Buckets.ExemplaryAbove > c.Scores.Max {
		return fmt.Errorf("bucket thresholds [%.2f, %.2f] outside score range [%.2f, %.2f]",
			c.Buckets.NeedsAttentionBelow, c.Buckets.ExemplaryAbove, c.Scores.Min, c.Scores.Max)
	}
	if c.Outreach.Include == "below_threshold" &&
		(c.Outreach.Threshold < c.Scores.Min || c.Outreach.Threshold > c.Scores.Max) {
		return fmt.Errorf("outreach threshold %.2f outside score range [%.2f, %.2f]",
			c.Outreach.Threshold, c.Scores.Min, c.Scores.Max)
	}
	if c.Sentiment.MinQuoteLength > c.Sentiment.MaxQuoteLength {
		return fmt.Errorf("sentiment quote lengths inverted: min %d > max %d",
			c.Sentiment.MinQuoteLength, c.Sentiment.MaxQuoteLength)
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q requires file_path", c.Logging.Output)
	}
	return nil
}

// OutreachTemplate returns the outreach template text, reading the template
// file when one is configured
func (c *Config) OutreachTemplate() (string, error) {
	if c.Outreach.TemplateFile != "" {
		data, err := os.ReadFile(c.Outreach.TemplateFile)
		if err != nil {
			return "", fmt.Errorf("failed to read outreach template: %w", err)
		}
		return string(data), nil
	}
	return c.Outreach.Template, nil
}

// findConfigFile returns the first config file found in common locations
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration matching the learner-feedback
// export this tool was built for
func Default() *Config {
	return &Config{
		Input: InputConfig{
			File:            "data/feedback.csv",
			TimestampLayout: "Jan 2, 2006 3:04 PM",
		},
		Scores: ScoreConfig{
			Min: 1,
			Max: 5,
		},
		Buckets: BucketConfig{
			NeedsAttentionBelow: 3.0,
			ExemplaryAbove:      4.0,
		},
		Columns: ColumnConfig{
			Trainer: []string{"Trainer", "Trainer Email", "trainer"},
			Scores: map[string][]string{
				"q1_3":    {"1.3"},
				"q1_4":    {"1.4"},
				"q2_8":    {"2.8"},
				"q2_9":    {"2.9"},
				"v1_q1_2": {"v1_1.2"},
				"v2_q1_1": {"v2_1.1"},
				"v2_q1_2": {"v2_1.2"},
			},
			Comments: map[string][]string{
				"q3_12": {"3.12"},
				"q3_13": {"3.13"},
			},
			Timestamp: []string{"Creation Date"},
		},
		Trend: TrendConfig{
			MinResponses: 3,
		},
		Sentiment: SentimentConfig{
			PositiveKeywords: []string{
				"excellent", "great", "love", "helpful", "enjoyed",
				"beneficial", "best", "appreciated", "wonderful",
				"positive", "fun", "engaging", "motivated", "patient",
				"clear", "friendly", "approachable", "flexible",
			},
			MinQuoteLength: 20,
			MaxQuoteLength: 200,
			MaxQuotes:      2,
		},
		Outreach: OutreachConfig{
			Include:   "needs_attention",
			Threshold: 3.0,
			Subject:   "Checking in on your recent training feedback, {first_name}",
			Template:  defaultOutreachTemplate,
		},
		Output: OutputConfig{
			Dir: "outputs",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
	}
}

const defaultOutreachTemplate = `Hi {first_name},

I have been reviewing our learner feedback and wanted to reach out about your recent sessions.

Across {response_count} responses your average score is {mean_score} out of {score_max}, which currently puts you in our "{bucket}" group. Here is one comment that stood out:

"{evidence_quote}"

We would love to set up a short chat to talk through what support would help most. Just reply to this email and we will find a time.

Thanks for everything you do for our learners!

Best,
{sender_name}`
