package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"

	"automata/internal/logutil"
)

// Config is the configuration of the automata tool.
type Config struct {
	Log    logutil.LogConfig `toml:"log" json:"log"`
	Search Search            `toml:"search" json:"search"`
	Draw   Draw              `toml:"draw" json:"draw"`
}

// Search is the search section of the config. The step budget of the
// breadth-first searches is factor*len(input)+offset.
type Search struct {
	MaxStepsFactor int `toml:"max-steps-factor" json:"max-steps-factor"`
	MaxStepsOffset int `toml:"max-steps-offset" json:"max-steps-offset"`
}

// Draw is the draw section of the config.
type Draw struct {
	OutputDir string `toml:"output-dir" json:"output-dir"`
	// Image format passed to dot, e.g. png or svg. Empty writes only .dot files.
	Format    string `toml:"format" json:"format"`
	DotBinary string `toml:"dot-binary" json:"dot-binary"`
}

func Default() *Config {
	return &Config{
		Log: logutil.LogConfig{
			Level:  logutil.DefaultLogLevel,
			Format: logutil.DefaultLogFormat,
		},
		Search: Search{
			MaxStepsFactor: 3,
			MaxStepsOffset: 10,
		},
		Draw: Draw{
			OutputDir: "outputs",
			Format:    "",
			DotBinary: "dot",
		},
	}
}

// Load reads a TOML file on top of the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Annotatef(err, "load config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("config %s contains unknown keys: %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Search.MaxStepsFactor < 0 || c.Search.MaxStepsOffset < 0 {
		return errors.Errorf("search budget must not be negative, got factor=%d offset=%d",
			c.Search.MaxStepsFactor, c.Search.MaxStepsOffset)
	}
	if c.Search.MaxStepsFactor == 0 && c.Search.MaxStepsOffset == 0 {
		return errors.New("search budget is zero")
	}
	if c.Draw.OutputDir == "" {
		return errors.New("draw.output-dir is empty")
	}
	return nil
}

// MaxSteps returns the step budget for an input of length n.
func (s Search) MaxSteps(n int) int {
	return s.MaxStepsFactor*n + s.MaxStepsOffset
}
