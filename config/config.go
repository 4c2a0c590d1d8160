// Package config loads zkbench settings from defaults, an optional config
// file, a .env file, ZKBENCH_* environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/weiihann/zkbench/zkvm"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "ZKBENCH"

// Engine names.
const (
	EngineLocal = "local"
	EngineExec  = "exec"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputCSV   = "csv"
	OutputProm  = "prometheus"
)

// Config keys.
const (
	KeyEngine       = "engine"
	KeyProverBinary = "prover_binary"
	KeyProverArgs   = "prover_args"
	KeyImageDir     = "image_dir"
	KeySecurityBits = "security_bits"
	KeySeed         = "seed"
	KeyDBPath       = "db_path"
	KeyOutput       = "output"
	KeyPromFile     = "prom_file"
	KeyPlan         = "plan"
	KeyLogLevel     = "log_level"
)

var keys = []string{
	KeyEngine, KeyProverBinary, KeyProverArgs, KeyImageDir, KeySecurityBits,
	KeySeed, KeyDBPath, KeyOutput, KeyPromFile, KeyPlan, KeyLogLevel,
}

// Config holds resolved settings.
type Config struct {
	Engine       string
	ProverBinary string
	ProverArgs   []string
	ImageDir     string
	SecurityBits int
	Seed         int64
	DBPath       string
	Output       string
	PromFile     string
	Plan         string
	LogLevel     string
}

// Load resolves the configuration. path names an optional config file
// (YAML, TOML or JSON by extension). Flags whose names match a key with
// dashes for underscores override every other source when set.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault(KeyEngine, EngineLocal)
	v.SetDefault(KeySecurityBits, zkvm.DefaultProofOptions().SecurityBits)
	v.SetDefault(KeySeed, 1337)
	v.SetDefault(KeyDBPath, "zkbench.db")
	v.SetDefault(KeyOutput, OutputTable)
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for _, key := range keys {
			f := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
			if f == nil {
				continue
			}

			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", f.Name, err)
			}
		}
	}

	cfg := &Config{
		Engine:       v.GetString(KeyEngine),
		ProverBinary: v.GetString(KeyProverBinary),
		ProverArgs:   v.GetStringSlice(KeyProverArgs),
		ImageDir:     v.GetString(KeyImageDir),
		SecurityBits: v.GetInt(KeySecurityBits),
		Seed:         v.GetInt64(KeySeed),
		DBPath:       v.GetString(KeyDBPath),
		Output:       v.GetString(KeyOutput),
		PromFile:     v.GetString(KeyPromFile),
		Plan:         v.GetString(KeyPlan),
		LogLevel:     v.GetString(KeyLogLevel),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports inconsistent settings.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains([]string{EngineLocal, EngineExec}, c.Engine) {
		errs = append(errs, fmt.Errorf("unknown engine %q, want %s or %s", c.Engine, EngineLocal, EngineExec))
	}

	if c.Engine == EngineExec && c.ProverBinary == "" {
		errs = append(errs, errors.New("engine exec requires prover_binary"))
	}

	if !slices.Contains([]string{OutputTable, OutputJSON, OutputCSV, OutputProm}, c.Output) {
		errs = append(errs, fmt.Errorf("unknown output %q, want table, json, csv or prometheus", c.Output))
	}

	if err := c.ProofOptions().Validate(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// ProofOptions returns the prover options selected by c.
func (c *Config) ProofOptions() zkvm.ProofOptions {
	return zkvm.ProofOptions{SecurityBits: c.SecurityBits}
}
