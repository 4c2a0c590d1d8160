package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Engine != EngineLocal {
		t.Errorf("engine = %q, want local", cfg.Engine)
	}
	if cfg.SecurityBits != 96 {
		t.Errorf("security bits = %d, want 96", cfg.SecurityBits)
	}
	if cfg.Seed != 1337 {
		t.Errorf("seed = %d, want 1337", cfg.Seed)
	}
	if cfg.Output != OutputTable {
		t.Errorf("output = %q, want table", cfg.Output)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := writeFile(t, "zkbench.yaml", `
engine: exec
prover_binary: /opt/prover
prover_args: ["--gpu", "0"]
security_bits: 128
output: json
seed: 7
`)

	t.Setenv("ZKBENCH_SEED", "99")
	t.Setenv("ZKBENCH_IMAGE_DIR", "/images")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "table", "")
	flags.String("db-path", "zkbench.db", "")

	if err := flags.Parse([]string{"--output", "csv"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Engine != EngineExec || cfg.ProverBinary != "/opt/prover" {
		t.Errorf("engine = %q %q, want exec /opt/prover", cfg.Engine, cfg.ProverBinary)
	}
	if !slices.Equal(cfg.ProverArgs, []string{"--gpu", "0"}) {
		t.Errorf("prover args = %v", cfg.ProverArgs)
	}
	if cfg.SecurityBits != 128 {
		t.Errorf("security bits = %d, want 128 from file", cfg.SecurityBits)
	}
	if cfg.Seed != 99 {
		t.Errorf("seed = %d, want 99 from env", cfg.Seed)
	}
	if cfg.ImageDir != "/images" {
		t.Errorf("image dir = %q, want /images from env", cfg.ImageDir)
	}
	if cfg.Output != OutputCSV {
		t.Errorf("output = %q, want csv from flag", cfg.Output)
	}
	if cfg.DBPath != "zkbench.db" {
		t.Errorf("db path = %q, want default", cfg.DBPath)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown engine", "engine: gpu\n", "unknown engine"},
		{"exec without binary", "engine: exec\n", "requires prover_binary"},
		{"bad output", "output: xml\n", "unknown output"},
		{"bad security", "security_bits: 100\n", "security bits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "c.yaml", tt.content), nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
