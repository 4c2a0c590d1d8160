package zkvm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// ProverPackage is the import path, relative to the module root, of the
// bundled out-of-process prover.
const ProverPackage = "./cmd/zkprover"

// ResolveProver returns the default binary path of the bundled prover
// under binDir.
func ResolveProver(binDir string) string {
	return filepath.Join(binDir, "zkprover")
}

// BuildProver compiles the bundled prover from the module rooted at srcDir
// into binPath. Compiler output goes to stderr.
func BuildProver(
	ctx context.Context,
	logger *slog.Logger,
	srcDir string,
	binPath string,
) (string, error) {
	absBin, err := filepath.Abs(binPath)
	if err != nil {
		return "", fmt.Errorf("build prover: %w", err)
	}

	logger.InfoContext(ctx, "building prover",
		slog.String("source_dir", srcDir),
		slog.String("binary", absBin),
	)

	cmd := exec.CommandContext(ctx, "go", "build", "-o", absBin, ProverPackage)
	cmd.Dir = srcDir
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("build prover: %w", err)
	}

	if _, err := os.Stat(absBin); err != nil {
		return "", fmt.Errorf("build prover: binary not found at %s", absBin)
	}

	logger.InfoContext(ctx, "prover built", slog.String("binary", absBin))

	return absBin, nil
}
