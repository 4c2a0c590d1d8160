package zkvm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Exec drives an external prover binary. Each call runs
// Binary [ExtraArgs...] <command> with a JSON request on stdin and reads a
// JSON response from stdout.
type Exec struct {
	Binary    string
	ExtraArgs []string
	Env       []string
	Logger    *slog.Logger
}

// NewExec creates an Exec engine. For provers that need a wrapper (for
// example an interpreter), pass the wrapper as binary and the script in
// extraArgs. Env is appended to the inherited environment.
func NewExec(binary string, extraArgs, env []string, logger *slog.Logger) *Exec {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Exec{
		Binary:    binary,
		ExtraArgs: extraArgs,
		Env:       env,
		Logger:    logger.With(slog.String("prover", binary)),
	}
}

// Prove asks the prover to execute and seal prog on input.
func (e *Exec) Prove(ctx context.Context, prog *Program, input []byte, opts ProofOptions) (*Receipt, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	req := ProveRequest{
		Program:      prog.Name,
		MethodID:     prog.MethodID().String(),
		Image:        prog.Image,
		Input:        input,
		SecurityBits: opts.SecurityBits,
	}

	var resp ProveResponse
	if err := e.call(ctx, CommandProve, req, &resp); err != nil {
		return nil, err
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProverFailed, resp.Error)
	}

	receipt := &Receipt{Journal: resp.Journal}
	if err := receipt.Seal.UnmarshalBinary(resp.Seal); err != nil {
		return nil, fmt.Errorf("prove %s: %w", prog.Name, err)
	}

	return receipt, nil
}

// Verify asks the prover whether receipt attests to prog on input.
func (e *Exec) Verify(ctx context.Context, prog *Program, input []byte, receipt *Receipt) error {
	if receipt == nil {
		return fmt.Errorf("%w: nil receipt", ErrInvalidReceipt)
	}

	seal, err := receipt.Seal.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode seal: %w", err)
	}

	req := VerifyRequest{
		ProveRequest: ProveRequest{
			Program:      prog.Name,
			MethodID:     prog.MethodID().String(),
			Image:        prog.Image,
			Input:        input,
			SecurityBits: int(receipt.Seal.SecurityBits),
		},
		Journal: receipt.Journal,
		Seal:    seal,
	}

	var resp VerifyResponse
	if err := e.call(ctx, CommandVerify, req, &resp); err != nil {
		return err
	}

	if !resp.Valid {
		return fmt.Errorf("%w: %s", ErrRejected, resp.Error)
	}

	return nil
}

func (e *Exec) call(ctx context.Context, command string, req, resp any) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", command, err)
	}

	args := make([]string, 0, len(e.ExtraArgs)+1)
	args = append(args, e.ExtraArgs...)
	args = append(args, command)

	cmd := exec.CommandContext(ctx, e.Binary, args...)

	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}

	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.Logger.DebugContext(ctx, "starting prover", slog.String("command", command))

	start := time.Now()

	if err := cmd.Run(); err != nil {
		return fmt.Errorf(
			"%w: %s %s: %w\nstderr: %s",
			ErrProverFailed, e.Binary, command, err, stderr.String(),
		)
	}

	e.Logger.DebugContext(ctx, "prover finished",
		slog.String("command", command),
		slog.Duration("wall_time", time.Since(start)),
	)

	if err := json.NewDecoder(&stdout).Decode(resp); err != nil {
		return fmt.Errorf("decode %s response: %w\nstdout: %s", command, err, stdout.String())
	}

	return nil
}
