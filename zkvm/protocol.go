package zkvm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Prover commands passed as the last argument of the prover binary.
const (
	CommandProve  = "prove"
	CommandVerify = "verify"
)

// ProveRequest is written to the prover's stdin for CommandProve.
type ProveRequest struct {
	Program      string `json:"program"`
	MethodID     string `json:"method_id"`
	Image        []byte `json:"image,omitempty"`
	Input        []byte `json:"input"`
	SecurityBits int    `json:"security_bits"`
}

// ProveResponse is read from the prover's stdout for CommandProve.
type ProveResponse struct {
	Journal []byte `json:"journal,omitempty"`
	Seal    []byte `json:"seal,omitempty"`
	Error   string `json:"error,omitempty"`
}

// VerifyRequest is written to the prover's stdin for CommandVerify.
type VerifyRequest struct {
	ProveRequest
	Journal []byte `json:"journal"`
	Seal    []byte `json:"seal"`
}

// VerifyResponse is read from the prover's stdout for CommandVerify.
type VerifyResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ErrMalformedRequest is returned by Serve for requests it cannot act on.
var ErrMalformedRequest = errors.New("malformed prover request")

// Serve answers one prover command: it decodes the request from r, runs it
// against engine and writes the response to w. Prove and verify failures
// are reported in the response; only undecodable or unresolvable requests
// return an error.
func Serve(
	ctx context.Context,
	engine Engine,
	resolve Resolver,
	command string,
	r io.Reader,
	w io.Writer,
) error {
	switch command {
	case CommandProve:
		var req ProveRequest
		if err := json.NewDecoder(r).Decode(&req); err != nil {
			return fmt.Errorf("%w: decode prove request: %w", ErrMalformedRequest, err)
		}

		prog, err := resolveProgram(resolve, req)
		if err != nil {
			return err
		}

		var resp ProveResponse

		receipt, err := engine.Prove(ctx, prog, req.Input, ProofOptions{SecurityBits: req.SecurityBits})
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Journal = receipt.Journal
			resp.Seal, _ = receipt.Seal.MarshalBinary()
		}

		return json.NewEncoder(w).Encode(resp)

	case CommandVerify:
		var req VerifyRequest
		if err := json.NewDecoder(r).Decode(&req); err != nil {
			return fmt.Errorf("%w: decode verify request: %w", ErrMalformedRequest, err)
		}

		prog, err := resolveProgram(resolve, req.ProveRequest)
		if err != nil {
			return err
		}

		var resp VerifyResponse

		receipt := &Receipt{Journal: req.Journal}
		if err := receipt.Seal.UnmarshalBinary(req.Seal); err != nil {
			resp.Error = err.Error()
		} else if err := engine.Verify(ctx, prog, req.Input, receipt); err != nil {
			resp.Error = err.Error()
		} else {
			resp.Valid = true
		}

		return json.NewEncoder(w).Encode(resp)

	default:
		return fmt.Errorf("%w: unknown command %q", ErrMalformedRequest, command)
	}
}

// resolveProgram finds the entry for req and checks that the caller's
// method ID matches the one derived from the program name and image.
func resolveProgram(resolve Resolver, req ProveRequest) (*Program, error) {
	entry, ok := resolve(req.Program)
	if !ok {
		return nil, fmt.Errorf("%w: unknown program %q", ErrMalformedRequest, req.Program)
	}

	prog := NewProgram(req.Program, req.Image, entry)

	if req.MethodID != "" {
		id, err := ParseMethodID(req.MethodID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
		}
		if id != prog.MethodID() {
			return nil, fmt.Errorf("%w: %w: request %s, computed %s",
				ErrMalformedRequest, ErrMethodMismatch, id, prog.MethodID())
		}
	}

	return prog, nil
}
