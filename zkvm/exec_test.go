package zkvm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
)

const helperEnv = "ZKBENCH_TEST_HELPER_PROVER"

func writeFile(path string, b []byte) error {
	return os.WriteFile(path, b, 0o644)
}

func testResolver(name string) (Entry, bool) {
	if name == "echo" {
		return echoEntry, true
	}

	return nil, false
}

// TestHelperProver is not a real test. It is the prover binary executed
// by the Exec tests.
func TestHelperProver(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		t.Skip("helper process")
	}

	command := os.Args[len(os.Args)-1]
	if err := Serve(context.Background(), NewLocal(nil), testResolver, command, os.Stdin, os.Stdout); err != nil {
		os.Stderr.WriteString(err.Error())
		os.Exit(1)
	}

	os.Exit(0)
}

func helperExec() *Exec {
	return NewExec(os.Args[0],
		[]string{"-test.run=TestHelperProver", "--"},
		[]string{helperEnv + "=1"},
		nil,
	)
}

func TestExecProveVerify(t *testing.T) {
	ctx := context.Background()
	engine := helperExec()
	prog := NewProgram("echo", nil, echoEntry)
	input := u32Input(11)

	receipt, err := engine.Prove(ctx, prog, input, DefaultProofOptions())
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	local, err := NewLocal(nil).Prove(ctx, prog, input, DefaultProofOptions())
	if err != nil {
		t.Fatalf("local Prove: %v", err)
	}

	if receipt.Seal != local.Seal || !bytes.Equal(receipt.Journal, local.Journal) {
		t.Error("exec receipt differs from local receipt")
	}

	if err := engine.Verify(ctx, prog, input, receipt); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	err = engine.Verify(ctx, prog, input, receipt.FlipJournalBit(3, 0))
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("Verify tampered error = %v, want ErrRejected", err)
	}
}

func TestExecGuestFailure(t *testing.T) {
	prog := NewProgram("echo", nil, echoEntry)

	_, err := helperExec().Prove(context.Background(), prog, u32Input(500), DefaultProofOptions())
	if !errors.Is(err, ErrProverFailed) {
		t.Fatalf("Prove error = %v, want ErrProverFailed", err)
	}
	if !strings.Contains(err.Error(), "assertion") {
		t.Errorf("error %q does not carry the guest failure", err)
	}
}

func TestExecUnknownProgram(t *testing.T) {
	prog := NewProgram("missing", nil, echoEntry)

	_, err := helperExec().Prove(context.Background(), prog, nil, DefaultProofOptions())
	if !errors.Is(err, ErrProverFailed) {
		t.Fatalf("Prove error = %v, want ErrProverFailed", err)
	}
}

func TestServeRejectsMethodMismatch(t *testing.T) {
	req, err := json.Marshal(ProveRequest{
		Program:      "echo",
		MethodID:     ComputeMethodID("other", nil).String(),
		Input:        u32Input(1),
		SecurityBits: 96,
	})
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer

	err = Serve(context.Background(), NewLocal(nil), testResolver, CommandProve, bytes.NewReader(req), &out)
	if !errors.Is(err, ErrMethodMismatch) || !errors.Is(err, ErrMalformedRequest) {
		t.Fatalf("Serve error = %v, want method mismatch", err)
	}
}

func TestServeUnknownCommand(t *testing.T) {
	err := Serve(context.Background(), NewLocal(nil), testResolver, "bogus", strings.NewReader("{}"), &bytes.Buffer{})
	if !errors.Is(err, ErrMalformedRequest) {
		t.Fatalf("Serve error = %v, want ErrMalformedRequest", err)
	}
}
