package guests

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"slices"
	"testing"

	"github.com/weiihann/zkbench/tip5"
	"github.com/weiihann/zkbench/zkvm"
	"golang.org/x/crypto/blake2s"
)

func prove(t *testing.T, name string, input []byte) (*zkvm.Receipt, error) {
	t.Helper()

	entry, ok := Lookup(name)
	if !ok {
		t.Fatalf("program %s not registered", name)
	}

	prog := zkvm.NewProgram(name, nil, entry)

	return zkvm.NewLocal(nil).Prove(context.Background(), prog, input, zkvm.DefaultProofOptions())
}

func TestNames(t *testing.T) {
	want := []string{BigSHA2, IterBlake2s, IterSHA2, IterTip5, MerklePath}
	if got := Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}

	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup of unknown program succeeded")
	}
}

func TestIterHashes(t *testing.T) {
	var seed [SeedLen]byte

	tests := []struct {
		name string
		hash func([]byte) [32]byte
	}{
		{IterSHA2, sha256.Sum256},
		{IterBlake2s, blake2s.Sum256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.hash(seed[:])
			for i := 1; i < 5; i++ {
				want = tt.hash(want[:])
			}

			receipt, err := prove(t, tt.name, IterInput(5, seed))
			if err != nil {
				t.Fatalf("prove: %v", err)
			}

			if !bytes.Equal(receipt.Journal, want[:]) {
				t.Errorf("journal = %x, want %x", receipt.Journal, want)
			}
		})
	}
}

func TestIterHashZeroIterations(t *testing.T) {
	_, err := prove(t, IterSHA2, IterInput(0, [SeedLen]byte{}))
	if !errors.Is(err, zkvm.ErrAssertion) {
		t.Fatalf("error = %v, want ErrAssertion", err)
	}
}

func TestBigSHA2(t *testing.T) {
	words := []uint32{1, 2, 3, 0xdeadbeef}

	receipt, err := prove(t, BigSHA2, WordsInput(words))
	if err != nil {
		t.Fatalf("prove: %v", err)
	}

	want := sha256.Sum256(WordsBytes(words))
	if !bytes.Equal(receipt.Journal, want[:]) {
		t.Errorf("journal = %x, want %x", receipt.Journal, want)
	}
}

func TestIterTip5(t *testing.T) {
	in := binary.LittleEndian.AppendUint32(nil, 7)

	receipt, err := prove(t, IterTip5, in)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}

	want := tip5.Bytes(tip5.Chain(7))
	if !bytes.Equal(receipt.Journal, want) {
		t.Errorf("journal = %x, want %x", receipt.Journal, want)
	}
}

func TestMerklePath(t *testing.T) {
	const depth = 4

	tree, err := tip5.NewTree(depth, tip5.Leaf)
	if err != nil {
		t.Fatal(err)
	}

	paths := make([][]tip5.Digest, 0, 3)
	for i := uint64(5); i < 8; i++ {
		p, err := tree.Path(i)
		if err != nil {
			t.Fatal(err)
		}

		paths = append(paths, p)
	}

	receipt, err := prove(t, MerklePath, MerkleInput(depth, 5, tree.Root(), paths))
	if err != nil {
		t.Fatalf("prove: %v", err)
	}

	if !bytes.Equal(receipt.Journal, tip5.Bytes(tree.Root())) {
		t.Error("journal does not hold the root")
	}

	_, err = prove(t, MerklePath, MerkleInput(depth, 5, tip5.Leaf(1), paths))
	if !errors.Is(err, zkvm.ErrAssertion) {
		t.Errorf("wrong root error = %v, want ErrAssertion", err)
	}

	_, err = prove(t, MerklePath, MerkleInput(depth, 15, tree.Root(), paths))
	if !errors.Is(err, zkvm.ErrAssertion) {
		t.Errorf("index past the tree error = %v, want ErrAssertion", err)
	}
}

func TestMerklePathTruncatedAdvice(t *testing.T) {
	in := MerkleInput(4, 0, tip5.Zero(), nil)
	binary.LittleEndian.PutUint32(in[12:], 1)

	_, err := prove(t, MerklePath, in)
	if !errors.Is(err, zkvm.ErrInputExhausted) {
		t.Fatalf("error = %v, want ErrInputExhausted", err)
	}
}

func TestMerklePathRequiresLeaves(t *testing.T) {
	tree, err := tip5.NewTree(3, tip5.Leaf)
	if err != nil {
		t.Fatal(err)
	}

	for _, root := range []tip5.Digest{tree.Root(), tip5.Leaf(99)} {
		_, err := prove(t, MerklePath, MerkleInput(3, 1000, root, nil))
		if !errors.Is(err, zkvm.ErrAssertion) {
			t.Errorf("empty leaf run error = %v, want ErrAssertion", err)
		}
	}
}
