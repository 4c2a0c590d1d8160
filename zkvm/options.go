package zkvm

import "fmt"

// ProofOptions selects prover parameters.
type ProofOptions struct {
	SecurityBits int `json:"security_bits"`
}

// DefaultProofOptions returns 96 bits of security.
func DefaultProofOptions() ProofOptions {
	return ProofOptions{SecurityBits: 96}
}

// Validate reports unsupported option values.
func (o ProofOptions) Validate() error {
	switch o.SecurityBits {
	case 96, 128:
		return nil
	default:
		return fmt.Errorf("%w: security bits %d, want 96 or 128",
			ErrInvalidOptions, o.SecurityBits)
	}
}
