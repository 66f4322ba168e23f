package consensus

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
)

// Set of errors describing why a chain is invalid. They all match
// ErrInvalidChain with errors.Is.
var (
	ErrInvalidChain   = errors.New("invalid chain")
	ErrBrokenLink     = fmt.Errorf("%w: previous hash does not match parent block", ErrInvalidChain)
	ErrInvalidProof   = fmt.Errorf("%w: proof does not solve the puzzle", ErrInvalidChain)
	ErrLengthMismatch = fmt.Errorf("%w: reported length does not match blocks", ErrInvalidChain)
)

// IsChainValid reports if every adjacent pair of blocks in the chain is
// linked by hash and by proof. Empty and genesis only chains are valid.
func IsChainValid(chain []ledger.Block) bool {
	return ValidateChain(chain) == nil
}

// ValidateChain walks the chain from the second block and returns an error
// for the first pair that is not linked. The genesis block is trusted, its
// previous hash is a marker and is never compared.
func ValidateChain(chain []ledger.Block) error {
	for i := 1; i < len(chain); i++ {
		prev := chain[i-1]
		block := chain[i]

		hash, err := ledger.ComputeHash(prev)
		if err != nil || hash == "" {
			return fmt.Errorf("blk[%d]: parent can't be hashed: %v: %w", block.Index, err, ErrBrokenLink)
		}

		if block.PreviousHash != hash {
			return fmt.Errorf("blk[%d]: got %s, exp %s: %w", block.Index, block.PreviousHash, hash, ErrBrokenLink)
		}

		if !ValidProof(prev.Proof, block.Proof) {
			return fmt.Errorf("blk[%d]: lastProof[%d] proof[%d]: %w", block.Index, prev.Proof, block.Proof, ErrInvalidProof)
		}
	}

	return nil
}
