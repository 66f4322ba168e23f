package ledger

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Genesis values. The previous hash of the genesis block is a marker and not
// a real hash, so it can never be mistaken for the output of Hash.
const (
	GenesisProof        uint64 = 100
	GenesisPreviousHash string = "1"
)

// =============================================================================

// Block represents a group of transactions batched together and bound to the
// previous block by its hash and proof.
type Block struct {
	Index        uint64 `json:"index"`         // Position of the block in the chain, starting at 1.
	TimeStamp    uint64 `json:"timestamp"`     // Time the block was sealed in unix milliseconds.
	Transactions []Tx   `json:"transactions"`  // Pending transactions at the time the block was sealed.
	Proof        uint64 `json:"proof"`         // Value solving the puzzle against the previous proof.
	PreviousHash string `json:"previous_hash"` // Hash of the previous block.
}

// IsGenesis reports if this is the first block of a chain.
func (b Block) IsGenesis() bool {
	return b.Index == 1 && b.PreviousHash == GenesisPreviousHash
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() string {
	return Hash(b)
}

// Hash produces the SHA-256 digest of the canonical form of the block. The
// canonical form is JSON with every object's keys sorted, so the digest does
// not depend on the order fields were produced in. Hash panics if the block
// can't be serialized, the ledger never holds such a block.
func Hash(b Block) string {
	hash, err := ComputeHash(b)
	if err != nil {
		panic(fmt.Sprintf("ledger: hash blk[%d]: %s", b.Index, err))
	}

	return hash
}

// ComputeHash is Hash for blocks that did not come from a ledger, such as a
// peer's chain. It returns the serialization error instead of panicking.
func ComputeHash(b Block) (string, error) {
	data, err := Canonical(b)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:]), nil
}

// Canonical returns the serialization of the block used for hashing. It is
// not used for display or transport.
func Canonical(b Block) ([]byte, error) {
	trans := make([]map[string]any, len(b.Transactions))
	for i, tx := range b.Transactions {
		trans[i] = tx.canonical()
	}

	// The json package emits map keys in sorted order.
	m := map[string]any{
		"index":         b.Index,
		"timestamp":     b.TimeStamp,
		"transactions":  trans,
		"proof":         b.Proof,
		"previous_hash": b.PreviousHash,
	}

	return json.Marshal(m)
}

// copyBlocks returns a copy of the chain so callers can't modify the
// transactions slice of a block owned by the ledger.
func copyBlocks(blocks []Block) []Block {
	cpy := make([]Block, len(blocks))
	for i, b := range blocks {
		cpy[i] = b
		cpy[i].Transactions = append([]Tx{}, b.Transactions...)
	}
	return cpy
}
