// Package ledger owns the chain of blocks and the pool of pending
// transactions. It is the only way to queue a transaction or seal a block.
package ledger

import (
	"errors"
	"sync"
	"time"
)

// ErrStaleTip is returned when a block is sealed against a last block that
// is no longer the last block of the chain.
var ErrStaleTip = errors.New("chain tip changed, block is stale")

// Clock provides the time a block is sealed.
type Clock func() time.Time

// Option configures a Ledger during construction.
type Option func(*Ledger)

// WithClock sets the clock used to timestamp new blocks.
func WithClock(clock Clock) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// =============================================================================

// Ledger manages the chain and the pending transactions. Every mutation of
// the chain or the pool happens under the same lock.
type Ledger struct {
	mu      sync.RWMutex
	chain   []Block
	pending []Tx
	clock   Clock
}

// New constructs a ledger with a chain holding only the genesis block.
func New(options ...Option) *Ledger {
	l := Ledger{
		clock: time.Now,
	}

	for _, option := range options {
		option(&l)
	}

	l.seal(GenesisProof, GenesisPreviousHash)

	return &l
}

// QueueTransaction adds the transaction to the pending pool. It returns the
// index of the block the transaction is expected to be sealed into.
func (l *Ledger) QueueTransaction(sender string, recipient string, amount float64) (uint64, error) {
	tx := NewTx(sender, recipient, amount)
	if err := tx.Validate(); err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = append(l.pending, tx)

	return uint64(len(l.chain)) + 1, nil
}

// SealBlock moves the pending transactions into a new block and appends the
// block to the chain. When previousHash is empty, the hash of the current
// last block is used. The proof is not verified here.
func (l *Ledger) SealBlock(proof uint64, previousHash string) Block {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.seal(proof, previousHash)
}

// SealOnTip seals a new block only if the hash of the current last block
// matches tipHash. The extra transactions are added to the pool right
// before sealing, which is how the mining reward gets into the block.
func (l *Ledger) SealOnTip(tipHash string, proof uint64, extra ...Tx) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, tx := range extra {
		if err := tx.Validate(); err != nil {
			return Block{}, err
		}
	}

	if Hash(l.lastBlock()) != tipHash {
		return Block{}, ErrStaleTip
	}

	l.pending = append(l.pending, extra...)

	return l.seal(proof, tipHash), nil
}

// ReplaceChain swaps the entire chain for the candidate if the candidate is
// still longer than the current chain. The pending pool is not touched.
func (l *Ledger) ReplaceChain(candidate []Block) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(candidate) <= len(l.chain) {
		return false
	}

	l.chain = copyBlocks(candidate)

	return true
}

// LastBlock returns a copy of the last block in the chain.
func (l *Ledger) LastBlock() Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return copyBlocks([]Block{l.lastBlock()})[0]
}

// Chain returns a copy of the current chain.
func (l *Ledger) Chain() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return copyBlocks(l.chain)
}

// Length returns the number of blocks in the chain.
func (l *Ledger) Length() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.chain)
}

// Pending returns a copy of the transactions waiting for the next block.
func (l *Ledger) Pending() []Tx {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]Tx{}, l.pending...)
}

// =============================================================================

// lastBlock returns the last block. The caller must hold the lock.
func (l *Ledger) lastBlock() Block {
	if len(l.chain) == 0 {
		panic("ledger: chain has no genesis block")
	}

	return l.chain[len(l.chain)-1]
}

// seal constructs the next block from the pool and appends it to the chain.
// The caller must hold the lock.
func (l *Ledger) seal(proof uint64, previousHash string) Block {
	if previousHash == "" {
		previousHash = Hash(l.lastBlock())
	}

	// The clock can step backwards, block times can't.
	ts := uint64(l.clock().UTC().UnixMilli())
	if n := len(l.chain); n > 0 && ts < l.chain[n-1].TimeStamp {
		ts = l.chain[n-1].TimeStamp
	}

	trans := l.pending
	if trans == nil {
		trans = []Tx{}
	}

	block := Block{
		Index:        uint64(len(l.chain)) + 1,
		TimeStamp:    ts,
		Transactions: trans,
		Proof:        proof,
		PreviousHash: previousHash,
	}

	l.pending = nil
	l.chain = append(l.chain, block)

	return copyBlocks([]Block{block})[0]
}
