package state

import (
	"context"
	"errors"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/consensus"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
)

// ErrChainReplaced is returned when mining is abandoned because the chain was
// replaced by a peer's chain while the proof was being searched.
var ErrChainReplaced = errors.New("chain replaced while mining")

// MineNewBlock performs the proof of work against the current last block and
// seals the pending transactions, plus the mining reward, into a new block.
// The work is done without holding any lock. If the chain is replaced while
// the work is being done, the work is canceled and ErrChainReplaced is
// returned. If another block was sealed in the meantime, ledger.ErrStaleTip
// is returned.
func (s *State) MineNewBlock(ctx context.Context) (ledger.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	ctx, cancel := s.miningContext(ctx)
	defer cancel()

	last := s.ledger.LastBlock()
	tip := last.Hash()

	s.evHandler("state: MineNewBlock: MINING: perform POW: blk[%d]: tip[%s]", last.Index+1, tip)

	t := time.Now()
	proof, err := consensus.ProofOfWork(ctx, last.Proof, consensus.EventHandler(s.evHandler))
	if err != nil {
		return ledger.Block{}, miningErr(ctx, err)
	}

	s.evHandler("state: MineNewBlock: MINING: proof[%d]: duration[%v]", proof, time.Since(t))

	// Just check one more time we were not cancelled.
	if err := ctx.Err(); err != nil {
		return ledger.Block{}, miningErr(ctx, err)
	}

	reward := ledger.NewTx(MiningRewardSender, s.nodeID, MiningReward)

	block, err := s.ledger.SealOnTip(tip, proof, reward)
	if err != nil {
		s.evHandler("state: MineNewBlock: MINING: WARNING: %s", err)
		return ledger.Block{}, err
	}

	s.evHandler("viewer: block: blk[%d]: hash[%s]: trans[%d]", block.Index, block.Hash(), len(block.Transactions))

	return block, nil
}

// =============================================================================

// miningContext returns a context that is canceled when the provided context
// is canceled or when the chain is replaced.
func (s *State) miningContext(ctx context.Context) (context.Context, context.CancelFunc) {
	s.epochMu.Lock()
	epoch := s.epoch
	s.epochMu.Unlock()

	ctx, cancel := context.WithCancelCause(ctx)
	stop := context.AfterFunc(epoch, func() { cancel(ErrChainReplaced) })

	return ctx, func() {
		stop()
		cancel(context.Canceled)
	}
}

// miningErr reports ErrChainReplaced when the epoch ended the work,
// otherwise the error from the caller's context.
func miningErr(ctx context.Context, err error) error {
	if errors.Is(context.Cause(ctx), ErrChainReplaced) {
		return ErrChainReplaced
	}
	return err
}

// cancelMining cancels all in-flight mining and starts a new epoch.
func (s *State) cancelMining() {
	s.epochMu.Lock()
	defer s.epochMu.Unlock()

	s.evHandler("state: cancelMining: MINING: CANCEL: signaled")

	s.epochCancel()
	s.epoch, s.epochCancel = context.WithCancel(context.Background())
}
