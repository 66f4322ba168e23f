package state

import (
	"context"

	"github.com/ardanlabs/powchain/foundation/blockchain/consensus"
)

// ResolveConflicts asks every known peer for its chain and replaces the local
// chain with the longest valid one, if it is longer than the local chain.
// Peers that can't be reached are skipped. The peers are queried without
// holding the ledger lock, only the final swap is exclusive.
func (s *State) ResolveConflicts(ctx context.Context) (bool, error) {
	s.evHandler("state: ResolveConflicts: started")
	defer s.evHandler("state: ResolveConflicts: completed")

	var candidates []consensus.Candidate
	for _, pr := range s.RetrieveKnownPeers() {
		c, err := s.chainSource.FetchChain(ctx, pr)
		if err != nil {
			s.evHandler("state: ResolveConflicts: FetchChain: %s: ERROR: %s", pr.Host, err)
			continue
		}

		s.evHandler("state: ResolveConflicts: FetchChain: %s: length[%d]", pr.Host, c.Length)
		candidates = append(candidates, c)
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}

	res := consensus.ResolveConflict(s.ledger.Chain(), candidates, consensus.EventHandler(s.evHandler))
	if !res.Replaced {
		s.evHandler("state: ResolveConflicts: local chain is authoritative")
		return false, nil
	}

	// The local chain could have grown while the peers were queried.
	if !s.ledger.ReplaceChain(res.Chain) {
		s.evHandler("state: ResolveConflicts: local chain grew, peer[%s] chain no longer longer", res.Peer)
		return false, nil
	}

	s.cancelMining()

	s.evHandler("viewer: chain replaced: peer[%s]: length[%d]", res.Peer, len(res.Chain))

	return true, nil
}
