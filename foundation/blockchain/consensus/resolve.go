package consensus

import (
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
)

// Candidate is a chain reported by a peer along with the length the peer
// claims for it.
type Candidate struct {
	Peer   string         `json:"-"`
	Length int            `json:"length"`
	Chain  []ledger.Block `json:"chain"`
}

// Validate checks the candidate is structurally a valid chain.
func (c Candidate) Validate() error {
	if c.Length != len(c.Chain) {
		return fmt.Errorf("peer[%s]: length[%d] blocks[%d]: %w", c.Peer, c.Length, len(c.Chain), ErrLengthMismatch)
	}

	if err := ValidateChain(c.Chain); err != nil {
		return fmt.Errorf("peer[%s]: %w", c.Peer, err)
	}

	return nil
}

// Resolution is the outcome of resolving conflicts. Chain is the winning
// candidate when Replaced is true, otherwise the local chain.
type Resolution struct {
	Replaced bool
	Chain    []ledger.Block
	Peer     string
}

// ResolveConflict applies the longest valid chain rule. The candidate with
// the greatest length that is strictly longer than the local chain and
// passes validation wins. Equal lengths never replace the local chain and
// nothing from the local chain is merged into the winner.
func ResolveConflict(local []ledger.Block, candidates []Candidate, ev EventHandler) Resolution {
	ev = safe(ev)

	ev("consensus: ResolveConflict: started: local[%d]: candidates[%d]", len(local), len(candidates))
	defer ev("consensus: ResolveConflict: completed")

	res := Resolution{
		Chain: local,
	}

	maxLength := len(local)
	for _, c := range candidates {
		if c.Length <= maxLength {
			ev("consensus: ResolveConflict: peer[%s]: length[%d]: not longer than [%d]", c.Peer, c.Length, maxLength)
			continue
		}

		if err := c.Validate(); err != nil {
			ev("consensus: ResolveConflict: peer[%s]: REJECTED: %s", c.Peer, err)
			continue
		}

		ev("consensus: ResolveConflict: peer[%s]: length[%d]: new longest chain", c.Peer, c.Length)

		maxLength = c.Length
		res = Resolution{
			Replaced: true,
			Chain:    c.Chain,
			Peer:     c.Peer,
		}
	}

	return res
}
