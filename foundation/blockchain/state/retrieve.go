package state

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveNodeID returns the identifier credited with mining rewards.
func (s *State) RetrieveNodeID() string {
	return s.nodeID
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() ledger.Block {
	return s.ledger.LastBlock()
}

// RetrieveChain returns a copy of the full chain.
func (s *State) RetrieveChain() []ledger.Block {
	return s.ledger.Chain()
}

// RetrievePending returns a copy of the pending transactions.
func (s *State) RetrievePending() []ledger.Tx {
	return s.ledger.Pending()
}

// QueryPendingLength returns the current length of the pending pool.
func (s *State) QueryPendingLength() int {
	return len(s.ledger.Pending())
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}
