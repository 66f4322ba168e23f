package state

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
)

// RegisterPeers parses the addresses and adds them to the set of known peers.
// No peer is added if any address is invalid. It returns the number of
// known peers.
func (s *State) RegisterPeers(addresses []string) (int, error) {
	peers := make([]peer.Peer, 0, len(addresses))
	for _, address := range addresses {
		pr, err := peer.ParseAddress(address)
		if err != nil {
			return 0, err
		}
		peers = append(peers, pr)
	}

	var added bool
	for _, pr := range peers {
		if s.AddKnownPeer(pr) {
			s.evHandler("state: RegisterPeers: adding peer-node %s", pr)
			added = true
		}
	}

	// A new peer may hold a longer chain.
	if added && s.Worker != nil {
		s.Worker.SignalResolve()
	}

	return s.knownPeers.Len(), nil
}

// AddKnownPeer provides the ability to add a new peer to
// the known peer list. This node's own host is never added.
func (s *State) AddKnownPeer(pr peer.Peer) bool {
	if pr.Match(s.host) {
		return false
	}

	return s.knownPeers.Add(pr)
}
