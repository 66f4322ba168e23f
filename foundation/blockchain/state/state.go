// Package state is the core API for the node and wires the ledger, the
// consensus rules, and the set of known peers together.
package state

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
)

// Set of values applied to the reward transaction added to every block
// this node mines.
const (
	MiningRewardSender        = "0"
	MiningReward       float64 = 1
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks and transactions.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and conflict resolution.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalResolve()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	NodeID      string
	Host        string
	KnownPeers  *peer.PeerSet
	ChainSource ChainSource
	Clock       ledger.Clock
	AutoMine    bool
	EvHandler   EventHandler
}

// State manages the ledger for this node.
type State struct {
	nodeID      string
	host        string
	autoMine    bool
	evHandler   EventHandler
	knownPeers  *peer.PeerSet
	chainSource ChainSource
	ledger      *ledger.Ledger

	// Mining derives from the epoch, which is canceled and replaced
	// every time the chain is swapped for a peer's chain.
	epochMu     sync.Mutex
	epoch       context.Context
	epochCancel context.CancelFunc

	Worker Worker
}

// New constructs a new node state with a chain holding the genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	chainSource := cfg.ChainSource
	if chainSource == nil {
		chainSource = NewHTTPChainSource(&http.Client{Timeout: 10 * time.Second})
	}

	var opts []ledger.Option
	if cfg.Clock != nil {
		opts = append(opts, ledger.WithClock(cfg.Clock))
	}

	epoch, epochCancel := context.WithCancel(context.Background())

	state := State{
		nodeID:      cfg.NodeID,
		host:        cfg.Host,
		autoMine:    cfg.AutoMine,
		evHandler:   ev,
		knownPeers:  knownPeers,
		chainSource: chainSource,
		ledger:      ledger.New(opts...),
		epoch:       epoch,
		epochCancel: epochCancel,
	}

	gen := state.ledger.LastBlock()
	ev("state: New: genesis: blk[%d]: hash[%s]", gen.Index, gen.Hash())

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: Shutdown: started")
	defer s.evHandler("state: Shutdown: completed")

	// Stop any mining that was started outside the worker.
	s.cancelMining()

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
