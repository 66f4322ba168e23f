package private

import "github.com/ardanlabs/powchain/foundation/blockchain/ledger"

type nodes struct {
	Nodes []string `json:"nodes" validate:"required,min=1"`
}

type registered struct {
	Message    string `json:"message"`
	TotalNodes int    `json:"total_nodes"`
}

type replaced struct {
	Message  string         `json:"message"`
	NewChain []ledger.Block `json:"new_chain"`
}

type authoritative struct {
	Message string         `json:"message"`
	Chain   []ledger.Block `json:"chain"`
}

type chain struct {
	Chain  []ledger.Block `json:"chain"`
	Length int            `json:"length"`
}

type peers struct {
	Nodes []string `json:"nodes"`
}
