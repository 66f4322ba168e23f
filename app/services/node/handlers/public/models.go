package public

import "github.com/ardanlabs/powchain/foundation/blockchain/ledger"

// newTx is the payload for a new transaction. The fields are pointers so
// a zero amount or an empty name still counts as present.
type newTx struct {
	Sender    *string  `json:"sender" validate:"required"`
	Recipient *string  `json:"recipient" validate:"required"`
	Amount    *float64 `json:"amount" validate:"required"`
}

type txAdded struct {
	Message string `json:"message"`
	Index   uint64 `json:"index"`
}

type forged struct {
	Message      string      `json:"message"`
	Index        uint64      `json:"index"`
	Transactions []ledger.Tx `json:"transactions"`
	Proof        uint64      `json:"proof"`
	PreviousHash string      `json:"previous_hash"`
}

type chain struct {
	Chain  []ledger.Block `json:"chain"`
	Length int            `json:"length"`
}

type pending struct {
	Transactions []ledger.Tx `json:"transactions"`
	Length       int         `json:"length"`
}
