package ledger

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidAmount is returned for an amount that has no JSON form, NaN or
// an infinity, and so could never be hashed.
var ErrInvalidAmount = errors.New("amount must be a finite number")

// Tx is the transactional information between two parties. No signature or
// balance rules are applied to a transaction, the amount can be any finite value.
type Tx struct {
	Sender    string  `json:"sender"`    // Identifier of the party sending value.
	Recipient string  `json:"recipient"` // Identifier of the party receiving value.
	Amount    float64 `json:"amount"`    // Value moved between the parties.
}

// NewTx constructs a new transaction.
func NewTx(sender string, recipient string, amount float64) Tx {
	return Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
	}
}

// Validate checks the transaction can be sealed into a block.
func (tx Tx) Validate() error {
	if math.IsNaN(tx.Amount) || math.IsInf(tx.Amount, 0) {
		return fmt.Errorf("tx[%s->%s]: %w", tx.Sender, tx.Recipient, ErrInvalidAmount)
	}
	return nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%v", tx.Sender, tx.Recipient, tx.Amount)
}

// canonical returns the map form of the transaction used for hashing.
func (tx Tx) canonical() map[string]any {
	return map[string]any{
		"sender":    tx.Sender,
		"recipient": tx.Recipient,
		"amount":    tx.Amount,
	}
}
