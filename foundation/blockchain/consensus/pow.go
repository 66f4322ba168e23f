// Package consensus implements the proof of work puzzle, the validity rules
// for a chain, and the longest valid chain rule used to resolve forks.
package consensus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Difficulty is the number of leading hex zeros a proof's hash must have.
// It never adjusts.
const Difficulty = 4

// checkInterval is how many attempts are made between checks for a
// canceled context.
const checkInterval = 1 << 10

// EventHandler defines a function that is called when events occur while
// mining or resolving chains.
type EventHandler func(v string, args ...any)

// =============================================================================

// ProofOfWork searches for the smallest proof, starting at zero, that
// solves the puzzle against lastProof. The search is unbounded and stops
// early only when the context is canceled.
func ProofOfWork(ctx context.Context, lastProof uint64, ev EventHandler) (uint64, error) {
	ev = safe(ev)

	ev("consensus: ProofOfWork: MINING: started: lastProof[%d]", lastProof)
	defer ev("consensus: ProofOfWork: MINING: completed")

	for proof := uint64(0); ; proof++ {
		if proof%checkInterval == 0 {
			if proof > 0 && proof%(checkInterval*1024) == 0 {
				ev("consensus: ProofOfWork: MINING: attempts[%d]", proof)
			}

			// Did we get canceled trying to solve the problem.
			if err := ctx.Err(); err != nil {
				ev("consensus: ProofOfWork: MINING: CANCELLED: attempts[%d]", proof)
				return 0, err
			}
		}

		if ValidProof(lastProof, proof) {
			ev("consensus: ProofOfWork: MINING: SOLVED: lastProof[%d]: proof[%d]", lastProof, proof)
			return proof, nil
		}
	}
}

// ValidProof reports if the SHA-256 hash of the decimal forms of lastProof
// and proof, concatenated, starts with Difficulty hex zeros.
func ValidProof(lastProof uint64, proof uint64) bool {
	guess := strconv.FormatUint(lastProof, 10) + strconv.FormatUint(proof, 10)
	hash := sha256.Sum256([]byte(guess))

	return isHashSolved(hex.EncodeToString(hash[:]))
}

// isHashSolved checks the hex hash has the required number of leading zeros.
func isHashSolved(hash string) bool {
	const match = "00000000000000000"

	if len(hash) != 64 {
		return false
	}

	return hash[:Difficulty] == match[:Difficulty]
}

// safe returns an event handler that can always be called.
func safe(ev EventHandler) EventHandler {
	if ev == nil {
		return func(string, ...any) {}
	}
	return ev
}
