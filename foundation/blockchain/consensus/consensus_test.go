package consensus_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/consensus"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/davecgh/go-spew/spew"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// mine builds a valid chain of the specified length, genesis included.
func mine(t *testing.T, length int, sender string) []ledger.Block {
	t.Helper()

	l := ledger.New()
	for l.Length() < length {
		if _, err := l.QueueTransaction(sender, "bob", float64(l.Length())); err != nil {
			t.Fatalf("\t%s\tShould be able to queue a transaction: %s", failed, err)
		}

		proof, err := consensus.ProofOfWork(context.Background(), l.LastBlock().Proof, nil)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine a block: %s", failed, err)
		}
		l.SealBlock(proof, "")
	}

	return l.Chain()
}

// invalidProof returns a proof close to proof that doesn't solve the puzzle.
func invalidProof(lastProof uint64, proof uint64) uint64 {
	p := proof + 1
	for consensus.ValidProof(lastProof, p) {
		p++
	}
	return p
}

// =============================================================================

func Test_ValidProof(t *testing.T) {
	t.Log("Given the need to validate proofs against the hash prefix rule.")
	{
		for _, lastProof := range []uint64{0, 100, 35293, 1 << 40} {
			for proof := uint64(0); proof < 200_000; proof++ {
				sum := sha256.Sum256([]byte(fmt.Sprintf("%d%d", lastProof, proof)))
				exp := hex.EncodeToString(sum[:])[:4] == "0000"

				if got := consensus.ValidProof(lastProof, proof); got != exp {
					t.Fatalf("\t%s\tlastProof[%d] proof[%d]: got %v, exp %v", failed, lastProof, proof, got, exp)
				}
			}
			t.Logf("\t%s\tShould match the hash prefix rule for lastProof %d.", success, lastProof)
		}
	}
}

func Test_ProofOfWork(t *testing.T) {
	t.Log("Given the need to find the smallest proof for a last proof.")
	{
		for _, lastProof := range []uint64{100, 1, 987654321} {
			proof, err := consensus.ProofOfWork(context.Background(), lastProof, nil)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to find a proof: %s", failed, err)
			}

			if !consensus.ValidProof(lastProof, proof) {
				t.Fatalf("\t%s\tShould find a valid proof for %d.", failed, lastProof)
			}
			t.Logf("\t%s\tShould find a valid proof for %d: %d", success, lastProof, proof)

			for p := uint64(0); p < proof; p++ {
				if consensus.ValidProof(lastProof, p) {
					t.Fatalf("\t%s\tShould find the smallest proof, %d also solves %d.", failed, p, lastProof)
				}
			}
			t.Logf("\t%s\tShould find the smallest proof.", success)

			again, _ := consensus.ProofOfWork(context.Background(), lastProof, nil)
			if again != proof {
				t.Fatalf("\t%s\tShould be deterministic: got %d, exp %d", failed, again, proof)
			}
			t.Logf("\t%s\tShould be deterministic.", success)
		}
	}
}

func Test_ProofOfWorkCancel(t *testing.T) {
	t.Log("Given the need to abandon a proof of work search.")
	{
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := consensus.ProofOfWork(ctx, 100, nil)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("\t%s\tShould stop when the context is canceled: %v", failed, err)
		}
		t.Logf("\t%s\tShould stop when the context is canceled.", success)
	}
}

func Test_IsChainValid(t *testing.T) {
	t.Log("Given the need to validate chains.")
	{
		genesis := ledger.New().Chain()
		if !consensus.IsChainValid(genesis) {
			t.Fatalf("\t%s\tShould accept a genesis only chain.", failed)
		}
		t.Logf("\t%s\tShould accept a genesis only chain.", success)

		if !consensus.IsChainValid(nil) {
			t.Fatalf("\t%s\tShould accept an empty chain.", failed)
		}
		t.Logf("\t%s\tShould accept an empty chain.", success)

		chain := mine(t, 4, "alice")
		if err := consensus.ValidateChain(chain); err != nil {
			t.Logf("\t%s\tchain: %s", failed, spew.Sdump(chain))
			t.Fatalf("\t%s\tShould accept a mined chain: %s", failed, err)
		}
		t.Logf("\t%s\tShould accept a mined chain.", success)

		tampered := append([]ledger.Block{}, chain...)
		tampered[3].PreviousHash = "0xnot-the-parent"
		err := consensus.ValidateChain(tampered)
		if !errors.Is(err, consensus.ErrBrokenLink) || consensus.IsChainValid(tampered) {
			t.Logf("\t%s\tchain: %s", failed, spew.Sdump(tampered))
			t.Fatalf("\t%s\tShould reject a tampered previous hash: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a tampered previous hash.", success)

		tampered = append([]ledger.Block{}, chain...)
		tampered[3].Proof = invalidProof(tampered[2].Proof, tampered[3].Proof)
		err = consensus.ValidateChain(tampered)
		if !errors.Is(err, consensus.ErrInvalidProof) || consensus.IsChainValid(tampered) {
			t.Logf("\t%s\tchain: %s", failed, spew.Sdump(tampered))
			t.Fatalf("\t%s\tShould reject a tampered proof: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a tampered proof.", success)

		if !errors.Is(err, consensus.ErrInvalidChain) {
			t.Fatalf("\t%s\tShould classify the failure as an invalid chain.", failed)
		}
		t.Logf("\t%s\tShould classify the failure as an invalid chain.", success)

		tampered = append([]ledger.Block{}, chain...)
		tampered[0].Proof = 1
		for consensus.ValidProof(tampered[0].Proof, tampered[1].Proof) {
			tampered[0].Proof++
		}
		tampered[1].PreviousHash = ledger.Hash(tampered[0])
		if consensus.IsChainValid(tampered) {
			t.Fatalf("\t%s\tShould still check the puzzle against the genesis proof.", failed)
		}
		t.Logf("\t%s\tShould still check the puzzle against the genesis proof.", success)

		tampered = append([]ledger.Block{}, chain...)
		tampered[2].Transactions = []ledger.Tx{ledger.NewTx("alice", "bob", math.NaN())}
		tampered[3].PreviousHash = ""
		err = consensus.ValidateChain(tampered)
		if !errors.Is(err, consensus.ErrBrokenLink) {
			t.Logf("\t%s\tchain: %s", failed, spew.Sdump(tampered))
			t.Fatalf("\t%s\tShould reject a link to a parent that can't be hashed: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a link to a parent that can't be hashed.", success)
	}
}

func Test_ResolveConflict(t *testing.T) {
	local := mine(t, 3, "local")
	two := mine(t, 2, "peer-two")
	four := mine(t, 4, "peer-four")

	five := mine(t, 5, "peer-five")
	five[4].Proof = invalidProof(five[3].Proof, five[4].Proof)

	type table struct {
		name       string
		candidates []consensus.Candidate
		replaced   bool
		peer       string
		length     int
	}

	tt := []table{
		{
			name: "longest-valid",
			candidates: []consensus.Candidate{
				{Peer: "two", Length: len(two), Chain: two},
				{Peer: "five", Length: len(five), Chain: five},
				{Peer: "four", Length: len(four), Chain: four},
			},
			replaced: true,
			peer:     "four",
			length:   4,
		},
		{
			name: "none-longer",
			candidates: []consensus.Candidate{
				{Peer: "two", Length: len(two), Chain: two},
				{Peer: "tie", Length: len(local), Chain: mine(t, 3, "tie")},
			},
			replaced: false,
			length:   3,
		},
		{
			name: "lying-length",
			candidates: []consensus.Candidate{
				{Peer: "liar", Length: 10, Chain: four},
			},
			replaced: false,
			length:   3,
		},
		{
			name:     "no-peers",
			replaced: false,
			length:   3,
		},
	}

	t.Log("Given the need to apply the longest valid chain rule.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling %s candidates.", testID, tst.name)
			{
				f := func(t *testing.T) {
					res := consensus.ResolveConflict(local, tst.candidates, t.Logf)

					if res.Replaced != tst.replaced {
						t.Fatalf("\t%s\tTest %d:\tShould get replaced %v.", failed, testID, tst.replaced)
					}
					t.Logf("\t%s\tTest %d:\tShould get replaced %v.", success, testID, tst.replaced)

					if res.Peer != tst.peer || len(res.Chain) != tst.length {
						t.Logf("\t%s\tTest %d:\tgot: %s %d", failed, testID, res.Peer, len(res.Chain))
						t.Logf("\t%s\tTest %d:\texp: %s %d", failed, testID, tst.peer, tst.length)
						t.Fatalf("\t%s\tTest %d:\tShould pick the right chain.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould pick the right chain.", success, testID)

					if !tst.replaced {
						for i := range local {
							if ledger.Hash(res.Chain[i]) != ledger.Hash(local[i]) {
								t.Fatalf("\t%s\tTest %d:\tShould leave the local chain untouched.", failed, testID)
							}
						}
						t.Logf("\t%s\tTest %d:\tShould leave the local chain untouched.", success, testID)
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}
