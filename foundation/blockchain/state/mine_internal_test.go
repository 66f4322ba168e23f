package state

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func Test_CancelMining(t *testing.T) {
	st, err := New(Config{NodeID: "node1", EvHandler: t.Logf})
	if err != nil {
		t.Fatalf("Should be able to construct the state: %s", err)
	}

	ctx, cancel := st.miningContext(context.Background())
	defer cancel()

	st.cancelMining()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("Should cancel in-flight mining when the chain is replaced.")
	}

	if !errors.Is(context.Cause(ctx), ErrChainReplaced) {
		t.Fatalf("Should record the chain replacement as the cause: %v", context.Cause(ctx))
	}

	next, cancelNext := st.miningContext(context.Background())
	defer cancelNext()

	if next.Err() != nil {
		t.Fatal("Should start a new epoch after canceling.")
	}
}

func Test_MineChainReplaced(t *testing.T) {
	var st *State

	// Replace the chain right as the proof search begins.
	ev := func(v string, args ...any) {
		t.Logf(v, args...)
		if strings.HasPrefix(v, "state: MineNewBlock: MINING: perform POW") {
			st.cancelMining()
			time.Sleep(50 * time.Millisecond)
		}
	}

	var err error
	st, err = New(Config{NodeID: "node1", EvHandler: ev})
	if err != nil {
		t.Fatalf("Should be able to construct the state: %s", err)
	}

	if _, err := st.SubmitTransaction("alice", "bob", 1); err != nil {
		t.Fatalf("Should be able to submit a transaction: %s", err)
	}

	if _, err := st.MineNewBlock(context.Background()); !errors.Is(err, ErrChainReplaced) {
		t.Fatalf("Should report the chain was replaced: %v", err)
	}

	if len(st.RetrieveChain()) != 1 || st.QueryPendingLength() != 1 {
		t.Fatal("Should leave the ledger untouched.")
	}
}
