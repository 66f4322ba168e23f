package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/powchain/app/services/node/handlers"
	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/consensus"
	"github.com/ardanlabs/powchain/foundation/blockchain/ledger"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/logger"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

type node struct {
	state   *state.State
	public  http.Handler
	private http.Handler
}

func newNode(t *testing.T, log *zap.SugaredLogger, nodeID string) node {
	t.Helper()

	st, err := state.New(state.Config{
		NodeID:    nodeID,
		Host:      "localhost:9080",
		EvHandler: t.Logf,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the node state: %s", failed, err)
	}

	cfg := handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      log,
		State:    st,
		Evts:     events.New(),
	}

	return node{
		state:   st,
		public:  handlers.PublicMux(cfg),
		private: handlers.PrivateMux(cfg),
	}
}

func call(h http.Handler, method string, path string, body string, resp any) int {
	var r *http.Request
	switch body {
	case "":
		r = httptest.NewRequest(method, path, nil)
	default:
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if resp != nil {
		json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(resp)
	}

	return w.Code
}

func newLogger(t *testing.T) *zap.SugaredLogger {
	log, err := logger.New("TEST", os.DevNull)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a logger: %s", failed, err)
	}
	return log
}

// =============================================================================

func Test_Transactions(t *testing.T) {
	n := newNode(t, newLogger(t), "node1")

	tt := []struct {
		name   string
		body   string
		status int
	}{
		{name: "missing-amount", body: `{"sender":"alice","recipient":"bob"}`, status: http.StatusBadRequest},
		{name: "bad-json", body: `{"sender":`, status: http.StatusBadRequest},
		{name: "overflow-amount", body: `{"sender":"alice","recipient":"bob","amount":1e999}`, status: http.StatusBadRequest},
		{name: "zero-amount", body: `{"sender":"alice","recipient":"bob","amount":0}`, status: http.StatusCreated},
		{name: "valid", body: `{"sender":"alice","recipient":"bob","amount":5}`, status: http.StatusCreated},
	}

	t.Log("Given the need to submit transactions over the public API.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s transaction.", testID, tst.name)
			{
				f := func(t *testing.T) {
					var resp struct {
						Message string            `json:"message"`
						Index   uint64            `json:"index"`
						Error   string            `json:"error"`
						Fields  map[string]string `json:"fields"`
					}
					status := call(n.public, http.MethodPost, "/transactions/new", tst.body, &resp)

					if status != tst.status {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, spew.Sdump(resp))
						t.Fatalf("\t%s\tTest %d:\tShould get status %d: got %d", failed, testID, tst.status, status)
					}
					t.Logf("\t%s\tTest %d:\tShould get status %d.", success, testID, tst.status)

					if tst.status == http.StatusCreated && resp.Index != 2 {
						t.Fatalf("\t%s\tTest %d:\tShould target block 2: got %d", failed, testID, resp.Index)
					}
				}

				t.Run(tst.name, f)
			}
		}

		if n.state.QueryPendingLength() != 2 {
			t.Fatalf("\t%s\tShould only queue the accepted transactions: got %d", failed, n.state.QueryPendingLength())
		}
		t.Logf("\t%s\tShould only queue the accepted transactions.", success)
	}
}

func Test_Mine(t *testing.T) {
	n := newNode(t, newLogger(t), "node1")

	t.Log("Given the need to mine a block over the public API.")
	{
		call(n.public, http.MethodPost, "/transactions/new", `{"sender":"alice","recipient":"bob","amount":5}`, nil)

		var resp struct {
			Message      string      `json:"message"`
			Index        uint64      `json:"index"`
			Transactions []ledger.Tx `json:"transactions"`
			Proof        uint64      `json:"proof"`
			PreviousHash string      `json:"previous_hash"`
		}
		if status := call(n.public, http.MethodGet, "/mine", "", &resp); status != http.StatusOK {
			t.Fatalf("\t%s\tShould be able to mine: got %d", failed, status)
		}
		t.Logf("\t%s\tShould be able to mine.", success)

		if resp.Message != "New Block Forged" || resp.Index != 2 || len(resp.Transactions) != 2 {
			t.Logf("\t%s\tgot: %s", failed, spew.Sdump(resp))
			t.Fatalf("\t%s\tShould describe the forged block.", failed)
		}
		t.Logf("\t%s\tShould describe the forged block.", success)

		if !consensus.ValidProof(ledger.GenesisProof, resp.Proof) {
			t.Fatalf("\t%s\tShould return a proof that solves the puzzle.", failed)
		}
		t.Logf("\t%s\tShould return a proof that solves the puzzle.", success)

		var ch struct {
			Chain  []ledger.Block `json:"chain"`
			Length int            `json:"length"`
		}
		call(n.public, http.MethodGet, "/chain", "", &ch)
		if ch.Length != 2 || len(ch.Chain) != 2 || ch.Chain[1].PreviousHash != resp.PreviousHash {
			t.Logf("\t%s\tgot: %s", failed, spew.Sdump(ch))
			t.Fatalf("\t%s\tShould serve the extended chain.", failed)
		}
		t.Logf("\t%s\tShould serve the extended chain.", success)
	}
}

func Test_MineCanceled(t *testing.T) {
	n := newNode(t, newLogger(t), "node1")

	t.Log("Given the need to report a request canceled while mining.")
	{
		call(n.public, http.MethodPost, "/transactions/new", `{"sender":"alice","recipient":"bob","amount":5}`, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := httptest.NewRequest(http.MethodGet, "/mine", nil).WithContext(ctx)
		w := httptest.NewRecorder()
		n.public.ServeHTTP(w, r)

		if w.Code == http.StatusConflict || w.Code == http.StatusOK {
			t.Fatalf("\t%s\tShould not report a chain conflict for a canceled request: got %d", failed, w.Code)
		}
		t.Logf("\t%s\tShould not report a chain conflict for a canceled request.", success)

		if len(n.state.RetrieveChain()) != 1 || n.state.QueryPendingLength() != 1 {
			t.Fatalf("\t%s\tShould leave the ledger untouched.", failed)
		}
		t.Logf("\t%s\tShould leave the ledger untouched.", success)
	}
}

func Test_Consensus(t *testing.T) {
	log := newLogger(t)
	local := newNode(t, log, "local")
	remote := newNode(t, log, "remote")

	for n := 0; n < 2; n++ {
		if status := call(remote.public, http.MethodGet, "/mine", "", nil); status != http.StatusOK {
			t.Fatalf("\t%s\tShould be able to mine on the remote node: got %d", failed, status)
		}
	}

	srv := httptest.NewServer(remote.private)
	defer srv.Close()

	t.Log("Given the need to adopt the longest chain from a registered node.")
	{
		var er errs.Response
		if status := call(local.private, http.MethodPost, "/nodes/register", `{"nodes":[]}`, &er); status != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould reject an empty node list: got %d", failed, status)
		}
		t.Logf("\t%s\tShould reject an empty node list.", success)

		if status := call(local.private, http.MethodPost, "/nodes/register", `{"nodes":["http://"]}`, &er); status != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould reject an address without a host: got %d", failed, status)
		}
		t.Logf("\t%s\tShould reject an address without a host.", success)

		var reg struct {
			Message    string `json:"message"`
			TotalNodes int    `json:"total_nodes"`
		}
		body := `{"nodes":["` + srv.URL + `"]}`
		if status := call(local.private, http.MethodPost, "/nodes/register", body, &reg); status != http.StatusCreated || reg.TotalNodes != 1 {
			t.Fatalf("\t%s\tShould register the remote node: got %d %d", failed, status, reg.TotalNodes)
		}
		t.Logf("\t%s\tShould register the remote node.", success)

		var res struct {
			Message  string         `json:"message"`
			NewChain []ledger.Block `json:"new_chain"`
			Chain    []ledger.Block `json:"chain"`
		}
		call(local.private, http.MethodGet, "/nodes/resolve", "", &res)
		if res.Message != "Our chain was replaced" || len(res.NewChain) != 3 {
			t.Logf("\t%s\tgot: %s", failed, spew.Sdump(res))
			t.Fatalf("\t%s\tShould replace the local chain.", failed)
		}
		t.Logf("\t%s\tShould replace the local chain.", success)

		if local.state.RetrieveLatestBlock().Hash() != remote.state.RetrieveLatestBlock().Hash() {
			t.Fatalf("\t%s\tShould hold the remote node's chain.", failed)
		}
		t.Logf("\t%s\tShould hold the remote node's chain.", success)

		res.Message = ""
		call(local.private, http.MethodGet, "/nodes/resolve", "", &res)
		if res.Message != "Our chain is authoritative" || len(res.Chain) != 3 {
			t.Logf("\t%s\tgot: %s", failed, spew.Sdump(res))
			t.Fatalf("\t%s\tShould keep an equal length chain.", failed)
		}
		t.Logf("\t%s\tShould keep an equal length chain.", success)
	}
}
