package peer_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
)

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		peers []peer.Peer
	}

	tt := []table{
		{
			name:  "basic",
			peers: []peer.Peer{{Host: "host1"}, {Host: "host2"}, {Host: "host3"}},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			for _, peer := range tst.peers {
				if !ps.Add(peer) {
					t.Fatalf("Test %s:\tShould be able to add a new peer.", tst.name)
				}
				if ps.Add(peer) {
					t.Fatalf("Test %s:\tShould not add a known peer twice.", tst.name)
				}
			}

			if ps.Len() != len(tst.peers) {
				t.Logf("Test %s:\tgot: %d", tst.name, ps.Len())
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers))
				t.Fatalf("Test %s:\tShould dedup the peers.", tst.name)
			}

			peers := ps.Copy("")
			if len(peers) != len(tst.peers) {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers))
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			peers = ps.Copy("host2")
			if len(peers) != len(tst.peers)-1 {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers)-1)
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_ParseAddress(t *testing.T) {
	type table struct {
		name    string
		address string
		host    string
		err     bool
	}

	tt := []table{
		{name: "url", address: "http://192.168.0.5:5000", host: "192.168.0.5:5000"},
		{name: "url-path", address: "https://node.example.com:9080/chain", host: "node.example.com:9080"},
		{name: "bare", address: "localhost:9180", host: "localhost:9180"},
		{name: "spaces", address: "  localhost:9180 ", host: "localhost:9180"},
		{name: "empty", address: "", err: true},
		{name: "no-host", address: "http://", err: true},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			p, err := peer.ParseAddress(tst.address)

			if tst.err {
				if !errors.Is(err, peer.ErrInvalidAddress) {
					t.Fatalf("Test %s:\tShould reject the address: %v", tst.name, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Test %s:\tShould parse the address: %s", tst.name, err)
			}

			if p.Host != tst.host {
				t.Logf("Test %s:\tgot: %s", tst.name, p.Host)
				t.Logf("Test %s:\texp: %s", tst.name, tst.host)
				t.Fatalf("Test %s:\tShould get back the right host.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}
