package state

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ardanlabs/powchain/foundation/blockchain/consensus"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
)

// ChainSource provides the chain held by a peer.
type ChainSource interface {
	FetchChain(ctx context.Context, pr peer.Peer) (consensus.Candidate, error)
}

// =============================================================================

// HTTPChainSource retrieves a peer's chain from the peer's /chain endpoint.
type HTTPChainSource struct {
	client  *http.Client
	baseURL string
}

// NewHTTPChainSource constructs a chain source using the specified client.
func NewHTTPChainSource(client *http.Client) *HTTPChainSource {
	return &HTTPChainSource{
		client:  client,
		baseURL: "http://%s",
	}
}

// FetchChain implements the ChainSource interface. Any transport failure or
// non 200 response is returned as an error.
func (hcs *HTTPChainSource) FetchChain(ctx context.Context, pr peer.Peer) (consensus.Candidate, error) {
	url := fmt.Sprintf("%s/chain", fmt.Sprintf(hcs.baseURL, pr.Host))

	var c consensus.Candidate
	if err := send(ctx, hcs.client, http.MethodGet, url, nil, &c); err != nil {
		return consensus.Candidate{}, fmt.Errorf("%s: %w", pr.Host, err)
	}
	c.Peer = pr.Host

	return c, nil
}

// =============================================================================

// send is a helper function to send an HTTP request to a node.
func send(ctx context.Context, client *http.Client, method string, url string, dataSend any, dataRecv any) error {
	var body io.Reader
	if dataSend != nil {
		data, err := json.Marshal(dataSend)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	if dataRecv != nil {
		if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
			return err
		}
	}

	return nil
}
