package terracore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	relayerrors "github.com/pushchain/terra-shuttle/relayer/errors"
)

// Client is a minimal fan-out client over multiple Terra gRPC endpoints.
// Reads try endpoints in round-robin order and return the first success.
type Client struct {
	logger      zerolog.Logger
	txClients   []tx.ServiceClient
	authClients []authtypes.QueryClient
	conns       []*grpc.ClientConn // owned connections for Close()
	rr          uint32             // round-robin counter
}

// New dials the provided gRPC URLs (best-effort) and builds a Client.
// Endpoints that fail to dial are skipped; at least one must succeed.
func New(urls []string, logger zerolog.Logger) (*Client, error) {
	if len(urls) == 0 {
		return nil, errors.New("terracore: at least one gRPC URL is required")
	}

	c := &Client{
		logger: logger.With().Str("component", "terra_core").Logger(),
	}

	for i, u := range urls {
		conn, err := CreateGRPCConnection(u)
		if err != nil {
			c.logger.Warn().Str("url", u).Int("index", i).Err(err).Msg("dial failed; skipping endpoint")
			continue
		}
		c.conns = append(c.conns, conn)
		c.txClients = append(c.txClients, tx.NewServiceClient(conn))
		c.authClients = append(c.authClients, authtypes.NewQueryClient(conn))
	}

	if len(c.txClients) == 0 {
		_ = c.Close()
		return nil, fmt.Errorf("terracore: all dials failed (%d urls)", len(urls))
	}

	return c, nil
}

// newWithClients builds a Client over already constructed service clients.
func newWithClients(txClients []tx.ServiceClient, authClients []authtypes.QueryClient, logger zerolog.Logger) *Client {
	return &Client{
		logger:      logger.With().Str("component", "terra_core").Logger(),
		txClients:   txClients,
		authClients: authClients,
	}
}

// Close closes all owned connections.
func (c *Client) Close() error {
	var firstErr error
	for _, conn := range c.conns {
		if err := conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.conns = nil
	c.txClients = nil
	c.authClients = nil
	return firstErr
}

func (c *Client) nextStart(n int) int {
	return int(atomic.AddUint32(&c.rr, 1)-1) % n
}

// fanOut calls fn against each client once, starting at the next round-robin
// index, and returns the first success or the last error.
func fanOut[C any, R any](c *Client, op string, clients []C, fn func(C) (R, error)) (R, error) {
	var zero R
	if len(clients) == 0 {
		return zero, errors.New("terracore: no endpoints configured")
	}

	start := c.nextStart(len(clients))

	var lastErr error
	for i := 0; i < len(clients); i++ {
		idx := (start + i) % len(clients)
		resp, err := fn(clients[idx])
		if err == nil {
			return resp, nil
		}

		lastErr = err
		c.logger.Debug().
			Int("attempt", i+1).
			Int("endpoint_index", idx).
			Err(err).
			Msgf("%s failed; trying next endpoint", op)
	}

	return zero, fmt.Errorf("terracore: %s failed on all %d endpoints: %w", op, len(clients), lastErr)
}

// Simulate dry-runs the encoded transaction.
func (c *Client) Simulate(ctx context.Context, txBytes []byte) (*tx.SimulateResponse, error) {
	return fanOut(c, "Simulate", c.txClients, func(sc tx.ServiceClient) (*tx.SimulateResponse, error) {
		return sc.Simulate(ctx, &tx.SimulateRequest{TxBytes: txBytes})
	})
}

// BroadcastTxSync submits the encoded transaction in sync mode to a single
// endpoint. Submission is not repeated on other endpoints.
func (c *Client) BroadcastTxSync(ctx context.Context, txBytes []byte) (*sdk.TxResponse, error) {
	if len(c.txClients) == 0 {
		return nil, errors.New("terracore: no endpoints configured")
	}
	idx := c.nextStart(len(c.txClients))

	resp, err := c.txClients[idx].BroadcastTx(ctx, &tx.BroadcastTxRequest{
		TxBytes: txBytes,
		Mode:    tx.BroadcastMode_BROADCAST_MODE_SYNC,
	})
	if err != nil {
		return nil, fmt.Errorf("terracore: broadcast failed on endpoint %d: %w", idx, err)
	}
	if resp == nil || resp.TxResponse == nil {
		return nil, errors.New("terracore: empty broadcast response")
	}
	return resp.TxResponse, nil
}

// GetTx looks a transaction up by hash on every endpoint. When each endpoint
// answers NotFound the returned error wraps relayerrors.ErrTxNotFound; any
// other failure is returned as-is.
func (c *Client) GetTx(ctx context.Context, hash string) (*sdk.TxResponse, error) {
	if len(c.txClients) == 0 {
		return nil, errors.New("terracore: no endpoints configured")
	}
	hash = strings.ToUpper(strings.TrimPrefix(hash, "0x"))

	start := c.nextStart(len(c.txClients))

	var lastErr error
	notFound := 0
	for i := 0; i < len(c.txClients); i++ {
		idx := (start + i) % len(c.txClients)
		resp, err := c.txClients[idx].GetTx(ctx, &tx.GetTxRequest{Hash: hash})
		if err == nil && resp != nil && resp.TxResponse != nil {
			return resp.TxResponse, nil
		}
		if err == nil || status.Code(err) == codes.NotFound {
			notFound++
			continue
		}

		lastErr = err
		c.logger.Debug().
			Int("endpoint_index", idx).
			Str("tx_hash", hash).
			Err(err).
			Msg("GetTx failed; trying next endpoint")
	}

	if notFound == len(c.txClients) {
		return nil, fmt.Errorf("terracore: tx %s: %w", hash, relayerrors.ErrTxNotFound)
	}
	return nil, fmt.Errorf("terracore: GetTx failed on %d of %d endpoints: %w",
		len(c.txClients)-notFound, len(c.txClients), lastErr)
}

// GetAccount queries the auth module for address.
func (c *Client) GetAccount(ctx context.Context, address string) (*authtypes.QueryAccountResponse, error) {
	return fanOut(c, "GetAccount", c.authClients, func(qc authtypes.QueryClient) (*authtypes.QueryAccountResponse, error) {
		return qc.Account(ctx, &authtypes.QueryAccountRequest{Address: address})
	})
}

// CreateGRPCConnection creates a gRPC connection with transport security
// picked from the URL scheme: https:// uses TLS, http:// or no scheme is
// insecure. Port 9090 is added when none is given.
func CreateGRPCConnection(endpoint string) (*grpc.ClientConn, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("empty endpoint provided")
	}

	processedEndpoint := endpoint
	useTLS := false

	if strings.HasPrefix(endpoint, "https://") {
		processedEndpoint = strings.TrimPrefix(endpoint, "https://")
		useTLS = true
	} else if strings.HasPrefix(endpoint, "http://") {
		processedEndpoint = strings.TrimPrefix(endpoint, "http://")
	}
	processedEndpoint = strings.TrimSuffix(processedEndpoint, "/")

	if !strings.Contains(processedEndpoint, ":") {
		processedEndpoint += ":9090"
	} else if strings.HasSuffix(processedEndpoint, ":") {
		processedEndpoint += "9090"
	}

	var opts []grpc.DialOption
	if useTLS {
		opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(nil)))
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	conn, err := grpc.NewClient(processedEndpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to %s: %w", processedEndpoint, err)
	}
	return conn, nil
}
