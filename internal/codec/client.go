package codec

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/danielpatrickdp/decision-field/internal/engine"
)

// #region client-struct
// Client calls a remote engine over gRPC.
type Client struct {
	conn   *grpc.ClientConn
	client EngineClient
	addr   string
}

// #endregion client-struct

// #region constructor
// NewClient connects to the engine server at addr.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn, client: NewEngineClient(conn), addr: addr}, nil
}

// NewClientWithConn uses an existing connection, e.g. a bufconn in tests.
// The caller keeps ownership of conn.
func NewClientWithConn(conn grpc.ClientConnInterface) *Client {
	return &Client{client: NewEngineClient(conn), addr: "conn"}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection if the client opened it.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// Name identifies the remote engine in event payloads.
func (c *Client) Name() string { return "grpc:" + c.addr }

// #region generate
// Generate asks the remote engine for an outcome set.
func (c *Client) Generate(ctx context.Context, description string, intuitionWeight float64) ([]engine.Outcome, error) {
	req, err := generateRequest(description, intuitionWeight)
	if err != nil {
		return nil, fmt.Errorf("encode generate request: %w", err)
	}
	resp, err := c.client.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate rpc: %w", err)
	}
	outcomes, err := outcomesFromList(resp.GetFields()["outcomes"].GetListValue())
	if err != nil {
		return nil, fmt.Errorf("decode generate response: %w", err)
	}
	return outcomes, nil
}

// #endregion generate

// #region collapse
// Collapse asks the remote engine to select one outcome.
func (c *Client) Collapse(ctx context.Context, outcomes []engine.Outcome, dataWeight float64) (engine.Result, error) {
	if len(outcomes) == 0 {
		return engine.Result{}, engine.ErrNoOutcomes
	}
	req, err := collapseRequest(outcomes, dataWeight)
	if err != nil {
		return engine.Result{}, fmt.Errorf("encode collapse request: %w", err)
	}
	resp, err := c.client.Collapse(ctx, req)
	if err != nil {
		if isNoOutcomes(err) {
			return engine.Result{}, fmt.Errorf("collapse rpc: %w", engine.ErrNoOutcomes)
		}
		return engine.Result{}, fmt.Errorf("collapse rpc: %w", err)
	}
	res, err := resultFromStruct(resp)
	if err != nil {
		return engine.Result{}, fmt.Errorf("decode collapse response: %w", err)
	}
	return res, nil
}

// isNoOutcomes reports whether the server rejected an empty outcome set.
// Other InvalidArgument statuses stay plain rpc errors.
func isNoOutcomes(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.InvalidArgument && st.Message() == engine.ErrNoOutcomes.Error()
}

// #endregion collapse
