package execsvc

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/essential-contributions/zk-benchmarks/zkvm"
)

// Client is a zkvm.Backend that executes on a remote Server.
type Client struct {
	cc     *grpc.ClientConn
	client ExecutorClient

	// Timeout bounds each RPC when non-zero.
	Timeout time.Duration

	mu sync.Mutex
	vk *zkvm.VerifyingKey
}

var _ zkvm.Backend = (*Client)(nil)

type DialOptions struct {
	Timeout     time.Duration
	MaxMsgBytes int
}

// Dial connects to an executor at target without transport security.
func Dial(ctx context.Context, target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts, grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
			grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
		))
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
		dialOpts = append(dialOpts, grpc.WithBlock())
	}
	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("execsvc: dial %s: %w", target, err)
	}
	return NewClient(cc), nil
}

func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewExecutorClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) Name() string { return "remote" }

// VerifyingKey returns the remote program's key. It is fetched once; on
// failure the zero key is returned and the next call retries.
func (c *Client) VerifyingKey() zkvm.VerifyingKey {
	vk, _ := c.fetchVerifyingKey(context.Background())
	return vk
}

func (c *Client) fetchVerifyingKey(ctx context.Context) (zkvm.VerifyingKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.vk != nil {
		return *c.vk, nil
	}
	ctx, cancel := c.rpcContext(ctx)
	defer cancel()
	reply, err := c.client.VerifyingKey(ctx, &emptypb.Empty{})
	if err != nil {
		return zkvm.VerifyingKey{}, fromStatus(err)
	}
	var vk zkvm.VerifyingKey
	if len(reply.GetValue()) != len(vk) {
		return vk, fmt.Errorf("execsvc: verifying key is %d bytes", len(reply.GetValue()))
	}
	copy(vk[:], reply.GetValue())
	c.vk = &vk
	return vk, nil
}

// Prove executes input remotely. The result is an execute-only proof.
func (c *Client) Prove(ctx context.Context, input []byte) (*zkvm.Proof, error) {
	vk, err := c.fetchVerifyingKey(ctx)
	if err != nil {
		return nil, err
	}
	pv, err := c.execute(ctx, input)
	if err != nil {
		return nil, err
	}
	return &zkvm.Proof{VKey: vk, Mode: zkvm.ModeExecute, PublicValues: pv, Input: bytes.Clone(input)}, nil
}

// Verify re-executes the proof's input remotely and compares public values.
func (c *Client) Verify(ctx context.Context, proof *zkvm.Proof) error {
	if proof == nil || proof.Input == nil {
		return zkvm.ErrNotVerifiable
	}
	vk, err := c.fetchVerifyingKey(ctx)
	if err != nil {
		return err
	}
	if proof.VKey != vk {
		return zkvm.ErrVerifyingKeyMismatch
	}
	if proof.Mode != zkvm.ModeExecute {
		return fmt.Errorf("%w: %s", zkvm.ErrUnsupportedMode, proof.Mode)
	}
	pv, err := c.execute(ctx, proof.Input)
	if err != nil {
		return err
	}
	if !bytes.Equal(pv, proof.PublicValues) {
		return zkvm.ErrPublicValuesMismatch
	}
	return nil
}

func (c *Client) execute(ctx context.Context, input []byte) ([]byte, error) {
	ctx, cancel := c.rpcContext(ctx)
	defer cancel()
	reply, err := c.client.Execute(ctx, wrapperspb.Bytes(input))
	if err != nil {
		return nil, fromStatus(err)
	}
	return reply.GetValue(), nil
}

func (c *Client) rpcContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}
