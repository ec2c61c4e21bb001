package execsvc

import (
	"bytes"
	"context"
	"encoding/hex"
	"net"
	"testing"
	"time"

	"github.com/minio/sha256-simd"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/essential-contributions/zk-benchmarks/guest"
	"github.com/essential-contributions/zk-benchmarks/keys"
	"github.com/essential-contributions/zk-benchmarks/logging"
	"github.com/essential-contributions/zk-benchmarks/zkvm"
)

func startServer(t *testing.T, logs *bytes.Buffer) *Client {
	t.Helper()
	log := logging.NewLogger()
	log.SetOutput(logs)
	log.SetLevel(logging.Debug)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterExecutorServer(srv, &Server{Log: log})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	cc, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	c := NewClient(cc)
	c.Timeout = 5 * time.Second
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func hashInput(t *testing.T) []byte {
	t.Helper()
	return guest.MustEncode(&guest.HashJob{Repeat: 1, ChunkSize: 8192, Chunks: [][]byte{make([]byte, 8192)}})
}

func signatureInput(t *testing.T, corrupt bool) []byte {
	t.Helper()
	digest := sha256.Sum256([]byte("validating block: 19634367"))
	job := &guest.SignatureJob{Repeat: 2, MessageDigest: digest}
	for _, s := range keys.Signers(keys.DefaultSeedByte, 2) {
		sig := s.Sign(digest[:])
		job.Pairs = append(job.Pairs, guest.SignaturePair{PublicKey: s.PublicKey(), Signature: sig})
	}
	if corrupt {
		job.Pairs[1].Signature[10] ^= 0x01
	}
	return guest.MustEncode(job)
}

func TestExecutor_ProveVerify(t *testing.T) {
	var logs bytes.Buffer
	c := startServer(t, &logs)
	ctx := context.Background()

	proof, err := c.Prove(ctx, hashInput(t))
	require.NoError(t, err)
	out, err := proof.Outputs()
	require.NoError(t, err)
	require.Equal(t, "9f1dcbc35c350d6027f98be0f5c8b43b42ca52b7604459c0c42be3aa88913d47", hex.EncodeToString(out.Digest[:]))
	require.Equal(t, uint32(1), out.Iterations)

	require.Equal(t, zkvm.Native{}.VerifyingKey(), proof.VKey)
	require.NoError(t, c.Verify(ctx, proof))
	require.NoError(t, zkvm.Native{}.Verify(ctx, proof), "remote and native public values must agree")
	require.Contains(t, logs.String(), "executed")

	proof.PublicValues[0] ^= 1
	require.ErrorIs(t, c.Verify(ctx, proof), zkvm.ErrPublicValuesMismatch)
}

func TestExecutor_SignatureFailureRoundTrips(t *testing.T) {
	var logs bytes.Buffer
	c := startServer(t, &logs)

	_, err := c.Prove(context.Background(), signatureInput(t, true))
	require.Error(t, err)
	require.True(t, guest.IsKind(err, guest.KindVerification))
	require.Equal(t, guest.RuleSigInvalid, guest.RuleID(err))

	var ge *guest.Error
	require.ErrorAs(t, err, &ge)
	require.Equal(t, 1, ge.Index)
	require.NotNil(t, ge.Cause)
	require.Contains(t, logs.String(), "execution failed")

	proof, err := c.Prove(context.Background(), signatureInput(t, false))
	require.NoError(t, err)
	out, err := proof.Outputs()
	require.NoError(t, err)
	require.Equal(t, uint32(2), out.Iterations)
}

func TestExecutor_StatusCodes(t *testing.T) {
	c := startServer(t, &bytes.Buffer{})
	ctx := context.Background()

	cases := []struct {
		name  string
		input []byte
		code  codes.Code
		kind  guest.Kind
	}{
		{"opcode", []byte{7, 0, 0, 0, 0}, codes.Unimplemented, guest.KindOpcode},
		{"empty", nil, codes.InvalidArgument, guest.KindMalformed},
		{"truncated", []byte{2, 1, 0, 0, 0}, codes.InvalidArgument, guest.KindMalformed},
		{"bad-signature", signatureInput(t, true), codes.FailedPrecondition, guest.KindVerification},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.client.Execute(ctx, wrapperspb.Bytes(tc.input))
			require.Equal(t, tc.code, status.Code(err))
			require.True(t, guest.IsKind(fromStatus(err), tc.kind))
		})
	}
}

func TestFromStatus_PlainErrors(t *testing.T) {
	require.ErrorIs(t, fromStatus(status.Error(codes.Canceled, "x")), context.Canceled)
	plain := status.Error(codes.Unavailable, "down")
	require.Equal(t, plain, fromStatus(plain))
	require.Equal(t, codes.Internal, status.Code(toStatus(zkvm.ErrNotVerifiable)))
}

func TestClient_VerifyRequiresInput(t *testing.T) {
	c := startServer(t, &bytes.Buffer{})
	require.ErrorIs(t, c.Verify(context.Background(), &zkvm.Proof{}), zkvm.ErrNotVerifiable)
	require.Equal(t, "remote", c.Name())
}
