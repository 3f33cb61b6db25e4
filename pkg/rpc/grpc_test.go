package rpc

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"

	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func startGRPC(t *testing.T, d *Dispatcher) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	server := grpc.NewServer()
	RegisterGRPC(server, d)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn)
}

func TestGRPCInvokeRoundTrip(t *testing.T) {
	d, _ := newTestDispatcher(t)
	client := startGRPC(t, d)
	client.SetSession("good")

	var out echoResponse
	err := client.Invoke(context.Background(), "EchoService", "echo", map[string]any{"name": "grpc"}, &out)

	require.NoError(t, err)
	assert.Equal(t, echoResponse{Greeting: "hello grpc", Caller: "rhqadmin"}, out)
}

func TestGRPCFaultTrailers(t *testing.T) {
	d, _ := newTestDispatcher(t)
	client := startGRPC(t, d)
	client.SetSession("good")

	err := client.Invoke(context.Background(), "EchoService", "fail", nil, nil)

	var fault *Fault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, apperrors.ErrNotFound.Code, fault.Code)
	assert.Equal(t, "Resource[id=7] not found", fault.Message)
	assert.Equal(t, "1700000000123", fault.CorrelationID)
	assert.Equal(t, int64(1700000000123), fault.Timestamp)
	assert.Equal(t, http.StatusNotFound, fault.Status)
}

func TestGRPCStatusCodes(t *testing.T) {
	d, _ := newTestDispatcher(t)
	client := startGRPC(t, d)

	err := client.conn.Invoke(context.Background(), InvokeMethod,
		&InvokeRequest{Service: "EchoService", Method: "echo"}, new(InvokeResponse),
		grpc.CallContentSubtype(codecName))

	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	err = client.conn.Invoke(context.Background(), InvokeMethod,
		&InvokeRequest{Service: "EchoService", Method: "nope"}, new(InvokeResponse),
		grpc.CallContentSubtype(codecName))

	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGRPCPublicMethodWithoutSession(t *testing.T) {
	d, _ := newTestDispatcher(t)
	client := startGRPC(t, d)

	var authenticated bool
	require.NoError(t, client.Invoke(context.Background(), "EchoService", "ping", nil, &authenticated))
	assert.False(t, authenticated)
}
