package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/rhq-project/rhq-coregui/internal/constants"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	ctxutil "github.com/rhq-project/rhq-coregui/pkg/context"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

const (
	codecName    = "json"
	ServiceName  = "rhq.rpc.Dispatcher"
	InvokeMethod = "/" + ServiceName + "/Invoke"
)

// jsonCodec lets the dispatcher speak gRPC without generated protobuf
// messages. Clients select it with the "json" content subtype.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return codecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type InvokeRequest struct {
	Service string          `json:"service"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type InvokeResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
}

// DispatcherServer is the server side of rhq.rpc.Dispatcher.
type DispatcherServer interface {
	Invoke(ctx context.Context, req *InvokeRequest) (*InvokeResponse, error)
}

func invokeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(InvokeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DispatcherServer).Invoke(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: InvokeMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DispatcherServer).Invoke(ctx, req.(*InvokeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var dispatcherServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DispatcherServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Invoke", Handler: invokeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rhq/rpc/dispatcher",
}

type grpcServer struct {
	dispatcher *Dispatcher
}

// RegisterGRPC exposes the dispatcher on a gRPC server.
func RegisterGRPC(server grpc.ServiceRegistrar, d *Dispatcher) {
	server.RegisterService(&dispatcherServiceDesc, &grpcServer{dispatcher: d})
}

func (s *grpcServer) Invoke(ctx context.Context, in *InvokeRequest) (*InvokeResponse, error) {
	ctx = ctxutil.WithValue(ctx, ctxutil.RequestIDKey, uuid.NewString())
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		ctx = ctxutil.WithValue(ctx, ctxutil.ClientIPKey, p.Addr.String())
	}

	var token string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(constants.MetadataSessionID); len(values) > 0 {
			token = values[0]
		}
		if values := md.Get("user-agent"); len(values) > 0 {
			ctx = ctxutil.WithValue(ctx, ctxutil.UserAgentKey, values[0])
		}
	}

	result, err := s.dispatcher.Call(ctx, Request{
		Service:   in.Service,
		Method:    in.Method,
		SessionID: token,
		Params:    in.Params,
	})
	if err != nil {
		return nil, faultStatus(ctx, err)
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, faultStatus(ctx, s.dispatcher.fault(ctx, Request{Service: in.Service, Method: in.Method},
			apperrors.WrapError(apperrors.ErrInternal, err)))
	}
	return &InvokeResponse{Result: raw}, nil
}

// faultStatus turns a fault into a gRPC status, with the correlation data
// in trailers.
func faultStatus(ctx context.Context, err error) error {
	var fault *Fault
	if !errors.As(err, &fault) {
		return status.Error(apperrors.GRPCCodeForCode(apperrors.ErrInternal.Code), apperrors.ErrInternal.Message)
	}
	_ = grpc.SetTrailer(ctx, metadata.Pairs(
		constants.MetadataCorrelationID, fault.CorrelationID,
		constants.MetadataTimestamp, strconv.FormatInt(fault.Timestamp, 10),
		constants.MetadataFaultCode, fault.Code,
	))
	return status.Error(apperrors.GRPCCodeForCode(fault.Code), fault.Message)
}

// Client calls a remote dispatcher over gRPC.
type Client struct {
	conn  grpc.ClientConnInterface
	token string
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// SetSession sets the token sent with every later call.
func (c *Client) SetSession(token string) {
	c.token = token
}

// Invoke calls service/method with params and decodes the result into out,
// which may be nil. Remote failures come back as *Fault.
func (c *Client) Invoke(ctx context.Context, service, method string, params, out any) error {
	in := &InvokeRequest{Service: service, Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return err
		}
		in.Params = raw
	}
	if c.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, constants.MetadataSessionID, c.token)
	}

	resp := new(InvokeResponse)
	var trailer metadata.MD
	err := c.conn.Invoke(ctx, InvokeMethod, in, resp,
		grpc.CallContentSubtype(codecName),
		grpc.Trailer(&trailer),
	)
	if err != nil {
		return faultFromStatus(err, trailer)
	}

	if out != nil && len(resp.Result) > 0 {
		return json.Unmarshal(resp.Result, out)
	}
	return nil
}

// faultFromStatus rebuilds a Fault from a status and its trailers. Errors
// without fault trailers come from the transport and are returned as is.
func faultFromStatus(err error, trailer metadata.MD) error {
	codes := trailer.Get(constants.MetadataFaultCode)
	if len(codes) == 0 {
		return err
	}

	fault := &Fault{
		Code:    codes[0],
		Message: status.Convert(err).Message(),
		Status:  apperrors.StatusForCode(codes[0]),
	}
	if ids := trailer.Get(constants.MetadataCorrelationID); len(ids) > 0 {
		fault.CorrelationID = ids[0]
	}
	if stamps := trailer.Get(constants.MetadataTimestamp); len(stamps) > 0 {
		fault.Timestamp, _ = strconv.ParseInt(stamps[0], 10, 64)
	}
	return fault
}
