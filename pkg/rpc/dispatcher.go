// Package rpc routes Service/Method calls to registered handlers. It owns
// authentication, request decoding, validation and the translation of every
// failure into a Fault, so handlers only delegate and wrap results.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/model"
	ctxutil "github.com/rhq-project/rhq-coregui/pkg/context"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"github.com/rhq-project/rhq-coregui/pkg/metrics"
	"github.com/rhq-project/rhq-coregui/pkg/validation"
)

// Authenticator resolves a session token to its subject and session id.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Subject, string, error)
}

// Decoder fills v from the call parameters and validates it.
type Decoder func(v any) error

type HandlerFunc func(ctx context.Context, decode Decoder) (any, error)

// Handle adapts a typed function into a HandlerFunc.
func Handle[Req any, Resp any](fn func(ctx context.Context, req *Req) (Resp, error)) HandlerFunc {
	return func(ctx context.Context, decode Decoder) (any, error) {
		req := new(Req)
		if err := decode(req); err != nil {
			return nil, err
		}
		return fn(ctx, req)
	}
}

// Method is one registered entry. Public methods run without a session.
type Method struct {
	Name    string
	Handler HandlerFunc
	Public  bool
}

type Request struct {
	Service   string
	Method    string
	SessionID string
	Params    json.RawMessage
}

type Dispatcher struct {
	mu        sync.RWMutex
	methods   map[string]Method
	auth      Authenticator
	validator *validation.Validator
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewDispatcher builds an empty registry. m may be nil.
func NewDispatcher(auth Authenticator, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		methods:   make(map[string]Method),
		auth:      auth,
		validator: validation.New(),
		metrics:   m,
		now:       time.Now,
	}
}

func qualified(service, method string) string {
	return service + "/" + method
}

func (d *Dispatcher) Register(service string, m Method) error {
	if service == "" || m.Name == "" || m.Handler == nil {
		return fmt.Errorf("rpc: incomplete registration %q", qualified(service, m.Name))
	}
	name := qualified(service, m.Name)

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.methods[name]; exists {
		return fmt.Errorf("rpc: method %s already registered", name)
	}
	d.methods[name] = m
	return nil
}

// RegisterService registers every method of one service, stopping at the
// first failure.
func (d *Dispatcher) RegisterService(service string, methods ...Method) error {
	for _, m := range methods {
		if err := d.Register(service, m); err != nil {
			return err
		}
	}
	return nil
}

// Methods lists the registered Service/Method names in order.
func (d *Dispatcher) Methods() []string {
	d.mu.RLock()
	names := make([]string, 0, len(d.methods))
	for name := range d.methods {
		names = append(names, name)
	}
	d.mu.RUnlock()

	sort.Strings(names)
	return names
}

func (d *Dispatcher) lookup(service, method string) (Method, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.methods[qualified(service, method)]
	return m, ok
}

type panicError struct {
	value any
	stack []byte
}

func (p *panicError) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}

// Call runs one request. A non-nil error is always a *Fault.
func (d *Dispatcher) Call(ctx context.Context, req Request) (any, error) {
	start := d.now()
	name := qualified(req.Service, req.Method)

	ctx = ctxutil.WithRPCMethod(ctx, name)
	ctx = ctxutil.WithValue(ctx, ctxutil.ModuleKey, "rpc")
	ctx = ctxutil.WithValue(ctx, ctxutil.FunctionKey, name)

	m, ok := d.lookup(req.Service, req.Method)
	if !ok {
		fault := d.fault(ctx, req, apperrors.Detail(apperrors.ErrUnknownMethod, "unknown service method %s", name))
		d.metrics.ObserveRPC("unknown", "unknown", metrics.OutcomeFault, time.Since(start))
		return nil, fault
	}

	result, err := d.invoke(ctx, m, req)
	if err != nil {
		outcome := metrics.OutcomeFault
		var p *panicError
		if errors.As(err, &p) {
			outcome = metrics.OutcomePanic
		}
		fault := d.fault(ctx, req, err)
		d.metrics.ObserveRPC(req.Service, req.Method, outcome, time.Since(start))
		return nil, fault
	}

	d.metrics.ObserveRPC(req.Service, req.Method, metrics.OutcomeSuccess, time.Since(start))
	logger.DebugWithContext(ctx, "RPC call completed").
		Duration(time.Since(start)).
		Log()
	return result, nil
}

// invoke authenticates, decodes and runs one call. A panic anywhere in it
// becomes a *panicError.
func (d *Dispatcher) invoke(ctx context.Context, m Method, req Request) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, &panicError{value: r, stack: debug.Stack()}
		}
	}()

	if req.SessionID != "" {
		ctx = ctxutil.WithSessionToken(ctx, req.SessionID)
	}
	if !m.Public {
		if req.SessionID == "" {
			return nil, apperrors.ErrUnauthorized
		}
		subject, sessionID, err := d.auth.Authenticate(ctx, req.SessionID)
		if err != nil {
			return nil, err
		}
		ctx = ctxutil.WithSubject(ctx, subject)
		ctx = ctxutil.WithSessionID(ctx, sessionID)
	}
	return m.Handler(ctx, d.decoder(req.Params))
}

func (d *Dispatcher) decoder(params json.RawMessage) Decoder {
	return func(v any) error {
		trimmed := bytes.TrimSpace(params)
		if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
			if err := json.Unmarshal(trimmed, v); err != nil {
				return apperrors.WrapError(apperrors.Detail(apperrors.ErrInvalidInput, "malformed request parameters"), err)
			}
		}
		if messages := d.validator.Struct(v); len(messages) > 0 {
			return apperrors.Detail(apperrors.ErrInvalidInput, "%s", strings.Join(messages, "; "))
		}
		return nil
	}
}

// fault logs err in full and returns the client-safe translation.
func (d *Dispatcher) fault(ctx context.Context, req Request, err error) *Fault {
	fault := NewFault(err, d.now())

	builder := logger.WarnWithContext(ctx, "RPC call failed")
	if fault.Status >= http.StatusInternalServerError {
		builder = logger.ErrorWithContext(ctx, "RPC call failed")
	}
	builder = builder.
		String("service", req.Service).
		String("method", req.Method).
		String("correlation_id", fault.CorrelationID).
		Int64("timestamp", fault.Timestamp).
		String("fault_code", fault.Code).
		Err(err)

	var p *panicError
	if errors.As(err, &p) {
		builder = builder.String("stack", string(p.stack))
	}
	builder.Log()
	return fault
}

// SubjectFrom returns the caller stashed by the dispatcher, or a session
// fault for public methods that need one.
func SubjectFrom(ctx context.Context) (*model.Subject, error) {
	subject, ok := ctxutil.GetSubject(ctx)
	if !ok {
		return nil, apperrors.ErrUnauthorized
	}
	return subject, nil
}
