package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	"github.com/rhq-project/rhq-coregui/internal/model"
	ctxutil "github.com/rhq-project/rhq-coregui/pkg/context"
	"github.com/rhq-project/rhq-coregui/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	tokens map[string]*model.Subject
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*model.Subject, string, error) {
	subject, ok := s.tokens[token]
	if !ok {
		return nil, "", apperrors.ErrSessionInvalid
	}
	return subject, "sess-" + token, nil
}

type echoRequest struct {
	Name  string `json:"name" binding:"required"`
	Count int    `json:"count" binding:"gte=0"`
}

type echoResponse struct {
	Greeting string `json:"greeting"`
	Caller   string `json:"caller"`
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(false)
	d := NewDispatcher(&stubAuthenticator{tokens: map[string]*model.Subject{
		"good": {ID: 2, Name: "rhqadmin", Factive: true},
	}}, m)
	d.now = func() time.Time { return time.UnixMilli(1700000000123) }

	require.NoError(t, d.RegisterService("EchoService",
		Method{Name: "echo", Handler: Handle(func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
			subject, err := SubjectFrom(ctx)
			if err != nil {
				return nil, err
			}
			return &echoResponse{Greeting: "hello " + req.Name, Caller: subject.Name}, nil
		})},
		Method{Name: "ping", Public: true, Handler: func(ctx context.Context, _ Decoder) (any, error) {
			_, authenticated := ctxutil.GetSubject(ctx)
			return authenticated, nil
		}},
		Method{Name: "explode", Handler: func(context.Context, Decoder) (any, error) {
			panic("boom")
		}},
		Method{Name: "fail", Handler: func(context.Context, Decoder) (any, error) {
			return nil, apperrors.WrapError(apperrors.Detail(apperrors.ErrNotFound, "Resource[id=7] not found"),
				errors.New("record not found"))
		}},
		Method{Name: "leak", Handler: func(context.Context, Decoder) (any, error) {
			return nil, errors.New("pq: relation rhq_resource does not exist")
		}},
	))
	return d, m
}

func requireFault(t *testing.T, err error) *Fault {
	t.Helper()
	require.Error(t, err)
	var fault *Fault
	require.True(t, errors.As(err, &fault), "expected *Fault, got %T", err)
	return fault
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	d, _ := newTestDispatcher(t)

	err := d.Register("EchoService", Method{Name: "echo", Handler: func(context.Context, Decoder) (any, error) { return nil, nil }})
	assert.Error(t, err)

	assert.Error(t, d.Register("", Method{Name: "x"}))
}

func TestMethodsSorted(t *testing.T) {
	d, _ := newTestDispatcher(t)
	assert.Equal(t, []string{
		"EchoService/echo",
		"EchoService/explode",
		"EchoService/fail",
		"EchoService/leak",
		"EchoService/ping",
	}, d.Methods())
}

func TestCallAuthenticatesAndDecodes(t *testing.T) {
	d, m := newTestDispatcher(t)

	result, err := d.Call(context.Background(), Request{
		Service:   "EchoService",
		Method:    "echo",
		SessionID: "good",
		Params:    json.RawMessage(`{"name":"world"}`),
	})

	require.NoError(t, err)
	assert.Equal(t, &echoResponse{Greeting: "hello world", Caller: "rhqadmin"}, result)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCCalls().WithLabelValues("EchoService", "echo", metrics.OutcomeSuccess)))
}

func TestCallWithoutSession(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := d.Call(context.Background(), Request{Service: "EchoService", Method: "echo", Params: json.RawMessage(`{"name":"x"}`)})
	fault := requireFault(t, err)
	assert.Equal(t, apperrors.ErrUnauthorized.Code, fault.Code)
	assert.Equal(t, http.StatusUnauthorized, fault.Status)

	_, err = d.Call(context.Background(), Request{Service: "EchoService", Method: "echo", SessionID: "bad"})
	fault = requireFault(t, err)
	assert.Equal(t, apperrors.ErrSessionInvalid.Code, fault.Code)
}

func TestPublicMethodSkipsAuthentication(t *testing.T) {
	d, _ := newTestDispatcher(t)

	result, err := d.Call(context.Background(), Request{Service: "EchoService", Method: "ping", SessionID: "bad"})
	require.NoError(t, err)
	assert.Equal(t, false, result)
}

func TestUnknownMethodFault(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := d.Call(context.Background(), Request{Service: "EchoService", Method: "missing", SessionID: "good"})
	fault := requireFault(t, err)
	assert.Equal(t, apperrors.ErrUnknownMethod.Code, fault.Code)
	assert.Equal(t, "unknown service method EchoService/missing", fault.Message)
	assert.Equal(t, http.StatusNotFound, fault.Status)
}

func TestValidationFault(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := d.Call(context.Background(), Request{
		Service: "EchoService", Method: "echo", SessionID: "good",
		Params: json.RawMessage(`{"count":-1}`),
	})
	fault := requireFault(t, err)
	assert.Equal(t, apperrors.ErrInvalidInput.Code, fault.Code)
	assert.Equal(t, "name must not be empty; count must be greater than or equal to 0", fault.Message)

	_, err = d.Call(context.Background(), Request{
		Service: "EchoService", Method: "echo", SessionID: "good",
		Params: json.RawMessage(`{"name":`),
	})
	fault = requireFault(t, err)
	assert.Equal(t, "malformed request parameters", fault.Message)
}

func TestFaultCarriesCorrelationData(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := d.Call(context.Background(), Request{Service: "EchoService", Method: "fail", SessionID: "good"})
	fault := requireFault(t, err)

	assert.Equal(t, "Resource[id=7] not found", fault.Message)
	assert.Equal(t, "1700000000123", fault.CorrelationID)
	assert.Equal(t, int64(1700000000123), fault.Timestamp)
	assert.Equal(t, http.StatusNotFound, fault.Status)
}

func TestFaultHidesNonDomainErrors(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := d.Call(context.Background(), Request{Service: "EchoService", Method: "leak", SessionID: "good"})
	fault := requireFault(t, err)

	assert.Equal(t, apperrors.ErrInternal.Message, fault.Message)
	assert.NotContains(t, fault.Error(), "pq:")
	assert.Equal(t, http.StatusInternalServerError, fault.Status)
}

func TestPanicBecomesFault(t *testing.T) {
	d, m := newTestDispatcher(t)

	_, err := d.Call(context.Background(), Request{Service: "EchoService", Method: "explode", SessionID: "good"})
	fault := requireFault(t, err)

	assert.Equal(t, apperrors.ErrInternal.Code, fault.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCCalls().WithLabelValues("EchoService", "explode", metrics.OutcomePanic)))
}

type panickingAuthenticator struct{}

func (panickingAuthenticator) Authenticate(context.Context, string) (*model.Subject, string, error) {
	panic("session store exploded")
}

func TestAuthenticationPanicBecomesFault(t *testing.T) {
	m := metrics.New(false)
	d := NewDispatcher(panickingAuthenticator{}, m)
	d.now = func() time.Time { return time.UnixMilli(1700000000123) }
	require.NoError(t, d.Register("EchoService", Method{Name: "ping", Handler: func(context.Context, Decoder) (any, error) {
		return true, nil
	}}))

	var (
		err    error
		called bool
	)
	require.NotPanics(t, func() {
		_, err = d.Call(context.Background(), Request{Service: "EchoService", Method: "ping", SessionID: "good"})
		called = true
	})
	require.True(t, called)

	fault := requireFault(t, err)
	assert.Equal(t, apperrors.ErrInternal.Code, fault.Code)
	assert.Equal(t, "1700000000123", fault.CorrelationID)
	assert.NotContains(t, fault.Message, "exploded")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCCalls().WithLabelValues("EchoService", "ping", metrics.OutcomePanic)))
}

func TestNewFaultMessageChain(t *testing.T) {
	err := apperrors.WrapError(apperrors.ErrInvalidInput, apperrors.Detail(apperrors.ErrUnknownFilter, "unknown filter foo"))
	fault := NewFault(err, time.UnixMilli(42))

	assert.Equal(t, "invalid input -> unknown filter foo", fault.Message)
	assert.Equal(t, "42", fault.CorrelationID)
}
