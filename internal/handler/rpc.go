package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rhq-project/rhq-coregui/internal/constants"
	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
	ctxutil "github.com/rhq-project/rhq-coregui/pkg/context"
	"github.com/rhq-project/rhq-coregui/pkg/logger"
	"github.com/rhq-project/rhq-coregui/pkg/rpc"
)

const maxRequestBody = 4 << 20

// RPCHandler exposes the dispatcher over HTTP. The request body is the JSON
// parameter object of the method; the session token travels in the
// RHQ-Session-Id header or as a bearer token.
type RPCHandler struct {
	dispatcher *rpc.Dispatcher
}

func NewRPCHandler(dispatcher *rpc.Dispatcher) *RPCHandler {
	return &RPCHandler{dispatcher: dispatcher}
}

// Invoke handles POST /api/v1/rpc/:service/:method.
func (h *RPCHandler) Invoke(c *gin.Context) {
	h.call(c, c.Param("service"), c.Param("method"))
}

// Methods lists the registered Service/Method names.
func (h *RPCHandler) Methods(c *gin.Context) {
	c.JSON(http.StatusOK, constants.BuildResultResponse(map[string]any{
		constants.ResponseFieldMethods: h.dispatcher.Methods(),
	}))
}

func (h *RPCHandler) call(c *gin.Context, service, method string) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RPC")

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody))
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to read RPC request body").
			String("service", service).
			String("method", method).
			Err(err).
			Log()
		h.renderFault(c, rpc.NewFault(
			apperrors.WrapError(apperrors.Detail(apperrors.ErrInvalidInput, "request body could not be read"), err),
			time.Now()))
		return
	}

	result, err := h.dispatcher.Call(ctx, rpc.Request{
		Service:   service,
		Method:    method,
		SessionID: ctxutil.SessionTokenFromRequest(c.Request),
		Params:    body,
	})
	if err != nil {
		h.renderFault(c, err)
		return
	}
	c.JSON(http.StatusOK, constants.BuildResultResponse(result))
}

func (h *RPCHandler) renderFault(c *gin.Context, err error) {
	var fault *rpc.Fault
	if !errors.As(err, &fault) {
		fault = rpc.NewFault(err, time.Now())
	}
	c.JSON(fault.Status, constants.BuildFaultResponse(fault))
}
