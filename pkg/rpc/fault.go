package rpc

import (
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/rhq-project/rhq-coregui/internal/errors"
)

// Fault is the only error shape a client ever sees. It carries the domain
// message chain and enough to find the full error in the server log.
type Fault struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlation_id"`
	Timestamp     int64  `json:"timestamp"`
	Status        int    `json:"-"`
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s (correlation id %s)", f.Message, f.CorrelationID)
}

// NewFault translates err at time now. The correlation id is the epoch
// millisecond timestamp, which is also what the server log records.
func NewFault(err error, now time.Time) *Fault {
	millis := now.UnixMilli()

	message := apperrors.AllMessages(err)
	if message == "" {
		message = apperrors.ErrInternal.Message
	}
	code := apperrors.CodeOf(err)

	return &Fault{
		Code:          code,
		Message:       message,
		CorrelationID: strconv.FormatInt(millis, 10),
		Timestamp:     millis,
		Status:        apperrors.StatusForCode(code),
	}
}
