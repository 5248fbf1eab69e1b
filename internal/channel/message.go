// Package channel defines the messages exchanged over the plugin channel:
// method calls coming in, result envelopes going back and events pushed to
// the plugin side.
package channel

import (
	"errors"
	"fmt"

	"github.com/samirrijal/mapbridge/internal/pkg/value"
)

// Error codes carried by ChannelError.
const (
	CodeShapeError    = "shape_error"
	CodeUnknownMethod = "unknown_method"
	CodeNotFound      = "not_found"
	CodeInternal      = "internal_error"
)

// Event names pushed to the plugin side.
const (
	EventCameraChange          = "onCameraChange"
	EventCameraIdle            = "onCameraIdle"
	EventSymbolTapped          = "onSymbolTapped"
	EventSelectedIndoorChanged = "onSelectedIndoorChanged"
)

// MethodCall is one inbound call.
type MethodCall struct {
	Method    string      `json:"method"`
	Arguments value.Value `json:"arguments"`
}

// Args returns the call arguments as a map. A call without arguments yields
// an empty map.
func (c MethodCall) Args() (map[string]value.Value, error) {
	if c.Arguments.IsNull() {
		return map[string]value.Value{}, nil
	}
	return value.AsDict(c.Arguments)
}

// ChannelError is the failure half of an Envelope.
type ChannelError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details value.Value `json:"details"`
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Envelope is the reply to a MethodCall. Exactly one of Result and Error is
// meaningful; Result is Null when Error is set.
type Envelope struct {
	Result value.Value   `json:"result"`
	Error  *ChannelError `json:"error,omitempty"`
}

// Success wraps a result.
func Success(result value.Value) Envelope {
	return Envelope{Result: result}
}

// Failure builds an error envelope. Shape errors keep their path and key in
// Details so the plugin side can point at the offending argument.
func Failure(code string, err error) Envelope {
	ce := &ChannelError{Code: code, Message: err.Error()}
	var se *value.ShapeError
	if errors.As(err, &se) {
		details := map[string]value.Value{"path": value.String(se.Path)}
		if se.Key != "" {
			details["missingKey"] = value.String(se.Key)
		} else {
			details["want"] = value.String(se.Want)
			details["got"] = value.String(se.Got)
		}
		ce.Details = value.Map(details)
	}
	return Envelope{Error: ce}
}

// Event is a native occurrence forwarded to the plugin side of one map.
type Event struct {
	MapID   string      `json:"map_id"`
	Name    string      `json:"name"`
	Payload value.Value `json:"payload"`
}
