package channel

import (
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/samirrijal/mapbridge/internal/pkg/value"
)

// Supported body encodings.
const (
	ContentTypeJSON     = "application/json"
	ContentTypeProtobuf = "application/x-protobuf"
)

// IsProtobuf reports whether a Content-Type or Accept header selects the
// protobuf encoding. Parameters such as charset are ignored.
func IsProtobuf(header string) bool {
	mt, _, _ := strings.Cut(header, ";")
	return strings.EqualFold(strings.TrimSpace(mt), ContentTypeProtobuf)
}

// DecodeCall parses a request body in the given content type.
func DecodeCall(contentType string, body []byte) (MethodCall, error) {
	var call MethodCall
	if IsProtobuf(contentType) {
		var s structpb.Struct
		if err := proto.Unmarshal(body, &s); err != nil {
			return call, fmt.Errorf("decode protobuf call: %w", err)
		}
		fields := s.GetFields()
		call.Method = fields["method"].GetStringValue()
		call.Arguments = value.FromProto(fields["arguments"])
	} else if err := json.Unmarshal(body, &call); err != nil {
		return call, fmt.Errorf("decode json call: %w", err)
	}
	if call.Method == "" {
		return call, fmt.Errorf("decode call: method is required")
	}
	return call, nil
}

// EncodeCall serializes a call. Used by clients and tests.
func EncodeCall(contentType string, call MethodCall) ([]byte, error) {
	if !IsProtobuf(contentType) {
		return json.Marshal(call)
	}
	args, err := value.ToProto(call.Arguments)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(&structpb.Struct{Fields: map[string]*structpb.Value{
		"method":    structpb.NewStringValue(call.Method),
		"arguments": args,
	}})
}

// EncodeEnvelope serializes env in the given content type.
func EncodeEnvelope(contentType string, env Envelope) ([]byte, error) {
	if !IsProtobuf(contentType) {
		return json.Marshal(env)
	}
	result, err := value.ToProto(env.Result)
	if err != nil {
		return nil, err
	}
	fields := map[string]*structpb.Value{"result": result}
	if env.Error != nil {
		details, err := value.ToProto(env.Error.Details)
		if err != nil {
			return nil, err
		}
		fields["error"] = structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"code":    structpb.NewStringValue(env.Error.Code),
			"message": structpb.NewStringValue(env.Error.Message),
			"details": details,
		}})
	}
	return proto.Marshal(&structpb.Struct{Fields: fields})
}

// DecodeEnvelope is the inverse of EncodeEnvelope.
func DecodeEnvelope(contentType string, body []byte) (Envelope, error) {
	var env Envelope
	if !IsProtobuf(contentType) {
		if err := json.Unmarshal(body, &env); err != nil {
			return env, fmt.Errorf("decode json envelope: %w", err)
		}
		return env, nil
	}
	var s structpb.Struct
	if err := proto.Unmarshal(body, &s); err != nil {
		return env, fmt.Errorf("decode protobuf envelope: %w", err)
	}
	fields := s.GetFields()
	env.Result = value.FromProto(fields["result"])
	if ef := fields["error"].GetStructValue(); ef != nil {
		env.Error = &ChannelError{
			Code:    ef.GetFields()["code"].GetStringValue(),
			Message: ef.GetFields()["message"].GetStringValue(),
			Details: value.FromProto(ef.GetFields()["details"]),
		}
	}
	return env, nil
}

// MarshalEvent encodes an event as JSON for the broker and WebSocket relay.
func MarshalEvent(e Event) ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEvent decodes an event produced by MarshalEvent.
func UnmarshalEvent(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("decode event: %w", err)
	}
	return e, nil
}
