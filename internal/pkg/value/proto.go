package value

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"
)

// maxExactInt is the largest magnitude a float64 holds without losing
// integer precision.
const maxExactInt = 1 << 53

// ToProto converts v into a protobuf Struct value. structpb has a single
// number kind, so ints beyond ±2^53 are rejected rather than rounded.
func ToProto(v Value) (*structpb.Value, error) {
	switch v.kind {
	case KindNull:
		return structpb.NewNullValue(), nil
	case KindBool:
		return structpb.NewBoolValue(v.boolVal), nil
	case KindInt:
		if v.intVal > maxExactInt || v.intVal < -maxExactInt {
			return nil, fmt.Errorf("value: int %d not representable as a protobuf number", v.intVal)
		}
		return structpb.NewNumberValue(float64(v.intVal)), nil
	case KindDouble:
		return structpb.NewNumberValue(v.doubleVal), nil
	case KindString:
		return structpb.NewStringValue(v.strVal), nil
	case KindList:
		items := make([]*structpb.Value, len(v.listVal))
		for i, item := range v.listVal {
			pv, err := ToProto(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items[i] = pv
		}
		return structpb.NewListValue(&structpb.ListValue{Values: items}), nil
	case KindMap:
		fields := make(map[string]*structpb.Value, len(v.mapVal))
		for k, item := range v.mapVal {
			pv, err := ToProto(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			fields[k] = pv
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil
	}
	return nil, fmt.Errorf("value: unknown kind %d", v.kind)
}

// FromProto converts a protobuf Struct value. Finite integral numbers within
// ±2^53 become Int, every other number Double. A nil pointer is Null.
func FromProto(pv *structpb.Value) Value {
	switch k := pv.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return Bool(k.BoolValue)
	case *structpb.Value_NumberValue:
		f := k.NumberValue
		if f == math.Trunc(f) && math.Abs(f) <= maxExactInt {
			return Int(int64(f))
		}
		return Double(f)
	case *structpb.Value_StringValue:
		return String(k.StringValue)
	case *structpb.Value_ListValue:
		src := k.ListValue.GetValues()
		items := make([]Value, len(src))
		for i, item := range src {
			items[i] = FromProto(item)
		}
		return Value{kind: KindList, listVal: items}
	case *structpb.Value_StructValue:
		return FromProtoStruct(k.StructValue)
	}
	return Null()
}

// FromProtoStruct converts a protobuf Struct into a map value.
func FromProtoStruct(s *structpb.Struct) Value {
	fields := s.GetFields()
	m := make(map[string]Value, len(fields))
	for k, item := range fields {
		m[k] = FromProto(item)
	}
	return Value{kind: KindMap, mapVal: m}
}
