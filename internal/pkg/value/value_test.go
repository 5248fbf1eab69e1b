package value

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestExtractors(t *testing.T) {
	testCases := []struct {
		name    string
		extract func(Value) (any, error)
		input   Value
		want    any
		wantErr bool
	}{
		{name: "string", extract: wrap(AsString), input: String("fly"), want: "fly"},
		{name: "string from int", extract: wrap(AsString), input: Int(1), wantErr: true},
		{name: "int", extract: wrap(AsInt), input: Int(-7), want: int64(-7)},
		{name: "int from double", extract: wrap(AsInt), input: Double(3), wantErr: true},
		{name: "double", extract: wrap(AsDouble), input: Double(37.5), want: 37.5},
		{name: "double widens int", extract: wrap(AsDouble), input: Int(127), want: 127.0},
		{name: "double from string", extract: wrap(AsDouble), input: String("1.0"), wantErr: true},
		{name: "bool", extract: wrap(AsBool), input: Bool(true), want: true},
		{name: "bool from null", extract: wrap(AsBool), input: Null(), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.extract(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrShape))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func wrap[T any](fn func(Value) (T, error)) func(Value) (any, error) {
	return func(v Value) (any, error) { return fn(v) }
}

func TestField_MissingKey(t *testing.T) {
	d, err := AsDict(Map(map[string]Value{"lat": Double(1)}))
	require.NoError(t, err)

	_, err = FieldAs(d, "lng", AsDouble)
	var se *ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "lng", se.Key)
	assert.Contains(t, err.Error(), `missing key "lng"`)
}

func TestFieldAs_LocatesNestedError(t *testing.T) {
	d, err := AsDict(Map(map[string]Value{"zoom": String("near")}))
	require.NoError(t, err)

	_, err = FieldAs(d, "zoom", AsDouble)
	var se *ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "zoom", se.Path)
	assert.Equal(t, "double", se.Want)
	assert.Equal(t, "string", se.Got)
}

func TestOptionalAs(t *testing.T) {
	d := map[string]Value{"present": String("fly"), "nil": Null()}

	got, err := OptionalAs(d, "present", "none", AsString)
	require.NoError(t, err)
	assert.Equal(t, "fly", got)

	got, err = OptionalAs(d, "nil", "none", AsString)
	require.NoError(t, err)
	assert.Equal(t, "none", got)

	got, err = OptionalAs(d, "absent", "none", AsString)
	require.NoError(t, err)
	assert.Equal(t, "none", got)
}

func TestArrOf_AbortsOnFirstFailure(t *testing.T) {
	v := List(Int(1), Int(2), String("x"), Int(4))

	out, err := ArrOf(v, AsInt)
	assert.Nil(t, out)
	var se *ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "[2]", se.Path)

	out, err = ArrOf(List(), AsInt)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDictOf(t *testing.T) {
	v := Map(map[string]Value{"a": Int(1), "b": Int(2)})
	out, err := DictOf(v, AsInt)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"a": 1, "b": 2}, out)

	_, err = DictOf(Map(map[string]Value{"a": Int(1), "b": Bool(false)}), AsInt)
	var se *ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "b", se.Path)
}

func TestAt_BuildsPath(t *testing.T) {
	err := At(At(At(&ShapeError{Want: "double", Got: "null"}, "lat"), "[3]"), "coords")
	assert.Equal(t, "shape error at coords[3].lat: want double, got null", err.Error())

	plain := errors.New("boom")
	assert.Same(t, plain, At(plain, "x"))
}

func TestImmutability(t *testing.T) {
	src := map[string]Value{"a": Int(1)}
	v := Map(src)
	src["a"] = Int(2)

	d, err := AsDict(v)
	require.NoError(t, err)
	d["b"] = Int(3)

	assert.Equal(t, 1, v.Len())
	got, _ := AsInt(mustField(t, v, "a"))
	assert.Equal(t, int64(1), got)
}

func mustField(t *testing.T, v Value, key string) Value {
	t.Helper()
	d, err := AsDict(v)
	require.NoError(t, err)
	out, err := Field(d, key)
	require.NoError(t, err)
	return out
}

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"lat":  37.5,
		"n":    uint8(3),
		"list": []any{"a", nil, true},
	})
	require.NoError(t, err)

	expected := Map(map[string]Value{
		"lat":  Double(37.5),
		"n":    Int(3),
		"list": List(String("a"), Null(), Bool(true)),
	})
	assert.True(t, Equal(expected, v), "got %s", v)

	_, err = FromAny(struct{}{})
	assert.Error(t, err)

	big, err := FromAny(uint64(math.MaxUint64))
	require.NoError(t, err)
	assert.Equal(t, KindDouble, big.Kind())
}

func TestJSON_NumberKinds(t *testing.T) {
	v, err := ParseJSON([]byte(`{"lat": 37.5, "lng": 127, "c": 4294967295, "e": 1e3, "big": 92233720368547758070}`))
	require.NoError(t, err)
	d, err := AsDict(v)
	require.NoError(t, err)

	assert.Equal(t, KindDouble, d["lat"].Kind())
	assert.Equal(t, KindInt, d["lng"].Kind())
	assert.Equal(t, KindInt, d["c"].Kind())
	assert.Equal(t, KindDouble, d["e"].Kind())
	assert.Equal(t, KindDouble, d["big"].Kind())
}

func TestJSON_RoundTripKeepsKinds(t *testing.T) {
	v := Map(map[string]Value{
		"lng":     Double(127),
		"hash":    Int(42),
		"caption": String("café \"quoted\""),
		"none":    Null(),
		"levels":  List(Map(map[string]Value{"name": String("B1")})),
	})

	data, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"caption":"café \"quoted\"","hash":42,"levels":[{"name":"B1"}],"lng":127.0,"none":null}`, string(data))

	back, err := ParseJSON(data)
	require.NoError(t, err)
	assert.True(t, Equal(v, back), "got %s", back)
}

func TestJSON_RejectsNaN(t *testing.T) {
	_, err := Double(math.NaN()).MarshalJSON()
	assert.Error(t, err)
}

func TestProto_RoundTrip(t *testing.T) {
	v := Map(map[string]Value{
		"target": Map(map[string]Value{"lat": Double(37.5), "lng": Double(127.25)}),
		"zoom":   Int(14),
		"tags":   List(String("a"), Bool(false), Null()),
	})

	pv, err := ToProto(v)
	require.NoError(t, err)

	data, err := proto.Marshal(pv)
	require.NoError(t, err)
	decoded := &structpb.Value{}
	require.NoError(t, proto.Unmarshal(data, decoded))

	back := FromProto(decoded)
	assert.True(t, Equal(v, back), "got %s", back)
}

func TestProto_IntegralDoublesComeBackAsInt(t *testing.T) {
	back := FromProto(structpb.NewNumberValue(127))
	assert.Equal(t, KindInt, back.Kind())

	f, err := AsDouble(back)
	require.NoError(t, err)
	assert.Equal(t, 127.0, f)

	assert.Equal(t, KindDouble, FromProto(structpb.NewNumberValue(math.Inf(1))).Kind())
	assert.True(t, FromProto(nil).IsNull())
}

func TestProto_RejectsWideInts(t *testing.T) {
	_, err := ToProto(Int(1<<53 + 1))
	assert.Error(t, err)
}
