package domain

import (
	"encoding/json"
	"testing"
)

func TestLineString_JSON(t *testing.T) {
	ls := NewLineString([]LatLng{{Lat: 37.5, Lng: 127}, {Lat: 37.6, Lng: 127.1}})

	data, err := json.Marshal(ls)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `[{"lat":37.5,"lng":127},{"lat":37.6,"lng":127.1}]`; string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}

	var got LineString
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Len() != 2 || got.Points()[1] != (LatLng{Lat: 37.6, Lng: 127.1}) {
		t.Errorf("unexpected points %+v", got.Points())
	}

	if err := json.Unmarshal([]byte(`{"lat":1}`), &got); err == nil {
		t.Error("expected error for non-array input")
	}
}

func TestLineString_Empty(t *testing.T) {
	var ls LineString
	data, err := json.Marshal(ls)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected [], got %s", data)
	}
	if ls.LengthMeters() != 0 {
		t.Errorf("expected zero length, got %f", ls.LengthMeters())
	}
}
