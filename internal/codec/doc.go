// Package codec converts between channel values and native map SDK types.
//
// Every function is a pure mapping rule: decoders take a value.Value and
// either return a fully built native value or a *value.ShapeError, encoders
// never fail. Nothing here holds state, so all functions are safe for
// concurrent use.
//
// Wire shapes on the channel side:
//
//	Point   {lat: double, lng: double}
//	Bounds  {southWest: Point, northEast: Point}
//	Camera  {target: Point, zoom: double, tilt: double, bearing: double}
//	Color   int, ARGB packed
//	Enum    string from the enum's closed set
//
// Unknown enum strings decode to a documented default, except alignment,
// which rejects them. The alignment encoder swaps the diagonal corners
// (topLeft<->bottomRight, topRight<->bottomLeft) relative to the decoder;
// receivers on the plugin side rely on that mapping.
package codec
