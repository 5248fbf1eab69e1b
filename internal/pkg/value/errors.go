package value

import (
	"errors"
	"fmt"
	"strings"
)

// ErrShape is wrapped by every ShapeError so callers can test with errors.Is.
var ErrShape = errors.New("shape error")

// ShapeError reports a required key that is missing or a value of the wrong
// kind. Path locates the offending value from the root of the decoded input,
// e.g. "target.lat" or "coords[3].lng".
type ShapeError struct {
	Path string
	Key  string // set when a required key is missing
	Want string
	Got  string
}

func (e *ShapeError) Error() string {
	where := e.Path
	if where == "" {
		where = "$"
	}
	if e.Key != "" {
		return fmt.Sprintf("shape error at %s: missing key %q", where, e.Key)
	}
	return fmt.Sprintf("shape error at %s: want %s, got %s", where, e.Want, e.Got)
}

func (e *ShapeError) Unwrap() error { return ErrShape }

// At prefixes the path of a ShapeError with seg, which is either a map key
// or an index in the form "[i]". Errors of any other type pass through.
func At(err error, seg string) error {
	var se *ShapeError
	if !errors.As(err, &se) {
		return err
	}
	out := *se
	out.Path = joinPath(seg, se.Path)
	return &out
}

func joinPath(seg, rest string) string {
	if rest == "" {
		return seg
	}
	if strings.HasPrefix(rest, "[") {
		return seg + rest
	}
	return seg + "." + rest
}

func mismatch(want string, v Value) error {
	return &ShapeError{Want: want, Got: v.kind.String()}
}
