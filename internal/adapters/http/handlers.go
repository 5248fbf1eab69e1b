package http

import (
	"mime"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/mapbridge/internal/channel"
	"github.com/samirrijal/mapbridge/internal/codec"
	"github.com/samirrijal/mapbridge/internal/core/usecases"
	"github.com/samirrijal/mapbridge/internal/pkg/value"
)

// envelopeStatus maps a channel error code to the HTTP status of the reply.
func envelopeStatus(env channel.Envelope) int {
	if env.Error == nil {
		return fiber.StatusOK
	}
	switch env.Error.Code {
	case channel.CodeShapeError:
		return fiber.StatusUnprocessableEntity
	case channel.CodeUnknownMethod:
		return fiber.StatusBadRequest
	case channel.CodeNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// supportedBody reports whether a request Content-Type can carry a call.
func supportedBody(contentType string) bool {
	if contentType == "" {
		return true // treated as JSON
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == channel.ContentTypeJSON || mt == channel.ContentTypeProtobuf
}

// replyType picks the reply encoding: Accept when it names protobuf or JSON,
// the request encoding otherwise.
func replyType(c *fiber.Ctx) string {
	accept := c.Get(fiber.HeaderAccept)
	switch {
	case strings.Contains(accept, channel.ContentTypeProtobuf):
		return channel.ContentTypeProtobuf
	case strings.Contains(accept, channel.ContentTypeJSON):
		return channel.ContentTypeJSON
	case channel.IsProtobuf(c.Get(fiber.HeaderContentType)):
		return channel.ContentTypeProtobuf
	}
	return channel.ContentTypeJSON
}

// InvokeHandler runs one channel method call against the map in the path.
// The body is a MethodCall in JSON or protobuf; the reply is an Envelope.
func InvokeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		contentType := c.Get(fiber.HeaderContentType)
		if !supportedBody(contentType) {
			return errUnsupportedMediaType(c, "content type must be application/json or application/x-protobuf")
		}
		call, err := channel.DecodeCall(contentType, c.Body())
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		mapID := c.Params("id")
		ctx := c.UserContext()
		result, err := deps.Maps.Invoke(ctx, mapID, call)
		if err != nil {
			log := LoggerFromCtx(ctx).With("map_id", mapID, "method", call.Method, "error", err)
			if usecases.ErrorCode(err) == channel.CodeInternal {
				log.Error("channel call failed")
			} else {
				log.Debug("channel call rejected")
			}
		}

		env := usecases.Reply(result, err)
		rt := replyType(c)
		body, err := channel.EncodeEnvelope(rt, env)
		if err != nil {
			return errInternal(c, "encode reply: "+err.Error())
		}
		c.Set(fiber.HeaderContentType, rt)
		return c.Status(envelopeStatus(env)).Send(body)
	}
}

// MapStateHandler returns the stored state of a map in its storage encoding.
func MapStateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, err := deps.Maps.State(c.UserContext(), c.Params("id"))
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(codec.EncodeMapState(state))
	}
}

// ResetMapHandler forgets the stored state of a map.
func ResetMapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Maps.Reset(c.UserContext(), c.Params("id")); err != nil {
			return errInternal(c, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

const (
	overlayKindPath   = "path"
	overlayKindMarker = "marker"
)

// overlayItem is one entry of the overlay listing.
type overlayItem struct {
	Kind         string      `json:"kind"` // "path" | "marker"
	Overlay      value.Value `json:"overlay"`
	LengthMeters float64     `json:"lengthMeters,omitempty"` // paths only
}

// ListOverlaysHandler lists the overlays of a map sorted by id, encoded as the
// channel would return them from getPathOverlay and getMarker. ?kind=path or
// ?kind=marker narrows the listing.
func ListOverlaysHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind := c.Query("kind")
		if kind != "" && kind != overlayKindPath && kind != overlayKindMarker {
			return errBadRequest(c, "kind must be path or marker")
		}

		state, err := deps.Maps.State(c.UserContext(), c.Params("id"))
		if err != nil {
			return errInternal(c, err.Error())
		}

		ids := make([]string, 0, len(state.Paths)+len(state.Markers))
		if kind != overlayKindMarker {
			for id := range state.Paths {
				ids = append(ids, id)
			}
		}
		if kind != overlayKindPath {
			for id := range state.Markers {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)

		p := ParsePagination(c)
		start, end := p.Window(len(ids))

		items := make([]overlayItem, 0, end-start)
		for _, id := range ids[start:end] {
			if path, ok := state.Paths[id]; ok {
				items = append(items, overlayItem{
					Kind:         overlayKindPath,
					Overlay:      codec.EncodePathOverlay(path),
					LengthMeters: path.Coords.LengthMeters(),
				})
				continue
			}
			items = append(items, overlayItem{Kind: overlayKindMarker, Overlay: codec.EncodeMarker(state.Markers[id])})
		}

		SetLinkHeaders(c, p)
		return c.JSON(PaginatedResponse{Data: items, Pagination: p})
	}
}

// MethodsHandler lists the channel methods the service answers.
func MethodsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"methods": deps.Maps.Methods()})
	}
}
