package natsadapter

import (
	"net/url"
	"strings"
)

const (
	channelPrefix = "mapbridge.channel."
	nativePrefix  = "mapbridge.native."

	// Native event kinds, the third subject token.
	KindSymbolTap   = "symbol"
	KindIndoorFocus = "indoor"
	KindCameraIdle  = "camera"
)

const upperHex = "0123456789ABCDEF"

// subjectToken makes a map id safe to use as one subject token. Bytes that
// NATS treats specially are percent-escaped, and so is '%' itself, so
// distinct ids always give distinct tokens.
func subjectToken(mapID string) string {
	var b strings.Builder
	for i := 0; i < len(mapID); i++ {
		ch := mapID[i]
		if needsEscape(ch) {
			b.WriteByte('%')
			b.WriteByte(upperHex[ch>>4])
			b.WriteByte(upperHex[ch&0x0f])
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func needsEscape(ch byte) bool {
	switch ch {
	case '.', '*', '>', '%':
		return true
	}
	return ch <= ' ' || ch == 0x7f
}

// ChannelSubject is the subject channel events of mapID are published on.
// An empty id gives the wildcard over every map.
func ChannelSubject(mapID string) string {
	if mapID == "" {
		return channelPrefix + ">"
	}
	return channelPrefix + subjectToken(mapID)
}

// NativeSubject is the subject the SDK bridge publishes native events of
// the given kind on.
func NativeSubject(kind, mapID string) string {
	if mapID == "" {
		return nativePrefix + kind + ".>"
	}
	return nativePrefix + kind + "." + subjectToken(mapID)
}

// mapIDFromSubject returns the map id carried by the last token of a native
// event subject. A token that is not a valid escape is returned as is.
func mapIDFromSubject(subject string) string {
	i := strings.LastIndexByte(subject, '.')
	if i < 0 {
		return ""
	}
	token := subject[i+1:]
	if id, err := url.PathUnescape(token); err == nil {
		return id
	}
	return token
}
