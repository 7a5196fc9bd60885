package model

import (
	"errors"
	"strings"
)

// ErrMalformedTrackingID is returned when a region id is not of the form
// "<prefix>-<trackingId>-<part>#<suffix>".
var ErrMalformedTrackingID = errors.New("malformed tracking id")

// TrackingID is the tracking group of a region, derived from its id.
//
// Prefix keeps the trailing dash ("id-7-") so that a plain prefix match never
// confuses track 7 with track 71. HasPart is false when the third segment does
// not start with a digit.
type TrackingID struct {
	Prefix  string
	Part    int
	HasPart bool
}

// ParseTrackingID splits an id of exactly three dash segments. Anything else
// yields ErrMalformedTrackingID and a zero TrackingID.
func ParseTrackingID(id string) (TrackingID, error) {
	if id == "" {
		return TrackingID{}, ErrMalformedTrackingID
	}
	segs := strings.Split(id, "-")
	if len(segs) != 3 {
		return TrackingID{}, ErrMalformedTrackingID
	}
	tid := TrackingID{Prefix: segs[0] + "-" + segs[1] + "-"}
	partStr, _, _ := strings.Cut(segs[2], "#")
	tid.Part, tid.HasPart = leadingInt(partStr)
	return tid, nil
}

// TrackingOf parses the region's id; a nil region is malformed.
func TrackingOf(r *Region) (TrackingID, error) {
	if r == nil {
		return TrackingID{}, ErrMalformedTrackingID
	}
	return ParseTrackingID(r.ID)
}

// Label is the human readable group name, the prefix without its trailing dash.
func (t TrackingID) Label() string {
	return strings.TrimSuffix(t.Prefix, "-")
}

// leadingInt parses an optionally signed run of leading digits, ignoring
// surrounding whitespace on the left.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
