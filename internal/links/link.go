package links

import (
	"strconv"
	"strings"
)

// timestampMarker separates the video id from the start offset in the
// editor's link encoding, e.g. "dQw4w9WgXcQ?t=42".
const timestampMarker = "?t="

// Link is the content of one cell as the editor encodes it.
type Link struct {
	VideoID      string `json:"video_id"`
	StartSeconds int    `json:"start_seconds,omitempty"`
}

// Parse splits raw at the first "?t=". The offset is kept for round trips but
// nothing in the renderer reads it. ok is false when no id remains.
func Parse(raw string) (Link, bool) {
	id, offset, _ := strings.Cut(raw, timestampMarker)
	l := Link{VideoID: strings.TrimSpace(id)}
	if n, err := strconv.Atoi(strings.TrimSpace(offset)); err == nil && n > 0 {
		l.StartSeconds = n
	}
	return l, l.VideoID != ""
}

// String encodes the link the way the editor writes it.
func (l Link) String() string {
	if l.StartSeconds > 0 {
		return l.VideoID + timestampMarker + strconv.Itoa(l.StartSeconds)
	}
	return l.VideoID
}
