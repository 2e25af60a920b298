// Package media defines the read-only model of a media source manifest as reported by the server.
//
// A manifest lists every stream embedded in (or attached to) a playback item. Stream indices are
// assigned by the server and may be sparse; they are never the playback engine's own track numbers.
package media

import "strings"

// StreamType partitions manifest entries by their payload kind.
type StreamType string

const (
	StreamVideo    StreamType = "Video"
	StreamAudio    StreamType = "Audio"
	StreamSubtitle StreamType = "Subtitle"
)

// DeliveryExternal is the delivery method tag marking a stream as fetched out-of-band.
const DeliveryExternal = "External"

// Stream describes a single manifest entry along with its display metadata.
// Supplied by the server; read-only to the playback core.
type Stream struct {
	Type           StreamType `json:"Type"`
	Index          int        `json:"Index"`
	IsExternal     bool       `json:"IsExternal"`
	DeliveryMethod string     `json:"DeliveryMethod,omitempty"`
	DeliveryURL    string     `json:"DeliveryUrl,omitempty"`
	DisplayTitle   string     `json:"DisplayTitle,omitempty"`
	Language       string     `json:"Language,omitempty"`
	Codec          string     `json:"Codec,omitempty"`
	Channels       int        `json:"Channels,omitempty"`
	ChannelLayout  string     `json:"ChannelLayout,omitempty"`
	BitRate        int        `json:"BitRate,omitempty"`
	SampleRate     int        `json:"SampleRate,omitempty"`
	IsDefault      bool       `json:"IsDefault"`
	IsForced       bool       `json:"IsForced"`
}

// External reports whether the stream is delivered out-of-band rather than embedded
// in the primary media container. Either the explicit flag or the delivery method tag qualifies.
func (s Stream) External() bool {
	return s.IsExternal || strings.EqualFold(s.DeliveryMethod, DeliveryExternal)
}

// Source is the full manifest of a playback item's media version.
// A source may be re-fetched (e.g. after a quality change), in which case its
// stream indices are not guaranteed to align with a previously held manifest.
type Source struct {
	ID                         string   `json:"Id"`
	Streams                    []Stream `json:"MediaStreams"`
	DefaultAudioStreamIndex    *int     `json:"DefaultAudioStreamIndex,omitempty"`
	DefaultSubtitleStreamIndex *int     `json:"DefaultSubtitleStreamIndex,omitempty"`
}

// OfType returns the manifest entries of the given type, in manifest order.
func (s *Source) OfType(t StreamType) []Stream {
	var out []Stream
	for _, stream := range s.Streams {
		if stream.Type == t {
			out = append(out, stream)
		}
	}
	return out
}

// ByIndex locates the manifest entry with the given type and server-assigned index.
func (s *Source) ByIndex(t StreamType, index int) (Stream, bool) {
	for _, stream := range s.Streams {
		if stream.Type == t && stream.Index == index {
			return stream, true
		}
	}
	return Stream{}, false
}

// Item is a playable entry as handed over by the playback coordinator.
// AudioStreams and SubtitleStreams are the item's own pre-filtered track subsets;
// they are trusted to reflect the manifest the UI selection was made against.
type Item struct {
	ID              string
	Name            string
	URL             string
	Source          Source
	AudioStreams    []Stream
	SubtitleStreams []Stream
	StartSeconds    float64
	Live            bool
}

// FilteredStreams returns the item's own pre-filtered subset for the given type.
// Only audio and subtitle subsets are tracked.
func (i *Item) FilteredStreams(t StreamType) []Stream {
	switch t {
	case StreamAudio:
		return i.AudioStreams
	case StreamSubtitle:
		return i.SubtitleStreams
	default:
		return nil
	}
}
