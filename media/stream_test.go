package media

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStream(t *testing.T) {
	Convey("Given manifest stream entries", t, func() {
		Convey("The external flag alone marks a stream external", func() {
			So(Stream{IsExternal: true}.External(), ShouldBeTrue)
		})

		Convey("The delivery method tag alone marks a stream external, case-insensitively", func() {
			So(Stream{DeliveryMethod: "External"}.External(), ShouldBeTrue)
			So(Stream{DeliveryMethod: "external"}.External(), ShouldBeTrue)
			So(Stream{DeliveryMethod: "EXTERNAL"}.External(), ShouldBeTrue)
		})

		Convey("Embedded streams are not external", func() {
			So(Stream{}.External(), ShouldBeFalse)
			So(Stream{DeliveryMethod: "Embed"}.External(), ShouldBeFalse)
		})

		Convey("Server manifest JSON decodes into the model", func() {
			payload := `{
				"Id": "src-1",
				"MediaStreams": [
					{"Type": "Video", "Index": 0, "Codec": "h264"},
					{"Type": "Audio", "Index": 1, "Language": "eng", "Channels": 6},
					{"Type": "Subtitle", "Index": 4, "IsExternal": true, "DeliveryUrl": "/subs/en.vtt"}
				],
				"DefaultAudioStreamIndex": 1
			}`

			var source Source
			So(json.Unmarshal([]byte(payload), &source), ShouldBeNil)
			So(source.ID, ShouldEqual, "src-1")
			So(source.Streams, ShouldHaveLength, 3)
			So(*source.DefaultAudioStreamIndex, ShouldEqual, 1)
			So(source.DefaultSubtitleStreamIndex, ShouldBeNil)
			So(source.Streams[2].DeliveryURL, ShouldEqual, "/subs/en.vtt")
		})
	})
}

func TestSource(t *testing.T) {
	Convey("Given a manifest with mixed stream types", t, func() {
		source := Source{Streams: []Stream{
			{Type: StreamVideo, Index: 0},
			{Type: StreamAudio, Index: 1},
			{Type: StreamSubtitle, Index: 3},
			{Type: StreamAudio, Index: 5},
		}}

		Convey("OfType filters by type, preserving manifest order", func() {
			audio := source.OfType(StreamAudio)
			So(audio, ShouldHaveLength, 2)
			So(audio[0].Index, ShouldEqual, 1)
			So(audio[1].Index, ShouldEqual, 5)

			So(source.OfType(StreamVideo), ShouldHaveLength, 1)
		})

		Convey("ByIndex requires both type and index to match", func() {
			s, ok := source.ByIndex(StreamAudio, 5)
			So(ok, ShouldBeTrue)
			So(s.Type, ShouldEqual, StreamAudio)

			_, ok = source.ByIndex(StreamAudio, 3)
			So(ok, ShouldBeFalse)

			_, ok = source.ByIndex(StreamSubtitle, 99)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestItem(t *testing.T) {
	Convey("Given an item with pre-filtered track subsets", t, func() {
		item := Item{
			AudioStreams:    []Stream{{Type: StreamAudio, Index: 1}},
			SubtitleStreams: []Stream{{Type: StreamSubtitle, Index: 3}},
		}

		Convey("FilteredStreams hands back the matching subset", func() {
			So(item.FilteredStreams(StreamAudio), ShouldHaveLength, 1)
			So(item.FilteredStreams(StreamSubtitle), ShouldHaveLength, 1)
			So(item.FilteredStreams(StreamVideo), ShouldBeNil)
		})
	})
}
