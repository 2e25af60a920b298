package playback

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamfin/streamfin/media"
)

func audioStream(index int, title, lang string) media.Stream {
	return media.Stream{
		Type:         media.StreamAudio,
		Index:        index,
		DisplayTitle: title,
		Language:     lang,
	}
}

func subtitleStream(index int, external bool) media.Stream {
	return media.Stream{
		Type:       media.StreamSubtitle,
		Index:      index,
		IsExternal: external,
	}
}

func TestResolveAudioTrack(t *testing.T) {
	Convey("Audio track resolution", t, func() {
		Convey("Engine ids are 1 + position among internal audio entries", func() {
			// Sparse manifest indices [2, 5, 9], none external.
			item := &media.Item{
				Source: media.Source{Streams: []media.Stream{
					audioStream(2, "English AAC", "en"),
					audioStream(5, "French AC3", "fr"),
					audioStream(9, "Commentary", "en"),
				}},
			}

			id, ok := ResolveAudioTrack(item, audioStream(5, "French AC3", "fr"))
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, 2)

			id, ok = ResolveAudioTrack(item, audioStream(2, "English AAC", "en"))
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, 1)

			id, ok = ResolveAudioTrack(item, audioStream(9, "Commentary", "en"))
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, 3)
		})

		Convey("Two manifests with identical internal audio ordering yield identical ids", func() {
			streams := []media.Stream{
				audioStream(3, "A", "en"),
				audioStream(7, "B", "de"),
			}
			first := &media.Item{Source: media.Source{Streams: streams}}
			second := &media.Item{Source: media.Source{Streams: streams}}

			a, _ := ResolveAudioTrack(first, streams[1])
			b, _ := ResolveAudioTrack(second, streams[1])
			So(a, ShouldEqual, b)
		})
	})
}

func TestResolveSubtitleTrack(t *testing.T) {
	Convey("Subtitle track resolution", t, func() {
		Convey("External entries continue the numbering after internals", func() {
			// Internal subtitles at [1, 3], one external at [7].
			item := &media.Item{
				Source: media.Source{Streams: []media.Stream{
					subtitleStream(1, false),
					subtitleStream(3, false),
					subtitleStream(7, true),
				}},
			}

			id, ok := ResolveSubtitleTrack(item, subtitleStream(7, true))
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, 3)

			id, ok = ResolveSubtitleTrack(item, subtitleStream(1, false))
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, 1)

			id, ok = ResolveSubtitleTrack(item, subtitleStream(3, false))
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, 2)
		})

		Convey("A delivery method tag of external counts as external", func() {
			item := &media.Item{
				Source: media.Source{Streams: []media.Stream{
					subtitleStream(0, false),
					{Type: media.StreamSubtitle, Index: 4, DeliveryMethod: "External"},
				}},
			}

			id, ok := ResolveSubtitleTrack(item, media.Stream{Type: media.StreamSubtitle, Index: 4, DeliveryMethod: "external"})
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, 2)
		})
	})
}

func TestResolutionOrder(t *testing.T) {
	Convey("Resolution order", t, func() {
		Convey("Direct match wins over everything", func() {
			// Index 5 exists, and another entry matches the metadata exactly.
			item := &media.Item{
				Source: media.Source{Streams: []media.Stream{
					audioStream(2, "Same", "en"),
					audioStream(5, "Other", "fr"),
				}},
			}

			id, ok := ResolveAudioTrack(item, audioStream(5, "Same", "en"))
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, 2)
		})

		Convey("Positional match wins over attribute match", func() {
			// The held descriptor (index 10) is gone from the re-fetched manifest.
			// Positionally it was the second audio entry; an attribute match would
			// instead hit the first entry.
			held := audioStream(10, "English", "en")
			item := &media.Item{
				Source: media.Source{Streams: []media.Stream{
					audioStream(1, "English", "en"),
					audioStream(2, "English 5.1", "en"),
				}},
				AudioStreams: []media.Stream{
					audioStream(4, "English", "en"),
					held,
				},
			}

			id, ok := ResolveAudioTrack(item, held)
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, 2)
		})

		Convey("Positional resolution agrees with direct matching when both manifests align", func() {
			// The re-fetched manifest rewrote indices [2,5] to [12,15] but kept
			// type and position; positional resolution must land on the entry a
			// direct match would have picked in the original manifest.
			original := []media.Stream{
				audioStream(2, "A", "en"),
				audioStream(5, "B", "fr"),
			}
			refetched := &media.Item{
				Source: media.Source{Streams: []media.Stream{
					audioStream(12, "A", "en"),
					audioStream(15, "B", "fr"),
				}},
				AudioStreams: original,
			}
			aligned := &media.Item{
				Source:       media.Source{Streams: original},
				AudioStreams: original,
			}

			for _, held := range original {
				direct, ok := ResolveAudioTrack(aligned, held)
				So(ok, ShouldBeTrue)

				positional, ok := ResolveAudioTrack(refetched, held)
				So(ok, ShouldBeTrue)
				So(positional, ShouldEqual, direct)
			}
		})

		Convey("Attribute match applies when the descriptor is absent from the filtered lists", func() {
			// Held descriptor's index 12 no longer exists and it is not in the
			// item's filtered list either; metadata matches the entry at index 4.
			held := media.Stream{
				Type: media.StreamAudio, Index: 12,
				DisplayTitle: "English", Language: "en", Codec: "aac",
				Channels: 2, ChannelLayout: "stereo", BitRate: 128000, SampleRate: 48000,
			}
			item := &media.Item{
				Source: media.Source{Streams: []media.Stream{
					audioStream(1, "German", "de"),
					{
						Type: media.StreamAudio, Index: 4,
						DisplayTitle: "English", Language: "en", Codec: "aac",
						Channels: 2, ChannelLayout: "stereo", BitRate: 128000, SampleRate: 48000,
					},
				}},
			}

			id, ok := ResolveAudioTrack(item, held)
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, 2)
		})

		Convey("Full tuple match wins over the relaxed title/language match", func() {
			held := media.Stream{
				Type: media.StreamAudio, Index: 99,
				DisplayTitle: "English", Language: "en", Codec: "ac3",
			}
			item := &media.Item{
				Source: media.Source{Streams: []media.Stream{
					// Relaxed match only (codec differs).
					{Type: media.StreamAudio, Index: 1, DisplayTitle: "English", Language: "en", Codec: "aac"},
					// Exact tuple match.
					{Type: media.StreamAudio, Index: 2, DisplayTitle: "English", Language: "en", Codec: "ac3"},
				}},
			}

			id, ok := ResolveAudioTrack(item, held)
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, 2)
		})

		Convey("Relaxed match applies when no full tuple matches", func() {
			held := media.Stream{
				Type: media.StreamAudio, Index: 99,
				DisplayTitle: "English", Language: "en", Codec: "ac3", Channels: 6,
			}
			item := &media.Item{
				Source: media.Source{Streams: []media.Stream{
					{Type: media.StreamAudio, Index: 3, DisplayTitle: "English", Language: "en", Codec: "aac", Channels: 2},
				}},
			}

			id, ok := ResolveAudioTrack(item, held)
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, 1)
		})

		Convey("Ambiguous metadata resolves to the first manifest entry", func() {
			held := media.Stream{Type: media.StreamAudio, Index: 99, DisplayTitle: "Commentary", Language: "en"}
			item := &media.Item{
				Source: media.Source{Streams: []media.Stream{
					{Type: media.StreamAudio, Index: 1, DisplayTitle: "Commentary", Language: "en"},
					{Type: media.StreamAudio, Index: 2, DisplayTitle: "Commentary", Language: "en"},
				}},
			}

			id, ok := ResolveAudioTrack(item, held)
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, 1)
		})

		Convey("No match by any rule drops the selection", func() {
			item := &media.Item{
				Source: media.Source{Streams: []media.Stream{
					audioStream(1, "German", "de"),
				}},
			}

			_, ok := ResolveAudioTrack(item, audioStream(9, "Japanese", "ja"))
			So(ok, ShouldBeFalse)
		})
	})
}

func TestPositionalPartitioning(t *testing.T) {
	Convey("Positional matching honors the internal/external partition", t, func() {
		// Held external subtitle, gone from the re-fetched manifest. Its position
		// among externals in the filtered list is 0; the re-fetched manifest's
		// external partition starts at index 20.
		held := subtitleStream(15, true)
		item := &media.Item{
			Source: media.Source{Streams: []media.Stream{
				subtitleStream(1, false),
				subtitleStream(2, false),
				subtitleStream(20, true),
			}},
			SubtitleStreams: []media.Stream{
				subtitleStream(5, false),
				held,
			},
		}

		id, ok := ResolveSubtitleTrack(item, held)
		So(ok, ShouldBeTrue)
		// Two internals, then the first external: engine id 3.
		So(id, ShouldEqual, 3)
	})
}
