// Package playback orchestrates media playback sessions: it resolves manifest streams to
// engine track ids and proxies commands and events between the playback coordinator,
// the UI layer and the native engine.
package playback

import (
	"github.com/samber/lo"
	"github.com/streamfin/streamfin/log"
	"github.com/streamfin/streamfin/media"
)

// The engine numbers tracks per type, contiguously from 1 in file order, while the
// manifest carries server-assigned indices that may be sparse and — after a manifest
// re-fetch — may no longer align with the descriptor the UI is holding. Resolution
// walks, in order: direct index match, positional match through the item's own
// filtered lists, exact attribute match, relaxed attribute match. No match means the
// selection is dropped and the prior track stays in effect.

// ResolveAudioTrack maps a UI-held audio descriptor to the engine's audio track id.
func ResolveAudioTrack(item *media.Item, requested media.Stream) (int, bool) {
	index, ok := resolveIndex(item, requested, media.StreamAudio)
	if !ok {
		return 0, false
	}
	return audioTrackID(&item.Source, index)
}

// ResolveSubtitleTrack maps a UI-held subtitle descriptor to the engine's subtitle
// track id. Negative indices are the standing disable sentinel and must be handled
// by the caller before resolution.
func ResolveSubtitleTrack(item *media.Item, requested media.Stream) (int, bool) {
	index, ok := resolveIndex(item, requested, media.StreamSubtitle)
	if !ok {
		return 0, false
	}
	return subtitleTrackID(&item.Source, index)
}

// resolveIndex finds the manifest index in the item's current manifest that the
// requested descriptor denotes.
func resolveIndex(item *media.Item, requested media.Stream, t media.StreamType) (int, bool) {
	// Direct: the manifest still carries the exact index.
	if _, ok := item.Source.ByIndex(t, requested.Index); ok {
		return requested.Index, true
	}

	// Positional: trust the item's own filtered list to recover the position the
	// UI selection was made at, then read the same position off the re-fetched
	// manifest's matching type/internal-external partition.
	if index, ok := positionalMatch(item, requested, t); ok {
		return index, true
	}

	// Attribute: last resort, match display metadata against the manifest.
	if index, ok := attributeMatch(&item.Source, requested, t); ok {
		return index, true
	}

	log.Debugf("playback: no %s track resolves index %d, selection dropped", t, requested.Index)
	return 0, false
}

func positionalMatch(item *media.Item, requested media.Stream, t media.StreamType) (int, bool) {
	filtered := item.FilteredStreams(t)

	_, held, found := lo.FindIndexOf(filtered, func(s media.Stream) bool {
		return s.Index == requested.Index
	})
	if !found {
		return 0, false
	}

	// Position among same-classification entries of the filtered list.
	position := 0
	for _, s := range filtered[:held] {
		if s.External() == requested.External() {
			position++
		}
	}

	partition := lo.Filter(item.Source.OfType(t), func(s media.Stream, _ int) bool {
		return s.External() == requested.External()
	})
	if position >= len(partition) {
		return 0, false
	}
	return partition[position].Index, true
}

func attributeMatch(source *media.Source, requested media.Stream, t media.StreamType) (int, bool) {
	candidates := lo.Filter(source.OfType(t), func(s media.Stream, _ int) bool {
		return s.External() == requested.External()
	})

	// Identical metadata tuples stay ambiguous; the first manifest entry wins.
	for _, s := range candidates {
		if s.DisplayTitle == requested.DisplayTitle &&
			s.Language == requested.Language &&
			s.Codec == requested.Codec &&
			s.Channels == requested.Channels &&
			s.ChannelLayout == requested.ChannelLayout &&
			s.BitRate == requested.BitRate &&
			s.SampleRate == requested.SampleRate &&
			s.IsDefault == requested.IsDefault &&
			s.IsForced == requested.IsForced {
			return s.Index, true
		}
	}

	for _, s := range candidates {
		if s.DisplayTitle == requested.DisplayTitle && s.Language == requested.Language {
			return s.Index, true
		}
	}

	return 0, false
}

// audioTrackID numbers internal audio entries 1..N in manifest order. Audio has
// no external entries in this model; an external hit does not resolve.
func audioTrackID(source *media.Source, index int) (int, bool) {
	position := 0
	for _, s := range source.OfType(media.StreamAudio) {
		if s.External() {
			continue
		}
		position++
		if s.Index == index {
			return position, true
		}
	}
	return 0, false
}

// subtitleTrackID numbers internal subtitle entries 1..N in manifest order and
// lets external entries continue the numbering from N+1 in their own order.
func subtitleTrackID(source *media.Source, index int) (int, bool) {
	subtitles := source.OfType(media.StreamSubtitle)

	internal := 0
	for _, s := range subtitles {
		if s.External() {
			continue
		}
		internal++
		if s.Index == index {
			return internal, true
		}
	}

	external := 0
	for _, s := range subtitles {
		if !s.External() {
			continue
		}
		external++
		if s.Index == index {
			return internal + external, true
		}
	}

	return 0, false
}
