package video

import "golang.org/x/text/language"

// SelectTrack picks the caption track whose language best matches the
// ordered preferences, falling back to the first listed track when nothing
// matches. Matching uses BCP 47 semantics, so a preference of "en" still
// picks an "en-GB" track over an unrelated first entry.
func SelectTrack(tracks []CaptionTrack, preferred []string) (CaptionTrack, bool) {
	if len(tracks) == 0 {
		return CaptionTrack{}, false
	}
	desired := make([]language.Tag, 0, len(preferred))
	for _, p := range preferred {
		if tag, err := language.Parse(p); err == nil {
			desired = append(desired, tag)
		}
	}
	if len(desired) == 0 {
		return tracks[0], true
	}
	supported := make([]language.Tag, len(tracks))
	for i, tr := range tracks {
		tag, err := language.Parse(tr.LanguageCode)
		if err != nil {
			tag = language.Und
		}
		supported[i] = tag
	}
	matcher := language.NewMatcher(supported)
	_, index, conf := matcher.Match(desired...)
	if conf == language.No || index < 0 || index >= len(tracks) {
		return tracks[0], true
	}
	return tracks[index], true
}
