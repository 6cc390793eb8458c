package video

import "testing"

func TestSelectTrack(t *testing.T) {
	th := CaptionTrack{LanguageCode: "th", SourceURL: "http://x/th"}
	en := CaptionTrack{LanguageCode: "en", SourceURL: "http://x/en"}
	enGB := CaptionTrack{LanguageCode: "en-GB", SourceURL: "http://x/en-gb"}
	de := CaptionTrack{LanguageCode: "de", SourceURL: "http://x/de"}

	tests := []struct {
		name      string
		tracks    []CaptionTrack
		preferred []string
		want      string
	}{
		{"preferred beats first listed", []CaptionTrack{th, en}, []string{"en"}, "http://x/en"},
		{"primary preference wins", []CaptionTrack{de, th}, []string{"th", "en"}, "http://x/th"},
		{"secondary preference when primary absent", []CaptionTrack{de, en}, []string{"th", "en"}, "http://x/en"},
		{"regional variant matches base preference", []CaptionTrack{de, enGB}, []string{"en"}, "http://x/en-gb"},
		{"no match falls back to first", []CaptionTrack{th, de}, []string{"ja"}, "http://x/th"},
		{"no preferences falls back to first", []CaptionTrack{de, en}, nil, "http://x/de"},
		{"garbage language codes tolerated", []CaptionTrack{{LanguageCode: "???", SourceURL: "http://x/bad"}, en}, []string{"en"}, "http://x/en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectTrack(tt.tracks, tt.preferred)
			if !ok {
				t.Fatalf("expected a track")
			}
			if got.SourceURL != tt.want {
				t.Errorf("selected %q, want %q", got.SourceURL, tt.want)
			}
		})
	}
}

func TestSelectTrack_Empty(t *testing.T) {
	if _, ok := SelectTrack(nil, []string{"en"}); ok {
		t.Fatalf("empty track list must not select")
	}
}
