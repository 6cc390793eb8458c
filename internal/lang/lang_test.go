package lang

import (
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		sample   string
		fallback string
		expected string
	}{
		{"Thai", "สวัสดีครับ ยินดีต้อนรับ", "en", "th"},
		{"Thai mixed with ASCII", "EP.12 สรุปข่าวเช้านี้", "en", "th"},
		{"Japanese kana", "これはテストです", "en", "ja"},
		{"Japanese kanji with kana wins over Chinese", "日本語のテキストです", "en", "ja"},
		{"Korean", "안녕하세요 여러분", "en", "ko"},
		{"Chinese ideographs only", "今天天气很好", "en", "zh"},
		{"Russian", "Добрый день, друзья", "en", "ru"},
		{"Vietnamese diacritics", "Chào mừng bạn đến với Việt Nam", "en", "vi"},
		{"Arabic", "مرحبا بكم في الدرس", "en", "ar"},
		{"Hindi Devanagari", "नमस्ते दोस्तों", "en", "hi"},
		{"Plain ASCII", "Hello there, this is English text.", "en", "en"},
		{"Plain ASCII with German fallback", "Hallo zusammen", "de", "de"},
		{"Empty sample", "", "en", "en"},
		{"Digits and punctuation", "12345 --- !!!", "en", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.sample, tt.fallback)
			if got != tt.expected {
				t.Errorf("Detect(%q, %q) = %q, want %q", tt.sample, tt.fallback, got, tt.expected)
			}
		})
	}
}

func TestDetect_OnlyLeadingRunesExamined(t *testing.T) {
	// Thai appears only after the sample window, so it must not be seen.
	sample := strings.Repeat("a", sampleLimit) + "สวัสดี"
	if got := Detect(sample, "en"); got != "en" {
		t.Fatalf("expected fallback for script past the sample window, got %q", got)
	}

	// Inside the window it is seen.
	sample = strings.Repeat("a", sampleLimit-1) + "ส"
	if got := Detect(sample, "en"); got != "th" {
		t.Fatalf("expected th for script inside the sample window, got %q", got)
	}
}
