package dialogue

import "testing"

func TestExtractTrackingID(t *testing.T) {
	cases := []struct {
		name   string
		msg    string
		want   string
		wantOK bool
	}{
		{"eight digits", "my id is 12345678 thanks", "12345678", true},
		{"seven digits padded", "it's 2345678", "02345678", true},
		{"digits only", "87654321", "87654321", true},
		{"nine digits rejected", "number 123456789 here", "", false},
		{"six digits rejected", "123456", "", false},
		{"no digits", "i lost my receipt", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractTrackingID(tc.msg)
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("ExtractTrackingID(%q) = (%q, %v), want (%q, %v)", tc.msg, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestFormatTrackingIDForSpeech(t *testing.T) {
	if got := FormatTrackingIDForSpeech("12345678"); got != "1-2-3-4-5-6-7-8" {
		t.Errorf("FormatTrackingIDForSpeech = %q, want 1-2-3-4-5-6-7-8", got)
	}
}

func TestIsAffirmative(t *testing.T) {
	for _, msg := range []string{"yes", "yes please", "confirm", "sure, go ahead", "ok", "proceed"} {
		if !isAffirmative(msg) {
			t.Errorf("isAffirmative(%q) = false, want true", msg)
		}
	}
	for _, msg := range []string{"no", "never mind", "wait"} {
		if isAffirmative(msg) {
			t.Errorf("isAffirmative(%q) = true, want false", msg)
		}
	}
}

func TestResolveAddressType(t *testing.T) {
	cases := []struct {
		msg    string
		want   string
		wantOK bool
	}{
		{"the pickup address", "pickup", true},
		{"pick up please", "pickup", true},
		{"delivery", "delivery", true},
		{"the destination", "delivery", true},
		{"huh", "", false},
	}
	for _, tc := range cases {
		got, ok := resolveAddressType(tc.msg)
		if ok != tc.wantOK || string(got) != tc.want {
			t.Errorf("resolveAddressType(%q) = (%q, %v), want (%q, %v)", tc.msg, got, ok, tc.want, tc.wantOK)
		}
	}
}
