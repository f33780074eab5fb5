package textfilter

import "testing"

func TestContentFilter_Appropriate(t *testing.T) {
	cf := NewContentFilter()

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"clean narration", "You step into a sunlit grove full of lava lamps.", true},
		{"blocked word", "The corpse of an old tree blocks the path.", false},
		{"blocked word mixed case", "What the SHIT is that?", false},
		{"embedded blocked word ignored", "A plate of shitake mushrooms sits on the table.", true},
		{"word boundaries respected", "The assassin vine sways gently.", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cf.Appropriate(tt.text); got != tt.want {
				t.Errorf("Appropriate(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestContentFilter_Soften(t *testing.T) {
	cf := NewContentFilter()

	got := cf.Soften("Damn, this maze is hell.")
	want := "Dang, this maze is heck."
	if got != want {
		t.Errorf("Soften = %q, want %q", got, want)
	}

	// Words inside other words are left alone.
	got = cf.Soften("The hellebore blooms in the shade.")
	if got != "The hellebore blooms in the shade." {
		t.Errorf("Soften altered an embedded word: %q", got)
	}
}
