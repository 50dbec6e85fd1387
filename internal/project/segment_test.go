package project

import (
	"testing"
)

func texts(segs []Segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Text
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSplit(t *testing.T) {
	const doc = "Dear Anna. We reached\nVicksburg today!\n\nIs Mr. Grant well?  Yes.\n\n\n3.5 miles remain"

	tests := []struct {
		mode Mode
		want []string
	}{
		{ModeLine, []string{"Dear Anna. We reached", "Vicksburg today!", "Is Mr. Grant well? Yes.", "3.5 miles remain"}},
		{ModeParagraph, []string{"Dear Anna. We reached Vicksburg today!", "Is Mr. Grant well? Yes.", "3.5 miles remain"}},
		{ModeSentence, []string{"Dear Anna.", "We reached Vicksburg today!", "Is Mr.", "Grant well?", "Yes.", "3.5 miles remain"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got := texts(Split(doc, tt.mode))
			if !equal(got, tt.want) {
				t.Errorf("Split(%s):\n got  %q\n want %q", tt.mode, got, tt.want)
			}
		})
	}
}

func TestSplit_OffsetsPointIntoText(t *testing.T) {
	const doc = "  First one.   Second one.\n"
	segs := Split(doc, ModeSentence)
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segs))
	}
	for i, s := range segs {
		if s.Index != i {
			t.Errorf("segment %d has index %d", i, s.Index)
		}
		if doc[s.Start:s.End] != s.Text {
			t.Errorf("segment %d: offsets give %q, text is %q", i, doc[s.Start:s.End], s.Text)
		}
	}
}

func TestSplit_Empty(t *testing.T) {
	if segs := Split("  \n\n ", ModeSentence); len(segs) != 0 {
		t.Errorf("expected no segments, got %v", segs)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("line"); err != nil || m != ModeLine {
		t.Errorf("ParseMode(line): %v %v", m, err)
	}
	if _, err := ParseMode("word"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
