package palette

import (
	"image/color"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Color
	}{
		{"#FF0000", "#ff0000"},
		{"#abc", "#aabbcc"},
		{"#11223380", "rgba(17,34,51,0.502)"},
		{"#112233ff", "#112233"},
		{"rgb(1, 2, 3)", "#010203"},
		{"rgba(255,0,0,1)", "#ff0000"},
		{"rgba(0,0,0,0)", Transparent},
		{"rgba(9,9,9,0.0)", Transparent},
		{"transparent", Transparent},
		{"navy", "#000080"},
		{"Silver", "#c0c0c0"},
		{"cornflowerblue", "#6495ed"},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "#12", "#zzzzzz", "rgb(1,2)", "rgba(1,2,3,2)", "rgb(300,0,0)", "hsl(1,2,3)", "notacolor"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}

func TestRGBARoundTrip(t *testing.T) {
	in := color.RGBA{R: 10, G: 20, B: 30, A: 128}
	c := FromRGBA(in)
	got, err := ToRGBA(c)
	if err != nil {
		t.Fatalf("ToRGBA(%q): %v", c, err)
	}
	if got != in {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, in)
	}
}

func TestBlendOpaqueBase(t *testing.T) {
	got := Blend("#000000", "#ffffff", 0.5)
	if got != "#808080" {
		t.Fatalf("Blend = %q, want #808080", got)
	}
	if got := Blend("#102030", "#ff0000", 1); got != "#ff0000" {
		t.Fatalf("full strength blend = %q, want paint colour", got)
	}
	if got := Blend("#102030", "#ff0000", 0); got != "#102030" {
		t.Fatalf("zero strength blend = %q, want base colour", got)
	}
}

func TestBlendTransparentBaseIsTranslucent(t *testing.T) {
	got := Blend(Transparent, "#ff0000", 0.5)
	c, err := ToRGBA(got)
	if err != nil {
		t.Fatalf("ToRGBA(%q): %v", got, err)
	}
	if c.A == 0 || c.A == 255 {
		t.Fatalf("expected translucent result, got %q", got)
	}
	if c.R != 255 || c.G != 0 || c.B != 0 {
		t.Fatalf("expected paint rgb to be kept, got %+v", c)
	}
}
