package pdf

import "testing"

func TestParseContentStream_PathOperators(t *testing.T) {
	stream := []byte(`
10 20 m
110 20 l
S
30 40 60 50 re
f
`)
	c := parseContentStream(stream)
	if len(c.segments) != 5 {
		t.Fatalf("segments = %d, want 5 (one line, four rect edges)", len(c.segments))
	}
	first := c.segments[0]
	if first.x1 != 10 || first.y1 != 20 || first.x2 != 110 || first.y2 != 20 {
		t.Errorf("line segment = %+v, want 10,20 -> 110,20", first)
	}
	if !first.horizontal() {
		t.Error("line segment should be horizontal")
	}
}

func TestParseContentStream_TextPlacement(t *testing.T) {
	stream := []byte(`
BT
/F1 12 Tf
1 0 0 1 100 700 Tm
(Hello) Tj
0 -20 Td
(World) Tj
ET
`)
	c := parseContentStream(stream)
	if len(c.texts) != 2 {
		t.Fatalf("texts = %d, want 2", len(c.texts))
	}
	if c.texts[0].text != "Hello" || c.texts[0].x != 100 || c.texts[0].y != 700 {
		t.Errorf("first text = %+v, want Hello at 100,700", c.texts[0])
	}
	if c.texts[1].text != "World" || c.texts[1].y != 680 {
		t.Errorf("second text = %+v, want World at y=680", c.texts[1])
	}
}

func TestParseContentStream_TJArray(t *testing.T) {
	stream := []byte(`
BT
/F1 10 Tf
1 0 0 1 50 500 Tm
[(Ta) -120 (ble)] TJ
ET
`)
	c := parseContentStream(stream)
	if len(c.texts) != 2 {
		t.Fatalf("texts = %d, want 2", len(c.texts))
	}
	if c.texts[0].text != "Ta" || c.texts[1].text != "ble" {
		t.Errorf("texts = %q, %q; want Ta, ble", c.texts[0].text, c.texts[1].text)
	}
	if c.texts[1].x <= c.texts[0].x {
		t.Errorf("second fragment x = %v, want right of first (%v)", c.texts[1].x, c.texts[0].x)
	}
}

func TestParseContentStream_StringEscapes(t *testing.T) {
	stream := []byte(`BT (a\(b\)c \\ \101) Tj ET`)
	c := parseContentStream(stream)
	if len(c.texts) != 1 {
		t.Fatalf("texts = %d, want 1", len(c.texts))
	}
	want := `a(b)c \ A`
	if c.texts[0].text != want {
		t.Errorf("decoded = %q, want %q", c.texts[0].text, want)
	}
}

func TestParseContentStream_HexString(t *testing.T) {
	stream := []byte(`BT <48656C6C6F> Tj ET`)
	c := parseContentStream(stream)
	if len(c.texts) != 1 || c.texts[0].text != "Hello" {
		t.Fatalf("texts = %+v, want one Hello", c.texts)
	}
}

func TestParseContentStream_SkipsDictsAndComments(t *testing.T) {
	stream := []byte(`
% a comment with (parens) and Tj
/GS0 << /Type /ExtGState >> BDC
BT (kept) Tj ET
`)
	c := parseContentStream(stream)
	if len(c.texts) != 1 || c.texts[0].text != "kept" {
		t.Fatalf("texts = %+v, want only the real Tj", c.texts)
	}
}

func TestClusterValues(t *testing.T) {
	got := clusterValues([]float64{10, 11, 12, 50, 51, 90}, 3)
	want := []float64{11, 50.5, 90}
	if len(got) != len(want) {
		t.Fatalf("clusters = %v, want %v", got, want)
	}
	for i := range want {
		if diff := got[i] - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("cluster[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
