package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanFragments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Fragment
	}{
		{
			name: "single Tj",
			in:   "BT /F1 12 Tf 100 700 Td (Hello, World!) Tj ET",
			want: []Fragment{{Text: "Hello, World!", HasText: true}},
		},
		{
			name: "Tj in order",
			in:   "BT (one) Tj 0 -14 Td (two) Tj ET",
			want: []Fragment{{Text: "one", HasText: true}, {Text: "two", HasText: true}},
		},
		{
			name: "TJ with word kerning",
			in:   "BT /F1 14 Tf [(Go) -200 (PDF) 50 (!)] TJ ET",
			want: []Fragment{{Text: "Go PDF!", HasText: true}},
		},
		{
			name: "TJ without strings",
			in:   "BT [-250 120] TJ ET",
			want: []Fragment{{}},
		},
		{
			name: "quote operators",
			in:   `BT 14 TL (first) ' 1 0 (second) " ET`,
			want: []Fragment{{Text: "first", HasText: true}, {Text: "second", HasText: true}},
		},
		{
			name: "marked content",
			in:   "/Span <</MCID 0 /Alt (x)>> BDC BT (text) Tj ET EMC /Artifact BMC EMC",
			want: []Fragment{{}, {Text: "text", HasText: true}, {}},
		},
		{
			name: "escapes and nesting",
			in:   `BT (a\(b\) \101 (c)) Tj ET`,
			want: []Fragment{{Text: "a(b) A (c)", HasText: true}},
		},
		{
			name: "hex string",
			in:   "BT <48656C6C6F> Tj ET",
			want: []Fragment{{Text: "Hello", HasText: true}},
		},
		{
			name: "utf-16 hex string",
			in:   "BT <FEFF00E90074> Tj ET",
			want: []Fragment{{Text: "ét", HasText: true}},
		},
		{
			name: "empty string keeps HasText",
			in:   "BT () Tj ET",
			want: []Fragment{{Text: "", HasText: true}},
		},
		{
			name: "inline image is skipped",
			in:   "BI /W 2 /H 1 /BPC 8 /CS /G ID \x00(Tj\xff EI BT (after) Tj ET",
			want: []Fragment{{Text: "after", HasText: true}},
		},
		{
			name: "comments ignored",
			in:   "% (hidden) Tj\nBT (shown) Tj ET",
			want: []Fragment{{Text: "shown", HasText: true}},
		},
		{
			name: "no text operators",
			in:   "q 1 0 0 1 0 0 cm 0 0 m 10 10 l S Q",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scanFragments([]byte(tt.in), nil))
		})
	}
}

func TestDecodeString(t *testing.T) {
	assert.Equal(t, "AB", decodeString([]byte{'A', '\n', 'B'}))
	assert.Equal(t, "é", decodeString([]byte{0xE9}))
	assert.Equal(t, "", decodeString([]byte{0xFE, 0xFF}))
	assert.Equal(t, "It’s “ok”", decodeString([]byte("It\x92s \x93ok\x94")))
	assert.Equal(t, "ab", decodeString([]byte{'a', 0x81, 'b'}), "undefined WinAnsi code")
}

func TestScanFragments_SelectsFont(t *testing.T) {
	greek := newFontEncoding(true, "WinAnsiEncoding")
	greek.setGlyph('a', "uni03B1")
	mac := newFontEncoding(true, "MacRomanEncoding")
	fonts := map[string]*fontEncoding{"F1": greek, "F2": mac}

	in := `BT /F1 12 Tf (a) Tj /F2 12 Tf (\216a) Tj /F9 12 Tf (\222) Tj ET`
	assert.Equal(t, []Fragment{
		{Text: "α", HasText: true},
		{Text: "éa", HasText: true},
		{Text: "’", HasText: true},
	}, scanFragments([]byte(in), fonts))
}
