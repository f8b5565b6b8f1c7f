package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const identityCMap = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CIDSystemInfo << /Registry (Adobe) /Ordering (UCS) /Supplement 0 >> def
/CMapName /Adobe-Identity-UCS def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
2 beginbfchar
<0003> <0020>
<0024> <0048> <0025> <00E9>
endbfchar
2 beginbfrange
<0030> <0032> <0061>
<0040> <0041> [<FB01> <D83DDE00>]
endbfrange
endcmap
CMapName currentdict /CMap defineresource pop
end
end`

func TestFontEncoding_CompositeCMap(t *testing.T) {
	e := newFontEncoding(false, "")
	e.parseCMap([]byte(identityCMap))

	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"bfchar", []byte{0x00, 0x24, 0x00, 0x25}, "Hé"},
		{"bfrange", []byte{0x00, 0x30, 0x00, 0x31, 0x00, 0x32}, "abc"},
		{"bfrange array", []byte{0x00, 0x40, 0x00, 0x03, 0x00, 0x41}, "ﬁ 😀"},
		{"unmapped code", []byte{0x00, 0x99}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.decode(tt.in))
		})
	}
}

func TestFontEncoding_SimpleCMap(t *testing.T) {
	e := newFontEncoding(true, "StandardEncoding")
	e.parseCMap([]byte("1 beginbfchar <01> <03A9> endbfchar 1 beginbfrange <41> <42> <0078> endbfrange"))

	assert.Equal(t, "ΩxyC", e.decode([]byte{0x01, 'A', 'B', 'C'}))
}

func TestFontEncoding_Differences(t *testing.T) {
	e := newFontEncoding(true, "WinAnsiEncoding")
	for code, glyph := range map[int]string{
		0x80: "Euro", 0x81: "germandbls", 0x82: "u1F600", 'q': "uni00E7", 300: "A", 0x83: "notaglyph",
	} {
		e.setGlyph(code, glyph)
	}

	assert.Equal(t, "€ß😀ç", e.decode([]byte{0x80, 0x81, 0x82, 'q'}))
	assert.Equal(t, "ƒ", e.decode([]byte{0x83}), "unknown glyph names keep the base encoding")
}

func TestFontEncoding_NilFallsBack(t *testing.T) {
	var e *fontEncoding
	assert.Equal(t, "“x”", e.decode([]byte{0x93, 'x', 0x94}))
}

func TestGlyphRune(t *testing.T) {
	for name, want := range map[string]rune{
		"a": 'a', "Z": 'Z', "eacute": 'é', "uni20AC": '€', "u1D11E": '𝄞', "quoteright": '’',
	} {
		got, ok := glyphRune(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	for _, name := range []string{"", "g123", "uniZZZZ", "u12"} {
		_, ok := glyphRune(name)
		assert.False(t, ok, name)
	}
}
