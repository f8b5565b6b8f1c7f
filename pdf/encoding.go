package pdf

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// fontEncoding maps the codes a font shows to Unicode. A ToUnicode CMap
// overrides the /Encoding entry, which overrides the base encoding.
type fontEncoding struct {
	simple bool
	codes  [256]rune
	cmap   map[uint32]string // multi-byte codes of composite fonts
}

// newFontEncoding returns an encoding seeded with the named base encoding.
// Composite (Type0) fonts are not simple: their codes go through the CMap.
func newFontEncoding(simple bool, base string) *fontEncoding {
	e := &fontEncoding{simple: simple, cmap: make(map[uint32]string)}
	for i := range e.codes {
		e.codes[i] = rune(i)
	}
	e.setBase(base)
	return e
}

// setBase loads the upper half of a standard encoding. Unknown names are
// ignored.
func (e *fontEncoding) setBase(name string) {
	table, ok := baseEncodings[name]
	if !ok {
		return
	}
	for i, r := range table {
		if r != 0 {
			e.codes[0x80+i] = r
		}
	}
}

// setGlyph applies one /Differences entry.
func (e *fontEncoding) setGlyph(code int, glyph string) {
	if code < 0 || code > 0xFF {
		return
	}
	if r, ok := glyphRune(glyph); ok {
		e.codes[code] = r
	}
}

func (e *fontEncoding) mapCode(code uint32, text string) {
	if e.simple && code <= 0xFF {
		if r, _ := utf8.DecodeRuneInString(text); r != utf8.RuneError {
			e.codes[code] = r
		}
		return
	}
	e.cmap[code] = text
}

// maxRange bounds a single bfrange entry.
const maxRange = 0xFFFF

// parseCMap reads the bfchar and bfrange sections of a ToUnicode CMap.
func (e *fontEncoding) parseCMap(data []byte) {
	toks := cmapTokens(data)
	for i := 0; i < len(toks); i++ {
		switch toks[i] {
		case "beginbfchar":
			for i++; i+1 < len(toks) && toks[i] != "endbfchar"; i += 2 {
				e.mapCode(hexCode(toks[i]), hexText(toks[i+1]))
			}
		case "beginbfrange":
			for i++; i+2 < len(toks) && toks[i] != "endbfrange"; {
				lo, hi := hexCode(toks[i]), hexCode(toks[i+1])
				i += 2
				if toks[i] == "[" {
					code := lo
					for i++; i < len(toks) && toks[i] != "]"; i++ {
						e.mapCode(code, hexText(toks[i]))
						code++
					}
					i++
					continue
				}
				if hi >= lo && hi-lo <= maxRange {
					e.mapRange(lo, hi, hexText(toks[i]))
				}
				i++
			}
		}
	}
}

// mapRange maps lo..hi to consecutive strings, incrementing the last rune
// of start.
func (e *fontEncoding) mapRange(lo, hi uint32, start string) {
	runes := []rune(start)
	if len(runes) == 0 {
		return
	}
	last := len(runes) - 1
	first := runes[last]
	for off := uint32(0); off <= hi-lo; off++ {
		runes[last] = first + rune(off)
		e.mapCode(lo+off, string(runes))
	}
}

// decode converts a shown string to text. A nil encoding falls back to
// decodeString.
func (e *fontEncoding) decode(raw []byte) string {
	if e == nil {
		return decodeString(raw)
	}
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if !e.simple {
			if i+1 < len(raw) {
				if s, ok := e.cmap[uint32(raw[i])<<8|uint32(raw[i+1])]; ok {
					sb.WriteString(s)
					i++
					continue
				}
			}
			if s, ok := e.cmap[uint32(raw[i])]; ok {
				sb.WriteString(s)
				continue
			}
		}
		writeVisible(&sb, e.codes[raw[i]])
	}
	return sb.String()
}

func writeVisible(sb *strings.Builder, r rune) {
	if r > 0 && utf8.ValidRune(r) && !unicode.IsControl(r) {
		sb.WriteRune(r)
	}
}

// cmapTokens splits a CMap program into hex strings, brackets and words.
func cmapTokens(data []byte) []string {
	var toks []string
	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case isWhitespace(c):
			i++
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '<' && (i+1 >= len(data) || data[i+1] != '<'):
			j := bytes.IndexByte(data[i:], '>')
			if j < 0 {
				return toks
			}
			toks = append(toks, string(data[i:i+j+1]))
			i += j + 1
		case c == '[' || c == ']':
			toks = append(toks, string(c))
			i++
		default:
			j := i + 1
			for j < len(data) && !isWhitespace(data[j]) && !isDelim(data[j]) {
				j++
			}
			toks = append(toks, string(data[i:j]))
			i = j
		}
	}
	return toks
}

func hexDigits(tok string) string {
	tok = strings.TrimSuffix(strings.TrimPrefix(tok, "<"), ">")
	return strings.Join(strings.Fields(tok), "")
}

// hexCode reads a source code such as <0041>.
func hexCode(tok string) uint32 {
	v, err := strconv.ParseUint(hexDigits(tok), 16, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}

// hexText reads a destination string: one byte is taken as a code point,
// anything longer as UTF-16BE.
func hexText(tok string) string {
	digits := hexDigits(tok)
	if len(digits)%2 == 1 {
		digits += "0"
	}
	b, err := hex.DecodeString(digits)
	if err != nil || len(b) == 0 {
		return ""
	}
	if len(b) == 1 {
		return string(rune(b[0]))
	}
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return string(utf16.Decode(units))
}

// glyphRune resolves an Adobe glyph name, including the uniXXXX and
// uXXXX[XX] forms.
func glyphRune(name string) (rune, bool) {
	if r, ok := glyphNames[name]; ok {
		return r, true
	}
	if len(name) == 1 && ('A' <= name[0] && name[0] <= 'Z' || 'a' <= name[0] && name[0] <= 'z') {
		return rune(name[0]), true
	}
	if digits, ok := strings.CutPrefix(name, "uni"); ok && len(digits) == 4 {
		if v, err := strconv.ParseUint(digits, 16, 32); err == nil {
			return rune(v), true
		}
	}
	if digits, ok := strings.CutPrefix(name, "u"); ok && len(digits) >= 4 && len(digits) <= 6 {
		if v, err := strconv.ParseUint(digits, 16, 32); err == nil && utf8.ValidRune(rune(v)) {
			return rune(v), true
		}
	}
	return 0, false
}

// Upper halves (codes 128-255) of the standard encodings. Zero marks an
// undefined code, which keeps its byte value.
var baseEncodings = map[string]*[128]rune{
	"WinAnsiEncoding":  &winAnsi,
	"MacRomanEncoding": &macRoman,
	"StandardEncoding": &standard,
	"PDFDocEncoding":   &pdfDoc,
}

var winAnsi = [128]rune{
	0x20AC, 0, 0x201A, 0x0192, 0x201E, 0x2026, 0x2020, 0x2021,
	0x02C6, 0x2030, 0x0160, 0x2039, 0x0152, 0, 0x017D, 0,
	0, 0x2018, 0x2019, 0x201C, 0x201D, 0x2022, 0x2013, 0x2014,
	0x02DC, 0x2122, 0x0161, 0x203A, 0x0153, 0, 0x017E, 0x0178,
	0x00A0, 0x00A1, 0x00A2, 0x00A3, 0x00A4, 0x00A5, 0x00A6, 0x00A7,
	0x00A8, 0x00A9, 0x00AA, 0x00AB, 0x00AC, 0x00AD, 0x00AE, 0x00AF,
	0x00B0, 0x00B1, 0x00B2, 0x00B3, 0x00B4, 0x00B5, 0x00B6, 0x00B7,
	0x00B8, 0x00B9, 0x00BA, 0x00BB, 0x00BC, 0x00BD, 0x00BE, 0x00BF,
	0x00C0, 0x00C1, 0x00C2, 0x00C3, 0x00C4, 0x00C5, 0x00C6, 0x00C7,
	0x00C8, 0x00C9, 0x00CA, 0x00CB, 0x00CC, 0x00CD, 0x00CE, 0x00CF,
	0x00D0, 0x00D1, 0x00D2, 0x00D3, 0x00D4, 0x00D5, 0x00D6, 0x00D7,
	0x00D8, 0x00D9, 0x00DA, 0x00DB, 0x00DC, 0x00DD, 0x00DE, 0x00DF,
	0x00E0, 0x00E1, 0x00E2, 0x00E3, 0x00E4, 0x00E5, 0x00E6, 0x00E7,
	0x00E8, 0x00E9, 0x00EA, 0x00EB, 0x00EC, 0x00ED, 0x00EE, 0x00EF,
	0x00F0, 0x00F1, 0x00F2, 0x00F3, 0x00F4, 0x00F5, 0x00F6, 0x00F7,
	0x00F8, 0x00F9, 0x00FA, 0x00FB, 0x00FC, 0x00FD, 0x00FE, 0x00FF,
}

var macRoman = [128]rune{
	0x00C4, 0x00C5, 0x00C7, 0x00C9, 0x00D1, 0x00D6, 0x00DC, 0x00E1,
	0x00E0, 0x00E2, 0x00E4, 0x00E5, 0x00E7, 0x00E9, 0x00E8, 0x00EA,
	0x00EB, 0x00ED, 0x00EC, 0x00EE, 0x00EF, 0x00F1, 0x00F3, 0x00F2,
	0x00F4, 0x00F6, 0x00FA, 0x00F9, 0x00FB, 0x00FC, 0x2020, 0x00B0,
	0x00A2, 0x00A3, 0x00A7, 0x2022, 0x00B6, 0x00DF, 0x00AE, 0x00A9,
	0x2122, 0x00B4, 0x00A8, 0x2260, 0x00C6, 0x00D8, 0x221E, 0x00B1,
	0x2264, 0x2265, 0x00A5, 0x00B5, 0x2202, 0x2211, 0x220F, 0x03C0,
	0x222B, 0x00AA, 0x00BA, 0x03A9, 0x00E6, 0x00F8, 0x00BF, 0x00A1,
	0x00AC, 0x221A, 0x0192, 0x2248, 0x2206, 0x00AB, 0x00BB, 0x2026,
	0x00A0, 0x00C0, 0x00C3, 0x00D5, 0x0152, 0x0153, 0x2013, 0x2014,
	0x201C, 0x201D, 0x2018, 0x2019, 0x00F7, 0x25CA, 0x00FF, 0x0178,
	0x2044, 0x20AC, 0x2039, 0x203A, 0xFB01, 0xFB02, 0x2021, 0x00B7,
	0x201A, 0x201E, 0x2030, 0x00C2, 0x00CA, 0x00C1, 0x00CB, 0x00C8,
	0x00CD, 0x00CE, 0x00CF, 0x00CC, 0x00D3, 0x00D4, 0xF8FF, 0x00D2,
	0x00DA, 0x00DB, 0x00D9, 0x0131, 0x02C6, 0x02DC, 0x00AF, 0x02D8,
	0x02D9, 0x02DA, 0x00B8, 0x02DD, 0x02DB, 0x02C7, 0, 0,
}

var standard = [128]rune{
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0x00A1, 0x00A2, 0x00A3, 0x2044, 0x00A5, 0x0192, 0x00A7,
	0x00A4, 0x0027, 0x201C, 0x00AB, 0x2039, 0x203A, 0xFB01, 0xFB02,
	0, 0x2013, 0x2020, 0x2021, 0x00B7, 0, 0x00B6, 0x2022,
	0x201A, 0x201E, 0x201D, 0x00BB, 0x2026, 0x2030, 0, 0x00BF,
	0, 0x0060, 0x00B4, 0x02C6, 0x02DC, 0x00AF, 0x02D8, 0x02D9,
	0x00A8, 0, 0x02DA, 0x00B8, 0, 0x02DD, 0x02DB, 0x02C7,
	0x2014, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0x00C6, 0, 0x00AA, 0, 0, 0, 0,
	0x0141, 0x00D8, 0x0152, 0x00BA, 0, 0, 0, 0,
	0, 0x00E6, 0, 0, 0, 0x0131, 0, 0,
	0x0142, 0x00F8, 0x0153, 0x00DF, 0, 0, 0, 0,
}

var pdfDoc = [128]rune{
	0x02D8, 0x02C7, 0x02C6, 0x02D9, 0x02DD, 0x02DB, 0x02DA, 0x02DC,
	0x2013, 0x2014, 0x2018, 0x2019, 0x201C, 0x201D, 0x2039, 0x203A,
	0x2026, 0x2030, 0x2020, 0x2021, 0x2022, 0x2122, 0x0192, 0x2044,
	0x2212, 0xFB01, 0xFB02, 0x0141, 0x0152, 0x0160, 0x0178, 0x017D,
	0x00A0, 0x00A1, 0x00A2, 0x00A3, 0x00A4, 0x00A5, 0x00A6, 0x00A7,
	0x00A8, 0x00A9, 0x00AA, 0x00AB, 0x00AC, 0x00AD, 0x00AE, 0x00AF,
	0x00B0, 0x00B1, 0x00B2, 0x00B3, 0x00B4, 0x00B5, 0x00B6, 0x00B7,
	0x00B8, 0x00B9, 0x00BA, 0x00BB, 0x00BC, 0x00BD, 0x00BE, 0x00BF,
	0x00C0, 0x00C1, 0x00C2, 0x00C3, 0x00C4, 0x00C5, 0x00C6, 0x00C7,
	0x00C8, 0x00C9, 0x00CA, 0x00CB, 0x00CC, 0x00CD, 0x00CE, 0x00CF,
	0x00D0, 0x00D1, 0x00D2, 0x00D3, 0x00D4, 0x00D5, 0x00D6, 0x00D7,
	0x00D8, 0x00D9, 0x00DA, 0x00DB, 0x00DC, 0x00DD, 0x00DE, 0x00DF,
	0x00E0, 0x00E1, 0x00E2, 0x00E3, 0x00E4, 0x00E5, 0x00E6, 0x00E7,
	0x00E8, 0x00E9, 0x00EA, 0x00EB, 0x00EC, 0x00ED, 0x00EE, 0x00EF,
	0x00F0, 0x00F1, 0x00F2, 0x00F3, 0x00F4, 0x00F5, 0x00F6, 0x00F7,
	0x00F8, 0x00F9, 0x00FA, 0x00FB, 0x00FC, 0x00FD, 0x00FE, 0x00FF,
}

// glyphNames covers the Adobe glyph names used by the standard Latin
// encodings. Single ASCII letters are resolved by glyphRune.
var glyphNames = map[string]rune{
	"zero": '0', "one": '1', "two": '2', "three": '3', "four": '4',
	"five": '5', "six": '6', "seven": '7', "eight": '8', "nine": '9',
	"space": ' ', "exclam": '!', "quotedbl": '"', "numbersign": '#',
	"dollar": '$', "percent": '%', "ampersand": '&', "quotesingle": '\'',
	"parenleft": '(', "parenright": ')', "asterisk": '*', "plus": '+',
	"comma": ',', "hyphen": '-', "period": '.', "slash": '/',
	"colon": ':', "semicolon": ';', "less": '<', "equal": '=',
	"greater": '>', "question": '?', "at": '@',
	"bracketleft": '[', "backslash": '\\', "bracketright": ']',
	"asciicircum": '^', "underscore": '_', "grave": '`',
	"braceleft": '{', "bar": '|', "braceright": '}', "asciitilde": '~',

	"Agrave": 'À', "Aacute": 'Á', "Acircumflex": 'Â', "Atilde": 'Ã',
	"Adieresis": 'Ä', "Aring": 'Å', "AE": 'Æ', "Ccedilla": 'Ç',
	"Egrave": 'È', "Eacute": 'É', "Ecircumflex": 'Ê', "Edieresis": 'Ë',
	"Igrave": 'Ì', "Iacute": 'Í', "Icircumflex": 'Î', "Idieresis": 'Ï',
	"Eth": 'Ð', "Ntilde": 'Ñ', "Ograve": 'Ò', "Oacute": 'Ó',
	"Ocircumflex": 'Ô', "Otilde": 'Õ', "Odieresis": 'Ö', "multiply": '×',
	"Oslash": 'Ø', "Ugrave": 'Ù', "Uacute": 'Ú', "Ucircumflex": 'Û',
	"Udieresis": 'Ü', "Yacute": 'Ý', "Thorn": 'Þ', "germandbls": 'ß',
	"agrave": 'à', "aacute": 'á', "acircumflex": 'â', "atilde": 'ã',
	"adieresis": 'ä', "aring": 'å', "ae": 'æ', "ccedilla": 'ç',
	"egrave": 'è', "eacute": 'é', "ecircumflex": 'ê', "edieresis": 'ë',
	"igrave": 'ì', "iacute": 'í', "icircumflex": 'î', "idieresis": 'ï',
	"eth": 'ð', "ntilde": 'ñ', "ograve": 'ò', "oacute": 'ó',
	"ocircumflex": 'ô', "otilde": 'õ', "odieresis": 'ö', "divide": '÷',
	"oslash": 'ø', "ugrave": 'ù', "uacute": 'ú', "ucircumflex": 'û',
	"udieresis": 'ü', "yacute": 'ý', "thorn": 'þ', "ydieresis": 'ÿ',

	"endash": '–', "emdash": '—', "quotesinglbase": '‚',
	"quotedblbase": '„', "quotedblleft": '“', "quotedblright": '”',
	"quoteleft": '‘', "quoteright": '’', "ellipsis": '…',
	"dagger": '†', "daggerdbl": '‡', "bullet": '•',
	"perthousand": '‰', "guilsinglleft": '‹', "guilsinglright": '›',
	"guillemotleft": '«', "guillemotright": '»',
	"trademark": '™', "fi": 'ﬁ', "fl": 'ﬂ',
	"florin": 'ƒ', "fraction": '⁄', "Euro": '€', "currency": '¤',
	"cent": '¢', "sterling": '£', "yen": '¥', "section": '§',
	"exclamdown": '¡', "questiondown": '¿', "brokenbar": '¦',
	"copyright": '©', "registered": '®', "logicalnot": '¬',
	"degree": '°', "plusminus": '±', "mu": 'µ',
	"paragraph": '¶', "periodcentered": '·',
	"cedilla": '¸', "ordmasculine": 'º', "ordfeminine": 'ª',
	"nbspace": '\u00A0', "sfthyphen": '\u00AD',
	"OE": 'Œ', "oe": 'œ', "Scaron": 'Š', "scaron": 'š',
	"Zcaron": 'Ž', "zcaron": 'ž', "Ydieresis": 'Ÿ',
	"circumflex": 'ˆ', "tilde": '˜', "macron": '¯',
	"breve": '˘', "dotaccent": '˙', "dieresis": '¨', "acute": '´',
	"ring": '˚', "hungarumlaut": '˝', "ogonek": '˛', "caron": 'ˇ',
	"Lslash": 'Ł', "lslash": 'ł', "dotlessi": 'ı', "minus": '−',
}
