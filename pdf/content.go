package pdf

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf16"
)

// operandKind identifies the type of a content stream operand.
type operandKind int

const (
	opOther operandKind = iota
	opNumber
	opString
	opName
	opArray
)

// operand is a single value pushed onto the operand stack.
type operand struct {
	kind operandKind
	num  float64
	str  []byte
	arr  []operand
}

// kerningSpace is the TJ displacement (in thousandths of text space) below
// which the gap is treated as a word break.
const kerningSpace = -100

// maxNesting bounds array recursion on hostile input.
const maxNesting = 64

// contentScanner tokenises a page content stream.
type contentScanner struct {
	data []byte
	pos  int
}

// scanFragments runs the content stream and emits one fragment per
// text-showing operator (Tj, TJ, ' and "). Marked-content openers (BMC, BDC)
// and TJ arrays without strings produce fragments with HasText false.
// Strings are decoded with the font last selected by Tf, looked up in fonts.
func scanFragments(data []byte, fonts map[string]*fontEncoding) []Fragment {
	s := &contentScanner{data: data}
	var (
		frags []Fragment
		stack []operand
		font  *fontEncoding
	)

	for {
		s.skipWhitespace()
		if s.pos >= len(s.data) {
			break
		}
		c := s.data[s.pos]

		switch {
		case c == '(' || c == '[' || c == '/' || isNumberStart(c):
			stack = append(stack, s.operand(0))
			continue
		case c == '<':
			if s.peekAt(1) == '<' {
				s.skipDict()
				stack = append(stack, operand{kind: opOther})
				continue
			}
			stack = append(stack, s.operand(0))
			continue
		case isRegular(c):
			op := s.readToken()
			if op == "Tf" && len(stack) >= 2 && stack[len(stack)-2].kind == opName {
				font = fonts[string(stack[len(stack)-2].str)]
			}
			if f, ok := showText(op, stack, font); ok {
				frags = append(frags, f)
			}
			if op == "ID" {
				s.skipInlineImage()
			}
			stack = stack[:0]
			continue
		}
		s.pos++
	}
	return frags
}

// showText maps a text-showing operator and its operands to a fragment.
func showText(op string, args []operand, font *fontEncoding) (Fragment, bool) {
	switch op {
	case "Tj", "'":
		if len(args) < 1 {
			return Fragment{}, false
		}
		return stringFragment(args[len(args)-1], font)
	case `"`:
		if len(args) < 3 {
			return Fragment{}, false
		}
		return stringFragment(args[len(args)-1], font)
	case "TJ":
		if len(args) < 1 || args[len(args)-1].kind != opArray {
			return Fragment{}, false
		}
		var (
			sb      strings.Builder
			hasText bool
		)
		for _, elem := range args[len(args)-1].arr {
			switch elem.kind {
			case opString:
				hasText = true
				sb.WriteString(font.decode(elem.str))
			case opNumber:
				if elem.num < kerningSpace {
					sb.WriteByte(' ')
				}
			}
		}
		if !hasText {
			return Fragment{}, true
		}
		return Fragment{Text: sb.String(), HasText: true}, true
	case "BMC", "BDC":
		return Fragment{}, true
	}
	return Fragment{}, false
}

func stringFragment(arg operand, font *fontEncoding) (Fragment, bool) {
	if arg.kind != opString {
		return Fragment{}, false
	}
	return Fragment{Text: font.decode(arg.str), HasText: true}, true
}

// decodeString converts a string shown with an unknown font. Strings
// carrying a UTF-16BE byte order mark are decoded as such; everything else
// is read as WinAnsiEncoding with control characters dropped.
func decodeString(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		units := make([]uint16, 0, (len(raw)-2)/2)
		for i := 2; i+1 < len(raw); i += 2 {
			units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		return string(utf16.Decode(units))
	}
	var sb strings.Builder
	for _, b := range raw {
		r := rune(b)
		if b >= 0x80 && winAnsi[b-0x80] != 0 {
			r = winAnsi[b-0x80]
		}
		writeVisible(&sb, r)
	}
	return sb.String()
}

// ---- Tokeniser ----

func (s *contentScanner) peekAt(off int) byte {
	if s.pos+off >= len(s.data) {
		return 0
	}
	return s.data[s.pos+off]
}

// skipWhitespace skips whitespace and comments.
func (s *contentScanner) skipWhitespace() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		switch {
		case c == '%':
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
		case isWhitespace(c):
			s.pos++
		default:
			return
		}
	}
}

// operand parses one operand at the current position.
func (s *contentScanner) operand(depth int) operand {
	c := s.data[s.pos]
	switch {
	case c == '(':
		return operand{kind: opString, str: s.literalString()}
	case c == '<':
		return operand{kind: opString, str: s.hexString()}
	case c == '/':
		s.pos++
		start := s.pos
		for s.pos < len(s.data) && isRegular(s.data[s.pos]) {
			s.pos++
		}
		return operand{kind: opName, str: s.data[start:s.pos]}
	case c == '[':
		return s.array(depth)
	case isNumberStart(c):
		n, err := strconv.ParseFloat(s.readToken(), 64)
		if err != nil {
			return operand{kind: opOther}
		}
		return operand{kind: opNumber, num: n}
	}
	s.pos++
	return operand{kind: opOther}
}

func (s *contentScanner) array(depth int) operand {
	s.pos++ // '['
	arr := operand{kind: opArray}
	for {
		s.skipWhitespace()
		if s.pos >= len(s.data) {
			return arr
		}
		c := s.data[s.pos]
		if c == ']' {
			s.pos++
			return arr
		}
		if depth >= maxNesting {
			s.pos++
			continue
		}
		if c == '(' || c == '<' || c == '/' || c == '[' || isNumberStart(c) {
			arr.arr = append(arr.arr, s.operand(depth+1))
			continue
		}
		// Operators are not legal inside arrays; skip the token.
		if isRegular(c) {
			s.readToken()
			continue
		}
		s.pos++
	}
}

// literalString parses (...) with escapes and balanced parentheses.
func (s *contentScanner) literalString() []byte {
	s.pos++ // '('
	var buf bytes.Buffer
	depth := 1
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '\\':
			if s.pos >= len(s.data) {
				return buf.Bytes()
			}
			esc := s.data[s.pos]
			s.pos++
			switch esc {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '\r':
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if esc >= '0' && esc <= '7' {
					v := int(esc - '0')
					for i := 0; i < 2 && s.pos < len(s.data); i++ {
						d := s.data[s.pos]
						if d < '0' || d > '7' {
							break
						}
						v = v*8 + int(d-'0')
						s.pos++
					}
					buf.WriteByte(byte(v))
				} else {
					buf.WriteByte(esc)
				}
			}
		case '(':
			depth++
			buf.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return buf.Bytes()
			}
			buf.WriteByte(c)
		default:
			buf.WriteByte(c)
		}
	}
	return buf.Bytes()
}

// hexString parses <...>. An odd trailing digit is padded with zero.
func (s *contentScanner) hexString() []byte {
	s.pos++ // '<'
	var (
		buf    []byte
		hi     byte
		haveHi bool
	)
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		if c == '>' {
			break
		}
		v, ok := hexVal(c)
		if !ok {
			continue
		}
		if haveHi {
			buf = append(buf, hi<<4|v)
			haveHi = false
		} else {
			hi, haveHi = v, true
		}
	}
	if haveHi {
		buf = append(buf, hi<<4)
	}
	return buf
}

// skipDict skips an inline <<...>> dictionary (BDC property lists).
func (s *contentScanner) skipDict() {
	depth := 0
	for s.pos < len(s.data) {
		switch {
		case s.data[s.pos] == '<' && s.peekAt(1) == '<':
			depth++
			s.pos += 2
		case s.data[s.pos] == '>' && s.peekAt(1) == '>':
			depth--
			s.pos += 2
			if depth == 0 {
				return
			}
		case s.data[s.pos] == '(':
			s.literalString()
		default:
			s.pos++
		}
	}
}

// skipInlineImage skips binary inline image data up to the EI operator.
func (s *contentScanner) skipInlineImage() {
	for s.pos+2 <= len(s.data) {
		if s.data[s.pos] == 'E' && s.data[s.pos+1] == 'I' &&
			s.pos > 0 && isWhitespace(s.data[s.pos-1]) &&
			(s.pos+2 == len(s.data) || isWhitespace(s.data[s.pos+2]) || isDelim(s.data[s.pos+2])) {
			s.pos += 2
			return
		}
		s.pos++
	}
	s.pos = len(s.data)
}

// readToken reads a run of regular characters.
func (s *contentScanner) readToken() string {
	start := s.pos
	for s.pos < len(s.data) && isRegular(s.data[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

func isNumberStart(c byte) bool {
	return c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9')
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(c byte) bool {
	return !isWhitespace(c) && !isDelim(c)
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
