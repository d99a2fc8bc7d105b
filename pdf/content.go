package pdf

import (
	"strconv"
)

// segment is a straight path segment in PDF user space.
type segment struct {
	x1, y1, x2, y2 float64
}

func (s segment) horizontal() bool { return abs(s.y1-s.y2) < 1.0 && abs(s.x1-s.x2) >= 1.0 }
func (s segment) vertical() bool   { return abs(s.x1-s.x2) < 1.0 && abs(s.y1-s.y2) >= 1.0 }

// textItem is a positioned string from a text-showing operator.
type textItem struct {
	x, y     float64
	text     string
	fontSize float64
}

// pageContent is what the lattice strategy needs from one content stream:
// the ruled line segments and the positioned text.
type pageContent struct {
	segments []segment
	texts    []textItem
}

type operandKind int

const (
	opNumber operandKind = iota
	opString
	opName
	opArrayOpen
	opArrayClose
	opOperator
)

type operand struct {
	kind operandKind
	num  float64
	str  string
}

// parseContentStream interprets the subset of content-stream operators that
// matter for table detection: path construction (m, l, re) for ruled lines
// and the text object operators (Tm, Td, TD, TL, T*, Tf, Tj, ', ", TJ) for
// positioned text. Everything else is consumed and ignored.
func parseContentStream(data []byte) *pageContent {
	content := &pageContent{}

	var (
		stack []operand
		array []operand
		inArr bool

		curX, curY   float64 // current path point
		lineX, lineY float64 // start of current text line
		tx, ty       float64 // current text position
		leading      float64
		fontSize     float64 = 10
	)

	popNum := func() float64 {
		if len(stack) == 0 {
			return 0
		}
		op := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return op.num
	}
	popStr := func() string {
		if len(stack) == 0 {
			return ""
		}
		op := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return op.str
	}

	nextLine := func() {
		step := leading
		if step == 0 {
			step = fontSize
		}
		lineY -= step
		tx, ty = lineX, lineY
	}
	showText := func(s string) {
		if s == "" {
			return
		}
		content.texts = append(content.texts, textItem{x: tx, y: ty, text: s, fontSize: fontSize})
		// Approximate advance; exact glyph metrics are not needed to decide
		// which grid cell the text starts in.
		tx += 0.5 * fontSize * float64(len([]rune(s)))
	}

	pos := 0
	for {
		op, next, ok := nextToken(data, pos)
		if !ok {
			break
		}
		pos = next

		switch op.kind {
		case opArrayOpen:
			inArr = true
			array = array[:0]
			continue
		case opArrayClose:
			inArr = false
			continue
		case opNumber, opString, opName:
			if inArr {
				array = append(array, op)
			} else {
				stack = append(stack, op)
			}
			continue
		}

		// Operator.
		switch op.str {
		case "m":
			curY = popNum()
			curX = popNum()
		case "l":
			y := popNum()
			x := popNum()
			content.segments = append(content.segments, segment{curX, curY, x, y})
			curX, curY = x, y
		case "re":
			h := popNum()
			w := popNum()
			y := popNum()
			x := popNum()
			content.segments = append(content.segments,
				segment{x, y, x + w, y},
				segment{x, y + h, x + w, y + h},
				segment{x, y, x, y + h},
				segment{x + w, y, x + w, y + h},
			)
		case "BT":
			lineX, lineY, tx, ty = 0, 0, 0, 0
			leading = 0
		case "Tf":
			fontSize = popNum()
			popStr() // font name
		case "TL":
			leading = popNum()
		case "Tm":
			f := popNum()
			e := popNum()
			popNum() // d
			popNum() // c
			popNum() // b
			popNum() // a
			lineX, lineY = e, f
			tx, ty = e, f
		case "Td":
			dy := popNum()
			dx := popNum()
			lineX += dx
			lineY += dy
			tx, ty = lineX, lineY
		case "TD":
			dy := popNum()
			dx := popNum()
			leading = -dy
			lineX += dx
			lineY += dy
			tx, ty = lineX, lineY
		case "T*":
			nextLine()
		case "Tj":
			showText(popStr())
		case "'":
			s := popStr()
			nextLine()
			showText(s)
		case "\"":
			s := popStr()
			popNum() // word spacing
			popNum() // char spacing
			nextLine()
			showText(s)
		case "TJ":
			for _, el := range array {
				switch el.kind {
				case opString:
					showText(el.str)
				case opNumber:
					// Negative adjustments move the pen right.
					tx -= el.num / 1000 * fontSize
				}
			}
			array = array[:0]
		}
		stack = stack[:0]
	}

	return content
}

// nextToken scans the next content-stream token starting at pos. Comments,
// dictionaries, and inline image data are skipped.
func nextToken(data []byte, pos int) (operand, int, bool) {
	for pos < len(data) {
		c := data[pos]
		switch {
		case isPDFSpace(c):
			pos++
		case c == '%':
			for pos < len(data) && data[pos] != '\n' {
				pos++
			}
		case c == '(':
			str, next := scanLiteralString(data, pos+1)
			return operand{kind: opString, str: str}, next, true
		case c == '<':
			if pos+1 < len(data) && data[pos+1] == '<' {
				pos = skipDict(data, pos)
				continue
			}
			str, next := scanHexString(data, pos+1)
			return operand{kind: opString, str: str}, next, true
		case c == '[':
			return operand{kind: opArrayOpen}, pos + 1, true
		case c == ']':
			return operand{kind: opArrayClose}, pos + 1, true
		case c == '/':
			start := pos + 1
			pos = start
			for pos < len(data) && !isPDFDelim(data[pos]) && !isPDFSpace(data[pos]) {
				pos++
			}
			return operand{kind: opName, str: string(data[start:pos])}, pos, true
		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			start := pos
			pos++
			for pos < len(data) && (data[pos] == '.' || (data[pos] >= '0' && data[pos] <= '9')) {
				pos++
			}
			n, _ := strconv.ParseFloat(string(data[start:pos]), 64)
			return operand{kind: opNumber, num: n}, pos, true
		default:
			start := pos
			for pos < len(data) && !isPDFDelim(data[pos]) && !isPDFSpace(data[pos]) {
				pos++
			}
			if pos == start {
				pos++
				continue
			}
			op := string(data[start:pos])
			if op == "BI" {
				pos = skipInlineImage(data, pos)
				continue
			}
			return operand{kind: opOperator, str: op}, pos, true
		}
	}
	return operand{}, pos, false
}

func isPDFSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isPDFDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// scanLiteralString reads a (...) string body starting just past the opening
// parenthesis, decoding backslash escapes and balancing nested parentheses.
func scanLiteralString(data []byte, pos int) (string, int) {
	var sb []byte
	depth := 1
	for pos < len(data) {
		c := data[pos]
		switch c {
		case '\\':
			pos++
			if pos >= len(data) {
				return string(sb), pos
			}
			e := data[pos]
			switch e {
			case 'n':
				sb = append(sb, '\n')
			case 'r':
				sb = append(sb, '\r')
			case 't':
				sb = append(sb, '\t')
			case 'b', 'f':
				// ignore
			case '(', ')', '\\':
				sb = append(sb, e)
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for k := 0; k < 2 && pos+1 < len(data) && data[pos+1] >= '0' && data[pos+1] <= '7'; k++ {
						pos++
						val = val*8 + int(data[pos]-'0')
					}
					sb = append(sb, byte(val))
				} else {
					sb = append(sb, e)
				}
			}
			pos++
		case '(':
			depth++
			sb = append(sb, c)
			pos++
		case ')':
			depth--
			if depth == 0 {
				return string(sb), pos + 1
			}
			sb = append(sb, c)
			pos++
		default:
			sb = append(sb, c)
			pos++
		}
	}
	return string(sb), pos
}

// scanHexString reads a <...> hex string body starting just past the opening
// angle bracket.
func scanHexString(data []byte, pos int) (string, int) {
	var digits []byte
	for pos < len(data) && data[pos] != '>' {
		c := data[pos]
		if isHexDigit(c) {
			digits = append(digits, c)
		}
		pos++
	}
	if pos < len(data) {
		pos++ // consume '>'
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		out = append(out, hexVal(digits[i])<<4|hexVal(digits[i+1]))
	}
	return string(out), pos
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// skipDict advances past a << ... >> dictionary, handling nesting.
func skipDict(data []byte, pos int) int {
	depth := 0
	for pos+1 < len(data) {
		if data[pos] == '<' && data[pos+1] == '<' {
			depth++
			pos += 2
			continue
		}
		if data[pos] == '>' && data[pos+1] == '>' {
			depth--
			pos += 2
			if depth == 0 {
				return pos
			}
			continue
		}
		pos++
	}
	return len(data)
}

// skipInlineImage advances past BI ... ID ... EI inline image data.
func skipInlineImage(data []byte, pos int) int {
	for pos+1 < len(data) {
		if data[pos] == 'E' && data[pos+1] == 'I' &&
			(pos == 0 || isPDFSpace(data[pos-1])) &&
			(pos+2 >= len(data) || isPDFSpace(data[pos+2])) {
			return pos + 2
		}
		pos++
	}
	return len(data)
}
