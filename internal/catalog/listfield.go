package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errNotList = errors.New("not a list literal")

// DecodeList turns a stored ingredient or step field into ordered items.
// Values starting with '[' are decoded as a JSON array or a quoted list
// literal such as ['1 cup rice', "salt"]; anything else is split on
// delimiter. ok is false when a list-looking value could not be decoded,
// in which case items holds the raw value as its only element.
func DecodeList(raw, delimiter string) (items []string, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []string{}, true
	}

	if strings.HasPrefix(trimmed, "[") {
		if items, err := decodeJSONList(trimmed); err == nil {
			return items, true
		}
		if items, err := decodeLiteralList(trimmed); err == nil {
			return items, true
		}
		return []string{raw}, false
	}

	return splitDelimited(trimmed, delimiter), true
}

func splitDelimited(s, delimiter string) []string {
	if delimiter == "" {
		return []string{s}
	}
	var items []string
	for _, part := range strings.Split(s, delimiter) {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	if items == nil {
		return []string{}
	}
	return items
}

func decodeJSONList(s string) ([]string, error) {
	var values []any
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return nil, err
	}
	items := make([]string, 0, len(values))
	for _, v := range values {
		switch x := v.(type) {
		case string:
			items = append(items, x)
		case float64:
			items = append(items, strconv.FormatFloat(x, 'f', -1, 64))
		case bool:
			items = append(items, strconv.FormatBool(x))
		default:
			return nil, fmt.Errorf("unsupported list element %T", v)
		}
	}
	return items, nil
}

// decodeLiteralList parses a bracketed list of single or double quoted
// strings and bare numbers. It never evaluates the value.
func decodeLiteralList(s string) ([]string, error) {
	sc := &literalScanner{src: s}
	if !sc.consume('[') {
		return nil, errNotList
	}

	items := []string{}
	sc.skipSpace()
	if sc.consume(']') {
		return items, sc.end()
	}

	for {
		sc.skipSpace()
		item, err := sc.item()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		sc.skipSpace()
		if sc.consume(']') {
			return items, sc.end()
		}
		if !sc.consume(',') {
			return nil, fmt.Errorf("expected ',' at offset %d", sc.pos)
		}
		sc.skipSpace()
		// Trailing comma
		if sc.consume(']') {
			return items, sc.end()
		}
	}
}

type literalScanner struct {
	src string
	pos int
}

func (sc *literalScanner) peek() (byte, bool) {
	if sc.pos >= len(sc.src) {
		return 0, false
	}
	return sc.src[sc.pos], true
}

func (sc *literalScanner) consume(c byte) bool {
	if b, ok := sc.peek(); ok && b == c {
		sc.pos++
		return true
	}
	return false
}

func (sc *literalScanner) skipSpace() {
	for {
		b, ok := sc.peek()
		if !ok || (b != ' ' && b != '\t' && b != '\n' && b != '\r') {
			return
		}
		sc.pos++
	}
}

func (sc *literalScanner) end() error {
	sc.skipSpace()
	if sc.pos != len(sc.src) {
		return fmt.Errorf("trailing data at offset %d", sc.pos)
	}
	return nil
}

func (sc *literalScanner) item() (string, error) {
	b, ok := sc.peek()
	if !ok {
		return "", errors.New("unexpected end of list")
	}
	if b == '\'' || b == '"' {
		return sc.quoted(b)
	}
	return sc.number()
}

func (sc *literalScanner) quoted(quote byte) (string, error) {
	sc.pos++
	var b strings.Builder
	for sc.pos < len(sc.src) {
		c := sc.src[sc.pos]
		sc.pos++
		switch {
		case c == quote:
			return b.String(), nil
		case c == '\\':
			if sc.pos >= len(sc.src) {
				return "", errors.New("unterminated escape")
			}
			esc := sc.src[sc.pos]
			sc.pos++
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"':
				b.WriteByte(esc)
			default:
				b.WriteByte('\\')
				b.WriteByte(esc)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", errors.New("unterminated string")
}

func (sc *literalScanner) number() (string, error) {
	start := sc.pos
	for sc.pos < len(sc.src) {
		c := sc.src[sc.pos]
		if !(c >= '0' && c <= '9') && c != '.' && c != '-' && c != '+' && c != 'e' && c != 'E' {
			break
		}
		sc.pos++
	}
	tok := sc.src[start:sc.pos]
	if _, err := strconv.ParseFloat(tok, 64); err != nil {
		return "", fmt.Errorf("invalid list element at offset %d", start)
	}
	return tok, nil
}
