package rdf

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

var errInvalidEscape = errors.New("invalid escape sequence")

// readLineWithLimit reads one line including its terminator. A final line
// without a newline is returned as is. maxBytes <= 0 disables the limit;
// an over-long line is discarded and reported as ErrLineTooLong.
func readLineWithLimit(reader *bufio.Reader, maxBytes int) (string, error) {
	if maxBytes <= 0 {
		line, err := reader.ReadString('\n')
		if err == io.EOF && line != "" {
			return line, nil
		}
		return line, err
	}

	var buf []byte
	for {
		part, err := reader.ReadSlice('\n')
		buf = append(buf, part...)
		if len(buf) > maxBytes {
			if err == bufio.ErrBufferFull {
				skipRestOfLine(reader)
			}
			return "", ErrLineTooLong
		}
		switch {
		case err == nil:
			return string(buf), nil
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && len(buf) > 0:
			return string(buf), nil
		default:
			return "", err
		}
	}
}

func skipRestOfLine(reader *bufio.Reader) {
	for {
		if _, err := reader.ReadSlice('\n'); err != bufio.ErrBufferFull {
			return
		}
	}
}

// contextReader fails reads once its context is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// isValidLangTag accepts BCP 47 shaped tags (a 1-8 letter primary subtag
// followed by alphanumeric subtags) with an optional --ltr or --rtl base
// direction.
func isValidLangTag(tag string) bool {
	if i := strings.Index(tag, "--"); i >= 0 {
		if dir := tag[i+2:]; dir != "ltr" && dir != "rtl" {
			return false
		}
		tag = tag[:i]
	}
	if tag == "" {
		return false
	}
	for i, sub := range strings.Split(tag, "-") {
		if sub == "" || len(sub) > 8 {
			return false
		}
		for j := 0; j < len(sub); j++ {
			ch := sub[j]
			letter := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
			digit := ch >= '0' && ch <= '9'
			if !letter && (i == 0 || !digit) {
				return false
			}
		}
	}
	return true
}

// UnescapeString decodes the escapes allowed in N-Triples strings and IRIs:
// the ECHAR set (\t \b \n \r \f \" \' \\) and the UCHAR forms \uXXXX and
// \UXXXXXXXX. A \uXXXX high surrogate must be followed by a \uXXXX low
// surrogate.
func UnescapeString(s string) (string, error) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}
		if i+1 >= len(s) {
			return "", errors.New("unterminated escape")
		}
		switch esc := s[i+1]; esc {
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case '"', '\'', '\\':
			b.WriteByte(esc)
		case 'u', 'U':
			r, n, err := decodeUChar(s[i:])
			if err != nil {
				return "", err
			}
			b.WriteRune(r)
			i += n
			continue
		default:
			return "", errInvalidEscape
		}
		i += 2
	}
	return b.String(), nil
}

// decodeUChar decodes the \u or \U escape at the start of s and returns the
// rune and the number of bytes consumed.
func decodeUChar(s string) (rune, int, error) {
	width := 4
	if s[1] == 'U' {
		width = 8
	}
	r, ok := hexRune(s[2:], width)
	if !ok {
		return 0, 0, errInvalidEscape
	}
	n := 2 + width
	if width == 4 && utf16.IsSurrogate(r) {
		if r >= 0xDC00 || !strings.HasPrefix(s[n:], `\u`) {
			return 0, 0, errInvalidEscape
		}
		low, ok := hexRune(s[n+2:], 4)
		if !ok {
			return 0, 0, errInvalidEscape
		}
		if r = utf16.DecodeRune(r, low); r == utf8.RuneError {
			return 0, 0, errInvalidEscape
		}
		n += 6
	}
	if !utf8.ValidRune(r) {
		return 0, 0, errInvalidEscape
	}
	return r, n, nil
}

func hexRune(s string, width int) (rune, bool) {
	if len(s) < width {
		return 0, false
	}
	v, err := strconv.ParseUint(s[:width], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
