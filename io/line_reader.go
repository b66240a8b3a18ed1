package io

import (
	"bufio"
	"fmt"
	stdio "io"
	"strconv"
	"strings"

	"github.com/dot5enko/pointindex/schema"
)

const maxLineSize = 64 << 20

// LineReader walks a line oriented text file and reports errors with line numbers.
type LineReader struct {
	sc   *bufio.Scanner
	name string
	line int
}

func NewLineReader(r stdio.Reader, name string) *LineReader {

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &LineReader{sc: sc, name: name}
}

// Next returns the next raw line, ok is false at the end of input.
func (l *LineReader) Next() (line string, ok bool) {

	if !l.sc.Scan() {
		return "", false
	}

	l.line++

	return strings.TrimRight(l.sc.Text(), "\r"), true
}

func (l *LineReader) Err() error {
	if err := l.sc.Err(); err != nil {
		return fmt.Errorf("%s: %s", l.name, err.Error())
	}
	return nil
}

func (l *LineReader) Errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s:%d: %s", ErrMalformedFile, l.name, l.line, fmt.Sprintf(format, args...))
}

// NextFields reads the next line split on whitespace, count < 0 accepts any width.
func (l *LineReader) NextFields(count int) ([]string, error) {

	line, ok := l.Next()
	if !ok {
		if err := l.Err(); err != nil {
			return nil, err
		}
		return nil, l.Errorf("unexpected end of file")
	}

	fields := strings.Fields(line)
	if count >= 0 && len(fields) != count {
		return nil, l.Errorf("expected %d fields, got %d", count, len(fields))
	}

	return fields, nil
}

func (l *LineReader) Expect(keyword string) error {

	line, ok := l.Next()
	if !ok {
		return l.Errorf("expected `%s`, got end of file", keyword)
	}

	if strings.TrimSpace(line) != keyword {
		return l.Errorf("expected `%s`, got `%s`", keyword, line)
	}

	return nil
}

// Header reads `keyword value...` and returns the values.
func (l *LineReader) Header(keyword string, values int) ([]string, error) {

	fields, err := l.NextFields(values + 1)
	if err != nil {
		return nil, err
	}

	if fields[0] != keyword {
		return nil, l.Errorf("expected `%s` header, got `%s`", keyword, fields[0])
	}

	return fields[1:], nil
}

func (l *LineReader) Int(field string) (int, error) {
	v, err := strconv.Atoi(field)
	if err != nil {
		return 0, l.Errorf("`%s` is not an integer", field)
	}
	return v, nil
}

func (l *LineReader) Ints(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := l.Int(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (l *LineReader) Float(field string) (float64, error) {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, l.Errorf("`%s` is not a number", field)
	}
	return v, nil
}

func (l *LineReader) Scalar(field string) (schema.Scalar, error) {
	v, err := strconv.ParseInt(field, 10, 32)
	if err != nil {
		return 0, l.Errorf("`%s` is not a 32 bit integer", field)
	}
	return schema.Scalar(v), nil
}

func (l *LineReader) Scalars(fields []string) ([]schema.Scalar, error) {
	out := make([]schema.Scalar, len(fields))
	for i, f := range fields {
		v, err := l.Scalar(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
