// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultfmt reads the result files written by multi-agent
// pathfinding benchmark runs.
//
// Two shapes of input are supported. Line records are plain text
// files with one "field: value" assertion per line; they are produced
// by one planner invocation each and are read with ReadFile. Run lists
// are structured files holding many runs of a planner, each with an
// agent count and a sequence of phase runtimes; they are read with
// ReadRuns.
//
// Parameters of a line record that are not stored in the file itself
// (agent count, iteration, trial, seed, radius) are encoded in its
// file name and recovered with ParseFilename and Radius.
//
// Malformed input is reported with typed errors so callers can skip a
// single bad file and keep aggregating the rest.
package resultfmt

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// A Record is the content of one line-oriented result file.
//
// A Record with no lines is valid: it means the planner did not
// produce any output, typically because it was killed at the
// benchmark's timeout.
type Record struct {
	// Lines are the raw lines of the file, without line
	// terminators.
	Lines []string

	// FileName is used in error messages; it is purely
	// diagnostic.
	FileName string
}

// NewRecord constructs a Record from the lines of r.
// fileName is used in error messages.
func NewRecord(r io.Reader, fileName string) (*Record, error) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	rec := &Record{FileName: fileName}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), math.MaxInt32)
	for s.Scan() {
		rec.Lines = append(rec.Lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%s:%d: %w", fileName, len(rec.Lines)+1, err)
	}
	return rec, nil
}

// ReadFile reads the record stored at path.
func ReadFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return NewRecord(f, path)
}

// Empty reports whether the record has no lines.
func (r *Record) Empty() bool {
	return len(r.Lines) == 0
}

// fieldKey normalizes a field name to the "name:" form that is
// searched for in record lines.
func fieldKey(field string) string {
	field = strings.TrimSpace(field)
	if !strings.HasSuffix(field, ":") {
		field += ":"
	}
	return field
}

// Lookup returns the raw text value of field.
//
// The field name may be given with or without its trailing colon.
// Exactly one line of the record must contain "field:". The value is
// that line with the field name and every remaining colon removed,
// and surrounding white space trimmed.
func (r *Record) Lookup(field string) (string, error) {
	key := fieldKey(field)
	var match string
	n := 0
	for _, l := range r.Lines {
		if strings.Contains(l, key) {
			match = l
			n++
		}
	}
	switch {
	case n == 0:
		return "", &FieldNotFoundError{r.FileName, key}
	case n > 1:
		return "", &AmbiguousFieldError{r.FileName, key, n}
	}
	val := strings.ReplaceAll(match, key, "")
	val = strings.ReplaceAll(val, ":", "")
	return strings.TrimSpace(val), nil
}

// A Scalar is a type a record field can be coerced to.
type Scalar interface {
	float64 | int | bool | string
}

// Get looks up field in r and coerces its value to T.
func Get[T Scalar](r *Record, field string) (T, error) {
	var zero T
	raw, err := r.Lookup(field)
	if err != nil {
		return zero, err
	}
	v, err := coerce[T](raw)
	if err != nil {
		return zero, &FieldValueError{r.FileName, fieldKey(field), raw, err}
	}
	return v, nil
}

func coerce[T Scalar](raw string) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, err
		}
		*p = v
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return out, err
		}
		*p = v
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return out, err
		}
		*p = v
	case *string:
		*p = raw
	}
	return out, nil
}

// A FieldNotFoundError reports that no line of a record holds a
// requested field.
type FieldNotFoundError struct {
	FileName string
	Field    string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("%s: field %q not found", e.FileName, e.Field)
}

// An AmbiguousFieldError reports that more than one line of a record
// holds a requested field.
type AmbiguousFieldError struct {
	FileName string
	Field    string
	Count    int
}

func (e *AmbiguousFieldError) Error() string {
	return fmt.Sprintf("%s: field %q is not unique (%d lines)", e.FileName, e.Field, e.Count)
}

// A FieldValueError reports that a field's value could not be
// converted to the requested type.
type FieldValueError struct {
	FileName string
	Field    string
	Value    string
	Err      error
}

func (e *FieldValueError) Error() string {
	return fmt.Sprintf("%s: field %q: bad value %q: %v", e.FileName, e.Field, e.Value, e.Err)
}

func (e *FieldValueError) Unwrap() error {
	return e.Err
}
