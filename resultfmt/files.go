// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

// A Files reads line records from a sequence of result files.
//
// Unlike a single malformed file in a plain loop, a file that cannot
// be parsed does not stop the scan: it is returned as a *FileError
// entry and the next Scan moves on to the following path.
//
// A path that cannot be opened is returned as an empty record, which
// is how a run that never wrote its result is represented.
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// ParseNames indicates that each path should be parsed with
	// ParseFilename. A path that does not follow the naming
	// convention is returned as a *FileError.
	ParseNames bool

	next  int
	entry Entry
}

// An Entry is one element of a Files scan: either a *Result or a
// *FileError.
type Entry interface {
	// Path returns the file the entry was read from.
	Path() string
}

// A Result is a successfully read result file.
type Result struct {
	// Params holds the file name parameters. It is only set if
	// Files.ParseNames is set; otherwise only Params.Path is
	// set.
	Params FileParams

	Record *Record
}

func (r *Result) Path() string { return r.Params.Path }

// A FileError is a result file that could not be read or whose name
// could not be parsed.
type FileError struct {
	FileName string
	Err      error
}

func (e *FileError) Path() string { return e.FileName }

// Error returns the underlying error's message, which already names
// the file.
func (e *FileError) Error() string {
	return e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Scan advances to the next file and reports whether there was one.
// The caller should use the Entry method to get what was read.
func (f *Files) Scan() bool {
	if f.next >= len(f.Paths) {
		f.entry = nil
		return false
	}
	path := f.Paths[f.next]
	f.next++
	f.entry = f.read(path)
	return true
}

func (f *Files) read(path string) Entry {
	params := FileParams{Path: path}
	if f.ParseNames {
		var err error
		params, err = ParseFilename(path)
		if err != nil {
			return &FileError{path, err}
		}
	}

	rec, err := readOrEmpty(path)
	if err != nil {
		return &FileError{path, err}
	}
	return &Result{params, rec}
}

// Entry returns the entry that was just read by Scan.
func (f *Files) Entry() Entry {
	return f.entry
}
