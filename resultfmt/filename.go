// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FileParams are the run parameters encoded in a result file name.
type FileParams struct {
	// Path is the file name exactly as given to ParseFilename.
	Path string

	Agents int
	Iter   int
	Trial  int
	Seed   int
}

// DensitySuffixes are the obstacle density markers removed from a
// file name before its parameters are parsed.
var DensitySuffixes = []string{"_density_0.1", "_density_0.05", "_density_0.01"}

var paramsRE = regexp.MustCompile(`[a-zA-Z_/]*(\d{1,3})_iter_(\d{1,3})_trial_(\d{1,3})_seed_(\d{1,6}).result`)

// ParseFilename extracts the agent count, iteration, trial and seed
// from a result file name of the form
//
//	<prefix><agents>_iter_<iter>_trial_<trial>_seed_<seed>.result
//
// where the prefix consists of letters, underscores and slashes, and
// may carry one of DensitySuffixes.
func ParseFilename(path string) (FileParams, error) {
	stripped := path
	for _, sfx := range DensitySuffixes {
		stripped = strings.ReplaceAll(stripped, sfx, "")
	}
	m := paramsRE.FindStringSubmatch(stripped)
	if m == nil {
		return FileParams{}, &FilenameError{path, "does not match <agents>_iter_<n>_trial_<n>_seed_<n>.result"}
	}
	var ints [4]int
	for i := range ints {
		// The pattern only admits short digit runs, so Atoi
		// cannot fail.
		ints[i], _ = strconv.Atoi(m[i+1])
	}
	return FileParams{Path: path, Agents: ints[0], Iter: ints[1], Trial: ints[2], Seed: ints[3]}, nil
}

const radiusMarker = "_xstar"

// Radius returns the initial window radius of a radius sweep result,
// which is the single digit that follows the first "_xstar" in path.
func Radius(path string) (int, error) {
	i := strings.Index(path, radiusMarker)
	if i < 0 {
		return 0, &FilenameError{path, "no " + radiusMarker + " marker"}
	}
	i += len(radiusMarker)
	if i >= len(path) || path[i] < '0' || path[i] > '9' {
		return 0, &FilenameError{path, "no radius digit after " + radiusMarker}
	}
	return int(path[i] - '0'), nil
}

var densityRE = regexp.MustCompile(`density_?(\d+(?:\.\d+)?)`)

// Density returns the obstacle density encoded in path, either as
// "density_0.1" (line records) or "density0.1" (run lists). ok is
// false if path has no density marker.
func Density(path string) (density float64, ok bool) {
	m := densityRE.FindStringSubmatch(path)
	if m == nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return d, true
}

// A FilenameError reports a result file name that does not follow the
// expected naming convention.
type FilenameError struct {
	Path string
	Msg  string
}

func (e *FilenameError) Error() string {
	return fmt.Sprintf("%s: bad result file name: %s", e.Path, e.Msg)
}
