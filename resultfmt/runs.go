// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resultfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// A Run is one planner run from a run list.
type Run struct {
	NumAgents int `json:"num_agents" yaml:"num_agents"`

	// Runtimes are the times, in seconds, at which the planner
	// produced each successive solution. The first is the time to
	// the first solution and the last is the time to the optimal
	// solution. Planners that only report an optimal solution
	// have a single runtime.
	Runtimes Runtimes `json:"runtimes" yaml:"runtimes"`
}

// Runtimes is a sequence of solution times. It decodes from either a
// list of numbers or a single number, which planners reporting only
// an optimal solution write.
type Runtimes []float64

func (rt *Runtimes) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		*rt = nil
		return nil
	}
	if n.Kind == yaml.ScalarNode {
		var v float64
		if err := n.Decode(&v); err != nil {
			return err
		}
		*rt = Runtimes{v}
		return nil
	}
	var vs []float64
	if err := n.Decode(&vs); err != nil {
		return err
	}
	*rt = vs
	return nil
}

func (rt *Runtimes) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*rt = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*rt = Runtimes{v}
		return nil
	}
	var vs []float64
	if err := json.Unmarshal(data, &vs); err != nil {
		return err
	}
	*rt = vs
	return nil
}

// FirstTime returns the time to the first solution.
func (r Run) FirstTime() (float64, error) {
	if len(r.Runtimes) == 0 {
		return 0, &RunError{NumAgents: r.NumAgents, Msg: "no runtimes"}
	}
	return r.Runtimes[0], nil
}

// OptimalTime returns the time to the optimal solution.
func (r Run) OptimalTime() (float64, error) {
	if len(r.Runtimes) == 0 {
		return 0, &RunError{NumAgents: r.NumAgents, Msg: "no runtimes"}
	}
	return r.Runtimes[len(r.Runtimes)-1], nil
}

// A Format selects the encoding of a run list.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatOf picks the run list format from the extension of path.
// ".json" files are JSON; everything else is read as YAML, which
// also accepts JSON flow syntax.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// DecodeRuns decodes a run list from r. fileName is used in error
// messages.
func DecodeRuns(r io.Reader, format Format, fileName string) ([]Run, error) {
	var runs []Run
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&runs)
	default:
		err = yaml.NewDecoder(r).Decode(&runs)
	}
	if err == io.EOF {
		// An empty file holds no runs.
		return nil, nil
	}
	if err != nil {
		return nil, &RunError{FileName: fileName, Msg: "decoding run list", Err: err}
	}
	return runs, nil
}

// ReadRuns reads the run list stored at path.
func ReadRuns(path string) ([]Run, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeRuns(f, FormatOf(path), path)
}

// A RunError reports a malformed run list or run.
type RunError struct {
	FileName  string
	NumAgents int
	Msg       string
	Err       error
}

func (e *RunError) Error() string {
	var b strings.Builder
	if e.FileName != "" {
		b.WriteString(e.FileName)
		b.WriteString(": ")
	}
	if e.NumAgents != 0 {
		fmt.Fprintf(&b, "run with %d agents: ", e.NumAgents)
	}
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RunError) Unwrap() error {
	return e.Err
}
