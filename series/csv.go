// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package series

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes the series side by side as a CSV table, one row per
// key. The header row is xName followed by "<stat> <column>" for every
// column of every series. All series must have the same keys.
func WriteCSV(out io.Writer, xName string, ss ...*Series) error {
	hdr := []string{xName}
	for _, s := range ss {
		for _, c := range s.Columns {
			hdr = append(hdr, s.Stat+" "+c.Name)
		}
	}
	tab := [][]string{hdr}
	if len(ss) > 0 {
		for _, s := range ss[1:] {
			if len(s.Keys) != len(ss[0].Keys) {
				return &KeyMismatchError{ss[0].Stat, s.Stat}
			}
		}
		for i, k := range ss[0].Keys {
			row := []string{strconv.Itoa(k)}
			for _, s := range ss {
				if s.Keys[i] != k {
					return &KeyMismatchError{ss[0].Stat, s.Stat}
				}
				for _, c := range s.Columns {
					row = append(row, strof(c.Values[i]))
				}
			}
			tab = append(tab, row)
		}
	}
	csvw := csv.NewWriter(out)
	if err := csvw.WriteAll(tab); err != nil {
		return err
	}
	return nil
}

// A KeyMismatchError reports series with different keys written to
// the same table.
type KeyMismatchError struct {
	Stat, Other string
}

func (e *KeyMismatchError) Error() string {
	return "series " + e.Stat + " and " + e.Other + " have different keys"
}

func strof(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
