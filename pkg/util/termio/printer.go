// Copyright Surveykit Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package termio

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// TablePrinter is useful for printing tables to the terminal.
type TablePrinter struct {
	widths []int
	rows   [][]string
}

// NewTablePrinter constructs a new printer for tables of a given width.
func NewTablePrinter(width int) *TablePrinter {
	return &TablePrinter{widths: make([]int, width)}
}

// AddRow appends the contents of an entire row to this table.
func (p *TablePrinter) AddRow(vals ...string) {
	if len(vals) != len(p.widths) {
		panic("incorrect number of columns")
	}
	// Update column widths
	for i := range p.widths {
		p.widths[i] = max(p.widths[i], len(vals[i]))
	}
	// Done
	p.rows = append(p.rows, vals)
}

// SetMaxWidth puts an upper bound on the width of every column.
func (p *TablePrinter) SetMaxWidth(width int) {
	for i := range p.widths {
		p.widths[i] = min(p.widths[i], width)
	}
}

// Print writes the table out, one line per row, truncating any cell which
// exceeds its column width.
func (p *TablePrinter) Print(w io.Writer) {
	for _, row := range p.rows {
		for i, cell := range row {
			width := p.widths[i]
			//
			if len(cell) > width {
				fmt.Fprintf(w, " %*s..", width-2, cell[0:width-2])
			} else {
				fmt.Fprintf(w, " %*s", width, cell)
			}
		}
		//
		fmt.Fprintln(w)
	}
}

// TerminalWidth determines the width of the enclosing terminal, falling
// back to a conventional default when stdout is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	//
	if err != nil || width <= 0 {
		return 80
	}
	//
	return width
}
