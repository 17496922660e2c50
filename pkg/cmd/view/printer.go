// Copyright Consensys Software Inc.
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
package view

import (
	"fmt"
	"io"
	"math"

	"github.com/consensys/go-vcdstep/pkg/uarch"
	"github.com/consensys/go-vcdstep/pkg/util/termio"
)

// Printer encapsulates various configuration options useful for printing out
// steps in human-readable forms.
type Printer struct {
	// Determine maximum width to print
	maxCellWidth uint
	// Print data words in hex
	hex bool
	// Enable ANSI
	ansiEscapes bool
}

// NewPrinter constructs a default printer
func NewPrinter() *Printer {
	return &Printer{math.MaxUint, false, true}
}

// AnsiEscapes can be used to enable or disable the use of ANSI escape sequences
// (e.g. for showing colour in a terminal, etc)
func (p *Printer) AnsiEscapes(enable bool) *Printer {
	p.ansiEscapes = enable
	return p
}

// MaxCellWidth sets the maximum width to use for the cell data.
func (p *Printer) MaxCellWidth(width uint) *Printer {
	p.maxCellWidth = width
	return p
}

// Hex determines whether register contents and operands are shown in hex, or
// in decimal.
func (p *Printer) Hex(enable bool) *Printer {
	p.hex = enable
	return p
}

// Print a given step, which is the nth step of its history.  Valid reorder
// buffer and issue queue entries are highlighted.
func (p *Printer) Print(w io.Writer, n uint, step uarch.Step) error {
	if _, err := fmt.Fprintf(w, "step %d (time %d)\n", n, step.Time); err != nil {
		return err
	}
	//
	tables := []*termio.TablePrinter{p.regfiles(step)}
	//
	if step.Rob != nil {
		tables = append(tables, p.rob(step))
	}
	//
	if step.Isq != nil {
		tables = append(tables, p.isq(step))
	}
	//
	for _, tp := range tables {
		tp.SetMaxWidths(p.maxCellWidth)
		tp.AnsiEscapes(p.ansiEscapes)
		//
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		} else if err := tp.Print(w); err != nil {
			return err
		}
	}
	//
	return nil
}

func (p *Printer) regfiles(step uarch.Step) *termio.TablePrinter {
	var (
		regs   = step.Regfiles
		height = max(len(regs.CommitMapTable), len(regs.RenameMapTable), len(regs.PhysicalRegfile))
		tp     = termio.NewTablePrinter(4, uint(1+height))
	)
	//
	tp.SetRow(0, "#", "commit", "rename", "phys")
	tp.SetRowEscape(0, termio.BoldAnsiEscape().FgColour(termio.TERM_WHITE))
	//
	for i := 0; i < height; i++ {
		row := uint(1 + i)
		tp.Set(0, row, fmt.Sprintf("%d", i))
		//
		if i < len(regs.CommitMapTable) {
			tp.Set(1, row, fmt.Sprintf("p%d", regs.CommitMapTable[i]))
		}
		//
		if i < len(regs.RenameMapTable) {
			tp.Set(2, row, fmt.Sprintf("p%d", regs.RenameMapTable[i]))
		}
		//
		if i < len(regs.PhysicalRegfile) {
			tp.Set(3, row, p.word(regs.PhysicalRegfile[i]))
		}
	}
	//
	return tp
}

func (p *Printer) rob(step uarch.Step) *termio.TablePrinter {
	tp := termio.NewTablePrinter(6, uint(1+len(step.Rob)*len(step.Rob[0])))
	tp.SetRow(0, "row", "bank", "valid", "phys_rd", "arch_rd", "ready")
	tp.SetRowEscape(0, termio.BoldAnsiEscape().FgColour(termio.TERM_WHITE))
	//
	row := uint(1)
	//
	for i, entries := range step.Rob {
		for b, e := range entries {
			tp.SetRow(row, fmt.Sprintf("%d", i), fmt.Sprintf("%d", b), flag(e.EntryValid),
				fmt.Sprintf("p%d", e.PhysRd), fmt.Sprintf("x%d", e.ArchRd), flag(e.CommitReady))
			//
			if e.EntryValid {
				tp.SetRowEscape(row, termio.NewAnsiEscape().FgColour(termio.TERM_GREEN))
			}
			//
			row++
		}
	}
	//
	return tp
}

func (p *Printer) isq(step uarch.Step) *termio.TablePrinter {
	tp := termio.NewTablePrinter(11, uint(1+len(step.Isq)))
	tp.SetRow(0, "#", "valid", "alu_cmd", "op1_valid", "op1_data", "op2_valid", "op2_type", "op2_data", "phys_rd",
		"bank_addr", "rob_addr")
	tp.SetRowEscape(0, termio.BoldAnsiEscape().FgColour(termio.TERM_WHITE))
	//
	for i, e := range step.Isq {
		row := uint(1 + i)
		tp.SetRow(row, fmt.Sprintf("%d", i), flag(e.EntryValid), uarch.AluCmdName(e.AluCmd), flag(e.Op1Valid),
			p.word(e.Op1Data), flag(e.Op2Valid), uarch.OpTypeName(e.Op2Type), p.word(e.Op2Data),
			fmt.Sprintf("p%d", e.PhysRd), fmt.Sprintf("%d", e.BankAddr), fmt.Sprintf("%d", e.RobAddr))
		//
		if e.EntryValid {
			tp.SetRowEscape(row, termio.NewAnsiEscape().FgColour(termio.TERM_GREEN))
		}
	}
	//
	return tp
}

func (p *Printer) word(w uint32) string {
	if p.hex {
		return fmt.Sprintf("0x%x", w)
	}
	//
	return fmt.Sprintf("%d", w)
}

func flag(b bool) string {
	if b {
		return "1"
	}
	//
	return "0"
}
