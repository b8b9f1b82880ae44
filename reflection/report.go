package reflection

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dexshrink/reflectflow/domain"
	"github.com/dexshrink/reflectflow/internal/indenter"
	"github.com/dexshrink/reflectflow/ir"
)

// Site is one entry of get_reflection_sites(): an instruction and the
// reflection-output values reachable at it, keyed by register (spec.md
// §4.5 "ordered-by-register map").
type Site struct {
	Instruction *ir.Instruction
	Objects     map[ir.RegisterID]domain.AbstractObject
}

// Registers returns the site's registers in ascending order.
// RESULT_REGISTER (math.MaxInt32) always sorts last.
func (s Site) Registers() []ir.RegisterID {
	regs := make([]ir.RegisterID, 0, len(s.Objects))
	for r := range s.Objects {
		regs = append(regs, r)
	}
	sort.Slice(regs, func(i, j int) bool { return regs[i] < regs[j] })
	return regs
}

// Report is the ordered summary reflection.Analysis.Report() produces
// (SPEC_FULL.md §4.5), rendered by cmd/reflectflow in color and overlaid
// by internal/viz on the CFG rendering.
type Report struct {
	Sites []Site
}

// Report builds the ordered reflection-site summary for a.
func (a *Analysis) Report() Report {
	return Report{Sites: a.GetReflectionSites()}
}

// String renders the report as indented plain text, in the teacher's own
// indenter-based pretty-printing style (internal/indenter, adapted from
// utils/indenter).
func (r Report) String() string {
	b := indenter.Start("reflection sites")
	lines := make([]string, 0, len(r.Sites))
	for _, site := range r.Sites {
		bindings := make([]string, 0, len(site.Objects))
		for _, reg := range site.Registers() {
			bindings = append(bindings, RegisterName(reg)+"="+site.Objects[reg].String())
		}
		lines = append(lines, site.Instruction.Opcode.String()+": "+strings.Join(bindings, ", "))
	}
	b.NestSep("; ", lines...)
	return b.End("")
}

// RegisterName renders reg for display, naming the two sentinel registers.
func RegisterName(reg ir.RegisterID) string {
	switch reg {
	case ir.ResultRegister:
		return "RESULT_REGISTER"
	case ir.NoRegister:
		return "NO_REGISTER"
	default:
		return "v" + strconv.Itoa(int(reg))
	}
}
