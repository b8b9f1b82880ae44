// Package viz renders a method's CFG, annotated with reflection sites and
// loop headers, via Graphviz. Grounded on the teacher's analysis/cfg
// Visualize + utils/dot pipeline (build a DOT graph, then hand it to
// github.com/goccy/go-graphviz), but calling the library's direct
// ParseBytes/RenderFilename API instead of the teacher's own dead
// exec.Command("dot") fallback path in utils/dot.go -- no reason to shell
// out to a subprocess when the Go binding renders directly.
package viz

import (
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/dexshrink/reflectflow/ir"
	"github.com/dexshrink/reflectflow/reflection"
)

// Render writes a Graphviz rendering of method's CFG in the given format
// ("svg", "png", ...) to path. Blocks containing a reflection site are
// labeled with the bindings found there; loop header blocks are filled.
func Render(method *ir.Method, report reflection.Report, loopHeaders map[*ir.Block]bool, format, path string) error {
	if !method.HasCode() {
		return fmt.Errorf("viz: %s has no code to render", method.DeclaringType)
	}

	dot := buildDOT(method, report, loopHeaders)

	g := graphviz.New()
	defer g.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("viz: parsing generated dot: %w", err)
	}
	defer graph.Close()

	if err := g.RenderFilename(graph, graphviz.Format(format), path); err != nil {
		return fmt.Errorf("viz: rendering %s: %w", path, err)
	}
	return nil
}

func buildDOT(method *ir.Method, report reflection.Report, loopHeaders map[*ir.Block]bool) string {
	sitesByInsn := make(map[*ir.Instruction]reflection.Site, len(report.Sites))
	for _, s := range report.Sites {
		sitesByInsn[s.Instruction] = s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n  rankdir=TB;\n  node [shape=box, fontname=\"monospace\"];\n", method.DeclaringType)
	for _, blk := range method.CFG.Blocks {
		attrs := ""
		if loopHeaders[blk] {
			attrs = ", style=filled, fillcolor=lightyellow"
		}
		fmt.Fprintf(&b, "  b%d [label=%q%s];\n", blk.Index, blockLabel(blk, sitesByInsn), attrs)
	}
	for _, blk := range method.CFG.Blocks {
		for _, succ := range blk.Successors() {
			fmt.Fprintf(&b, "  b%d -> b%d;\n", blk.Index, succ.Index)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func blockLabel(blk *ir.Block, sitesByInsn map[*ir.Instruction]reflection.Site) string {
	lines := []string{fmt.Sprintf("block %d", blk.Index)}
	for _, insn := range blk.Insns {
		line := insn.Opcode.String()
		if site, ok := sitesByInsn[insn]; ok {
			parts := make([]string, 0, len(site.Objects))
			for _, reg := range site.Registers() {
				parts = append(parts, reflection.RegisterName(reg)+"="+site.Objects[reg].String())
			}
			line += " [" + strings.Join(parts, ", ") + "]"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\\l") + "\\l"
}
