package cfg

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mjp2ff/aid-sub000/internal/tree"
)

// PrintDot writes the graph in GraphViz DOT format. name renders a node; when
// it is nil or returns "", the tree's description of the statement is used.
// Nodes whose names collide are disambiguated with their handle.
func (c *CFG) PrintDot(w io.Writer, name func(tree.NodeID) string) {
	labels := c.dotLabels(name)

	fmt.Fprintf(w, "digraph mgraph {\n\tmode=\"heir\";\n\tsplines=\"ortho\";\n\n")
	for _, from := range c.Blocks() {
		for _, to := range c.Succs(from) {
			fmt.Fprintf(w, "\t%q -> %q\n", labels[from], labels[to])
		}
	}
	fmt.Fprintf(w, "}\n")
}

func (c *CFG) dotLabels(name func(tree.NodeID) string) map[tree.NodeID]string {
	labels := make(map[tree.NodeID]string)
	count := make(map[string]int)
	blocks := c.Blocks()
	for _, n := range blocks {
		var l string
		switch {
		case n == c.Entry:
			l = "ENTRY"
		case n == c.Exit:
			l = "EXIT"
		case name != nil:
			l = name(n)
		}
		if l == "" {
			l = c.t.Describe(n)
		}
		labels[n] = l
		count[l]++
	}
	for _, n := range blocks {
		if count[labels[n]] > 1 {
			labels[n] = fmt.Sprintf("%s (%d)", labels[n], n)
		}
	}
	return labels
}

// RenderToGraphVizFile runs the dot tool on a DOT document and writes the
// result to filename. The output format follows the file extension (png when
// there is none).
func RenderToGraphVizFile(dot []byte, filename string) error {
	format := strings.TrimPrefix(filepath.Ext(filename), ".")
	if format == "" {
		format = "png"
	}
	cmd := exec.Command("dot", "-T"+format, "-o", filename)
	cmd.Stdin = bytes.NewReader(dot)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running dot: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
