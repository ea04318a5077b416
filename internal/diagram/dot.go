package diagram

import (
	"fmt"
	"io"
	"strings"
)

// DOT serializes the graph to Graphviz DOT text. Output is deterministic:
// graph defaults, clusters in creation order, unclustered nodes in
// insertion order, then edges in append order.
func (g *Graph) DOT() string {
	var b strings.Builder
	g.writeDOT(&b)
	return b.String()
}

// WriteDOT writes the DOT serialization to w.
func (g *Graph) WriteDOT(w io.Writer) error {
	var b strings.Builder
	g.writeDOT(&b)
	_, err := io.WriteString(w, b.String())
	return err
}

func (g *Graph) writeDOT(b *strings.Builder) {
	s := g.style

	b.WriteString("digraph workflow {\n")
	fmt.Fprintf(b, "\tgraph [bgcolor=%s, clusterrank=%s, labeljust=%s];\n",
		quote(s.Background), quote(s.ClusterRank), quote(s.LabelJustify))
	fmt.Fprintf(b, "\tnode [shape=%s];\n", quote(s.NodeShape))

	for _, c := range g.Clusters() {
		g.writeCluster(b, c)
	}

	for _, n := range g.Nodes() {
		if g.clustered(n.ID) {
			continue
		}
		g.writeNode(b, n, "\t")
	}

	for _, e := range g.edges {
		fmt.Fprintf(b, "\t%s -> %s;\n", quote(e.From), quote(e.To))
	}

	b.WriteString("}\n")
}

func (g *Graph) writeCluster(b *strings.Builder, c *Cluster) {
	fmt.Fprintf(b, "\tsubgraph %s {\n", quote(c.Name))

	var attrs []string
	if c.Spec.SameRank {
		attrs = append(attrs, "rank="+quote("same"))
	}
	if c.Spec.Dashed {
		attrs = append(attrs, "style="+quote("dashed"))
	}
	attrs = append(attrs, "label="+quote(c.Spec.Title))
	if c.Spec.TitleLoc != "" {
		attrs = append(attrs, "labelloc="+quote(c.Spec.TitleLoc))
	}
	fmt.Fprintf(b, "\t\tgraph [%s];\n", strings.Join(attrs, ", "))

	for _, id := range c.NodeIDs() {
		if n := g.nodes[id]; n != nil {
			g.writeNode(b, n, "\t\t")
		}
	}
	b.WriteString("\t}\n")
}

func (g *Graph) writeNode(b *strings.Builder, n *Node, indent string) {
	fmt.Fprintf(b, "%s%s [fillcolor=%s, style=%s, label=%s];\n",
		indent, quote(n.ID), quote(g.style.fill(n.Tag)), quote("filled"), quote(n.Label))
}

// quote renders a DOT double-quoted ID, escaping embedded quotes and
// backslashes. URIs contain characters DOT bare IDs do not allow, so every
// ID is quoted.
func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}
