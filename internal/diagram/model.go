// Package diagram holds the abstract workflow diagram: nodes, edges and
// rank-constrained clusters, plus the DOT serializer and the graphviz
// image exporter.
package diagram

// StyleTag classifies a diagram node and selects its fill and cluster
// membership.
type StyleTag string

const (
	StyleStep   StyleTag = "internal-step"
	StyleInput  StyleTag = "boundary-input"
	StyleOutput StyleTag = "boundary-output"
)

// Style is the process-wide diagram styling, fixed at construction.
// Defaults reproduce the cwlviewer look.
type Style struct {
	Background   string `json:"background"`
	LabelJustify string `json:"label_justify"`
	ClusterRank  string `json:"cluster_rank"`
	NodeShape    string `json:"node_shape"`
	StepFill     string `json:"step_fill"`
	BoundaryFill string `json:"boundary_fill"`
	InputsTitle  string `json:"inputs_title"`
	OutputsTitle string `json:"outputs_title"`
}

// DefaultStyle returns the cwlviewer-compatible styling.
func DefaultStyle() Style {
	return Style{
		Background:   "#eeeeee",
		LabelJustify: "l",
		ClusterRank:  "local",
		NodeShape:    "record",
		StepFill:     "lightgoldenrodyellow",
		BoundaryFill: "#94DDF4",
		InputsTitle:  "Workflow Inputs",
		OutputsTitle: "Workflow Outputs",
	}
}

// fill returns the fill color for a style tag.
func (s Style) fill(tag StyleTag) string {
	if tag == StyleStep {
		return s.StepFill
	}
	return s.BoundaryFill
}

// Node is a diagram node, identified by its URI.
type Node struct {
	ID    string
	Label string
	Tag   StyleTag
}

// Edge is a directed edge between two node IDs. Duplicates are permitted;
// the diagram is not simplified.
type Edge struct {
	From string
	To   string
}

// ClusterSpec carries the layout constraints of a cluster.
type ClusterSpec struct {
	Title    string
	SameRank bool
	Dashed   bool
	TitleLoc string // graphviz labelloc, "" for default placement
}

// Cluster is a named, visually grouped subset of nodes.
type Cluster struct {
	Name    string
	Spec    ClusterSpec
	members map[string]struct{}
	order   []string
}

// Add records cluster membership. Re-adding is a no-op.
func (c *Cluster) Add(nodeID string) {
	if _, ok := c.members[nodeID]; ok {
		return
	}
	c.members[nodeID] = struct{}{}
	c.order = append(c.order, nodeID)
}

// Contains reports membership.
func (c *Cluster) Contains(nodeID string) bool {
	_, ok := c.members[nodeID]
	return ok
}

// NodeIDs returns members in first-add order.
func (c *Cluster) NodeIDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Graph is the abstract diagram graph.
type Graph struct {
	style        Style
	nodes        map[string]*Node
	nodeOrder    []string
	edges        []Edge
	clusters     map[string]*Cluster
	clusterOrder []string
}

// NewGraph creates an empty diagram graph with the given styling.
func NewGraph(style Style) *Graph {
	return &Graph{
		style:    style,
		nodes:    make(map[string]*Node),
		clusters: make(map[string]*Cluster),
	}
}

// Style returns the graph's styling.
func (g *Graph) Style() Style { return g.style }

// AddStyledNode upserts a node. Node identity is the ID: re-adding merges
// label and tag onto the existing node instead of duplicating it.
func (g *Graph) AddStyledNode(id, label string, tag StyleTag) {
	if n, ok := g.nodes[id]; ok {
		n.Label = label
		n.Tag = tag
		return
	}
	g.nodes[id] = &Node{ID: id, Label: label, Tag: tag}
	g.nodeOrder = append(g.nodeOrder, id)
}

// AddEdge appends a directed edge. Duplicate edges are kept.
func (g *Graph) AddEdge(from, to string) {
	g.edges = append(g.edges, Edge{From: from, To: to})
}

// EnsureCluster returns the named cluster, creating it with the given spec
// on first use. A later call with a different spec keeps the original.
func (g *Graph) EnsureCluster(name string, spec ClusterSpec) *Cluster {
	if c, ok := g.clusters[name]; ok {
		return c
	}
	c := &Cluster{Name: name, Spec: spec, members: make(map[string]struct{})}
	g.clusters[name] = c
	g.clusterOrder = append(g.clusterOrder, name)
	return c
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node { return g.nodes[id] }

// Nodes returns all nodes in first-insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns the edge sequence, including duplicates.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Clusters returns clusters in creation order.
func (g *Graph) Clusters() []*Cluster {
	out := make([]*Cluster, 0, len(g.clusterOrder))
	for _, name := range g.clusterOrder {
		out = append(out, g.clusters[name])
	}
	return out
}

// clustered reports whether the node belongs to any cluster.
func (g *Graph) clustered(nodeID string) bool {
	for _, name := range g.clusterOrder {
		if g.clusters[name].Contains(nodeID) {
			return true
		}
	}
	return false
}
