package portref

// Ref names a port on a node by their human-readable names.
type Ref struct {
	Node string
	Port string
}

// New creates a reference to port on node.
func New(node, port string) Ref {
	return Ref{Node: node, Port: port}
}

// String serializes the reference into its canonical `node.port` form.
func (r Ref) String() string {
	if r.Port == "" {
		return r.Node
	}
	return r.Node + "." + r.Port
}
