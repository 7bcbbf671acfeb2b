package portref

import (
	"fmt"
	"regexp"
	"strings"
)

// nameRegex matches a single node or port name. Names are HCL identifiers so
// they can be written as bare traversals in diagram files.
var nameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

// ValidName reports whether name can be used as a node or port name.
func ValidName(name string) bool {
	return nameRegex.MatchString(name)
}

// Parse creates a Ref from its canonical `node.port` representation.
func Parse(raw string) (Ref, error) {
	if raw == "" {
		return Ref{}, fmt.Errorf("port reference cannot be empty")
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 2 {
		return Ref{}, fmt.Errorf("port reference %q must have the form node.port", raw)
	}
	for _, p := range parts {
		if p == "" {
			return Ref{}, fmt.Errorf("port reference %q contains an empty segment", raw)
		}
		if !ValidName(p) {
			return Ref{}, fmt.Errorf("invalid name %q in port reference %q", p, raw)
		}
	}
	return Ref{Node: parts[0], Port: parts[1]}, nil
}

// ParseNode validates a bare node name, as accepted by commands that act on a
// whole node rather than one of its ports.
func ParseNode(raw string) (Ref, error) {
	if !ValidName(raw) {
		return Ref{}, fmt.Errorf("invalid node name %q", raw)
	}
	return Ref{Node: raw}, nil
}
