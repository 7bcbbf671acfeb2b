package publish

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Report describes one evaluation.
type Report struct {
	Diagram string `json:"diagram"`
	// Target is the evaluated output as node.port.
	Target string          `json:"target"`
	Type   string          `json:"type"`
	Value  json.RawMessage `json:"value"`
	// Outputs holds every output computed during the pass, keyed by
	// node.port.
	Outputs map[string]json.RawMessage `json:"outputs"`
	// Computed lists the evaluated nodes in completion order.
	Computed    []string  `json:"computed"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// EncodeValue renders v as JSON.
func EncodeValue(v cty.Value) (json.RawMessage, error) {
	if v == cty.NilVal {
		return json.RawMessage("null"), nil
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s value: %w", v.Type().FriendlyName(), err)
	}
	return b, nil
}

// Payload converts the report into the generic map form emitted on the
// socket.
func (r *Report) Payload() (map[string]any, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
