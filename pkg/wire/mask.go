package wire

import (
	"encoding/json"
	"strings"
)

// MaskedField replaces the value of every credential-bearing field in a
// diagnostic rendering.
const MaskedField = "******"

// Truncated is appended when a diagnostic rendering exceeds its length cap.
const Truncated = "...(truncated)"

var sensitiveFragments = []string{"token", "password", "secret", "key"}

// MaskedJSON renders an envelope as JSON with every field whose name
// contains token, password, secret or key (case-insensitive, at any nesting
// depth) replaced by MaskedField. The rendering is truncated to limit bytes;
// limit <= 0 disables truncation. The result is for diagnostics only and is
// never a valid frame to put back on the wire.
func MaskedJSON(e *Envelope, limit int) string {
	raw, err := json.Marshal(e)
	if err != nil {
		return ""
	}
	var tree interface{}
	if err := json.Unmarshal(raw, &tree); err != nil {
		return ""
	}
	masked, err := json.Marshal(maskTree(tree))
	if err != nil {
		return ""
	}
	s := string(masked)
	if limit > 0 && len(s) > limit {
		s = s[:limit] + Truncated
	}
	return s
}

func maskTree(node interface{}) interface{} {
	switch t := node.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, v := range t {
			if sensitiveField(k) {
				out[k] = MaskedField
				continue
			}
			out[k] = maskTree(v)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, v := range t {
			out[i] = maskTree(v)
		}
		return out
	default:
		return node
	}
}

func sensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, frag := range sensitiveFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}
