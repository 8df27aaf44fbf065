package domain

// Node kinds reported by NodeInfo.
const (
	NodeKindBranch = "branch"
	NodeKindLeaf   = "leaf"
)

// NodeInfo is a serializable snapshot of one tree node, used by the HTTP
// graph endpoint and the presentation layer. Percent is the allocation this
// node holds within its parent; it is zero for the root.
type NodeInfo struct {
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Venue    string     `json:"venue,omitempty"`
	Percent  int        `json:"percent"`
	Rules    []string   `json:"rules,omitempty"`
	Children []NodeInfo `json:"children,omitempty"`
}
