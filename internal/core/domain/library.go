package domain

// NodeType distinguishes folders from documents in the library tree.
type NodeType string

// Node types.
const (
	NodeTypeFolder   NodeType = "folder"
	NodeTypeDocument NodeType = "document"
)

// HierarchyNode is a folder or document in the document library.
// Path is relative to the library root.
type HierarchyNode struct {
	Name     string          `json:"name"`
	Type     NodeType        `json:"type"`
	Path     string          `json:"path,omitempty"`
	Children []HierarchyNode `json:"children,omitempty"`
}

// FolderDistance is the semantic distance between two top-level folders,
// defined as one minus the cosine similarity of their summary embeddings.
type FolderDistance struct {
	A        string  `json:"a"`
	B        string  `json:"b"`
	Distance float64 `json:"distance"`
}

// Key returns the "a|b" form used when distances are serialised as a map.
func (d FolderDistance) Key() string {
	return d.A + "|" + d.B
}
