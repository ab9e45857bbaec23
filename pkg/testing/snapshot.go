package testing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/reflow/pkg/host"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the presentation tree structure.
type Snapshot struct {
	Tree []*SnapshotNode `json:"tree"`
}

// SnapshotNode is one serialized presentation node.
type SnapshotNode struct {
	Type     string            `json:"type"`
	Tag      string            `json:"tag,omitempty"`
	Text     string            `json:"text,omitempty"`
	Props    map[string]string `json:"props,omitempty"`
	Children []*SnapshotNode   `json:"children,omitempty"`
}

// CaptureSnapshot captures the current presentation tree.
func (t *Tester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{}
	for _, c := range t.container.Children() {
		snap.Tree = append(snap.Tree, captureNode(c))
	}
	return snap
}

func captureNode(n *host.Node) *SnapshotNode {
	node := &SnapshotNode{Type: n.Type().String()}
	if n.Type() == host.TextNode {
		node.Text = n.Text()
		return node
	}
	node.Tag = n.Tag()
	for _, k := range n.PropKeys() {
		v, _ := n.Prop(k)
		if node.Props == nil {
			node.Props = make(map[string]string)
		}
		node.Props[k] = propString(v)
	}
	for _, c := range n.Children() {
		node.Children = append(node.Children, captureNode(c))
	}
	return node
}

// propString renders handlers by type since their identity changes on
// every render.
func propString(v any) string {
	if v != nil && reflect.TypeOf(v).Kind() == reflect.Func {
		return fmt.Sprintf("<%T>", v)
	}
	return fmt.Sprint(v)
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// REFLOW_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("REFLOW_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: REFLOW_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s (-want +got)\n%s\n\nTo update: REFLOW_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Diff returns a diff from other to this snapshot, or "" when they are
// equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	return cmp.Diff(other, s)
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &snap, nil
}
