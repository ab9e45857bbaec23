// Package reconcile computes and applies the minimal set of mutations that
// turn one resolved tree into another.
//
// The renderer first resolves an element tree into VNodes: components are
// invoked and fragments flattened, so only element and text nodes remain,
// each tagged with the identity of the component that yielded it. Diff
// compares the previously committed VNodes with the new ones and returns an
// ordered []Mutation without touching the presentation tree. A Committer
// then applies that list to the live host tree in emission order.
//
// Matching rules:
//
//   - Nodes that differ in kind, tag or owning component are never reused:
//     the old node is deleted and the new one placed.
//   - Text nodes with equal kind produce an Update only when the text
//     changed.
//   - Elements with the same tag produce an Update carrying the property
//     delta (see DiffProps) and are then compared child by child.
//   - Children are matched by key first; unkeyed children fall back to
//     their position. Unmatched old children become Deletions, unmatched new
//     children become Placements, and retained children that changed
//     position become Placements of the existing node (moves).
package reconcile
