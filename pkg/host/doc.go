// Package host provides the live presentation tree that the runtime commits
// mutations to.
//
// A presentation tree is a mutable tree of Nodes rooted at a container. The
// runtime is the only writer: it builds nodes on first render and afterwards
// applies the Placement, Update and Deletion mutations computed by the
// reconciler. Application code reads the tree (queries, serialization) and
// feeds user input back in through Dispatch, which invokes function-valued
// properties such as "onClick".
//
// Nodes are not safe for concurrent use; like the rest of the runtime they
// belong to the single UI thread of control.
package host
