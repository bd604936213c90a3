// Package tree provides the statement/expression tree consumed by the
// success-condition analysis.
//
// A Tree is an arena: every node lives in a single slice and is addressed by
// a NodeID. Parent and child relations are stored as indices, so node
// identity is the NodeID itself and can be used freely as a map key or set
// member. Front ends (Java, Go) populate a Tree through a Builder; the
// analysis packages only ever read it.
//
// Besides the nodes, a Tree records:
//
//   - the variables visible in the method (parameters, locals, fields), each
//     with a stable VarID assigned during scope resolution;
//   - an exception Hierarchy used to decide which catch clause handles a
//     checked exception raised by a call;
//   - a line index mapping byte offsets back to line/column positions.
package tree
