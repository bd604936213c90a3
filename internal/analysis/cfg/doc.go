// # Description
//
// Package cfg provides functionality to generate the Control Flow Graph (CFG) of a single
// method body held in a tree.Tree.
//
// ## Control Flow Graph (CFG)
//
// A CFG is a representation, using graph notation, of all paths that might be traversed
// through a program during its execution. In this package:
//
//   - Each node in the graph is a single statement (a tree.NodeID). Blocks and empty
//     statements are transparent and never appear as nodes.
//   - The directed edges represent possible execution order.
//   - Entry is a virtual node (EntryNode) that does not exist in the tree.
//   - Exit is the method body block itself. Every return and the fall-through of the
//     last statement lead there.
//
// Loop headers, switch headers, try headers and catch clauses are nodes of their own.
// A throw statement has no successors: it is the target of the analysis, not a
// forwarding node. Statements inside a try block that call something declared to raise
// a checked exception get an extra edge to the catch clause that handles it.
//
// ## Package Functionality
//
//  1. CFG Construction: use Build to construct a CFG from a tree.
//  2. Query the graph with Preds, Succs, Blocks and Reachable.
//  3. Render it with PrintDot, or to an image with RenderToGraphVizFile.
package cfg
