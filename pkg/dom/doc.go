// Package dom provides the retained node tree that stagecraft manages.
//
// Node is a plain UI node with a tag, classes, styles, a user property bag
// and native event listeners. Document owns a single root node and reports
// structural changes (child insertion and removal anywhere in the tree) to
// an installed mutation observer hook.
//
// The package knows nothing about lifecycle semantics; those are layered on
// top by the lifecycle and delegate packages. Nodes are owned by the
// embedding application: the library mutates their property bags and
// attaches listeners but never deletes them.
package dom
