// Package core provides the workspace-bound file, search and analysis
// tools. Each constructor binds a tool descriptor to a workspace gateway;
// the descriptors themselves carry no state.
package core
