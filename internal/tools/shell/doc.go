// Package shell provides the command-execution tool backed by the
// sandboxed executor.
package shell
