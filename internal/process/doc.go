// Package process contains the platform-specific pieces needed to run pandoc
// in its own process group and to tear that group down on cancellation.
package process
