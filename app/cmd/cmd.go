// Package cmd contains the top-level flows driven by the cli flags.
package cmd

import "github.com/cappuccinotm/azdohooks/pkg/logx"

// CommonOpts sets externally from main, shared across all commands
type CommonOpts struct {
	Version string
	Logger  logx.Logger
}

// SetCommon sets common option fields
// The method called by main before Execute
func (c *CommonOpts) SetCommon(opts CommonOpts) {
	c.Version = opts.Version
	c.Logger = opts.Logger
}
