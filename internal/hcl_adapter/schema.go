package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any
// file. Anything else in a manifest is an error.
type fileRoot struct {
	Aliases    []*aliasBlock     `hcl:"alias,block"`
	Signatures []*signatureBlock `hcl:"signature,block"`
	Checks     []*checkBlock     `hcl:"check,block"`
}

type aliasBlock struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
}

type signatureBlock struct {
	Name        string         `hcl:"name,label"`
	Args        hcl.Expression `hcl:"args,optional"`
	Returns     hcl.Expression `hcl:"returns"`
	Description string         `hcl:"description,optional"`
}

type checkBlock struct {
	Name      string         `hcl:"name,label"`
	Type      hcl.Expression `hcl:"type,optional"`
	Value     hcl.Expression `hcl:"value,optional"`
	Signature string         `hcl:"signature,optional"`
	Values    hcl.Expression `hcl:"values,optional"`
	Expect    *bool          `hcl:"expect,optional"`
}
