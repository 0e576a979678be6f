// Package yaml_adapter loads `.yaml` and `.yml` manifests into the
// format-agnostic config.Model.
//
//	aliases:
//	  Position: [Number, Number]
//	  Slug: "/^[-a-z0-9]+$/"
//	signatures:
//	  add: [Number, Number, Number]   # arguments, then the return value
//	checks:
//	  - name: position_ok
//	    type: Position
//	    value: [50, 50]
//	  - name: add_ok
//	    signature: add
//	    values: [1, 2, 3]
//
// Keys such as "*" and "{}?" must be quoted. A file may hold several
// documents separated by "---".
package yaml_adapter
