package deodorant

import (
	"github.com/specialistvlad/deodorant/descriptor"
	"github.com/specialistvlad/deodorant/match"
	"github.com/specialistvlad/deodorant/registry"
	"github.com/specialistvlad/deodorant/signature"
)

// Error kinds, matched with errors.Is.
var (
	ErrArityMismatch        = signature.ErrArityMismatch
	ErrArgumentTypeMismatch = signature.ErrArgumentTypeMismatch
	ErrReturnTypeMismatch   = signature.ErrReturnTypeMismatch
	ErrInvalidSignature     = signature.ErrInvalidSignature
	ErrFilterViolation      = match.ErrFilterViolation
	ErrUnresolvedAlias      = registry.ErrUnresolvedAlias
	ErrUnknownFilter        = registry.ErrUnknownFilter
	ErrAliasCycle           = registry.ErrAliasCycle
	ErrInvalidDescriptor    = descriptor.ErrInvalidDescriptor
)
