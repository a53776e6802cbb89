package serializer

import "reflect"

// Strategy converts a single field between its storage representation and its
// domain representation.
//
// Implementations are stateless. Decode(nil) yields nil (the "unset" value)
// and Encode(nil) yields nil; the Serializer dereferences pointers before
// calling Encode, so strategies only ever see plain values or nil.
type Strategy interface {
	// Name identifies the strategy in errors and logs.
	Name() string

	// DomainType is the type every non-nil Decode result has.
	DomainType() reflect.Type

	// Decode converts a raw storage value to its domain value.
	Decode(raw any) (any, error)

	// Encode converts a domain value to its storage value.
	Encode(value any) (any, error)
}

// IdentityStrategy copies values unchanged in both directions. Fields without
// a registered strategy behave as if they had this one.
type IdentityStrategy struct{}

var _ Strategy = IdentityStrategy{}

func (IdentityStrategy) Name() string { return "identity" }

// DomainType returns nil: identity carries whatever type storage produced.
func (IdentityStrategy) DomainType() reflect.Type { return nil }

func (IdentityStrategy) Decode(raw any) (any, error) { return raw, nil }

func (IdentityStrategy) Encode(value any) (any, error) { return value, nil }
