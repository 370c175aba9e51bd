// Package model defines the canonical catalog entities of the booking
// platform.  Earlier revisions of the schema drifted (conflicting
// foreign-key targets, `id_deleted` vs `is_deleted`); this package is
// the authoritative shape: UUID identifiers, `is_deleted` soft-delete
// flags and `pricing_items.pricing_id` referencing `pricing.id`.
//
// Field constraints that the old schemas expressed as declarative
// metadata are enforced here once, in the New* constructors.  A
// constructor returns the validated entity or an error wrapping
// ErrValidation; code that holds a constructed value may assume its
// invariants hold.
package model

import "errors"

// ErrValidation is the sentinel wrapped by every constructor error in
// this package.  Callers can use errors.Is to distinguish bad input
// from infrastructure failures.
var ErrValidation = errors.New("validation failed")
