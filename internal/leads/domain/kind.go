// Package domain provides core business rules for the leads bounded context:
// lead kinds, the per-kind status enums, and the transition state machine.
package domain

// Kind discriminates the three lead flavors. Anchors and spokes share a
// record shape but have distinct closed status sets with their own
// transition tables; overlapping status names do not imply shared semantics.
type Kind string

const (
	KindAnchor Kind = "Anchor"
	KindDealer Kind = "Dealer"
	KindVendor Kind = "Vendor"
)

var knownKinds = map[Kind]struct{}{
	KindAnchor: {},
	KindDealer: {},
	KindVendor: {},
}

// IsKnownKind reports whether the kind is part of the closed set.
func IsKnownKind(kind Kind) bool {
	_, ok := knownKinds[kind]
	return ok
}

// IsSpoke reports whether the kind follows the dealer/vendor pipeline.
func (k Kind) IsSpoke() bool {
	return k == KindDealer || k == KindVendor
}
