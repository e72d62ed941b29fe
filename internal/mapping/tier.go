package mapping

// Tier identifies the lookup rule that filled a field.
type Tier int

const (
	TierNone Tier = iota
	TierPatch
	TierExact
	TierAlias
	TierIndexed
	TierSibling
	TierEnclosing
	TierDefault
)

// String returns a human-readable representation of the tier.
func (t Tier) String() string {
	switch t {
	case TierPatch:
		return "patch"
	case TierExact:
		return "exact"
	case TierAlias:
		return "alias"
	case TierIndexed:
		return "indexed"
	case TierSibling:
		return "sibling"
	case TierEnclosing:
		return "enclosing"
	case TierDefault:
		return "default"
	default:
		return "none"
	}
}
