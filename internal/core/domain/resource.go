package domain

// Resource identifies a physical actuator group that at most one task may
// control at a time. Identifiers are stable for the process lifetime.
type Resource string

// Built-in resources.
const (
	// ResourceDrivetrain is the differential drive base.
	ResourceDrivetrain Resource = "drivetrain"

	// ResourceClaw is the cube claw.
	ResourceClaw Resource = "claw"
)

// String returns the string representation.
func (r Resource) String() string {
	return string(r)
}

// Overlaps reports whether the two resource sets share any resource.
func Overlaps(a, b []Resource) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// Contains reports whether set includes r.
func Contains(set []Resource, r Resource) bool {
	for _, x := range set {
		if x == r {
			return true
		}
	}
	return false
}

// Union returns the distinct resources of all sets in first-seen order.
func Union(sets ...[]Resource) []Resource {
	var out []Resource
	for _, set := range sets {
		for _, r := range set {
			if !Contains(out, r) {
				out = append(out, r)
			}
		}
	}
	return out
}
