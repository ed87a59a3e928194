package inventory

import "fmt"

// DuplicatePolicy controls whether Add accepts an id that is already present.
type DuplicatePolicy string

const (
	// DuplicatesPermit keeps every added record; lookups return the first match.
	DuplicatesPermit DuplicatePolicy = "permit"

	// DuplicatesReject fails Add with CONFLICT when the id exists.
	DuplicatesReject DuplicatePolicy = "reject"
)

// MissingPolicy controls Update and Remove on an id that is not present.
type MissingPolicy string

const (
	// MissingIgnore makes Update and Remove silent no-ops.
	MissingIgnore MissingPolicy = "ignore"

	// MissingError makes Update and Remove fail with NOT_FOUND.
	MissingError MissingPolicy = "error"
)

// Policy groups the configurable Store behaviours. The zero value is the
// legacy behaviour: duplicates permitted, missing ids ignored.
type Policy struct {
	Duplicates DuplicatePolicy `json:"duplicates" yaml:"duplicates"`
	Missing    MissingPolicy   `json:"missing" yaml:"missing"`
}

// DefaultPolicy returns the legacy behaviour.
func DefaultPolicy() Policy {
	return Policy{Duplicates: DuplicatesPermit, Missing: MissingIgnore}
}

// ParsePolicy builds a Policy from its textual form. Empty strings select the defaults.
func ParsePolicy(duplicates, missing string) (Policy, error) {
	p := DefaultPolicy()
	switch DuplicatePolicy(duplicates) {
	case "":
	case DuplicatesPermit, DuplicatesReject:
		p.Duplicates = DuplicatePolicy(duplicates)
	default:
		return Policy{}, fmt.Errorf("unknown duplicate policy %q: must be %q or %q", duplicates, DuplicatesPermit, DuplicatesReject)
	}
	switch MissingPolicy(missing) {
	case "":
	case MissingIgnore, MissingError:
		p.Missing = MissingPolicy(missing)
	default:
		return Policy{}, fmt.Errorf("unknown missing-id policy %q: must be %q or %q", missing, MissingIgnore, MissingError)
	}
	return p, nil
}

func (p Policy) withDefaults() Policy {
	if p.Duplicates == "" {
		p.Duplicates = DuplicatesPermit
	}
	if p.Missing == "" {
		p.Missing = MissingIgnore
	}
	return p
}
