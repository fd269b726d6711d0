package manifest

import (
	"github.com/Masterminds/semver/v3"
)

// Ordering is the result of comparing a channel list with semver order.
type Ordering struct {
	// Latest is the last element of the list, the version the installer picks.
	Latest string
	// Highest is the highest parseable semantic version in the list.
	Highest string
	// Unparsed lists entries that are not semantic versions.
	Unparsed []string
}

// Consistent reports whether the last element is also the semver maximum.
// Lists without parseable versions are treated as consistent.
func (o Ordering) Consistent() bool {
	return o.Highest == "" || o.Highest == o.Latest
}

// CheckOrdering inspects a channel's version list.
func CheckOrdering(versions []string) Ordering {
	var (
		result  Ordering
		highest *semver.Version
	)

	if len(versions) == 0 {
		return result
	}

	result.Latest = versions[len(versions)-1]

	for _, raw := range versions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			result.Unparsed = append(result.Unparsed, raw)
			continue
		}

		if highest == nil || v.GreaterThan(highest) {
			highest = v
			result.Highest = raw
		}
	}

	return result
}

// IsNewer reports whether candidate is a higher semantic version than current.
// Unparseable input compares as not newer.
func IsNewer(candidate, current string) bool {
	c, err := semver.NewVersion(candidate)
	if err != nil {
		return false
	}

	v, err := semver.NewVersion(current)
	if err != nil {
		return false
	}

	return c.GreaterThan(v)
}
