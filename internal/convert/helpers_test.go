package convert

import "tag2pack/internal/mapping"

func newProfileIgnoring(classes ...string) *mapping.Profile {
	p := mapping.DefaultProfile()
	p.IgnoredClasses = classes

	return p
}
