package config

// Name is one of the two well-known config file names, in fixed
// preference order: the primary always shadows the secondary within the
// same directory.
type Name string

const (
	// PrimaryName is tried first in every directory.
	PrimaryName Name = "quick-lint-js.config"
	// SecondaryName is tried only if PrimaryName was not found.
	SecondaryName Name = ".quick-lint-js.config"
)

// Names lists the two config file names in their fixed preference order.
func Names() []Name {
	return []Name{PrimaryName, SecondaryName}
}
