package domain

// Source records how a contact entered the funnel.
type Source string

const (
	// SourceInvited contacts were added by an operator.
	SourceInvited Source = "invited"
	// SourceOrganic contacts registered through the public page.
	SourceOrganic Source = "organic"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	return s == SourceInvited || s == SourceOrganic
}
