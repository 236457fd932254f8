package models

// RoleType is the closed set of user roles. Authorization decisions are
// driven by the policy table in internal/app/auth, never by ad hoc string
// comparisons against these values.
type RoleType string

const (
	RoleUser      RoleType = "user"
	RolePublisher RoleType = "publisher"
	RoleAdmin     RoleType = "admin"
)

// Valid reports whether r is one of the known roles
func (r RoleType) Valid() bool {
	switch r {
	case RoleUser, RolePublisher, RoleAdmin:
		return true
	}
	return false
}

// MinimumSkill is the entry requirement of a course
type MinimumSkill string

const (
	SkillBeginner     MinimumSkill = "beginner"
	SkillIntermediate MinimumSkill = "intermediate"
	SkillAdvanced     MinimumSkill = "advanced"
)
