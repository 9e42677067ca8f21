// Package domain provides core business rules for the org bounded context:
// the closed role set and the user shape the visibility engine operates on.
package domain

// Role is a closed enum of job roles. Visibility rules and transition
// permissions dispatch on the role in exactly one place each; call sites
// never compare raw strings.
type Role string

const (
	RoleAdmin                Role = "Admin"
	RoleBusinessDevelopment  Role = "Business Development"
	RoleBIU                  Role = "BIU"
	RoleNationalSalesManager Role = "National Sales Manager"
	RoleRegionalSalesManager Role = "Regional Sales Manager"
	RoleZonalSalesManager    Role = "Zonal Sales Manager"
	RoleETBManager           Role = "ETB Manager"
	RoleOnboardingSpecialist Role = "Onboarding Specialist"
	RoleSalesOfficer         Role = "Sales Officer"
)

var knownRoles = map[Role]struct{}{
	RoleAdmin:                {},
	RoleBusinessDevelopment:  {},
	RoleBIU:                  {},
	RoleNationalSalesManager: {},
	RoleRegionalSalesManager: {},
	RoleZonalSalesManager:    {},
	RoleETBManager:           {},
	RoleOnboardingSpecialist: {},
	RoleSalesOfficer:         {},
}

// globalRoles see every user and every record.
var globalRoles = map[Role]struct{}{
	RoleAdmin:               {},
	RoleBusinessDevelopment: {},
	RoleBIU:                 {},
}

// managerRoles see themselves plus their transitive subordinates.
var managerRoles = map[Role]struct{}{
	RoleNationalSalesManager: {},
	RoleRegionalSalesManager: {},
	RoleZonalSalesManager:    {},
	RoleETBManager:           {},
}

// approverRoles may resolve the docs-approval workflow. Admin is included:
// the no-self-approval guarantee concerns sales roles, and admin already
// holds every other override.
var approverRoles = map[Role]struct{}{
	RoleBusinessDevelopment: {},
	RoleBIU:                 {},
	RoleAdmin:               {},
}

// IsKnownRole reports whether the role is part of the closed set.
func IsKnownRole(role Role) bool {
	_, ok := knownRoles[role]
	return ok
}

// IsGlobal reports whether the role sees all users and records.
func (r Role) IsGlobal() bool {
	_, ok := globalRoles[r]
	return ok
}

// IsManager reports whether the role's visibility is hierarchy-based.
func (r Role) IsManager() bool {
	_, ok := managerRoles[r]
	return ok
}

// IsApprover reports whether the role may approve or reject submitted docs.
func (r Role) IsApprover() bool {
	_, ok := approverRoles[r]
	return ok
}

// IsIndividualContributor reports whether the role sees only its own records.
// The onboarding specialist is not an IC for visibility purposes: their
// scope is status-based, not assignment-based.
func (r Role) IsIndividualContributor() bool {
	return r == RoleSalesOfficer
}
