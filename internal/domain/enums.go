package domain

// ParentKind discriminates the node a content module is attached to.
type ParentKind string

const (
	ParentProject  ParentKind = "project"
	ParentSection  ParentKind = "section"
	ParentWork     ParentKind = "work"
	ParentTask     ParentKind = "task"
	ParentActivity ParentKind = "activity"
)

// ValidParentKinds is the canonical set of accepted module parent kinds.
var ValidParentKinds = map[ParentKind]bool{
	ParentProject: true, ParentSection: true, ParentWork: true,
	ParentTask: true, ParentActivity: true,
}

type ModuleStatus string

const (
	ModuleTodo        ModuleStatus = "todo"
	ModuleUnderReview ModuleStatus = "under_review"
	ModuleDone        ModuleStatus = "done"
	ModuleAuthorized  ModuleStatus = "authorized"
)

// ValidModuleStatuses is the canonical set of accepted module workflow states.
var ValidModuleStatuses = map[ModuleStatus]bool{
	ModuleTodo: true, ModuleUnderReview: true, ModuleDone: true, ModuleAuthorized: true,
}

type PartnerRole string

const (
	RoleCoordinator PartnerRole = "coordinator"
	RolePartner     PartnerRole = "partner"
	RoleOther       PartnerRole = "other"
)

type MemberRole string

const (
	MemberCoordinator MemberRole = "coordinator"
	MemberEditor      MemberRole = "editor"
	MemberViewer      MemberRole = "viewer"
)

const (
	// DefaultNation is used when a partner's nation cannot be determined.
	DefaultNation = "IT"

	// CoordinatorProjectRole is the descriptive label given to bootstrapped memberships.
	CoordinatorProjectRole = "Project Coordinator"
)
