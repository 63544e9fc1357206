package model

// GlobalRole is the user role on the platform. The Role table carries the
// permission bundle for each of these names; the constants exist so the
// admin bypass and seeding code do not compare raw strings.
type GlobalRole string

const (
	GlobalRoleAdmin   GlobalRole = "admin"
	GlobalRoleManager GlobalRole = "manager"
	GlobalRoleStaff   GlobalRole = "staff"
	GlobalRoleViewer  GlobalRole = "viewer"
)

// ProjectRole is the role label of a personnel assignment inside one project.
type ProjectRole string

const (
	ProjectRoleManager         ProjectRole = "project_manager"
	ProjectRoleSupervisor      ProjectRole = "supervisor"
	ProjectRoleAccountant      ProjectRole = "accountant"
	ProjectRoleViewer          ProjectRole = "viewer"
	ProjectRoleEditor          ProjectRole = "editor"
	ProjectRoleManagement      ProjectRole = "management"
	ProjectRoleTeamLeader      ProjectRole = "team_leader"
	ProjectRoleWorker          ProjectRole = "worker"
	ProjectRoleGuest           ProjectRole = "guest"
	ProjectRoleSupervisorGuest ProjectRole = "supervisor_guest"
	ProjectRoleDesigner        ProjectRole = "designer"
)

// StageStatus is the acceptance stage sign-off state. The order of the
// sequence is fixed; transitions are validated in the workflow package.
type StageStatus string

const (
	StagePending          StageStatus = "pending"
	StageInternalApproved StageStatus = "internal_approved"
	StageCustomerApproved StageStatus = "customer_approved"
	StageDesignApproved   StageStatus = "design_approved"
	StageOwnerApproved    StageStatus = "owner_approved"
)

// ApprovalType names one step of the sign-off chain.
type ApprovalType string

const (
	ApprovalInternal ApprovalType = "internal"
	ApprovalCustomer ApprovalType = "customer"
	ApprovalDesign   ApprovalType = "design"
	ApprovalOwner    ApprovalType = "owner"
)

type DefectStatus string

const (
	DefectOpen       DefectStatus = "open"
	DefectInProgress DefectStatus = "in_progress"
	DefectFixed      DefectStatus = "fixed"
	DefectVerified   DefectStatus = "verified"
)

type DefectSeverity string

const (
	SeverityLow      DefectSeverity = "low"
	SeverityMedium   DefectSeverity = "medium"
	SeverityHigh     DefectSeverity = "high"
	SeverityCritical DefectSeverity = "critical"
)

// DependencyType only matters for downstream schedule computation,
// never for cycle detection.
type DependencyType string

const (
	FinishToStart  DependencyType = "finish_to_start"
	StartToStart   DependencyType = "start_to_start"
	FinishToFinish DependencyType = "finish_to_finish"
	StartToFinish  DependencyType = "start_to_finish"
)

type ProjectStatus string

const (
	ProjectPlanned    ProjectStatus = "planned"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
)

type TaskStatus string

const (
	TaskPlanned    TaskStatus = "planned"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

type ContractStatus string

const (
	ContractDraft     ContractStatus = "draft"
	ContractSubmitted ContractStatus = "submitted"
	ContractApproved  ContractStatus = "approved"
	ContractRejected  ContractStatus = "rejected"
)

const InvalidUserID = 0
