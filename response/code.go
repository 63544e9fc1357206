package response

type ErrorCode int

const (
	OK ErrorCode = 0

	InvalidRequest ErrorCode = 40001
	TokenExpired   ErrorCode = 40101
	UserNotFound   ErrorCode = 40102
	InvalidToken   ErrorCode = 40103

	PermissionDenied ErrorCode = 40301
	InvalidRole      ErrorCode = 40302
	ForbiddenActor   ErrorCode = 40303

	NotFound ErrorCode = 40401

	DuplicateEntry         ErrorCode = 40901
	InvalidStateTransition ErrorCode = 40902
	BlockedByDefects       ErrorCode = 40903
	SelfDependency         ErrorCode = 40904
	DuplicateEdge          ErrorCode = 40905
	CrossProjectReference  ErrorCode = 40906
	CycleRejected          ErrorCode = 40907
	RoleInUse              ErrorCode = 40908

	// Indicates laziness of the developer
	// Frontend will directly print the message without any translation
	NotSpecified ErrorCode = 99999
)
