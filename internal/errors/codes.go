package errors

// Error codes for this pipeline's front end.
//
// Error code ranges:
// E0001-E0099: Role-checking errors (internal/semantic)
// E0100-E0199: Parser/grammar errors
// E0200-E0299: Loop-bound and range errors
// E0300-E0399: Summation/engine-adapter errors

const (
	// E0001: a symbol was used before any statement assigned it a role.
	ErrorUndefinedSymbol = "E0001"

	// E0002: a symbol was assigned to two different roles (index, constant,
	// result) within the same scope.
	ErrorRoleConflict = "E0002"

	// E0003: a for-loop index symbol was read outside the body of its
	// defining loop, or an enclosing, still-open index was reused as a
	// nested loop's index. (An index used as a "+=" target is E0002.)
	ErrorIndexReassigned = "E0003"

	// E0004: an Increment's Target symbol was never declared a result
	// (e.g. a bare constant appearing as an assignment target).
	ErrorInvalidAssignmentTarget = "E0004"

	// E0005: a symbol referenced in a condition or value was never given a
	// role at all (distinct from E0001 in that the symbol exists in an
	// enclosing scope's table but carries RoleNone).
	ErrorUnresolvedRole = "E0005"

	// E0006: a constant (a "=" target) was assigned a second time.
	// Constants are single-assignment by definition; a second "=" to the
	// same name is a role error distinct from a role-kind conflict.
	ErrorConstantReassigned = "E0006"

	// Parser errors (E0100-E0199)

	// E0100: the scanner or grammar rejected the source text outright.
	ErrorSyntax = "E0100"

	// E0101: an augmented assignment (+=) targeted a symbol not already
	// holding the result role.
	ErrorInvalidAugmentedAssignment = "E0101"

	// Loop-bound errors (E0200-E0299)

	// E0200: a for-loop or if-guard inequality didn't isolate the index on
	// one side, so it could not be folded into a half-open range.
	ErrorUnboundedIndex = "E0200"

	// E0201: an equality atom appeared where the range reducer needed a
	// strict ordering and could not negate it.
	ErrorUnnegatableGuard = "E0201"

	// Summation/engine-adapter errors (E0300-E0399)

	// E0300: the value being summed was not a polynomial of degree <= 2 in
	// the loop index.
	ErrorUnsummableExpression = "E0300"

	// E0301: the requested emission surface (python/cpp) is not recognized.
	ErrorUnknownSurface = "E0301"
)

// GetErrorDescription returns a human-readable description of the error code.
func GetErrorDescription(code string) string {
	switch code {
	case ErrorUndefinedSymbol:
		return "symbol is read before any statement assigns it a role"
	case ErrorRoleConflict:
		return "symbol is used in more than one of the three disjoint roles"
	case ErrorIndexReassigned:
		return "loop index symbol was read outside its loop or reused as a nested loop's index"
	case ErrorInvalidAssignmentTarget:
		return "assignment target was never declared a result symbol"
	case ErrorUnresolvedRole:
		return "symbol is visible but carries no role in this scope"
	case ErrorConstantReassigned:
		return "constant symbol was assigned with \"=\" more than once"
	case ErrorSyntax:
		return "source text does not match the grammar"
	case ErrorInvalidAugmentedAssignment:
		return "+= target must already hold the result role"
	case ErrorUnboundedIndex:
		return "guard does not isolate the loop index on one side"
	case ErrorUnnegatableGuard:
		return "equality guard cannot be negated into a strict range bound"
	case ErrorUnsummableExpression:
		return "expression is not a polynomial of degree <= 2 in the loop index"
	case ErrorUnknownSurface:
		return "requested emission surface is not python or cpp"
	default:
		return "unknown error code"
	}
}

// GetErrorCategory returns the category of the error based on its code.
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0001" && code < "E0100":
		return "Role Checking"
	case code >= "E0100" && code < "E0200":
		return "Parser"
	case code >= "E0200" && code < "E0300":
		return "Loop Bounds"
	case code >= "E0300" && code < "E0400":
		return "Summation"
	default:
		return "Unknown"
	}
}
