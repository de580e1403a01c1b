package domain

// OutcomeKind tags a verification result.
type OutcomeKind int

const (
	Denied OutcomeKind = iota
	GrantedStudent
	GrantedTeacher
)

func (k OutcomeKind) String() string {
	switch k {
	case GrantedStudent:
		return "granted_student"
	case GrantedTeacher:
		return "granted_teacher"
	default:
		return "denied"
	}
}

// DenyReason records why an attempt was denied. It is for logs, metrics and
// audit events only and must never reach the caller.
type DenyReason string

const (
	ReasonNone             DenyReason = ""
	ReasonNoRecord         DenyReason = "no_record"
	ReasonPasswordMismatch DenyReason = "password_mismatch"
	ReasonUnknownRole      DenyReason = "unknown_role"
	ReasonMissingField     DenyReason = "missing_field"
)

// Outcome is the result of one authentication attempt. Teacher is set only
// when Kind is GrantedTeacher.
type Outcome struct {
	Kind    OutcomeKind
	Teacher *TeacherProfile
	Reason  DenyReason
}

func Deny(reason DenyReason) Outcome {
	return Outcome{Kind: Denied, Reason: reason}
}

func GrantStudent() Outcome {
	return Outcome{Kind: GrantedStudent}
}

func GrantTeacher(profile TeacherProfile) Outcome {
	return Outcome{Kind: GrantedTeacher, Teacher: &profile}
}

// Granted reports whether the attempt succeeded for either role.
func (o Outcome) Granted() bool {
	return o.Kind == GrantedStudent || o.Kind == GrantedTeacher
}
