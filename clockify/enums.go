package clockify

import "encoding/json"

// MembershipStatus says where a user stands in a workspace or project.
type MembershipStatus string

const (
	MembershipPending  MembershipStatus = "PENDING"
	MembershipActive   MembershipStatus = "ACTIVE"
	MembershipDeclined MembershipStatus = "DECLINED"
	MembershipInactive MembershipStatus = "INACTIVE"
)

var membershipStatuses = tokenSet(MembershipPending, MembershipActive, MembershipDeclined, MembershipInactive)

func (s *MembershipStatus) UnmarshalText(text []byte) error {
	return decodeEnum("MembershipStatus", membershipStatuses, text, s)
}

func (s *MembershipStatus) UnmarshalJSON(data []byte) error {
	return decodeEnumJSON("MembershipStatus", membershipStatuses, data, s)
}

// UserStatus is the account state of a user.
type UserStatus string

const (
	UserActive                   UserStatus = "ACTIVE"
	UserPendingEmailVerification UserStatus = "PENDING_EMAIL_VERIFICATION"
	UserDeleted                  UserStatus = "DELETED"
)

var userStatuses = tokenSet(UserActive, UserPendingEmailVerification, UserDeleted)

func (s *UserStatus) UnmarshalText(text []byte) error {
	return decodeEnum("UserStatus", userStatuses, text, s)
}

func (s *UserStatus) UnmarshalJSON(data []byte) error {
	return decodeEnumJSON("UserStatus", userStatuses, data, s)
}

// EstimateType says whether a project estimate was entered by hand or
// derived from its tasks.
type EstimateType string

const (
	EstimateAuto   EstimateType = "AUTO"
	EstimateManual EstimateType = "MANUAL"
)

var estimateTypes = tokenSet(EstimateAuto, EstimateManual)

func (t *EstimateType) UnmarshalText(text []byte) error {
	return decodeEnum("EstimateType", estimateTypes, text, t)
}

func (t *EstimateType) UnmarshalJSON(data []byte) error {
	return decodeEnumJSON("EstimateType", estimateTypes, data, t)
}

// TaskStatus is either DONE or ACTIVE.
type TaskStatus string

const (
	TaskDone   TaskStatus = "DONE"
	TaskActive TaskStatus = "ACTIVE"
)

var taskStatuses = tokenSet(TaskDone, TaskActive)

func (s *TaskStatus) UnmarshalText(text []byte) error {
	return decodeEnum("TaskStatus", taskStatuses, text, s)
}

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	return decodeEnumJSON("TaskStatus", taskStatuses, data, s)
}

func tokenSet[T ~string](values ...T) map[string]T {
	set := make(map[string]T, len(values))
	for _, v := range values {
		set[string(v)] = v
	}
	return set
}

// decodeEnum is an exact match against known; there is no fallback variant.
func decodeEnum[T ~string](name string, known map[string]T, text []byte, dst *T) error {
	v, ok := known[string(text)]
	if !ok {
		return &DecodeError{Type: name, Value: string(text)}
	}
	*dst = v
	return nil
}

// decodeEnumJSON is decodeEnum for a JSON value. encoding/json skips
// UnmarshalText for null, so null is rejected here.
func decodeEnumJSON[T ~string](name string, known map[string]T, data []byte, dst *T) error {
	if string(data) == "null" {
		return &DecodeError{Type: name, Value: "null"}
	}
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return &DecodeError{Type: name, Value: string(data), Err: err}
	}
	return decodeEnum(name, known, []byte(token), dst)
}

// requireEnum fails when a required enum key was absent from the payload.
func requireEnum[T ~string](name string, v T) error {
	if v == "" {
		return &DecodeError{Type: name, Err: errMissingKey}
	}
	return nil
}
