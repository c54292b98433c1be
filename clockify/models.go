package clockify

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// HourlyRate is a billing rate embedded in workspaces, projects and memberships.
type HourlyRate struct {
	Currency string
	Amount   decimal.Decimal
}

type hourlyRateJSON struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

func (r *HourlyRate) UnmarshalJSON(data []byte) error {
	var w hourlyRateJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return asDecodeError("HourlyRate", err)
	}
	*r = HourlyRate(w)
	return nil
}

func (r HourlyRate) MarshalJSON() ([]byte, error) {
	return json.Marshal(hourlyRateJSON(r))
}

// Membership links a user to a workspace or project; Type says which.
type Membership struct {
	UserID     string
	TargetID   string
	HourlyRate *HourlyRate
	Status     MembershipStatus
	Type       string
}

type membershipJSON struct {
	UserID     string           `json:"userId"`
	TargetID   string           `json:"targetId"`
	HourlyRate *HourlyRate      `json:"hourlyRate"`
	Status     MembershipStatus `json:"membershipStatus"`
	Type       string           `json:"membershipType"`
}

func (m *Membership) UnmarshalJSON(data []byte) error {
	var w membershipJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return asDecodeError("Membership", err)
	}
	if err := requireEnum("MembershipStatus", w.Status); err != nil {
		return err
	}
	*m = Membership(w)
	return nil
}

func (m Membership) MarshalJSON() ([]byte, error) {
	return json.Marshal(membershipJSON(m))
}

// Workspace is the top-level container for every other record.
type Workspace struct {
	ID          string
	Name        string
	Settings    map[string]any
	HourlyRate  HourlyRate
	ImageURL    string
	Memberships []Membership
}

type workspaceJSON struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Settings    map[string]any `json:"workspaceSettings"`
	HourlyRate  *HourlyRate    `json:"hourlyRate"`
	ImageURL    string         `json:"imageUrl"`
	Memberships []Membership   `json:"memberships"`
}

func (ws *Workspace) UnmarshalJSON(data []byte) error {
	var w workspaceJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return asDecodeError("Workspace", err)
	}
	*ws = Workspace{
		ID:          w.ID,
		Name:        w.Name,
		Settings:    w.Settings,
		ImageURL:    w.ImageURL,
		Memberships: w.Memberships,
	}
	if w.HourlyRate != nil {
		ws.HourlyRate = *w.HourlyRate
	}
	return nil
}

func (ws Workspace) MarshalJSON() ([]byte, error) {
	rate := ws.HourlyRate
	return json.Marshal(workspaceJSON{
		ID:          ws.ID,
		Name:        ws.Name,
		Settings:    ws.Settings,
		HourlyRate:  &rate,
		ImageURL:    ws.ImageURL,
		Memberships: ws.Memberships,
	})
}

// User is a Clockify account.
type User struct {
	ID                 string
	Email              string
	Name               string
	ProfilePicture     string
	Settings           map[string]any
	Status             UserStatus
	ActiveWorkspaceID  string
	DefaultWorkspaceID string
	Memberships        []Membership
}

type userJSON struct {
	ID                 string         `json:"id"`
	Email              string         `json:"email"`
	Name               string         `json:"name"`
	ProfilePicture     string         `json:"profilePicture"`
	Settings           map[string]any `json:"settings"`
	Status             UserStatus     `json:"status"`
	ActiveWorkspaceID  string         `json:"activeWorkspace"`
	DefaultWorkspaceID string         `json:"defaultWorkspace"`
	Memberships        []Membership   `json:"memberships"`
}

func (u *User) UnmarshalJSON(data []byte) error {
	var w userJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return asDecodeError("User", err)
	}
	if err := requireEnum("UserStatus", w.Status); err != nil {
		return err
	}
	*u = User(w)
	return nil
}

// Estimate is a projected duration for a project.
type Estimate struct {
	Estimate time.Duration
	Type     EstimateType
}

type estimateJSON struct {
	Estimate wireDuration `json:"estimate"`
	Type     EstimateType `json:"type"`
}

func (e *Estimate) UnmarshalJSON(data []byte) error {
	var w estimateJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return asDecodeError("Estimate", err)
	}
	if err := requireEnum("EstimateType", w.Type); err != nil {
		return err
	}
	*e = Estimate{Estimate: time.Duration(w.Estimate), Type: w.Type}
	return nil
}

// ProjectClient is a billing client of a workspace, the customer a project is
// done for. Not to be confused with the API Client.
type ProjectClient struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WorkspaceID string `json:"workspaceId"`
}

// Tag labels time entries.
type Tag struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WorkspaceID string `json:"workspaceId"`
}

// Project groups time entries. ClientID is empty and HourlyRate nil when the
// project has none.
type Project struct {
	ID          string
	Name        string
	WorkspaceID string
	ClientID    string
	Public      bool
	Archived    bool
	Billable    bool
	Color       string
	Note        string
	Duration    time.Duration
	Estimate    Estimate
	HourlyRate  *HourlyRate
	Memberships []Membership
}

type projectJSON struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	WorkspaceID string       `json:"workspaceId"`
	ClientID    *string      `json:"clientId"`
	Public      wireBool     `json:"public"`
	Archived    wireBool     `json:"archived"`
	Billable    wireBool     `json:"billable"`
	Color       string       `json:"color"`
	Note        string       `json:"note"`
	Duration    wireDuration `json:"duration"`
	Estimate    *Estimate    `json:"estimate"`
	HourlyRate  *HourlyRate  `json:"hourlyRate"`
	Memberships []Membership `json:"memberships"`
}

func (p *Project) UnmarshalJSON(data []byte) error {
	var w projectJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return asDecodeError("Project", err)
	}
	*p = Project{
		ID:          w.ID,
		Name:        w.Name,
		WorkspaceID: w.WorkspaceID,
		ClientID:    deref(w.ClientID),
		Public:      bool(w.Public),
		Archived:    bool(w.Archived),
		Billable:    bool(w.Billable),
		Color:       w.Color,
		Note:        w.Note,
		Duration:    time.Duration(w.Duration),
		HourlyRate:  w.HourlyRate,
		Memberships: w.Memberships,
	}
	if w.Estimate != nil {
		p.Estimate = *w.Estimate
	}
	return nil
}

// Task is a type of activity within a project.
type Task struct {
	ID         string
	Name       string
	AssigneeID string
	ProjectID  string
	Estimate   time.Duration
	Status     TaskStatus
}

type taskJSON struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	AssigneeID *string      `json:"assigneeId"`
	ProjectID  string       `json:"projectId"`
	Estimate   wireDuration `json:"estimate"`
	Status     TaskStatus   `json:"status"`
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var w taskJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return asDecodeError("Task", err)
	}
	if err := requireEnum("TaskStatus", w.Status); err != nil {
		return err
	}
	*t = Task{
		ID:         w.ID,
		Name:       w.Name,
		AssigneeID: deref(w.AssigneeID),
		ProjectID:  w.ProjectID,
		Estimate:   time.Duration(w.Estimate),
		Status:     w.Status,
	}
	return nil
}

// TimeEntry is one work session. End and Duration are nil while the timer is
// still running.
type TimeEntry struct {
	ID          string
	UserID      string
	WorkspaceID string
	Billable    bool
	Locked      bool
	Description string
	ProjectID   string
	TaskID      string
	TagIDs      []string
	Start       time.Time
	End         *time.Time
	Duration    *time.Duration
}

// Running reports whether the entry has no end yet.
func (e TimeEntry) Running() bool {
	return e.End == nil
}

type timeEntryJSON struct {
	ID           string   `json:"id"`
	UserID       string   `json:"userId"`
	WorkspaceID  string   `json:"workspaceId"`
	Billable     wireBool `json:"billable"`
	Locked       wireBool `json:"isLocked"`
	Description  string   `json:"description"`
	ProjectID    *string  `json:"projectId"`
	TaskID       *string  `json:"taskId"`
	TagIDs       []string `json:"tagIds"`
	TimeInterval struct {
		Start string  `json:"start"`
		End   *string `json:"end"`
	} `json:"timeInterval"`
}

func (e *TimeEntry) UnmarshalJSON(data []byte) error {
	var w timeEntryJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return asDecodeError("TimeEntry", err)
	}

	start, err := parseTimestamp(w.TimeInterval.Start)
	if err != nil {
		return err
	}

	*e = TimeEntry{
		ID:          w.ID,
		UserID:      w.UserID,
		WorkspaceID: w.WorkspaceID,
		Billable:    bool(w.Billable),
		Locked:      bool(w.Locked),
		Description: w.Description,
		ProjectID:   deref(w.ProjectID),
		TaskID:      deref(w.TaskID),
		TagIDs:      w.TagIDs,
		Start:       start,
	}

	if w.TimeInterval.End != nil {
		end, err := parseTimestamp(*w.TimeInterval.End)
		if err != nil {
			return err
		}
		d := end.Sub(start)
		e.End = &end
		e.Duration = &d
	}
	return nil
}

// TimeEntryRequest is the body for creating a time entry. End may be nil to
// start a running timer.
type TimeEntryRequest struct {
	Start       time.Time
	End         *time.Time
	Billable    bool
	Description string
	ProjectID   string
	TaskID      string
	TagIDs      []string
}

type timeEntryRequestJSON struct {
	Start       string   `json:"start"`
	End         string   `json:"end,omitempty"`
	Billable    bool     `json:"billable"`
	Description string   `json:"description"`
	ProjectID   string   `json:"projectId,omitempty"`
	TaskID      string   `json:"taskId,omitempty"`
	TagIDs      []string `json:"tagIds,omitempty"`
}

func (r TimeEntryRequest) MarshalJSON() ([]byte, error) {
	w := timeEntryRequestJSON{
		Start:       r.Start.UTC().Format(TimestampLayout),
		Billable:    r.Billable,
		Description: r.Description,
		ProjectID:   r.ProjectID,
		TaskID:      r.TaskID,
		TagIDs:      r.TagIDs,
	}
	if r.End != nil {
		w.End = r.End.UTC().Format(TimestampLayout)
	}
	return json.Marshal(w)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
