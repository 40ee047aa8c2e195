package eventlog

import "strings"

// Action is what an event did to its subject.
type Action string

const (
	ActionCreate Action = "Create"
	ActionUpdate Action = "Update"
	ActionDelete Action = "Delete"
	ActionModify Action = "Modify"
)

// Status is the severity shown on the dashboard.
type Status string

const (
	StatusSuccess Status = "Success"
	StatusError   Status = "Error"
	StatusInfo    Status = "Info"
	StatusWarning Status = "Warning"
)

// Category is the area of the clinic an event belongs to.
type Category string

const (
	CategoryPatient     Category = "Patient"
	CategoryAppointment Category = "Appointment"
	CategoryTest        Category = "Test"
	CategoryBilling     Category = "Billing"
	CategoryUser        Category = "User"
	CategorySystem      Category = "System"
)

// Rule maps a keyword set to a classification. Keywords are lower case and
// matched as substrings of the lower-cased message.
type Rule[T ~string] struct {
	Keywords []string
	Value    T
}

// Rule tables are evaluated top to bottom; the first row with a matching
// keyword wins.
var (
	StatusRules = []Rule[Status]{
		{Keywords: []string{"error", "failed", "failure", "denied", "invalid", "exception", "unauthorized"}, Value: StatusError},
		{Keywords: []string{"warning", "warn", "expired", "expiring", "pending", "retry", "overdue"}, Value: StatusWarning},
		{Keywords: []string{"success", "completed", "approved", "verified"}, Value: StatusSuccess},
	}

	ActionRules = []Rule[Action]{
		{Keywords: []string{"create", "added", "add ", "new ", "register", "insert"}, Value: ActionCreate},
		{Keywords: []string{"delete", "remove", "cancel", "archive"}, Value: ActionDelete},
		{Keywords: []string{"update", "edit", "change", "modif", "reschedul"}, Value: ActionUpdate},
	}

	CategoryRules = []Rule[Category]{
		{Keywords: []string{"patient"}, Value: CategoryPatient},
		{Keywords: []string{"appointment", "schedule", "booking", "shift"}, Value: CategoryAppointment},
		{Keywords: []string{"test", "sample", "result", "report", "specimen", "laboratory"}, Value: CategoryTest},
		{Keywords: []string{"invoice", "payment", "bill"}, Value: CategoryBilling},
		{Keywords: []string{"user", "doctor", "login", "logout", "password", "account", "role"}, Value: CategoryUser},
	}
)

// ClassifyStatus falls back to Info.
func ClassifyStatus(message string) Status {
	return classify(StatusRules, message, StatusInfo)
}

// ClassifyAction falls back to Modify.
func ClassifyAction(message string) Action {
	return classify(ActionRules, message, ActionModify)
}

// ClassifyCategory falls back to System.
func ClassifyCategory(message string) Category {
	return classify(CategoryRules, message, CategorySystem)
}

func classify[T ~string](rules []Rule[T], message string, fallback T) T {
	m := strings.ToLower(message)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(m, kw) {
				return r.Value
			}
		}
	}
	return fallback
}
