package hr

// Recognized leave categories.
const (
	LeaveAnnual    = "annual"
	LeaveSick      = "sick"
	LeavePersonal  = "personal"
	LeaveMaternity = "maternity"
	LeavePaternity = "paternity"
)

// LeaveTypes lists every recognized category in display order.
var LeaveTypes = []string{LeaveAnnual, LeaveSick, LeavePersonal, LeaveMaternity, LeavePaternity}

// ValidLeaveType reports whether t is a recognized leave category.
func ValidLeaveType(t string) bool {
	for _, lt := range LeaveTypes {
		if lt == t {
			return true
		}
	}
	return false
}

// LeaveBalance maps each leave category to remaining days.
type LeaveBalance struct {
	EmployeeID string             `json:"employee_id"`
	Categories map[string]float64 `json:"categories"`
}

// LeaveRequest is constructed by the assistant and owned by the HR system
// once submitted.
type LeaveRequest struct {
	EmployeeID string `json:"employee_id"`
	Type       string `json:"type"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`   // YYYY-MM-DD
	Reason     string `json:"reason"`
}

// LeaveReceipt is the HR system's acknowledgement of a submission.
type LeaveReceipt struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// Deduction is one itemized pay stub deduction.
type Deduction struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// PayStub is a read-only projection from the HR system.
type PayStub struct {
	Period     string      `json:"period"`
	Gross      float64     `json:"gross"`
	Deductions []Deduction `json:"deductions"`
	Net        float64     `json:"net"`
}
