package models

import "time"

// User role request statuses. A request starts pending and moves to approved
// or denied only through the explicit approve/deny operations.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusDenied   = "denied"
)

// UserRoleRequest is a user's request to be granted a role. Justification is
// supplied by the requester; Reason is the approver's optional note recorded
// on approval or denial.
type UserRoleRequest struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	RoleID        string    `db:"role_id" json:"role_id"`
	Justification string    `db:"justification" json:"justification"`
	Reason        *string   `db:"reason" json:"reason,omitempty"`
	Status        string    `db:"status" json:"status"`
	CreatedBy     string    `db:"created_by" json:"created_by"`
	UpdatedBy     string    `db:"updated_by" json:"updated_by"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
