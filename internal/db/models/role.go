package models

import "time"

// PublicRoleName is the reserved role every user implicitly holds. It can
// never be the target of a user role request.
const PublicRoleName = "public"

// Role represents a named grant. Role names are unique.
type Role struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	UpdatedBy   string    `db:"updated_by" json:"updated_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// RoleApproverRelationship designates that members of ApproverRoleID may
// approve requests for RoleID. A role never approves itself.
type RoleApproverRelationship struct {
	ID             string    `db:"id" json:"id"`
	RoleID         string    `db:"role_id" json:"role_id"`
	ApproverRoleID string    `db:"approver_role_id" json:"approver_role_id"`
	CreatedBy      string    `db:"created_by" json:"created_by"`
	UpdatedBy      string    `db:"updated_by" json:"updated_by"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
