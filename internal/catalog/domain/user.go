package domain

import "strings"

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
	RoleSupport    = "support"

	AccountActive    = "active"
	AccountSuspended = "suspended"
	AccountBanned    = "banned"
)

// User is the admin view of a customer account.
type User struct {
	ID            int64  `json:"id"`
	Email         string `json:"email"`
	FullName      string `json:"full_name"`
	Role          string `json:"role"`
	AccountStatus string `json:"account_status"`
	ReferralCode  string `json:"referral_code,omitempty"`
	CreatedAt     string `json:"created_at"`
}

func (u User) IsAdmin() bool {
	switch fold(u.Role) {
	case RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Flagged reports a suspended or banned account.
func (u User) Flagged() bool {
	switch fold(u.AccountStatus) {
	case AccountSuspended, AccountBanned:
		return true
	}
	return false
}

type UserFilter struct {
	Search        string `form:"search"`
	Role          string `form:"role"`
	AccountStatus string `form:"account_status"`
}

// UserSummary feeds the header cards of the user management screen.
type UserSummary struct {
	TotalUsers    int `json:"total_users"`
	ActiveUsers   int `json:"active_users"`
	Admins        int `json:"admins"`
	SupportStaff  int `json:"support_staff"`
	ReferralUsers int `json:"referral_users"`
	FlaggedUsers  int `json:"flagged_users"`
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
