package domain

import "github.com/railzwaylabs/storefront/pkg/money"

// AccountRef is the joined user record the affiliate endpoints embed.
type AccountRef struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

type Affiliate struct {
	ID               int64        `json:"id"`
	UserID           int64        `json:"user_id"`
	ReferralCode     string       `json:"referral_code"`
	Status           string       `json:"status"`
	IsActive         bool         `json:"is_active"`
	TotalReferrals   int          `json:"total_referrals"`
	TotalCommission  money.Rupees `json:"total_commission"`
	AvailableBalance money.Rupees `json:"available_balance"`
	CreatedAt        string       `json:"created_at"`
	User             *AccountRef  `json:"user,omitempty"`
}

// Earning is a commission credited to an affiliate for a referred order.
type Earning struct {
	ID               int64        `json:"id"`
	AffiliateUserID  int64        `json:"affiliate_user_id"`
	AffiliateEmail   string       `json:"affiliate_email"`
	AffiliateName    string       `json:"affiliate_name"`
	ReferredUserID   int64        `json:"referred_user_id"`
	ReferredEmail    string       `json:"referred_email"`
	ReferredName     string       `json:"referred_name"`
	OrderID          int64        `json:"order_id"`
	Level            int          `json:"level"`
	OrderAmount      money.Rupees `json:"order_amount"`
	CommissionRate   float64      `json:"commission_rate"`
	CommissionAmount money.Rupees `json:"commission_amount"`
	Status           string       `json:"status"`
	EarnedAt         string       `json:"earned_at"`
}

// Payout is a withdrawal request against an affiliate balance. The gross,
// TDS and net breakdown is only present on newer records.
type Payout struct {
	ID              int64          `json:"id"`
	AffiliateUserID int64          `json:"affiliate_user_id"`
	PayoutType      string         `json:"payout_type,omitempty"`
	Amount          money.Rupees   `json:"amount"`
	GrossAmount     *money.Rupees  `json:"gross_amount,omitempty"`
	TDSAmount       *money.Rupees  `json:"tds_amount,omitempty"`
	NetAmount       *money.Rupees  `json:"net_amount,omitempty"`
	FinancialYear   string         `json:"financial_year,omitempty"`
	Status          string         `json:"status"`
	PaymentMethod   string         `json:"payment_method"`
	PaymentDetails  map[string]any `json:"payment_details,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	AdminNotes      string         `json:"admin_notes,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	TransactionID   string         `json:"transaction_id,omitempty"`
	RequestedAt     string         `json:"requested_at"`
	ProcessedAt     string         `json:"processed_at,omitempty"`
	User            *AccountRef    `json:"user,omitempty"`
}

// Payable is what reaches the affiliate: the net amount when the backend
// computed one, the requested amount otherwise.
func (p Payout) Payable() money.Rupees {
	if p.NetAmount != nil {
		return *p.NetAmount
	}
	return p.Amount
}

// PayoutQueue selects which payout listing to read.
type PayoutQueue string

const (
	PayoutsPending PayoutQueue = "pending"
	PayoutsHistory PayoutQueue = "history"
)

type AffiliateFilter struct {
	Search string `form:"search"`
	Status string `form:"status"`
}

type PayoutFilter struct {
	Search string `form:"search"`
	Status string `form:"status"`
}

func (r *AccountRef) email() string {
	if r == nil {
		return ""
	}
	return r.Email
}

func (r *AccountRef) fullName() string {
	if r == nil {
		return ""
	}
	return r.FullName
}

// SearchFields are the columns the affiliate search box matches.
func (a Affiliate) SearchFields() []string {
	return []string{a.ReferralCode, a.User.email(), a.User.fullName()}
}

func (e Earning) SearchFields() []string {
	return []string{e.AffiliateEmail, e.AffiliateName, e.ReferredEmail, e.ReferredName}
}

func (p Payout) SearchFields() []string {
	return []string{p.User.email(), p.User.fullName(), p.TransactionID, p.PaymentMethod}
}
