package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Auth & RBAC Tables
// ============================================================

// User roles
const (
	RoleAdmin   = "ADMIN"
	RoleFinance = "FINANCE"
	RoleMember  = "MEMBER"
)

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	MemberID  *uint          `gorm:"index" json:"member_id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'MEMBER'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	MemberID  *uint     `json:"member_id,omitempty"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		MemberID:  u.MemberID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Lookup Tables
// ============================================================

// State represents states table
type State struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

func (State) TableName() string {
	return "states"
}

// Lga represents local government areas within a state
type Lga struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	StateID uint   `gorm:"not null;index" json:"state_id"`
	Name    string `gorm:"size:100;not null" json:"name"`

	State *State `gorm:"foreignKey:StateID" json:"state,omitempty"`
}

func (Lga) TableName() string {
	return "lgas"
}

// ============================================================
// Membership Tables
// ============================================================

// Member statuses
const (
	MemberStatusActive    = "active"
	MemberStatusInactive  = "inactive"
	MemberStatusSuspended = "suspended"
)

// Member represents members table
type Member struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	RegistrationNo       string         `gorm:"size:50;uniqueIndex;not null" json:"registration_no"`
	FirstName            string         `gorm:"size:100;not null" json:"first_name"`
	LastName             string         `gorm:"size:100;not null" json:"last_name"`
	MiddleName           string         `gorm:"size:100" json:"middle_name,omitempty"`
	DateOfBirth          *time.Time     `gorm:"type:date" json:"date_of_birth"`
	Gender               string         `gorm:"size:10" json:"gender,omitempty"`
	Email                string         `gorm:"size:100" json:"email,omitempty"`
	Phone                string         `gorm:"size:30" json:"phone,omitempty"`
	Address              string         `gorm:"type:text" json:"address,omitempty"`
	StateID              *uint          `json:"state_id"`
	LgaID                *uint          `json:"lga_id"`
	Status               string         `gorm:"size:20;not null;default:'active';index" json:"status"`
	RegistrationDate     time.Time      `gorm:"type:date;not null" json:"registration_date"`
	EligibilityStartDate *time.Time     `gorm:"type:date" json:"eligibility_start_date"`
	Nin                  *string        `gorm:"size:11;uniqueIndex" json:"nin,omitempty"`
	Notes                string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt            time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	State         *State         `gorm:"foreignKey:StateID" json:"state,omitempty"`
	Lga           *Lga           `gorm:"foreignKey:LgaID" json:"lga,omitempty"`
	Dependents    []Dependent    `gorm:"foreignKey:MemberID" json:"dependents,omitempty"`
	Contributions []Contribution `gorm:"foreignKey:MemberID" json:"contributions,omitempty"`
	Loans         []Loan         `gorm:"foreignKey:MemberID" json:"loans,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

// FullName joins the name parts, skipping empty ones
func (m *Member) FullName() string {
	name := m.FirstName
	if m.MiddleName != "" {
		name += " " + m.MiddleName
	}
	if m.LastName != "" {
		name += " " + m.LastName
	}
	return name
}

func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}

// Dependent relationships
const (
	RelationshipSpouse = "spouse"
	RelationshipChild  = "child"
	RelationshipOther  = "other"
)

// ChildEligibilityMaxAge is the oldest a child dependent can be and
// still qualify for health benefits.
const ChildEligibilityMaxAge = 15

// Dependent represents dependents table
type Dependent struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	MemberID     uint           `gorm:"not null;index" json:"member_id"`
	Name         string         `gorm:"size:200;not null" json:"name"`
	DateOfBirth  time.Time      `gorm:"type:date;not null" json:"date_of_birth"`
	Relationship string         `gorm:"size:20;not null" json:"relationship"`
	Nin          *string        `gorm:"size:11;uniqueIndex" json:"nin,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}

func (Dependent) TableName() string {
	return "dependents"
}

// AgeAt returns the dependent's age in whole years at the given time.
func (d *Dependent) AgeAt(at time.Time) int {
	age := at.Year() - d.DateOfBirth.Year()
	anniversary := d.DateOfBirth.AddDate(age, 0, 0)
	if anniversary.After(at) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// IsEligible reports benefit eligibility at the model level: children
// qualify by age alone, other relationships follow the member's status.
func (d *Dependent) IsEligible() bool {
	if d.Relationship == RelationshipChild {
		return d.AgeAt(time.Now()) <= ChildEligibilityMaxAge
	}
	return d.Member != nil && d.Member.IsActive()
}

// ============================================================
// Contribution Tables
// ============================================================

// ContributionPlan represents contribution_plans table
type ContributionPlan struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ContributionPlan) TableName() string {
	return "contribution_plans"
}

// Contribution statuses
const (
	ContributionStatusSubmitted     = "submitted"
	ContributionStatusPendingReview = "pending_review"
	ContributionStatusApproved      = "approved"
	ContributionStatusRejected      = "rejected"
	ContributionStatusPaid          = "paid"
)

// Payment methods
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
)

// Contribution represents contributions table
type Contribution struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	MemberID           uint            `gorm:"not null;index" json:"member_id"`
	ContributionPlanID uint            `gorm:"not null" json:"contribution_plan_id"`
	Amount             decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentMethod      string          `gorm:"size:20;not null" json:"payment_method"`
	PaymentRef         *string         `gorm:"size:100;uniqueIndex" json:"payment_ref,omitempty"`
	PaymentDate        time.Time       `gorm:"type:date;not null;index" json:"payment_date"`
	ReceiptPath        *string         `gorm:"size:255" json:"receipt_path,omitempty"`
	Status             string          `gorm:"size:20;not null;default:'submitted';index" json:"status"`
	RecordedBy         *uint           `gorm:"index" json:"recorded_by"`
	ReviewedBy         *uint           `json:"reviewed_by"`
	ReviewedAt         *time.Time      `json:"reviewed_at"`
	FineAmount         decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"fine_amount"`
	ReceiptNotes       string          `gorm:"type:text" json:"receipt_notes,omitempty"`
	RejectionReason    string          `gorm:"type:text" json:"rejection_reason,omitempty"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relations
	Member   *Member           `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Plan     *ContributionPlan `gorm:"foreignKey:ContributionPlanID" json:"plan,omitempty"`
	Recorder *User             `gorm:"foreignKey:RecordedBy" json:"recorder,omitempty"`
	Reviewer *User             `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}

func (Contribution) TableName() string {
	return "contributions"
}

// IsPendingReview reports whether the contribution is still awaiting
// review. Submitted and pending_review are equivalent here.
func (c *Contribution) IsPendingReview() bool {
	return c.Status == ContributionStatusSubmitted || c.Status == ContributionStatusPendingReview
}

func (c *Contribution) IsApproved() bool {
	return c.Status == ContributionStatusApproved || c.Status == ContributionStatusPaid
}

// ContributionResponse DTO
type ContributionResponse struct {
	ID            uint            `json:"id"`
	MemberID      uint            `json:"member_id"`
	MemberName    string          `json:"member_name,omitempty"`
	PlanID        uint            `json:"plan_id"`
	PlanName      string          `json:"plan_name,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	PaymentRef    *string         `json:"payment_ref,omitempty"`
	PaymentDate   string          `json:"payment_date"`
	Status        string          `json:"status"`
	FineAmount    decimal.Decimal `json:"fine_amount"`
	ReviewedBy    *uint           `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time      `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (c *Contribution) ToResponse() *ContributionResponse {
	resp := &ContributionResponse{
		ID:            c.ID,
		MemberID:      c.MemberID,
		PlanID:        c.ContributionPlanID,
		Amount:        c.Amount,
		PaymentMethod: c.PaymentMethod,
		PaymentRef:    c.PaymentRef,
		PaymentDate:   c.PaymentDate.Format("2006-01-02"),
		Status:        c.Status,
		FineAmount:    c.FineAmount,
		ReviewedBy:    c.ReviewedBy,
		ReviewedAt:    c.ReviewedAt,
		CreatedAt:     c.CreatedAt,
	}
	if c.Member != nil {
		resp.MemberName = c.Member.FullName()
	}
	if c.Plan != nil {
		resp.PlanName = c.Plan.Name
	}
	return resp
}

// ============================================================
// Loan Tables
// ============================================================

// Loan statuses
const (
	LoanStatusPending   = "pending"
	LoanStatusApproved  = "approved"
	LoanStatusDisbursed = "disbursed"
	LoanStatusRepaid    = "repaid"
	LoanStatusDefaulted = "defaulted"
)

// Loan represents loans table
type Loan struct {
	ID                    uint             `gorm:"primaryKey" json:"id"`
	MemberID              uint             `gorm:"not null;index" json:"member_id"`
	Amount                decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"amount"`
	ApprovedAmount        *decimal.Decimal `gorm:"type:decimal(15,2)" json:"approved_amount"`
	Status                string           `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Purpose               string           `gorm:"type:text" json:"purpose,omitempty"`
	Remarks               string           `gorm:"type:text" json:"remarks,omitempty"`
	ApprovedBy            *uint            `gorm:"index" json:"approved_by"`
	ApprovedAt            *time.Time       `json:"approved_at"`
	DisbursedBy           *uint            `gorm:"index" json:"disbursed_by"`
	DisbursedAt           *time.Time       `json:"disbursed_at"`
	DisbursedDate         *time.Time       `gorm:"type:date" json:"disbursed_date"`
	InterestRate          decimal.Decimal  `gorm:"type:decimal(5,2);default:0" json:"interest_rate"`
	RepaymentPeriodMonths *int             `json:"repayment_period_months"`
	DueDate               *time.Time       `gorm:"type:date" json:"due_date"`
	CreatedAt             time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	Member     *Member         `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Repayments []LoanRepayment `gorm:"foreignKey:LoanID" json:"repayments,omitempty"`
	Approver   *User           `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	Disburser  *User           `gorm:"foreignKey:DisbursedBy" json:"disburser,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// Principal is the granted amount, falling back to the requested
// amount when no approved amount has been set.
func (l *Loan) Principal() decimal.Decimal {
	if l.ApprovedAmount != nil {
		return *l.ApprovedAmount
	}
	return l.Amount
}

func (l *Loan) IsPending() bool {
	return l.Status == LoanStatusPending
}

func (l *Loan) IsApproved() bool {
	switch l.Status {
	case LoanStatusApproved, LoanStatusDisbursed, LoanStatusRepaid:
		return true
	}
	return false
}

func (l *Loan) IsDisbursed() bool {
	switch l.Status {
	case LoanStatusDisbursed, LoanStatusRepaid, LoanStatusDefaulted:
		return true
	}
	return false
}

// LoanResponse DTO
type LoanResponse struct {
	ID                    uint             `json:"id"`
	MemberID              uint             `json:"member_id"`
	MemberName            string           `json:"member_name,omitempty"`
	Amount                decimal.Decimal  `json:"amount"`
	ApprovedAmount        *decimal.Decimal `json:"approved_amount,omitempty"`
	Balance               decimal.Decimal  `json:"balance"`
	Status                string           `json:"status"`
	Purpose               string           `json:"purpose,omitempty"`
	Remarks               string           `json:"remarks,omitempty"`
	InterestRate          decimal.Decimal  `json:"interest_rate"`
	RepaymentPeriodMonths *int             `json:"repayment_period_months,omitempty"`
	DueDate               *string          `json:"due_date,omitempty"`
	ApprovedBy            *uint            `json:"approved_by,omitempty"`
	ApprovedAt            *time.Time       `json:"approved_at,omitempty"`
	DisbursedBy           *uint            `json:"disbursed_by,omitempty"`
	DisbursedAt           *time.Time       `json:"disbursed_at,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
}

func (l *Loan) ToResponse(balance decimal.Decimal) *LoanResponse {
	resp := &LoanResponse{
		ID:                    l.ID,
		MemberID:              l.MemberID,
		Amount:                l.Amount,
		ApprovedAmount:        l.ApprovedAmount,
		Balance:               balance,
		Status:                l.Status,
		Purpose:               l.Purpose,
		Remarks:               l.Remarks,
		InterestRate:          l.InterestRate,
		RepaymentPeriodMonths: l.RepaymentPeriodMonths,
		ApprovedBy:            l.ApprovedBy,
		ApprovedAt:            l.ApprovedAt,
		DisbursedBy:           l.DisbursedBy,
		DisbursedAt:           l.DisbursedAt,
		CreatedAt:             l.CreatedAt,
	}
	if l.Member != nil {
		resp.MemberName = l.Member.FullName()
	}
	if l.DueDate != nil {
		due := l.DueDate.Format("2006-01-02")
		resp.DueDate = &due
	}
	return resp
}

// LoanRepayment represents loan_repayments table
type LoanRepayment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	LoanID        uint            `gorm:"not null;index" json:"loan_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentDate   time.Time       `gorm:"type:date;not null" json:"payment_date"`
	PaymentMethod string          `gorm:"size:20;not null" json:"payment_method"`
	PaymentRef    *string         `gorm:"size:100;uniqueIndex" json:"payment_ref,omitempty"`
	ReceiptPath   *string         `gorm:"size:255" json:"receipt_path,omitempty"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedBy     uint            `gorm:"not null" json:"created_by"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	Loan    *Loan `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (LoanRepayment) TableName() string {
	return "loan_repayments"
}

// ============================================================
// Fund Ledger
// ============================================================

// Ledger entry types
const (
	LedgerTypeInflow  = "inflow"
	LedgerTypeOutflow = "outflow"
)

// Ledger reference types. The reference is a tagged pair
// (ReferenceType, ReferenceID) naming the entity that caused the
// money movement.
const (
	ReferenceContribution  = "contribution"
	ReferenceLoan          = "loan"
	ReferenceLoanRepayment = "loan_repayment"
)

// FundLedger represents fund_ledger table. Entries are append-only:
// there is no update or delete path through the repositories.
type FundLedger struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ReferenceType   string          `gorm:"size:30;not null;index:idx_fund_ledger_reference" json:"reference_type"`
	ReferenceID     uint            `gorm:"not null;index:idx_fund_ledger_reference" json:"reference_id"`
	Type            string          `gorm:"size:10;not null;index" json:"type"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description     string          `gorm:"type:text" json:"description,omitempty"`
	TransactionDate time.Time       `gorm:"type:date;not null;index" json:"transaction_date"`
	CreatedBy       uint            `gorm:"not null" json:"created_by"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (FundLedger) TableName() string {
	return "fund_ledger"
}

func (f *FundLedger) IsInflow() bool {
	return f.Type == LedgerTypeInflow
}

func (f *FundLedger) IsOutflow() bool {
	return f.Type == LedgerTypeOutflow
}

// ============================================================
// Settings
// ============================================================

// Setting value types
const (
	SettingTypeString  = "string"
	SettingTypeInteger = "integer"
	SettingTypeDecimal = "decimal"
	SettingTypeBoolean = "boolean"
	SettingTypeJSON    = "json"
)

// Well-known setting keys
const (
	SettingEligibilityWaitDays  = "eligibility_wait_days"
	SettingContributionFineRate = "contribution_fine_rate"
	SettingLoanInterestRate     = "loan_interest_rate"
)

// Setting represents settings table: a typed key-value store for
// runtime tunables.
type Setting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"size:100;uniqueIndex;not null" json:"key"`
	Value       string    `gorm:"type:text;not null" json:"value"`
	Type        string    `gorm:"size:20;not null;default:'string'" json:"type"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Group       string    `gorm:"size:50;default:'general'" json:"group"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Auth
		&User{},
		&RefreshToken{},
		// Lookup
		&State{},
		&Lga{},
		// Membership
		&Member{},
		&Dependent{},
		// Contributions
		&ContributionPlan{},
		&Contribution{},
		// Loans
		&Loan{},
		&LoanRepayment{},
		// Ledger & settings
		&FundLedger{},
		&Setting{},
	)
}
