package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ApplicationStatus is a state of the review workflow
type ApplicationStatus string

const (
	StatusEmployeeReview ApplicationStatus = "employee_review"
	StatusClientReview   ApplicationStatus = "client_review"
	StatusApproved       ApplicationStatus = "approved"
	StatusRejected       ApplicationStatus = "rejected"
	StatusCompleted      ApplicationStatus = "completed"
)

// ApplicationStatuses lists every workflow state
var ApplicationStatuses = []ApplicationStatus{
	StatusEmployeeReview,
	StatusClientReview,
	StatusApproved,
	StatusRejected,
	StatusCompleted,
}

// IsValid reports whether s is a known workflow state
func (s ApplicationStatus) IsValid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no review transition leaves s
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCompleted
}

func (s ApplicationStatus) String() string {
	return string(s)
}

// Quality grades used by employee reviewers
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
)

func (q Quality) IsValid() bool {
	switch q {
	case QualityExcellent, QualityGood, QualityFair, QualityPoor:
		return true
	}
	return false
}

// EmployeeDecision is the outcome of the first review stage
type EmployeeDecision string

const (
	EmployeeApprove EmployeeDecision = "approve"
	EmployeeReject  EmployeeDecision = "reject"
)

// ClientDecision is the outcome of the second review stage
type ClientDecision string

const (
	ClientAccepted ClientDecision = "accepted"
	ClientRejected ClientDecision = "rejected"
)

// EmployeeReview is written once, together with the status change it causes
type EmployeeReview struct {
	ReviewedBy       primitive.ObjectID `json:"reviewedBy" bson:"reviewedBy"`
	ReviewedAt       time.Time          `json:"reviewedAt" bson:"reviewedAt"`
	BudgetApproved   bool               `json:"budgetApproved" bson:"budgetApproved"`
	ProposalQuality  Quality            `json:"proposalQuality" bson:"proposalQuality"`
	PortfolioQuality Quality            `json:"portfolioQuality" bson:"portfolioQuality"`
	Notes            string             `json:"notes" bson:"notes"`
	Decision         EmployeeDecision   `json:"decision" bson:"decision"`
}

// ClientReview is written once by the owning client
type ClientReview struct {
	ReviewedAt time.Time      `json:"reviewedAt" bson:"reviewedAt"`
	Decision   ClientDecision `json:"decision" bson:"decision"`
	Feedback   string         `json:"feedback" bson:"feedback"`
}

// PortfolioItem is a reference to earlier agency work
type PortfolioItem struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	URL         string `json:"url" bson:"url"`
}

// Application is an agency's proposal against one advertisement
type Application struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AdvertisementID primitive.ObjectID `json:"advertisementId" bson:"advertisement"`
	AgencyID        primitive.ObjectID `json:"agencyId" bson:"agency"`
	Message         string             `json:"message,omitempty" bson:"message,omitempty"`
	Proposal        string             `json:"proposal,omitempty" bson:"proposal,omitempty"`
	Budget          *float64           `json:"budget,omitempty" bson:"budget,omitempty"`
	Timeline        string             `json:"timeline,omitempty" bson:"timeline,omitempty"`
	Portfolio       []PortfolioItem    `json:"portfolio" bson:"portfolio"`
	Status          ApplicationStatus  `json:"status" bson:"status"`
	EmployeeReview  *EmployeeReview    `json:"employeeReview,omitempty" bson:"employeeReview,omitempty"`
	ClientReview    *ClientReview      `json:"clientReview,omitempty" bson:"clientReview,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ApplicationContent is the static part of an application set at submission
type ApplicationContent struct {
	Message   string          `json:"message" validate:"max=1000"`
	Proposal  string          `json:"proposal" validate:"max=2000"`
	Budget    *float64        `json:"budget" validate:"omitempty,gte=0"`
	Timeline  string          `json:"timeline"`
	Portfolio []PortfolioItem `json:"portfolio"`
}

// ApplicationRequest is the submission body
type ApplicationRequest struct {
	AdvertisementID string `json:"advertisement"`
	ApplicationContent
}

// ApplicationUpdate describes one atomic write: the status moves from From
// to To and the given review records are attached in the same operation.
type ApplicationUpdate struct {
	From           ApplicationStatus
	To             ApplicationStatus
	EmployeeReview *EmployeeReview
	ClientReview   *ClientReview
	At             time.Time
}

// ApplicationFilter selects applications for a query view
type ApplicationFilter struct {
	AgencyID         *primitive.ObjectID
	AdvertisementID  *primitive.ObjectID
	AdvertisementIDs []primitive.ObjectID
	Statuses         []ApplicationStatus
	ReviewedBy       *primitive.ObjectID
	Limit            int64
}

// ApplicationView is an application with its display joins
type ApplicationView struct {
	Application
	Advertisement *AdvertisementSummary `json:"advertisement,omitempty"`
	Agency        *AgencySummary        `json:"agency,omitempty"`
}

// EmployeeReviewRequest is the first-stage review body
type EmployeeReviewRequest struct {
	BudgetApproved   bool   `json:"budgetApproved"`
	ProposalQuality  string `json:"proposalQuality"`
	PortfolioQuality string `json:"portfolioQuality"`
	Notes            string `json:"notes"`
	Decision         string `json:"decision"`
	ExpectedStatus   string `json:"expectedStatus,omitempty"`
}

// ClientReviewRequest is the second-stage review body
type ClientReviewRequest struct {
	Decision       string `json:"decision"`
	Feedback       string `json:"feedback"`
	ExpectedStatus string `json:"expectedStatus,omitempty"`
}

// StatusUpdateRequest is the legacy status body
type StatusUpdateRequest struct {
	Status         string `json:"status"`
	ExpectedStatus string `json:"expectedStatus,omitempty"`
}

// EmployeeDashboard is the pending work overview for staff
type EmployeeDashboard struct {
	PendingApplications []ApplicationView `json:"pendingApplications"`
	Stats               EmployeeStats     `json:"stats"`
}

type EmployeeStats struct {
	TotalPending  int64 `json:"totalPending"`
	TotalReviewed int64 `json:"totalReviewed"`
}
