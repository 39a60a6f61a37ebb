package workflow

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/HSouheill/admarket_backend/models"
	"github.com/HSouheill/admarket_backend/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxMessageLen  = 1000
	maxProposalLen = 2000
	maxNotesLen    = 1000
	maxFeedbackLen = 1000
)

// reviewStage is the only status each review action may leave from
var reviewStage = map[Action]models.ApplicationStatus{
	ActionEmployeeReview: models.StatusEmployeeReview,
	ActionClientReview:   models.StatusClientReview,
}

var employeeOutcome = map[models.EmployeeDecision]models.ApplicationStatus{
	models.EmployeeApprove: models.StatusClientReview,
	models.EmployeeReject:  models.StatusRejected,
}

var clientOutcome = map[models.ClientDecision]models.ApplicationStatus{
	models.ClientAccepted: models.StatusApproved,
	models.ClientRejected: models.StatusRejected,
}

// PermittedActions returns the review actions legal from status
func PermittedActions(status models.ApplicationStatus) []Action {
	if status.IsTerminal() {
		return nil
	}
	var actions []Action
	for _, action := range []Action{ActionEmployeeReview, ActionClientReview} {
		if reviewStage[action] == status {
			actions = append(actions, action)
		}
	}
	return actions
}

// Engine computes workflow effects. It never touches storage: every method
// returns the value to persist and the caller applies it atomically.
type Engine struct {
	now func() time.Time
}

// NewEngine returns an engine stamping reviews with the wall clock
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock is used where review timestamps must be predictable
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// NewApplication builds a fresh application in employee_review
func (e *Engine) NewApplication(agencyID primitive.ObjectID, advertisementID string, content models.ApplicationContent) (*models.Application, error) {
	if advertisementID == "" {
		return nil, fmt.Errorf("%w: advertisement id is required", ErrValidation)
	}
	adID, err := primitive.ObjectIDFromHex(advertisementID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid advertisement id", ErrValidation)
	}
	message := utils.SanitizeInput(content.Message)
	if err := checkLen("message", message, maxMessageLen); err != nil {
		return nil, err
	}
	proposal := utils.SanitizeInput(content.Proposal)
	if err := checkLen("proposal", proposal, maxProposalLen); err != nil {
		return nil, err
	}
	if content.Budget != nil && *content.Budget < 0 {
		return nil, fmt.Errorf("%w: budget must not be negative", ErrValidation)
	}

	portfolio := make([]models.PortfolioItem, 0, len(content.Portfolio))
	for _, item := range content.Portfolio {
		portfolio = append(portfolio, models.PortfolioItem{
			Title:       utils.SanitizeInput(item.Title),
			Description: utils.SanitizeInput(item.Description),
			URL:         utils.SanitizeURL(item.URL),
		})
	}

	now := e.now()
	return &models.Application{
		ID:              primitive.NewObjectID(),
		AdvertisementID: adID,
		AgencyID:        agencyID,
		Message:         message,
		Proposal:        proposal,
		Budget:          content.Budget,
		Timeline:        utils.SanitizeInput(content.Timeline),
		Portfolio:       portfolio,
		Status:          models.StatusEmployeeReview,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// EmployeeReview computes the first-stage transition
func (e *Engine) EmployeeReview(app *models.Application, reviewer Actor, req models.EmployeeReviewRequest) (models.ApplicationUpdate, error) {
	decision := models.EmployeeDecision(req.Decision)
	to, ok := employeeOutcome[decision]
	if !ok {
		return models.ApplicationUpdate{}, fmt.Errorf("%w: %q, expected approve or reject", ErrInvalidDecision, req.Decision)
	}
	if err := requireStage(app, ActionEmployeeReview); err != nil {
		return models.ApplicationUpdate{}, err
	}

	proposalQuality, err := qualityOrDefault("proposalQuality", req.ProposalQuality)
	if err != nil {
		return models.ApplicationUpdate{}, err
	}
	portfolioQuality, err := qualityOrDefault("portfolioQuality", req.PortfolioQuality)
	if err != nil {
		return models.ApplicationUpdate{}, err
	}
	notes := utils.SanitizeInput(req.Notes)
	if err := checkLen("notes", notes, maxNotesLen); err != nil {
		return models.ApplicationUpdate{}, err
	}

	now := e.now()
	return models.ApplicationUpdate{
		From: app.Status,
		To:   to,
		EmployeeReview: &models.EmployeeReview{
			ReviewedBy:       reviewer.ID(),
			ReviewedAt:       now,
			BudgetApproved:   req.BudgetApproved,
			ProposalQuality:  proposalQuality,
			PortfolioQuality: portfolioQuality,
			Notes:            notes,
			Decision:         decision,
		},
		At: now,
	}, nil
}

// ClientReview computes the second-stage transition
func (e *Engine) ClientReview(app *models.Application, req models.ClientReviewRequest) (models.ApplicationUpdate, error) {
	decision := models.ClientDecision(req.Decision)
	to, ok := clientOutcome[decision]
	if !ok {
		return models.ApplicationUpdate{}, fmt.Errorf("%w: %q, expected accepted or rejected", ErrInvalidDecision, req.Decision)
	}
	if err := requireStage(app, ActionClientReview); err != nil {
		return models.ApplicationUpdate{}, err
	}
	feedback := utils.SanitizeInput(req.Feedback)
	if err := checkLen("feedback", feedback, maxFeedbackLen); err != nil {
		return models.ApplicationUpdate{}, err
	}

	now := e.now()
	return models.ApplicationUpdate{
		From: app.Status,
		To:   to,
		ClientReview: &models.ClientReview{
			ReviewedAt: now,
			Decision:   decision,
			Feedback:   feedback,
		},
		At: now,
	}, nil
}

// LegacyStatus computes the backward compatible direct status write. It
// accepts any of the five statuses and attaches no review record.
func (e *Engine) LegacyStatus(app *models.Application, status string) (models.ApplicationUpdate, error) {
	to := models.ApplicationStatus(status)
	if !to.IsValid() {
		return models.ApplicationUpdate{}, fmt.Errorf("%w: invalid status %q", ErrValidation, status)
	}
	return models.ApplicationUpdate{From: app.Status, To: to, At: e.now()}, nil
}

// Apply returns a copy of app with update applied
func Apply(app models.Application, update models.ApplicationUpdate) models.Application {
	app.Status = update.To
	if update.EmployeeReview != nil {
		review := *update.EmployeeReview
		app.EmployeeReview = &review
	}
	if update.ClientReview != nil {
		review := *update.ClientReview
		app.ClientReview = &review
	}
	app.UpdatedAt = update.At
	return app
}

func requireStage(app *models.Application, action Action) error {
	for _, permitted := range PermittedActions(app.Status) {
		if permitted == action {
			return nil
		}
	}
	if app.Status.IsTerminal() {
		return fmt.Errorf("%w: application is %s, no review is pending", ErrInvalidTransition, app.Status)
	}
	return fmt.Errorf("%w: %s requires status %s, application is %s", ErrInvalidTransition, action, reviewStage[action], app.Status)
}

func qualityOrDefault(field, value string) (models.Quality, error) {
	if value == "" {
		return models.QualityFair, nil
	}
	q := models.Quality(value)
	if !q.IsValid() {
		return "", fmt.Errorf("%w: %s must be excellent, good, fair or poor", ErrValidation, field)
	}
	return q, nil
}

// checkLen bounds the stored text, so it runs on sanitized input
func checkLen(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrValidation, field, max)
	}
	return nil
}

// CheckObserved compares the status a caller last saw with the current one.
// An empty observation skips the check.
func CheckObserved(app *models.Application, observed string) error {
	if observed == "" {
		return nil
	}
	status := models.ApplicationStatus(observed)
	if !status.IsValid() {
		return fmt.Errorf("%w: invalid expected status %q", ErrValidation, observed)
	}
	if app.Status != status {
		return fmt.Errorf("%w: expected %s, application is %s", ErrStaleState, status, app.Status)
	}
	return nil
}
