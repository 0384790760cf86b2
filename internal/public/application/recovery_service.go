package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/testimonioya/feedback-services/api/internal/plan"
	"github.com/testimonioya/feedback-services/api/internal/public/domain"
)

// NewRecoveryService wires the conversation engine over its ports.
func NewRecoveryService(cases CaseRepository, tenants TenantRepository, plans PlanReader, tokens ReplyTokenVerifier, logger *log.Logger) RecoveryService {
	return &recoveryService{
		cases:   cases,
		tenants: tenants,
		plans:   plans,
		tokens:  tokens,
		logger:  logger,
		now:     time.Now,
	}
}

type recoveryService struct {
	cases   CaseRepository
	tenants TenantRepository
	plans   PlanReader
	tokens  ReplyTokenVerifier
	logger  *log.Logger
	now     func() time.Time
}

// BusinessReply appends a business-authored message. The acting user must
// own the tenant of the case, verified against tenant records on every call,
// and the owner's current plan must still include the recovery feature.
func (s *recoveryService) BusinessReply(ctx context.Context, caseID, actingUserID, text string) (*domain.RecoveryCase, error) {
	recoveryCase, err := s.cases.FindByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("load case %s: %w", caseID, err)
	}
	if recoveryCase == nil {
		return nil, domain.ErrCaseNotFound
	}

	if err := s.verifyOwnership(ctx, recoveryCase.TenantID, actingUserID); err != nil {
		return nil, err
	}

	tier, err := s.plans.TierForUser(ctx, actingUserID)
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("plan lookup failed for user %s: %v", actingUserID, err)
		}
		tier = plan.TierFree
	}
	if !plan.HasFeature(tier, plan.FeatureRecoveryFlow) {
		return nil, domain.ErrUpgradeRequired
	}

	return s.append(ctx, recoveryCase, domain.RoleBusiness, text)
}

// CustomerReply appends a customer-authored message, authorized solely by
// the signed, case-scoped token. No session credential is consulted.
func (s *recoveryService) CustomerReply(ctx context.Context, caseID, tokenString, text string) (*domain.RecoveryCase, error) {
	recoveryCase, err := s.caseForToken(ctx, caseID, tokenString)
	if err != nil {
		return nil, err
	}
	return s.append(ctx, recoveryCase, domain.RoleCustomer, text)
}

// CaseForCustomer loads the thread for the unauthenticated reply page.
func (s *recoveryService) CaseForCustomer(ctx context.Context, caseID, tokenString string) (*domain.RecoveryCase, error) {
	return s.caseForToken(ctx, caseID, tokenString)
}

// SetStatus applies a business-requested transition. Only resolved and
// closed are reachable; closed is terminal.
func (s *recoveryService) SetStatus(ctx context.Context, caseID, actingUserID string, status domain.CaseStatus) (*domain.RecoveryCase, error) {
	recoveryCase, err := s.cases.FindByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("load case %s: %w", caseID, err)
	}
	if recoveryCase == nil {
		return nil, domain.ErrCaseNotFound
	}

	if err := s.verifyOwnership(ctx, recoveryCase.TenantID, actingUserID); err != nil {
		return nil, err
	}
	if err := recoveryCase.Transition(status, s.now().UTC()); err != nil {
		return nil, err
	}

	updated, err := s.cases.UpdateStatus(ctx, recoveryCase.ID, status)
	if err != nil {
		if errors.Is(err, domain.ErrCaseClosed) {
			return nil, domain.ErrCaseClosed
		}
		return nil, fmt.Errorf("update case %s status: %w", recoveryCase.ID, err)
	}
	return updated, nil
}

// append validates the message locally, then delegates the conditional
// append to the repository: the store re-checks closed/cap atomically, so
// two concurrent replies both land (in accept order) or the loser gets the
// cap error, never a silent overwrite.
func (s *recoveryService) append(ctx context.Context, recoveryCase *domain.RecoveryCase, role domain.MessageRole, text string) (*domain.RecoveryCase, error) {
	if err := domain.ValidateMessageText(text); err != nil {
		return nil, err
	}
	if err := recoveryCase.CanAppend(); err != nil {
		return nil, err
	}

	msg := domain.Message{
		Role:      role,
		Text:      strings.TrimSpace(text),
		CreatedAt: s.now().UTC(),
	}
	updated, err := s.cases.AppendMessage(ctx, recoveryCase.ID, msg)
	if err != nil {
		if errors.Is(err, domain.ErrCaseClosed) || errors.Is(err, domain.ErrMessageLimitReached) {
			return nil, err
		}
		return nil, fmt.Errorf("append message to case %s: %w", recoveryCase.ID, err)
	}
	return updated, nil
}

// caseForToken verifies the reply token and loads the case it is scoped to.
// Every failure collapses to ErrUnauthorized: an invalid link must not
// reveal whether the case exists.
func (s *recoveryService) caseForToken(ctx context.Context, caseID, tokenString string) (*domain.RecoveryCase, error) {
	tokenCaseID, tokenEmail, err := s.tokens.VerifyReplyToken(tokenString)
	if err != nil || tokenCaseID != strings.TrimSpace(caseID) {
		return nil, domain.ErrUnauthorized
	}

	recoveryCase, err := s.cases.FindByID(ctx, tokenCaseID)
	if err != nil {
		return nil, fmt.Errorf("load case %s: %w", tokenCaseID, err)
	}
	if recoveryCase == nil {
		return nil, domain.ErrUnauthorized
	}
	if recoveryCase.CustomerEmail == "" || !strings.EqualFold(recoveryCase.CustomerEmail, tokenEmail) {
		return nil, domain.ErrUnauthorized
	}
	return recoveryCase, nil
}

func (s *recoveryService) verifyOwnership(ctx context.Context, tenantID, actingUserID string) error {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("load tenant %s: %w", tenantID, err)
	}
	if tenant == nil || tenant.UserID != actingUserID {
		return domain.ErrUnauthorized
	}
	return nil
}
