package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/deal"
	"github.com/ventureflow/backend/internal/domain/identity"
	"github.com/ventureflow/backend/internal/domain/notification"
	"github.com/ventureflow/backend/internal/domain/organization"
	"github.com/ventureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DealStageChangedHandler notifies the tenant's admins and the deal's
// person in charge when a deal moves to another stage
type DealStageChangedHandler struct {
	repo      notification.Repository
	users     identity.UserRepository
	employees organization.EmployeeRepository
	logger    *zap.Logger
}

// NewDealStageChangedHandler creates the handler
func NewDealStageChangedHandler(
	repo notification.Repository,
	users identity.UserRepository,
	employees organization.EmployeeRepository,
	logger *zap.Logger,
) *DealStageChangedHandler {
	return &DealStageChangedHandler{
		repo:      repo,
		users:     users,
		employees: employees,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *DealStageChangedHandler) EventTypes() []string {
	return []string{deal.EventTypeDealStageChanged}
}

// Handle writes one notification per recipient
func (h *DealStageChangedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*deal.DealStageChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			deal.EventTypeDealStageChanged, event.EventType())
	}
	tenantID := event.TenantID()

	recipients, err := h.recipients(ctx, tenantID, changed)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		h.logger.Debug("deal stage change has no recipients",
			zap.String("deal_code", changed.DealCode))
		return nil
	}

	title := fmt.Sprintf("%s moved to %s", changed.DealCode, changed.ToStage.Name())
	message := fmt.Sprintf("%s moved from %s (%s) to %s (%s), %d%% complete",
		changed.DealName,
		changed.FromStage.Name(), changed.FromStage,
		changed.ToStage.Name(), changed.ToStage,
		changed.Progress)
	data := map[string]any{
		"deal_id":          changed.AggregateID().String(),
		"deal_code":        changed.DealCode,
		"from_stage":       string(changed.FromStage),
		"to_stage":         string(changed.ToStage),
		"progress_percent": changed.Progress,
		"changed_by":       changed.ChangedBy.String(),
	}

	items := make([]*notification.Notification, 0, len(recipients))
	for _, userID := range recipients {
		n, err := notification.New(tenantID, userID, notification.TypeDealStageChanged, title, message, data)
		if err != nil {
			return err
		}
		items = append(items, n)
	}
	if err := h.repo.SaveBatch(ctx, items); err != nil {
		return err
	}

	h.logger.Info("deal stage notifications sent",
		zap.String("tenant_id", tenantID.String()),
		zap.String("deal_code", changed.DealCode),
		zap.Int("recipients", len(items)))
	return nil
}

// recipients returns the active admins followed by the PIC's account,
// without duplicates
func (h *DealStageChangedHandler) recipients(ctx context.Context, tenantID uuid.UUID, e *deal.DealStageChangedEvent) ([]uuid.UUID, error) {
	admins, err := h.users.FindIDsByRole(ctx, tenantID, identity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]bool, len(admins)+1)
	out := make([]uuid.UUID, 0, len(admins)+1)
	add := func(id uuid.UUID) {
		if id == uuid.Nil || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, id := range admins {
		add(id)
	}

	if e.PICID != nil {
		pic, err := h.employees.FindByID(ctx, tenantID, *e.PICID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			h.logger.Warn("deal PIC no longer exists",
				zap.String("deal_code", e.DealCode),
				zap.String("pic_id", e.PICID.String()))
		case err != nil:
			return nil, err
		case pic.UserID != nil:
			add(*pic.UserID)
		}
	}
	return out, nil
}

var _ shared.EventHandler = (*DealStageChangedHandler)(nil)
