package deal

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	filefolderapp "github.com/ventureflow/backend/internal/application/filefolder"
	"github.com/ventureflow/backend/internal/domain/crm"
	"github.com/ventureflow/backend/internal/domain/deal"
	"github.com/ventureflow/backend/internal/domain/filefolder"
	"github.com/ventureflow/backend/internal/domain/organization"
	"github.com/ventureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DocumentStore stores deal-room documents
type DocumentStore interface {
	StoreForOwner(ctx context.Context, tenantID, userID uuid.UUID, ownerType filefolder.OwnerType, ownerID uuid.UUID, up filefolderapp.Upload) (*filefolderapp.FileResponse, error)
}

// Dependencies are the collaborators of Service
type Dependencies struct {
	Deals     deal.Repository
	Buyers    crm.BuyerRepository
	Sellers   crm.SellerRepository
	Partners  crm.PartnerRepository
	Employees organization.EmployeeRepository
	Documents DocumentStore
	Events    shared.EventPublisher
	Logger    *zap.Logger
}

// Service manages deals and their stage transitions
type Service struct {
	repo      deal.Repository
	buyers    crm.BuyerRepository
	sellers   crm.SellerRepository
	partners  crm.PartnerRepository
	employees organization.EmployeeRepository
	documents DocumentStore
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates a deal Service
func NewService(d Dependencies) *Service {
	return &Service{
		repo:      d.Deals,
		buyers:    d.Buyers,
		sellers:   d.Sellers,
		partners:  d.Partners,
		employees: d.Employees,
		documents: d.Documents,
		events:    d.Events,
		logger:    d.Logger,
	}
}

// Stages returns the stage catalog in pipeline order
func (s *Service) Stages() []deal.Stage {
	return deal.Stages()
}

func (s *Service) toFilter(q ListQuery) (shared.Filter, error) {
	filter := shared.DefaultFilter()
	filter.Page = shared.NormalizePage(q.Page)
	filter.OrderBy = ""
	filter.Search = strings.TrimSpace(q.Search)
	if q.Status != "" {
		status := deal.Status(strings.ToLower(strings.TrimSpace(q.Status)))
		if !status.IsValid() {
			return filter, shared.NewValidationError("status", "Must be one of: active, on_hold, won, lost, cancelled")
		}
		filter.Filters["status"] = status
	}
	if q.Stage != "" {
		code, ok := deal.ParseStageCode(q.Stage)
		if !ok {
			return filter, shared.NewValidationError("stage", "Unknown stage code")
		}
		filter.Filters["stage_code"] = code
	}
	for _, p := range [...]struct{ key, raw string }{
		{"pic_id", q.PICID},
		{"buyer_id", q.BuyerID},
		{"seller_id", q.SellerID},
		{"partner_id", q.PartnerID},
	} {
		if p.raw == "" {
			continue
		}
		id, err := uuid.Parse(p.raw)
		if err != nil {
			return filter, shared.NewValidationError(p.key, "Must be a valid UUID")
		}
		filter.Filters[p.key] = id
	}
	return filter, nil
}

// List returns one page of deals
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, q ListQuery) (shared.Paginated[DealResponse], error) {
	filter, err := s.toFilter(q)
	if err != nil {
		return shared.Paginated[DealResponse]{}, err
	}
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[DealResponse]{}, err
	}
	items := make([]DealResponse, len(rows))
	for i := range rows {
		items[i] = ToDealResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// Pipeline groups the matching deals by stage. Every stage of the catalog
// is present, empty ones with a zero count.
func (s *Service) Pipeline(ctx context.Context, tenantID uuid.UUID, q ListQuery) (*PipelineResponse, error) {
	filter, err := s.toFilter(q)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByStage(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	deals, err := s.repo.FindByStages(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	stages := deal.Stages()
	columns := make([]PipelineColumn, len(stages))
	index := make(map[deal.StageCode]int, len(stages))
	for i, st := range stages {
		columns[i] = PipelineColumn{Stage: st, Deals: []DealResponse{}}
		index[st.Code] = i
	}
	resp := &PipelineResponse{Stages: columns}
	for _, c := range counts {
		if i, ok := index[c.StageCode]; ok {
			columns[i].Count = c.Count
			resp.Total += c.Count
		}
	}
	for i := range deals {
		if col, ok := index[deals[i].StageCode]; ok {
			columns[col].Deals = append(columns[col].Deals, ToDealResponse(&deals[i]))
		}
	}
	return resp, nil
}

// Get returns one deal
func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*DealResponse, error) {
	d, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToDealResponse(d)
	return &resp, nil
}

// Create opens a deal at the requested stage, K by default. Creation is not
// a transition and writes no history.
func (s *Service) Create(ctx context.Context, tenantID, userID uuid.UUID, req DealRequest) (*DealResponse, error) {
	in, err := s.input(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	stage, err := parseStage(req.StageCode)
	if err != nil {
		return nil, err
	}
	var d *deal.Deal
	err = shared.RetryOnConflict(shared.CodeAllocationAttempts, func() error {
		seq, err := s.repo.NextSequence(ctx, tenantID)
		if err != nil {
			return err
		}
		if d, err = deal.NewDeal(tenantID, seq, stage, in); err != nil {
			return err
		}
		d.SetCreatedBy(userID)
		return s.repo.Save(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("deal created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("deal_code", d.Code),
		zap.String("stage_code", string(d.StageCode)))
	resp := ToDealResponse(d)
	return &resp, nil
}

// Update replaces the editable attributes. A stage_code in the request
// goes through the same transition as ChangeStage.
func (s *Service) Update(ctx context.Context, tenantID, userID, id uuid.UUID, req DealRequest) (*DealResponse, error) {
	d, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	in, err := s.input(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	if err := d.Update(in); err != nil {
		return nil, err
	}
	var entry *deal.StageHistory
	if req.StageCode != "" {
		stage, err := parseStage(req.StageCode)
		if err != nil {
			return nil, err
		}
		if entry, err = d.ChangeStage(stage, userID); err != nil {
			return nil, err
		}
	}
	if err := s.save(ctx, d, entry); err != nil {
		return nil, err
	}
	resp := ToDealResponse(d)
	return &resp, nil
}

// ChangeStage moves a deal to another stage. The same stage is a no-op.
func (s *Service) ChangeStage(ctx context.Context, tenantID, userID, id uuid.UUID, req ChangeStageRequest) (*StageChangeResponse, error) {
	stage, err := parseStage(req.StageCode)
	if err != nil {
		return nil, err
	}
	d, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	entry, err := d.ChangeStage(stage, userID)
	if err != nil {
		return nil, err
	}
	resp := &StageChangeResponse{Deal: ToDealResponse(d)}
	if entry == nil {
		return resp, nil
	}
	if err := s.save(ctx, d, entry); err != nil {
		return nil, err
	}
	h := ToStageHistoryResponse(entry)
	resp.Deal = ToDealResponse(d)
	resp.Changed = true
	resp.History = &h
	return resp, nil
}

// save writes the deal, with the history entry when a transition happened,
// and publishes the queued events once the write has committed
func (s *Service) save(ctx context.Context, d *deal.Deal, entry *deal.StageHistory) error {
	if entry == nil {
		return s.repo.Save(ctx, d)
	}
	if err := s.repo.SaveWithHistory(ctx, d, entry); err != nil {
		d.ClearDomainEvents()
		return err
	}
	s.logger.Info("deal stage changed",
		zap.String("deal_code", d.Code),
		zap.String("from_stage", string(entry.FromStage)),
		zap.String("to_stage", string(entry.ToStage)))

	events := d.GetDomainEvents()
	d.ClearDomainEvents()
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish deal events",
			zap.String("deal_code", d.Code),
			zap.Error(err))
	}
	return nil
}

// History returns the stage log of a deal, newest first
func (s *Service) History(ctx context.Context, tenantID, id uuid.UUID) ([]StageHistoryResponse, error) {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.History(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	out := make([]StageHistoryResponse, len(rows))
	for i := range rows {
		out[i] = ToStageHistoryResponse(&rows[i])
	}
	return out, nil
}

// Delete removes a deal with its history and folder links
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	d, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("deal deleted", zap.String("deal_code", d.Code))
	return nil
}

// UploadDocument stores a file in the deal room, creating the folder on first use
func (s *Service) UploadDocument(ctx context.Context, tenantID, userID, id uuid.UUID, up filefolderapp.Upload) (*filefolderapp.FileResponse, error) {
	d, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return s.documents.StoreForOwner(ctx, tenantID, userID, filefolder.OwnerDeal, d.ID, up)
}

func parseStage(raw string) (deal.StageCode, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	code, ok := deal.ParseStageCode(raw)
	if !ok {
		return "", shared.NewValidationError("stage_code", "Must be one of: K, J, I, H, G, F, E, D, C, B, A")
	}
	return code, nil
}

// input converts the request and checks that every referenced record exists
func (s *Service) input(ctx context.Context, tenantID uuid.UUID, req DealRequest) (deal.Input, error) {
	in, err := req.toDomain()
	if err != nil {
		return in, shared.NewValidationError("expected_close_date", "Must be a date (YYYY-MM-DD)")
	}
	v := &shared.ValidationError{}
	checks := []struct {
		field string
		id    *uuid.UUID
		find  func(uuid.UUID) error
	}{
		{"buyer_id", in.BuyerID, func(id uuid.UUID) error { _, err := s.buyers.FindByID(ctx, tenantID, id); return err }},
		{"seller_id", in.SellerID, func(id uuid.UUID) error { _, err := s.sellers.FindByID(ctx, tenantID, id); return err }},
		{"partner_id", in.PartnerID, func(id uuid.UUID) error { _, err := s.partners.FindByID(ctx, tenantID, id); return err }},
		{"pic_id", in.PICID, func(id uuid.UUID) error { _, err := s.employees.FindByID(ctx, tenantID, id); return err }},
	}
	for _, c := range checks {
		if c.id == nil {
			continue
		}
		if err := c.find(*c.id); err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return in, err
			}
			v.Add(c.field, "Referenced record not found")
		}
	}
	return in, v.OrNil()
}
