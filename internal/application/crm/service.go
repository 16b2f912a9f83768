package crm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	filefolderapp "github.com/ventureflow/backend/internal/application/filefolder"
	"github.com/ventureflow/backend/internal/domain/crm"
	"github.com/ventureflow/backend/internal/domain/filefolder"
	"github.com/ventureflow/backend/internal/domain/organization"
	"github.com/ventureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PictureStore stores profile pictures
type PictureStore interface {
	PutProfilePicture(ctx context.Context, tenantID uuid.UUID, ownerType filefolder.OwnerType, ownerID uuid.UUID, up filefolderapp.Upload) (string, error)
	RemoveObject(ctx context.Context, key string)
	URL(key string) string
}

// Dependencies are the collaborators shared by the buyer, seller and partner services
type Dependencies struct {
	Buyers     crm.BuyerRepository
	Sellers    crm.SellerRepository
	Partners   crm.PartnerRepository
	Employees  organization.EmployeeRepository
	Pictures   PictureStore
	References ReferenceData
	Logger     *zap.Logger
}

// records implements what the three record services have in common
type records struct {
	partners  crm.PartnerRepository
	employees organization.EmployeeRepository
	pictures  PictureStore
	refs      ReferenceData
	logger    *zap.Logger
}

func newRecords(d Dependencies) records {
	return records{
		partners:  d.Partners,
		employees: d.Employees,
		pictures:  d.Pictures,
		refs:      d.References,
		logger:    d.Logger,
	}
}

// checkReferences turns a dangling pic_id or partner_id into a field error
func (r *records) checkReferences(ctx context.Context, tenantID uuid.UUID, picID, partnerID *uuid.UUID) error {
	v := &shared.ValidationError{}
	if picID != nil {
		if _, err := r.employees.FindByID(ctx, tenantID, *picID); err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			v.Add("pic_id", "Employee not found")
		}
	}
	if partnerID != nil {
		if _, err := r.partners.FindByID(ctx, tenantID, *partnerID); err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			v.Add("partner_id", "Partner not found")
		}
	}
	return v.OrNil()
}

// replacePicture stores up, lets save persist the new key and removes the
// previous object only once the new one is linked
func (r *records) replacePicture(ctx context.Context, tenantID uuid.UUID, ownerType filefolder.OwnerType, rec *crm.Record, ownerID uuid.UUID, up filefolderapp.Upload, save func() error) error {
	key, err := r.pictures.PutProfilePicture(ctx, tenantID, ownerType, ownerID, up)
	if err != nil {
		return err
	}
	old := rec.ReplaceProfilePicture(key)
	if err := save(); err != nil {
		rec.ProfilePicture = old
		r.pictures.RemoveObject(ctx, key)
		return err
	}
	r.pictures.RemoveObject(ctx, old)
	r.logger.Info("profile picture replaced",
		zap.String("owner_type", string(ownerType)),
		zap.String("owner_id", ownerID.String()))
	return nil
}

func (r *records) recordResponse(a *shared.TenantAggregateRoot, rec *crm.Record) RecordResponse {
	return RecordResponse{
		ID:                a.ID,
		Status:            string(rec.Status),
		Source:            rec.Source,
		IsPinned:          rec.IsPinned,
		PICID:             rec.PICID,
		ProfilePicture:    rec.ProfilePicture,
		ProfilePictureURL: r.pictures.URL(rec.ProfilePicture),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

// =============================================================================
// Buyers
// =============================================================================

// BuyerService manages buyers
type BuyerService struct {
	records
	repo crm.BuyerRepository
}

// NewBuyerService creates a BuyerService
func NewBuyerService(d Dependencies) *BuyerService {
	return &BuyerService{records: newRecords(d), repo: d.Buyers}
}

// Index returns one page of buyers matching filter
func (s *BuyerService) Index(ctx context.Context, tenantID uuid.UUID, filter crm.BuyerFilter) (shared.Paginated[BuyerResponse], error) {
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[BuyerResponse]{}, err
	}
	items := make([]BuyerResponse, len(rows))
	for i := range rows {
		items[i] = s.toResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, filter.Page, shared.FixedPageSize), nil
}

// Show returns one buyer
func (s *BuyerService) Show(ctx context.Context, tenantID, id uuid.UUID) (*BuyerResponse, error) {
	b, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(b)
	return &resp, nil
}

// Create adds a buyer with its details; the code comes from the tenant sequence
func (s *BuyerService) Create(ctx context.Context, tenantID, userID uuid.UUID, req BuyerRequest) (*BuyerResponse, error) {
	b, err := s.create(ctx, tenantID, userID, req.toDomain())
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(b)
	return &resp, nil
}

func (s *BuyerService) create(ctx context.Context, tenantID, userID uuid.UUID, in crm.BuyerInput) (*crm.Buyer, error) {
	if err := s.checkReferences(ctx, tenantID, in.PICID, in.PartnerID); err != nil {
		return nil, err
	}
	var b *crm.Buyer
	err := shared.RetryOnConflict(shared.CodeAllocationAttempts, func() error {
		seq, err := s.repo.NextSequence(ctx, tenantID)
		if err != nil {
			return err
		}
		if b, err = crm.NewBuyer(tenantID, seq, in); err != nil {
			return err
		}
		b.SetCreatedBy(userID)
		return s.repo.Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("buyer created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("buyer_code", b.Code))
	return b, nil
}

// Update replaces a buyer's attributes and details
func (s *BuyerService) Update(ctx context.Context, tenantID, id uuid.UUID, req BuyerRequest) (*BuyerResponse, error) {
	b, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	in := req.toDomain()
	if err := s.checkReferences(ctx, tenantID, in.PICID, in.PartnerID); err != nil {
		return nil, err
	}
	if err := b.Update(in); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	resp := s.toResponse(b)
	return &resp, nil
}

// Delete removes a buyer, its details and folder links, then its picture
func (s *BuyerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	b, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.pictures.RemoveObject(ctx, b.ProfilePicture)
	s.logger.Info("buyer deleted", zap.String("buyer_code", b.Code))
	return nil
}

// TogglePin flips the pinned flag
func (s *BuyerService) TogglePin(ctx context.Context, tenantID, id uuid.UUID) (*PinResponse, error) {
	b, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	pinned := b.TogglePin()
	b.Touch()
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	return &PinResponse{ID: b.ID, IsPinned: pinned}, nil
}

// UploadProfilePicture replaces the buyer's picture
func (s *BuyerService) UploadProfilePicture(ctx context.Context, tenantID, id uuid.UUID, up filefolderapp.Upload) (*BuyerResponse, error) {
	b, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	err = s.replacePicture(ctx, tenantID, filefolder.OwnerBuyer, &b.Record, b.ID, up, func() error {
		b.Touch()
		return s.repo.Save(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(b)
	return &resp, nil
}

func (s *BuyerService) toResponse(b *crm.Buyer) BuyerResponse {
	return BuyerResponse{
		RecordResponse:    s.recordResponse(&b.TenantAggregateRoot, &b.Record),
		BuyerCode:         b.Code,
		PartnerID:         b.PartnerID,
		CompanyOverview:   toOverviewDTO(b.Overview),
		FinancialDetails:  toFinancialsDTO(b.Financials),
		TargetPreferences: toPreferencesDTO(b.Preferences),
		TeaserCenter:      toTeaserDTO(b.Teaser),
	}
}

// =============================================================================
// Sellers
// =============================================================================

// SellerService manages sellers
type SellerService struct {
	records
	repo crm.SellerRepository
}

// NewSellerService creates a SellerService
func NewSellerService(d Dependencies) *SellerService {
	return &SellerService{records: newRecords(d), repo: d.Sellers}
}

// Index returns one page of sellers matching filter
func (s *SellerService) Index(ctx context.Context, tenantID uuid.UUID, filter crm.SellerFilter) (shared.Paginated[SellerResponse], error) {
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[SellerResponse]{}, err
	}
	items := make([]SellerResponse, len(rows))
	for i := range rows {
		items[i] = s.toResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, filter.Page, shared.FixedPageSize), nil
}

// Show returns one seller
func (s *SellerService) Show(ctx context.Context, tenantID, id uuid.UUID) (*SellerResponse, error) {
	sl, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(sl)
	return &resp, nil
}

// Create adds a seller with its details
func (s *SellerService) Create(ctx context.Context, tenantID, userID uuid.UUID, req SellerRequest) (*SellerResponse, error) {
	sl, err := s.create(ctx, tenantID, userID, req.toDomain())
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(sl)
	return &resp, nil
}

func (s *SellerService) create(ctx context.Context, tenantID, userID uuid.UUID, in crm.SellerInput) (*crm.Seller, error) {
	if err := s.checkReferences(ctx, tenantID, in.PICID, in.PartnerID); err != nil {
		return nil, err
	}
	var sl *crm.Seller
	err := shared.RetryOnConflict(shared.CodeAllocationAttempts, func() error {
		seq, err := s.repo.NextSequence(ctx, tenantID)
		if err != nil {
			return err
		}
		if sl, err = crm.NewSeller(tenantID, seq, in); err != nil {
			return err
		}
		sl.SetCreatedBy(userID)
		return s.repo.Save(ctx, sl)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("seller created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("seller_code", sl.Code))
	return sl, nil
}

// Update replaces a seller's attributes and details
func (s *SellerService) Update(ctx context.Context, tenantID, id uuid.UUID, req SellerRequest) (*SellerResponse, error) {
	sl, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	in := req.toDomain()
	if err := s.checkReferences(ctx, tenantID, in.PICID, in.PartnerID); err != nil {
		return nil, err
	}
	if err := sl.Update(in); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, sl); err != nil {
		return nil, err
	}
	resp := s.toResponse(sl)
	return &resp, nil
}

// Delete removes a seller, its details and folder links, then its picture
func (s *SellerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	sl, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.pictures.RemoveObject(ctx, sl.ProfilePicture)
	s.logger.Info("seller deleted", zap.String("seller_code", sl.Code))
	return nil
}

// TogglePin flips the pinned flag
func (s *SellerService) TogglePin(ctx context.Context, tenantID, id uuid.UUID) (*PinResponse, error) {
	sl, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	pinned := sl.TogglePin()
	sl.Touch()
	if err := s.repo.Save(ctx, sl); err != nil {
		return nil, err
	}
	return &PinResponse{ID: sl.ID, IsPinned: pinned}, nil
}

// UploadProfilePicture replaces the seller's picture
func (s *SellerService) UploadProfilePicture(ctx context.Context, tenantID, id uuid.UUID, up filefolderapp.Upload) (*SellerResponse, error) {
	sl, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	err = s.replacePicture(ctx, tenantID, filefolder.OwnerSeller, &sl.Record, sl.ID, up, func() error {
		sl.Touch()
		return s.repo.Save(ctx, sl)
	})
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(sl)
	return &resp, nil
}

func (s *SellerService) toResponse(sl *crm.Seller) SellerResponse {
	return SellerResponse{
		RecordResponse:   s.recordResponse(&sl.TenantAggregateRoot, &sl.Record),
		SellerCode:       sl.Code,
		PartnerID:        sl.PartnerID,
		SaleType:         string(sl.SaleType),
		SaleReason:       sl.SaleReason,
		CompanyOverview:  toOverviewDTO(sl.Overview),
		FinancialDetails: toFinancialsDTO(sl.Financials),
		TeaserCenter:     toTeaserDTO(sl.Teaser),
	}
}

// =============================================================================
// Partners
// =============================================================================

// PartnerService manages partners
type PartnerService struct {
	records
	repo crm.PartnerRepository
}

// NewPartnerService creates a PartnerService
func NewPartnerService(d Dependencies) *PartnerService {
	return &PartnerService{records: newRecords(d), repo: d.Partners}
}

// Index returns one page of partners matching filter
func (s *PartnerService) Index(ctx context.Context, tenantID uuid.UUID, filter crm.PartnerFilter) (shared.Paginated[PartnerResponse], error) {
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[PartnerResponse]{}, err
	}
	items := make([]PartnerResponse, len(rows))
	for i := range rows {
		items[i] = s.toResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, filter.Page, shared.FixedPageSize), nil
}

// Show returns one partner
func (s *PartnerService) Show(ctx context.Context, tenantID, id uuid.UUID) (*PartnerResponse, error) {
	p, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(p)
	return &resp, nil
}

// Create adds a partner with its partnership details
func (s *PartnerService) Create(ctx context.Context, tenantID, userID uuid.UUID, req PartnerRequest) (*PartnerResponse, error) {
	in := req.toDomain()
	if err := s.checkReferences(ctx, tenantID, in.PICID, nil); err != nil {
		return nil, err
	}
	var p *crm.Partner
	err := shared.RetryOnConflict(shared.CodeAllocationAttempts, func() error {
		seq, err := s.repo.NextSequence(ctx, tenantID)
		if err != nil {
			return err
		}
		if p, err = crm.NewPartner(tenantID, seq, in); err != nil {
			return err
		}
		p.SetCreatedBy(userID)
		return s.repo.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("partner created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("partner_code", p.Code))
	resp := s.toResponse(p)
	return &resp, nil
}

// Update replaces a partner's attributes and details
func (s *PartnerService) Update(ctx context.Context, tenantID, id uuid.UUID, req PartnerRequest) (*PartnerResponse, error) {
	p, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	in := req.toDomain()
	if err := s.checkReferences(ctx, tenantID, in.PICID, nil); err != nil {
		return nil, err
	}
	if err := p.Update(in); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := s.toResponse(p)
	return &resp, nil
}

// Delete removes a partner, its details and folder links, then its picture
func (s *PartnerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.pictures.RemoveObject(ctx, p.ProfilePicture)
	s.logger.Info("partner deleted", zap.String("partner_code", p.Code))
	return nil
}

// TogglePin flips the pinned flag
func (s *PartnerService) TogglePin(ctx context.Context, tenantID, id uuid.UUID) (*PinResponse, error) {
	p, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	pinned := p.TogglePin()
	p.Touch()
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return &PinResponse{ID: p.ID, IsPinned: pinned}, nil
}

// UploadProfilePicture replaces the partner's picture
func (s *PartnerService) UploadProfilePicture(ctx context.Context, tenantID, id uuid.UUID, up filefolderapp.Upload) (*PartnerResponse, error) {
	p, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	err = s.replacePicture(ctx, tenantID, filefolder.OwnerPartner, &p.Record, p.ID, up, func() error {
		p.Touch()
		return s.repo.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(p)
	return &resp, nil
}

func (s *PartnerService) toResponse(p *crm.Partner) PartnerResponse {
	return PartnerResponse{
		RecordResponse:     s.recordResponse(&p.TenantAggregateRoot, &p.Record),
		PartnerCode:        p.Code,
		CompanyOverview:    toOverviewDTO(p.Overview),
		PartnershipDetails: toPartnershipDTO(p.Partnership),
	}
}
