package deal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	filefolderapp "github.com/ventureflow/backend/internal/application/filefolder"
	"github.com/ventureflow/backend/internal/domain/crm"
	"github.com/ventureflow/backend/internal/domain/deal"
	"github.com/ventureflow/backend/internal/domain/filefolder"
	"github.com/ventureflow/backend/internal/domain/organization"
	"github.com/ventureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// =============================================================================
// Mocks
// =============================================================================

type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*deal.Deal, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deal.Deal), args.Error(1)
}

func (m *MockDealRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]deal.Deal, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]deal.Deal), args.Get(1).(int64), args.Error(2)
}

func (m *MockDealRepository) FindByStages(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]deal.Deal, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]deal.Deal), args.Error(1)
}

func (m *MockDealRepository) CountByStage(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]deal.PipelineColumn, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]deal.PipelineColumn), args.Error(1)
}

func (m *MockDealRepository) NextSequence(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDealRepository) Save(ctx context.Context, d *deal.Deal) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDealRepository) SaveWithHistory(ctx context.Context, d *deal.Deal, entry *deal.StageHistory) error {
	return m.Called(ctx, d, entry).Error(0)
}

func (m *MockDealRepository) History(ctx context.Context, tenantID, dealID uuid.UUID) ([]deal.StageHistory, error) {
	args := m.Called(ctx, tenantID, dealID)
	return args.Get(0).([]deal.StageHistory), args.Error(1)
}

func (m *MockDealRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type buyerDirectory struct {
	crm.BuyerRepository
	known map[uuid.UUID]bool
}

func (d *buyerDirectory) FindByID(_ context.Context, _, id uuid.UUID) (*crm.Buyer, error) {
	if d.known[id] {
		return &crm.Buyer{}, nil
	}
	return nil, shared.ErrNotFound
}

type sellerDirectory struct {
	crm.SellerRepository
	known map[uuid.UUID]bool
}

func (d *sellerDirectory) FindByID(_ context.Context, _, id uuid.UUID) (*crm.Seller, error) {
	if d.known[id] {
		return &crm.Seller{}, nil
	}
	return nil, shared.ErrNotFound
}

type partnerDirectory struct {
	crm.PartnerRepository
}

func (d *partnerDirectory) FindByID(context.Context, uuid.UUID, uuid.UUID) (*crm.Partner, error) {
	return nil, errors.New("partner store offline")
}

type employeeDirectory struct {
	organization.EmployeeRepository
	known map[uuid.UUID]bool
}

func (d *employeeDirectory) FindByID(_ context.Context, _, id uuid.UUID) (*organization.Employee, error) {
	if d.known[id] {
		return &organization.Employee{}, nil
	}
	return nil, shared.ErrNotFound
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type fakeDocuments struct {
	ownerType filefolder.OwnerType
	ownerID   uuid.UUID
}

func (f *fakeDocuments) StoreForOwner(_ context.Context, _, _ uuid.UUID, ownerType filefolder.OwnerType, ownerID uuid.UUID, up filefolderapp.Upload) (*filefolderapp.FileResponse, error) {
	f.ownerType, f.ownerID = ownerType, ownerID
	return &filefolderapp.FileResponse{ID: uuid.New(), OriginalName: up.FileName, Size: up.Size}, nil
}

type fixture struct {
	repo      *MockDealRepository
	buyers    *buyerDirectory
	sellers   *sellerDirectory
	employees *employeeDirectory
	events    *recordingPublisher
	documents *fakeDocuments
	svc       *Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:      new(MockDealRepository),
		buyers:    &buyerDirectory{known: map[uuid.UUID]bool{}},
		sellers:   &sellerDirectory{known: map[uuid.UUID]bool{}},
		employees: &employeeDirectory{known: map[uuid.UUID]bool{}},
		events:    &recordingPublisher{},
		documents: &fakeDocuments{},
	}
	f.svc = NewService(Dependencies{
		Deals:     f.repo,
		Buyers:    f.buyers,
		Sellers:   f.sellers,
		Partners:  &partnerDirectory{},
		Employees: f.employees,
		Documents: f.documents,
		Events:    f.events,
		Logger:    zap.NewNop(),
	})
	return f
}

func newTestDeal(t *testing.T, tenantID uuid.UUID, stage deal.StageCode) *deal.Deal {
	t.Helper()
	d, err := deal.NewDeal(tenantID, 1, stage, deal.Input{Name: "Project Atlas"})
	require.NoError(t, err)
	return d
}

// =============================================================================
// Tests
// =============================================================================

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()
	f := newFixture()
	buyerID, picID := uuid.New(), uuid.New()
	f.buyers.known[buyerID] = true
	f.employees.known[picID] = true
	value := decimal.NewFromInt(25_000_000)

	f.repo.On("NextSequence", ctx, tenantID).Return(int64(12), nil)
	f.repo.On("Save", ctx, mock.AnythingOfType("*deal.Deal")).Return(nil)

	resp, err := f.svc.Create(ctx, tenantID, userID, DealRequest{
		Name:              " Project Atlas ",
		BuyerID:           &buyerID,
		PICID:             &picID,
		EstimatedValue:    &value,
		ExpectedCloseDate: "2026-12-31",
	})
	require.NoError(t, err)

	assert.Equal(t, "DL-00012", resp.DealCode)
	assert.Equal(t, "Project Atlas", resp.Name)
	assert.Equal(t, "K", resp.StageCode)
	assert.Equal(t, "Lead Identified", resp.StageName)
	assert.Equal(t, 5, resp.ProgressPercent)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "medium", resp.Priority)
	require.NotNil(t, resp.ExpectedCloseDate)
	assert.Equal(t, "2026-12-31", *resp.ExpectedCloseDate)
	assert.Empty(t, f.events.events)
	f.repo.AssertNotCalled(t, "SaveWithHistory", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Create_AtStage(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()
	f.repo.On("NextSequence", ctx, tenantID).Return(int64(1), nil)
	f.repo.On("Save", ctx, mock.AnythingOfType("*deal.Deal")).Return(nil)

	resp, err := f.svc.Create(ctx, tenantID, uuid.New(), DealRequest{Name: "Vega", StageCode: "d"})
	require.NoError(t, err)
	assert.Equal(t, "D", resp.StageCode)
	assert.Equal(t, 70, resp.ProgressPercent)
}

func TestService_Create_InvalidReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	sellerID, picID := uuid.New(), uuid.New()

	_, err := f.svc.Create(ctx, uuid.New(), uuid.New(), DealRequest{Name: "Vega", SellerID: &sellerID, PICID: &picID, StageCode: "Z"})
	require.Error(t, err)
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := []string{}
	for _, fe := range verr.Fields {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"seller_id", "pic_id"}, fields)
	f.repo.AssertNotCalled(t, "NextSequence", mock.Anything, mock.Anything)
}

func TestService_Create_ReferenceLookupFails(t *testing.T) {
	f := newFixture()
	partnerID := uuid.New()
	_, err := f.svc.Create(context.Background(), uuid.New(), uuid.New(), DealRequest{Name: "Vega", PartnerID: &partnerID})
	assert.EqualError(t, err, "partner store offline")
}

func TestService_ChangeStage(t *testing.T) {
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()
	f := newFixture()
	d := newTestDeal(t, tenantID, deal.StageK)

	var saved *deal.StageHistory
	f.repo.On("FindByID", ctx, tenantID, d.ID).Return(d, nil)
	f.repo.On("SaveWithHistory", ctx, d, mock.AnythingOfType("*deal.StageHistory")).
		Run(func(args mock.Arguments) { saved = args.Get(2).(*deal.StageHistory) }).
		Return(nil)

	resp, err := f.svc.ChangeStage(ctx, tenantID, userID, d.ID, ChangeStageRequest{StageCode: "e"})
	require.NoError(t, err)

	assert.True(t, resp.Changed)
	assert.Equal(t, "E", resp.Deal.StageCode)
	assert.Equal(t, 60, resp.Deal.ProgressPercent)
	require.NotNil(t, saved)
	assert.Equal(t, deal.StageK, saved.FromStage)
	assert.Equal(t, deal.StageE, saved.ToStage)
	assert.Equal(t, &userID, saved.ChangedBy)
	require.NotNil(t, resp.History)
	assert.Equal(t, "Indicative Offer (LOI)", resp.History.ToStageName)

	require.Len(t, f.events.events, 1)
	evt, ok := f.events.events[0].(*deal.DealStageChangedEvent)
	require.True(t, ok)
	assert.Equal(t, deal.EventTypeDealStageChanged, evt.EventType())
	assert.Equal(t, deal.StageK, evt.FromStage)
	assert.Equal(t, deal.StageE, evt.ToStage)
	assert.Equal(t, tenantID, evt.TenantID())
	assert.Empty(t, d.GetDomainEvents())
}

func TestService_ChangeStage_Backwards(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()
	d := newTestDeal(t, tenantID, deal.StageB)

	f.repo.On("FindByID", ctx, tenantID, d.ID).Return(d, nil)
	f.repo.On("SaveWithHistory", ctx, d, mock.Anything).Return(nil)

	resp, err := f.svc.ChangeStage(ctx, tenantID, uuid.New(), d.ID, ChangeStageRequest{StageCode: "J"})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Deal.ProgressPercent)
	assert.Len(t, f.events.events, 1)
}

func TestService_ChangeStage_SameStageIsNoop(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()
	d := newTestDeal(t, tenantID, deal.StageG)
	f.repo.On("FindByID", ctx, tenantID, d.ID).Return(d, nil)

	resp, err := f.svc.ChangeStage(ctx, tenantID, uuid.New(), d.ID, ChangeStageRequest{StageCode: "G"})
	require.NoError(t, err)
	assert.False(t, resp.Changed)
	assert.Nil(t, resp.History)
	assert.Empty(t, f.events.events)
	f.repo.AssertNotCalled(t, "SaveWithHistory", mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_ChangeStage_UnknownCode(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ChangeStage(context.Background(), uuid.New(), uuid.New(), uuid.New(), ChangeStageRequest{StageCode: "Q"})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stage_code", verr.Fields[0].Field)
	f.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_ChangeStage_SaveFailsPublishesNothing(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()
	d := newTestDeal(t, tenantID, deal.StageK)
	f.repo.On("FindByID", ctx, tenantID, d.ID).Return(d, nil)
	f.repo.On("SaveWithHistory", ctx, d, mock.Anything).Return(errors.New("deadlock"))

	_, err := f.svc.ChangeStage(ctx, tenantID, uuid.New(), d.ID, ChangeStageRequest{StageCode: "A"})
	assert.EqualError(t, err, "deadlock")
	assert.Empty(t, f.events.events)
	assert.Empty(t, d.GetDomainEvents())
}

func TestService_Update_WithStage(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()
	d := newTestDeal(t, tenantID, deal.StageI)
	f.repo.On("FindByID", ctx, tenantID, d.ID).Return(d, nil)
	f.repo.On("SaveWithHistory", ctx, d, mock.Anything).Return(nil)

	resp, err := f.svc.Update(ctx, tenantID, uuid.New(), d.ID, DealRequest{Name: "Atlas II", StageCode: "H", Priority: "high"})
	require.NoError(t, err)
	assert.Equal(t, "Atlas II", resp.Name)
	assert.Equal(t, "H", resp.StageCode)
	assert.Equal(t, 30, resp.ProgressPercent)
	assert.Equal(t, "high", resp.Priority)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, "Atlas II", f.events.events[0].(*deal.DealStageChangedEvent).DealName)
}

func TestService_Update_WithoutStage(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()
	d := newTestDeal(t, tenantID, deal.StageI)
	f.repo.On("FindByID", ctx, tenantID, d.ID).Return(d, nil)
	f.repo.On("Save", ctx, d).Return(nil)

	for _, stage := range []string{"", "I"} {
		resp, err := f.svc.Update(ctx, tenantID, uuid.New(), d.ID, DealRequest{Name: "Atlas", StageCode: stage})
		require.NoError(t, err)
		assert.Equal(t, "I", resp.StageCode)
	}
	assert.Empty(t, f.events.events)
	f.repo.AssertNumberOfCalls(t, "Save", 2)
}

func TestService_Pipeline(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()
	k1, k2 := newTestDeal(t, tenantID, deal.StageK), newTestDeal(t, tenantID, deal.StageK)
	a := newTestDeal(t, tenantID, deal.StageA)

	f.repo.On("CountByStage", ctx, tenantID, mock.AnythingOfType("shared.Filter")).Return([]deal.PipelineColumn{
		{StageCode: deal.StageK, Count: 2},
		{StageCode: deal.StageA, Count: 1},
	}, nil)
	f.repo.On("FindByStages", ctx, tenantID, mock.AnythingOfType("shared.Filter")).Return([]deal.Deal{*k1, *a, *k2}, nil)

	board, err := f.svc.Pipeline(ctx, tenantID, ListQuery{})
	require.NoError(t, err)
	require.Len(t, board.Stages, 11)
	assert.Equal(t, int64(3), board.Total)
	assert.Equal(t, deal.StageK, board.Stages[0].Code)
	assert.Equal(t, int64(2), board.Stages[0].Count)
	assert.Len(t, board.Stages[0].Deals, 2)
	assert.Equal(t, int64(0), board.Stages[1].Count)
	assert.NotNil(t, board.Stages[1].Deals)
	assert.Equal(t, deal.StageA, board.Stages[10].Code)
	assert.Equal(t, 100, board.Stages[10].Progress)
	assert.Len(t, board.Stages[10].Deals, 1)
}

func TestService_List_Filters(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()
	picID := uuid.New()

	f.repo.On("FindAll", ctx, tenantID, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Page == 2 &&
			filter.Search == "atlas" &&
			filter.Filters["stage_code"] == deal.StageC &&
			filter.Filters["status"] == deal.StatusOnHold &&
			filter.Filters["pic_id"] == picID
	})).Return([]deal.Deal{}, int64(11), nil)

	page, err := f.svc.List(ctx, tenantID, ListQuery{Search: " atlas ", Stage: "c", Status: "on_hold", PICID: picID.String(), Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, page.LastPage)
	assert.Empty(t, page.Items)

	_, err = f.svc.List(ctx, tenantID, ListQuery{Stage: "X"})
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stage", verr.Fields[0].Field)

	_, err = f.svc.List(ctx, tenantID, ListQuery{Status: "bogus"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Fields[0].Field)
	f.repo.AssertNumberOfCalls(t, "FindAll", 1)
}

func TestService_Create_CodeTakenConcurrently(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()

	f.repo.On("NextSequence", ctx, tenantID).Return(int64(12), nil).Once()
	f.repo.On("NextSequence", ctx, tenantID).Return(int64(13), nil).Once()
	f.repo.On("Save", ctx, mock.AnythingOfType("*deal.Deal")).Return(shared.ErrAlreadyExists).Once()
	f.repo.On("Save", ctx, mock.AnythingOfType("*deal.Deal")).Return(nil).Once()

	resp, err := f.svc.Create(ctx, tenantID, uuid.New(), DealRequest{Name: "Project Atlas"})
	require.NoError(t, err)
	assert.Equal(t, "DL-00013", resp.DealCode)
	f.repo.AssertExpectations(t)
}

func TestService_History(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()
	d := newTestDeal(t, tenantID, deal.StageF)
	rows := []deal.StageHistory{
		*deal.NewStageHistory(tenantID, d.ID, deal.StageG, deal.StageF, uuid.New()),
		*deal.NewStageHistory(tenantID, d.ID, deal.StageK, deal.StageG, uuid.Nil),
	}
	f.repo.On("FindByID", ctx, tenantID, d.ID).Return(d, nil)
	f.repo.On("History", ctx, tenantID, d.ID).Return(rows, nil)

	out, err := f.svc.History(ctx, tenantID, d.ID)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "F", out[0].ToStage)
	assert.Equal(t, "Management Meeting", out[0].ToStageName)
	assert.Nil(t, out[1].ChangedBy)
}

func TestService_History_UnknownDeal(t *testing.T) {
	ctx := context.Background()
	tenantID, id := uuid.New(), uuid.New()
	f := newFixture()
	f.repo.On("FindByID", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

	_, err := f.svc.History(ctx, tenantID, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	f.repo.AssertNotCalled(t, "History", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UploadDocument(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()
	d := newTestDeal(t, tenantID, deal.StageD)
	f.repo.On("FindByID", ctx, tenantID, d.ID).Return(d, nil)

	file, err := f.svc.UploadDocument(ctx, tenantID, uuid.New(), d.ID, filefolderapp.Upload{
		FileName: "spa-draft.pdf", ContentType: "application/pdf", Size: 3, Body: strings.NewReader("pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, "spa-draft.pdf", file.OriginalName)
	assert.Equal(t, filefolder.OwnerDeal, f.documents.ownerType)
	assert.Equal(t, d.ID, f.documents.ownerID)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	f := newFixture()
	d := newTestDeal(t, tenantID, deal.StageK)
	f.repo.On("FindByID", ctx, tenantID, d.ID).Return(d, nil)
	f.repo.On("Delete", ctx, tenantID, d.ID).Return(nil)

	require.NoError(t, f.svc.Delete(ctx, tenantID, d.ID))
	f.repo.AssertExpectations(t)
}
