package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ventureflow/backend/internal/domain/deal"
	"github.com/ventureflow/backend/internal/domain/identity"
	"github.com/ventureflow/backend/internal/domain/notification"
	"github.com/ventureflow/backend/internal/domain/organization"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/cache"
	"github.com/ventureflow/backend/internal/infrastructure/event"
	"go.uber.org/zap"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindForUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]notification.Notification, int64, error) {
	args := m.Called(ctx, tenantID, userID, filter)
	return args.Get(0).([]notification.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) SaveBatch(ctx context.Context, items []*notification.Notification) error {
	return m.Called(ctx, items).Error(0)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, tenantID, userID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, userID, id).Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Get(0).(int64), args.Error(1)
}

type userDirectory struct {
	identity.UserRepository
	admins []uuid.UUID
	err    error
}

func (d *userDirectory) FindIDsByRole(_ context.Context, _ uuid.UUID, role identity.Role) ([]uuid.UUID, error) {
	if role != identity.RoleAdmin {
		return nil, nil
	}
	return d.admins, d.err
}

type employeeDirectory struct {
	organization.EmployeeRepository
	byID map[uuid.UUID]*organization.Employee
}

func (d *employeeDirectory) FindByID(_ context.Context, _, id uuid.UUID) (*organization.Employee, error) {
	if e, ok := d.byID[id]; ok {
		return e, nil
	}
	return nil, shared.ErrNotFound
}

func stageChanged(t *testing.T, tenantID uuid.UUID, picID *uuid.UUID) *deal.DealStageChangedEvent {
	t.Helper()
	d, err := deal.NewDeal(tenantID, 4, deal.StageK, deal.Input{Name: "Project Atlas", PICID: picID})
	require.NoError(t, err)
	_, err = d.ChangeStage(deal.StageI, uuid.New())
	require.NoError(t, err)
	events := d.GetDomainEvents()
	require.Len(t, events, 1)
	return events[0].(*deal.DealStageChangedEvent)
}

func capture(repo *MockNotificationRepository, into *[]*notification.Notification) {
	repo.On("SaveBatch", mock.Anything, mock.AnythingOfType("[]*notification.Notification")).
		Run(func(args mock.Arguments) {
			*into = append(*into, args.Get(1).([]*notification.Notification)...)
		}).
		Return(nil)
}

func TestDealStageChangedHandler_NotifiesAdminsAndPIC(t *testing.T) {
	tenantID := uuid.New()
	adminA, adminB, picUser := uuid.New(), uuid.New(), uuid.New()
	picID := uuid.New()
	repo := new(MockNotificationRepository)
	var saved []*notification.Notification
	capture(repo, &saved)

	h := NewDealStageChangedHandler(repo,
		&userDirectory{admins: []uuid.UUID{adminA, adminB}},
		&employeeDirectory{byID: map[uuid.UUID]*organization.Employee{picID: {UserID: &picUser}}},
		zap.NewNop())
	assert.Equal(t, []string{"deal.stage_changed"}, h.EventTypes())

	evt := stageChanged(t, tenantID, &picID)
	require.NoError(t, h.Handle(context.Background(), evt))

	require.Len(t, saved, 3)
	got := []uuid.UUID{saved[0].UserID, saved[1].UserID, saved[2].UserID}
	assert.Equal(t, []uuid.UUID{adminA, adminB, picUser}, got)
	n := saved[0]
	assert.Equal(t, tenantID, n.TenantID)
	assert.Equal(t, notification.TypeDealStageChanged, n.Type)
	assert.Equal(t, "DL-00004 moved to NDA Signed", n.Title)
	assert.Equal(t, "Project Atlas moved from Lead Identified (K) to NDA Signed (I), 20% complete", n.Message)
	assert.Equal(t, "K", n.Data["from_stage"])
	assert.Equal(t, "I", n.Data["to_stage"])
	assert.Equal(t, 20, n.Data["progress_percent"])
	assert.Equal(t, evt.AggregateID().String(), n.Data["deal_id"])
}

func TestDealStageChangedHandler_DeduplicatesAdminPIC(t *testing.T) {
	admin := uuid.New()
	picID := uuid.New()
	repo := new(MockNotificationRepository)
	var saved []*notification.Notification
	capture(repo, &saved)

	h := NewDealStageChangedHandler(repo,
		&userDirectory{admins: []uuid.UUID{admin, admin}},
		&employeeDirectory{byID: map[uuid.UUID]*organization.Employee{picID: {UserID: &admin}}},
		zap.NewNop())

	require.NoError(t, h.Handle(context.Background(), stageChanged(t, uuid.New(), &picID)))
	require.Len(t, saved, 1)
	assert.Equal(t, admin, saved[0].UserID)
}

func TestDealStageChangedHandler_PICWithoutAccount(t *testing.T) {
	admin := uuid.New()
	withoutAccount, deleted := uuid.New(), uuid.New()
	employees := &employeeDirectory{byID: map[uuid.UUID]*organization.Employee{withoutAccount: {}}}

	for _, picID := range []uuid.UUID{withoutAccount, deleted} {
		repo := new(MockNotificationRepository)
		var saved []*notification.Notification
		capture(repo, &saved)
		h := NewDealStageChangedHandler(repo, &userDirectory{admins: []uuid.UUID{admin}}, employees, zap.NewNop())

		id := picID
		require.NoError(t, h.Handle(context.Background(), stageChanged(t, uuid.New(), &id)))
		require.Len(t, saved, 1)
		assert.Equal(t, admin, saved[0].UserID)
	}
}

func TestDealStageChangedHandler_NoRecipients(t *testing.T) {
	repo := new(MockNotificationRepository)
	h := NewDealStageChangedHandler(repo, &userDirectory{}, &employeeDirectory{}, zap.NewNop())

	require.NoError(t, h.Handle(context.Background(), stageChanged(t, uuid.New(), nil)))
	repo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
}

func TestDealStageChangedHandler_Errors(t *testing.T) {
	repo := new(MockNotificationRepository)
	h := NewDealStageChangedHandler(repo, &userDirectory{err: errors.New("users offline")}, &employeeDirectory{}, zap.NewNop())
	assert.EqualError(t, h.Handle(context.Background(), stageChanged(t, uuid.New(), nil)), "users offline")

	other := shared.NewEventEnvelope("deal.created", deal.AggregateType, uuid.New(), uuid.New())
	assert.Error(t, h.Handle(context.Background(), &other))
}

func TestDealStageChangedHandler_IdempotentPerEvent(t *testing.T) {
	admin := uuid.New()
	repo := new(MockNotificationRepository)
	var saved []*notification.Notification
	capture(repo, &saved)

	inner := NewDealStageChangedHandler(repo, &userDirectory{admins: []uuid.UUID{admin}}, &employeeDirectory{}, zap.NewNop())
	h := event.NewIdempotentHandler(inner, cache.NewInMemoryIdempotencyStore(), time.Hour, zap.NewNop())

	evt := stageChanged(t, uuid.New(), nil)
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), evt))
	require.NoError(t, h.Handle(context.Background(), stageChanged(t, uuid.New(), nil)))

	assert.Len(t, saved, 2)
	assert.Equal(t, int64(1), h.Stats().Duplicates)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	tenantID, userID := uuid.New(), uuid.New()
	repo := new(MockNotificationRepository)
	svc := NewService(repo, zap.NewNop())

	n, err := notification.New(tenantID, userID, notification.TypeDealStageChanged, "DL-00001 moved", "", nil)
	require.NoError(t, err)
	repo.On("FindForUser", ctx, tenantID, userID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.Filters["unread_only"] == true
	})).Return([]notification.Notification{*n}, int64(1), nil)

	page, err := svc.List(ctx, tenantID, userID, ListQuery{UnreadOnly: true, Page: -3})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.False(t, page.Items[0].IsRead)
	assert.Equal(t, "deal_stage_changed", page.Items[0].Type)
	assert.Equal(t, 1, page.LastPage)
}

func TestService_ReadState(t *testing.T) {
	ctx := context.Background()
	tenantID, userID, id := uuid.New(), uuid.New(), uuid.New()
	repo := new(MockNotificationRepository)
	svc := NewService(repo, zap.NewNop())

	repo.On("CountUnread", ctx, tenantID, userID).Return(int64(4), nil)
	repo.On("MarkRead", ctx, tenantID, userID, id).Return(shared.ErrNotFound)
	repo.On("MarkAllRead", ctx, tenantID, userID).Return(int64(4), nil)

	count, err := svc.UnreadCount(ctx, tenantID, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count.Count)

	assert.ErrorIs(t, svc.MarkRead(ctx, tenantID, userID, id), shared.ErrNotFound)

	all, err := svc.MarkAllRead(ctx, tenantID, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), all.Updated)
}
