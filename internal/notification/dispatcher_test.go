package notification

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rihla/internal/database"
	"rihla/internal/domain"
	"rihla/internal/repository"
)

func setupDispatcher(t *testing.T) (*Dispatcher, *gorm.DB) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := database.Connect(fmt.Sprintf("file:notif_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewDispatcher(db, NewHub(), zerolog.Nop(), 8), db
}

func seedAssignment(t *testing.T, db *gorm.DB) (*domain.Provider, *domain.Distribution) {
	t.Helper()
	ctx := context.Background()

	u := &domain.User{Email: "p@example.com", PasswordHash: "x", Role: domain.RoleProvider, Name: "P"}
	require.NoError(t, repository.NewUserRepository(db).Create(ctx, u))

	p := &domain.Provider{UserID: u.ID, CompanyName: "Safa Tours", BusinessType: domain.BusinessAgency, Verified: true, Active: true}
	require.NoError(t, repository.NewProviderRepository(db).Create(ctx, p))

	l := &domain.Lead{
		UserID:       77,
		Kind:         domain.LeadKindCustom,
		ContactName:  "Khadija",
		ContactEmail: "k@example.com",
		ContactPhone: "+77000000000",
		Status:       domain.LeadPending,
	}
	require.NoError(t, repository.NewLeadRepository(db).Create(ctx, l))

	d, _, err := repository.NewDistributionRepository(db).GetOrCreate(ctx, l.ID, p.ID)
	require.NoError(t, err)
	return p, d
}

func TestDeliverAssignmentCreatesNotificationOnce(t *testing.T) {
	disp, db := setupDispatcher(t)
	ctx := context.Background()
	p, d := seedAssignment(t, db)

	disp.process(LeadAssigned(d.ID))

	repo := repository.NewNotificationRepository(db)
	list, err := repo.ListByUser(ctx, p.UserID, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.NotificationLeadAssigned, list[0].Type)

	stored, err := repository.NewDistributionRepository(db).GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, stored.InAppSent)

	// re-delivery is a no-op thanks to the idempotency marker
	disp.process(LeadAssigned(d.ID))
	list, err = repo.ListByUser(ctx, p.UserID, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeliverAssignmentSkipsRolledBackDistribution(t *testing.T) {
	disp, db := setupDispatcher(t)

	disp.process(LeadAssigned("no-such-row"))

	var count int64
	require.NoError(t, db.Model(&domain.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeliverResponseNotifiesLeadOwner(t *testing.T) {
	disp, db := setupDispatcher(t)
	ctx := context.Background()
	_, d := seedAssignment(t, db)

	disp.process(LeadResponded(d.ID))

	repo := repository.NewNotificationRepository(db)
	list, err := repo.ListByUser(ctx, 77, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.NotificationLeadResponded, list[0].Type)
	assert.Contains(t, list[0].Body, "Safa Tours")

	stored, err := repository.NewDistributionRepository(db).GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, stored.ResponseSent)

	// a re-enqueued response event does not duplicate the notification
	disp.process(LeadResponded(d.ID))
	list, err = repo.ListByUser(ctx, 77, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
