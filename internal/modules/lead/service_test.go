package lead

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rihla/internal/database"
	"rihla/internal/domain"
	"rihla/internal/modules/distribution"
	"rihla/internal/repository"
)

func setupLeadService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := database.Connect(fmt.Sprintf("file:lead_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	dist := distribution.NewService(db, distribution.DefaultConfig(), nil, zerolog.Nop())
	return NewService(db, dist, zerolog.Nop()), db
}

func seedAgency(t *testing.T, db *gorm.DB) *domain.Provider {
	t.Helper()
	p := &domain.Provider{
		CompanyName:  "Makkah Travel",
		BusinessType: domain.BusinessAgency,
		Verified:     true,
		Active:       true,
	}
	require.NoError(t, repository.NewProviderRepository(db).Create(context.Background(), p))
	return p
}

func validCustomRequest() CreateLeadRequest {
	return CreateLeadRequest{
		Kind:          "custom",
		ContactName:   "Fatima",
		ContactEmail:  "fatima@example.com",
		ContactPhone:  "+77001112233",
		CustomMessage: "need visa and hotel",
	}
}

func TestCreateCustomLeadDistributesInSameCall(t *testing.T) {
	svc, db := setupLeadService(t)
	seedAgency(t, db)

	l, distributed, err := svc.Create(context.Background(), 42, validCustomRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, distributed)
	assert.True(t, l.Distributed)
	assert.Equal(t, domain.LeadPending, l.Status)
	assert.Equal(t, 1, l.PartySize)
	assert.WithinDuration(t, time.Now().Add(domain.LeadTTL), l.ExpiresAt, time.Minute)
}

func TestCreateLeadWithoutProvidersStaysPending(t *testing.T) {
	svc, _ := setupLeadService(t)

	l, distributed, err := svc.Create(context.Background(), 42, validCustomRequest())
	require.NoError(t, err)
	assert.Zero(t, distributed)
	assert.False(t, l.Distributed)
}

func TestCreatePackageLeadRequiresPackageTarget(t *testing.T) {
	svc, _ := setupLeadService(t)

	req := validCustomRequest()
	req.Kind = "package"
	_, _, err := svc.Create(context.Background(), 42, req)
	assert.ErrorIs(t, err, ErrValidation)

	serviceID := int64(3)
	req.ServiceID = &serviceID
	_, _, err = svc.Create(context.Background(), 42, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateCustomLeadRejectsTargets(t *testing.T) {
	svc, _ := setupLeadService(t)

	req := validCustomRequest()
	pkgID := int64(1)
	req.PackageID = &pkgID
	_, _, err := svc.Create(context.Background(), 42, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateLeadDanglingTarget(t *testing.T) {
	svc, _ := setupLeadService(t)

	req := validCustomRequest()
	req.Kind = "package"
	pkgID := int64(999)
	req.PackageID = &pkgID
	_, _, err := svc.Create(context.Background(), 42, req)
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestCreateLeadRejectsPastPreferredDate(t *testing.T) {
	svc, _ := setupLeadService(t)

	req := validCustomRequest()
	yesterday := time.Now().Add(-48 * time.Hour)
	req.PreferredDate = &yesterday
	_, _, err := svc.Create(context.Background(), 42, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateLeadRejectsNegativePartySize(t *testing.T) {
	svc, _ := setupLeadService(t)

	req := validCustomRequest()
	req.PartySize = -2
	_, _, err := svc.Create(context.Background(), 42, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, _ := setupLeadService(t)

	l, _, err := svc.Create(context.Background(), 42, validCustomRequest())
	require.NoError(t, err)

	owner := domain.Actor{UserID: 42, Role: domain.RoleRequester}
	got, err := svc.Get(context.Background(), l.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, l.ID, got.ID)

	stranger := domain.Actor{UserID: 7, Role: domain.RoleRequester}
	_, err = svc.Get(context.Background(), l.ID, stranger)
	assert.ErrorIs(t, err, ErrForbidden)

	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}
	_, err = svc.Get(context.Background(), l.ID, admin)
	assert.NoError(t, err)
}

func TestUpdateStatusForwardOnly(t *testing.T) {
	svc, _ := setupLeadService(t)
	ctx := context.Background()
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	l, _, err := svc.Create(ctx, 42, validCustomRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, l.ID, admin, domain.LeadContacted)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadContacted, updated.Status)

	updated, err = svc.UpdateStatus(ctx, l.ID, admin, domain.LeadConverted)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadConverted, updated.Status)

	_, err = svc.UpdateStatus(ctx, l.ID, admin, domain.LeadContacted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRejectClosesOpenDistributions(t *testing.T) {
	svc, db := setupLeadService(t)
	ctx := context.Background()
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	seedAgency(t, db)
	l, distributed, err := svc.Create(ctx, 42, validCustomRequest())
	require.NoError(t, err)
	require.Equal(t, 1, distributed)

	_, err = svc.UpdateStatus(ctx, l.ID, admin, domain.LeadRejected)
	require.NoError(t, err)

	all, err := repository.NewDistributionRepository(db).ListByLead(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.DistributionIgnored, all[0].Status)
}

func TestListScopesToOwnLeads(t *testing.T) {
	svc, _ := setupLeadService(t)
	ctx := context.Background()

	_, _, err := svc.Create(ctx, 42, validCustomRequest())
	require.NoError(t, err)
	_, _, err = svc.Create(ctx, 7, validCustomRequest())
	require.NoError(t, err)

	own, total, err := svc.List(ctx, domain.Actor{UserID: 42, Role: domain.RoleRequester}, ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, own, 1)
	assert.Equal(t, int64(42), own[0].UserID)

	_, total, err = svc.List(ctx, domain.Actor{UserID: 1, Role: domain.RoleAdmin}, ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestGetStatsRates(t *testing.T) {
	svc, db := setupLeadService(t)
	ctx := context.Background()

	statuses := []domain.LeadStatus{
		domain.LeadPending,
		domain.LeadContacted,
		domain.LeadConverted,
	}
	for _, st := range statuses {
		l, _, err := svc.Create(ctx, 42, validCustomRequest())
		require.NoError(t, err)
		require.NoError(t, db.Model(&domain.Lead{}).Where("id = ?", l.ID).
			UpdateColumn("status", st).Error)
	}

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, 33.33, stats.ConversionRate)
	assert.Equal(t, 66.67, stats.ResponseRate)
}

func TestGetStatsEmpty(t *testing.T) {
	svc, _ := setupLeadService(t)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.ConversionRate)
	assert.Zero(t, stats.ResponseRate)
}
