package distribution

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rihla/internal/database"
	"rihla/internal/domain"
	"rihla/internal/repository"
)

func setupService(t *testing.T, cfg Config) *Service {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := database.Connect(fmt.Sprintf("file:dist_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewService(db, cfg, nil, zerolog.Nop())
}

// seedUserID hands out distinct user IDs so seeded providers satisfy the
// unique index on providers.user_id.
var seedUserID atomic.Int64

func seedProvider(t *testing.T, db *gorm.DB, businessType domain.BusinessType, verified bool, mutate ...func(*domain.Provider)) *domain.Provider {
	t.Helper()
	p := &domain.Provider{
		UserID:       seedUserID.Add(1),
		CompanyName:  "test provider",
		BusinessType: businessType,
		Verified:     verified,
		Active:       true,
	}
	for _, m := range mutate {
		m(p)
	}
	require.NoError(t, repository.NewProviderRepository(db).Create(context.Background(), p))
	return p
}

func seedPackageLead(t *testing.T, db *gorm.DB, ownerID int64) *domain.Lead {
	t.Helper()
	pkg := &domain.UmrahPackage{ProviderID: ownerID, Name: "Ramadan Umrah", Active: true}
	require.NoError(t, repository.NewCatalogRepository(db).CreatePackage(context.Background(), pkg))

	l := &domain.Lead{
		Kind:         domain.LeadKindPackage,
		PackageID:    &pkg.ID,
		ContactName:  "Aisha",
		ContactEmail: "aisha@example.com",
		ContactPhone: "+77001234567",
		Status:       domain.LeadPending,
	}
	require.NoError(t, repository.NewLeadRepository(db).Create(context.Background(), l))
	return l
}

func seedCustomLead(t *testing.T, db *gorm.DB, message string) *domain.Lead {
	t.Helper()
	l := &domain.Lead{
		Kind:          domain.LeadKindCustom,
		ContactName:   "Omar",
		ContactEmail:  "omar@example.com",
		ContactPhone:  "+77007654321",
		CustomMessage: message,
		Status:        domain.LeadPending,
	}
	require.NoError(t, repository.NewLeadRepository(db).Create(context.Background(), l))
	return l
}

func TestAutoDistributePackageLeadReachesOwner(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	ctx := context.Background()

	owner := seedProvider(t, svc.db, domain.BusinessUmrahPackages, true)
	seedProvider(t, svc.db, domain.BusinessLaundry, true)
	l := seedPackageLead(t, svc.db, owner.ID)

	created, err := svc.AutoDistribute(ctx, svc.db, l)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, owner.ID, created[0].ProviderID)
	assert.Equal(t, domain.DistributionSent, created[0].Status)

	stored, err := repository.NewLeadRepository(svc.db).GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, stored.Distributed)
	require.NotNil(t, stored.DistributedAt)
}

func TestAutoDistributeSkipsUnverifiedProviders(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	ctx := context.Background()

	seedProvider(t, svc.db, domain.BusinessAgency, false)
	verified := seedProvider(t, svc.db, domain.BusinessAgency, true)
	l := seedCustomLead(t, svc.db, "anything at all")

	created, err := svc.AutoDistribute(ctx, svc.db, l)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, verified.ID, created[0].ProviderID)
}

func TestAutoDistributeNoCandidatesLeavesLeadUndistributed(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	ctx := context.Background()

	l := seedCustomLead(t, svc.db, "need a good hotel")

	created, err := svc.AutoDistribute(ctx, svc.db, l)
	require.NoError(t, err)
	assert.Empty(t, created)

	stored, err := repository.NewLeadRepository(svc.db).GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, stored.Distributed)
}

func TestDistributeIsIdempotentPerProviderPair(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	ctx := context.Background()

	seedProvider(t, svc.db, domain.BusinessHotels, true)
	l := seedCustomLead(t, svc.db, "hotel near haram")

	first, err := svc.AutoDistribute(ctx, svc.db, l)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Redistribute(ctx, l.ID)
	require.NoError(t, err)
	assert.Empty(t, second)

	all, err := repository.NewDistributionRepository(svc.db).ListByLead(ctx, l.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDistributeExplicitUnknownProviders(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	l := seedCustomLead(t, svc.db, "anything")

	_, err := svc.Distribute(context.Background(), l.ID, Selector{ProviderIDs: []int64{404}}, 0, false)

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "404")
}

func TestDistributeExplicitIneligibleProviders(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	unverified := seedProvider(t, svc.db, domain.BusinessVisa, false)
	l := seedCustomLead(t, svc.db, "visa help")

	_, err := svc.Distribute(context.Background(), l.ID, Selector{ProviderIDs: []int64{unverified.ID}}, 0, false)

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "not verified or inactive")
}

func TestDistributeStrictConflictWhenAllAlreadyHeld(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	ctx := context.Background()

	p := seedProvider(t, svc.db, domain.BusinessTransport, true)
	l := seedCustomLead(t, svc.db, "airport transport")

	created, err := svc.Distribute(ctx, l.ID, Selector{ProviderIDs: []int64{p.ID}}, 0, false)
	require.NoError(t, err)
	require.Len(t, created, 1)

	_, err = svc.Distribute(ctx, l.ID, Selector{ProviderIDs: []int64{p.ID}}, 0, true)
	assert.ErrorIs(t, err, ErrAlreadyDistributed)

	// non-strict re-run is a quiet no-op
	again, err := svc.Distribute(ctx, l.ID, Selector{ProviderIDs: []int64{p.ID}}, 0, false)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestDistributeByBusinessTypeRejectsUnknownType(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	l := seedCustomLead(t, svc.db, "anything")

	_, err := svc.Distribute(context.Background(), l.ID, Selector{BusinessTypes: []domain.BusinessType{"plumbing"}}, 0, false)

	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestRedistributeCreatesOnlyTheDelta(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxProviders = 2
	svc := setupService(t, cfg)
	ctx := context.Background()

	seedProvider(t, svc.db, domain.BusinessAgency, true)
	seedProvider(t, svc.db, domain.BusinessAgency, true)
	l := seedCustomLead(t, svc.db, "full trip please")

	first, err := svc.AutoDistribute(ctx, svc.db, l)
	require.NoError(t, err)
	require.Len(t, first, 2)

	late := seedProvider(t, svc.db, domain.BusinessAgency, true)

	delta, err := svc.Redistribute(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, delta, 1)
	assert.Equal(t, late.ID, delta[0].ProviderID)
}

func TestDistributeTruncatesToMaxProviders(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxProviders = 3
	svc := setupService(t, cfg)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		rating := float64(i)
		seedProvider(t, svc.db, domain.BusinessAgency, true, func(p *domain.Provider) {
			p.Rating = rating
		})
	}
	l := seedCustomLead(t, svc.db, "anything")

	created, err := svc.AutoDistribute(ctx, svc.db, l)
	require.NoError(t, err)
	assert.Len(t, created, 3)
}

func TestDistributeUnknownLead(t *testing.T) {
	svc := setupService(t, DefaultConfig())

	_, err := svc.Distribute(context.Background(), 9999, Selector{}, 0, false)

	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestDistributeSubscribedOnlyGatesOnActiveSubscription(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	ctx := context.Background()

	subscribed := seedProvider(t, svc.db, domain.BusinessAgency, true)
	seedProvider(t, svc.db, domain.BusinessAgency, true) // no subscription
	lapsed := seedProvider(t, svc.db, domain.BusinessAgency, true)

	plan := seedPremiumPlan(t, svc.db, 0)
	subscribe(t, svc.db, subscribed.ID, plan)
	subscribe(t, svc.db, lapsed.ID, plan)
	require.NoError(t, svc.db.Model(&domain.Subscription{}).
		Where("provider_id = ?", lapsed.ID).
		UpdateColumn("expires_at", time.Now().Add(-time.Hour)).Error)

	l := seedCustomLead(t, svc.db, "anything at all")
	sel := Selector{
		BusinessTypes:  []domain.BusinessType{domain.BusinessAgency},
		SubscribedOnly: true,
	}

	created, err := svc.Distribute(ctx, l.ID, sel, 0, false)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, subscribed.ID, created[0].ProviderID)

	// without the gate the remaining eligible providers are reached too
	delta, err := svc.Distribute(ctx, l.ID, Selector{
		BusinessTypes: []domain.BusinessType{domain.BusinessAgency},
	}, 0, false)
	require.NoError(t, err)
	assert.Len(t, delta, 2)
}
