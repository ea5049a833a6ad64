package distribution

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rihla/internal/domain"
	"rihla/internal/repository"
)

func seedPremiumPlan(t *testing.T, db *gorm.DB, priority int) *domain.Plan {
	t.Helper()
	plan := &domain.Plan{
		ID:           "plan-" + time.Now().Format("150405.000000000"),
		Name:         "Premium",
		DurationDays: 30,
		Priority:     priority,
		Active:       true,
	}
	require.NoError(t, repository.NewSubscriptionRepository(db).CreatePlan(context.Background(), plan))
	return plan
}

func subscribe(t *testing.T, db *gorm.DB, providerID int64, plan *domain.Plan) {
	t.Helper()
	_, err := repository.NewSubscriptionRepository(db).Subscribe(context.Background(), providerID, plan)
	require.NoError(t, err)
}

func backdateLead(t *testing.T, db *gorm.DB, leadID int64, updatedAt time.Time) {
	t.Helper()
	err := db.Model(&domain.Lead{}).Where("id = ?", leadID).
		UpdateColumn("updated_at", updatedAt).Error
	require.NoError(t, err)
}

func TestSweepExpireClosesStaleLeads(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	ctx := context.Background()

	stale := seedCustomLead(t, svc.db, "old inquiry")
	require.NoError(t, svc.db.Model(&domain.Lead{}).Where("id = ?", stale.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	fresh := seedCustomLead(t, svc.db, "new inquiry")
	require.NoError(t, svc.db.Model(&domain.Lead{}).Where("id = ?", fresh.ID).
		Update("expires_at", time.Now().Add(domain.LeadTTL)).Error)

	n, err := svc.SweepExpire(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := repository.NewLeadRepository(svc.db).GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadExpired, stored.Status)

	kept, err := repository.NewLeadRepository(svc.db).GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadPending, kept.Status)

	// second run finds nothing
	n, err = svc.SweepExpire(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSweepExpireLeavesTerminalLeadsAlone(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	ctx := context.Background()

	l := seedCustomLead(t, svc.db, "converted long ago")
	require.NoError(t, svc.db.Model(&domain.Lead{}).Where("id = ?", l.ID).
		Updates(map[string]any{
			"status":     domain.LeadConverted,
			"expires_at": time.Now().Add(-time.Hour),
		}).Error)

	n, err := svc.SweepExpire(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	stored, err := repository.NewLeadRepository(svc.db).GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadConverted, stored.Status)
}

func TestSweepAssignPremiumRoutesCustomLead(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	ctx := context.Background()

	premium := seedProvider(t, svc.db, domain.BusinessAgency, true)
	seedProvider(t, svc.db, domain.BusinessAgency, false)
	plan := seedPremiumPlan(t, svc.db, 1)
	subscribe(t, svc.db, premium.ID, plan)

	l := seedCustomLead(t, svc.db, "anything")

	n, err := svc.SweepAssignPremium(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := repository.NewLeadRepository(svc.db).GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, stored.Distributed)
	assert.Equal(t, domain.LeadPriorityPremium, stored.Priority)

	all, err := repository.NewDistributionRepository(svc.db).ListByLead(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, premium.ID, all[0].ProviderID)
}

func TestSweepAssignPremiumPackageLeadIsOwnerExclusive(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	ctx := context.Background()

	owner := seedProvider(t, svc.db, domain.BusinessUmrahPackages, true)
	other := seedProvider(t, svc.db, domain.BusinessUmrahPackages, true)
	plan := seedPremiumPlan(t, svc.db, 2)
	subscribe(t, svc.db, owner.ID, plan)
	subscribe(t, svc.db, other.ID, plan)

	l := seedPackageLead(t, svc.db, owner.ID)

	n, err := svc.SweepAssignPremium(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := repository.NewDistributionRepository(svc.db).ListByLead(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, owner.ID, all[0].ProviderID)
}

func TestSweepAssignPremiumIgnoresBasicPlans(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	ctx := context.Background()

	basic := seedProvider(t, svc.db, domain.BusinessAgency, true)
	plan := seedPremiumPlan(t, svc.db, 0)
	subscribe(t, svc.db, basic.ID, plan)

	l := seedCustomLead(t, svc.db, "anything")

	n, err := svc.SweepAssignPremium(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	stored, err := repository.NewLeadRepository(svc.db).GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, stored.Distributed)
}

func TestSweepFollowUpRemindersFireOnce(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	ctx := context.Background()

	now := time.Now()
	due := time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, now.Location())
	i := &domain.Interaction{
		ProviderID: 1,
		LeadID:     1,
		Kind:       domain.InteractionCall,
		FollowUpAt: &due,
	}
	require.NoError(t, repository.NewCRMRepository(svc.db).CreateInteraction(ctx, i))

	tomorrow := time.Now().Add(48 * time.Hour)
	later := &domain.Interaction{
		ProviderID: 1,
		LeadID:     2,
		Kind:       domain.InteractionEmail,
		FollowUpAt: &tomorrow,
	}
	require.NoError(t, repository.NewCRMRepository(svc.db).CreateInteraction(ctx, later))

	n, err := svc.SweepFollowUpReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = svc.SweepFollowUpReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSweepRetentionCleanupRemovesOldTerminalLeads(t *testing.T) {
	svc := setupService(t, DefaultConfig())
	ctx := context.Background()

	seedProvider(t, svc.db, domain.BusinessAgency, true)
	l := seedCustomLead(t, svc.db, "ancient lead")
	_, err := svc.AutoDistribute(ctx, svc.db, l)
	require.NoError(t, err)

	require.NoError(t, svc.db.Model(&domain.Lead{}).Where("id = ?", l.ID).
		UpdateColumn("status", domain.LeadRejected).Error)
	backdateLead(t, svc.db, l.ID, time.Now().Add(-RetentionPeriod-24*time.Hour))

	recent := seedCustomLead(t, svc.db, "recent rejected")
	require.NoError(t, svc.db.Model(&domain.Lead{}).Where("id = ?", recent.ID).
		UpdateColumn("status", domain.LeadRejected).Error)

	n, err := svc.SweepRetentionCleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repository.NewLeadRepository(svc.db).GetByID(ctx, l.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	ids, err := repository.NewDistributionRepository(svc.db).ProviderIDsForLead(ctx, l.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = repository.NewLeadRepository(svc.db).GetByID(ctx, recent.ID)
	assert.NoError(t, err)
}
