package distribution

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rihla/internal/domain"
	"rihla/internal/repository"
)

// Selector names the candidate source for one distribution pass.
// Precedence: explicit provider ids, then explicit business types, then
// auto-classification of the lead's content. SubscribedOnly narrows the
// type-matched paths to providers holding an active subscription;
// explicit ids are taken as-is.
type Selector struct {
	ProviderIDs    []int64
	BusinessTypes  []domain.BusinessType
	SubscribedOnly bool
}

func (s Selector) auto() bool {
	return len(s.ProviderIDs) == 0 && len(s.BusinessTypes) == 0
}

// resolveCandidates produces the eligible provider set for a lead,
// excluding providers already holding a delivery record. An empty result
// is not an error; the caller records zero distributions.
func (s *Service) resolveCandidates(ctx context.Context, tx *gorm.DB, l *domain.Lead, sel Selector, excluded []int64) ([]domain.Provider, error) {
	providers := repository.NewProviderRepository(tx)

	switch {
	case len(sel.ProviderIDs) > 0:
		return s.validateExplicit(ctx, providers, sel.ProviderIDs, excluded)

	case len(sel.BusinessTypes) > 0:
		for _, t := range sel.BusinessTypes {
			if !t.Valid() {
				return nil, validationErr("business_types", "unknown business type: "+string(t))
			}
		}
		if sel.SubscribedOnly {
			return providers.FindEligibleSubscribed(ctx, sel.BusinessTypes, excluded)
		}
		return providers.FindEligible(ctx, sel.BusinessTypes, excluded)

	default:
		ownerType, err := s.resolveOwnerType(ctx, tx, l)
		if err != nil {
			return nil, err
		}
		tags := s.classifier.InferTargetTypes(ContentOf(l, ownerType))
		if sel.SubscribedOnly {
			return providers.FindEligibleSubscribed(ctx, tags, excluded)
		}
		return providers.FindEligible(ctx, tags, excluded)
	}
}

// validateExplicit enforces that every requested id exists, is verified and
// active; offending ids are named in the error. Already-distributed
// providers are silently dropped, keeping re-runs idempotent.
func (s *Service) validateExplicit(ctx context.Context, providers *repository.ProviderRepository, ids, excluded []int64) ([]domain.Provider, error) {
	found, err := providers.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Provider, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	var missing, ineligible []int64
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if !p.Eligible() {
			ineligible = append(ineligible, id)
		}
	}
	if len(missing) > 0 {
		return nil, validationErr("provider_ids", "unknown providers", missing...)
	}
	if len(ineligible) > 0 {
		return nil, validationErr("provider_ids", "providers not verified or inactive", ineligible...)
	}

	skip := make(map[int64]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}

	out := make([]domain.Provider, 0, len(ids))
	for _, id := range ids {
		if _, dup := skip[id]; dup {
			continue
		}
		out = append(out, byID[id])
	}
	return out, nil
}

// resolveOwnerType returns the business type of the provider owning the
// lead's target package or service. Zero value when the lead is custom or
// the reference no longer resolves; the classifier then uses its fallback.
func (s *Service) resolveOwnerType(ctx context.Context, tx *gorm.DB, l *domain.Lead) (domain.BusinessType, error) {
	ownerID, err := s.resolveOwnerProvider(ctx, tx, l)
	if err != nil || ownerID == 0 {
		return "", err
	}

	p, err := repository.NewProviderRepository(tx).GetByID(ctx, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return p.BusinessType, nil
}

// resolveOwnerProvider returns the provider owning the lead's target, or
// zero for custom leads and dangling references.
func (s *Service) resolveOwnerProvider(ctx context.Context, tx *gorm.DB, l *domain.Lead) (int64, error) {
	catalog := repository.NewCatalogRepository(tx)

	switch {
	case l.PackageID != nil:
		pkg, err := catalog.GetPackage(ctx, *l.PackageID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		return pkg.ProviderID, nil

	case l.ServiceID != nil:
		svc, err := catalog.GetService(ctx, *l.ServiceID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		return svc.ProviderID, nil
	}
	return 0, nil
}
