package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/repository"
	"github.com/proenpoche/pro-en-poche/utils"
)

// PlanOffer is a purchasable subscription tier.
type PlanOffer struct {
	Name  string                  `json:"name"`
	Tier  models.SubscriptionPlan `json:"tier"`
	Price float64                 `json:"price"`
}

// PlanOffers maps the marketing names onto tiers. ESSENTIEL is free; the paid
// plans go through the payment gateway before activation.
var PlanOffers = []PlanOffer{
	{Name: "ESSENTIEL", Tier: models.PlanBasic, Price: 0},
	{Name: "VIP", Tier: models.PlanPremium, Price: 59},
	{Name: "PREMIUM", Tier: models.PlanEnterprise, Price: 99},
}

func offerByName(name string) (PlanOffer, bool) {
	for _, o := range PlanOffers {
		if strings.EqualFold(o.Name, name) {
			return o, true
		}
	}
	return PlanOffer{}, false
}

type SubscriptionService struct {
	subscriptions repository.SubscriptionRepository
	providers     repository.ProviderRepository
	gateway       PaymentGateway

	now func() time.Time
}

func NewSubscriptionService(
	subscriptions repository.SubscriptionRepository,
	providers repository.ProviderRepository,
	gateway PaymentGateway,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptions: subscriptions,
		providers:     providers,
		gateway:       gateway,
		now:           time.Now,
	}
}

// ActivatePlan charges the plan price when there is one, then replaces the
// provider's subscription wholesale: one month from now, active. No history,
// no pro-rating, no stacking.
func (s *SubscriptionService) ActivatePlan(ctx context.Context, providerID uint, planName string) (*models.Subscription, error) {
	offer, ok := offerByName(planName)
	if !ok {
		return nil, &utils.ValidationError{Message: fmt.Sprintf("unknown plan %q", planName)}
	}
	if _, err := s.providers.GetByUserID(ctx, providerID); err != nil {
		return nil, err
	}

	if offer.Price > 0 {
		if _, err := s.gateway.Charge(ctx, offer.Price); err != nil {
			return nil, err
		}
	}

	start := s.now()
	sub := &models.Subscription{
		ProviderID: providerID,
		Plan:       offer.Tier,
		StartDate:  start,
		EndDate:    start.AddDate(0, 1, 0),
		IsActive:   true,
	}
	if err := s.subscriptions.Replace(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionService) Current(ctx context.Context, providerID uint) (*models.Subscription, error) {
	return s.subscriptions.GetByProvider(ctx, providerID)
}

// ExpireOverdue deactivates subscriptions past their end date. Runs from the
// cron scheduler.
func (s *SubscriptionService) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.subscriptions.DeactivateExpired(ctx, s.now())
}
