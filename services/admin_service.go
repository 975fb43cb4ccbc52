package services

import (
	"context"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/repository"
)

// AdminService backs the moderation screens.
type AdminService struct {
	providers repository.ProviderRepository
	users     repository.UserRepository
	discovery *DiscoveryService
}

func NewAdminService(
	providers repository.ProviderRepository,
	users repository.UserRepository,
	discovery *DiscoveryService,
) *AdminService {
	return &AdminService{providers: providers, users: users, discovery: discovery}
}

// ApproveProvider marks the provider verified, which makes them visible in
// client-facing discovery.
func (s *AdminService) ApproveProvider(ctx context.Context, providerID uint) error {
	if err := s.providers.SetVerified(ctx, providerID, true); err != nil {
		return err
	}
	s.discovery.InvalidateCache(ctx)
	return nil
}

// RejectProvider removes the provider profile entirely. The user account
// remains; bookings and reviews are not cascaded.
func (s *AdminService) RejectProvider(ctx context.Context, providerID uint) error {
	if err := s.providers.Delete(ctx, providerID); err != nil {
		return err
	}
	s.discovery.InvalidateCache(ctx)
	return nil
}

// PendingProviders is the moderation queue of unverified profiles.
func (s *AdminService) PendingProviders(ctx context.Context) ([]models.ProviderProfile, error) {
	return s.providers.ListPending(ctx)
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	return s.users.List(ctx, limit, offset)
}
