package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/proenpoche/pro-en-poche/models"
	"github.com/proenpoche/pro-en-poche/utils"
)

// MemoryStore is an in-process implementation of every repository interface,
// used by tests in place of the GORM-backed ones. All collections share one
// lock and one ID counter.
type MemoryStore struct {
	mu            sync.Mutex
	users         []models.User
	providers     []models.ProviderProfile
	bookings      []models.Booking
	reviews       []models.Review
	subscriptions []models.Subscription
	announcements []models.Announcement
	messages      []models.ChatMessage
	settings      models.SiteSettings
	nextID        uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, settings: models.SiteSettings{PlatformName: "Pro En Poche"}}
}

func (s *MemoryStore) newID() uint {
	id := s.nextID
	s.nextID++
	return id
}

func (s *MemoryStore) Users() UserRepository                 { return &memoryUsers{s} }
func (s *MemoryStore) Providers() ProviderRepository         { return &memoryProviders{s} }
func (s *MemoryStore) Bookings() BookingRepository           { return &memoryBookings{s} }
func (s *MemoryStore) Reviews() ReviewRepository             { return &memoryReviews{s} }
func (s *MemoryStore) Subscriptions() SubscriptionRepository { return &memorySubscriptions{s} }
func (s *MemoryStore) Announcements() AnnouncementRepository { return &memoryAnnouncements{s} }
func (s *MemoryStore) Chat() ChatRepository                  { return &memoryChat{s} }
func (s *MemoryStore) Settings() SettingsRepository          { return &memorySettings{s} }

type memoryUsers struct{ s *MemoryStore }

func (r *memoryUsers) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.ID = r.s.newID()
	user.CreatedAt = time.Now()
	r.s.users = append(r.s.users, *user)
	return nil
}

func (r *memoryUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, &utils.NotFoundError{Resource: "user"}
}

func (r *memoryUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if strings.EqualFold(r.s.users[i].Email, email) {
			u := r.s.users[i]
			return &u, nil
		}
	}
	return nil, &utils.NotFoundError{Resource: "user"}
}

func (r *memoryUsers) List(_ context.Context, limit, offset int) ([]models.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := int64(len(r.s.users))
	if offset >= len(r.s.users) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(r.s.users) {
		end = len(r.s.users)
	}
	out := make([]models.User, end-offset)
	copy(out, r.s.users[offset:end])
	return out, total, nil
}

func (r *memoryUsers) UpdateAvatar(_ context.Context, id uint, url string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.users {
		if r.s.users[i].ID == id {
			r.s.users[i].AvatarURL = url
			return nil
		}
	}
	return &utils.NotFoundError{Resource: "user"}
}

type memoryProviders struct{ s *MemoryStore }

func (r *memoryProviders) Create(_ context.Context, profile *models.ProviderProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	profile.ID = r.s.newID()
	r.s.providers = append(r.s.providers, *profile)
	return nil
}

func (r *memoryProviders) GetByUserID(_ context.Context, userID uint) (*models.ProviderProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.providers {
		if r.s.providers[i].UserID == userID {
			p := r.s.providers[i]
			r.fillRating(&p)
			return &p, nil
		}
	}
	return nil, &utils.NotFoundError{Resource: "provider"}
}

func (r *memoryProviders) Update(_ context.Context, profile *models.ProviderProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.providers {
		if r.s.providers[i].UserID == profile.UserID {
			r.s.providers[i] = *profile
			return nil
		}
	}
	return &utils.NotFoundError{Resource: "provider"}
}

func (r *memoryProviders) SetVerified(_ context.Context, userID uint, verified bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.providers {
		if r.s.providers[i].UserID == userID {
			r.s.providers[i].Verified = verified
			return nil
		}
	}
	return &utils.NotFoundError{Resource: "provider"}
}

func (r *memoryProviders) Delete(_ context.Context, userID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.providers {
		if r.s.providers[i].UserID == userID {
			r.s.providers = append(r.s.providers[:i], r.s.providers[i+1:]...)
			return nil
		}
	}
	return &utils.NotFoundError{Resource: "provider"}
}

func (r *memoryProviders) ListVerified(_ context.Context) ([]models.ProviderProfile, error) {
	return r.list(true), nil
}

func (r *memoryProviders) ListPending(_ context.Context) ([]models.ProviderProfile, error) {
	return r.list(false), nil
}

func (r *memoryProviders) list(verified bool) []models.ProviderProfile {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.ProviderProfile
	for i := range r.s.providers {
		if r.s.providers[i].Verified == verified {
			p := r.s.providers[i]
			r.fillRating(&p)
			out = append(out, p)
		}
	}
	return out
}

// fillRating recomputes the projection from the review slice; callers hold
// the lock.
func (r *memoryProviders) fillRating(p *models.ProviderProfile) {
	var sum, count int
	for i := range r.s.reviews {
		if r.s.reviews[i].ProviderID == p.UserID {
			sum += r.s.reviews[i].Rating
			count++
		}
	}
	p.ReviewCount = count
	if count > 0 {
		p.Rating = float64(sum) / float64(count)
	} else {
		p.Rating = 0
	}
}

type memoryBookings struct{ s *MemoryStore }

func (r *memoryBookings) Create(_ context.Context, booking *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	booking.ID = r.s.newID()
	booking.CreatedAt = time.Now()
	if booking.Status == "" {
		booking.Status = models.StatusConfirmed
	}
	if booking.PaymentStatus == "" {
		booking.PaymentStatus = models.PaymentHeld
	}
	r.s.bookings = append(r.s.bookings, *booking)
	return nil
}

func (r *memoryBookings) GetByID(_ context.Context, id uint) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.bookings {
		if r.s.bookings[i].ID == id {
			b := r.s.bookings[i]
			return &b, nil
		}
	}
	return nil, &utils.NotFoundError{Resource: "booking"}
}

func (r *memoryBookings) Save(_ context.Context, booking *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.bookings {
		if r.s.bookings[i].ID == booking.ID {
			r.s.bookings[i] = *booking
			return nil
		}
	}
	return &utils.NotFoundError{Resource: "booking"}
}

func (r *memoryBookings) ListByClient(_ context.Context, clientID uint, limit, offset int) ([]models.Booking, int64, error) {
	return r.listBy(func(b *models.Booking) bool { return b.ClientID == clientID }, limit, offset)
}

func (r *memoryBookings) ListByProvider(_ context.Context, providerID uint, limit, offset int) ([]models.Booking, int64, error) {
	return r.listBy(func(b *models.Booking) bool { return b.ProviderID == providerID }, limit, offset)
}

func (r *memoryBookings) listBy(match func(*models.Booking) bool, limit, offset int) ([]models.Booking, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []models.Booking
	for i := range r.s.bookings {
		if match(&r.s.bookings[i]) {
			all = append(all, r.s.bookings[i])
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *memoryBookings) ListForUserWithStatus(_ context.Context, userID uint, statuses []models.BookingStatus) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Booking
	for i := range r.s.bookings {
		b := r.s.bookings[i]
		if !b.IsParty(userID) {
			continue
		}
		for _, st := range statuses {
			if b.Status == st {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}

func (r *memoryBookings) CountByStatus(_ context.Context, providerID uint, status models.BookingStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for i := range r.s.bookings {
		if r.s.bookings[i].ProviderID == providerID && r.s.bookings[i].Status == status {
			count++
		}
	}
	return count, nil
}

func (r *memoryBookings) SumPriceByPayment(_ context.Context, providerID uint, payment models.PaymentStatus) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total float64
	for i := range r.s.bookings {
		if r.s.bookings[i].ProviderID == providerID && r.s.bookings[i].PaymentStatus == payment {
			total += r.s.bookings[i].Price
		}
	}
	return total, nil
}

func (r *memoryBookings) ListConfirmedBetween(_ context.Context, from, to time.Time) ([]models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Booking
	for i := range r.s.bookings {
		b := r.s.bookings[i]
		if b.Status == models.StatusConfirmed && !b.Date.Before(from) && !b.Date.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

type memoryReviews struct{ s *MemoryStore }

func (r *memoryReviews) CreateAndRelease(_ context.Context, review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.reviews {
		if r.s.reviews[i].BookingID == review.BookingID {
			return &utils.DuplicateReviewError{BookingID: review.BookingID}
		}
	}
	review.ID = r.s.newID()
	review.CreatedAt = time.Now()
	r.s.reviews = append(r.s.reviews, *review)
	for i := range r.s.bookings {
		if r.s.bookings[i].ID == review.BookingID {
			r.s.bookings[i].ReleasePayment()
			break
		}
	}
	return nil
}

func (r *memoryReviews) ExistsForBooking(_ context.Context, bookingID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.reviews {
		if r.s.reviews[i].BookingID == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryReviews) ListByProvider(_ context.Context, providerID uint, limit, offset int) ([]models.Review, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []models.Review
	for i := range r.s.reviews {
		if r.s.reviews[i].ProviderID == providerID {
			all = append(all, r.s.reviews[i])
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *memoryReviews) AggregateByProvider(_ context.Context, providerID uint) (float64, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sum int
	var count int64
	for i := range r.s.reviews {
		if r.s.reviews[i].ProviderID == providerID {
			sum += r.s.reviews[i].Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

type memorySubscriptions struct{ s *MemoryStore }

func (r *memorySubscriptions) Replace(_ context.Context, sub *models.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.subscriptions {
		if r.s.subscriptions[i].ProviderID == sub.ProviderID {
			r.s.subscriptions = append(r.s.subscriptions[:i], r.s.subscriptions[i+1:]...)
			break
		}
	}
	sub.ID = r.s.newID()
	r.s.subscriptions = append(r.s.subscriptions, *sub)
	return nil
}

func (r *memorySubscriptions) GetByProvider(_ context.Context, providerID uint) (*models.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.subscriptions {
		if r.s.subscriptions[i].ProviderID == providerID {
			sub := r.s.subscriptions[i]
			return &sub, nil
		}
	}
	return nil, &utils.NotFoundError{Resource: "subscription"}
}

func (r *memorySubscriptions) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var changed int64
	for i := range r.s.subscriptions {
		if r.s.subscriptions[i].IsActive && r.s.subscriptions[i].EndDate.Before(now) {
			r.s.subscriptions[i].IsActive = false
			changed++
		}
	}
	return changed, nil
}

type memoryAnnouncements struct{ s *MemoryStore }

func (r *memoryAnnouncements) Create(_ context.Context, a *models.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.ID = r.s.newID()
	a.CreatedAt = time.Now()
	if a.Version == 0 {
		a.Version = 1
	}
	r.s.announcements = append(r.s.announcements, *a)
	return nil
}

func (r *memoryAnnouncements) GetByID(_ context.Context, id uint) (*models.Announcement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.announcements {
		if r.s.announcements[i].ID == id {
			a := r.s.announcements[i]
			return &a, nil
		}
	}
	return nil, &utils.NotFoundError{Resource: "announcement"}
}

func (r *memoryAnnouncements) Update(_ context.Context, a *models.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.announcements {
		if r.s.announcements[i].ID == a.ID {
			if r.s.announcements[i].Version != a.Version {
				return &utils.ConcurrentModificationError{Resource: "announcement"}
			}
			a.Version++
			r.s.announcements[i] = *a
			return nil
		}
	}
	return &utils.NotFoundError{Resource: "announcement"}
}

func (r *memoryAnnouncements) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.announcements {
		if r.s.announcements[i].ID == id {
			r.s.announcements = append(r.s.announcements[:i], r.s.announcements[i+1:]...)
			return nil
		}
	}
	return &utils.NotFoundError{Resource: "announcement"}
}

func (r *memoryAnnouncements) ListByProvider(_ context.Context, providerID uint) ([]models.Announcement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Announcement
	for i := range r.s.announcements {
		if r.s.announcements[i].ProviderID == providerID {
			out = append(out, r.s.announcements[i])
		}
	}
	return out, nil
}

func (r *memoryAnnouncements) ListActive(_ context.Context, limit, offset int) ([]models.Announcement, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	verified := make(map[uint]bool, len(r.s.providers))
	for i := range r.s.providers {
		if r.s.providers[i].Verified {
			verified[r.s.providers[i].UserID] = true
		}
	}
	var all []models.Announcement
	for i := range r.s.announcements {
		if r.s.announcements[i].IsActive && verified[r.s.announcements[i].ProviderID] {
			all = append(all, r.s.announcements[i])
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

type memoryChat struct{ s *MemoryStore }

func (r *memoryChat) Create(_ context.Context, msg *models.ChatMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	msg.ID = r.s.newID()
	msg.CreatedAt = time.Now()
	r.s.messages = append(r.s.messages, *msg)
	return nil
}

func (r *memoryChat) ListByBooking(_ context.Context, bookingID uint) ([]models.ChatMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.ChatMessage
	for i := range r.s.messages {
		if r.s.messages[i].BookingID == bookingID {
			out = append(out, r.s.messages[i])
		}
	}
	return out, nil
}

func (r *memoryChat) MarkRead(_ context.Context, bookingID, readerID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.messages {
		if r.s.messages[i].BookingID == bookingID && r.s.messages[i].SenderID != readerID {
			r.s.messages[i].IsRead = true
		}
	}
	return nil
}

func (r *memoryChat) CountUnread(_ context.Context, bookingID, readerID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for i := range r.s.messages {
		if r.s.messages[i].BookingID == bookingID && r.s.messages[i].SenderID != readerID && !r.s.messages[i].IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memoryChat) LastMessage(_ context.Context, bookingID uint) (*models.ChatMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := len(r.s.messages) - 1; i >= 0; i-- {
		if r.s.messages[i].BookingID == bookingID {
			msg := r.s.messages[i]
			return &msg, nil
		}
	}
	return nil, nil
}

type memorySettings struct{ s *MemoryStore }

func (r *memorySettings) Get(_ context.Context) (*models.SiteSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s := r.s.settings
	return &s, nil
}

func (r *memorySettings) Update(_ context.Context, settings *models.SiteSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.settings = *settings
	return nil
}
