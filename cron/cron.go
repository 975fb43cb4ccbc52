package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/proenpoche/pro-en-poche/repository"
	"github.com/proenpoche/pro-en-poche/services"
)

// Scheduler runs the periodic jobs: booking reminders every minute and the
// subscription expiry sweep every hour.
type Scheduler struct {
	bookings      repository.BookingRepository
	subscriptions *services.SubscriptionService
	notifier      services.Notifier

	cron *cron.Cron
}

func NewScheduler(
	bookings repository.BookingRepository,
	subscriptions *services.SubscriptionService,
	notifier services.Notifier,
) *Scheduler {
	return &Scheduler{
		bookings:      bookings,
		subscriptions: subscriptions,
		notifier:      notifier,
		cron:          cron.New(),
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() {
	fmt.Println("Starting cron job scheduler...")

	if _, err := s.cron.AddFunc("* * * * *", s.sendBookingReminders); err != nil {
		log.Fatalf("Failed to add reminder cron job: %v", err)
	}
	if _, err := s.cron.AddFunc("@hourly", s.expireSubscriptions); err != nil {
		log.Fatalf("Failed to add subscription cron job: %v", err)
	}

	s.cron.Start()
	log.Println("Cron job scheduler started")
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// sendBookingReminders emails clients whose booking starts in about an hour.
// Bookings store a date plus an hourly slot, so the day is queried wide and
// the slot is checked here.
func (s *Scheduler) sendBookingReminders() {
	ctx := context.Background()
	now := time.Now()

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	bookings, err := s.bookings.ListConfirmedBetween(ctx, dayStart, dayStart.Add(48*time.Hour))
	if err != nil {
		log.Printf("Error fetching bookings for reminders: %v", err)
		return
	}

	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	for _, booking := range bookings {
		startsAt := booking.StartsAt()
		if startsAt.Before(startWindow) || startsAt.After(endWindow) {
			continue
		}
		if booking.Client.Email == "" {
			continue
		}

		subject := "Rappel : votre réservation approche"
		body := fmt.Sprintf(
			"Bonjour %s,\n\nVotre réservation de %s avec %s commence à %s.\n\nPro En Poche",
			booking.Client.Name, booking.ServiceType, booking.Provider.Name, booking.TimeSlot,
		)
		s.notifier.Notify(ctx, booking.Client.Email, subject, body)
		log.Printf("Sent reminder for booking %d to %s", booking.ID, booking.Client.Email)
	}
}

// expireSubscriptions deactivates subscriptions past their end date.
func (s *Scheduler) expireSubscriptions() {
	count, err := s.subscriptions.ExpireOverdue(context.Background())
	if err != nil {
		log.Printf("Error expiring subscriptions: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Deactivated %d expired subscriptions", count)
	}
}
