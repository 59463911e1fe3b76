package stats

import (
	"context"

	"ong-shelter-api/internal/domain/adoptions"
	"ong-shelter-api/internal/domain/contacts"
	"ong-shelter-api/internal/domain/dogs"
	"ong-shelter-api/internal/domain/donations"
	"ong-shelter-api/internal/domain/volunteers"
)

// Service agrega contadores de todos los módulos para la home pública
// y el dashboard del panel. Solo lecturas.
type Service struct {
	dogs       dogs.Repository
	adoptions  adoptions.Repository
	volunteers volunteers.Repository
	contacts   contacts.Repository
	donations  donations.Repository
}

func NewService(
	dogsRepo dogs.Repository,
	adoptionsRepo adoptions.Repository,
	volunteersRepo volunteers.Repository,
	contactsRepo contacts.Repository,
	donationsRepo donations.Repository,
) *Service {
	return &Service{
		dogs:       dogsRepo,
		adoptions:  adoptionsRepo,
		volunteers: volunteersRepo,
		contacts:   contactsRepo,
		donations:  donationsRepo,
	}
}

// PublicStats alimenta los números de la home.
type PublicStats struct {
	DogsRescued      int
	DogsAdopted      int
	ActiveVolunteers int
	TotalDonations   float64
}

func (s *Service) Public(ctx context.Context) (PublicStats, error) {
	var out PublicStats
	var err error

	if out.DogsRescued, err = s.dogs.Count(ctx, false); err != nil {
		return PublicStats{}, err
	}
	if out.DogsAdopted, err = s.adoptions.CountByStatus(ctx, adoptions.StatusApproved); err != nil {
		return PublicStats{}, err
	}
	if out.ActiveVolunteers, err = s.volunteers.CountByStatus(ctx, volunteers.StatusActive); err != nil {
		return PublicStats{}, err
	}
	if out.TotalDonations, err = s.donations.SumCompleted(ctx); err != nil {
		return PublicStats{}, err
	}

	return out, nil
}

// Dashboard es la vista del panel: lo público más los pendientes de gestión.
type Dashboard struct {
	TotalDogs        int
	AvailableDogs    int
	PendingAdoptions int
	TotalVolunteers  int
	UnreadContacts   int
	TotalDonations   float64
	RecentDonations  []donations.Donation
}

func (s *Service) AdminDashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	var err error

	if out.TotalDogs, err = s.dogs.Count(ctx, false); err != nil {
		return Dashboard{}, err
	}
	if out.AvailableDogs, err = s.dogs.Count(ctx, true); err != nil {
		return Dashboard{}, err
	}
	if out.PendingAdoptions, err = s.adoptions.CountByStatus(ctx, adoptions.StatusPending); err != nil {
		return Dashboard{}, err
	}

	active, err := s.volunteers.CountByStatus(ctx, volunteers.StatusActive)
	if err != nil {
		return Dashboard{}, err
	}
	inactive, err := s.volunteers.CountByStatus(ctx, volunteers.StatusInactive)
	if err != nil {
		return Dashboard{}, err
	}
	out.TotalVolunteers = active + inactive

	if out.UnreadContacts, err = s.contacts.CountByStatus(ctx, contacts.StatusUnread); err != nil {
		return Dashboard{}, err
	}
	if out.TotalDonations, err = s.donations.SumCompleted(ctx); err != nil {
		return Dashboard{}, err
	}
	if out.RecentDonations, err = s.donations.ListRecentCompleted(ctx, 5); err != nil {
		return Dashboard{}, err
	}

	return out, nil
}
