package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/meinhoongagan/amigos-app/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// SamplePassword is the login password of every seeded account.
const SamplePassword = "amigos123"

type sampleAmigo struct {
	email, username, name, bio, location, avatar string
	interests                                    []string
	rate                                         int
}

var sampleAmigos = []sampleAmigo{
	{
		email: "ana.silva@example.com", username: "anasilva", name: "Ana Silva",
		bio:       "Apaixonada por música e cinema. Ótima companhia para eventos culturais e passeios pela cidade.",
		location:  "Pinheiros, São Paulo",
		avatar:    "https://images.unsplash.com/photo-1494790108377-be9c29b29330",
		interests: []string{"Música", "Cinema", "Arte"},
		rate:      150,
	},
	{
		email: "carlos.mendes@example.com", username: "carlosm", name: "Carlos Mendes",
		bio:       "Amante de esportes, gastronomia e tecnologia. Ótima companhia para jogos, restaurantes e eventos tech.",
		location:  "Vila Madalena, São Paulo",
		avatar:    "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d",
		interests: []string{"Esportes", "Gastronomia", "Tecnologia"},
		rate:      180,
	},
	{
		email: "mariana.costa@example.com", username: "maricosta", name: "Mariana Costa",
		bio:       "Entusiasta de arte, viagem e gastronomia. Perfeita para eventos culturais e experiências gastronômicas.",
		location:  "Moema, São Paulo",
		avatar:    "https://images.unsplash.com/photo-1580489944761-15a19d654956",
		interests: []string{"Arte", "Viagem", "Gastronomia"},
		rate:      160,
	},
	{
		email: "rafael.oliveira@example.com", username: "rafoliv", name: "Rafael Oliveira",
		bio:       "Especialista em tecnologia e esportes. Acompanha eventos tech, esportivos e é ótimo para networking profissional.",
		location:  "Itaim Bibi, São Paulo",
		avatar:    "https://images.unsplash.com/photo-1519085360753-af0119f7cbe7",
		interests: []string{"Tecnologia", "Esportes", "Networking"},
		rate:      200,
	},
}

// Seed loads the sample marketplace into store: four amigos, one client,
// three availability windows per amigo and one completed, paid and reviewed
// booking. It does nothing when the sample data is already present.
func Seed(ctx context.Context, store Storage, now time.Time, loc *time.Location) error {
	if _, err := store.GetUserByEmail(ctx, sampleAmigos[0].email); err == nil {
		log.Info().Msg("sample data already present, skipping seed")
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SamplePassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash sample password: %w", err)
	}

	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	at := func(day time.Time, hour int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, loc).UTC()
	}

	amigoIDs := make([]uint, 0, len(sampleAmigos))
	for _, a := range sampleAmigos {
		rate := a.rate
		u, err := store.CreateUser(ctx, &models.User{
			Email:      a.email,
			Username:   a.username,
			Password:   string(hash),
			Name:       a.name,
			Bio:        a.bio,
			Location:   a.location,
			Avatar:     a.avatar,
			IsVerified: true,
			IsAmigo:    true,
			Interests:  pq.StringArray(a.interests),
			HourlyRate: &rate,
		})
		if err != nil {
			return fmt.Errorf("seed amigo %s: %w", a.email, err)
		}
		amigoIDs = append(amigoIDs, u.ID)
	}

	client, err := store.CreateUser(ctx, &models.User{
		Email:      "joao.client@example.com",
		Username:   "joaoclient",
		Password:   string(hash),
		Name:       "João Silva",
		Bio:        "Looking for friends to hang out in São Paulo",
		Location:   "São Paulo",
		IsVerified: true,
		Interests:  pq.StringArray{"Música", "Tecnologia"},
	})
	if err != nil {
		return fmt.Errorf("seed client: %w", err)
	}

	windows := []struct {
		offset, from, to int
	}{
		{0, 14, 18},
		{1, 10, 16},
		{7, 12, 20},
	}
	for _, id := range amigoIDs {
		for _, w := range windows {
			day := today.AddDate(0, 0, w.offset)
			if _, err := store.CreateAvailability(ctx, &models.Availability{
				UserID:    id,
				Date:      day.UTC(),
				StartTime: at(day, w.from),
				EndTime:   at(day, w.to),
			}); err != nil {
				return fmt.Errorf("seed availability: %w", err)
			}
		}
	}

	lastWeek := today.AddDate(0, 0, -7)
	booking, err := store.CreateBooking(ctx, &models.Booking{
		ClientID:      client.ID,
		AmigoID:       amigoIDs[0],
		Date:          lastWeek.UTC(),
		StartTime:     at(lastWeek, 14),
		EndTime:       at(lastWeek, 16),
		Location:      "Museum of Art, São Paulo",
		Status:        models.BookingCompleted,
		TotalAmount:   300,
		PaymentStatus: models.PaymentPaid,
	})
	if err != nil {
		return fmt.Errorf("seed booking: %w", err)
	}
	if _, err := store.UpdateBookingPaymentStatus(ctx, booking.ID, models.PaymentPaid, "pi_mock_123456"); err != nil {
		return fmt.Errorf("seed booking payment: %w", err)
	}

	if _, err := store.CreateReview(ctx, &models.Review{
		BookingID:  booking.ID,
		ReviewerID: client.ID,
		RevieweeID: amigoIDs[0],
		Rating:     5,
		Comment:    "Ana was fantastic! Very knowledgeable about art and a great companion.",
	}); err != nil {
		return fmt.Errorf("seed review: %w", err)
	}

	log.Info().Int("amigos", len(amigoIDs)).Msg("sample data loaded")
	return nil
}
