package enrichment

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/wanderly/wanderly-api/internal/types"
)

// TripEnricher fetches flight and hotel offers once a session carries
// origin, destination and both dates. Every leg degrades independently:
// a live-provider failure swaps in the synthetic provider, never an error.
type TripEnricher struct {
	codes           LocationCodeResolver
	flights         FlightProvider
	hotels          HotelProvider
	syntheticFlight FlightProvider
	syntheticHotel  HotelProvider
	logger          *slog.Logger
}

func NewTripEnricher(codes LocationCodeResolver, flights FlightProvider, hotels HotelProvider, logger *slog.Logger) *TripEnricher {
	return &TripEnricher{
		codes:           codes,
		flights:         flights,
		hotels:          hotels,
		syntheticFlight: NewSyntheticFlightProvider(),
		syntheticHotel:  NewSyntheticHotelProvider(),
		logger:          logger,
	}
}

// Ready reports whether the session carries enough parameters to search.
func (e *TripEnricher) Ready(sess *types.TravelSession) bool {
	return sess.Origin != "" && sess.Destination != "" &&
		sess.DepartureDate != nil && sess.ReturnDate != nil
}

// Enrich resolves city codes, then searches flights and hotels
// concurrently. The returned slices are never nil-on-failure; worst case
// they hold synthetic offers.
func (e *TripEnricher) Enrich(ctx context.Context, sess *types.TravelSession) ([]types.FlightOffer, []types.HotelOffer) {
	ctx, span := otel.Tracer("TripEnricher").Start(ctx, "Enrich", trace.WithAttributes(
		attribute.String("trip.origin", sess.Origin),
		attribute.String("trip.destination", sess.Destination),
	))
	defer span.End()

	if !e.Ready(sess) {
		return nil, nil
	}

	originCode, err := e.codes.Resolve(ctx, sess.Origin)
	if err != nil {
		e.logger.DebugContext(ctx, "could not resolve origin code", slog.String("origin", sess.Origin), slog.Any("error", err))
		return nil, nil
	}
	destCode, err := e.codes.Resolve(ctx, sess.Destination)
	if err != nil {
		e.logger.DebugContext(ctx, "could not resolve destination code", slog.String("destination", sess.Destination), slog.Any("error", err))
		return nil, nil
	}

	adults := sess.Travelers
	if adults < 1 {
		adults = 1
	}

	var flightOffers []types.FlightOffer
	var hotelOffers []types.HotelOffer

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		offers, err := e.flights.SearchFlights(gctx, originCode, destCode, *sess.DepartureDate, *sess.ReturnDate, adults, sess.Budget)
		if err != nil {
			e.logger.WarnContext(gctx, "flight provider failed, using synthetic offers", slog.Any("error", err))
			offers, _ = e.syntheticFlight.SearchFlights(gctx, originCode, destCode, *sess.DepartureDate, *sess.ReturnDate, adults, sess.Budget)
		}
		flightOffers = offers
		return nil
	})
	g.Go(func() error {
		offers, err := e.hotels.SearchHotels(gctx, destCode, *sess.DepartureDate, *sess.ReturnDate, adults, 1)
		if err != nil {
			e.logger.WarnContext(gctx, "hotel provider failed, using synthetic offers", slog.Any("error", err))
			offers, _ = e.syntheticHotel.SearchHotels(gctx, destCode, *sess.DepartureDate, *sess.ReturnDate, adults, 1)
		}
		hotelOffers = offers
		return nil
	})
	_ = g.Wait()

	return flightOffers, hotelOffers
}
