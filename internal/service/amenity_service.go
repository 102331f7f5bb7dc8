package service

import (
	"errors"

	"github.com/avialine/backoffice/internal/domain"
	"github.com/avialine/backoffice/internal/repository"
)

var ErrAmenityNotPurchasable = errors.New("amenity not purchasable for this ticket")

// AmenityOffer is one amenity as seen from a ticket: included for free
// with the cabin class, already purchased, or available for purchase.
type AmenityOffer struct {
	domain.Amenity
	Included  bool `json:"included"`
	Purchased bool `json:"purchased"`
}

type AmenityService struct {
	amenityRepo repository.AmenityRepository
	ticketRepo  repository.TicketRepository
}

func NewAmenityService(amenityRepo repository.AmenityRepository, ticketRepo repository.TicketRepository) *AmenityService {
	return &AmenityService{amenityRepo: amenityRepo, ticketRepo: ticketRepo}
}

// OffersForTicket lists every amenity with its state for the ticket's
// cabin class. Included amenities show a zero price.
func (s *AmenityService) OffersForTicket(bookingRef string) ([]AmenityOffer, error) {
	ticket, err := s.ticketRepo.FindByBookingReference(bookingRef)
	if err != nil {
		return nil, err
	}
	return s.offers(ticket)
}

func (s *AmenityService) offers(ticket *domain.Ticket) ([]AmenityOffer, error) {
	all, err := s.amenityRepo.List()
	if err != nil {
		return nil, err
	}
	included, err := s.amenityRepo.ListIncludedForCabinType(ticket.CabinTypeID)
	if err != nil {
		return nil, err
	}
	purchases, err := s.amenityRepo.ListPurchasesForTicket(ticket.ID)
	if err != nil {
		return nil, err
	}

	includedIDs := make(map[uint]bool, len(included))
	for _, a := range included {
		includedIDs[a.ID] = true
	}
	purchasedIDs := make(map[uint]bool, len(purchases))
	for _, p := range purchases {
		purchasedIDs[p.AmenityID] = true
	}

	offers := make([]AmenityOffer, 0, len(all))
	for _, a := range all {
		offer := AmenityOffer{
			Amenity:   a,
			Included:  includedIDs[a.ID],
			Purchased: purchasedIDs[a.ID],
		}
		if offer.Included {
			offer.Price = 0
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// Purchase records paid amenities on a ticket, snapshotting the current
// price per row. Amenities already included with the cabin class or
// already purchased are rejected rather than silently skipped.
func (s *AmenityService) Purchase(bookingRef string, amenityIDs []uint) ([]domain.AmenityTicket, error) {
	ticket, err := s.ticketRepo.FindByBookingReference(bookingRef)
	if err != nil {
		return nil, err
	}
	offers, err := s.offers(ticket)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]AmenityOffer, len(offers))
	for _, o := range offers {
		byID[o.ID] = o
	}

	purchases := make([]domain.AmenityTicket, 0, len(amenityIDs))
	for _, id := range amenityIDs {
		offer, ok := byID[id]
		if !ok || offer.Included || offer.Purchased {
			return nil, ErrAmenityNotPurchasable
		}
		purchases = append(purchases, domain.AmenityTicket{
			AmenityID: id,
			TicketID:  ticket.ID,
			Price:     offer.Amenity.Price,
		})
	}
	if err := s.amenityRepo.RecordPurchases(purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}
