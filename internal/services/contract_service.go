package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"stagebook/internal/common"
	"stagebook/internal/models"
	"stagebook/internal/repositories"
	"stagebook/internal/storage"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// ContractService renders booking contracts and stores them as PDF objects
type ContractService interface {
	Generate(ctx context.Context, tenantID, bookingID uuid.UUID) (string, error)
}

type contractService struct {
	tenantRepo    repositories.TenantRepository
	bookingRepo   repositories.BookingRepository
	eventRepo     repositories.EventRepository
	performerRepo repositories.PerformerRepository
	venueRepo     repositories.VenueRepository
	clientRepo    repositories.ClientRepository
	store         storage.ObjectStorage
	log           *zap.Logger
	now           func() time.Time
}

func NewContractService(
	tenantRepo repositories.TenantRepository,
	bookingRepo repositories.BookingRepository,
	eventRepo repositories.EventRepository,
	performerRepo repositories.PerformerRepository,
	venueRepo repositories.VenueRepository,
	clientRepo repositories.ClientRepository,
	store storage.ObjectStorage,
	log *zap.Logger,
) ContractService {
	return &contractService{
		tenantRepo:    tenantRepo,
		bookingRepo:   bookingRepo,
		eventRepo:     eventRepo,
		performerRepo: performerRepo,
		venueRepo:     venueRepo,
		clientRepo:    clientRepo,
		store:         store,
		log:           log.Named("contracts"),
		now:           time.Now,
	}
}

type contractDocument struct {
	Tenant    *models.Tenant
	Booking   *models.Booking
	Event     *models.Event
	Performer *models.Performer
	Venue     string
	Client    *models.Client
	IssuedAt  time.Time
}

// Generate renders the contract, uploads it and records the object key on the booking
func (s *contractService) Generate(ctx context.Context, tenantID, bookingID uuid.UUID) (string, error) {
	doc, err := s.load(ctx, tenantID, bookingID)
	if err != nil {
		return "", err
	}
	if doc.Booking.Status == models.BookingCancelled {
		return "", fmt.Errorf("booking is cancelled: %w", common.ErrInvalidTransition)
	}

	data, err := renderContract(doc)
	if err != nil {
		return "", err
	}

	key := storage.ContractObjectKey(tenantID, bookingID)
	if err := s.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), "application/pdf"); err != nil {
		return "", fmt.Errorf("failed to upload contract: %w", err)
	}
	if err := s.bookingRepo.SetContractURL(ctx, tenantID, bookingID, key); err != nil {
		return "", fmt.Errorf("failed to record contract: %w", err)
	}

	s.log.Info("contract generated",
		zap.String("booking_id", bookingID.String()),
		zap.String("object", key),
		zap.Int("bytes", len(data)),
	)
	return key, nil
}

func (s *contractService) load(ctx context.Context, tenantID, bookingID uuid.UUID) (*contractDocument, error) {
	booking, err := s.bookingRepo.GetByID(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("tenant: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, tenantID, booking.EventID)
	if err != nil {
		return nil, fmt.Errorf("event: %w", err)
	}
	performer, err := s.performerRepo.GetByID(ctx, tenantID, booking.PerformerID)
	if err != nil {
		return nil, fmt.Errorf("performer: %w", err)
	}

	doc := &contractDocument{
		Tenant:    tenant,
		Booking:   booking,
		Event:     event,
		Performer: performer,
		Venue:     common.SafeString(event.VenueCustom),
		IssuedAt:  s.now().UTC(),
	}
	if event.VenueID != nil {
		venue, err := s.venueRepo.GetByID(ctx, tenantID, *event.VenueID)
		if err != nil {
			return nil, fmt.Errorf("venue: %w", err)
		}
		doc.Venue = venue.Name
		if venue.City != nil {
			doc.Venue += ", " + *venue.City
		}
	}
	if event.ClientID != nil {
		client, err := s.clientRepo.GetByID(ctx, tenantID, *event.ClientID)
		if err != nil {
			return nil, fmt.Errorf("client: %w", err)
		}
		doc.Client = client
	}
	return doc, nil
}

func renderContract(doc *contractDocument) ([]byte, error) {
	const margin = 20.0

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle("Performance Agreement", true)
	pdf.SetCreator(doc.Tenant.Name, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	line := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(50, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, tr(value), "", 1, "L", false, 0, "")
	}
	section := func(title string) {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(0, 8, tr(title), "", 1, "L", true, 0, "")
		pdf.Ln(1)
	}
	marker := func(v *string) string {
		if v == nil {
			return "-"
		}
		return *v
	}

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 10, tr("PERFORMANCE AGREEMENT"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s | Booking %s", doc.Tenant.Name, doc.Booking.ID)), "", 1, "C", false, 0, "")

	section("Event")
	line("Event", doc.Event.Name)
	line("Date", doc.Event.Date.Format("Monday, 02 January 2006"))
	line("Hours", doc.Event.StartTime+" - "+doc.Event.EndTime)
	if doc.Venue != "" {
		line("Venue", doc.Venue)
	}
	if doc.Client != nil {
		client := doc.Client.Name
		if doc.Client.Company != nil {
			client += " (" + *doc.Client.Company + ")"
		}
		line("Client", client)
	}

	section("Performer")
	line("Name", doc.Performer.Name)
	if doc.Performer.StageName != nil {
		line("Billed as", *doc.Performer.StageName)
	}
	line("Act", doc.Performer.Type)

	section("Schedule")
	pdf.SetFont("Arial", "B", 10)
	headers := []string{"Call", "Setup", "Performance", "Ends", "Load out"}
	width := 170.0 / float64(len(headers))
	for _, h := range headers {
		pdf.CellFormat(width, 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	for _, v := range []*string{doc.Booking.CallTime, doc.Booking.SetupStart, doc.Booking.PerformanceStart,
		doc.Booking.PerformanceEnd, doc.Booking.LoadOut} {
		pdf.CellFormat(width, 8, marker(v), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(8)

	section("Fees")
	line("Agreed rate", doc.Booking.AgreedRate.StringFixed(2))
	if doc.Booking.Deposit != nil {
		line("Deposit", doc.Booking.Deposit.StringFixed(2))
	}
	line("Paid to date", doc.Booking.PaidAmount.StringFixed(2))
	line("Balance due", doc.Booking.Balance().StringFixed(2))

	if doc.Booking.Notes != nil {
		section("Notes")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, tr(*doc.Booking.Notes), "", "L", false)
	}

	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(85, 7, "______________________________", "", 0, "L", false, 0, "")
	pdf.CellFormat(85, 7, "______________________________", "", 1, "L", false, 0, "")
	pdf.CellFormat(85, 6, tr("For "+doc.Tenant.Name), "", 0, "L", false, 0, "")
	pdf.CellFormat(85, 6, tr(doc.Performer.DisplayName()), "", 1, "L", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, "Issued "+doc.IssuedAt.Format(time.RFC1123), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render contract: %w", err)
	}
	return buf.Bytes(), nil
}
