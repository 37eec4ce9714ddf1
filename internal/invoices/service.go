package invoices

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/internal/bookings"
	"github.com/borealpetro/fueldesk-backend/internal/pricing"
	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
	"github.com/borealpetro/fueldesk-backend/pkg/storage/gcs"
)

const maxImagesPerBooking = 20

var allowedImageTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// objectStore is the slice of the storage bucket this service needs.
type objectStore interface {
	Put(ctx context.Context, name, contentType string, body io.Reader) error
	Get(ctx context.Context, name string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, name string) error
	Copy(ctx context.Context, src, dst string) error
}

// Service handles invoice reconciliation, export, and scanned invoice images.
type Service interface {
	Reconcile(ctx context.Context, id uuid.UUID, dto *ReconcileDTO) (*bookings.BookingDTO, error)
	Export(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*InvoiceDTO, error)
	UploadImage(ctx context.Context, id uuid.UUID, contentType string, body io.Reader) (*ImageDTO, error)
	ListImages(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) ([]ImageDTO, error)
	OpenImage(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID, name string) (io.ReadCloser, string, error)
	DeleteImage(ctx context.Context, id uuid.UUID, name string) error
}

type service struct {
	repo  bookings.Repository
	store objectStore
	now   func() time.Time
}

// NewService builds an invoice service. Both collaborators are required.
func NewService(repo bookings.Repository, store objectStore) (Service, error) {
	if repo == nil || store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "invoices: missing required dependency")
	}
	return &service{repo: repo, store: store, now: time.Now}, nil
}

// Reconcile adjusts the ordered or dispensed quantity and reprices the
// booking from the rates captured at creation time. The live pricing config
// is never consulted here.
func (s *service) Reconcile(ctx context.Context, id uuid.UUID, dto *ReconcileDTO) (*bookings.BookingDTO, error) {
	if dto.OrderedLiters == nil && dto.DispensedLiters == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to reconcile")
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if dto.OrderedLiters != nil {
		if !dto.OrderedLiters.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "ordered_amount must be positive")
		}
		booking.QuantityLiters = *dto.OrderedLiters
	}
	if dto.DispensedLiters != nil {
		if dto.DispensedLiters.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "dispensed_amount must not be negative")
		}
		dispensed := *dto.DispensedLiters
		booking.DispensedLiters = &dispensed
	}

	breakdown := pricing.Recompute(billedLiters(booking), snapshotRates(booking))
	booking.Subtotal = breakdown.Subtotal
	booking.TotalPrice = breakdown.Total

	if err := s.repo.Save(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save reconciled booking")
	}
	return bookings.FromModel(booking), nil
}

// Export renders the invoice payload for a booking from its stored snapshot.
func (s *service) Export(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*InvoiceDTO, error) {
	booking, err := s.findOwnedBooking(ctx, requesterID, isAdmin, id)
	if err != nil {
		return nil, err
	}

	billed := billedLiters(booking)
	breakdown := pricing.Recompute(billed, snapshotRates(booking))

	return &InvoiceDTO{
		BookingID:       booking.ID,
		CustomerName:    booking.UserName,
		CustomerEmail:   booking.UserEmail,
		DeliveryAddress: booking.DeliveryAddress,
		FuelType:        booking.FuelType,
		Status:          booking.Status,
		OrderedLiters:   booking.QuantityLiters,
		DispensedLiters: booking.DispensedLiters,
		BilledLiters:    billed,
		Lines: []InvoiceLine{
			{Label: "Fuel", Rate: breakdown.FuelPricePerLiter, Amount: breakdown.FuelCost},
			{Label: "Federal carbon tax", Rate: breakdown.FederalCarbonTax, Amount: breakdown.FederalAmount},
			{Label: "Quebec carbon tax", Rate: breakdown.QuebecCarbonTax, Amount: breakdown.QuebecAmount},
			{Label: "GST", Rate: breakdown.GSTRate, Amount: breakdown.GSTAmount},
			{Label: "QST", Rate: breakdown.QSTRate, Amount: breakdown.QSTAmount},
		},
		Subtotal:      breakdown.Subtotal,
		Total:         breakdown.Total,
		InvoiceImages: booking.InvoiceImages,
		IssuedAt:      s.now().UTC(),
	}, nil
}

// UploadImage stores a scanned invoice under a staging key, records the final
// key on the booking, then promotes the object. A failure after the staging
// write cleans up every object it managed to create.
func (s *service) UploadImage(ctx context.Context, id uuid.UUID, contentType string, body io.Reader) (*ImageDTO, error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported content type %q", contentType))
	}

	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(booking.InvoiceImages) >= maxImagesPerBooking {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice image limit reached")
	}

	objectName := fmt.Sprintf("invoices/%s/%s%s", booking.ID, uuid.New(), ext)
	stagingName := "staging/" + objectName

	if err := s.store.Put(ctx, stagingName, contentType, body); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stage invoice image")
	}

	if err := s.store.Copy(ctx, stagingName, objectName); err != nil {
		cleanup := s.store.Delete(ctx, stagingName)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, multierr.Append(err, cleanup), "promote invoice image")
	}

	booking.InvoiceImages = append(booking.InvoiceImages, objectName)
	if err := s.repo.Save(ctx, booking); err != nil {
		cleanup := multierr.Combine(
			s.store.Delete(ctx, objectName),
			s.store.Delete(ctx, stagingName),
		)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, multierr.Append(err, cleanup), "record invoice image")
	}

	// Staging leftovers are harmless; ignore cleanup failures here.
	_ = s.store.Delete(ctx, stagingName)

	return &ImageDTO{Name: path.Base(objectName), URL: objectName}, nil
}

func (s *service) ListImages(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) ([]ImageDTO, error) {
	booking, err := s.findOwnedBooking(ctx, requesterID, isAdmin, id)
	if err != nil {
		return nil, err
	}
	images := make([]ImageDTO, 0, len(booking.InvoiceImages))
	for _, name := range booking.InvoiceImages {
		images = append(images, ImageDTO{Name: path.Base(name), URL: name})
	}
	return images, nil
}

// OpenImage streams one stored invoice image. The caller must close the
// returned reader.
func (s *service) OpenImage(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID, name string) (io.ReadCloser, string, error) {
	booking, err := s.findOwnedBooking(ctx, requesterID, isAdmin, id)
	if err != nil {
		return nil, "", err
	}
	objectName, ok := imageByName(booking, name)
	if !ok {
		return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "invoice image not found")
	}

	reader, contentType, err := s.store.Get(ctx, objectName)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotFound) {
			return nil, "", pkgerrors.New(pkgerrors.CodeNotFound, "invoice image not found")
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open invoice image")
	}
	return reader, contentType, nil
}

// DeleteImage removes the image record first, then the object. A missing
// object is not an error once the record is gone.
func (s *service) DeleteImage(ctx context.Context, id uuid.UUID, name string) error {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}
	objectName, ok := imageByName(booking, name)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "invoice image not found")
	}

	kept := booking.InvoiceImages[:0]
	for _, img := range booking.InvoiceImages {
		if img != objectName {
			kept = append(kept, img)
		}
	}
	booking.InvoiceImages = kept

	if err := s.repo.Save(ctx, booking); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove invoice image record")
	}
	if err := s.store.Delete(ctx, objectName); err != nil && !errors.Is(err, gcs.ErrObjectNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete invoice image object")
	}
	return nil
}

func (s *service) findBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find booking")
	}
	return booking, nil
}

func (s *service) findOwnedBooking(ctx context.Context, requesterID uuid.UUID, isAdmin bool, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && booking.UserID != requesterID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another customer")
	}
	return booking, nil
}

// billedLiters is the quantity the invoice is priced at: the dispensed amount
// once recorded, otherwise the ordered amount.
func billedLiters(booking *models.Booking) decimal.Decimal {
	if booking.DispensedLiters != nil {
		return *booking.DispensedLiters
	}
	return booking.QuantityLiters
}

func snapshotRates(booking *models.Booking) pricing.Rates {
	return pricing.Rates{
		FuelPricePerLiter: booking.FuelPricePerLiter,
		FederalCarbonTax:  booking.FederalCarbonTax,
		QuebecCarbonTax:   booking.QuebecCarbonTax,
		GSTRate:           booking.GSTRate,
		QSTRate:           booking.QSTRate,
	}
}

func imageByName(booking *models.Booking, name string) (string, bool) {
	for _, objectName := range booking.InvoiceImages {
		if objectName == name || path.Base(objectName) == name {
			return objectName, true
		}
	}
	return "", false
}
