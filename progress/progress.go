// Package progress derives the customer-facing status of a shipment from its
// persisted state. Raw carrier statuses frequently lag behind what actually
// matters to the customer (has the invoice been paid, have the Amazon shipment
// IDs been supplied), so the derived label and percentage are computed from
// the full record rather than trusting the carrier string alone.
//
// Everything in this package is a pure function over its input: no I/O, no
// shared state, safe to call concurrently per row in a list view.
package progress

// Raw carrier/ops statuses as stored on a shipment.
const (
	StatusBookingConfirmed = "Booking Confirmed"
	StatusAwaitingPickup   = "Awaiting Pickup"
	StatusInTransit        = "In Transit"
	StatusCustoms          = "Customs"
	StatusOutForDelivery   = "Out for Delivery"
	StatusDelivered        = "Delivered"
	StatusCancelled        = "Cancelled"
)

// Derived-only labels, never stored as a raw status.
const (
	LabelMissingIDs = "Missing Shipment IDs"
	LabelInProgress = "In Progress"
)

// Invoice status values as seen by the engine. Source rows may carry richer
// values; anything that is not paid counts as unpaid here.
const (
	InvoiceUnpaid = "unpaid"
	InvoicePaid   = "paid"
)

// DeliveryDelivered is the per-destination delivery status set once a
// warehouse leg has been received.
const DeliveryDelivered = "delivered"

// Destination is one FBA warehouse leg of a shipment.
type Destination struct {
	ID                 string
	FBAWarehouse       string
	AmazonShipmentID   string
	AmazonReferenceID  string
	Cartons            int
	ChargeableWeightKg float64
	DeliveryStatus     string
}

// Invoice is the payment summary the engine cares about.
type Invoice struct {
	Status      string
	AmountCents int64
}

// Paid reports whether the invoice has been settled.
func (i *Invoice) Paid() bool {
	return i != nil && i.Status == InvoicePaid
}

// ShipmentRecord is the canonical, already-normalized input shape. The
// data-access layer maps storage rows into this once; no field fallbacks
// happen past this boundary.
type ShipmentRecord struct {
	ID           string
	RawStatus    string
	Destinations []Destination
	Invoice      *Invoice
}

// Derived is the canonical display status for a shipment or a single
// destination.
type Derived struct {
	Label      string `json:"label"`
	Percent    int    `json:"percent"`
	MissingIDs bool   `json:"missing_ids"`
}

// Derive maps a shipment record to its display status. Total and
// deterministic; first matching rule wins.
//
// Payment plus ID completeness is a stronger signal than the carrier string:
// a paid shipment missing Amazon IDs is operationally blocked no matter what
// the carrier says, so "Missing Shipment IDs" overrides a stale "In Transit".
func Derive(s ShipmentRecord) Derived {
	switch {
	case s.RawStatus == StatusCancelled:
		return Derived{Label: StatusCancelled, Percent: 0}

	case s.RawStatus == StatusDelivered || allDestinationsDelivered(s.Destinations):
		return Derived{Label: StatusDelivered, Percent: 100}

	case s.Invoice == nil:
		// Booked but not yet invoiced: pass the raw status through.
		return Derived{Label: s.RawStatus, Percent: preInvoicePercent(s.RawStatus)}

	case !s.Invoice.Paid():
		return Derived{Label: s.RawStatus, Percent: 20}

	case len(s.Destinations) == 0:
		// Paid with no destinations is contradictory input; fall back to the
		// raw status rather than guessing at ID completeness.
		return Derived{Label: s.RawStatus, Percent: 0}

	case anyMissingShipmentID(s.Destinations):
		return Derived{Label: LabelMissingIDs, Percent: 30, MissingIDs: true}

	default:
		return Derived{Label: LabelInProgress, Percent: paidPercent(s.RawStatus)}
	}
}

// DeriveDestination computes the display status of a single warehouse leg,
// substituting that destination's own ID and delivery status for the
// aggregate checks while reusing the shipment-level invoice and raw status.
func DeriveDestination(s ShipmentRecord, d Destination) Derived {
	switch {
	case s.RawStatus == StatusCancelled:
		return Derived{Label: StatusCancelled, Percent: 0}

	case s.RawStatus == StatusDelivered || d.DeliveryStatus == DeliveryDelivered:
		return Derived{Label: StatusDelivered, Percent: 100}

	case s.Invoice == nil:
		return Derived{Label: s.RawStatus, Percent: preInvoicePercent(s.RawStatus)}

	case !s.Invoice.Paid():
		return Derived{Label: s.RawStatus, Percent: 20}

	case d.AmazonShipmentID == "":
		return Derived{Label: LabelMissingIDs, Percent: 30, MissingIDs: true}

	default:
		return Derived{Label: LabelInProgress, Percent: paidPercent(s.RawStatus)}
	}
}

func preInvoicePercent(rawStatus string) int {
	if rawStatus == StatusAwaitingPickup {
		return 20
	}
	return 10
}

// paidPercent assumes a paid invoice and complete IDs. Awaiting Pickup at
// this point means the carrier hasn't moved yet, not that the customer has
// anything left to do.
func paidPercent(rawStatus string) int {
	if rawStatus == StatusAwaitingPickup {
		return 40
	}
	return 80
}

func anyMissingShipmentID(dests []Destination) bool {
	for _, d := range dests {
		if d.AmazonShipmentID == "" {
			return true
		}
	}
	return false
}

func allDestinationsDelivered(dests []Destination) bool {
	if len(dests) == 0 {
		return false
	}
	for _, d := range dests {
		if d.DeliveryStatus != DeliveryDelivered {
			return false
		}
	}
	return true
}

// KnownRawStatus reports whether s is one of the statuses staff may assign.
func KnownRawStatus(s string) bool {
	switch s {
	case StatusBookingConfirmed, StatusAwaitingPickup, StatusInTransit,
		StatusCustoms, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}
