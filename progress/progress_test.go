package progress_test

import (
	"testing"

	"freight-portal/progress"

	"github.com/stretchr/testify/assert"
)

func dest(amazonShipmentID, deliveryStatus string) progress.Destination {
	return progress.Destination{
		ID:               "dest-1",
		FBAWarehouse:     "ONT8",
		AmazonShipmentID: amazonShipmentID,
		DeliveryStatus:   deliveryStatus,
		Cartons:          10,
	}
}

func paidInvoice() *progress.Invoice {
	return &progress.Invoice{Status: progress.InvoicePaid, AmountCents: 125000}
}

func unpaidInvoice() *progress.Invoice {
	return &progress.Invoice{Status: progress.InvoiceUnpaid, AmountCents: 125000}
}

func TestDerive_Rules(t *testing.T) {
	tests := []struct {
		name string
		in   progress.ShipmentRecord
		want progress.Derived
	}{
		{
			name: "cancelled wins over everything",
			in: progress.ShipmentRecord{
				RawStatus:    progress.StatusCancelled,
				Invoice:      paidInvoice(),
				Destinations: []progress.Destination{dest("", "")},
			},
			want: progress.Derived{Label: progress.StatusCancelled, Percent: 0},
		},
		{
			name: "delivered raw status dominates paid invoice",
			in: progress.ShipmentRecord{
				RawStatus:    progress.StatusDelivered,
				Invoice:      paidInvoice(),
				Destinations: []progress.Destination{dest("FBA15X", "")},
			},
			want: progress.Derived{Label: progress.StatusDelivered, Percent: 100},
		},
		{
			name: "delivered raw status dominates missing IDs",
			in: progress.ShipmentRecord{
				RawStatus:    progress.StatusDelivered,
				Invoice:      paidInvoice(),
				Destinations: []progress.Destination{dest("", "")},
			},
			want: progress.Derived{Label: progress.StatusDelivered, Percent: 100},
		},
		{
			name: "delivered with no invoice at all",
			in:   progress.ShipmentRecord{RawStatus: progress.StatusDelivered},
			want: progress.Derived{Label: progress.StatusDelivered, Percent: 100},
		},
		{
			name: "all destinations delivered overrides stale raw status",
			in: progress.ShipmentRecord{
				RawStatus: progress.StatusInTransit,
				Invoice:   paidInvoice(),
				Destinations: []progress.Destination{
					dest("FBA15X", progress.DeliveryDelivered),
					dest("FBA15Y", progress.DeliveryDelivered),
				},
			},
			want: progress.Derived{Label: progress.StatusDelivered, Percent: 100},
		},
		{
			name: "one undelivered destination keeps shipment out of delivered",
			in: progress.ShipmentRecord{
				RawStatus: progress.StatusInTransit,
				Invoice:   paidInvoice(),
				Destinations: []progress.Destination{
					dest("FBA15X", progress.DeliveryDelivered),
					dest("FBA15Y", ""),
				},
			},
			want: progress.Derived{Label: progress.LabelInProgress, Percent: 80},
		},
		{
			name: "no invoice, awaiting pickup",
			in: progress.ShipmentRecord{
				RawStatus:    progress.StatusAwaitingPickup,
				Destinations: []progress.Destination{dest("", "")},
			},
			want: progress.Derived{Label: progress.StatusAwaitingPickup, Percent: 20},
		},
		{
			name: "no invoice, booking confirmed",
			in: progress.ShipmentRecord{
				RawStatus:    progress.StatusBookingConfirmed,
				Destinations: []progress.Destination{dest("", "")},
			},
			want: progress.Derived{Label: progress.StatusBookingConfirmed, Percent: 10},
		},
		{
			name: "invoice unpaid passes raw status through at 20",
			in: progress.ShipmentRecord{
				RawStatus:    progress.StatusAwaitingPickup,
				Invoice:      unpaidInvoice(),
				Destinations: []progress.Destination{dest("", "")},
			},
			want: progress.Derived{Label: progress.StatusAwaitingPickup, Percent: 20},
		},
		{
			name: "non-paid rich status counts as unpaid",
			in: progress.ShipmentRecord{
				RawStatus:    progress.StatusAwaitingPickup,
				Invoice:      &progress.Invoice{Status: "pending_review"},
				Destinations: []progress.Destination{dest("FBA15X", "")},
			},
			want: progress.Derived{Label: progress.StatusAwaitingPickup, Percent: 20},
		},
		{
			name: "paid with a missing ID overrides in transit",
			in: progress.ShipmentRecord{
				RawStatus: progress.StatusInTransit,
				Invoice:   paidInvoice(),
				Destinations: []progress.Destination{
					dest("FBA15X", ""),
					dest("", ""),
				},
			},
			want: progress.Derived{Label: progress.LabelMissingIDs, Percent: 30, MissingIDs: true},
		},
		{
			name: "paid, IDs complete, in transit",
			in: progress.ShipmentRecord{
				RawStatus:    progress.StatusInTransit,
				Invoice:      paidInvoice(),
				Destinations: []progress.Destination{dest("FBA123", "")},
			},
			want: progress.Derived{Label: progress.LabelInProgress, Percent: 80},
		},
		{
			name: "paid, IDs complete, customs",
			in: progress.ShipmentRecord{
				RawStatus:    progress.StatusCustoms,
				Invoice:      paidInvoice(),
				Destinations: []progress.Destination{dest("FBA123", "")},
			},
			want: progress.Derived{Label: progress.LabelInProgress, Percent: 80},
		},
		{
			name: "paid, IDs complete, carrier has not picked up yet",
			in: progress.ShipmentRecord{
				RawStatus:    progress.StatusAwaitingPickup,
				Invoice:      paidInvoice(),
				Destinations: []progress.Destination{dest("FBA123", "")},
			},
			want: progress.Derived{Label: progress.LabelInProgress, Percent: 40},
		},
		{
			name: "paid, IDs complete, out for delivery",
			in: progress.ShipmentRecord{
				RawStatus:    progress.StatusOutForDelivery,
				Invoice:      paidInvoice(),
				Destinations: []progress.Destination{dest("FBA123", "")},
			},
			want: progress.Derived{Label: progress.LabelInProgress, Percent: 80},
		},
		{
			name: "paid, IDs complete, unrecognized raw status",
			in: progress.ShipmentRecord{
				RawStatus:    "Held At Port",
				Invoice:      paidInvoice(),
				Destinations: []progress.Destination{dest("FBA123", "")},
			},
			want: progress.Derived{Label: progress.LabelInProgress, Percent: 80},
		},
		{
			name: "unrecognized raw status without invoice passes through",
			in: progress.ShipmentRecord{
				RawStatus:    "Held At Port",
				Destinations: []progress.Destination{dest("", "")},
			},
			want: progress.Derived{Label: "Held At Port", Percent: 10},
		},
		{
			name: "paid but no destinations falls back to raw status",
			in: progress.ShipmentRecord{
				RawStatus: progress.StatusAwaitingPickup,
				Invoice:   paidInvoice(),
			},
			want: progress.Derived{Label: progress.StatusAwaitingPickup, Percent: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, progress.Derive(tt.in))
		})
	}
}

// Degenerate input must not panic and must follow the no-invoice rule.
func TestDerive_DegenerateInput(t *testing.T) {
	got := progress.Derive(progress.ShipmentRecord{
		RawStatus:    progress.StatusAwaitingPickup,
		Destinations: nil,
		Invoice:      nil,
	})
	assert.Equal(t, progress.Derived{Label: progress.StatusAwaitingPickup, Percent: 20}, got)

	assert.NotPanics(t, func() {
		progress.Derive(progress.ShipmentRecord{})
	})
	got = progress.Derive(progress.ShipmentRecord{})
	assert.Equal(t, "", got.Label)
	assert.Equal(t, 10, got.Percent)
	assert.False(t, got.MissingIDs)
}

func TestDerive_DeliveredDominance(t *testing.T) {
	invoices := []*progress.Invoice{nil, unpaidInvoice(), paidInvoice()}
	destinations := [][]progress.Destination{
		nil,
		{dest("", "")},
		{dest("FBA15X", "")},
		{dest("FBA15X", progress.DeliveryDelivered)},
	}

	for _, inv := range invoices {
		for _, dests := range destinations {
			got := progress.Derive(progress.ShipmentRecord{
				RawStatus:    progress.StatusDelivered,
				Invoice:      inv,
				Destinations: dests,
			})
			assert.Equal(t, progress.StatusDelivered, got.Label)
			assert.Equal(t, 100, got.Percent)
			assert.False(t, got.MissingIDs)
		}
	}
}

func TestDerive_MissingIDOverride(t *testing.T) {
	statuses := []string{
		progress.StatusBookingConfirmed,
		progress.StatusAwaitingPickup,
		progress.StatusInTransit,
		progress.StatusCustoms,
		progress.StatusOutForDelivery,
		"Held At Port",
	}
	for _, raw := range statuses {
		got := progress.Derive(progress.ShipmentRecord{
			RawStatus: raw,
			Invoice:   paidInvoice(),
			Destinations: []progress.Destination{
				dest("FBA15X", ""),
				dest("", ""),
			},
		})
		assert.Equal(t, progress.LabelMissingIDs, got.Label, "rawStatus=%s", raw)
		assert.Equal(t, 30, got.Percent, "rawStatus=%s", raw)
		assert.True(t, got.MissingIDs, "rawStatus=%s", raw)
	}
}

// A paid shipment with complete IDs must never show a lower percent than the
// same shipment unpaid or incomplete.
func TestDerive_PaymentMonotonicity(t *testing.T) {
	statuses := []string{
		progress.StatusBookingConfirmed,
		progress.StatusAwaitingPickup,
		progress.StatusInTransit,
		progress.StatusCustoms,
		progress.StatusOutForDelivery,
	}
	for _, raw := range statuses {
		before := progress.Derive(progress.ShipmentRecord{
			RawStatus:    raw,
			Invoice:      unpaidInvoice(),
			Destinations: []progress.Destination{dest("", "")},
		})
		after := progress.Derive(progress.ShipmentRecord{
			RawStatus:    raw,
			Invoice:      paidInvoice(),
			Destinations: []progress.Destination{dest("FBA15X", "")},
		})
		assert.GreaterOrEqual(t, after.Percent, before.Percent, "rawStatus=%s", raw)
	}
}

func TestDerive_Deterministic(t *testing.T) {
	in := progress.ShipmentRecord{
		RawStatus: progress.StatusInTransit,
		Invoice:   paidInvoice(),
		Destinations: []progress.Destination{
			dest("FBA15X", ""),
			dest("", ""),
		},
	}
	first := progress.Derive(in)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, progress.Derive(in))
	}
}

func TestDeriveDestination(t *testing.T) {
	base := progress.ShipmentRecord{
		RawStatus: progress.StatusInTransit,
		Invoice:   paidInvoice(),
		Destinations: []progress.Destination{
			dest("FBA15X", ""),
			dest("", ""),
		},
	}

	tests := []struct {
		name string
		s    progress.ShipmentRecord
		d    progress.Destination
		want progress.Derived
	}{
		{
			name: "own ID present ignores sibling's missing ID",
			s:    base,
			d:    dest("FBA15X", ""),
			want: progress.Derived{Label: progress.LabelInProgress, Percent: 80},
		},
		{
			name: "own ID missing",
			s:    base,
			d:    dest("", ""),
			want: progress.Derived{Label: progress.LabelMissingIDs, Percent: 30, MissingIDs: true},
		},
		{
			name: "own leg delivered while shipment still in transit",
			s:    base,
			d:    dest("FBA15X", progress.DeliveryDelivered),
			want: progress.Derived{Label: progress.StatusDelivered, Percent: 100},
		},
		{
			name: "shipment cancelled",
			s:    progress.ShipmentRecord{RawStatus: progress.StatusCancelled, Invoice: paidInvoice()},
			d:    dest("FBA15X", ""),
			want: progress.Derived{Label: progress.StatusCancelled, Percent: 0},
		},
		{
			name: "no invoice yet",
			s:    progress.ShipmentRecord{RawStatus: progress.StatusAwaitingPickup},
			d:    dest("", ""),
			want: progress.Derived{Label: progress.StatusAwaitingPickup, Percent: 20},
		},
		{
			name: "unpaid invoice",
			s:    progress.ShipmentRecord{RawStatus: progress.StatusInTransit, Invoice: unpaidInvoice()},
			d:    dest("FBA15X", ""),
			want: progress.Derived{Label: progress.StatusInTransit, Percent: 20},
		},
		{
			name: "paid, awaiting pickup",
			s:    progress.ShipmentRecord{RawStatus: progress.StatusAwaitingPickup, Invoice: paidInvoice()},
			d:    dest("FBA15X", ""),
			want: progress.Derived{Label: progress.LabelInProgress, Percent: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, progress.DeriveDestination(tt.s, tt.d))
		})
	}
}

func TestKnownRawStatus(t *testing.T) {
	for _, s := range []string{
		progress.StatusBookingConfirmed,
		progress.StatusAwaitingPickup,
		progress.StatusInTransit,
		progress.StatusCustoms,
		progress.StatusOutForDelivery,
		progress.StatusDelivered,
		progress.StatusCancelled,
	} {
		assert.True(t, progress.KnownRawStatus(s), s)
	}
	assert.False(t, progress.KnownRawStatus("Held At Port"))
	assert.False(t, progress.KnownRawStatus(""))
	assert.False(t, progress.KnownRawStatus("delivered"))
}
