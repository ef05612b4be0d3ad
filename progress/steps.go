package progress

// Step identifiers, in timeline order. The projector always returns exactly
// these five, in this order.
const (
	StepWaiting     = "waiting"
	StepPayment     = "payment"
	StepShipmentIDs = "shipment-ids"
	StepInProgress  = "in-progress"
	StepDelivered   = "delivered"
)

// Step is one milestone on the shipment-detail timeline.
type Step struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
}

// ProjectSteps expands a derived status into the fixed five-step checklist.
// Each step's completion is computed independently of the others, so a later
// step can be complete while an earlier one is not.
func ProjectSteps(s ShipmentRecord, derived Derived) []Step {
	paid := s.Invoice.Paid()
	idsProvided := paid && !anyMissingShipmentID(s.Destinations)
	moving := s.RawStatus == StatusInTransit || s.RawStatus == StatusCustoms

	return []Step{
		{ID: StepWaiting, Label: "Booking Confirmed", Completed: true},
		{ID: StepPayment, Label: "Payment Received", Completed: paid},
		{ID: StepShipmentIDs, Label: "Shipment IDs Provided", Completed: idsProvided},
		{ID: StepInProgress, Label: "In Progress", Completed: moving || (derived.Label == LabelInProgress && idsProvided)},
		{ID: StepDelivered, Label: "Delivered", Completed: s.RawStatus == StatusDelivered},
	}
}
