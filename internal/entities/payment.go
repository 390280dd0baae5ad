package entities

// PaymentIntent is the provisional payment created with the external processor
// before the user completes hosted checkout.
type PaymentIntent struct {
	ID       string
	Amount   int
	Currency string
}

// PaymentProof is the processor's signed callback for a completed payment. It
// is verified before any order row is created.
type PaymentProof struct {
	IntentID   string
	ExternalID string
	Signature  string
}
