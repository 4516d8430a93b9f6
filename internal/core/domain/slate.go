package domain

// SlateStatus is the "sta" field of a decoded slate. It tells the engine
// which round of which negotiation shape an inbound slatepack belongs to.
type SlateStatus string

const (
	// SlateStatusS1 is an unsolicited standard send: the user opens a
	// deposit by pasting the first round of a send to the custodian.
	SlateStatusS1 SlateStatus = "S1"
	// SlateStatusS2 answers a withdrawal slate the engine issued.
	SlateStatusS2 SlateStatus = "S2"
	// SlateStatusI1 is an invoice issued by the user. The custodian never
	// pays user invoices; this status is always rejected.
	SlateStatusI1 SlateStatus = "I1"
	// SlateStatusI2 answers an invoice the engine issued for a deposit.
	SlateStatusI2 SlateStatus = "I2"
)

// Slate is the decoded form of a slatepack, reduced to the fields the engine
// dispatches on. The cryptographic payload stays opaque to this system.
type Slate struct {
	ID     string      `json:"id"`
	Status SlateStatus `json:"sta"`
	Amount int64       `json:"amt"`
}
