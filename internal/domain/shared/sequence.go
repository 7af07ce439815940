package shared

import "context"

// Document number prefixes handed to a SequenceGenerator
const (
	SequenceTransfer      = "TRF"
	SequenceSalesOrder    = "SO"
	SequencePurchaseOrder = "PO"
)

// SequenceGenerator hands out human readable document numbers such as
// SO-20260314-0007. Numbers are unique per prefix and calendar day.
type SequenceGenerator interface {
	Next(ctx context.Context, prefix string) (string, error)
}

// SequenceFloor reports the highest counter already persisted for prefix on
// day (YYYYMMDD), or zero when none exists. Generators consult it before
// issuing the first number of a day so a restart never reuses a number.
type SequenceFloor interface {
	LastIssued(ctx context.Context, prefix, day string) (int64, error)
}
