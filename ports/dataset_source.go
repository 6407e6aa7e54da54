package ports

import (
	"context"

	"payslip/domain/payroll"
)

// DatasetSource loads the current salary dataset. Every call returns a fresh
// snapshot; implementations must not hand out shared mutable records.
type DatasetSource interface {
	Load(ctx context.Context) (*payroll.Dataset, error)
}

// DatasetSink replaces the serving dataset wholesale with raw spreadsheet bytes.
type DatasetSink interface {
	Replace(ctx context.Context, data []byte) error
}

// DatasetStore is the local serving location: readable and replaceable.
type DatasetStore interface {
	DatasetSource
	DatasetSink
}
