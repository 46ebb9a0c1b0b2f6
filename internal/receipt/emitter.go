package receipt

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pos-billing/internal/core"
)

// BillsPath is where the operator is sent once a receipt is out.
const BillsPath = "/bills"

// Emission describes a stored receipt.
type Emission struct {
	Location string `json:"location"`
	Format   Format `json:"format"`
	Size     int    `json:"size"`
	Next     string `json:"next"`
}

// Options configures an Emitter. Navigate, when set, is called with
// BillsPath once Delay has passed after a successful emit.
type Options struct {
	Restaurant string
	Currency   string
	Delay      time.Duration
	Navigate   func(path string)
	Logger     *slog.Logger
}

// Emitter renders, stores, and then schedules the return to the bills list.
type Emitter struct {
	sink  Sink
	opts  Options
	now   func() time.Time
	after func(time.Duration, func()) *time.Timer
}

func NewEmitter(sink Sink, opts Options) *Emitter {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Emitter{sink: sink, opts: opts, now: time.Now, after: time.AfterFunc}
}

// Emit renders bill with its payment lines in format and stores it.
func (e *Emitter) Emit(ctx context.Context, bill core.Bill, lines []core.PaymentLine, format Format) (*Emission, error) {
	issued := e.now()
	pdf, err := Render(Document{
		Bill:       bill,
		Lines:      lines,
		Restaurant: e.opts.Restaurant,
		Currency:   e.opts.Currency,
		IssuedAt:   issued,
	}, format)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("bill-%d-%s-%s.pdf", bill.ID, format, issued.Format("20060102-150405"))
	loc, err := e.sink.Put(ctx, name, pdf)
	if err != nil {
		return nil, err
	}
	e.opts.Logger.Info("receipt emitted", "bill_id", bill.ID, "format", format, "location", loc, "bytes", len(pdf))

	if e.opts.Navigate != nil {
		e.after(e.opts.Delay, func() { e.opts.Navigate(BillsPath) })
	}
	return &Emission{Location: loc, Format: format, Size: len(pdf), Next: BillsPath}, nil
}
