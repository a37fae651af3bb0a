package reporting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/documents"
)

const dateLayout = "2006-01-02"

// MovementSource lists stock movements created in [from, to).
type MovementSource interface {
	MovementsBetween(ctx context.Context, from, to time.Time) ([]models.StockMovement, error)
}

// Archive persists generated reports.
type Archive interface {
	SaveDailyReport(ctx context.Context, report models.DailyReceivingReport) error
}

// Ledger appends report rows to a spreadsheet range.
type Ledger interface {
	AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
}

// Notifier delivers the report text.
type Notifier interface {
	SendText(ctx context.Context, to, body string) ([]string, error)
}

// Option customizes the service.
type Option func(*Service)

// WithArchive stores every published report.
func WithArchive(a Archive) Option {
	return func(s *Service) { s.archive = a }
}

// WithLedger appends one row per branch to sheetRange on publish.
func WithLedger(l Ledger, sheetRange string) Option {
	return func(s *Service) {
		s.ledger = l
		s.ledgerRange = sheetRange
	}
}

// WithNotifier sends the formatted report to recipient on publish.
func WithNotifier(n Notifier, recipient string) Option {
	return func(s *Service) {
		s.notifier = n
		s.recipient = recipient
	}
}

// WithLocation sets the time zone days are cut in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the report creation clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service builds and distributes the daily receiving report.
type Service struct {
	source      MovementSource
	archive     Archive
	ledger      Ledger
	ledgerRange string
	notifier    Notifier
	recipient   string
	loc         *time.Location
	now         func() time.Time
	logger      *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(source MovementSource, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		source: source,
		loc:    time.UTC,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DayBounds returns the start and end of the calendar day containing t.
func (s *Service) DayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 0, 1)
}

type branchTotals struct {
	batches map[string]struct{}
	units   int
	cost    decimal.Decimal
}

// BuildDailyReport aggregates the goods received on the day containing day.
// Only inbound movements count; receipts are distinct batches.
func (s *Service) BuildDailyReport(ctx context.Context, day time.Time) (models.DailyReceivingReport, error) {
	start, end := s.DayBounds(day)

	movements, err := s.source.MovementsBetween(ctx, start, end)
	if err != nil {
		return models.DailyReceivingReport{}, fmt.Errorf("load movements: %w", err)
	}

	byBranch := make(map[string]*branchTotals)
	for _, m := range movements {
		if m.MovementType != models.MovementIn {
			continue
		}
		bt, ok := byBranch[m.BranchID]
		if !ok {
			bt = &branchTotals{batches: make(map[string]struct{})}
			byBranch[m.BranchID] = bt
		}
		bt.batches[m.BatchID] = struct{}{}
		bt.units += m.Quantity
		bt.cost = bt.cost.Add(m.TotalCost)
	}

	report := models.DailyReceivingReport{
		Date:      start,
		Branches:  make([]models.BranchReceiving, 0, len(byBranch)),
		CreatedAt: s.now(),
	}
	total := decimal.Zero
	for branchID, bt := range byBranch {
		report.Branches = append(report.Branches, models.BranchReceiving{
			BranchID:  branchID,
			Receipts:  len(bt.batches),
			Units:     bt.units,
			TotalCost: bt.cost.Round(2).InexactFloat64(),
		})
		report.Receipts += len(bt.batches)
		report.Units += bt.units
		total = total.Add(bt.cost)
	}
	report.TotalCost = total.Round(2).InexactFloat64()
	sort.Slice(report.Branches, func(i, j int) bool {
		return report.Branches[i].BranchID < report.Branches[j].BranchID
	})

	return report, nil
}

// FormatReport renders the report as a chat message.
func FormatReport(report models.DailyReceivingReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "สรุปการรับสินค้าประจำวันที่ %s\n", documents.FormatThaiDate(report.Date))
	if report.Receipts == 0 {
		b.WriteString("ไม่มีการรับสินค้า")
		return b.String()
	}
	for _, br := range report.Branches {
		fmt.Fprintf(&b, "- สาขา %s: %d ใบรับ, %d ชิ้น, %s บาท\n",
			br.BranchID, br.Receipts, br.Units, documents.FormatMoney(decimal.NewFromFloat(br.TotalCost)))
	}
	fmt.Fprintf(&b, "รวม: %d ใบรับ, %d ชิ้น, %s บาท",
		report.Receipts, report.Units, documents.FormatMoney(decimal.NewFromFloat(report.TotalCost)))
	return b.String()
}

// LedgerRows converts the report into spreadsheet rows, one per branch.
func LedgerRows(report models.DailyReceivingReport) [][]interface{} {
	date := report.Date.Format(dateLayout)
	rows := make([][]interface{}, 0, len(report.Branches))
	for _, br := range report.Branches {
		rows = append(rows, []interface{}{
			date,
			br.BranchID,
			br.Receipts,
			br.Units,
			decimal.NewFromFloat(br.TotalCost).StringFixed(2),
			report.CreatedAt.Format(time.RFC3339),
		})
	}
	return rows
}

// Publish sends the report to every configured sink. A failing sink does not
// stop the others; all failures are returned joined.
func (s *Service) Publish(ctx context.Context, report models.DailyReceivingReport) error {
	var errs []error

	if s.archive != nil {
		if err := s.archive.SaveDailyReport(ctx, report); err != nil {
			errs = append(errs, fmt.Errorf("archive report: %w", err))
		}
	}

	if s.ledger != nil && len(report.Branches) > 0 {
		if err := s.ledger.AppendRows(ctx, s.ledgerRange, LedgerRows(report)); err != nil {
			errs = append(errs, fmt.Errorf("append ledger rows: %w", err))
		}
	}

	if s.notifier != nil && s.recipient != "" {
		if _, err := s.notifier.SendText(ctx, s.recipient, FormatReport(report)); err != nil {
			errs = append(errs, fmt.Errorf("notify %s: %w", s.recipient, err))
		}
	}

	return errors.Join(errs...)
}

// RunDaily builds and publishes the report for the day containing day.
func (s *Service) RunDaily(ctx context.Context, day time.Time) (models.DailyReceivingReport, error) {
	report, err := s.BuildDailyReport(ctx, day)
	if err != nil {
		return models.DailyReceivingReport{}, err
	}

	s.logger.Info("daily receiving report built",
		zap.String("date", report.Date.Format(dateLayout)),
		zap.Int("receipts", report.Receipts),
		zap.Int("units", report.Units),
		zap.Float64("total_cost", report.TotalCost),
	)

	if err := s.Publish(ctx, report); err != nil {
		return report, err
	}
	return report, nil
}
