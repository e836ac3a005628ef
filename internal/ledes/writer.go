package ledes

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ledesdomain "github.com/casekit/lexbill/internal/ledesconfig/domain"
	"github.com/gosimple/slug"
)

var ErrUnsupportedFormat = errors.New("unsupported_format")

type EntryType string

const (
	EntryTypeFee     EntryType = "F"
	EntryTypeExpense EntryType = "E"
)

type Entry struct {
	Date            time.Time
	Type            EntryType
	FirmCode        string
	Units           float64
	UnitCostCents   int64
	AmountCents     int64
	TimekeeperID    string
	TimekeeperName  string
	TimekeeperClass string
	Description     string
}

type Invoice struct {
	InvoiceNumber  string
	InvoiceDate    time.Time
	Description    string
	LawFirmID      string
	MatterID       string
	ClientMatterID string
	BillingStart   time.Time
	BillingEnd     time.Time
	Entries        []Entry
}

// header is the standard LEDES 1998B field list; column order is fixed by
// the format, not by us.
const header = "INVOICE_DATE|INVOICE_NUMBER|CLIENT_ID|LAW_FIRM_MATTER_ID|" +
	"INVOICE_TOTAL|BILLING_START_DATE|BILLING_END_DATE|INVOICE_DESCRIPTION|" +
	"LINE_ITEM_NUMBER|EXP/FEE/INV_ADJ_TYPE|LINE_ITEM_NUMBER_OF_UNITS|" +
	"LINE_ITEM_ADJUSTMENT_AMOUNT|LINE_ITEM_TOTAL|LINE_ITEM_DATE|" +
	"LINE_ITEM_TASK_CODE|LINE_ITEM_EXPENSE_CODE|LINE_ITEM_ACTIVITY_CODE|" +
	"TIMEKEEPER_ID|LINE_ITEM_DESCRIPTION|LAW_FIRM_ID|LINE_ITEM_UNIT_COST|" +
	"TIMEKEEPER_NAME|TIMEKEEPER_CLASSIFICATION|CLIENT_MATTER_ID[]"

// WriteInvoice renders the invoice as LEDES 1998B against a validated export
// configuration. Firm task codes are resolved through the configuration's
// UTBMS mapping, falling back to the configured defaults. Formats other than
// LEDES1998B are not rendered here.
func WriteInvoice(cfg *ledesdomain.Response, inv Invoice, w io.Writer) error {
	if cfg.Format != ledesdomain.FormatLEDES1998B {
		return ErrUnsupportedFormat
	}

	if _, err := fmt.Fprint(w, "LEDES1998B[]\r\n", header, "\r\n"); err != nil {
		return err
	}

	var totalCents int64
	for _, entry := range inv.Entries {
		totalCents += entry.AmountCents
	}

	for i, entry := range inv.Entries {
		taskCode, expenseCode := resolveCodes(cfg.UTBMSMapping, entry)

		fields := []string{
			formatDate(inv.InvoiceDate),
			inv.InvoiceNumber,
			cfg.ClientID,
			inv.MatterID,
			formatAmount(totalCents),
			formatDate(inv.BillingStart),
			formatDate(inv.BillingEnd),
			inv.Description,
			fmt.Sprintf("%d", i+1),
			string(entry.Type),
			formatUnits(entry.Units),
			"0.00",
			formatAmount(entry.AmountCents),
			formatDate(entry.Date),
			taskCode,
			expenseCode,
			"",
			entry.TimekeeperID,
			sanitizeField(entry.Description),
			inv.LawFirmID,
			formatAmount(entry.UnitCostCents),
			sanitizeField(entry.TimekeeperName),
			entry.TimekeeperClass,
			inv.ClientMatterID,
		}
		if _, err := fmt.Fprint(w, strings.Join(fields, "|"), "[]\r\n"); err != nil {
			return err
		}
	}

	return nil
}

// ExportFileName builds a stable, filesystem-safe name for an export.
func ExportFileName(clientName string, date time.Time) string {
	return fmt.Sprintf("%s-ledes1998b-%s.txt", slug.Make(clientName), date.Format("20060102"))
}

func resolveCodes(m ledesdomain.UTBMSMapping, entry Entry) (taskCode, expenseCode string) {
	switch entry.Type {
	case EntryTypeExpense:
		if code, ok := m.ExpenseCodes[entry.FirmCode]; ok {
			return "", code
		}
		return "", m.DefaultExpenseCode
	default:
		if code, ok := m.ActivityCodes[entry.FirmCode]; ok {
			return code, ""
		}
		return m.DefaultActivityCode, ""
	}
}

func formatDate(t time.Time) string {
	return t.Format("20060102")
}

func formatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func formatUnits(units float64) string {
	return fmt.Sprintf("%.2f", units)
}

// sanitizeField strips the pipe delimiter out of free-text values.
func sanitizeField(s string) string {
	return strings.ReplaceAll(s, "|", " ")
}
