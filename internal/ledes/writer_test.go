package ledes

import (
	"strings"
	"testing"
	"time"

	ledesdomain "github.com/casekit/lexbill/internal/ledesconfig/domain"
	"github.com/stretchr/testify/assert"
)

func testConfig() *ledesdomain.Response {
	return &ledesdomain.Response{
		ID:         "01HZX5W9K2T4R8PDQ3M6V7N0AB",
		ClientID:   "ACME-001",
		ClientName: "Acme Corporation",
		Format:     ledesdomain.FormatLEDES1998B,
		UTBMSMapping: ledesdomain.UTBMSMapping{
			ActivityCodes:       map[string]string{"research": "L110"},
			ExpenseCodes:        map[string]string{"copies": "E101"},
			DefaultActivityCode: "L100",
			DefaultExpenseCode:  "E112",
		},
	}
}

func testInvoice() Invoice {
	return Invoice{
		InvoiceNumber:  "INV-2026-0042",
		InvoiceDate:    time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
		Description:    "March 2026 trademark services",
		LawFirmID:      "FIRM-77",
		MatterID:       "TM-RENEW-0099",
		ClientMatterID: "ACME-TM-12",
		BillingStart:   time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		BillingEnd:     time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
		Entries: []Entry{
			{
				Date:            time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
				Type:            EntryTypeFee,
				FirmCode:        "research",
				Units:           2.5,
				UnitCostCents:   35000,
				AmountCents:     87500,
				TimekeeperID:    "TK-01",
				TimekeeperName:  "J. Rivera",
				TimekeeperClass: "PT",
				Description:     "Prior-use research for Section 15 declaration",
			},
			{
				Date:          time.Date(2026, time.March, 12, 0, 0, 0, 0, time.UTC),
				Type:          EntryTypeExpense,
				FirmCode:      "court-run",
				Units:         1,
				UnitCostCents: 4500,
				AmountCents:   4500,
				Description:   "USPTO filing courier",
			},
		},
	}
}

func TestWriteInvoice_GoldenLines(t *testing.T) {
	var buf strings.Builder
	err := WriteInvoice(testConfig(), testInvoice(), &buf)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "LEDES1998B[]", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "INVOICE_DATE|INVOICE_NUMBER|CLIENT_ID|"))
	assert.True(t, strings.HasSuffix(lines[1], "CLIENT_MATTER_ID[]"))

	assert.Equal(t,
		"20260331|INV-2026-0042|ACME-001|TM-RENEW-0099|920.00|20260301|20260331|"+
			"March 2026 trademark services|1|F|2.50|0.00|875.00|20260310|L110||"+
			"|TK-01|Prior-use research for Section 15 declaration|FIRM-77|350.00|"+
			"J. Rivera|PT|ACME-TM-12[]",
		lines[2])

	// Unmapped firm code falls back to the default expense code.
	assert.Equal(t,
		"20260331|INV-2026-0042|ACME-001|TM-RENEW-0099|920.00|20260301|20260331|"+
			"March 2026 trademark services|2|E|1.00|0.00|45.00|20260312||E112|"+
			"||USPTO filing courier|FIRM-77|45.00|||ACME-TM-12[]",
		lines[3])
}

func TestWriteInvoice_NegativeAdjustmentKeepsSign(t *testing.T) {
	inv := testInvoice()
	inv.Entries = append(inv.Entries, Entry{
		Date:        time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC),
		Type:        EntryTypeFee,
		FirmCode:    "research",
		Units:       1,
		AmountCents: -50,
		Description: "Courtesy discount",
	})

	var buf strings.Builder
	assert.NoError(t, WriteInvoice(testConfig(), inv, &buf))

	// The credit line keeps its sign and the invoice total nets it out.
	assert.Contains(t, buf.String(), "|-0.50|")
	assert.Contains(t, buf.String(), "|919.50|")
}

func TestWriteInvoice_UnsupportedFormat(t *testing.T) {
	cfg := testConfig()
	cfg.Format = ledesdomain.FormatLEDESXML

	var buf strings.Builder
	err := WriteInvoice(cfg, testInvoice(), &buf)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Empty(t, buf.String())
}

func TestWriteInvoice_StripsDelimiterFromFreeText(t *testing.T) {
	inv := testInvoice()
	inv.Entries = inv.Entries[:1]
	inv.Entries[0].Description = "research | drafting"

	var buf strings.Builder
	assert.NoError(t, WriteInvoice(testConfig(), inv, &buf))
	assert.Contains(t, buf.String(), "research   drafting")
}

func TestExportFileName(t *testing.T) {
	name := ExportFileName("Acme Corporation, Ltd.", time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "acme-corporation-ltd-ledes1998b-20260331.txt", name)
}
