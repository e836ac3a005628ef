package server

import (
	"bytes"
	"net/http"
	"time"

	"github.com/casekit/lexbill/internal/ledes"
	ledesdomain "github.com/casekit/lexbill/internal/ledesconfig/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateLedesConfiguration(c *gin.Context) {
	var req ledesdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ledesConfigSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLedesConfigurations(c *gin.Context) {
	var req ledesdomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ledesConfigSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeactivateLedesConfiguration(c *gin.Context) {
	if err := s.ledesConfigSvc.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deactivated": true}})
}

func (s *Server) GetLedesConfiguration(c *gin.Context) {
	resp, err := s.ledesConfigSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type exportEntryRequest struct {
	Date            time.Time `json:"date"`
	Type            string    `json:"type"`
	FirmCode        string    `json:"firm_code"`
	Units           float64   `json:"units"`
	UnitCostCents   int64     `json:"unit_cost_cents"`
	AmountCents     int64     `json:"amount_cents"`
	TimekeeperID    string    `json:"timekeeper_id"`
	TimekeeperName  string    `json:"timekeeper_name"`
	TimekeeperClass string    `json:"timekeeper_class"`
	Description     string    `json:"description"`
}

type exportInvoiceRequest struct {
	InvoiceNumber  string               `json:"invoice_number"`
	InvoiceDate    time.Time            `json:"invoice_date"`
	Description    string               `json:"description"`
	LawFirmID      string               `json:"law_firm_id"`
	MatterID       string               `json:"matter_id"`
	ClientMatterID string               `json:"client_matter_id"`
	BillingStart   time.Time            `json:"billing_start"`
	BillingEnd     time.Time            `json:"billing_end"`
	Entries        []exportEntryRequest `json:"entries"`
}

// ExportLedesInvoice renders a posted invoice as a LEDES file using the
// stored configuration's format and UTBMS mapping.
func (s *Server) ExportLedesInvoice(c *gin.Context) {
	var req exportInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	cfg, err := s.ledesConfigSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	inv := ledes.Invoice{
		InvoiceNumber:  req.InvoiceNumber,
		InvoiceDate:    req.InvoiceDate,
		Description:    req.Description,
		LawFirmID:      req.LawFirmID,
		MatterID:       req.MatterID,
		ClientMatterID: req.ClientMatterID,
		BillingStart:   req.BillingStart,
		BillingEnd:     req.BillingEnd,
	}
	for _, entry := range req.Entries {
		entryType := ledes.EntryTypeFee
		if entry.Type == string(ledes.EntryTypeExpense) {
			entryType = ledes.EntryTypeExpense
		}
		inv.Entries = append(inv.Entries, ledes.Entry{
			Date:            entry.Date,
			Type:            entryType,
			FirmCode:        entry.FirmCode,
			Units:           entry.Units,
			UnitCostCents:   entry.UnitCostCents,
			AmountCents:     entry.AmountCents,
			TimekeeperID:    entry.TimekeeperID,
			TimekeeperName:  entry.TimekeeperName,
			TimekeeperClass: entry.TimekeeperClass,
			Description:     entry.Description,
		})
	}

	var buf bytes.Buffer
	if err := ledes.WriteInvoice(cfg, inv, &buf); err != nil {
		AbortWithError(c, err)
		return
	}

	s.obsMetrics.RecordExport(c.Request.Context(), string(cfg.Format))

	fileName := ledes.ExportFileName(cfg.ClientName, inv.InvoiceDate)
	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}
