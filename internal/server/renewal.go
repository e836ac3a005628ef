package server

import (
	"net/http"
	"strings"

	"github.com/casekit/lexbill/internal/providers/pdf"
	renewaldomain "github.com/casekit/lexbill/internal/renewal/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) CreateRenewalQuote(c *gin.Context) {
	var req renewaldomain.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.renewalSvc.Quote(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRenewalQuote(c *gin.Context) {
	resp, err := s.renewalSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetRenewalReceipt(c *gin.Context) {
	quote, err := s.renewalSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	clientName := strings.TrimSpace(c.Query("client_name"))
	reader, err := s.pdfProvider.GenerateReceipt(c.Request.Context(), pdf.ReceiptFromQuote(quote, clientName))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="receipt-`+quote.ID+`.pdf"`)
	c.DataFromReader(http.StatusOK, -1, "application/pdf", reader, nil)
}
