package server

import (
	"net/http"

	leaddomain "github.com/casekit/lexbill/internal/leadscore/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ScoreLead(c *gin.Context) {
	var req leaddomain.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadScoreSvc.Score(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
