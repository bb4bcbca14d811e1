package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/flock-watch/internal/domain"
	"github.com/KasumiMercury/flock-watch/internal/service/ingest"
)

type EpisodeHandler struct {
	ingest *ingest.Service
}

func NewEpisodeHandler(ingestService *ingest.Service) *EpisodeHandler {
	return &EpisodeHandler{ingest: ingestService}
}

type episodeResponse struct {
	SubjectID      string                `json:"subjectId"`
	Count          int                   `json:"count"`
	Classification domain.Classification `json:"classification"`
	Alerted        bool                  `json:"alerted"`
}

func (h *EpisodeHandler) HandleGet(c *gin.Context) {
	subjectID := c.Param("subjectId")

	state, err := h.ingest.Episode(c.Request.Context(), subjectID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, episodeResponse{
		SubjectID:      subjectID,
		Count:          state.Count,
		Classification: state.Classification,
		Alerted:        state.Alerted,
	})
}
