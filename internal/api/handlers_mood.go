package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/chillpill/chillpill/internal/api/respond"
	"github.com/chillpill/chillpill/internal/api/validate"
	"github.com/chillpill/chillpill/internal/mood"
)

// MoodHandler serves the mood tracker endpoints.
type MoodHandler struct {
	mood *mood.Analytics
	log  zerolog.Logger
}

func NewMoodHandler(m *mood.Analytics, log zerolog.Logger) *MoodHandler {
	return &MoodHandler{mood: m, log: log}
}

type sizeQuery struct {
	N int `validate:"min=0,max=1000"`
}

type rankingResponse struct {
	mood.Ranking
	Text string `json:"text"`
}

type averageResponse struct {
	mood.Average
	Text string `json:"text"`
}

type summaryResponse struct {
	Series  []mood.Point    `json:"series"`
	Lowest  rankingResponse `json:"lowest"`
	Highest rankingResponse `json:"highest"`
	Average averageResponse `json:"average"`
}

// sizeParam reads ?n=, falling back to def when absent.
func sizeParam(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("n")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		respond.WriteBadRequest(w, "n must be an integer")
		return 0, false
	}
	if err := validate.Struct(sizeQuery{N: n}); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return 0, false
	}
	return n, true
}

// Summary handles GET /api/mood
func (h *MoodHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.mood.Summary(r.Context())
	if err != nil {
		h.fail(w, err, "mood summary")
		return
	}
	respond.WriteJSON(w, http.StatusOK, summaryResponse{
		Series:  s.Series,
		Lowest:  rankingResponse{Ranking: s.Lowest, Text: s.Lowest.String()},
		Highest: rankingResponse{Ranking: s.Highest, Text: s.Highest.String()},
		Average: averageResponse{Average: s.Average, Text: s.Average.String()},
	})
}

// Series handles GET /api/mood/series
func (h *MoodHandler) Series(w http.ResponseWriter, r *http.Request) {
	points, err := h.mood.Series(r.Context())
	if err != nil {
		h.fail(w, err, "mood series")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"points": points, "count": len(points)})
}

// Lowest handles GET /api/mood/lowest
func (h *MoodHandler) Lowest(w http.ResponseWriter, r *http.Request) {
	n, ok := sizeParam(w, r, h.mood.RankingSize())
	if !ok {
		return
	}
	rk, err := h.mood.Lowest(r.Context(), n)
	if err != nil {
		h.fail(w, err, "lowest moments")
		return
	}
	respond.WriteJSON(w, http.StatusOK, rankingResponse{Ranking: rk, Text: rk.String()})
}

// Highest handles GET /api/mood/highest
func (h *MoodHandler) Highest(w http.ResponseWriter, r *http.Request) {
	n, ok := sizeParam(w, r, h.mood.RankingSize())
	if !ok {
		return
	}
	rk, err := h.mood.Highest(r.Context(), n)
	if err != nil {
		h.fail(w, err, "highest moments")
		return
	}
	respond.WriteJSON(w, http.StatusOK, rankingResponse{Ranking: rk, Text: rk.String()})
}

// Average handles GET /api/mood/average
func (h *MoodHandler) Average(w http.ResponseWriter, r *http.Request) {
	n, ok := sizeParam(w, r, h.mood.RecentWindow())
	if !ok {
		return
	}
	avg, err := h.mood.RecentAverage(r.Context(), n)
	if err != nil {
		h.fail(w, err, "recent average")
		return
	}
	respond.WriteJSON(w, http.StatusOK, averageResponse{Average: avg, Text: avg.String()})
}

func (h *MoodHandler) fail(w http.ResponseWriter, err error, what string) {
	h.log.Error().Stack().Err(err).Str("view", what).Msg("mood request failed")
	respond.WriteInternalError(w, "Failed to compute "+what)
}
