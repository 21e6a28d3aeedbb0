package httpapi

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ahrav/go-mandate/internal/allocation"
	"github.com/ahrav/go-mandate/internal/domain"
	"github.com/ahrav/go-mandate/internal/logging"
	"github.com/ahrav/go-mandate/internal/ports"
)

// ResultsController serves stored allocation results and triggers
// recomputation.
type ResultsController struct {
	results ports.ResultStore
	engine  *allocation.Engine
}

// NewResultsController creates a controller over the given result store
// and engine.
func NewResultsController(results ports.ResultStore, engine *allocation.Engine) *ResultsController {
	return &ResultsController{results: results, engine: engine}
}

// RegisterRoutes attaches the controller's endpoints to the router.
func (rc *ResultsController) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	api.GET("/years", rc.getYears)
	api.GET("/results/:year", rc.getResult)
	api.GET("/results/:year/roster", rc.getRoster)
	api.GET("/results/:year/summary", rc.getSummary)
	api.GET("/results/:year/federal", rc.getFederal)
	api.GET("/results/:year/states", rc.getStates)
	api.GET("/results/:year/closest-winners", rc.getClosestWinners)

	admin := api.Group("/admin", AdminAuthMiddleware())
	admin.POST("/results/:year/compute", rc.computeResult)
}

func (rc *ResultsController) getYears(c *gin.Context) {
	years, err := rc.results.Years(c.Request.Context())
	if err != nil {
		logging.Log.Errorf("listing years: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": years})
}

func (rc *ResultsController) getResult(c *gin.Context) {
	result, ok := rc.loadResult(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

func (rc *ResultsController) getRoster(c *gin.Context) {
	result, ok := rc.loadResult(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"year":   result.Year,
		"seats":  len(result.Roster),
		"roster": result.Roster,
	})
}

func (rc *ResultsController) getSummary(c *gin.Context) {
	result, ok := rc.loadResult(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"year":      result.Year,
		"parties":   result.PartySummaries,
		"seat_type": result.SeatsByType(),
	})
}

func (rc *ResultsController) getFederal(c *gin.Context) {
	result, ok := rc.loadResult(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": result.Year, "federal": result.FederalDistribution})
}

func (rc *ResultsController) getStates(c *gin.Context) {
	result, ok := rc.loadResult(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": result.Year, "states": result.StateDistribution})
}

// getClosestWinners lists the direct mandates with the narrowest
// first-vote share, an analytics read over the stored roster.
func (rc *ResultsController) getClosestWinners(c *gin.Context) {
	result, ok := rc.loadResult(c)
	if !ok {
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	direct := make([]domain.SeatRosterEntry, 0, len(result.Roster))
	for _, entry := range result.Roster {
		if entry.Type == domain.SeatDirectMandate || entry.Type == domain.SeatDirectMandateNonQualified {
			direct = append(direct, entry)
		}
	}
	sort.Slice(direct, func(i, j int) bool {
		if direct[i].FirstVotePct != direct[j].FirstVotePct {
			return direct[i].FirstVotePct < direct[j].FirstVotePct
		}
		return direct[i].PersonID < direct[j].PersonID
	})
	if len(direct) > limit {
		direct = direct[:limit]
	}

	c.JSON(http.StatusOK, gin.H{"year": result.Year, "closest_winners": direct})
}

// computeResult runs the allocation for the requested year and replaces
// the stored result atomically. The computation is idempotent, so a
// repeated trigger on unchanged input is harmless.
func (rc *ResultsController) computeResult(c *gin.Context) {
	year, ok := rc.parseYear(c)
	if !ok {
		return
	}

	result, err := rc.engine.ComputeSeatAllocation(c.Request.Context(), year)
	if err != nil {
		var stageErr *domain.StageError
		if errors.As(err, &stageErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "allocation failed",
				"stage": stageErr.Stage,
			})
			return
		}
		logging.Log.Errorf("computing year %d: %v", year, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if err := rc.results.ReplaceResult(c.Request.Context(), result); err != nil {
		logging.Log.Errorf("storing result for year %d: %v", year, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":   result.Year,
		"run_id": result.RunID,
		"seats":  len(result.Roster),
	})
}

func (rc *ResultsController) parseYear(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return 0, false
	}
	return year, true
}

func (rc *ResultsController) loadResult(c *gin.Context) (*domain.Result, bool) {
	year, ok := rc.parseYear(c)
	if !ok {
		return nil, false
	}

	result, err := rc.results.GetResult(c.Request.Context(), year)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no result for year"})
			return nil, false
		}
		logging.Log.Errorf("loading result for year %d: %v", year, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}
	return result, true
}
