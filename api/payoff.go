package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/banachtech/phoenix/metrics"
	"github.com/banachtech/phoenix/payoff"
	"github.com/banachtech/phoenix/product"
	"github.com/banachtech/phoenix/store"
	"github.com/banachtech/phoenix/termsheet"
)

type payoffRequest struct {
	Product termsheet.Document           `json:"product" binding:"required"`
	Prices  map[string][]decimal.Decimal `json:"prices" binding:"required"`
}

// evaluatePayoff validates a term-sheet document, builds the product and
// evaluates it against the supplied price paths. Every successful run is
// persisted as an Evaluation.
func (server *Server) evaluatePayoff(c *gin.Context) {
	var req payoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if report := termsheet.Validate(req.Product); !report.Valid() {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "term sheet is not evaluable", "report": report})
		return
	}

	def, err := termsheet.Build(req.Product)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	engine, err := payoff.New(def)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	structure := structureOf(def)
	start := time.Now()
	result, err := engine.Calculate(product.NewPriceSet(req.Prices))
	metrics.EvaluationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EvaluationsTotal.WithLabelValues(structure, metrics.OutcomeError).Inc()
		status := http.StatusInternalServerError
		if errors.Is(err, product.ErrShape) || errors.Is(err, product.ErrDomain) {
			status = http.StatusBadRequest
		}
		c.AbortWithStatusJSON(status, errorResponse(err))
		return
	}
	metrics.EvaluationsTotal.WithLabelValues(structure, metrics.Outcome(result.Autocalled, result.KnockInBreached)).Inc()

	raw, err := json.Marshal(result)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	eval, err := server.store.InsertEvaluation(c, store.Evaluation{
		Product:         def.Name,
		StructureType:   structure,
		Autocalled:      result.Autocalled,
		KnockInBreached: result.KnockInBreached,
		TotalValue:      result.TotalValue,
		Result:          raw,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": eval.ID, "product": def.Name, "result": result})
}

// listEvaluations returns recent evaluation records, newest first.
func (server *Server) listEvaluations(c *gin.Context) {
	limit := int32(20)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(fmt.Errorf("invalid limit %q", raw)))
			return
		}
		limit = int32(n)
	}

	evals, err := server.store.ListEvaluations(c, limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"evaluations": evals, "count": len(evals)})
}

func structureOf(def product.Definition) string {
	if len(def.Underlyings) > 1 {
		return termsheet.StructureWorstOf
	}
	return termsheet.StructureSingle
}
