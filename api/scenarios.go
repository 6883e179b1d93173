package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/banachtech/phoenix/metrics"
	"github.com/banachtech/phoenix/payoff"
	"github.com/banachtech/phoenix/product"
	"github.com/banachtech/phoenix/scenario"
	"github.com/banachtech/phoenix/termsheet"
)

type scenarioInput struct {
	Description string                       `json:"description"`
	Paths       map[string][]decimal.Decimal `json:"paths" binding:"required"`
}

type scenariosRequest struct {
	Product     termsheet.Document       `json:"product" binding:"required"`
	Scenarios   map[string]scenarioInput `json:"scenarios"`
	Parallelism int                      `json:"parallelism"`
}

type scenarioOutcome struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Status      string         `json:"status"`
	Error       string         `json:"error,omitempty"`
	Result      *payoff.Result `json:"result,omitempty"`
}

// runScenarios evaluates a batch of hypothetical price histories against one
// product. Without an explicit set the canonical stress grid is used.
func (server *Server) runScenarios(c *gin.Context) {
	var req scenariosRequest
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

	var batch []scenario.Scenario
	if len(req.Scenarios) == 0 {
		batch = scenario.Defaults(def)
	} else {
		names := make([]string, 0, len(req.Scenarios))
		for name := range req.Scenarios {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			in := req.Scenarios[name]
			batch = append(batch, scenario.Scenario{
				Name:        name,
				Description: in.Description,
				Prices:      product.NewPriceSet(in.Paths),
			})
		}
	}

	parallelism := req.Parallelism
	if parallelism <= 0 {
		parallelism = server.config.Engine.Parallelism
	}
	runner := scenario.New(engine, scenario.WithParallelism(parallelism))
	outcomes, err := runner.Run(c, batch)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	structure := structureOf(def)
	resp := make([]scenarioOutcome, len(outcomes))
	for i, o := range outcomes {
		out := scenarioOutcome{Name: o.Name, Description: o.Description, Status: "ok", Result: o.Result}
		if o.Err != nil {
			out.Status = "error"
			out.Error = o.Err.Error()
			out.Result = nil
			metrics.EvaluationsTotal.WithLabelValues(structure, metrics.OutcomeError).Inc()
		} else {
			metrics.EvaluationsTotal.WithLabelValues(structure, metrics.Outcome(o.Result.Autocalled, o.Result.KnockInBreached)).Inc()
		}
		resp[i] = out
	}

	c.JSON(http.StatusOK, gin.H{
		"product":   def.Name,
		"scenarios": resp,
		"summary":   scenario.Summarize(outcomes, def.Notional),
	})
}
