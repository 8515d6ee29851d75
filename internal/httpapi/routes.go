// Package httpapi is the gin HTTP surface over the deduction engine
// (spec.md §6 "External interfaces": find_next_hint, apply_hint,
// auto_solve). It mirrors
// ThoDHa-sudoku/api/internal/transport/http's RegisterRoutes shape: a
// package-level gin.Engine registration function, JSON request/response
// bodies via gin.H, errors logged with log.Printf and surfaced as plain
// JSON error bodies, never a panic.
package httpapi

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"starbattle/internal/engine"
	"starbattle/internal/model"
	"starbattle/internal/puzzlefmt"
	"starbattle/pkg/config"
	"starbattle/pkg/constants"
)

// RegisterRoutes wires the hint/apply/solve/health surface onto r.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, eng *engine.Engine) {
	r.GET("/health", healthHandler)

	api := r.Group("/api")
	{
		api.POST("/hint", hintHandler(eng))
		api.POST("/apply", applyHandler(eng))
		api.POST("/solve", solveHandler(eng, cfg))
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": constants.APIVersion,
	})
}

// puzzleRequest is the shared request shape every handler below parses:
// the puzzle string plus its shape (spec.md §6 puzzle input form).
type puzzleRequest struct {
	Puzzle         string `json:"puzzle" binding:"required"`
	StarsPerLine   int    `json:"stars_per_line" binding:"required"`
	StarsPerRegion int    `json:"stars_per_region" binding:"required"`
}

func parseRequestBoard(c *gin.Context, req puzzleRequest) (*model.BoardState, bool) {
	_, board, err := puzzlefmt.Parse(req.Puzzle, req.StarsPerLine, req.StarsPerRegion)
	if err != nil {
		log.Printf("ERROR [httpapi]: parsing puzzle: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return board, true
}

type hintResponse struct {
	Found       bool           `json:"found"`
	Technique   string         `json:"technique,omitempty"`
	Explanation string         `json:"explanation,omitempty"`
	Deductions  []deductionDTO `json:"deductions,omitempty"`
}

type deductionDTO struct {
	Kind string `json:"kind"`
	Cell int    `json:"cell,omitempty"`
	Cells []int `json:"cells,omitempty"`
}

func toDeductionDTOs(deds []model.Deduction) []deductionDTO {
	out := make([]deductionDTO, 0, len(deds))
	for _, d := range deds {
		dto := deductionDTO{}
		switch d.Kind {
		case model.ForceStar:
			dto.Kind, dto.Cell = constants.StateStar, d.Cell
		case model.ForceEmpty:
			dto.Kind, dto.Cell = constants.StateEmpty, d.Cell
		default:
			dto.Kind, dto.Cells = "exclusive_set", d.Cells
		}
		out = append(out, dto)
	}
	return out
}

func hintHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req puzzleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		board, ok := parseRequestBoard(c, req)
		if !ok {
			return
		}

		hint, err := eng.FindNextHint(c.Request.Context(), board)
		if err != nil {
			log.Printf("ERROR [httpapi]: find_next_hint: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if hint == nil {
			c.JSON(http.StatusOK, hintResponse{Found: false})
			return
		}
		c.JSON(http.StatusOK, hintResponse{
			Found:       true,
			Technique:   hint.TechniqueID,
			Explanation: hint.Explanation,
			Deductions:  toDeductionDTOs(hint.Deductions),
		})
	}
}

type applyRequest struct {
	puzzleRequest
	Technique string         `json:"technique" binding:"required"`
	Deductions []deductionDTO `json:"deductions" binding:"required"`
}

func applyHandler(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req applyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		board, ok := parseRequestBoard(c, req.puzzleRequest)
		if !ok {
			return
		}

		var deds []model.Deduction
		for _, dto := range req.Deductions {
			switch dto.Kind {
			case constants.StateStar:
				deds = append(deds, model.CellDeduction(dto.Cell, model.ForceStar))
			case constants.StateEmpty:
				deds = append(deds, model.CellDeduction(dto.Cell, model.ForceEmpty))
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": "apply: unsupported deduction kind " + dto.Kind})
				return
			}
		}

		hint := &engine.Hint{TechniqueID: req.Technique, Deductions: deds}
		if err := eng.ApplyHint(board, hint); err != nil {
			log.Printf("ERROR [httpapi]: apply_hint: %v", err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"puzzle": puzzlefmt.Render(board)})
	}
}

func solveHandler(eng *engine.Engine, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req puzzleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		board, ok := parseRequestBoard(c, req)
		if !ok {
			return
		}

		maxSteps := 0
		if cfg != nil {
			maxSteps = cfg.MaxAutoSolveSteps
		}
		result, err := eng.AutoSolve(c.Request.Context(), board, maxSteps)
		if err != nil {
			log.Printf("ERROR [httpapi]: auto_solve: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     result.Status,
			"iterations": result.Iterations,
			"puzzle":     puzzlefmt.Render(board),
		})
	}
}
