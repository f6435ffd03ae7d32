package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pokerun/leaderboard/internal/models"
	"github.com/pokerun/leaderboard/internal/service"
	"github.com/pokerun/leaderboard/pkg/logger"
	"go.uber.org/zap"
)

type RunHandler struct {
	runService *service.RunService
}

func NewRunHandler(runService *service.RunService) *RunHandler {
	return &RunHandler{
		runService: runService,
	}
}

type CreateRunRequest struct {
	Game          string   `json:"game" binding:"required"`
	RunTime       string   `json:"run_time" binding:"required"`
	PokedexStatus int      `json:"pokedex_status" binding:"required"`
	PokemonTeam   []string `json:"pokemon_team"`
	Observation   *string  `json:"observation"`
}

type PatchRunRequest struct {
	Game          *string  `json:"game"`
	RunTime       *string  `json:"run_time"`
	PokedexStatus *int     `json:"pokedex_status"`
	PokemonTeam   []string `json:"pokemon_team"`
	Observation   *string  `json:"observation"`
}

// currentUser returns the principal loaded by the auth middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("current_user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func runID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run id"})
		return 0, false
	}
	return uint(id), true
}

func (h *RunHandler) CreateRun(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.Warn("Create run request parsing failed",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	run, err := h.runService.CreateRun(service.CreateRunInput{
		Game:          req.Game,
		RunTime:       req.RunTime,
		PokedexStatus: req.PokedexStatus,
		PokemonTeam:   req.PokemonTeam,
		Observation:   req.Observation,
	}, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", "/api/runs/"+strconv.FormatUint(uint64(run.ID), 10))
	c.JSON(http.StatusCreated, newRunResponse(run))
}

func (h *RunHandler) GetAllRuns(c *gin.Context) {
	req := parsePageRequest(c, "id", false)
	page, err := h.runService.GetAllRuns(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRunPageResponse(page, req))
}

func (h *RunHandler) GetMyRuns(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	req := parsePageRequest(c, "id", false)
	page, err := h.runService.GetAllMyRuns(user, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRunPageResponse(page, req))
}

func (h *RunHandler) GetRunByID(c *gin.Context) {
	id, ok := runID(c)
	if !ok {
		return
	}

	run, err := h.runService.GetRunByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRunResponse(run))
}

func (h *RunHandler) UpdateRun(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, ok := runID(c)
	if !ok {
		return
	}

	var req PatchRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	run, err := h.runService.UpdateRun(id, service.PatchRunInput{
		Game:          req.Game,
		RunTime:       req.RunTime,
		PokedexStatus: req.PokedexStatus,
		PokemonTeam:   req.PokemonTeam,
		Observation:   req.Observation,
	}, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRunResponse(run))
}

func (h *RunHandler) DeleteRun(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, ok := runID(c)
	if !ok {
		return
	}

	if err := h.runService.DeleteRun(id, user); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RunHandler) GetRunsByGame(c *gin.Context) {
	req := parsePageRequest(c, "id", false)
	page, err := h.runService.FindByGame(c.Param("game"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRunPageResponse(page, req))
}

func (h *RunHandler) GetFastestRuns(c *gin.Context) {
	req := parsePageRequest(c, "runTime", false)
	page, err := h.runService.FindFastestRuns(c.Query("maxTime"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRunPageResponse(page, req))
}

func (h *RunHandler) GetByPokedexStatus(c *gin.Context) {
	minStatus, err := strconv.Atoi(c.Query("minStatus"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minStatus must be an integer"})
		return
	}

	req := parsePageRequest(c, "pokedexStatus", true)
	page, err := h.runService.FindByMinPokedexStatus(minStatus, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRunPageResponse(page, req))
}

func (h *RunHandler) GetByPokemonInTeam(c *gin.Context) {
	req := parsePageRequest(c, "id", false)
	page, err := h.runService.FindByPokemonInTeam(c.Query("pokemon"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRunPageResponse(page, req))
}

func (h *RunHandler) GetRunsCountByGame(c *gin.Context) {
	stats, err := h.runService.GetRunsCountByGame()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *RunHandler) GetAvgRunTimeByGame(c *gin.Context) {
	stats, err := h.runService.GetAvgRunTimeByGame()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *RunHandler) GetTopPokemonsUsed(c *gin.Context) {
	stats, err := h.runService.GetTopPokemonsUsed()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *RunHandler) ExportRunsToCsv(c *gin.Context) {
	csv, err := h.runService.ExportRunsToCsv()
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=runs.csv")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(csv))
}
