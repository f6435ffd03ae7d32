package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pokerun/leaderboard/internal/models"
	"github.com/pokerun/leaderboard/internal/repository"
	"github.com/pokerun/leaderboard/internal/utils"
)

type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func newUserSummary(user *models.User) UserSummary {
	return UserSummary{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// RunResponse is the read model: run time in the hh:mm wire format, team as a
// decoded list.
type RunResponse struct {
	ID            uint        `json:"id"`
	Game          string      `json:"game"`
	RunTime       string      `json:"run_time"`
	PokedexStatus int         `json:"pokedex_status"`
	PokemonTeam   []string    `json:"pokemon_team"`
	Observation   *string     `json:"observation"`
	Owner         UserSummary `json:"owner"`
}

func newRunResponse(run *models.Run) RunResponse {
	return RunResponse{
		ID:            run.ID,
		Game:          run.Game,
		RunTime:       utils.FormatRunTime(run.RunTime()),
		PokedexStatus: run.PokedexStatus,
		PokemonTeam:   utils.DecodeTeam(run.PokemonTeam),
		Observation:   run.Observation,
		Owner:         newUserSummary(&run.User),
	}
}

type RunPageResponse struct {
	Content       []RunResponse `json:"content"`
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	TotalElements int64         `json:"total_elements"`
	TotalPages    int           `json:"total_pages"`
}

func newRunPageResponse(page *repository.Page[models.Run], req repository.PageRequest) RunPageResponse {
	content := make([]RunResponse, 0, len(page.Content))
	for i := range page.Content {
		content = append(content, newRunResponse(&page.Content[i]))
	}
	return RunPageResponse{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
}

// parsePageRequest reads ?page=&size=&sort= where sort accepts an optional
// ",desc" suffix ("sort=runTime,desc").
func parsePageRequest(c *gin.Context, defaultSort string, defaultDesc bool) repository.PageRequest {
	req := repository.PageRequest{
		Size: repository.DefaultPageSize,
		Sort: defaultSort,
		Desc: defaultDesc,
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		req.Page = page
	}
	if size, err := strconv.Atoi(c.Query("size")); err == nil {
		req.Size = size
	}
	if sort := c.Query("sort"); sort != "" {
		key, direction, split := strings.Cut(sort, ",")
		req.Sort = key
		req.Desc = split && strings.EqualFold(direction, "desc")
	}

	return req.Normalized()
}
