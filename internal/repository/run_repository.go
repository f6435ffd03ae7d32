package repository

import (
	"errors"
	"sort"
	"strings"

	"github.com/pokerun/leaderboard/internal/models"
	"gorm.io/gorm"
)

type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

// runSortColumns maps wire-level sort keys to real columns.
var runSortColumns = map[string]string{
	"id":            "id",
	"game":          "game",
	"runTime":       "run_time",
	"pokedexStatus": "pokedex_status",
	"createdAt":     "created_at",
}

func (p PageRequest) runOrder() string {
	column, ok := runSortColumns[p.Sort]
	if !ok {
		column = "id"
	}
	if p.Desc {
		return column + " DESC"
	}
	return column
}

func (r *RunRepository) CreateRun(run *models.Run) error {
	return r.db.Create(run).Error
}

func (r *RunRepository) SaveRun(run *models.Run) error {
	return r.db.Save(run).Error
}

func (r *RunRepository) DeleteRun(run *models.Run) error {
	return r.db.Delete(run).Error
}

func (r *RunRepository) GetRunByID(id uint) (*models.Run, error) {
	var run models.Run
	err := r.db.Preload("User").First(&run, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

// findRunPage runs the same scoped query twice: once for the total count, once
// for the page content.
func (r *RunRepository) findRunPage(req PageRequest, scope func(*gorm.DB) *gorm.DB) (*Page[models.Run], error) {
	req = req.Normalized()

	var total int64
	if err := scope(r.db.Model(&models.Run{})).Count(&total).Error; err != nil {
		return nil, err
	}

	var runs []models.Run
	err := scope(r.db.Preload("User")).
		Order(req.runOrder()).
		Offset(req.offset()).
		Limit(req.Size).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}

	return newPage(runs, total, req.Size), nil
}

func (r *RunRepository) GetAllRuns(req PageRequest) (*Page[models.Run], error) {
	return r.findRunPage(req, func(q *gorm.DB) *gorm.DB { return q })
}

func (r *RunRepository) GetRunsByGameIgnoreCase(game string, req PageRequest) (*Page[models.Run], error) {
	return r.findRunPage(req, func(q *gorm.DB) *gorm.DB {
		return q.Where("LOWER(game) = LOWER(?)", game)
	})
}

func (r *RunRepository) GetRunsByOwner(userID uint, req PageRequest) (*Page[models.Run], error) {
	return r.findRunPage(req, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

func (r *RunRepository) GetRunsWithRunTimeAtMost(maxMinutes int64, req PageRequest) (*Page[models.Run], error) {
	return r.findRunPage(req, func(q *gorm.DB) *gorm.DB {
		return q.Where("run_time <= ?", maxMinutes)
	})
}

func (r *RunRepository) GetRunsWithPokedexAtLeast(minStatus int, req PageRequest) (*Page[models.Run], error) {
	return r.findRunPage(req, func(q *gorm.DB) *gorm.DB {
		return q.Where("pokedex_status >= ?", minStatus)
	})
}

// GetRunsContainingTeamMember substring-matches the encoded team column. A
// match can false-positive across the comma delimiter; known imprecision.
func (r *RunRepository) GetRunsContainingTeamMember(name string, req PageRequest) (*Page[models.Run], error) {
	pattern := "%" + strings.ToLower(name) + "%"
	return r.findRunPage(req, func(q *gorm.DB) *gorm.DB {
		return q.Where("pokemon_team IS NOT NULL AND LOWER(pokemon_team) LIKE ?", pattern)
	})
}

// GetAllRunsUnpaged is used by the CSV export.
func (r *RunRepository) GetAllRunsUnpaged() ([]models.Run, error) {
	var runs []models.Run
	err := r.db.Order("id").Find(&runs).Error
	return runs, err
}

type GameCount struct {
	Game  string `json:"game"`
	Count int64  `json:"count"`
}

func (r *RunRepository) CountRunsByGame() ([]GameCount, error) {
	var rows []GameCount
	err := r.db.Model(&models.Run{}).
		Select("game, COUNT(*) AS count").
		Group("game").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

type GameAvgRunTime struct {
	Game       string  `json:"game"`
	AvgMinutes float64 `json:"avg_minutes"`
}

func (r *RunRepository) AvgRunTimeByGame() ([]GameAvgRunTime, error) {
	var rows []GameAvgRunTime
	err := r.db.Model(&models.Run{}).
		Select("game, AVG(run_time) AS avg_minutes").
		Group("game").
		Order("avg_minutes").
		Scan(&rows).Error
	return rows, err
}

type TeamMemberUsage struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// TopTeamMembersByUsage explodes the encoded team column and counts usage per
// name. The explode happens here rather than in SQL so the query works on both
// the production postgres and the sqlite test database.
func (r *RunRepository) TopTeamMembersByUsage(limit int) ([]TeamMemberUsage, error) {
	var teams []string
	err := r.db.Model(&models.Run{}).
		Where("pokemon_team IS NOT NULL AND pokemon_team <> ''").
		Pluck("pokemon_team", &teams).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, team := range teams {
		for _, name := range strings.Split(team, ",") {
			if name == "" {
				continue
			}
			counts[name]++
		}
	}

	usage := make([]TeamMemberUsage, 0, len(counts))
	for name, count := range counts {
		usage = append(usage, TeamMemberUsage{Name: name, Count: count})
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Count != usage[j].Count {
			return usage[i].Count > usage[j].Count
		}
		return usage[i].Name < usage[j].Name
	})

	if len(usage) > limit {
		usage = usage[:limit]
	}
	return usage, nil
}
