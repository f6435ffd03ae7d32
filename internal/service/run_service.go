package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/pokerun/leaderboard/internal/broker"
	"github.com/pokerun/leaderboard/internal/models"
	"github.com/pokerun/leaderboard/internal/repository"
	"github.com/pokerun/leaderboard/internal/utils"
	"github.com/pokerun/leaderboard/pkg/logger"
	"go.uber.org/zap"
)

const (
	maxGameLen        = 100
	maxObservationLen = 100
	topPokemonLimit   = 10
)

type CreateRunInput struct {
	Game          string
	RunTime       string
	PokedexStatus int
	PokemonTeam   []string
	Observation   *string
}

// PatchRunInput applies partial updates; nil fields are left untouched.
type PatchRunInput struct {
	Game          *string
	RunTime       *string
	PokedexStatus *int
	PokemonTeam   []string
	Observation   *string
}

type RunService struct {
	runRepo *repository.RunRepository
	events  broker.RunEventBroker
}

// NewRunService wires the repository and an optional run-event broker; a nil
// broker disables the live feed without affecting anything else.
func NewRunService(runRepo *repository.RunRepository, events broker.RunEventBroker) *RunService {
	return &RunService{
		runRepo: runRepo,
		events:  events,
	}
}

func (s *RunService) CreateRun(input CreateRunInput, owner *models.User) (*models.Run, error) {
	if strings.TrimSpace(input.Game) == "" {
		return nil, validationErr("game", "must not be blank")
	}
	if len(input.Game) > maxGameLen {
		return nil, validationErr("game", "must be at most 100 characters")
	}

	runTime, err := utils.ParseRunTime(input.RunTime)
	if err != nil {
		return nil, validationErr("runTime", "must be in hh:mm format")
	}

	if input.PokedexStatus < 1 {
		return nil, validationErr("pokedexStatus", "must be at least 1")
	}

	if input.Observation != nil && len(*input.Observation) > maxObservationLen {
		return nil, validationErr("observation", "must be at most 100 characters")
	}

	run := &models.Run{
		Game:          input.Game,
		PokedexStatus: input.PokedexStatus,
		PokemonTeam:   utils.EncodeTeam(input.PokemonTeam),
		Observation:   input.Observation,
		UserID:        owner.ID,
	}
	run.SetRunTime(runTime)

	if err := s.runRepo.CreateRun(run); err != nil {
		logger.Log.Error("Failed to create run",
			zap.String("game", input.Game),
			zap.Uint("user_id", owner.ID),
			zap.Error(err),
		)
		return nil, err
	}
	run.User = *owner

	s.publishRunCreated(run, owner)

	logger.Log.Info("Run created",
		zap.Uint("run_id", run.ID),
		zap.String("game", run.Game),
		zap.Uint("user_id", owner.ID),
	)

	return run, nil
}

// UpdateRun applies a partial patch. Only the owning user may update, and
// pokedex status only moves upward; a lower patch value is silently ignored.
func (s *RunService) UpdateRun(id uint, patch PatchRunInput, requester *models.User) (*models.Run, error) {
	run, err := s.runRepo.GetRunByID(id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, ErrRunNotFound
	}

	if run.UserID != requester.ID {
		logger.Log.Warn("Run update rejected: not the owner",
			zap.Uint("run_id", id),
			zap.Uint("owner_id", run.UserID),
			zap.Uint("requester_id", requester.ID),
		)
		return nil, ErrNotRunOwner
	}

	if patch.Game != nil {
		if strings.TrimSpace(*patch.Game) == "" {
			return nil, validationErr("game", "must not be blank")
		}
		if len(*patch.Game) > maxGameLen {
			return nil, validationErr("game", "must be at most 100 characters")
		}
		run.Game = *patch.Game
	}
	if patch.RunTime != nil {
		d, err := utils.ParseRunTime(*patch.RunTime)
		if err != nil {
			return nil, validationErr("runTime", "must be in hh:mm format")
		}
		run.SetRunTime(d)
	}
	if patch.PokedexStatus != nil && *patch.PokedexStatus >= run.PokedexStatus {
		run.PokedexStatus = *patch.PokedexStatus
	}
	if patch.PokemonTeam != nil {
		run.PokemonTeam = utils.EncodeTeam(patch.PokemonTeam)
	}
	if patch.Observation != nil {
		if len(*patch.Observation) > maxObservationLen {
			return nil, validationErr("observation", "must be at most 100 characters")
		}
		run.Observation = patch.Observation
	}

	if err := s.runRepo.SaveRun(run); err != nil {
		logger.Log.Error("Failed to update run",
			zap.Uint("run_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Run updated", zap.Uint("run_id", id), zap.Uint("user_id", requester.ID))
	return run, nil
}

func (s *RunService) DeleteRun(id uint, requester *models.User) error {
	run, err := s.runRepo.GetRunByID(id)
	if err != nil {
		return err
	}
	if run == nil {
		return ErrRunNotFound
	}

	if run.UserID != requester.ID {
		logger.Log.Warn("Run delete rejected: not the owner",
			zap.Uint("run_id", id),
			zap.Uint("owner_id", run.UserID),
			zap.Uint("requester_id", requester.ID),
		)
		return ErrNotRunOwner
	}

	if err := s.runRepo.DeleteRun(run); err != nil {
		logger.Log.Error("Failed to delete run",
			zap.Uint("run_id", id),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Run deleted", zap.Uint("run_id", id), zap.Uint("user_id", requester.ID))
	return nil
}

func (s *RunService) GetRunByID(id uint) (*models.Run, error) {
	run, err := s.runRepo.GetRunByID(id)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, ErrRunNotFound
	}
	return run, nil
}

func (s *RunService) GetAllRuns(req repository.PageRequest) (*repository.Page[models.Run], error) {
	return s.runRepo.GetAllRuns(req)
}

func (s *RunService) GetAllMyRuns(owner *models.User, req repository.PageRequest) (*repository.Page[models.Run], error) {
	return s.runRepo.GetRunsByOwner(owner.ID, req)
}

func (s *RunService) FindByGame(game string, req repository.PageRequest) (*repository.Page[models.Run], error) {
	return s.runRepo.GetRunsByGameIgnoreCase(game, req)
}

// FindFastestRuns validates maxTime at the boundary before it is converted for
// the query.
func (s *RunService) FindFastestRuns(maxTime string, req repository.PageRequest) (*repository.Page[models.Run], error) {
	d, err := utils.ParseRunTime(maxTime)
	if err != nil {
		return nil, validationErr("maxTime", "must be in hh:mm format")
	}
	return s.runRepo.GetRunsWithRunTimeAtMost(int64(d/time.Minute), req)
}

func (s *RunService) FindByMinPokedexStatus(minStatus int, req repository.PageRequest) (*repository.Page[models.Run], error) {
	if minStatus < 1 {
		return nil, validationErr("minStatus", "must be at least 1")
	}
	return s.runRepo.GetRunsWithPokedexAtLeast(minStatus, req)
}

func (s *RunService) FindByPokemonInTeam(pokemon string, req repository.PageRequest) (*repository.Page[models.Run], error) {
	if strings.TrimSpace(pokemon) == "" {
		return nil, validationErr("pokemon", "must not be blank")
	}
	return s.runRepo.GetRunsContainingTeamMember(pokemon, req)
}

func (s *RunService) GetRunsCountByGame() ([]repository.GameCount, error) {
	return s.runRepo.CountRunsByGame()
}

func (s *RunService) GetAvgRunTimeByGame() ([]repository.GameAvgRunTime, error) {
	return s.runRepo.AvgRunTimeByGame()
}

func (s *RunService) GetTopPokemonsUsed() ([]repository.TeamMemberUsage, error) {
	return s.runRepo.TopTeamMembersByUsage(topPokemonLimit)
}

// ExportRunsToCsv renders every run, unpaged. Run time uses the same hh:mm
// representation as the JSON responses, the team is pipe-delimited, and commas
// in the observation become spaces since fields are not quoted.
func (s *RunService) ExportRunsToCsv() (string, error) {
	runs, err := s.runRepo.GetAllRunsUnpaged()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("id,game,runTime,pokedexStatus,pokemonTeam,observation\n")
	for i := range runs {
		sb.WriteString(csvRow(&runs[i]))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

func csvRow(run *models.Run) string {
	team := strings.Join(utils.DecodeTeam(run.PokemonTeam), "|")

	observation := ""
	if run.Observation != nil {
		observation = strings.ReplaceAll(*run.Observation, ",", " ")
	}

	return strconv.FormatUint(uint64(run.ID), 10) + "," +
		run.Game + "," +
		utils.FormatRunTime(run.RunTime()) + "," +
		strconv.Itoa(run.PokedexStatus) + "," +
		team + "," +
		observation
}

func (s *RunService) publishRunCreated(run *models.Run, owner *models.User) {
	if s.events == nil {
		return
	}

	event := broker.RunEvent{
		RunID:    run.ID,
		Game:     run.Game,
		RunTime:  utils.FormatRunTime(run.RunTime()),
		Username: owner.Username,
	}
	// The live feed is best effort; a broker outage must not fail the write.
	if err := s.events.PublishRunCreated(event); err != nil {
		logger.Log.Warn("Failed to publish run event",
			zap.Uint("run_id", run.ID),
			zap.Error(err),
		)
	}
}
