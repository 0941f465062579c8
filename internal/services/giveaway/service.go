package giveaway

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/streamlot/giveabot/internal/models"
	scoreboardService "github.com/streamlot/giveabot/internal/services/scoreboard"
	"go.uber.org/zap"
)

const (
	defaultRollMax           = 1000
	defaultPunishmentPercent = 25
)

// service implements the Service interface. One mutex serializes every
// state-mutating operation: Draw reads and mutates scoreboard records that
// a concurrent Enter could also be touching.
type service struct {
	config *Config

	mu sync.Mutex

	isOpen   bool
	roundID  string
	entrants map[string]*models.UserRecord
	order    []string

	lastWinner       string
	lastWinnerRoll   int
	lastWinnerStreak int
	winnerConfirmed  bool
}

// New creates a new giveaway service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Scoreboard == nil {
		return nil, ErrNilScoreboard
	}

	if cfg.IgnoreList == nil {
		return nil, ErrNilIgnoreList
	}

	if cfg.Roller == nil {
		return nil, ErrNilRoller
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}

	if cfg.RollMax <= 0 {
		cfg.RollMax = defaultRollMax
	}

	if cfg.PunishmentPercent <= 0 {
		cfg.PunishmentPercent = defaultPunishmentPercent
	}

	return &service{
		config:   cfg,
		entrants: make(map[string]*models.UserRecord),
	}, nil
}

// Open starts a fresh round
func (s *service) Open(ctx context.Context) (*OpenOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isOpen {
		s.config.Logger.Warn("ignoring open, round is already open",
			zap.String("round_id", s.roundID))
		return nil, ErrRoundAlreadyOpen
	}

	output := &OpenOutput{}

	// A winner left pending from the previous round is confirmed before
	// anything else, so their luck cannot carry into the new round
	if s.pendingWinner() {
		confirmed, err := s.confirmLocked(ctx)
		if err != nil {
			return nil, err
		}
		output.ConfirmedPrevious = confirmed
	}

	if err := s.config.Scoreboard.Load(ctx); err != nil {
		return nil, err
	}

	s.isOpen = true
	s.roundID = s.config.UUIDGenerator.NewUUID()
	s.entrants = make(map[string]*models.UserRecord)
	s.order = nil
	s.lastWinner = ""
	s.lastWinnerRoll = 0
	s.lastWinnerStreak = 0
	s.winnerConfirmed = false

	output.RoundID = s.roundID

	s.config.Logger.Info("round opened", zap.String("round_id", s.roundID))
	return output, nil
}

// Reopen extends a prematurely closed round. The scoreboard is not
// reloaded and entrants and any pending winner are kept.
func (s *service) Reopen(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isOpen {
		s.config.Logger.Warn("ignoring reopen, round is already open",
			zap.String("round_id", s.roundID))
		return ErrRoundAlreadyOpen
	}

	s.isOpen = true

	s.config.Logger.Info("round reopened",
		zap.String("round_id", s.roundID),
		zap.Int("entrants", len(s.entrants)))
	return nil
}

// Close stops admissions and persists the scoreboard
func (s *service) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isOpen {
		s.config.Logger.Warn("ignoring close, round is not open")
		return ErrRoundNotOpen
	}

	if err := s.config.Scoreboard.Save(ctx); err != nil {
		return err
	}

	s.isOpen = false

	s.config.Logger.Info("round closed",
		zap.String("round_id", s.roundID),
		zap.Int("entrants", len(s.entrants)))
	return nil
}

// Enter admits a chatter into the current round
func (s *service) Enter(ctx context.Context, input *EnterInput) (*EnterOutput, error) {
	if input == nil || input.Name == "" {
		return nil, scoreboardService.ErrEmptyName
	}

	name := strings.ToLower(strings.TrimSpace(input.Name))

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isOpen {
		s.config.Logger.Warn("rejecting entry, round is not open",
			zap.String("name", name))
		return nil, ErrRoundNotOpen
	}

	if _, ok := s.entrants[name]; ok {
		s.config.Logger.Warn("rejecting duplicate entry",
			zap.String("round_id", s.roundID),
			zap.String("name", name))
		return nil, ErrAlreadyEntered
	}

	if s.config.IgnoreList.Contains(name) {
		s.config.Logger.Warn("rejecting ignored user",
			zap.String("round_id", s.roundID),
			zap.String("name", name))
		return nil, ErrIgnoredUser
	}

	output, err := s.config.Scoreboard.Add(ctx, &scoreboardService.AddInput{Name: name})
	if err != nil {
		// The admission fails rather than entering the user with a
		// stale or guessed tier
		return nil, err
	}

	s.entrants[name] = output.Record
	s.order = append(s.order, name)

	s.config.Logger.Info("user entered round",
		zap.String("round_id", s.roundID),
		zap.String("name", name),
		zap.Int("luck", output.Record.Luck),
		zap.Int("tier_bonus", output.Record.TierBonus))

	return &EnterOutput{Record: output.Record}, nil
}

// Draw picks the weighted winner among the entrants of a closed round.
// Every entrant rolls uniform(1, RollMax)+luck+tierBonus and the highest
// total wins; a tie goes to whoever entered first.
func (s *service) Draw(ctx context.Context) (*DrawOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isOpen {
		s.config.Logger.Warn("ignoring draw, round is still open",
			zap.String("round_id", s.roundID))
		return nil, ErrRoundStillOpen
	}

	if len(s.entrants) == 0 {
		s.config.Logger.Warn("ignoring draw, round has no entrants",
			zap.String("round_id", s.roundID))
		return nil, ErrNoEntrants
	}

	output := &DrawOutput{}

	// A winner who never claimed the previous prize loses a share of
	// their accumulated luck before the new rolls are computed
	if s.pendingWinner() {
		if _, err := s.config.Scoreboard.Punish(ctx, &scoreboardService.PunishInput{
			Name:    s.lastWinner,
			Percent: s.config.PunishmentPercent,
		}); err != nil {
			return nil, err
		}
		output.PunishedPrevious = s.lastWinner
	}

	winner := ""
	winningTotal := 0
	winningStreak := 0

	for _, name := range s.order {
		record := s.currentRecord(ctx, name)
		if record == nil {
			continue
		}

		total := s.config.Roller.Roll(s.config.RollMax) + record.Luck + record.TierBonus

		s.config.Logger.Debug("draw roll",
			zap.String("round_id", s.roundID),
			zap.String("name", name),
			zap.Int("total", total))

		// Strictly greater: a tie keeps the earlier entrant
		if total > winningTotal {
			winner = name
			winningTotal = total
			winningStreak = record.RoundsSinceWin
		}
	}

	delete(s.entrants, winner)
	for i, name := range s.order {
		if name == winner {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.lastWinner = winner
	s.lastWinnerRoll = winningTotal
	s.lastWinnerStreak = winningStreak
	s.winnerConfirmed = false

	result := &models.DrawResult{
		RoundID:        s.roundID,
		Winner:         winner,
		WinningRoll:    winningTotal,
		RoundsSinceWin: winningStreak,
		Entrants:       len(s.entrants) + 1,
		DrawnAt:        s.config.Clock.Now(),
	}
	output.Result = result

	s.config.Logger.Info("winner drawn",
		zap.String("round_id", s.roundID),
		zap.String("winner", winner),
		zap.Int("roll", winningTotal),
		zap.Int("rounds_since_win", winningStreak))

	return output, nil
}

// ConfirmWinner acknowledges the drawn winner claimed their prize.
// Calling it with no pending winner is a no-op, so double confirmation
// is harmless.
func (s *service) ConfirmWinner(ctx context.Context) (*ConfirmWinnerOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pendingWinner() {
		s.config.Logger.Warn("ignoring confirm, no pending winner")
		return &ConfirmWinnerOutput{Confirmed: false}, nil
	}

	winner, err := s.confirmLocked(ctx)
	if err != nil {
		return nil, err
	}

	return &ConfirmWinnerOutput{Confirmed: true, Winner: winner}, nil
}

// IsParticipating reports whether a name is entered this round
func (s *service) IsParticipating(_ context.Context, input *IsParticipatingInput) (*IsParticipatingOutput, error) {
	if input == nil || input.Name == "" {
		return nil, scoreboardService.ErrEmptyName
	}

	name := strings.ToLower(strings.TrimSpace(input.Name))

	s.mu.Lock()
	_, ok := s.entrants[name]
	s.mu.Unlock()

	return &IsParticipatingOutput{Participating: ok}, nil
}

// IsOpen reports whether the round is collecting entries
func (s *service) IsOpen(_ context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}

// Entrants returns the current entrant names in entry order
func (s *service) Entrants(_ context.Context) (*EntrantsOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, len(s.order))
	copy(names, s.order)

	return &EntrantsOutput{Names: names}, nil
}

// LastWinner reports the most recent draw, if any
func (s *service) LastWinner(_ context.Context) (*LastWinnerOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &LastWinnerOutput{
		Winner:         s.lastWinner,
		Roll:           s.lastWinnerRoll,
		RoundsSinceWin: s.lastWinnerStreak,
		Pending:        s.pendingWinner(),
	}, nil
}

// UserStats reports a user's luck and tier edge relative to the roll range
func (s *service) UserStats(ctx context.Context, input *UserStatsInput) (*UserStatsOutput, error) {
	if input == nil || input.Name == "" {
		return nil, scoreboardService.ErrEmptyName
	}

	output, err := s.config.Scoreboard.Get(ctx, &scoreboardService.GetInput{Name: input.Name})
	if err != nil {
		return nil, err
	}

	record := output.Record
	return &UserStatsOutput{
		LuckPercent:     record.Luck * 100 / s.config.RollMax,
		TierPercent:     record.TierBonus * 100 / s.config.RollMax,
		LifetimeEntries: record.LifetimeEntries,
		RoundsSinceWin:  record.RoundsSinceWin,
	}, nil
}

// pendingWinner reports whether a drawn winner is still unconfirmed.
// Callers must hold the lock.
func (s *service) pendingWinner() bool {
	return s.lastWinner != "" && !s.winnerConfirmed
}

// confirmLocked resets the pending winner's luck and persists the
// scoreboard. Callers must hold the lock.
func (s *service) confirmLocked(ctx context.Context) (string, error) {
	winner := s.lastWinner

	if err := s.config.Scoreboard.Reset(ctx, &scoreboardService.ResetInput{Name: winner}); err != nil {
		return "", err
	}

	if err := s.config.Scoreboard.Save(ctx); err != nil {
		return "", err
	}

	s.winnerConfirmed = true

	s.config.Logger.Info("winner confirmed",
		zap.String("round_id", s.roundID),
		zap.String("winner", winner))

	return winner, nil
}

// currentRecord reads the entrant's live scoreboard record so the draw
// sees bumps and punishments applied after entry. The entry snapshot is
// the fallback if the record vanished from the store in between.
func (s *service) currentRecord(ctx context.Context, name string) *models.UserRecord {
	output, err := s.config.Scoreboard.Get(ctx, &scoreboardService.GetInput{Name: name})
	if err != nil {
		if !errors.Is(err, scoreboardService.ErrUserNotFound) {
			s.config.Logger.Warn("failed to read entrant record, using entry snapshot",
				zap.String("name", name),
				zap.Error(err))
		}
		return s.entrants[name]
	}
	return output.Record
}
