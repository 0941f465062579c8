package scoreboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/streamlot/giveabot/internal/models"
	scoreboardRepo "github.com/streamlot/giveabot/internal/repositories/scoreboard"
	"go.uber.org/zap"
)

const (
	defaultLuckBump       = 10
	defaultTier1Bonus     = 300
	defaultTier2Bonus     = 600
	defaultTier3Bonus     = 900
	defaultResolveTimeout = 5 * time.Second
)

// service implements the Service interface
type service struct {
	config *Config

	mu      sync.RWMutex
	records map[string]*models.UserRecord
}

// New creates a new scoreboard service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Repo == nil {
		return nil, ErrNilRepo
	}

	if cfg.Resolver == nil {
		return nil, ErrNilResolver
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}

	if cfg.LuckBump <= 0 {
		cfg.LuckBump = defaultLuckBump
	}

	if cfg.Tier1Bonus <= 0 {
		cfg.Tier1Bonus = defaultTier1Bonus
	}

	if cfg.Tier2Bonus <= 0 {
		cfg.Tier2Bonus = defaultTier2Bonus
	}

	if cfg.Tier3Bonus <= 0 {
		cfg.Tier3Bonus = defaultTier3Bonus
	}

	if cfg.ResolveTimeout <= 0 {
		cfg.ResolveTimeout = defaultResolveTimeout
	}

	return &service{
		config:  cfg,
		records: make(map[string]*models.UserRecord),
	}, nil
}

// Load replaces the in-memory scoreboard with the persisted contents
func (s *service) Load(ctx context.Context) error {
	output, err := s.config.Repo.LoadRecords(ctx)
	if err != nil {
		return fmt.Errorf("failed to load scoreboard: %w", err)
	}

	s.mu.Lock()
	s.records = output.Records
	s.mu.Unlock()

	s.config.Logger.Info("scoreboard loaded", zap.Int("users", len(output.Records)))
	return nil
}

// Save persists every record, atomically replacing the store
func (s *service) Save(ctx context.Context) error {
	s.mu.RLock()
	snapshot := make(map[string]*models.UserRecord, len(s.records))
	for name, record := range s.records {
		snapshot[name] = record.Clone()
	}
	s.mu.RUnlock()

	if err := s.config.Repo.SaveRecords(ctx, &scoreboardRepo.SaveRecordsInput{
		Records: snapshot,
	}); err != nil {
		return fmt.Errorf("failed to save scoreboard: %w", err)
	}

	s.config.Logger.Info("scoreboard saved", zap.Int("users", len(snapshot)))
	return nil
}

// Get retrieves a user's record without creating one
func (s *service) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.Name == "" {
		return nil, ErrEmptyName
	}

	s.mu.RLock()
	record, ok := s.records[canonical(input.Name)]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrUserNotFound
	}

	return &GetOutput{Record: record.Clone()}, nil
}

// Add records a round entry for a user. The user ID is resolved on first
// sight and cached; the tier bonus is refreshed on every entry. A failed
// lookup aborts the whole operation with no mutation, so a user whose tier
// cannot be resolved is never admitted with a stale weight.
func (s *service) Add(ctx context.Context, input *AddInput) (*AddOutput, error) {
	if input == nil || input.Name == "" {
		return nil, ErrEmptyName
	}

	name := canonical(input.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.records[name]

	userID := ""
	if existing != nil {
		userID = existing.UserID
	}

	resolveCtx, cancel := context.WithTimeout(ctx, s.config.ResolveTimeout)
	defer cancel()

	if userID == "" {
		resolved, err := s.config.Resolver.ResolveUserID(resolveCtx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve identity for %q: %w", name, err)
		}
		userID = resolved
	}

	tier, err := s.config.Resolver.GetSubscriptionTier(resolveCtx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tier for %q: %w", name, err)
	}

	now := s.config.Clock.Now()

	var record *models.UserRecord
	if existing != nil {
		existing.Luck += s.config.LuckBump
		existing.LifetimeEntries++
		existing.RoundsSinceWin++
		existing.UserID = userID
		existing.TierBonus = s.tierBonus(tier)
		existing.UpdatedAt = now
		record = existing
	} else {
		record = &models.UserRecord{
			Name:            name,
			UserID:          userID,
			Luck:            s.config.LuckBump,
			TierBonus:       s.tierBonus(tier),
			LifetimeEntries: 1,
			RoundsSinceWin:  1,
			UpdatedAt:       now,
		}
		s.records[name] = record
	}

	return &AddOutput{Record: record.Clone()}, nil
}

// Bump manually adds multiplier x bump luck to an existing user. An unknown
// name is dropped with a warning; manual bumps never create records.
func (s *service) Bump(_ context.Context, input *BumpInput) (*BumpOutput, error) {
	if input == nil || input.Name == "" {
		return nil, ErrEmptyName
	}

	name := canonical(input.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[name]
	if !ok {
		s.config.Logger.Warn("ignoring bump for unknown user", zap.String("name", name))
		return &BumpOutput{Applied: false}, nil
	}

	record.Luck += input.Multiplier * s.config.LuckBump
	if record.Luck < 0 {
		record.Luck = 0
	}
	record.UpdatedAt = s.config.Clock.Now()

	return &BumpOutput{Applied: true, NewLuck: record.Luck}, nil
}

// Reset zeroes luck and the win streak for a confirmed winner
func (s *service) Reset(_ context.Context, input *ResetInput) error {
	if input == nil || input.Name == "" {
		return ErrEmptyName
	}

	name := canonical(input.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[name]
	if !ok {
		s.config.Logger.Warn("ignoring reset for unknown user", zap.String("name", name))
		return nil
	}

	record.Luck = 0
	record.RoundsSinceWin = 0
	record.UpdatedAt = s.config.Clock.Now()

	return nil
}

// Punish strips a percentage of a user's luck, truncating toward zero
func (s *service) Punish(_ context.Context, input *PunishInput) (*PunishOutput, error) {
	if input == nil || input.Name == "" {
		return nil, ErrEmptyName
	}

	percent := input.Percent
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	name := canonical(input.Name)

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[name]
	if !ok {
		s.config.Logger.Warn("ignoring punishment for unknown user", zap.String("name", name))
		return &PunishOutput{Applied: false}, nil
	}

	oldLuck := record.Luck
	record.Luck = record.Luck * (100 - percent) / 100
	record.UpdatedAt = s.config.Clock.Now()

	s.config.Logger.Info("punished unconfirmed winner",
		zap.String("name", name),
		zap.Int("percent", percent),
		zap.Int("old_luck", oldLuck),
		zap.Int("new_luck", record.Luck))

	return &PunishOutput{Applied: true, NewLuck: record.Luck}, nil
}

// Records returns a snapshot of every record, sorted by luck descending
// then name
func (s *service) Records(_ context.Context) (*RecordsOutput, error) {
	s.mu.RLock()
	records := make([]*models.UserRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		if records[i].Luck != records[j].Luck {
			return records[i].Luck > records[j].Luck
		}
		return records[i].Name < records[j].Name
	})

	return &RecordsOutput{Records: records}, nil
}

// tierBonus maps a subscription tier to its configured draw weight. The
// switch is exhaustive over the closed tier set; anything else is 0.
func (s *service) tierBonus(tier models.SubscriptionTier) int {
	switch tier {
	case models.Tier1:
		return s.config.Tier1Bonus
	case models.Tier2:
		return s.config.Tier2Bonus
	case models.Tier3:
		return s.config.Tier3Bonus
	case models.TierNone:
		return 0
	default:
		return 0
	}
}

func canonical(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
