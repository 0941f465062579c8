package scoreboard

import (
	"context"
	"errors"
	"testing"
	"time"

	clockMocks "github.com/streamlot/giveabot/internal/common/clock/mocks"
	"github.com/streamlot/giveabot/internal/models"
	scoreboardRepo "github.com/streamlot/giveabot/internal/repositories/scoreboard"
	repoMocks "github.com/streamlot/giveabot/internal/repositories/scoreboard/mocks"
	twitchMocks "github.com/streamlot/giveabot/internal/twitch/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type ScoreboardServiceTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockRepo     *repoMocks.MockRepository
	mockResolver *twitchMocks.MockResolver
	mockClock    *clockMocks.MockClock
	service      Service
	ctx          context.Context

	testTime time.Time
}

func (s *ScoreboardServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = repoMocks.NewMockRepository(s.mockCtrl)
	s.mockResolver = twitchMocks.NewMockResolver(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)

	s.ctx = context.Background()
	s.testTime = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()

	service, err := New(&Config{
		Repo:       s.mockRepo,
		Resolver:   s.mockResolver,
		Clock:      s.mockClock,
		Logger:     zap.NewNop(),
		LuckBump:   10,
		Tier1Bonus: 300,
		Tier2Bonus: 600,
		Tier3Bonus: 900,
	})
	s.Require().NoError(err)
	s.service = service
}

func (s *ScoreboardServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestScoreboardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ScoreboardServiceTestSuite))
}

func (s *ScoreboardServiceTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilRepo)

	_, err = New(&Config{Repo: s.mockRepo})
	s.ErrorIs(err, ErrNilResolver)
}

func (s *ScoreboardServiceTestSuite) TestAddFirstEntry() {
	s.mockResolver.EXPECT().ResolveUserID(gomock.Any(), "bob").Return("12345", nil)
	s.mockResolver.EXPECT().GetSubscriptionTier(gomock.Any(), "12345").Return(models.Tier1, nil)

	output, err := s.service.Add(s.ctx, &AddInput{Name: "bob"})
	s.Require().NoError(err)
	s.Require().NotNil(output.Record)

	s.Equal("bob", output.Record.Name)
	s.Equal("12345", output.Record.UserID)
	s.Equal(10, output.Record.Luck)
	s.Equal(300, output.Record.TierBonus)
	s.Equal(1, output.Record.LifetimeEntries)
	s.Equal(1, output.Record.RoundsSinceWin)
}

func (s *ScoreboardServiceTestSuite) TestAddRepeatedEntriesAccumulate() {
	s.mockResolver.EXPECT().ResolveUserID(gomock.Any(), "bob").Return("12345", nil)
	s.mockResolver.EXPECT().GetSubscriptionTier(gomock.Any(), "12345").Return(models.TierNone, nil).Times(3)

	for i := 0; i < 3; i++ {
		_, err := s.service.Add(s.ctx, &AddInput{Name: "bob"})
		s.Require().NoError(err)
	}

	output, err := s.service.Get(s.ctx, &GetInput{Name: "bob"})
	s.Require().NoError(err)
	s.Equal(30, output.Record.Luck)
	s.Equal(3, output.Record.LifetimeEntries)
	s.Equal(3, output.Record.RoundsSinceWin)
	s.Equal(0, output.Record.TierBonus)
}

func (s *ScoreboardServiceTestSuite) TestAddCachesUserID() {
	// Resolution happens once; later entries reuse the cached ID but
	// still refresh the tier
	s.mockResolver.EXPECT().ResolveUserID(gomock.Any(), "bob").Return("12345", nil).Times(1)
	s.mockResolver.EXPECT().GetSubscriptionTier(gomock.Any(), "12345").Return(models.Tier1, nil)
	s.mockResolver.EXPECT().GetSubscriptionTier(gomock.Any(), "12345").Return(models.Tier3, nil)

	_, err := s.service.Add(s.ctx, &AddInput{Name: "bob"})
	s.Require().NoError(err)

	output, err := s.service.Add(s.ctx, &AddInput{Name: "bob"})
	s.Require().NoError(err)
	s.Equal(900, output.Record.TierBonus)
}

func (s *ScoreboardServiceTestSuite) TestAddNormalizesName() {
	s.mockResolver.EXPECT().ResolveUserID(gomock.Any(), "bob").Return("12345", nil)
	s.mockResolver.EXPECT().GetSubscriptionTier(gomock.Any(), "12345").Return(models.TierNone, nil)

	output, err := s.service.Add(s.ctx, &AddInput{Name: "  BoB "})
	s.Require().NoError(err)
	s.Equal("bob", output.Record.Name)
}

func (s *ScoreboardServiceTestSuite) TestAddFailsWhenIdentityResolutionFails() {
	resolveErr := errors.New("helix unavailable")
	s.mockResolver.EXPECT().ResolveUserID(gomock.Any(), "bob").Return("", resolveErr)

	_, err := s.service.Add(s.ctx, &AddInput{Name: "bob"})
	s.Require().Error(err)
	s.ErrorIs(err, resolveErr)

	// No record was created as a side effect of the failed admission
	_, err = s.service.Get(s.ctx, &GetInput{Name: "bob"})
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *ScoreboardServiceTestSuite) TestAddFailsWhenTierResolutionFails() {
	s.mockResolver.EXPECT().ResolveUserID(gomock.Any(), "bob").Return("12345", nil)
	s.mockResolver.EXPECT().GetSubscriptionTier(gomock.Any(), "12345").Return(models.Tier1, nil)

	_, err := s.service.Add(s.ctx, &AddInput{Name: "bob"})
	s.Require().NoError(err)

	tierErr := errors.New("helix unavailable")
	s.mockResolver.EXPECT().GetSubscriptionTier(gomock.Any(), "12345").Return(models.TierNone, tierErr)

	_, err = s.service.Add(s.ctx, &AddInput{Name: "bob"})
	s.Require().Error(err)

	// The existing record is untouched by the failed entry
	output, err := s.service.Get(s.ctx, &GetInput{Name: "bob"})
	s.Require().NoError(err)
	s.Equal(10, output.Record.Luck)
	s.Equal(1, output.Record.LifetimeEntries)
	s.Equal(300, output.Record.TierBonus)
}

func (s *ScoreboardServiceTestSuite) TestGetUnknownUser() {
	_, err := s.service.Get(s.ctx, &GetInput{Name: "ghost"})
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *ScoreboardServiceTestSuite) TestBumpExistingUser() {
	s.addUser("bob", models.TierNone)

	output, err := s.service.Bump(s.ctx, &BumpInput{Name: "bob", Multiplier: 3})
	s.Require().NoError(err)
	s.True(output.Applied)
	s.Equal(40, output.NewLuck)
}

func (s *ScoreboardServiceTestSuite) TestBumpUnknownUserIsIgnored() {
	output, err := s.service.Bump(s.ctx, &BumpInput{Name: "ghost", Multiplier: 3})
	s.Require().NoError(err)
	s.False(output.Applied)

	_, err = s.service.Get(s.ctx, &GetInput{Name: "ghost"})
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *ScoreboardServiceTestSuite) TestResetZeroesLuckAndStreak() {
	s.addUser("bob", models.Tier1)

	err := s.service.Reset(s.ctx, &ResetInput{Name: "bob"})
	s.Require().NoError(err)

	output, err := s.service.Get(s.ctx, &GetInput{Name: "bob"})
	s.Require().NoError(err)
	s.Equal(0, output.Record.Luck)
	s.Equal(0, output.Record.RoundsSinceWin)
	// Lifetime participation survives a win
	s.Equal(1, output.Record.LifetimeEntries)
}

func (s *ScoreboardServiceTestSuite) TestResetUnknownUserIsNoOp() {
	err := s.service.Reset(s.ctx, &ResetInput{Name: "ghost"})
	s.NoError(err)
}

func (s *ScoreboardServiceTestSuite) TestPunishTruncatesTowardZero() {
	s.addUser("bob", models.TierNone)
	_, err := s.service.Bump(s.ctx, &BumpInput{Name: "bob", Multiplier: 1})
	s.Require().NoError(err)

	// 20 luck, 33% punishment: 20 * 67 / 100 = 13 (truncated)
	output, err := s.service.Punish(s.ctx, &PunishInput{Name: "bob", Percent: 33})
	s.Require().NoError(err)
	s.True(output.Applied)
	s.Equal(13, output.NewLuck)
}

func (s *ScoreboardServiceTestSuite) TestPunishUnknownUserIsIgnored() {
	output, err := s.service.Punish(s.ctx, &PunishInput{Name: "ghost", Percent: 50})
	s.Require().NoError(err)
	s.False(output.Applied)
}

func (s *ScoreboardServiceTestSuite) TestLoadReplacesRecords() {
	s.mockRepo.EXPECT().LoadRecords(gomock.Any()).Return(&scoreboardRepo.LoadRecordsOutput{
		Records: map[string]*models.UserRecord{
			"alice": {Name: "alice", Luck: 50, LifetimeEntries: 5, RoundsSinceWin: 2},
		},
	}, nil)

	err := s.service.Load(s.ctx)
	s.Require().NoError(err)

	output, err := s.service.Get(s.ctx, &GetInput{Name: "alice"})
	s.Require().NoError(err)
	s.Equal(50, output.Record.Luck)
}

func (s *ScoreboardServiceTestSuite) TestSavePersistsSnapshot() {
	s.addUser("bob", models.TierNone)

	s.mockRepo.EXPECT().SaveRecords(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, input *scoreboardRepo.SaveRecordsInput) error {
			s.Require().Len(input.Records, 1)
			s.Equal(10, input.Records["bob"].Luck)
			return nil
		})

	err := s.service.Save(s.ctx)
	s.Require().NoError(err)
}

func (s *ScoreboardServiceTestSuite) TestRecordsSortedByLuckThenName() {
	s.addUser("alice", models.TierNone)
	s.addUser("bob", models.TierNone)
	s.addUser("carol", models.TierNone)

	_, err := s.service.Bump(s.ctx, &BumpInput{Name: "bob", Multiplier: 2})
	s.Require().NoError(err)

	output, err := s.service.Records(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(output.Records, 3)
	s.Equal("bob", output.Records[0].Name)
	s.Equal("alice", output.Records[1].Name)
	s.Equal("carol", output.Records[2].Name)
}

// addUser enters a user once with the given tier
func (s *ScoreboardServiceTestSuite) addUser(name string, tier models.SubscriptionTier) {
	s.mockResolver.EXPECT().ResolveUserID(gomock.Any(), name).Return("id-"+name, nil)
	s.mockResolver.EXPECT().GetSubscriptionTier(gomock.Any(), "id-"+name).Return(tier, nil)

	_, err := s.service.Add(s.ctx, &AddInput{Name: name})
	s.Require().NoError(err)
}
