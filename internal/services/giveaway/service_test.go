package giveaway

import (
	"context"
	"errors"
	"testing"
	"time"

	clockMocks "github.com/streamlot/giveabot/internal/common/clock/mocks"
	uuidMocks "github.com/streamlot/giveabot/internal/common/uuid/mocks"
	"github.com/streamlot/giveabot/internal/models"
	ignoreListMocks "github.com/streamlot/giveabot/internal/repositories/ignorelist/mocks"
	rollerMocks "github.com/streamlot/giveabot/internal/roller/mocks"
	scoreboardService "github.com/streamlot/giveabot/internal/services/scoreboard"
	scoreboardMocks "github.com/streamlot/giveabot/internal/services/scoreboard/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type GiveawayServiceTestSuite struct {
	suite.Suite
	mockCtrl       *gomock.Controller
	mockScoreboard *scoreboardMocks.MockService
	mockIgnoreList *ignoreListMocks.MockRepository
	mockRoller     *rollerMocks.MockRoller
	mockClock      *clockMocks.MockClock
	mockUUID       *uuidMocks.MockUUID
	service        Service
	ctx            context.Context

	testTime time.Time
}

func (s *GiveawayServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockScoreboard = scoreboardMocks.NewMockService(s.mockCtrl)
	s.mockIgnoreList = ignoreListMocks.NewMockRepository(s.mockCtrl)
	s.mockRoller = rollerMocks.NewMockRoller(s.mockCtrl)
	s.mockClock = clockMocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)

	s.ctx = context.Background()
	s.testTime = time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	s.mockClock.EXPECT().Now().Return(s.testTime).AnyTimes()
	s.mockUUID.EXPECT().NewUUID().Return("test-round-id").AnyTimes()

	service, err := New(&Config{
		Scoreboard:        s.mockScoreboard,
		IgnoreList:        s.mockIgnoreList,
		Roller:            s.mockRoller,
		Clock:             s.mockClock,
		UUIDGenerator:     s.mockUUID,
		Logger:            zap.NewNop(),
		RollMax:           1000,
		PunishmentPercent: 30,
	})
	s.Require().NoError(err)
	s.service = service
}

func (s *GiveawayServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestGiveawayServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GiveawayServiceTestSuite))
}

// open opens a round, expecting the scoreboard reload
func (s *GiveawayServiceTestSuite) open() {
	s.mockScoreboard.EXPECT().Load(gomock.Any()).Return(nil)

	_, err := s.service.Open(s.ctx)
	s.Require().NoError(err)
}

// close closes the round, expecting the scoreboard save
func (s *GiveawayServiceTestSuite) close() {
	s.mockScoreboard.EXPECT().Save(gomock.Any()).Return(nil)

	err := s.service.Close(s.ctx)
	s.Require().NoError(err)
}

// enter admits a user with the given weights, wiring the scoreboard record
// for both the admission and later draw reads
func (s *GiveawayServiceTestSuite) enter(name string, luck, tierBonus int) {
	record := &models.UserRecord{
		Name:            name,
		UserID:          "id-" + name,
		Luck:            luck,
		TierBonus:       tierBonus,
		LifetimeEntries: 1,
		RoundsSinceWin:  1,
	}

	s.mockIgnoreList.EXPECT().Contains(name).Return(false)
	s.mockScoreboard.EXPECT().Add(gomock.Any(), &scoreboardService.AddInput{Name: name}).
		Return(&scoreboardService.AddOutput{Record: record}, nil)
	s.mockScoreboard.EXPECT().Get(gomock.Any(), &scoreboardService.GetInput{Name: name}).
		Return(&scoreboardService.GetOutput{Record: record}, nil).AnyTimes()

	_, err := s.service.Enter(s.ctx, &EnterInput{Name: name})
	s.Require().NoError(err)
}

func (s *GiveawayServiceTestSuite) TestNewValidatesConfig() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilScoreboard)

	_, err = New(&Config{Scoreboard: s.mockScoreboard})
	s.ErrorIs(err, ErrNilIgnoreList)
}

func (s *GiveawayServiceTestSuite) TestOpenStartsFreshRound() {
	s.mockScoreboard.EXPECT().Load(gomock.Any()).Return(nil)

	output, err := s.service.Open(s.ctx)
	s.Require().NoError(err)
	s.Equal("test-round-id", output.RoundID)
	s.Empty(output.ConfirmedPrevious)
	s.True(s.service.IsOpen(s.ctx))
}

func (s *GiveawayServiceTestSuite) TestOpenWhileOpenIsRejected() {
	s.open()

	_, err := s.service.Open(s.ctx)
	s.ErrorIs(err, ErrRoundAlreadyOpen)
}

func (s *GiveawayServiceTestSuite) TestEnterWhileClosedIsRejected() {
	_, err := s.service.Enter(s.ctx, &EnterInput{Name: "alice"})
	s.ErrorIs(err, ErrRoundNotOpen)
}

func (s *GiveawayServiceTestSuite) TestEnterAdmitsOncePerRound() {
	s.open()
	s.enter("alice", 10, 0)

	_, err := s.service.Enter(s.ctx, &EnterInput{Name: "alice"})
	s.ErrorIs(err, ErrAlreadyEntered)

	output, err := s.service.Entrants(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"alice"}, output.Names)
}

func (s *GiveawayServiceTestSuite) TestEnterNormalizesName() {
	s.open()
	s.enter("alice", 10, 0)

	_, err := s.service.Enter(s.ctx, &EnterInput{Name: "ALICE"})
	s.ErrorIs(err, ErrAlreadyEntered)
}

func (s *GiveawayServiceTestSuite) TestEnterIgnoredUserIsRejected() {
	s.open()

	// The scoreboard is never touched for an ignored user
	s.mockIgnoreList.EXPECT().Contains("spammer").Return(true)

	_, err := s.service.Enter(s.ctx, &EnterInput{Name: "spammer"})
	s.ErrorIs(err, ErrIgnoredUser)

	output, err := s.service.Entrants(s.ctx)
	s.Require().NoError(err)
	s.Empty(output.Names)
}

func (s *GiveawayServiceTestSuite) TestEnterFailsWhenResolutionFails() {
	s.open()

	resolveErr := errors.New("helix unavailable")
	s.mockIgnoreList.EXPECT().Contains("alice").Return(false)
	s.mockScoreboard.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil, resolveErr)

	_, err := s.service.Enter(s.ctx, &EnterInput{Name: "alice"})
	s.ErrorIs(err, resolveErr)

	output, err := s.service.IsParticipating(s.ctx, &IsParticipatingInput{Name: "alice"})
	s.Require().NoError(err)
	s.False(output.Participating)
}

func (s *GiveawayServiceTestSuite) TestDrawWhileOpenIsRejected() {
	s.open()
	s.enter("alice", 10, 0)

	_, err := s.service.Draw(s.ctx)
	s.ErrorIs(err, ErrRoundStillOpen)
}

func (s *GiveawayServiceTestSuite) TestDrawWithNoEntrantsIsRejected() {
	s.open()
	s.close()

	_, err := s.service.Draw(s.ctx)
	s.ErrorIs(err, ErrNoEntrants)
}

func (s *GiveawayServiceTestSuite) TestDrawPicksHighestTotal() {
	s.open()
	s.enter("alice", 10, 0)
	s.enter("bob", 50, 300)
	s.close()

	// alice: 600+10+0 = 610, bob: 200+50+300 = 550
	s.mockRoller.EXPECT().Roll(1000).Return(600)
	s.mockRoller.EXPECT().Roll(1000).Return(200)

	output, err := s.service.Draw(s.ctx)
	s.Require().NoError(err)
	s.Equal("alice", output.Result.Winner)
	s.Equal(610, output.Result.WinningRoll)
	s.Equal(1, output.Result.RoundsSinceWin)
	s.Equal(2, output.Result.Entrants)
	s.Equal(s.testTime, output.Result.DrawnAt)
	s.Empty(output.PunishedPrevious)

	// The winner leaves the entrant set
	participating, err := s.service.IsParticipating(s.ctx, &IsParticipatingInput{Name: "alice"})
	s.Require().NoError(err)
	s.False(participating.Participating)

	last, err := s.service.LastWinner(s.ctx)
	s.Require().NoError(err)
	s.Equal("alice", last.Winner)
	s.Equal(610, last.Roll)
	s.True(last.Pending)
}

func (s *GiveawayServiceTestSuite) TestDrawTieGoesToFirstEntrant() {
	s.open()
	s.enter("alice", 10, 0)
	s.enter("bob", 10, 0)
	s.close()

	s.mockRoller.EXPECT().Roll(1000).Return(500).Times(2)

	output, err := s.service.Draw(s.ctx)
	s.Require().NoError(err)
	s.Equal("alice", output.Result.Winner)
}

func (s *GiveawayServiceTestSuite) TestConfirmWinnerResetsAndSaves() {
	s.open()
	s.enter("alice", 10, 0)
	s.close()

	s.mockRoller.EXPECT().Roll(1000).Return(500)
	_, err := s.service.Draw(s.ctx)
	s.Require().NoError(err)

	s.mockScoreboard.EXPECT().Reset(gomock.Any(), &scoreboardService.ResetInput{Name: "alice"}).Return(nil)
	s.mockScoreboard.EXPECT().Save(gomock.Any()).Return(nil)

	output, err := s.service.ConfirmWinner(s.ctx)
	s.Require().NoError(err)
	s.True(output.Confirmed)
	s.Equal("alice", output.Winner)

	// A second confirmation is a no-op
	output, err = s.service.ConfirmWinner(s.ctx)
	s.Require().NoError(err)
	s.False(output.Confirmed)
}

func (s *GiveawayServiceTestSuite) TestConfirmWithoutDrawIsNoOp() {
	output, err := s.service.ConfirmWinner(s.ctx)
	s.Require().NoError(err)
	s.False(output.Confirmed)
}

func (s *GiveawayServiceTestSuite) TestSecondDrawPunishesUnconfirmedWinner() {
	s.open()
	s.enter("alice", 10, 0)
	s.enter("bob", 20, 0)
	s.close()

	s.mockRoller.EXPECT().Roll(1000).Return(900)
	s.mockRoller.EXPECT().Roll(1000).Return(100)

	first, err := s.service.Draw(s.ctx)
	s.Require().NoError(err)
	s.Equal("alice", first.Result.Winner)

	// The second draw strips the unconfirmed winner's luck before rolling
	s.mockScoreboard.EXPECT().Punish(gomock.Any(), &scoreboardService.PunishInput{
		Name:    "alice",
		Percent: 30,
	}).Return(&scoreboardService.PunishOutput{Applied: true, NewLuck: 7}, nil)
	s.mockRoller.EXPECT().Roll(1000).Return(400)

	second, err := s.service.Draw(s.ctx)
	s.Require().NoError(err)
	s.Equal("alice", second.PunishedPrevious)
	s.Equal("bob", second.Result.Winner)
}

func (s *GiveawayServiceTestSuite) TestOpenAutoConfirmsPendingWinner() {
	s.open()
	s.enter("alice", 10, 0)
	s.close()

	s.mockRoller.EXPECT().Roll(1000).Return(500)
	_, err := s.service.Draw(s.ctx)
	s.Require().NoError(err)

	s.mockScoreboard.EXPECT().Reset(gomock.Any(), &scoreboardService.ResetInput{Name: "alice"}).Return(nil)
	s.mockScoreboard.EXPECT().Save(gomock.Any()).Return(nil)
	s.mockScoreboard.EXPECT().Load(gomock.Any()).Return(nil)

	output, err := s.service.Open(s.ctx)
	s.Require().NoError(err)
	s.Equal("alice", output.ConfirmedPrevious)

	// The new round starts clean
	last, err := s.service.LastWinner(s.ctx)
	s.Require().NoError(err)
	s.Empty(last.Winner)
	s.False(last.Pending)
}

func (s *GiveawayServiceTestSuite) TestReopenKeepsEntrantsAndPendingWinner() {
	s.open()
	s.enter("alice", 10, 0)
	s.enter("bob", 20, 0)
	s.close()

	s.mockRoller.EXPECT().Roll(1000).Return(900)
	s.mockRoller.EXPECT().Roll(1000).Return(100)
	_, err := s.service.Draw(s.ctx)
	s.Require().NoError(err)

	// Reopen does not reload the scoreboard or clear anything
	err = s.service.Reopen(s.ctx)
	s.Require().NoError(err)
	s.True(s.service.IsOpen(s.ctx))

	entrants, err := s.service.Entrants(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"bob"}, entrants.Names)

	last, err := s.service.LastWinner(s.ctx)
	s.Require().NoError(err)
	s.Equal("alice", last.Winner)
	s.True(last.Pending)
}

func (s *GiveawayServiceTestSuite) TestReopenWhileOpenIsRejected() {
	s.open()

	err := s.service.Reopen(s.ctx)
	s.ErrorIs(err, ErrRoundAlreadyOpen)
}

func (s *GiveawayServiceTestSuite) TestCloseWhileClosedIsRejected() {
	err := s.service.Close(s.ctx)
	s.ErrorIs(err, ErrRoundNotOpen)
}

func (s *GiveawayServiceTestSuite) TestUserStats() {
	record := &models.UserRecord{
		Name:            "alice",
		Luck:            250,
		TierBonus:       300,
		LifetimeEntries: 25,
		RoundsSinceWin:  4,
	}
	s.mockScoreboard.EXPECT().Get(gomock.Any(), &scoreboardService.GetInput{Name: "alice"}).
		Return(&scoreboardService.GetOutput{Record: record}, nil)

	output, err := s.service.UserStats(s.ctx, &UserStatsInput{Name: "alice"})
	s.Require().NoError(err)
	s.Equal(25, output.LuckPercent)
	s.Equal(30, output.TierPercent)
	s.Equal(25, output.LifetimeEntries)
	s.Equal(4, output.RoundsSinceWin)
}
