package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/impostor-backend/internal"
)

func TestUpdateSettings(t *testing.T) {
	h := newHarness(t, testConfig())
	alice, code := h.createRoom("Alice")
	bob := h.joinRoom(code, "Bob")

	h.send(bob, map[string]any{"type": internal.MsgUpdateSettings, "code": code, "settings": map[string]any{"rounds": 3}})
	assert.Equal(t, ErrNotLeader.Error(), bob.lastError())

	h.send(alice, map[string]any{"type": internal.MsgUpdateSettings, "code": code, "settings": map[string]any{"discussionTime": 120}})
	require.Empty(t, alice.lastError())
	updated, ok := bob.last(internal.MsgSettingsUpdated).(internal.SettingsUpdatedMessage)
	require.True(t, ok)
	assert.Equal(t, internal.Settings{Rounds: 4, AnsweringTime: 30, DiscussionTime: 120}, updated.Settings)

	h.send(alice, map[string]any{"type": internal.MsgUpdateSettings, "code": code})
	assert.Equal(t, ErrInvalidSettings.Error(), alice.lastError())
}

func TestUpdateSettingsBounds(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		wantErr  bool
	}{
		{name: "zero rounds", settings: map[string]any{"rounds": 0}, wantErr: true},
		{name: "too many rounds", settings: map[string]any{"rounds": MaxRounds + 1}, wantErr: true},
		{name: "negative answering time", settings: map[string]any{"answeringTime": -5}, wantErr: true},
		{name: "discussion too short", settings: map[string]any{"discussionTime": MinDiscussionTime - 1}, wantErr: true},
		{name: "upper bounds", settings: map[string]any{"rounds": MaxRounds, "answeringTime": MaxAnsweringTime, "discussionTime": MaxDiscussionTime}},
		{name: "lower bounds", settings: map[string]any{"rounds": MinRounds, "answeringTime": MinAnsweringTime, "discussionTime": MinDiscussionTime}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, testConfig())
			alice, code := h.createRoom("Alice")

			h.send(alice, map[string]any{"type": internal.MsgUpdateSettings, "code": code, "settings": tt.settings})
			if tt.wantErr {
				assert.Contains(t, alice.lastError(), ErrInvalidSettings.Error())
				assert.Zero(t, alice.count(internal.MsgSettingsUpdated))
				h.inspect(code, func(room *internal.Room) {
					assert.Equal(t, internal.DefaultSettings(), room.Settings)
				})
				return
			}
			assert.Empty(t, alice.lastError())
			assert.Equal(t, 1, alice.count(internal.MsgSettingsUpdated))
		})
	}
}

func TestStartGameGuards(t *testing.T) {
	h := newHarness(t, testConfig())
	alice, code := h.createRoom("Alice")

	h.send(alice, map[string]any{"type": internal.MsgStartGame, "code": code})
	assert.Contains(t, alice.lastError(), ErrNotEnoughPlayers.Error())

	bob := h.joinRoom(code, "Bob")
	h.send(bob, map[string]any{"type": internal.MsgStartGame, "code": code})
	assert.Equal(t, ErrNotLeader.Error(), bob.lastError())

	errorsBefore := alice.count(internal.MsgError)
	h.send(alice, map[string]any{"type": internal.MsgStartGame, "code": code})
	require.Equal(t, errorsBefore, alice.count(internal.MsgError))
	assert.Equal(t, 1, bob.count(internal.MsgRedirectToGame))

	h.send(alice, map[string]any{"type": internal.MsgStartGame, "code": code})
	assert.Equal(t, ErrGameAlreadyStarted.Error(), alice.lastError())
	assert.Equal(t, 1, bob.count(internal.MsgRedirectToGame))

	h.inspect(code, func(room *internal.Room) {
		assert.True(t, room.Game.Started)
		assert.True(t, room.Game.RolesAssigned)
		assert.Equal(t, internal.PhaseAnswering, room.Game.Phase)
		assert.True(t, room.IsTransitioningToGame)
		assert.Equal(t, 2, room.ExpectedPlayerCount)
		assert.Equal(t, "Alice", room.OriginalLeaderName)
		assert.NotNil(t, room.TransitionTimer)
		assert.NotNil(t, room.PhaseTimer)
	})
}

// navigate simulates a page change: the lobby socket closes and a fresh game
// connection sends join-game.
func (h *harness) navigate(code string, lobbyConn *fakeConn, name string) *fakeConn {
	h.t.Helper()
	h.svc.Disconnect(lobbyConn)
	gameConn := h.connect(name)
	h.send(gameConn, map[string]any{"type": internal.MsgJoinGame, "code": code, "name": name})
	require.Empty(h.t, gameConn.lastError())
	return gameConn
}

func TestJoinGameFinalizesTransitionEarly(t *testing.T) {
	h := newHarness(t, testConfig())
	code, conns := h.startedGame("Alice", "Bob", "Carol")

	// Bob's lobby page closes and his game page connects.
	h.svc.Disconnect(conns["Bob"])
	h.inspect(code, func(room *internal.Room) {
		assert.Len(t, room.Players, 2)
		assert.True(t, room.IsTransitioningToGame)
	})

	bobGame := h.connect("Bob")
	h.send(bobGame, map[string]any{"type": internal.MsgJoinGame, "code": code, "name": "Bob"})
	require.Empty(t, bobGame.lastError())

	role, ok := bobGame.last(internal.MsgGameRole).(internal.GameRoleMessage)
	require.True(t, ok)
	assert.Equal(t, 1, role.Round)
	assert.Equal(t, h.impostorOf(code) == "Bob", role.IsImpostor)
	assert.Equal(t, 1, bobGame.count(internal.MsgGameState))

	h.navigate(code, conns["Carol"], "Carol")
	aliceGame := h.navigate(code, conns["Alice"], "Alice")

	h.inspect(code, func(room *internal.Room) {
		assert.Len(t, room.Players, 3)
		assert.False(t, room.IsTransitioningToGame)
		assert.Nil(t, room.TransitionTimer)
		assert.Nil(t, room.NavigatedPlayers)
		assert.Equal(t, "Alice", room.Leader().Name)
		assert.Equal(t, aliceGame.ID(), room.LeaderConnID)
	})

	assert.Equal(t, 1, aliceGame.count(internal.MsgLeaderChanged))
	status, ok := aliceGame.last(internal.MsgLeadershipStatus).(internal.LeadershipStatusMessage)
	require.True(t, ok)
	assert.True(t, status.IsLeader)
}

func TestLeaderLobbyEntryDoesNotFinalizeTransition(t *testing.T) {
	h := newHarness(t, testConfig())
	code, conns := h.startedGame("Alice", "Bob", "Carol")

	// Everyone but the leader reaches the game page first. The roster is
	// full again only because Alice's lobby entry is still in it.
	h.navigate(code, conns["Bob"], "Bob")
	h.navigate(code, conns["Carol"], "Carol")
	h.inspect(code, func(room *internal.Room) {
		assert.Len(t, room.Players, 3)
		assert.True(t, room.IsTransitioningToGame)
		assert.Equal(t, conns["Alice"].ID(), room.LeaderConnID)
	})

	h.svc.Disconnect(conns["Alice"])
	h.inspect(code, func(room *internal.Room) {
		assert.NotNil(t, room.PlayerByName("Alice"))
		assert.True(t, room.PlayerByName("Alice").IsLeader)
	})

	aliceGame := h.navigate(code, conns["Alice"], "Alice")
	h.inspect(code, func(room *internal.Room) {
		assert.False(t, room.IsTransitioningToGame)
		assert.Equal(t, []string{"Alice", "Bob", "Carol"}, room.PlayerNames())
		assert.Equal(t, "Alice", room.Leader().Name)
		assert.Equal(t, aliceGame.ID(), room.LeaderConnID)
	})
	assert.Zero(t, aliceGame.count(internal.MsgForceExit))
	assert.True(t, aliceGame.last(internal.MsgLeadershipStatus).(internal.LeadershipStatusMessage).IsLeader)
}

func TestOriginalLeaderSurvivesNavigation(t *testing.T) {
	h := newHarness(t, testConfig())
	code, conns := h.startedGame("Alice", "Bob")

	h.svc.Disconnect(conns["Alice"])
	h.inspect(code, func(room *internal.Room) {
		assert.Len(t, room.Players, 2, "original leader is kept while transitioning")
		assert.Zero(t, conns["Bob"].count(internal.MsgLeaderChanged))
	})

	aliceGame := h.connect("Alice")
	h.send(aliceGame, map[string]any{"type": internal.MsgJoinGame, "code": code, "name": "Alice"})
	h.inspect(code, func(room *internal.Room) {
		assert.True(t, room.IsTransitioningToGame, "Bob is still on the lobby page")
		assert.Equal(t, aliceGame.ID(), room.LeaderConnID)
	})

	h.navigate(code, conns["Bob"], "Bob")
	h.inspect(code, func(room *internal.Room) {
		assert.False(t, room.IsTransitioningToGame)
		assert.Equal(t, "Alice", room.Leader().Name)
		assert.Equal(t, aliceGame.ID(), room.LeaderConnID)
	})
	assert.True(t, aliceGame.last(internal.MsgLeadershipStatus).(internal.LeadershipStatusMessage).IsLeader)

	h.send(aliceGame, map[string]any{"type": internal.MsgStartNextRound, "code": code})
	assert.Empty(t, aliceGame.lastError())
}

func TestTransitionDeadlineElectsFallbackLeader(t *testing.T) {
	cfg := testConfig()
	cfg.TransitionDeadline = 30 * time.Millisecond
	h := newHarness(t, cfg)
	code, conns := h.startedGame("Alice", "Bob", "Carol")

	// Alice's lobby socket closes and no game connection replaces it.
	h.svc.Disconnect(conns["Alice"])

	assert.Eventually(t, func() bool {
		h.svc.mu.Lock()
		defer h.svc.mu.Unlock()
		room, ok := h.rooms.Get(code)
		return ok && !room.IsTransitioningToGame
	}, time.Second, 5*time.Millisecond)

	h.inspect(code, func(room *internal.Room) {
		require.Len(t, room.Players, 2)
		assert.Nil(t, room.PlayerByName("Alice"))
		assert.Equal(t, "Bob", room.Leader().Name)
		assert.Equal(t, conns["Bob"].ID(), room.LeaderConnID)
	})
	assert.True(t, conns["Bob"].last(internal.MsgLeadershipStatus).(internal.LeadershipStatusMessage).IsLeader)
	left, ok := conns["Carol"].last(internal.MsgPlayerLeft).(internal.PlayerLeftMessage)
	require.True(t, ok)
	assert.Equal(t, "Alice", left.Name)
}

func TestFinalizeTransitionIsIdempotent(t *testing.T) {
	h := newHarness(t, testConfig())
	code, conns := h.startedGame("Alice", "Bob")

	h.inspect(code, func(room *internal.Room) {
		h.svc.finalizeTransition(room)
		h.svc.finalizeTransition(room)
	})
	assert.Equal(t, 1, conns["Bob"].count(internal.MsgLeaderChanged))
	assert.Equal(t, 1, conns["Alice"].count(internal.MsgLeadershipStatus))
}

func TestJoinGameMidGameIsForcedOut(t *testing.T) {
	cfg := testConfig()
	cfg.RedirectGrace = 0
	h := newHarness(t, cfg)
	code, _ := h.startedGame("Alice", "Bob")

	dave := h.connect("Dave")
	h.send(dave, map[string]any{"type": internal.MsgJoinGame, "code": code, "name": "Dave"})

	exit, ok := dave.last(internal.MsgForceExit).(internal.ForceExitMessage)
	require.True(t, ok)
	assert.NotEmpty(t, exit.Reason)
	assert.Zero(t, dave.count(internal.MsgGameRole))
	h.inspect(code, func(room *internal.Room) {
		assert.Nil(t, room.PlayerByName("Dave"))
	})

	h.send(dave, map[string]any{"type": internal.MsgJoinGame, "code": "QQQQ", "name": "Dave"})
	assert.Equal(t, ErrRoomNotFound.Error(), dave.lastError())
}

func TestJoinGameWithinGraceAdmitsNewPlayer(t *testing.T) {
	h := newHarness(t, testConfig())
	code, conns := h.startedGame("Alice", "Bob")

	dave := h.connect("Dave")
	h.send(dave, map[string]any{"type": internal.MsgJoinGame, "code": code, "name": "Dave"})
	require.Zero(t, dave.count(internal.MsgForceExit))

	h.inspect(code, func(room *internal.Room) {
		require.NotNil(t, room.PlayerByName("Dave"))
		assert.Equal(t, internal.DefaultAvatar, room.PlayerByName("Dave").Avatar)
	})
	role := dave.last(internal.MsgGameRole).(internal.GameRoleMessage)
	assert.False(t, role.IsImpostor)
	state, ok := conns["Bob"].last(internal.MsgGameState).(internal.GameStateMessage)
	require.True(t, ok)
	assert.Len(t, state.Players, 3)
}
