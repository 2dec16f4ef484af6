package internal

import "slices"

// Methods (Room Struct)
func (r *Room) PlayerByName(name string) *Player {
	for _, p := range r.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (r *Room) PlayerByConn(id ConnID) *Player {
	if id == "" {
		return nil
	}
	for _, p := range r.Players {
		if p.ConnID() == id {
			return p
		}
	}
	return nil
}

func (r *Room) IndexOf(player *Player) int {
	for i, p := range r.Players {
		if p == player {
			return i
		}
	}
	return -1
}

func (r *Room) GetPlayerCount() int {
	return len(r.Players)
}

func (r *Room) IsFull() bool {
	return len(r.Players) >= MaxPlayersPerRoom
}

func (r *Room) InLobby() bool {
	return r.Game.Round == LobbyRound
}

// Leader returns the player flagged as leader, if any.
func (r *Room) Leader() *Player {
	for _, p := range r.Players {
		if p.IsLeader {
			return p
		}
	}
	return nil
}

// SetLeader makes player the only leader in the room.
func (r *Room) SetLeader(player *Player) {
	for _, p := range r.Players {
		p.IsLeader = p == player
	}
	r.LeaderConnID = player.ConnID()
	r.LastLeaderName = player.Name
}

func (r *Room) Roster() []PlayerView {
	views := make([]PlayerView, 0, len(r.Players))
	for _, p := range r.Players {
		views = append(views, p.ToPublicPlayer())
	}
	return views
}

// HasEveryoneAnswered reports whether every current player has an answer on
// file for this round.
func (r *Room) HasEveryoneAnswered() bool {
	if len(r.Players) == 0 {
		return false
	}
	for _, p := range r.Players {
		if _, ok := r.Game.AnswerOf(p.Name); !ok {
			return false
		}
	}
	return true
}

// CountCurrentVoters counts votes cast by players still in the room.
func (r *Room) CountCurrentVoters() int {
	count := 0
	for _, p := range r.Players {
		if r.Game.HasVoted(p.Name) {
			count++
		}
	}
	return count
}

func (r *Room) RemovePlayerAt(index int) *Player {
	removed := r.Players[index]
	r.Players = slices.Delete(r.Players, index, index+1)
	return removed
}

// CountAnswered counts answers on file from players still in the room.
func (r *Room) CountAnswered() int {
	count := 0
	for _, p := range r.Players {
		if _, ok := r.Game.AnswerOf(p.Name); ok {
			count++
		}
	}
	return count
}

func (r *Room) PlayerNames() []string {
	names := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		names = append(names, p.Name)
	}
	return names
}
