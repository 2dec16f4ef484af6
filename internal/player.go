package internal

type Player struct {
	Conn     Connection
	Name     string
	Avatar   string
	IsLeader bool
}

// PlayerView is the public roster entry sent to clients.
type PlayerView struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	IsLeader bool   `json:"isLeader"`
}

func (p *Player) ToPublicPlayer() PlayerView {
	return PlayerView{
		Name:     p.Name,
		Avatar:   p.Avatar,
		IsLeader: p.IsLeader,
	}
}

// ConnID returns the id of the player's current connection, or "" when the
// player has none bound.
func (p *Player) ConnID() ConnID {
	if p.Conn == nil {
		return ""
	}
	return p.Conn.ID()
}
