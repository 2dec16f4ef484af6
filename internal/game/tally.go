package game

import "github.com/scythe504/impostor-backend/internal"

// =============================================================================
// TALLY
// =============================================================================

type VoteCount struct {
	Name  string
	Votes int
}

type TallyResult struct {
	IsDraw bool
	// VotedPlayer is empty on a draw.
	VotedPlayer string
	Counts      []VoteCount
}

// TallyVotes counts votes per candidate. Every player starts at zero, votes
// for names no longer in the room are counted after them. Only a strictly
// greater count takes the lead; matching a nonzero lead makes it a draw. No
// votes at all is a draw.
func TallyVotes(players []string, votes []internal.Vote) TallyResult {
	counts := make([]VoteCount, 0, len(players))
	index := make(map[string]int, len(players))
	for _, name := range players {
		if _, seen := index[name]; seen {
			continue
		}
		index[name] = len(counts)
		counts = append(counts, VoteCount{Name: name})
	}
	for _, vote := range votes {
		i, ok := index[vote.Target]
		if !ok {
			i = len(counts)
			index[vote.Target] = i
			counts = append(counts, VoteCount{Name: vote.Target})
		}
		counts[i].Votes++
	}

	result := TallyResult{IsDraw: true, Counts: counts}
	maxVotes := 0
	for _, c := range counts {
		switch {
		case c.Votes > maxVotes:
			maxVotes = c.Votes
			result.VotedPlayer = c.Name
			result.IsDraw = false
		case c.Votes == maxVotes && c.Votes > 0:
			result.IsDraw = true
		}
	}
	if result.IsDraw {
		result.VotedPlayer = ""
	}
	return result
}
