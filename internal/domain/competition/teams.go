package competition

import "sort"

// TeamStanding is the derived rollup for one named team.
type TeamStanding struct {
	Name         string
	Participants []Participant
	Total        int64
	Average      float64
	MVP          Participant
}

// ComputeTeamStandings groups participants by team tag and ranks the teams by
// total gained, descending. Participants without a team tag belong to no team.
// The MVP is the highest individual gain, first-encountered on ties; team
// order on equal totals follows first appearance in the input. The result is
// derived purely from the rows passed in, so it can be recomputed from cache
// reads at any point.
func ComputeTeamStandings(participants []Participant) []TeamStanding {
	byName := make(map[string]int)
	standings := make([]TeamStanding, 0)

	for _, p := range participants {
		if p.TeamName == "" {
			continue
		}

		idx, ok := byName[p.TeamName]
		if !ok {
			idx = len(standings)
			byName[p.TeamName] = idx
			standings = append(standings, TeamStanding{Name: p.TeamName, MVP: p})
		}

		team := &standings[idx]
		team.Participants = append(team.Participants, p)
		team.Total += p.Progress.Gained
		if p.Progress.Gained > team.MVP.Progress.Gained {
			team.MVP = p
		}
	}

	for i := range standings {
		standings[i].Average = float64(standings[i].Total) / float64(len(standings[i].Participants))
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Total > standings[j].Total
	})

	return standings
}
