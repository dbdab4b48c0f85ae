package game

import "testing"

func intPtr(v int) *int { return &v }

func TestWinner(t *testing.T) {
	cases := []struct {
		name   string
		team1  *int
		team2  *int
		winner int
	}{
		{name: "team 1 ahead", team1: intPtr(21), team2: intPtr(15), winner: TeamHome},
		{name: "team 2 ahead", team1: intPtr(10), team2: intPtr(11), winner: TeamAway},
		{name: "tie goes to team 2", team1: intPtr(15), team2: intPtr(15), winner: TeamAway},
		{name: "zero-zero tie goes to team 2", team1: intPtr(0), team2: intPtr(0), winner: TeamAway},
		{name: "no scores", team1: nil, team2: nil, winner: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := Game{Team1Score: tc.team1, Team2Score: tc.team2}
			if got := g.Winner(); got != tc.winner {
				t.Fatalf("Winner() = %d, want %d", got, tc.winner)
			}
		})
	}
}
