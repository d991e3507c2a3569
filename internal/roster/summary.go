package roster

import "github.com/daniloc96/gitcode-team-roster/internal/models"

// Summarize counts people and teams by their derived state.
func Summarize(r *models.Roster) models.RosterSummary {
	s := models.RosterSummary{
		People: len(r.People),
		Teams:  len(r.Teams),
	}
	for _, p := range r.People {
		if p.IsCommitter {
			s.Committers++
		}
		if p.IsLeader {
			s.Leaders++
		}
		if p.IsConfirmed {
			s.Confirmed++
		}
		if p.TeamID() == "" {
			s.Unassigned++
		}
	}
	for _, t := range r.Teams {
		if t.Leader() == "" {
			s.TeamsWithoutLeader++
		}
	}
	return s
}
