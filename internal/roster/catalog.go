package roster

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/daniloc96/gitcode-team-roster/internal/models"
)

// ParseCatalog reads an ordered list of team names, one per line.
// Blank lines and lines starting with '#' are skipped; duplicates keep their first position.
func ParseCatalog(r io.Reader) ([]string, error) {
	var names []string
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading team catalog: %w", err)
	}
	return names, nil
}

// ApplyCatalog adds an empty team for every catalog name the roster does not have yet,
// in catalog order. Teams outside the catalog are kept. It returns the number of teams added.
func (s *Session) ApplyCatalog(names []string) int {
	added := 0
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || s.roster.FindTeamByName(name) != nil {
			continue
		}
		s.roster.Teams = append(s.roster.Teams, models.Team{
			Name:            name,
			LeaderUsernames: []string{},
			MemberUsernames: []string{},
		})
		added++
	}
	if added > 0 {
		s.commit()
	}
	return added
}

// UnknownTeams returns the names of teams that are not in the catalog, in roster order.
func UnknownTeams(r *models.Roster, names []string) []string {
	known := make(map[string]struct{}, len(names))
	for _, n := range names {
		known[strings.TrimSpace(n)] = struct{}{}
	}
	var unknown []string
	for _, t := range r.Teams {
		if _, ok := known[t.Name]; !ok {
			unknown = append(unknown, t.Name)
		}
	}
	return unknown
}
