package pickservice

import (
	"context"
)

// UpcomingDeadlines lists rounds that have not locked yet, in calendar order.
func (s *PickService) UpcomingDeadlines(ctx context.Context) ([]RoundDeadline, error) {
	rounds, err := s.schedule.ListRounds(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]RoundDeadline, 0, len(rounds))
	for _, r := range rounds {
		if d, locked := s.deadline(r); !locked {
			out = append(out, RoundDeadline{Round: r.Number, Deadline: d})
		}
	}
	return out, nil
}
