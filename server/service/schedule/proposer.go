package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/flowstate-app/flowstate/server/timezone"
)

// candidate is a conflict-free slot found during the scan.
type candidate struct {
	slot      TimeInterval
	dayOffset int
	score     int
}

// ProposeTimeBlocks enumerates, scores and ranks candidate slots for a task.
//
// Days are scanned from today (IST) onwards. The scan covers at least
// SearchDays days and continues up to MaxDays only while fewer than
// MinProposals candidates have been found. Within a day, slots start every
// SlotStride from the work window start and must end inside the window.
// Slots overlapping an existing block, or starting before req.Now, are skipped.
//
// The result holds at most MaxProposals blocks ordered by score, ties keeping
// scan order. Start and End are returned in UTC. The function performs no
// I/O and is safe for concurrent use.
func ProposeTimeBlocks(req *ProposalRequest) ([]*ProposedBlock, error) {
	hours, priority, err := validateRequest(req)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(req.EstimateMins) * time.Minute
	contexts := normalizeContexts(req.PreferredContexts)

	var candidates []candidate
	for dayOffset := 0; dayOffset < MaxDays; dayOffset++ {
		day := timezone.AddLocalDays(req.Now, dayOffset)
		windowStart, windowEnd, ok := hours.windowFor(day)
		if ok {
			for start := windowStart; !start.Add(duration).After(windowEnd); start = start.Add(SlotStride) {
				if start.Before(req.Now) {
					continue
				}
				slot := TimeInterval{Start: start, End: start.Add(duration)}
				if conflictsWithAny(slot, req.ExistingBlocks) {
					continue
				}
				candidates = append(candidates, candidate{
					slot:      slot,
					dayOffset: dayOffset,
					score:     scoreSlot(slot.Start, dayOffset, priority, contexts),
				})
			}
		}

		if len(candidates) >= MinProposals && dayOffset+1 >= SearchDays {
			break
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	n := min(len(candidates), MaxProposals)
	proposals := make([]*ProposedBlock, 0, n)
	for _, c := range candidates[:n] {
		proposals = append(proposals, &ProposedBlock{
			Start:     c.slot.Start.UTC(),
			End:       c.slot.End.UTC(),
			Rationale: buildRationale(c.slot.Start, c.dayOffset, priority, contexts),
			Score:     c.score,
		})
	}
	return proposals, nil
}

func validateRequest(req *ProposalRequest) (workHours, Priority, error) {
	if req == nil {
		return workHours{}, "", fmt.Errorf("%w: request is required", ErrInvalidArgument)
	}
	if req.Now.IsZero() {
		return workHours{}, "", fmt.Errorf("%w: now is required", ErrInvalidArgument)
	}
	if req.EstimateMins <= 0 {
		return workHours{}, "", fmt.Errorf("%w: estimateMins must be positive, got %d", ErrInvalidArgument, req.EstimateMins)
	}
	if req.EstimateMins > MaxEstimateMins {
		return workHours{}, "", fmt.Errorf("%w: estimateMins must be at most %d, got %d", ErrInvalidArgument, MaxEstimateMins, req.EstimateMins)
	}
	priority, err := ParsePriority(string(req.Priority))
	if err != nil {
		return workHours{}, "", err
	}
	hours, err := parseWorkHours(req.Prefs)
	if err != nil {
		return workHours{}, "", err
	}
	for i, b := range req.ExistingBlocks {
		if !b.Start.Before(b.End) {
			return workHours{}, "", fmt.Errorf("%w: existing block %d has start >= end", ErrInvalidArgument, i)
		}
	}
	return hours, priority, nil
}

// contextSet is the case-insensitive set of preferred contexts.
type contextSet map[string]struct{}

func normalizeContexts(contexts []string) contextSet {
	set := make(contextSet, len(contexts))
	for _, c := range contexts {
		if c = strings.TrimSpace(c); c != "" {
			set[strings.ToLower(c)] = struct{}{}
		}
	}
	return set
}

func (s contextSet) has(name string) bool {
	_, ok := s[strings.ToLower(name)]
	return ok
}

// scoreSlot is BaseScore plus the priority, context and time-of-day bonuses,
// minus WeekendPenalty, floored at zero.
func scoreSlot(start time.Time, dayOffset int, priority Priority, contexts contextSet) int {
	local := timezone.ToLocal(start)
	hour := local.Hour()

	score := BaseScore + priorityBonus(priority, dayOffset)

	switch {
	case contexts.has(ContextDeepWork) && hour >= 10 && hour < 13:
		score += 25
	case contexts.has(ContextDeepWork) && hour >= 9 && hour < 17:
		score += 10
	case contexts.has(ContextAdmin) && hour >= 9 && hour < 17:
		score += 15
	}

	switch {
	case hour >= 9 && hour < 12:
		score += 10
	case hour >= 14 && hour < 16:
		score += 5
	}

	if timezone.IsWeekend(local) {
		score -= WeekendPenalty
	}
	return max(0, score)
}

// priorityBonus favours earlier days, more strongly for urgent work.
func priorityBonus(priority Priority, dayOffset int) int {
	type bonus struct{ today, tomorrow, later, decay int }
	var b bonus
	switch priority {
	case PriorityUrgent:
		b = bonus{40, 30, 20, 5}
	case PriorityHigh:
		b = bonus{30, 20, 15, 3}
	case PriorityLow:
		b = bonus{10, 8, 5, 1}
	default:
		b = bonus{20, 15, 10, 2}
	}
	switch dayOffset {
	case 0:
		return b.today
	case 1:
		return b.tomorrow
	default:
		return max(0, b.later-b.decay*dayOffset)
	}
}
