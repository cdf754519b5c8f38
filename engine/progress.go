package engine

import "sort"

// Progress is the per-participant completion state the unlock chain is evaluated on.
type Progress struct {
	CompletedUnits map[string]struct{}
	BestScore      map[string]int
	BestStars      map[string]int
}

func NewProgress() *Progress {
	return &Progress{
		CompletedUnits: map[string]struct{}{},
		BestScore:      map[string]int{},
		BestStars:      map[string]int{},
	}
}

func (p *Progress) HasCompleted(unitID string) bool {
	if p == nil {
		return false
	}
	_, ok := p.CompletedUnits[unitID]
	return ok
}

// Completed returns the completed unit ids in sorted order.
func (p *Progress) Completed() []string {
	if p == nil {
		return []string{}
	}
	units := make([]string, 0, len(p.CompletedUnits))
	for id := range p.CompletedUnits {
		units = append(units, id)
	}
	sort.Strings(units)
	return units
}

// RecordCompletion marks unitID completed and raises its best score and stars.
// Stored bests never decrease. Returns true when anything changed.
func (p *Progress) RecordCompletion(unitID string, correct, stars int) bool {
	if p.CompletedUnits == nil {
		p.CompletedUnits = map[string]struct{}{}
	}
	if p.BestScore == nil {
		p.BestScore = map[string]int{}
	}
	if p.BestStars == nil {
		p.BestStars = map[string]int{}
	}

	changed := false
	if _, ok := p.CompletedUnits[unitID]; !ok {
		p.CompletedUnits[unitID] = struct{}{}
		changed = true
	}

	if prev, ok := p.BestScore[unitID]; !ok || correct > prev {
		p.BestScore[unitID] = correct
		changed = true
	}
	if prev, ok := p.BestStars[unitID]; !ok || stars > prev {
		p.BestStars[unitID] = stars
		changed = true
	}
	return changed
}

// Best returns the stored best score and stars for unitID, zero when absent.
func (p *Progress) Best(unitID string) (score, stars int) {
	if p == nil {
		return 0, 0
	}
	return p.BestScore[unitID], p.BestStars[unitID]
}
