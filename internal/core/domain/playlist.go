package domain

import "errors"

var (
	ErrDuplicateCandidate = errors.New("domain: duplicate candidate id")
	ErrInvalidCandidate   = errors.New("domain: candidate id is empty")
)

// PlaylistCandidate is a playlist returned by a catalog search. Two
// candidates with the same ID are the same playlist.
type PlaylistCandidate struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ArtworkURL  string   `json:"artwork_url,omitempty"`
	ExternalURL string   `json:"url,omitempty"`
	Provider    string   `json:"provider,omitempty"`
	Popularity  *float64 `json:"popularity,omitempty"`
}

// RankedCandidate pairs a candidate with its score for one ranking call.
type RankedCandidate struct {
	Candidate PlaylistCandidate `json:"candidate"`
	Score     float64           `json:"score"`
}

// CandidateSet accumulates candidates in first-seen order, keyed by ID.
type CandidateSet struct {
	items []PlaylistCandidate
	seen  map[string]struct{}
}

func NewCandidateSet() *CandidateSet {
	return &CandidateSet{seen: make(map[string]struct{})}
}

// Add appends a candidate unless its ID is empty or already present.
// Candidates without an ID return ErrInvalidCandidate; repeats return
// ErrDuplicateCandidate and leave the set unchanged.
func (s *CandidateSet) Add(c PlaylistCandidate) error {
	if c.ID == "" {
		return ErrInvalidCandidate
	}
	if _, ok := s.seen[c.ID]; ok {
		return ErrDuplicateCandidate
	}
	s.seen[c.ID] = struct{}{}
	s.items = append(s.items, c)
	return nil
}

// Len returns the number of distinct candidates.
func (s *CandidateSet) Len() int {
	return len(s.items)
}

// Items returns the candidates in first-seen order.
func (s *CandidateSet) Items() []PlaylistCandidate {
	out := make([]PlaylistCandidate, len(s.items))
	copy(out, s.items)
	return out
}
