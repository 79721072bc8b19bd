package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryDatabase implements Database with in-process maps. It is used by the
// inMemory backend and by tests; no network I/O is involved.
type MemoryDatabase struct {
	mu         sync.RWMutex
	regions    map[int]Region
	candidates map[string]Candidate
	votes      map[string]Vote
	feedback   []Feedback
	status     *ElectionStatus
}

func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		regions:    map[int]Region{},
		candidates: map[string]Candidate{},
		votes:      map[string]Vote{},
	}
}

func (m *MemoryDatabase) InitialiseSchema(ctx context.Context) error {
	return nil
}

func (m *MemoryDatabase) CandidatesByPosition(ctx context.Context, position string) ([]Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Candidate
	for _, c := range m.candidates {
		if c.Position == position {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].FullName < result[j].FullName })
	return result, nil
}

func (m *MemoryDatabase) VotesByRegion(ctx context.Context, regionCode int, limit int) ([]Vote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []Vote
	for _, v := range m.votes {
		if v.RegionCode == regionCode {
			result = append(result, v)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RecordedAt.After(result[j].RecordedAt) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MemoryDatabase) TallyByParty(ctx context.Context) ([]PartyTally, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := map[string]int64{}
	for _, v := range m.votes {
		if c, ok := m.candidates[v.CandidateID]; ok {
			counts[c.Party]++
		}
	}

	result := make([]PartyTally, 0, len(counts))
	for party, votes := range counts {
		result = append(result, PartyTally{Party: party, Votes: votes})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Votes > result[j].Votes })
	return result, nil
}

func (m *MemoryDatabase) CurrentElectionStatus(ctx context.Context) (ElectionStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.status == nil {
		return ElectionStatus{}, fmt.Errorf("election status has not been set")
	}
	return *m.status, nil
}

func (m *MemoryDatabase) FeedbackPage(ctx context.Context, limit int, offset int) ([]Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]Feedback, len(m.feedback))
	copy(entries, m.feedback)
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })

	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *MemoryDatabase) InsertVote(ctx context.Context, vote Vote) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.votes[vote.VoteID]; ok {
		return "", fmt.Errorf("constraint violation (vote_pkey): vote %s already exists", vote.VoteID)
	}
	if _, ok := m.candidates[vote.CandidateID]; !ok {
		return "", fmt.Errorf("constraint violation (vote_candidate_id_fkey): candidate %s not found", vote.CandidateID)
	}
	m.votes[vote.VoteID] = vote
	return vote.VoteID, nil
}

func (m *MemoryDatabase) DeleteVote(ctx context.Context, voteID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.votes[voteID]; !ok {
		return fmt.Errorf("vote %s not found", voteID)
	}
	delete(m.votes, voteID)
	return nil
}

func (m *MemoryDatabase) SetElectionStatus(ctx context.Context, state string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.status = &ElectionStatus{State: state, UpdatedAt: time.Now()}
	return nil
}

func (m *MemoryDatabase) CopyRegions(ctx context.Context, regions []Region) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range regions {
		if _, ok := m.regions[r.Code]; ok {
			return fmt.Errorf("constraint violation (region_pkey): region %d already exists", r.Code)
		}
		m.regions[r.Code] = r
	}
	return nil
}

func (m *MemoryDatabase) CopyCandidates(ctx context.Context, candidates []Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range candidates {
		if _, ok := m.regions[c.RegionCode]; !ok {
			return fmt.Errorf("constraint violation (candidate_region_code_fkey): region %d not found", c.RegionCode)
		}
		m.candidates[c.CandidateID] = c
	}
	return nil
}

func (m *MemoryDatabase) CopyVotes(ctx context.Context, votes []Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range votes {
		if _, ok := m.candidates[v.CandidateID]; !ok {
			return fmt.Errorf("constraint violation (vote_candidate_id_fkey): candidate %s not found", v.CandidateID)
		}
		m.votes[v.VoteID] = v
	}
	return nil
}

func (m *MemoryDatabase) CopyFeedback(ctx context.Context, entries []Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.feedback = append(m.feedback, entries...)
	return nil
}

func (m *MemoryDatabase) TearDown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.regions = map[int]Region{}
	m.candidates = map[string]Candidate{}
	m.votes = map[string]Vote{}
	m.feedback = nil
	m.status = nil
	return nil
}

func (m *MemoryDatabase) Close() {}
