package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tallybench/internal/db"
	"github.com/tallyhq/tallybench/internal/workload"
)

var firstNames = []string{
	"Amelia", "Benjamin", "Carmen", "Diego", "Elena", "Felix", "Grace", "Hassan",
	"Ingrid", "Jonas", "Katherine", "Leonard", "Miriam", "Nikolai", "Olivia",
	"Patrick", "Quinn", "Rosa", "Samuel", "Teresa", "Ulysses", "Victoria",
	"Walter", "Ximena", "Yusuf", "Zelda",
}

var lastNames = []string{
	"Abara", "Bennett", "Castillo", "Dimitrov", "Eriksen", "Ferreira", "Gallagher",
	"Huang", "Ivanova", "Jansen", "Kowalski", "Lindqvist", "Moreau", "Nakamura",
	"Okafor", "Petrov", "Quispe", "Romano", "Silva", "Takahashi", "Umarov",
	"Virtanen", "Weber", "Yamamoto", "Zhang",
}

var parties = []string{
	"Progressive Alliance",
	"National Unity Party",
	"Civic Reform Movement",
	"Green Horizon",
	"Labour Front",
	"Liberty Coalition",
	"Independent",
}

var regionNamePrefixes = []string{
	"North", "South", "East", "West", "Central", "Upper", "Lower", "Greater",
}

var regionNameStems = []string{
	"Avalon", "Brookfield", "Caldera", "Dunmore", "Eastvale", "Fairhaven",
	"Glenwood", "Halvern", "Ironridge", "Juniper", "Kestrel", "Lakewood",
	"Marigold", "Northgate", "Oakhurst", "Pinecrest", "Quarrybrook", "Riverton",
	"Stonebridge", "Thornbury", "Umberland", "Valemont", "Westbrook", "Yarrow",
}

var regionTypes = []string{"state", "province", "district"}

var feedbackMessages = []string{
	"Results page loads quickly, well done.",
	"The map view does not update after refreshing.",
	"Would be useful to see turnout per region.",
	"Candidate photos are missing for my district.",
	"Vote counts differ between the list and the chart.",
	"Great coverage, checking in every hour.",
	"The site was briefly unreachable around noon.",
	"Please add a dark mode.",
}

// Generator fabricates synthetic election data. Deterministic for a given seed.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Regions fabricates n regions with unique names and codes 1..n.
func (g *Generator) Regions(n int) []db.Region {
	regions := make([]db.Region, n)
	for i := range regions {
		prefix := regionNamePrefixes[g.rng.Intn(len(regionNamePrefixes))]
		stem := regionNameStems[i%len(regionNameStems)]
		name := fmt.Sprintf("%s %s", prefix, stem)
		if i >= len(regionNameStems) {
			// Stems recycle once n outgrows the pool; suffix keeps names unique.
			name = fmt.Sprintf("%s %d", name, i/len(regionNameStems)+1)
		}
		regions[i] = db.Region{
			Code: i + 1,
			Name: name,
			Type: regionTypes[g.rng.Intn(len(regionTypes))],
		}
	}
	return regions
}

// Candidates fabricates perRegion candidates for every region, cycling through
// the positions. Name collisions within a (position, region) pair are retried
// so the schema's uniqueness constraint holds.
func (g *Generator) Candidates(regions []db.Region, perRegion int) []db.Candidate {
	candidates := make([]db.Candidate, 0, len(regions)*perRegion)
	for _, region := range regions {
		used := map[string]bool{}
		for i := 0; i < perRegion; i++ {
			position := workload.Positions[i%len(workload.Positions)]
			name := g.fullName()
			for used[position+"/"+name] {
				name = g.fullName()
			}
			used[position+"/"+name] = true

			candidates = append(candidates, db.Candidate{
				CandidateID: uuid.NewString(),
				FullName:    name,
				Party:       parties[g.rng.Intn(len(parties))],
				Position:    position,
				RegionCode:  region.Code,
			})
		}
	}
	return candidates
}

// VoteCount returns a randomized vote count for one candidate, within ±20% of
// the configured average.
func (g *Generator) VoteCount(average int) int {
	if average <= 0 {
		return 0
	}
	spread := average / 5
	if spread == 0 {
		return average
	}
	return average - spread + g.rng.Intn(2*spread+1)
}

// Vote fabricates one vote for the candidate, timestamped within the last day.
func (g *Generator) Vote(candidate db.Candidate) db.Vote {
	return db.Vote{
		VoteID:      uuid.NewString(),
		CandidateID: candidate.CandidateID,
		RegionCode:  candidate.RegionCode,
		RecordedAt:  time.Now().UTC().Add(-time.Duration(g.rng.Intn(86400)) * time.Second),
	}
}

// Feedback fabricates n feedback entries with ratings in [1, 5].
func (g *Generator) Feedback(n int) []db.Feedback {
	entries := make([]db.Feedback, n)
	for i := range entries {
		entries[i] = db.Feedback{
			FeedbackID: uuid.NewString(),
			Message:    feedbackMessages[g.rng.Intn(len(feedbackMessages))],
			Rating:     1 + g.rng.Intn(5),
			CreatedAt:  time.Now().UTC().Add(-time.Duration(g.rng.Intn(7*86400)) * time.Second),
		}
	}
	return entries
}

func (g *Generator) fullName() string {
	return firstNames[g.rng.Intn(len(firstNames))] + " " + lastNames[g.rng.Intn(len(lastNames))]
}
