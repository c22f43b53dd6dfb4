package services

import (
	"sort"

	"univote/contexts/governance/election-engine/domain/entities"
)

// RoomRepresentativeBonus is the ballot weight for a voter holding the matching
// room-representative grant in a room-scope election. Ordinary ballots weigh 1.
const RoomRepresentativeBonus = 1.6

// School-scope tallies blend two buckets: room representatives carry 60% of the
// final score, everyone else 40%.
const (
	representativeShare = 0.6
	ordinaryShare       = 0.4
)

// BallotWeight computes the weight attached to a ballot at admission time. Only
// room-scope elections weight ballots individually; school-scope bucket
// membership is derived from grants at tally time instead.
func BallotWeight(election entities.Election, grants []entities.RoleGrant) float64 {
	if election.Scope != entities.ScopeRoom {
		return 1.0
	}
	for _, grant := range grants {
		if grant.Kind != entities.RoleRoomRepresentative {
			continue
		}
		if grant.RoomID == election.RoomID && grant.SchoolID == election.SchoolID {
			return RoomRepresentativeBonus
		}
	}
	return 1.0
}

// Tally aggregates admitted ballots into ranked per-candidate results.
// repVoters marks the voters counted in the representative bucket; it is only
// consulted for school-scope elections. Scores are percentages summing to 100
// across candidates (when any ballots exist). Ties rank by ascending candidate
// id.
func Tally(
	election entities.Election,
	candidates []entities.Candidate,
	ballots []entities.Ballot,
	repVoters map[string]bool,
) []entities.CandidateResult {
	byCandidate := make(map[string]*entities.CandidateResult, len(candidates))
	results := make([]entities.CandidateResult, 0, len(candidates))
	for _, candidate := range candidates {
		results = append(results, entities.CandidateResult{
			CandidateID: candidate.CandidateID,
			VoterID:     candidate.VoterID,
		})
	}
	for i := range results {
		byCandidate[results[i].CandidateID] = &results[i]
	}

	totalRep := 0
	totalOrdinary := 0
	totalWeight := 0.0
	for _, ballot := range ballots {
		result, ok := byCandidate[ballot.CandidateID]
		if !ok {
			continue
		}
		result.Votes++
		result.WeightSum += ballot.Weight
		totalWeight += ballot.Weight
		if repVoters[ballot.VoterID] {
			result.RepVotes++
			totalRep++
		} else {
			result.OrdinaryVotes++
			totalOrdinary++
		}
	}

	switch {
	case election.Scope == entities.ScopeSchool && totalRep > 0 && totalOrdinary > 0:
		for i := range results {
			repFraction := float64(results[i].RepVotes) / float64(totalRep)
			ordinaryFraction := float64(results[i].OrdinaryVotes) / float64(totalOrdinary)
			results[i].Score = (repFraction*representativeShare + ordinaryFraction*ordinaryShare) * 100
		}
	case election.Scope == entities.ScopeSchool:
		// One bucket is empty: blending would divide by zero or zero out every
		// candidate, so fall back to the raw vote ratio.
		total := totalRep + totalOrdinary
		for i := range results {
			if total > 0 {
				results[i].Score = float64(results[i].Votes) / float64(total) * 100
			}
		}
	default:
		for i := range results {
			if totalWeight > 0 {
				results[i].Score = results[i].WeightSum / totalWeight * 100
			}
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].CandidateID < results[j].CandidateID
		}
		return results[i].Score > results[j].Score
	})
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// FilterRoundCandidates restricts a candidate list to the subset standing in a
// runoff round, preserving order.
func FilterRoundCandidates(candidates []entities.Candidate, round entities.ElectionRound) []entities.Candidate {
	subset := make([]entities.Candidate, 0, len(round.CandidateIDs))
	for _, candidate := range candidates {
		if round.HasCandidate(candidate.CandidateID) {
			subset = append(subset, candidate)
		}
	}
	return subset
}
