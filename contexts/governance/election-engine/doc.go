// Package electionengine implements the voting integrity and tally engine
// inside the governance context.
//
// The module owns one-time token issuance and consumption, exactly-once ballot
// admission with role-dependent weighting, ranked tallies with participation
// statistics, and the phase/round state machine that concludes elections or
// spawns university runoff rounds. Business rules live in the domain and
// application layers; infrastructure stays behind ports and adapters.
package electionengine
