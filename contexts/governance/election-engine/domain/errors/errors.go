package errors

import "errors"

var (
	ErrInvalidRequest        = errors.New("invalid request input")
	ErrElectionNotFound      = errors.New("election not found")
	ErrElectionInactive      = errors.New("election is not active")
	ErrNotEligible           = errors.New("voter is not eligible for this election")
	ErrAlreadyVoted          = errors.New("voter has already voted in this election")
	ErrInvalidOrExpiredToken = errors.New("vote token is invalid or expired")
	ErrTokenNotAuthorized    = errors.New("vote token belongs to another voter")
	ErrInvalidCandidate      = errors.New("candidate is not valid for this election")
)
