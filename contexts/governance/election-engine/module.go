package electionengine

import (
	"log/slog"
	"time"

	httpadapter "univote/contexts/governance/election-engine/adapters/http"
	"univote/contexts/governance/election-engine/adapters/memory"
	"univote/contexts/governance/election-engine/application/commands"
	"univote/contexts/governance/election-engine/application/queries"
	"univote/contexts/governance/election-engine/application/workers"
	"univote/contexts/governance/election-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Sweeper workers.PhaseSweeper
	Store   *memory.Store
}

type Dependencies struct {
	Elections    ports.ElectionRepository
	Candidates   ports.CandidateRepository
	Tokens       ports.TokenRepository
	Ballots      ports.BallotRepository
	Grants       ports.GrantRepository
	Rounds       ports.RoundRepository
	Students     ports.StudentDirectory
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	TokenTTL     time.Duration
	RunoffWindow time.Duration
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	tokenUseCase := commands.TokenUseCase{
		Elections: deps.Elections,
		Tokens:    deps.Tokens,
		Ballots:   deps.Ballots,
		Rounds:    deps.Rounds,
		Grants:    deps.Grants,
		Students:  deps.Students,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		TokenTTL:  deps.TokenTTL,
		Logger:    deps.Logger,
	}
	ballotUseCase := commands.BallotUseCase{
		Elections: deps.Elections,
		Candidate: deps.Candidates,
		Tokens:    deps.Tokens,
		Ballots:   deps.Ballots,
		Rounds:    deps.Rounds,
		Grants:    deps.Grants,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	resultsUseCase := queries.ResultsUseCase{
		Elections:  deps.Elections,
		Candidates: deps.Candidates,
		Ballots:    deps.Ballots,
		Tokens:     deps.Tokens,
		Grants:     deps.Grants,
		Rounds:     deps.Rounds,
	}
	statusUseCase := queries.VoteStatusUseCase{
		Elections: deps.Elections,
		Ballots:   deps.Ballots,
		Rounds:    deps.Rounds,
	}
	return Module{
		Handler: httpadapter.Handler{
			Tokens:  tokenUseCase,
			Ballots: ballotUseCase,
			Results: resultsUseCase,
			Status:  statusUseCase,
			Logger:  deps.Logger,
		},
		Sweeper: workers.PhaseSweeper{
			Elections:    deps.Elections,
			Candidates:   deps.Candidates,
			Ballots:      deps.Ballots,
			Grants:       deps.Grants,
			Rounds:       deps.Rounds,
			Clock:        deps.Clock,
			IDGen:        deps.IDGen,
			RunoffWindow: deps.RunoffWindow,
			Logger:       deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Elections:    store,
		Candidates:   store,
		Tokens:       store,
		Ballots:      store,
		Grants:       store,
		Rounds:       store,
		Students:     store,
		Clock:        store,
		IDGen:        store,
		TokenTTL:     time.Hour,
		RunoffWindow: 24 * time.Hour,
		Logger:       logger,
	})
	module.Store = store
	return module
}
