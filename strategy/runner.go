package strategy

import (
	"sort"
	"sync"

	"poeflow/config"
	"poeflow/logger"
	"poeflow/models"
)

// Runner holds the static strategy registry and merges their output into
// one globally ranked list.
type Runner struct {
	strategies []Strategy
	log        *logger.Log
}

// NewRunner assembles the registry. Registration order is fixed and acts
// as the tie-break for equal ranking keys.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		strategies: []Strategy{
			NewScarabFullGamble(cfg),
			NewScarabByType(cfg),
			NewTattooFlip(cfg),
			NewGemInvest(cfg),
		},
		log: logger.GetLogger(),
	}
}

// NewRunnerWith builds a runner over an explicit strategy list. Used by
// tests and callers that want a narrower registry.
func NewRunnerWith(strategies ...Strategy) *Runner {
	return &Runner{
		strategies: strategies,
		log:        logger.GetLogger(),
	}
}

// RunAll evaluates every registered strategy against the snapshot and
// returns the merged results sorted descending by ranking key. Strategies
// only read the snapshot, so they run concurrently; a panic in one is
// contained and contributes zero results.
func (r *Runner) RunAll(snapshot models.MarketSnapshot, league string) []models.AnalysisResult {
	slots := make([][]models.AnalysisResult, len(r.strategies))

	wg := &sync.WaitGroup{}
	for i, s := range r.strategies {
		wg.Add(1)
		go func(i int, s Strategy) {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					logger.IncrementStrategyError()
					r.log.WithComponent("runner").WithFields(logger.Fields{
						"strategy": s.Name(),
						"panic":    rec,
					}).Error("strategy failed")
				}
			}()

			r.log.WithComponent("runner").WithFields(logger.Fields{
				"strategy": s.Name(),
			}).Info("running strategy")

			results := s.Analyze(snapshot, league)
			slots[i] = results
			logger.IncrementStrategyRun(len(results))

			if len(results) == 0 {
				r.log.WithComponent("runner").WithFields(logger.Fields{
					"strategy": s.Name(),
				}).Debug("no profitable opportunities")
			}
		}(i, s)
	}
	wg.Wait()

	var all []models.AnalysisResult
	for _, results := range slots {
		all = append(all, results...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].RankKey() > all[j].RankKey()
	})
	return all
}
