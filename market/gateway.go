package market

import (
	"context"

	"poeflow/config"
	"poeflow/logger"
	"poeflow/models"
)

// categorySpec maps a snapshot category to its API overview endpoint.
type categorySpec struct {
	overviewType string
	apiType      string
}

var categorySpecs = map[string]categorySpec{
	models.CategoryCurrency: {overviewType: "currencyoverview", apiType: "Currency"},
	models.CategoryTattoo:   {overviewType: "itemoverview", apiType: "Tattoo"},
	models.CategoryScarab:   {overviewType: "itemoverview", apiType: "Scarab"},
	models.CategoryEssence:  {overviewType: "itemoverview", apiType: "Essence"},
	models.CategoryGem:      {overviewType: "itemoverview", apiType: "SkillGem"},
}

// Gateway fetches, caches and cleans market listings. Failures never
// propagate to callers: a category that cannot be fetched simply yields
// no listings.
type Gateway struct {
	cfg    *config.Config
	client *Client
	cache  *Cache
	rates  models.Rates
	log    *logger.Log
}

func NewGateway(cfg *config.Config) *Gateway {
	return &Gateway{
		cfg:    cfg,
		client: NewClient(cfg),
		cache:  NewCache(cfg.Cache.Dir, cfg.Cache.TTL),
		rates:  models.DefaultRates(),
		log:    logger.GetLogger(),
	}
}

// Rates returns the most recently observed exchange rates.
func (g *Gateway) Rates() models.Rates {
	return g.rates
}

// Fetch returns the cleaned listings for one category, serving from the
// file cache when the entry is fresh. An unknown category, transport
// failure or malformed response yields an empty result.
func (g *Gateway) Fetch(ctx context.Context, category, league string) []models.Listing {
	spec, ok := categorySpecs[category]
	if !ok {
		g.log.WithComponent("gateway").WithFields(logger.Fields{
			"category": category,
		}).Warn("unknown market category")
		return nil
	}

	log := g.log.WithComponent("gateway").WithFields(logger.Fields{
		"category": category,
		"league":   league,
	})

	if lines, hit := g.cache.Load(league, category); hit {
		logger.IncrementCacheHit()
		listings := g.clean(lines)
		log.WithFields(logger.Fields{"listings": len(listings), "cache_hit": true}).Debug("listings loaded")
		return listings
	}

	lines, err := g.client.fetchLines(ctx, spec.overviewType, league, spec.apiType)
	if err != nil {
		logger.IncrementAPIFailure()
		log.WithError(err).Warn("fetch failed, returning no data")
		return nil
	}
	if len(lines) == 0 {
		log.Warn("no data returned")
		return nil
	}

	if err := g.cache.Store(league, category, lines); err != nil {
		log.WithError(err).Warn("failed to persist cache entry")
	}

	listings := g.clean(lines)
	log.WithFields(logger.Fields{"listings": len(listings), "cache_hit": false}).Debug("listings loaded")
	return listings
}

// clean normalizes raw lines into listings and applies the configured
// blacklist and minimum-liquidity filters. The count filter only applies
// to listings that report a count.
func (g *Gateway) clean(lines []line) []models.Listing {
	blacklist := make(map[string]struct{}, len(g.cfg.API.ItemBlacklist))
	for _, name := range g.cfg.API.ItemBlacklist {
		blacklist[name] = struct{}{}
	}

	listings := make([]models.Listing, 0, len(lines))
	blacklisted := 0
	lowLiquidity := 0
	for _, l := range lines {
		name := l.itemName()
		if name == "" || l.chaos() < 0 {
			continue
		}
		if _, banned := blacklist[name]; banned {
			blacklisted++
			continue
		}
		if l.Count != nil && *l.Count < g.cfg.API.MinimumListings {
			lowLiquidity++
			continue
		}
		listings = append(listings, models.Listing{
			Name:       name,
			ChaosValue: l.chaos(),
			Count:      l.Count,
			GemLevel:   l.GemLevel,
			GemQuality: l.GemQuality,
			Corrupted:  l.Corrupted,
		})
	}

	if blacklisted > 0 || lowLiquidity > 0 {
		g.log.WithComponent("gateway").WithFields(logger.Fields{
			"blacklisted":   blacklisted,
			"low_liquidity": lowLiquidity,
		}).Debug("filtered listings")
	}
	return listings
}

// FetchAll builds the full market snapshot for a league and refreshes the
// Divine Orb rate from the currency overview. A missing Divine Orb row
// keeps the previous rate rather than failing the fetch.
func (g *Gateway) FetchAll(ctx context.Context, league string) (models.MarketSnapshot, models.Rates) {
	log := g.log.WithComponent("gateway").WithFields(logger.Fields{"league": league})
	log.Info("starting data acquisition")

	snapshot := make(models.MarketSnapshot, len(categorySpecs))
	total := 0
	for _, category := range models.Categories() {
		listings := g.Fetch(ctx, category, league)
		snapshot[category] = listings
		total += len(listings)
	}

	log.WithFields(logger.Fields{"total_records": total}).Info("data acquisition complete")

	divineFound := false
	for _, l := range snapshot[models.CategoryCurrency] {
		if l.Name == "Divine Orb" && l.ChaosValue > 0 {
			g.rates.DivineToChaos = l.ChaosValue
			divineFound = true
			break
		}
	}
	if divineFound {
		log.WithFields(logger.Fields{"divine_to_chaos": g.rates.DivineToChaos}).Info("live rates updated")
	} else {
		log.Warn("could not update Divine Orb price, keeping previous rate")
	}

	return snapshot, g.rates
}
