package standings

import (
	"sync"

	"go.uber.org/zap"
)

// Settings carries the season-level knobs the engine needs. Values come
// from config at startup.
type Settings struct {
	// CurrentSeason is the season recomputes default to.
	CurrentSeason string
	// OnlineSeasons lists seasons scored on the flat online scale.
	OnlineSeasons []string
	// QualBar is the national-qualification points threshold.
	QualBar float64
	// OnlineQualBar is the threshold for online seasons.
	OnlineQualBar float64
}

// IsOnline reports whether season uses the online points scale.
func (s Settings) IsOnline(season string) bool {
	for _, os := range s.OnlineSeasons {
		if os == season {
			return true
		}
	}
	return false
}

// Engine recomputes season standings. Recomputes for the same season are
// serialized; different seasons may run concurrently.
type Engine struct {
	store Store
	cache PageCache
	set   Settings
	log   *zap.Logger

	mu      sync.Mutex
	seasons map[string]*sync.Mutex
}

// New builds an engine over the given store and page cache.
func New(store Store, cache PageCache, set Settings, log *zap.Logger) *Engine {
	return &Engine{
		store:   store,
		cache:   cache,
		set:     set,
		log:     log,
		seasons: make(map[string]*sync.Mutex),
	}
}

func (e *Engine) seasonLock(season string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.seasons[season]
	if !ok {
		l = &sync.Mutex{}
		e.seasons[season] = l
	}
	return l
}
