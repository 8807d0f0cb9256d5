package featuredal

import (
	"context"
	"sync"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-style/ownmap"
	"github.com/paulmach/osm"
)

type DataSourceConn interface {
	// Info methods
	Name() string
	DatasetInfo() (*ownmap.DatasetInfo, errorsx.Error)

	// Data fetch methods
	GetInBounds(ctx context.Context, bounds osm.Bounds, filter *GetInBoundsFilter) (SourceLayerFeatureMap, errorsx.Error)
}

type ConnSet struct {
	logger *logpkg.Logger
	conns  []DataSourceConn
	mu     *sync.RWMutex
}

func NewConnSet(logger *logpkg.Logger, conns []DataSourceConn) *ConnSet {
	return &ConnSet{logger, conns, new(sync.RWMutex)}
}

func (cs *ConnSet) GetConns() []DataSourceConn {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.conns
}

func (cs *ConnSet) AddConn(conn DataSourceConn) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.conns = append(cs.conns, conn)
}

type MatchLevel int

const (
	MatchLevelNone MatchLevel = iota
	MatchLevelPartial
	MatchLevelFull
)

func (ml MatchLevel) String() string {
	switch ml {
	case MatchLevelNone:
		return "none"
	case MatchLevelPartial:
		return "partial"
	case MatchLevelFull:
		return "full"
	default:
		return "unknown"
	}
}

type ChosenConnForBounds struct {
	MatchLevel MatchLevel
	DataSourceConn
}

func getMatchLevel(conn DataSourceConn, bounds osm.Bounds) (MatchLevel, errorsx.Error) {
	datasetInfo, err := conn.DatasetInfo()
	if err != nil {
		return 0, errorsx.Wrap(err)
	}

	atLeastPartialMatch := ownmap.Overlaps(datasetInfo.Bounds, bounds)
	if !atLeastPartialMatch {
		return MatchLevelNone, nil
	}

	isFullMatch := ownmap.IsTotallyInside(datasetInfo.Bounds, bounds)
	if isFullMatch {
		return MatchLevelFull, nil
	}

	return MatchLevelPartial, nil
}

// GetConnsForBounds selects the connections that have data for at least part of the bounds
func (cs *ConnSet) GetConnsForBounds(bounds osm.Bounds) ([]*ChosenConnForBounds, errorsx.Error) {
	var chosen []*ChosenConnForBounds

	for _, conn := range cs.GetConns() {
		matchLevel, err := getMatchLevel(conn, bounds)
		if err != nil {
			return nil, errorsx.Wrap(err, "conn", conn.Name())
		}

		cs.logger.Debug("matchlevel: %s, dataset: %v", matchLevel, conn.Name())

		if matchLevel == MatchLevelNone {
			continue
		}

		chosen = append(chosen, &ChosenConnForBounds{
			DataSourceConn: conn,
			MatchLevel:     matchLevel,
		})
	}

	return chosen, nil
}

// GetInBounds merges the features from every connection with data in the bounds
func (cs *ConnSet) GetInBounds(ctx context.Context, bounds osm.Bounds, filter *GetInBoundsFilter) (SourceLayerFeatureMap, errorsx.Error) {
	chosenConns, err := cs.GetConnsForBounds(bounds)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	if len(chosenConns) == 0 {
		return nil, errorsx.Wrap(ErrNoDataAvailable)
	}

	merged := make(SourceLayerFeatureMap)
	for _, chosenConn := range chosenConns {
		endSpan := ownmap.StartSpan(ctx, "get in bounds: "+chosenConn.Name())
		featureMap, err := chosenConn.GetInBounds(ctx, bounds, filter)
		endSpan()
		if err != nil {
			return nil, errorsx.Wrap(err, "conn", chosenConn.Name())
		}

		for sourceLayer, features := range featureMap {
			merged[sourceLayer] = append(merged[sourceLayer], features...)
		}
	}

	return merged, nil
}
