package featuredal

import (
	"context"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownmap-style/feature"
	"github.com/jamesrr39/ownmap-style/ownmap"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// MemoryDataSourceConn serves a set of features, held in memory, as a single source layer
type MemoryDataSourceConn struct {
	name        string
	sourceLayer string
	features    []*feature.Feature
	datasetInfo *ownmap.DatasetInfo
}

var _ DataSourceConn = &MemoryDataSourceConn{}

// NewMemoryDataSourceConn creates a dataset from features. sourceLayer defaults to name.
func NewMemoryDataSourceConn(name, path, sourceLayer string, features []*feature.Feature) *MemoryDataSourceConn {
	if sourceLayer == "" {
		sourceLayer = name
	}

	var bound orb.Bound
	haveBound := false
	for _, f := range features {
		if f.Geometry == nil {
			continue
		}
		if !haveBound {
			bound = f.Geometry.Bound()
			haveBound = true
			continue
		}
		bound = bound.Union(f.Geometry.Bound())
	}

	return &MemoryDataSourceConn{
		name:        name,
		sourceLayer: sourceLayer,
		features:    features,
		datasetInfo: &ownmap.DatasetInfo{
			Name:         name,
			Path:         path,
			Bounds:       ownmap.BoundsFromOrb(bound),
			FeatureCount: len(features),
			SourceLayers: []string{sourceLayer},
		},
	}
}

func (c *MemoryDataSourceConn) Name() string {
	return c.name
}

func (c *MemoryDataSourceConn) DatasetInfo() (*ownmap.DatasetInfo, errorsx.Error) {
	return c.datasetInfo, nil
}

func (c *MemoryDataSourceConn) GetInBounds(ctx context.Context, bounds osm.Bounds, filter *GetInBoundsFilter) (SourceLayerFeatureMap, errorsx.Error) {
	featureMap := make(SourceLayerFeatureMap)
	if !filter.Filter(c.sourceLayer) {
		return featureMap, nil
	}

	var inBounds []*feature.Feature
	for _, f := range c.features {
		if ctx.Err() != nil {
			return nil, errorsx.Wrap(ctx.Err())
		}

		if ownmap.GeometryOverlaps(bounds, f.Geometry) {
			inBounds = append(inBounds, f)
		}
	}

	if len(inBounds) != 0 {
		featureMap[c.sourceLayer] = inBounds
	}

	return featureMap, nil
}
