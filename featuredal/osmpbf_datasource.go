package featuredal

import (
	"context"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/ownmap-style/feature"
	"github.com/paulmach/osm"
)

const OSMPBFFileExtension = ".osm.pbf"

const pbfProgressLogInterval = 1000 * 1000

type osmScanStats struct {
	nodes, ways                    int
	waysMissingNodes, untaggedWays int
	relationsSkipped, objectsTotal int
}

// FeaturesFromPBF reads every tagged node and way in a PBF stream as a feature, with the OSM tags as its properties.
// Nodes come before ways in a PBF file, so the positions of all nodes are kept until the ways have been read.
// Ways referring to nodes outside the extract are skipped, as are relations.
func FeaturesFromPBF(logger *logpkg.Logger, pbfReader PBFReader) ([]*feature.Feature, errorsx.Error) {
	header, err := pbfReader.Header()
	if err != nil {
		return nil, errorsx.Wrap(err)
	}
	logger.Info("pbf replication timestamp: %v", header.ReplicationTimestamp)

	var features []*feature.Feature
	var stats osmScanStats
	nodeLocations := make(map[osm.NodeID][2]float64)

	for pbfReader.Scan() {
		stats.objectsTotal++
		if stats.objectsTotal%pbfProgressLogInterval == 0 && pbfReader.TotalSize() != 0 {
			logger.Info("scanned bytes so far: %d/%d (%0.02f%%)", pbfReader.FullyScannedBytes(), pbfReader.TotalSize(), float64(pbfReader.FullyScannedBytes())*100/float64(pbfReader.TotalSize()))
		}

		switch obj := pbfReader.Object().(type) {
		case *osm.Node:
			nodeLocations[obj.ID] = [2]float64{obj.Lat, obj.Lon}
			if len(obj.Tags) == 0 {
				continue
			}
			stats.nodes++
			features = append(features, feature.FromOSMNode(obj))
		case *osm.Way:
			if len(obj.Tags) == 0 {
				// most likely part of a multipolygon relation
				stats.untaggedWays++
				continue
			}
			if !annotateWayNodes(obj, nodeLocations) {
				stats.waysMissingNodes++
				continue
			}
			stats.ways++
			features = append(features, feature.FromOSMWay(obj))
		case *osm.Relation:
			stats.relationsSkipped++
		default:
			return nil, errorsx.Errorf("unknown object type: %v. ID: %v", obj.ObjectID().Type(), obj.ObjectID().Ref())
		}
	}

	err = pbfReader.Err()
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	logger.Info(
		"read %d nodes and %d ways from %d objects. Skipped %d ways with nodes outside the extract, %d untagged ways and %d relations",
		stats.nodes, stats.ways, stats.objectsTotal, stats.waysMissingNodes, stats.untaggedWays, stats.relationsSkipped,
	)

	return features, nil
}

// annotateWayNodes sets the position of each of the way's nodes, returning false if any of them are unknown
func annotateWayNodes(way *osm.Way, nodeLocations map[osm.NodeID][2]float64) bool {
	if len(way.Nodes) < 2 {
		return false
	}

	for i, wayNode := range way.Nodes {
		location, ok := nodeLocations[wayNode.ID]
		if !ok {
			return false
		}
		way.Nodes[i].Lat = location[0]
		way.Nodes[i].Lon = location[1]
	}

	return true
}

// NewOSMPBFDataSourceConn reads an OSM PBF extract into memory. sourceLayer defaults to name.
func NewOSMPBFDataSourceConn(ctx context.Context, logger *logpkg.Logger, fs gofs.Fs, name, path, sourceLayer string) (*MemoryDataSourceConn, errorsx.Error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}
	defer file.Close()

	pbfReader, err := NewDefaultPBFReader(ctx, file)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}
	defer pbfReader.Close()

	features, err := FeaturesFromPBF(logger, pbfReader)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	return NewMemoryDataSourceConn(name, path, sourceLayer, features), nil
}
