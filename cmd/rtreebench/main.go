// Command rtreebench inserts rects into a tree, reporting timings and tree
// shape as it goes.
package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb/geojson"
	log "github.com/sirupsen/logrus"

	rtree "github.com/peterstace/kmrtree"
)

type options struct {
	n           int
	interval    int
	size        float64
	seed        int64
	maxChildren int
	geoJSON     string
	baseline    bool
	queries     int
}

func main() {
	var opts options
	flag.IntVar(&opts.n, "n", 10000, "number of random rects to insert")
	flag.IntVar(&opts.interval, "interval", 1000, "report every this many inserts")
	flag.Float64Var(&opts.size, "size", 0.000001, "maximum side length of random rects")
	flag.Int64Var(&opts.seed, "seed", 1, "random seed")
	flag.IntVar(&opts.maxChildren, "max-children", 10, "fanout limit")
	flag.StringVar(&opts.geoJSON, "geojson", "", "index the features of this GeoJSON FeatureCollection instead of random rects")
	flag.BoolVar(&opts.baseline, "baseline", false, "also build a classical R-tree over the same data")
	flag.IntVar(&opts.queries, "queries", 100, "number of random rect queries to run at the end")
	verbose := flag.Bool("v", false, "log tree internals")
	flag.Parse()

	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := run(opts, logger); err != nil {
		logger.WithError(err).Error("benchmark failed")
		os.Exit(1)
	}
}

func run(opts options, logger *log.Logger) error {
	if opts.interval <= 0 {
		return errors.Newf("interval must be positive, got %d", opts.interval)
	}
	rnd := rand.New(rand.NewSource(opts.seed))

	var features []*rtree.Feature
	if opts.geoJSON != "" {
		var err error
		features, err = loadFeatures(opts.geoJSON)
		if err != nil {
			return err
		}
	} else {
		features = randomFeatures(rnd, opts.n, opts.size)
	}

	tr, err := rtree.New[*rtree.Feature](
		rtree.WithMaxChildren(opts.maxChildren),
		rtree.WithSeed(opts.seed),
		rtree.WithLogger(logger),
	)
	if err != nil {
		return errors.Wrap(err, "creating tree")
	}

	start := time.Now()
	intervalStart := start
	for i, f := range features {
		if i%opts.interval == 0 {
			logger.WithFields(log.Fields{
				"inserted":   i,
				"itime":      time.Since(intervalStart),
				"max_depth":  tr.MaxDepth(),
				"mean_depth": tr.MeanLeafDepth(),
			}).Info("progress")
			intervalStart = time.Now()
		}
		tr.Insert(f)
	}
	stats := tr.Stats()
	logger.WithFields(log.Fields{
		"inserted":         tr.Len(),
		"total":            time.Since(start),
		"nodes":            stats.Nodes,
		"overflows":        stats.Overflows,
		"kmeans_fallbacks": stats.KMeansFallbacks,
		"max_depth":        tr.MaxDepth(),
		"mean_depth":       tr.MeanLeafDepth(),
	}).Info("inserts done")

	var base *rtreego.Rtree
	if opts.baseline {
		start := time.Now()
		base = rtreego.NewTree(2, opts.maxChildren/2, opts.maxChildren)
		for _, f := range features {
			if s, ok := newSpatial(f); ok {
				base.Insert(s)
			}
		}
		logger.WithFields(log.Fields{
			"inserted": base.Size(),
			"total":    time.Since(start),
			"depth":    base.Depth(),
		}).Info("baseline inserts done")
	}

	ext, ok := tr.Extent()
	if !ok || opts.queries <= 0 {
		return nil
	}
	queries := randomQueries(rnd, ext, opts.queries)

	start = time.Now()
	var found int
	for _, q := range queries {
		for range tr.QueryRect(q) {
			found++
		}
	}
	logger.WithFields(log.Fields{
		"queries": len(queries),
		"found":   found,
		"total":   time.Since(start),
	}).Info("queries done")

	if base != nil {
		start = time.Now()
		var baseFound int
		for _, q := range queries {
			bb, err := rtreego.NewRectFromPoints(
				rtreego.Point{q.MinX(), q.MinY()},
				rtreego.Point{q.MaxX(), q.MaxY()},
			)
			if err != nil {
				return errors.Wrap(err, "baseline query rect")
			}
			// rtreego also reports zero-area rects lying inside the query.
			for _, s := range base.SearchIntersect(bb) {
				if q.Intersects(s.(*spatial).f.Bounds()) {
					baseFound++
				}
			}
		}
		logger.WithFields(log.Fields{
			"queries": len(queries),
			"found":   baseFound,
			"total":   time.Since(start),
		}).Info("baseline queries done")
		if baseFound != found {
			logger.WithFields(log.Fields{
				"found":          found,
				"baseline_found": baseFound,
			}).Warn("baseline disagrees")
		}
	}
	return nil
}

// randomFeatures creates n point-like square features scattered over a 10x10
// field.
func randomFeatures(rnd *rand.Rand, n int, size float64) []*rtree.Feature {
	features := make([]*rtree.Feature, n)
	for i := range features {
		r := rtree.NewRect(rnd.Float64()*10, rnd.Float64()*10, rnd.Float64()*size, rnd.Float64()*size)
		features[i] = &rtree.Feature{ID: i, Geometry: r.Bound()}
	}
	return features
}

// randomQueries creates n rects, each covering about 1% of ext.
func randomQueries(rnd *rand.Rand, ext rtree.Rect, n int) []rtree.Rect {
	w, h := ext.Width()/10, ext.Height()/10
	queries := make([]rtree.Rect, n)
	for i := range queries {
		queries[i] = rtree.NewRect(
			ext.MinX()+rnd.Float64()*(ext.Width()-w),
			ext.MinY()+rnd.Float64()*(ext.Height()-h),
			w, h,
		)
	}
	return queries
}

func loadFeatures(path string) ([]*rtree.Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading features")
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	features := make([]*rtree.Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		features = append(features, &rtree.Feature{
			ID:         f.ID,
			Geometry:   f.Geometry,
			Properties: f.Properties,
		})
	}
	return features, nil
}

// spatial adapts a feature for the baseline tree.
type spatial struct {
	f    *rtree.Feature
	rect rtreego.Rect
}

func (s *spatial) Bounds() rtreego.Rect { return s.rect }

func newSpatial(f *rtree.Feature) (*spatial, bool) {
	r := f.Bounds()
	if r.IsEmpty() {
		return nil, false
	}
	rect, err := rtreego.NewRectFromPoints(
		rtreego.Point{r.MinX(), r.MinY()},
		rtreego.Point{r.MaxX(), r.MaxY()},
	)
	if err != nil {
		return nil, false
	}
	return &spatial{f: f, rect: rect}, true
}
