package rtree

import (
	"io"
	"math/rand"

	"github.com/cockroachdb/errors"
	log "github.com/sirupsen/logrus"
)

const (
	defaultMaxChildren   = 10
	defaultMinClusters   = 2
	defaultMaxClusters   = 4
	defaultMaxIterations = 100
	defaultSeed          = 1
)

// ErrInvalidOption is returned (wrapped) by New when an option is out of range.
var ErrInvalidOption = errors.New("rtree: invalid option")

// config alters the behaviour when inserting new data into a Tree.
type config struct {
	maxChildren   int
	minClusters   int
	maxClusters   int
	maxIterations int
	rnd           *rand.Rand
	logger        log.FieldLogger
}

// Option configures a Tree created with New.
type Option func(*config) error

// WithMaxChildren sets the fanout limit: the number of payloads a leaf node
// may hold before it overflows.
func WithMaxChildren(n int) Option {
	return func(c *config) error {
		if n < 2 {
			return errors.Wrapf(ErrInvalidOption, "max children must be at least 2, got %d", n)
		}
		c.maxChildren = n
		return nil
	}
}

// WithClusterRange sets the cluster counts tried when a node overflows. Both
// ends are inclusive.
func WithClusterRange(minK, maxK int) Option {
	return func(c *config) error {
		if minK < 2 {
			return errors.Wrapf(ErrInvalidOption, "min clusters must be at least 2, got %d", minK)
		}
		if maxK < minK {
			return errors.Wrapf(ErrInvalidOption, "max clusters %d is less than min clusters %d", maxK, minK)
		}
		c.minClusters, c.maxClusters = minK, maxK
		return nil
	}
}

// WithMaxIterations bounds the number of k-means iterations per clustering.
func WithMaxIterations(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return errors.Wrapf(ErrInvalidOption, "max iterations must be positive, got %d", n)
		}
		c.maxIterations = n
		return nil
	}
}

// WithRand sets the source used to seed k-means clusters.
func WithRand(rnd *rand.Rand) Option {
	return func(c *config) error {
		if rnd == nil {
			return errors.Wrap(ErrInvalidOption, "nil random source")
		}
		c.rnd = rnd
		return nil
	}
}

// WithSeed is shorthand for WithRand(rand.New(rand.NewSource(seed))).
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithLogger sets the logger that overflow events are reported to.
func WithLogger(logger log.FieldLogger) Option {
	return func(c *config) error {
		if logger == nil {
			return errors.Wrap(ErrInvalidOption, "nil logger")
		}
		c.logger = logger
		return nil
	}
}

// withDefaults fills in any unset fields.
func (c *config) withDefaults() {
	if c.maxChildren == 0 {
		c.maxChildren = defaultMaxChildren
	}
	if c.minClusters == 0 {
		c.minClusters, c.maxClusters = defaultMinClusters, defaultMaxClusters
	}
	if c.maxIterations == 0 {
		c.maxIterations = defaultMaxIterations
	}
	if c.rnd == nil {
		c.rnd = rand.New(rand.NewSource(defaultSeed))
	}
	if c.logger == nil {
		l := log.New()
		l.SetOutput(io.Discard)
		c.logger = l
	}
}
