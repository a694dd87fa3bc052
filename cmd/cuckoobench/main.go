// Command cuckoobench fills a filter with sequential integers and reports
// insertion, lookup and deletion timings together with the observed false
// positive rate.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	cuckoo "github.com/livekit/packedcuckoo"
)

type options struct {
	buckets    uint
	bits       uint
	entries    uint
	iterations int
	hasher     string
	seed       uint64
	logLevel   string
	dump       bool
}

func main() {
	var opts options
	flag.UintVar(&opts.buckets, "buckets", 1000, "minimum number of buckets")
	flag.UintVar(&opts.bits, "bits", 16, "bits per fingerprint (4, 8, 12, 16 or 32)")
	flag.UintVar(&opts.entries, "entries", 0, "entries per bucket, 0 picks the pair for -bits")
	flag.IntVar(&opts.iterations, "iterations", 30, "number of fresh filters to exercise")
	flag.StringVar(&opts.hasher, "hasher", "default", "hash function: default, murmur3 or xxhash")
	flag.Uint64Var(&opts.seed, "seed", 1, "seed for eviction slot choice")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level")
	flag.BoolVar(&opts.dump, "dump", false, "print bucket contents after the last insertion phase")
	flag.Parse()

	level, err := log.ParseLevel(opts.logLevel)
	if err != nil {
		log.WithError(err).Fatal("invalid log level")
	}
	log.SetLevel(level)

	if err := run(opts); err != nil {
		log.WithError(err).Fatal("benchmark failed")
	}
}

func hasherByName(name string) (cuckoo.Hasher, error) {
	switch name {
	case "default":
		return cuckoo.DefaultHasher{}, nil
	case "murmur3":
		return cuckoo.NewMurmur3Hasher(), nil
	case "xxhash":
		return cuckoo.XXHashHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", name)
	}
}

func key(i uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], i)
	return b[:]
}

type stats struct {
	registry *prometheus.Registry
	phase    *prometheus.HistogramVec
	inserted prometheus.Histogram
	fpRate   prometheus.Histogram
}

func newStats() *stats {
	s := &stats{
		registry: prometheus.NewRegistry(),
		phase: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cuckoobench_phase_duration_seconds",
			Help:    "Time spent in one benchmark phase",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"phase"}),
		inserted: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "cuckoobench_inserted_elements",
			Help: "Elements inserted before the first failure",
		}),
		fpRate: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cuckoobench_false_positive_ratio",
			Help:    "Observed false positive ratio",
			Buckets: prometheus.ExponentialBuckets(1e-5, 10, 6),
		}),
	}
	s.registry.MustRegister(s.phase, s.inserted, s.fpRate)
	return s
}

func (s *stats) time(phase string, fn func()) {
	start := time.Now()
	fn()
	s.phase.WithLabelValues(phase).Observe(time.Since(start).Seconds())
}

func run(opts options) error {
	h, err := hasherByName(opts.hasher)
	if err != nil {
		return err
	}
	s := newStats()
	n := uint64(opts.buckets)

	for it := 0; it < opts.iterations; it++ {
		cf, err := cuckoo.NewFilter(cuckoo.Config{
			NumBuckets:         opts.buckets,
			BitsPerFingerprint: opts.bits,
			EntriesPerBucket:   opts.entries,
			Hasher:             h,
			Rand:               rand.NewPCG(opts.seed, uint64(it)),
		})
		if err != nil {
			return err
		}

		var inserted uint64
		s.time("insert", func() {
			for ; inserted < n; inserted++ {
				if !cf.Insert(key(inserted)) {
					break
				}
			}
		})
		s.inserted.Observe(float64(inserted))

		var missing int
		s.time("lookup", func() {
			for i := uint64(0); i < inserted; i++ {
				if !cf.Lookup(key(i)) {
					missing++
				}
			}
		})
		if missing > 0 {
			log.WithFields(log.Fields{"iteration": it, "missing": missing}).Error("false negatives")
		}

		var positives int
		for i := n; i < 2*n; i++ {
			if cf.Lookup(key(i)) {
				positives++
			}
		}
		fpRate := float64(positives) / float64(n)
		s.fpRate.Observe(fpRate)
		availability := cf.Availability()

		if opts.dump && it == opts.iterations-1 {
			if err := cf.Print(os.Stdout); err != nil {
				return err
			}
		}

		s.time("delete", func() {
			for i := uint64(0); i < inserted; i++ {
				cf.Delete(key(i))
			}
		})

		log.WithFields(log.Fields{
			"iteration":    it,
			"inserted":     inserted,
			"requested":    n,
			"fpRate":       fpRate,
			"availability": availability,
			"emptyAfter":   cf.IsEmpty(),
		}).Info("iteration done")
	}
	return report(s)
}

func report(s *stats) error {
	families, err := s.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			hist := m.GetHistogram()
			if hist == nil || hist.GetSampleCount() == 0 {
				continue
			}
			fields := log.Fields{
				"samples": hist.GetSampleCount(),
				"mean":    hist.GetSampleSum() / float64(hist.GetSampleCount()),
			}
			for _, lp := range m.GetLabel() {
				fields[lp.GetName()] = lp.GetValue()
			}
			log.WithFields(fields).Info(mf.GetName())
		}
	}
	return nil
}
