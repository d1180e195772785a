package domain

import "time"

// WarmupReport summarizes a cache pre-population pass. A type the catalog
// does not export lands in Missing; warmup itself never fails over it.
type WarmupReport struct {
	Resolved []string
	Missing  []string
	Elapsed  time.Duration
}
