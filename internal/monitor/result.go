package monitor

import (
	"time"

	"github.com/juststeveking/pingtray/internal/probe"
)

// Tier represents the quality of the connection
type Tier string

const (
	TierPending     Tier = "pending"
	TierGood        Tier = "good"
	TierModerate    Tier = "moderate"
	TierSlow        Tier = "slow"
	TierUnreachable Tier = "unreachable"
)

// Classify maps a probe result onto a tier. A latency equal to the
// threshold is still Good.
func Classify(result probe.Result, threshold time.Duration) Tier {
	if !result.OK {
		return TierUnreachable
	}
	if result.Latency <= threshold {
		return TierGood
	}
	return TierSlow
}

// Policy is the classification policy. Moderate enables a third colour
// band between Threshold and Moderate; zero disables it.
type Policy struct {
	Threshold time.Duration
	Moderate  time.Duration
}

// Classify applies the policy to a probe result
func (p Policy) Classify(result probe.Result) Tier {
	tier := Classify(result, p.Threshold)
	if tier == TierSlow && p.Moderate > p.Threshold && result.Latency <= p.Moderate {
		return TierModerate
	}
	return tier
}
