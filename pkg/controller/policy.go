package controller

import (
	"fmt"

	"github.com/blang/semver/v4"

	"github.com/updateops/cluster-autoupdater/pkg/clusterversion"
	"github.com/updateops/cluster-autoupdater/pkg/logging"
)

// Policy decides which update, if any, should be requested for an observed
// resource.
type Policy interface {
	// Target returns the update to request, or nil when no request should
	// be made this cycle.
	Target(*clusterversion.ClusterVersion) *clusterversion.Update
}

// latestPolicy requests the newest advertised update once the cluster is
// idle, stamping it with the configured force setting.
type latestPolicy struct {
	log   logging.Logger
	force bool
}

func (p *latestPolicy) Target(observed *clusterversion.ClusterVersion) *clusterversion.Update {
	status := observed.Status
	if status == nil {
		p.log.Debug("resource has no status yet")
		return nil
	}
	if logging.Debuggable {
		p.log.WithField("status", fmt.Sprintf("%+v", *status)).Debug("observed status")
	}

	if len(status.History) > 0 && status.History[0].CompletionTime == nil {
		p.log.Debug("waiting for update to complete")
		return nil
	}

	candidate := newest(p.log, status.AvailableUpdates)
	if candidate == nil {
		return nil
	}

	// The advertised force value is not trusted; the controller's own
	// setting always wins.
	target := *candidate
	target.Force = p.force
	return &target
}

// newest returns the first-seen maximum of the candidates by semantic
// version precedence. Candidates whose versions do not parse can never win.
func newest(log logging.Logger, candidates []clusterversion.Update) *clusterversion.Update {
	var best *clusterversion.Update
	for i := range candidates {
		candidate := &candidates[i]
		if best == nil {
			if _, err := semver.Parse(candidate.Version); err != nil {
				log.WithError(err).Warnf("skipping candidate with unparseable version %q", candidate.Version)
				continue
			}
			best = candidate
			continue
		}
		// best is known to parse, so a comparison error indicts the
		// candidate.
		cmp, err := candidate.CompareVersion(*best)
		if err != nil {
			log.WithError(err).Warnf("skipping candidate with unparseable version %q", candidate.Version)
			continue
		}
		if cmp > 0 {
			best = candidate
		}
	}
	return best
}
