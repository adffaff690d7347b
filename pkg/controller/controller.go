// Package controller drives the reconciliation loop that requests cluster
// updates: refresh the mirrored state, decide on a target update, and patch
// the desired update when one is due.
package controller

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"k8s.io/client-go/rest"

	"github.com/updateops/cluster-autoupdater/pkg/clusterversion"
	"github.com/updateops/cluster-autoupdater/pkg/logging"
	"github.com/updateops/cluster-autoupdater/pkg/mirror"
	"github.com/updateops/cluster-autoupdater/pkg/workgroup"
)

// cycleInterval is the minimum delay between reconciliation cycles. Cycles
// re-derive their decision from a fresh view each time, so failures need no
// targeted retry beyond running the next cycle.
const cycleInterval = 5 * time.Second

// stateMirror is the synchronized local view of cluster state consumed once
// per cycle.
type stateMirror interface {
	Refresh(context.Context) error
	ReadAll() ([]clusterversion.ClusterVersion, error)
}

// submitter requests a resource change through the cluster API.
type submitter interface {
	Submit(*clusterversion.ClusterVersion) error
}

// Options configure the Controller's update policy.
type Options struct {
	// Force requests updates that bypass the cluster's own safety checks.
	Force bool
}

// Controller reconciles the observed ClusterVersion against the updates on
// offer, requesting the newest one whenever the cluster is idle.
type Controller struct {
	log      logging.Logger
	mirror   stateMirror
	policy   Policy
	submit   submitter
	interval time.Duration
}

// New creates a Controller operating through the provided group-scoped REST
// client.
func New(log logging.Logger, client rest.Interface, opts Options) (*Controller, error) {
	return &Controller{
		log:    log,
		mirror: mirror.New(log.WithField("worker", "mirror"), client, clusterversion.SingletonName),
		policy: &latestPolicy{
			log:   log.WithField("worker", "policy"),
			force: opts.Force,
		},
		submit: &k8sSubmitter{
			log:    log.WithField("worker", "submit"),
			client: client,
		},
		interval: cycleInterval,
	}, nil
}

// Run reconciles until the context is cancelled. Failing to establish the
// initial view of cluster state is fatal; every later failure is logged and
// recovered by the next cycle.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.mirror.Refresh(ctx); err != nil {
		return errors.WithMessage(err, "unable to establish initial view of cluster state")
	}

	c.log.Debug("starting workers")
	group := workgroup.WithContext(ctx)
	group.Work(c.loop)
	return group.Wait()
}

func (c *Controller) loop(ctx context.Context) error {
	c.log.Debug("running control loop")
	for {
		c.runOnce(ctx)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.interval):
		}
	}
}

// runOnce performs one reconciliation cycle: refresh, read, decide, submit.
// No outcome of a cycle is fatal.
func (c *Controller) runOnce(ctx context.Context) {
	if err := c.mirror.Refresh(ctx); err != nil {
		c.log.WithError(err).Error("failed to refresh cluster state")
	}

	versions, err := c.mirror.ReadAll()
	if err != nil {
		c.log.WithError(err).Error("failed to read ClusterVersion")
		return
	}
	if len(versions) == 0 {
		c.log.Debug("no ClusterVersion resource present")
		return
	}
	// The watch is filtered to a single name; should more than one resource
	// show up anyway, the last one returned wins.
	observed := versions[len(versions)-1]

	target := c.policy.Target(&observed)
	if target == nil {
		return
	}

	c.log.WithField("version", target.Version).Info("attempting to update")
	if err := c.submit.Submit(patchFor(&observed, target)); err != nil {
		c.log.WithError(err).Error("failed to apply update")
	}
}

// patchFor builds the partial resource submitted to request an update. The
// observed identity and type metadata ride along unchanged; status is owned
// by the cluster and is never sent back.
func patchFor(observed *clusterversion.ClusterVersion, target *clusterversion.Update) *clusterversion.ClusterVersion {
	return &clusterversion.ClusterVersion{
		TypeMeta:   observed.TypeMeta,
		ObjectMeta: *observed.ObjectMeta.DeepCopy(),
		Spec: clusterversion.ClusterVersionSpec{
			DesiredUpdate: target,
		},
	}
}
