// Package mirror maintains an eventually-consistent local view of the
// watched ClusterVersion resource via an explicitly driven list-watch.
package mirror

import (
	"context"
	"time"

	"github.com/pkg/errors"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/fields"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/cache"

	"github.com/updateops/cluster-autoupdater/pkg/clusterversion"
	"github.com/updateops/cluster-autoupdater/pkg/logging"
)

// defaultPollTimeout bounds how long one Refresh holds its watch open before
// returning with whatever events arrived.
const defaultPollTimeout = 10 * time.Second

// Mirror keeps a local copy of the resources matched by a name-filtered
// list-watch. It is refreshed explicitly by its single caller rather than by
// a background goroutine, so a reconciliation cycle always operates on one
// settled view.
type Mirror struct {
	log   logging.Logger
	lw    cache.ListerWatcher
	store cache.Store

	pollTimeout time.Duration
	// lastResourceVersion is empty until an initial list succeeds, and is
	// reset whenever a watch is dropped to force a relist.
	lastResourceVersion string
}

// New creates a Mirror of the named ClusterVersion resource.
func New(log logging.Logger, client rest.Interface, name string) *Mirror {
	selector := fields.OneTermEqualSelector("metadata.name", name)
	lw := cache.NewListWatchFromClient(client, clusterversion.Resource, metav1.NamespaceAll, selector)
	return newFromListWatcher(log, lw)
}

func newFromListWatcher(log logging.Logger, lw cache.ListerWatcher) *Mirror {
	return &Mirror{
		log:         log,
		lw:          lw,
		store:       cache.NewStore(cache.MetaNamespaceKeyFunc),
		pollTimeout: defaultPollTimeout,
	}
}

// Refresh brings the mirrored view up to date: a full list on the first call
// and after a dropped watch, otherwise a bounded watch poll folding whatever
// events the server delivers into the view. On error the previous view is
// left intact and the next call recovers by relisting if needed.
func (m *Mirror) Refresh(ctx context.Context) error {
	if m.lastResourceVersion == "" {
		return m.list()
	}
	return m.poll(ctx)
}

// ReadAll returns a copy of the mirrored resources. Order is unspecified;
// with the name-filtered watch there is at most one element in practice.
func (m *Mirror) ReadAll() ([]clusterversion.ClusterVersion, error) {
	objects := m.store.List()
	out := make([]clusterversion.ClusterVersion, 0, len(objects))
	for _, object := range objects {
		cv, ok := object.(*clusterversion.ClusterVersion)
		if !ok {
			return nil, errors.Errorf("unexpected object of type %T in mirrored view", object)
		}
		out = append(out, *cv.DeepCopy())
	}
	return out, nil
}

func (m *Mirror) list() error {
	obj, err := m.lw.List(metav1.ListOptions{})
	if err != nil {
		return errors.Wrap(err, "unable to list resources")
	}
	listMeta, err := meta.ListAccessor(obj)
	if err != nil {
		return errors.Wrap(err, "listed object carries no list metadata")
	}
	items, err := meta.ExtractList(obj)
	if err != nil {
		return errors.Wrap(err, "unable to extract listed items")
	}

	replacement := make([]interface{}, 0, len(items))
	for _, item := range items {
		replacement = append(replacement, item)
	}
	if err := m.store.Replace(replacement, listMeta.GetResourceVersion()); err != nil {
		return errors.Wrap(err, "unable to replace mirrored view")
	}
	m.lastResourceVersion = listMeta.GetResourceVersion()
	m.log.WithField("resource-version", m.lastResourceVersion).Debug("listed watched resources")
	return nil
}

func (m *Mirror) poll(ctx context.Context) error {
	timeout := int64(m.pollTimeout / time.Second)
	w, err := m.lw.Watch(metav1.ListOptions{
		ResourceVersion: m.lastResourceVersion,
		TimeoutSeconds:  &timeout,
	})
	if err != nil {
		// The server may have expired the resource version we hold; start
		// over from a list on the next call.
		m.lastResourceVersion = ""
		return errors.Wrap(err, "unable to watch resources")
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.ResultChan():
			if !ok {
				// Poll window closed by the server; the view is as current
				// as this cycle needs.
				return nil
			}
			if err := m.apply(event); err != nil {
				m.lastResourceVersion = ""
				return err
			}
		}
	}
}

func (m *Mirror) apply(event watch.Event) error {
	switch event.Type {
	case watch.Added, watch.Modified:
		if err := m.store.Update(event.Object); err != nil {
			return errors.Wrap(err, "unable to update mirrored resource")
		}
	case watch.Deleted:
		if err := m.store.Delete(event.Object); err != nil {
			return errors.Wrap(err, "unable to delete mirrored resource")
		}
	case watch.Error:
		return errors.Wrap(apierrors.FromObject(event.Object), "watch failed")
	default:
		return nil
	}

	accessor, err := meta.Accessor(event.Object)
	if err != nil {
		return errors.Wrap(err, "event object carries no object metadata")
	}
	m.lastResourceVersion = accessor.GetResourceVersion()
	if logging.Debuggable {
		m.log.WithField("event", string(event.Type)).
			WithField("resource-version", m.lastResourceVersion).
			Debug("applied watch event")
	}
	return nil
}
