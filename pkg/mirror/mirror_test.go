package mirror

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/assert"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/tools/cache"

	"github.com/updateops/cluster-autoupdater/pkg/clusterversion"
	"github.com/updateops/cluster-autoupdater/pkg/internal/testoutput"
	"github.com/updateops/cluster-autoupdater/pkg/logging"
)

func resource(resourceVersion, desired string) *clusterversion.ClusterVersion {
	cv := &clusterversion.ClusterVersion{}
	cv.Name = clusterversion.SingletonName
	cv.ResourceVersion = resourceVersion
	if desired != "" {
		cv.Spec.DesiredUpdate = &clusterversion.Update{Version: desired}
	}
	return cv
}

func listOf(resourceVersion string, items ...clusterversion.ClusterVersion) *clusterversion.ClusterVersionList {
	list := &clusterversion.ClusterVersionList{Items: items}
	list.ResourceVersion = resourceVersion
	return list
}

func testMirror(t *testing.T, lw cache.ListerWatcher) *Mirror {
	return newFromListWatcher(testoutput.Logger(t, logging.New("mirror")), lw)
}

func TestRefreshListsInitially(t *testing.T) {
	lists := 0
	lw := &cache.ListWatch{
		ListFunc: func(metav1.ListOptions) (runtime.Object, error) {
			lists++
			return listOf("10", *resource("10", "")), nil
		},
	}
	m := testMirror(t, lw)

	assert.NilError(t, m.Refresh(context.Background()))
	assert.Equal(t, 1, lists)
	assert.Equal(t, "10", m.lastResourceVersion)

	view, err := m.ReadAll()
	assert.NilError(t, err)
	assert.Equal(t, 1, len(view))
	assert.Equal(t, clusterversion.SingletonName, view[0].Name)
}

func TestRefreshFoldsWatchEvents(t *testing.T) {
	fw := watch.NewFake()
	lw := &cache.ListWatch{
		ListFunc: func(metav1.ListOptions) (runtime.Object, error) {
			return listOf("10", *resource("10", "")), nil
		},
		WatchFunc: func(opts metav1.ListOptions) (watch.Interface, error) {
			assert.Equal(t, "10", opts.ResourceVersion)
			go func() {
				fw.Modify(resource("11", "4.2.0"))
				fw.Stop()
			}()
			return fw, nil
		},
	}
	m := testMirror(t, lw)
	ctx := context.Background()

	assert.NilError(t, m.Refresh(ctx))
	assert.NilError(t, m.Refresh(ctx))
	assert.Equal(t, "11", m.lastResourceVersion)

	view, err := m.ReadAll()
	assert.NilError(t, err)
	assert.Equal(t, 1, len(view))
	assert.Assert(t, view[0].Spec.DesiredUpdate != nil)
	assert.Equal(t, "4.2.0", view[0].Spec.DesiredUpdate.Version)
}

func TestRefreshFoldsDeletion(t *testing.T) {
	fw := watch.NewFake()
	lw := &cache.ListWatch{
		ListFunc: func(metav1.ListOptions) (runtime.Object, error) {
			return listOf("10", *resource("10", "")), nil
		},
		WatchFunc: func(metav1.ListOptions) (watch.Interface, error) {
			go func() {
				fw.Delete(resource("11", ""))
				fw.Stop()
			}()
			return fw, nil
		},
	}
	m := testMirror(t, lw)
	ctx := context.Background()

	assert.NilError(t, m.Refresh(ctx))
	assert.NilError(t, m.Refresh(ctx))

	view, err := m.ReadAll()
	assert.NilError(t, err)
	assert.Equal(t, 0, len(view))
}

func TestRefreshErrorKeepsPriorView(t *testing.T) {
	lw := &cache.ListWatch{
		ListFunc: func(metav1.ListOptions) (runtime.Object, error) {
			return listOf("10", *resource("10", "4.1.0")), nil
		},
		WatchFunc: func(metav1.ListOptions) (watch.Interface, error) {
			return nil, errors.New("connection refused")
		},
	}
	m := testMirror(t, lw)
	ctx := context.Background()

	assert.NilError(t, m.Refresh(ctx))
	assert.ErrorContains(t, m.Refresh(ctx), "unable to watch")

	// The failed poll must not disturb what was mirrored before it.
	view, err := m.ReadAll()
	assert.NilError(t, err)
	assert.Equal(t, 1, len(view))
	assert.Equal(t, "4.1.0", view[0].Spec.DesiredUpdate.Version)
}

func TestRefreshRelistsAfterDroppedWatch(t *testing.T) {
	lists := 0
	lw := &cache.ListWatch{
		ListFunc: func(metav1.ListOptions) (runtime.Object, error) {
			lists++
			return listOf("10", *resource("10", "")), nil
		},
		WatchFunc: func(metav1.ListOptions) (watch.Interface, error) {
			return nil, errors.New("too old resource version")
		},
	}
	m := testMirror(t, lw)
	ctx := context.Background()

	assert.NilError(t, m.Refresh(ctx))
	assert.Assert(t, m.Refresh(ctx) != nil)
	// The dropped watch invalidated the held resource version; the next
	// refresh starts over from a list.
	assert.NilError(t, m.Refresh(ctx))
	assert.Equal(t, 2, lists)
}

func TestRefreshWatchErrorEvent(t *testing.T) {
	lists := 0
	fw := watch.NewFake()
	lw := &cache.ListWatch{
		ListFunc: func(metav1.ListOptions) (runtime.Object, error) {
			lists++
			return listOf("10", *resource("10", "")), nil
		},
		WatchFunc: func(metav1.ListOptions) (watch.Interface, error) {
			go fw.Error(&metav1.Status{
				Status:  metav1.StatusFailure,
				Reason:  metav1.StatusReasonGone,
				Message: "too old resource version",
			})
			return fw, nil
		},
	}
	m := testMirror(t, lw)
	ctx := context.Background()

	assert.NilError(t, m.Refresh(ctx))
	assert.ErrorContains(t, m.Refresh(ctx), "watch failed")
	assert.NilError(t, m.Refresh(ctx))
	assert.Equal(t, 2, lists)
}

func TestReadAllReturnsCopies(t *testing.T) {
	lw := &cache.ListWatch{
		ListFunc: func(metav1.ListOptions) (runtime.Object, error) {
			return listOf("10", *resource("10", "4.1.0")), nil
		},
	}
	m := testMirror(t, lw)

	assert.NilError(t, m.Refresh(context.Background()))

	view, err := m.ReadAll()
	assert.NilError(t, err)
	view[0].Spec.DesiredUpdate.Version = "0.0.0"

	again, err := m.ReadAll()
	assert.NilError(t, err)
	assert.Equal(t, "4.1.0", again[0].Spec.DesiredUpdate.Version)
}
