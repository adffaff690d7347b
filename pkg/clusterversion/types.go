// Package clusterversion models the cluster-scoped ClusterVersion resource
// through which a cluster advertises available updates and accepts requests
// to converge to one of them.
package clusterversion

import (
	"github.com/blang/semver/v4"
	"github.com/pkg/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// GroupName is the API group serving the resource.
	GroupName = "config.openshift.io"
	// GroupVersionName is the served version of the resource.
	GroupVersionName = "v1"
	// Resource is the plural name used in API paths.
	Resource = "clusterversions"
	// SingletonName is the well-known name of the one ClusterVersion
	// instance present in a cluster.
	SingletonName = "version"
)

// ClusterVersion is the singleton resource describing the cluster's running
// version, the updates on offer, and the update the cluster has been asked
// to converge to.
type ClusterVersion struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ClusterVersionSpec `json:"spec"`
	// Status is owned by the cluster and may be entirely absent before the
	// version operator has populated it.
	Status *ClusterVersionStatus `json:"status,omitempty"`
}

// ClusterVersionSpec is the client-writable portion of the resource.
type ClusterVersionSpec struct {
	// DesiredUpdate is the update the cluster was last asked to apply.
	DesiredUpdate *Update `json:"desiredUpdate,omitempty"`
}

// ClusterVersionStatus reports update progress and the candidates the
// cluster's update service has advertised. Clients never write it back.
type ClusterVersionStatus struct {
	AvailableUpdates []Update        `json:"availableUpdates,omitempty"`
	History          []UpdateHistory `json:"history,omitempty"`
}

// Update describes one installable payload.
type Update struct {
	Version string `json:"version"`
	Image   string `json:"image"`
	Force   bool   `json:"force"`
}

// CompareVersion orders updates by semantic version precedence, returning
// -1, 0, or +1. Version is the only ordering key: updates differing solely
// in image or force compare as equal.
func (u Update) CompareVersion(other Update) (int, error) {
	uv, err := semver.Parse(u.Version)
	if err != nil {
		return 0, errors.Wrapf(err, "unparseable version %q", u.Version)
	}
	ov, err := semver.Parse(other.Version)
	if err != nil {
		return 0, errors.Wrapf(err, "unparseable version %q", other.Version)
	}
	return uv.Compare(ov), nil
}

// UpdateHistory records one attempted transition. The most recent entry is
// first in ClusterVersionStatus.History.
type UpdateHistory struct {
	// CompletionTime is unset while the transition is still in progress.
	CompletionTime *metav1.Time `json:"completionTime,omitempty"`
}

// ClusterVersionList holds the resources matched by a list request - at most
// one, in practice, with the name-filtered watch.
type ClusterVersionList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []ClusterVersion `json:"items"`
}
