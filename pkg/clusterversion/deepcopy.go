package clusterversion

import "k8s.io/apimachinery/pkg/runtime"

// DeepCopyInto copies the receiver into out.
func (in *ClusterVersion) DeepCopyInto(out *ClusterVersion) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	if in.Status != nil {
		out.Status = new(ClusterVersionStatus)
		in.Status.DeepCopyInto(out.Status)
	}
}

// DeepCopy returns an identical, independent ClusterVersion.
func (in *ClusterVersion) DeepCopy() *ClusterVersion {
	if in == nil {
		return nil
	}
	out := new(ClusterVersion)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject satisfies runtime.Object.
func (in *ClusterVersion) DeepCopyObject() runtime.Object {
	return in.DeepCopy()
}

// DeepCopyInto copies the receiver into out.
func (in *ClusterVersionSpec) DeepCopyInto(out *ClusterVersionSpec) {
	*out = *in
	if in.DesiredUpdate != nil {
		out.DesiredUpdate = new(Update)
		*out.DesiredUpdate = *in.DesiredUpdate
	}
}

// DeepCopyInto copies the receiver into out.
func (in *ClusterVersionStatus) DeepCopyInto(out *ClusterVersionStatus) {
	*out = *in
	if in.AvailableUpdates != nil {
		out.AvailableUpdates = make([]Update, len(in.AvailableUpdates))
		copy(out.AvailableUpdates, in.AvailableUpdates)
	}
	if in.History != nil {
		out.History = make([]UpdateHistory, len(in.History))
		for i := range in.History {
			in.History[i].DeepCopyInto(&out.History[i])
		}
	}
}

// DeepCopyInto copies the receiver into out.
func (in *UpdateHistory) DeepCopyInto(out *UpdateHistory) {
	*out = *in
	if in.CompletionTime != nil {
		out.CompletionTime = in.CompletionTime.DeepCopy()
	}
}

// DeepCopyObject satisfies runtime.Object.
func (in *ClusterVersionList) DeepCopyObject() runtime.Object {
	out := new(ClusterVersionList)
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]ClusterVersion, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
	return out
}
