package clusterversion

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/runtime/serializer"
)

// SchemeGroupVersion addresses the served resource in API machinery terms.
var SchemeGroupVersion = schema.GroupVersion{Group: GroupName, Version: GroupVersionName}

var (
	// Scheme knows only this package's types; the controller talks to no
	// other part of the API surface.
	Scheme = runtime.NewScheme()
	// Codecs negotiates serialization for clients built on Scheme.
	Codecs = serializer.NewCodecFactory(Scheme)
)

func init() {
	Scheme.AddKnownTypes(SchemeGroupVersion,
		&ClusterVersion{},
		&ClusterVersionList{},
	)
	metav1.AddToGroupVersion(Scheme, SchemeGroupVersion)
}
