package k8sutil

import (
	"github.com/pkg/errors"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/updateops/cluster-autoupdater/pkg/clusterversion"
)

// NewDefaultConfig loads client configuration from the environment based on
// the default SDK behavior - that is, this respects `$KUBECONFIG` and would
// load service access tokens if available.
func NewDefaultConfig() (*rest.Config, error) {
	// Load with SDK defaults.
	loadrules := clientcmd.NewDefaultClientConfigLoadingRules()
	overrides := clientcmd.ConfigOverrides{}
	configLoader := clientcmd.
		NewNonInteractiveDeferredLoadingClientConfig(loadrules, &overrides)
	config, loadErr := configLoader.ClientConfig()
	if loadErr != nil {
		return nil, errors.Wrap(loadErr, "could not load kubeconfig with default loader")
	}
	return config, nil
}

// DefaultClusterVersionClient returns a REST client scoped to the API group
// serving the ClusterVersion resource, configured from the environment.
func DefaultClusterVersionClient() (rest.Interface, error) {
	config, configErr := NewDefaultConfig()
	if configErr != nil {
		return nil, configErr
	}
	return NewClusterVersionClient(config)
}

// NewClusterVersionClient builds the group-scoped REST client from the
// provided configuration.
func NewClusterVersionClient(config *rest.Config) (rest.Interface, error) {
	c := *config
	c.APIPath = "/apis"
	c.GroupVersion = &clusterversion.SchemeGroupVersion
	c.NegotiatedSerializer = clusterversion.Codecs
	c.UserAgent = rest.DefaultKubernetesUserAgent()

	client, err := rest.RESTClientFor(&c)
	if err != nil {
		return nil, errors.Wrap(err, "could not build ClusterVersion client")
	}
	return client, nil
}
