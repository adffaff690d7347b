package controller

import (
	"encoding/json"

	"github.com/pkg/errors"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/rest"

	"github.com/updateops/cluster-autoupdater/pkg/clusterversion"
	"github.com/updateops/cluster-autoupdater/pkg/logging"
)

// k8sSubmitter records a new desired update by patching the singleton
// resource, addressed by its well-known name.
type k8sSubmitter struct {
	log    logging.Logger
	client rest.Interface
}

func (s *k8sSubmitter) Submit(patch *clusterversion.ClusterVersion) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return errors.Wrap(err, "unable to encode patch")
	}

	err = s.client.Patch(types.MergePatchType).
		Resource(clusterversion.Resource).
		Name(clusterversion.SingletonName).
		Body(body).
		Do().
		Error()
	if err != nil {
		return errors.Wrap(err, "unable to patch ClusterVersion")
	}

	s.log.WithField("name", clusterversion.SingletonName).Debug("posted desired update")
	return nil
}
