package main

import (
	"context"
	"flag"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	"k8s.io/client-go/rest"

	"github.com/updateops/cluster-autoupdater/pkg/controller"
	"github.com/updateops/cluster-autoupdater/pkg/k8sutil"
	"github.com/updateops/cluster-autoupdater/pkg/logging"
	"github.com/updateops/cluster-autoupdater/pkg/sigcontext"
)

var (
	flagForce     = flag.Bool("force", false, "Forcefully apply available updates")
	flagVerbosity countFlag
)

// countFlag counts repeated occurrences of its flag, eg: -v -v -v.
type countFlag int

func (c *countFlag) String() string { return strconv.Itoa(int(*c)) }

func (c *countFlag) Set(string) error {
	*c++
	return nil
}

// IsBoolFlag lets the flag appear without a value.
func (c *countFlag) IsBoolFlag() bool { return true }

func main() {
	flag.Var(&flagVerbosity, "v", "Increase log verbosity (can be set multiple times)")
	flag.Parse()

	logging.Set(logging.Verbosity(int(flagVerbosity)))
	log := logging.New("main")

	client, err := k8sutil.DefaultClusterVersionClient()
	if err != nil {
		log.WithError(err).Fatalf("kubernetes client")
	}

	ctx, cancel := sigcontext.WithSignalCancel(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := runController(ctx, client, *flagForce); err != nil {
		log.WithError(err).Fatalf("controller stopped")
	}
}

func runController(ctx context.Context, client rest.Interface, force bool) error {
	log := logging.New("controller")
	c, err := controller.New(log, client, controller.Options{Force: force})
	if err != nil {
		return errors.WithMessage(err, "initialization error")
	}
	return errors.WithMessage(c.Run(ctx), "run error")
}
