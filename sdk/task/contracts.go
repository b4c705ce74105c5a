package task

import (
	"strings"

	"github.com/agenticaihome/agenticaihome-v2/pkg/address"
	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
	"github.com/agenticaihome/agenticaihome-v2/sdk/config"
)

// guard is a guard script known both by address, for Explorer queries, and
// by ErgoTree, for building outputs.
type guard struct {
	name    string
	address string
	tree    string
}

func (g guard) require() error {
	if g.address == "" {
		return errors.InvalidParameter("config.contracts."+g.name, "address", "empty")
	}
	return nil
}

// owns reports whether a box with the given ErgoTree is guarded by g.
func (g guard) owns(ergoTree string) bool {
	return g.tree != "" && strings.EqualFold(g.tree, ergoTree)
}

type contracts struct {
	task           guard
	receipt        guard
	failureReceipt guard
	rating         guard
	bond           guard
	bounty         guard
}

func resolveContracts(c config.ContractsConfig) (contracts, error) {
	var out contracts
	for _, r := range []struct {
		dst  *guard
		name string
		addr string
	}{
		{&out.task, "task", c.Task},
		{&out.receipt, "receipt", c.Receipt},
		{&out.failureReceipt, "failure_receipt", c.FailureReceipt},
		{&out.rating, "rating", c.Rating},
		{&out.bond, "bond", c.Bond},
		{&out.bounty, "verification_bounty", c.VerificationBounty},
	} {
		*r.dst = guard{name: r.name, address: r.addr}
		if r.addr == "" {
			continue
		}
		tree, err := address.TreeHexFor(r.addr)
		if err != nil {
			return contracts{}, errors.Errorf("contracts.%s: %w", r.name, err)
		}
		r.dst.tree = tree
	}
	return out, nil
}
