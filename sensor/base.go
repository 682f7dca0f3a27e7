// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package sensor

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/featureform/athenaspark/config"
	"github.com/featureform/athenaspark/fferr"
)

type Poker interface {
	Poke(ctx context.Context) (bool, error)
}

type PokeFunc func(ctx context.Context) (bool, error)

func (f PokeFunc) Poke(ctx context.Context) (bool, error) {
	return f(ctx)
}

// BaseSensor drives a Poker: it pokes right away, then every PokeInterval until the poker is
// ready, returns an error, or Timeout elapses.
type BaseSensor struct {
	PokeInterval time.Duration
	Timeout      time.Duration
	SoftFail     bool
	// Target names what is being waited for in timeout errors.
	Target string
}

func NewBaseSensor(defaults config.SensorDefaults, target string) BaseSensor {
	return BaseSensor{
		PokeInterval: defaults.PokeInterval,
		Timeout:      defaults.Timeout,
		SoftFail:     defaults.SoftFail,
		Target:       target,
	}
}

// Run returns nil once ready. Poke errors come back unchanged. A timeout is a
// *fferr.SensorTimeoutError, or a *fferr.SkippedError when SoftFail is set.
func (b BaseSensor) Run(ctx context.Context, poker Poker) error {
	interval := b.PokeInterval
	if interval <= 0 {
		interval = config.DefaultPokeInterval
	}
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = config.DefaultSensorTimeout
	}
	// wait.Interrupted cannot tell a poke error wrapping context.DeadlineExceeded from the poll
	// itself timing out, so the poke error is kept aside.
	var pokeErr error
	err := wait.PollUntilContextTimeout(ctx, interval, timeout, true, func(ctx context.Context) (bool, error) {
		ready, err := poker.Poke(ctx)
		if err != nil {
			pokeErr = err
		}
		return ready, err
	})
	if err == nil {
		return nil
	}
	if pokeErr != nil {
		return pokeErr
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if !wait.Interrupted(err) {
		return err
	}
	if b.SoftFail {
		return fferr.NewSkippedError(fferr.NewSensorTimeoutError(b.Target, timeout).Message())
	}
	return fferr.NewSensorTimeoutError(b.Target, timeout)
}
