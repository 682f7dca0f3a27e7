// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/featureform/athenaspark/logging"
	"github.com/featureform/athenaspark/runner/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := worker.CreateAndRun(ctx); err != nil {
		logging.NewLogger("athena-spark-worker").Fatalw("Worker failed", "error", err)
	}
}
