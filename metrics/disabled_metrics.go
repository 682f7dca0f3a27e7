// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package metrics

type NoOpMetricsHandler struct{}

func (nop *NoOpMetricsHandler) BeginObservingCalculation(sessionID string) CalculationObserver {
	return &NoOpCalculationObserver{}
}

func (nop *NoOpMetricsHandler) ObservePoke(result string) {}
func (nop *NoOpMetricsHandler) ObserveStop(err error)     {}
func (nop *NoOpMetricsHandler) ExposePort(port string) error {
	return nil
}

type NoOpCalculationObserver struct{}

func (nop *NoOpCalculationObserver) ObserveState(state string) {}
func (nop *NoOpCalculationObserver) SetError()                 {}
func (nop *NoOpCalculationObserver) Finish()                   {}
