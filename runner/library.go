// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package runner

import (
	"sync"

	"github.com/featureform/athenaspark/fferr"
	"github.com/featureform/athenaspark/types"
)

type RunnerName string

const (
	ATHENA_SPARK_CALCULATION RunnerName = "ATHENA_SPARK_CALCULATION"
	ATHENA_SPARK_SENSOR      RunnerName = "ATHENA_SPARK_SENSOR"
)

type Config []byte

type RunnerConfig interface {
	Serialize() (Config, error)
	Deserialize(config Config) error
}

type TaskFactory func(config Config) (types.Task, error)

var (
	factoryMu  sync.RWMutex
	factoryMap = make(map[string]TaskFactory)
)

func ResetFactoryMap() {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factoryMap = make(map[string]TaskFactory)
}

func RegisterFactory(name string, factory TaskFactory) error {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	if _, exists := factoryMap[name]; exists {
		return fferr.NewInternalErrorf("factory already registered: %s", name)
	}
	factoryMap[name] = factory
	return nil
}

func Create(name string, config Config) (types.Task, error) {
	factoryMu.RLock()
	factory, exists := factoryMap[name]
	factoryMu.RUnlock()
	if !exists {
		return nil, fferr.NewInvalidArgumentErrorf("factory does not exist: %s", name)
	}
	task, err := factory(config)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func Registered(name string) bool {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	_, exists := factoryMap[name]
	return exists
}
