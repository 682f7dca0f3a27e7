// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package provider_config

import (
	"encoding/json"

	"github.com/featureform/athenaspark/fferr"
)

// AthenaConfig is everything needed to build an Athena client for one connection id.
type AthenaConfig struct {
	Credentials AWSCredentials
	Region      string
	// Endpoint overrides the service endpoint, e.g. a LocalStack URL.
	Endpoint  string `json:",omitempty"`
	WorkGroup string `json:",omitempty"`
}

func (a *AthenaConfig) Deserialize(config SerializedConfig) error {
	var raw struct {
		Credentials json.RawMessage
		Region      string
		Endpoint    string
		WorkGroup   string
	}
	if err := json.Unmarshal(config, &raw); err != nil {
		return fferr.NewInvalidArgumentError(err)
	}
	a.Region = raw.Region
	a.Endpoint = raw.Endpoint
	a.WorkGroup = raw.WorkGroup
	if len(raw.Credentials) == 0 || string(raw.Credentials) == "null" {
		a.Credentials = AWSAssumeRoleCredentials{}
		return nil
	}
	creds, err := UnmarshalAWSCredentials(raw.Credentials)
	if err != nil {
		return err
	}
	a.Credentials = creds
	return nil
}

func (a *AthenaConfig) Serialize() (SerializedConfig, error) {
	conf, err := json.Marshal(a)
	if err != nil {
		return nil, fferr.NewInternalError(err)
	}
	return conf, nil
}

func (a *AthenaConfig) Validate() error {
	if a.Region == "" {
		return fferr.NewInvalidConfigf("Athena region must be set")
	}
	if a.Credentials == nil {
		return fferr.NewInvalidConfigf("Athena credentials must be set")
	}
	if static, ok := a.Credentials.(AWSStaticCredentials); ok {
		if static.AccessKeyId == "" || static.SecretKey == "" {
			return fferr.NewInvalidConfigf("Static AWS credentials require both AccessKeyId and SecretKey")
		}
	}
	return nil
}
