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

type AWSCredentialsType string

const (
	AWSStaticCredentialsType     AWSCredentialsType = "AWS_STATIC_CREDENTIALS"
	AWSAssumeRoleCredentialsType AWSCredentialsType = "AWS_ASSUME_ROLE_CREDENTIALS"
)

// AWSCredentials is serialized with a Type discriminator so a connection survives a round trip through
// the worker's CONFIG env.
type AWSCredentials interface {
	CredentialType() AWSCredentialsType
	// LogFields is safe to hand to a logger; secrets are masked.
	LogFields() []interface{}
	MarshalJSON() ([]byte, error)
}

type AWSStaticCredentials struct {
	AccessKeyId  string
	SecretKey    string
	SessionToken string `json:",omitempty"`
}

func (c AWSStaticCredentials) CredentialType() AWSCredentialsType {
	return AWSStaticCredentialsType
}

func (c AWSStaticCredentials) LogFields() []interface{} {
	return []interface{}{
		"credentials-type", c.CredentialType(),
		"access-key-id", mask(c.AccessKeyId),
		"has-session-token", c.SessionToken != "",
	}
}

func (c AWSStaticCredentials) MarshalJSON() ([]byte, error) {
	type plain AWSStaticCredentials
	return marshalWithType(c.CredentialType(), plain(c))
}

// AWSAssumeRoleCredentials with an empty RoleArn means "use whatever the default provider chain finds",
// e.g. IRSA on a pod or an instance profile.
type AWSAssumeRoleCredentials struct {
	RoleArn     string `json:",omitempty"`
	SessionName string `json:",omitempty"`
	ExternalID  string `json:",omitempty"`
}

func (c AWSAssumeRoleCredentials) CredentialType() AWSCredentialsType {
	return AWSAssumeRoleCredentialsType
}

func (c AWSAssumeRoleCredentials) UsesDefaultChain() bool {
	return c.RoleArn == ""
}

func (c AWSAssumeRoleCredentials) LogFields() []interface{} {
	fields := []interface{}{"credentials-type", c.CredentialType()}
	if c.UsesDefaultChain() {
		return append(fields, "role-arn", "default chain")
	}
	return append(fields, "role-arn", c.RoleArn, "has-external-id", c.ExternalID != "")
}

func (c AWSAssumeRoleCredentials) MarshalJSON() ([]byte, error) {
	type plain AWSAssumeRoleCredentials
	return marshalWithType(c.CredentialType(), plain(c))
}

func marshalWithType(credType AWSCredentialsType, creds interface{}) ([]byte, error) {
	raw, err := json.Marshal(creds)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["Type"] = credType
	return json.Marshal(fields)
}

func UnmarshalAWSCredentials(data []byte) (AWSCredentials, error) {
	var discriminator struct {
		Type AWSCredentialsType
	}
	if err := json.Unmarshal(data, &discriminator); err != nil {
		return nil, fferr.NewInvalidArgumentError(err)
	}

	switch discriminator.Type {
	case AWSStaticCredentialsType:
		return decodeCredentials[AWSStaticCredentials](data)
	case AWSAssumeRoleCredentialsType:
		return decodeCredentials[AWSAssumeRoleCredentials](data)
	default:
		return nil, fferr.NewInvalidArgumentErrorf("Unknown credential type: %s", discriminator.Type)
	}
}

func decodeCredentials[T AWSCredentials](data []byte) (AWSCredentials, error) {
	var creds T
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fferr.NewInvalidArgumentError(err)
	}
	return creds, nil
}

func mask(value string) string {
	if len(value) <= 4 {
		return "****"
	}
	return value[:4] + "****"
}
