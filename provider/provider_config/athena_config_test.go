package provider_config

import (
	"reflect"
	"testing"
)

func TestAthenaConfigSerializeDeserialize(t *testing.T) {
	tests := []struct {
		name   string
		config AthenaConfig
	}{
		{"Static", AthenaConfig{
			Credentials: AWSStaticCredentials{AccessKeyId: "aws-key", SecretKey: "aws-secret"},
			Region:      "us-east-1",
			WorkGroup:   "spark-wg",
		}},
		{"Assume Role", AthenaConfig{
			Credentials: AWSAssumeRoleCredentials{RoleArn: "arn:aws:iam::123456789012:role/athena"},
			Region:      "us-west-2",
			Endpoint:    "http://localhost:4566",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serialized, err := tt.config.Serialize()
			if err != nil {
				t.Fatalf("Serialize() error = %v", err)
			}
			var actual AthenaConfig
			if err := actual.Deserialize(serialized); err != nil {
				t.Fatalf("Deserialize() error = %v", err)
			}
			if !reflect.DeepEqual(tt.config, actual) {
				t.Errorf("Expected %v, but instead found %v", tt.config, actual)
			}
		})
	}
}

func TestAthenaConfigDeserializeDefaultsCredentials(t *testing.T) {
	var actual AthenaConfig
	if err := actual.Deserialize(SerializedConfig(`{"Region":"eu-west-1"}`)); err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}
	if actual.Credentials != (AWSAssumeRoleCredentials{}) {
		t.Errorf("Expected default chain credentials, got %v", actual.Credentials)
	}
}

func TestAthenaConfigDeserializeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Malformed", `{"Region":`},
		{"Unknown Credentials", `{"Region":"us-east-1","Credentials":{"Type":"NOPE"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var actual AthenaConfig
			if err := actual.Deserialize(SerializedConfig(tt.data)); err == nil {
				t.Errorf("Expected error deserializing %s", tt.data)
			}
		})
	}
}

func TestAthenaConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  AthenaConfig
		wantErr bool
	}{
		{"Valid", AthenaConfig{Credentials: AWSAssumeRoleCredentials{}, Region: "us-east-1"}, false},
		{"Missing Region", AthenaConfig{Credentials: AWSAssumeRoleCredentials{}}, true},
		{"Missing Credentials", AthenaConfig{Region: "us-east-1"}, true},
		{"Partial Static", AthenaConfig{Credentials: AWSStaticCredentials{AccessKeyId: "key"}, Region: "us-east-1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
