package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/featureform/athenaspark/fferr"
	"github.com/featureform/athenaspark/helpers"
	pc "github.com/featureform/athenaspark/provider/provider_config"
)

const connectionEnvPrefix = "ATHENA_SPARK_CONN_"

// connection mirrors the JSON form of an Airflow connection so existing definitions can be reused as is.
type connection struct {
	ConnType string                 `json:"conn_type"`
	Login    string                 `json:"login"`
	Password string                 `json:"password"`
	Extra    map[string]interface{} `json:"extra"`
}

type connectionExtra struct {
	RegionName      string `mapstructure:"region_name"`
	EndpointURL     string `mapstructure:"endpoint_url"`
	RoleArn         string `mapstructure:"role_arn"`
	RoleSessionName string `mapstructure:"role_session_name"`
	ExternalID      string `mapstructure:"external_id"`
	SessionToken    string `mapstructure:"aws_session_token"`
	WorkGroup       string `mapstructure:"work_group"`
}

func ConnectionEnvName(connID string) string {
	mapped := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, connID)
	return connectionEnvPrefix + strings.ToUpper(mapped)
}

// LookupConnection resolves an aws_conn_id into an Athena client config. Only aws_default may be left
// undefined, in which case the SDK default credential chain is used.
func LookupConnection(connID string) (pc.AthenaConfig, error) {
	if connID == "" {
		return pc.AthenaConfig{}, fferr.NewInvalidArgumentErrorf("aws_conn_id must not be empty")
	}
	envName := ConnectionEnvName(connID)
	raw, ok := os.LookupEnv(envName)
	if !ok {
		if connID != DefaultAWSConnID {
			err := fferr.NewInvalidConfigf("connection %s is not defined; set %s", connID, envName)
			err.AddFixSuggestion(`set it to an Airflow connection as JSON, e.g. {"conn_type": "aws", "extra": {"region_name": "us-east-1"}}`)
			return pc.AthenaConfig{}, err
		}
		cfg := pc.AthenaConfig{
			Credentials: pc.AWSAssumeRoleCredentials{},
			Region:      defaultRegion(),
		}
		return cfg, cfg.Validate()
	}
	return parseConnection(connID, []byte(raw))
}

func parseConnection(connID string, data []byte) (pc.AthenaConfig, error) {
	var conn connection
	if err := json.Unmarshal(data, &conn); err != nil {
		wrapped := fferr.NewInvalidConfigf("connection %s is not valid JSON: %v", connID, err)
		return pc.AthenaConfig{}, wrapped
	}
	if conn.ConnType != "" && conn.ConnType != "aws" {
		return pc.AthenaConfig{}, fferr.NewInvalidConfigf("connection %s has type %s, expected aws", connID, conn.ConnType)
	}

	var extra connectionExtra
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &extra,
	})
	if err != nil {
		return pc.AthenaConfig{}, fferr.NewInternalError(err)
	}
	if err := decoder.Decode(conn.Extra); err != nil {
		return pc.AthenaConfig{}, fferr.NewInvalidConfigf("connection %s has invalid extra: %v", connID, err)
	}

	cfg := pc.AthenaConfig{
		Region:    extra.RegionName,
		Endpoint:  extra.EndpointURL,
		WorkGroup: extra.WorkGroup,
	}
	if cfg.Region == "" {
		cfg.Region = defaultRegion()
	}
	switch {
	case conn.Login != "" || conn.Password != "":
		cfg.Credentials = pc.AWSStaticCredentials{
			AccessKeyId:  conn.Login,
			SecretKey:    conn.Password,
			SessionToken: extra.SessionToken,
		}
	default:
		cfg.Credentials = pc.AWSAssumeRoleCredentials{
			RoleArn:     extra.RoleArn,
			SessionName: extra.RoleSessionName,
			ExternalID:  extra.ExternalID,
		}
	}
	return cfg, cfg.Validate()
}

func defaultRegion() string {
	return helpers.GetFirstEnv("", "AWS_REGION", "AWS_DEFAULT_REGION")
}
