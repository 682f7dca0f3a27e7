// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsv2config "github.com/aws/aws-sdk-go-v2/config"
	awsv2Creds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/athena"
	athenatypes "github.com/aws/aws-sdk-go-v2/service/athena/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"github.com/featureform/athenaspark/config"
	"github.com/featureform/athenaspark/fferr"
	"github.com/featureform/athenaspark/logging"
	pc "github.com/featureform/athenaspark/provider/provider_config"
)

const athenaExecutorType = "Athena Spark"

type athenaAPI interface {
	StartCalculationExecution(ctx context.Context, params *athena.StartCalculationExecutionInput, optFns ...func(*athena.Options)) (*athena.StartCalculationExecutionOutput, error)
	GetCalculationExecutionStatus(ctx context.Context, params *athena.GetCalculationExecutionStatusInput, optFns ...func(*athena.Options)) (*athena.GetCalculationExecutionStatusOutput, error)
	GetCalculationExecution(ctx context.Context, params *athena.GetCalculationExecutionInput, optFns ...func(*athena.Options)) (*athena.GetCalculationExecutionOutput, error)
	GetCalculationExecutionCode(ctx context.Context, params *athena.GetCalculationExecutionCodeInput, optFns ...func(*athena.Options)) (*athena.GetCalculationExecutionCodeOutput, error)
	StopCalculationExecution(ctx context.Context, params *athena.StopCalculationExecutionInput, optFns ...func(*athena.Options)) (*athena.StopCalculationExecutionOutput, error)
}

type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// AthenaHook talks to the Athena Spark calculation API.
type AthenaHook struct {
	client       athenaAPI
	s3           s3API
	config       pc.AthenaConfig
	logger       logging.Logger
	requestToken func() string
}

func NewAthenaHook(ctx context.Context, athenaConfig pc.AthenaConfig, logger logging.Logger) (*AthenaHook, error) {
	if err := athenaConfig.Validate(); err != nil {
		return nil, err
	}
	logger.Debugw("Building Athena client", append([]interface{}{"region", athenaConfig.Region}, athenaConfig.Credentials.LogFields()...)...)
	cfg, err := loadAWSConfig(ctx, athenaConfig)
	if err != nil {
		return nil, err
	}
	client := athena.NewFromConfig(cfg, func(o *athena.Options) {
		if athenaConfig.Endpoint != "" {
			o.BaseEndpoint = aws.String(athenaConfig.Endpoint)
		}
	})
	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if athenaConfig.Endpoint != "" {
			o.BaseEndpoint = aws.String(athenaConfig.Endpoint)
			o.UsePathStyle = true
		}
	})
	return newAthenaHookWithClients(client, s3Client, athenaConfig, logger), nil
}

func newAthenaHookWithClients(client athenaAPI, s3Client s3API, athenaConfig pc.AthenaConfig, logger logging.Logger) *AthenaHook {
	return &AthenaHook{
		client:       client,
		s3:           s3Client,
		config:       athenaConfig,
		logger:       logger,
		requestToken: func() string { return uuid.New().String() },
	}
}

// If the connection carries pc.AWSAssumeRoleCredentials without a role, we use the default credentials
// provider chain as is (IRSA, instance profile, env vars). With a role, STS assumes it on top of that chain.
func loadAWSConfig(ctx context.Context, athenaConfig pc.AthenaConfig) (aws.Config, error) {
	opts := []func(*awsv2config.LoadOptions) error{awsv2config.WithRegion(athenaConfig.Region)}
	var assumeRole *pc.AWSAssumeRoleCredentials
	switch creds := athenaConfig.Credentials.(type) {
	case pc.AWSStaticCredentials:
		opts = append(opts, awsv2config.WithCredentialsProvider(awsv2Creds.NewStaticCredentialsProvider(creds.AccessKeyId, creds.SecretKey, creds.SessionToken)))
	case pc.AWSAssumeRoleCredentials:
		assumeRole = &creds
	default:
		return aws.Config{}, fferr.NewInvalidArgumentErrorf("unsupported credentials type: %T", creds)
	}
	cfg, err := awsv2config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fferr.NewConnectionError(athenaExecutorType, err)
	}
	if assumeRole != nil && !assumeRole.UsesDefaultChain() {
		stsClient := sts.NewFromConfig(cfg)
		roleProvider := stscreds.NewAssumeRoleProvider(stsClient, assumeRole.RoleArn, func(o *stscreds.AssumeRoleOptions) {
			if assumeRole.SessionName != "" {
				o.RoleSessionName = assumeRole.SessionName
			}
			if assumeRole.ExternalID != "" {
				o.ExternalID = aws.String(assumeRole.ExternalID)
			}
		})
		cfg.Credentials = aws.NewCredentialsCache(roleProvider)
	}
	return cfg, nil
}

// NewConnectionHookFactory resolves aws_conn_id through the environment and builds a fresh AthenaHook
// every time it is called.
func NewConnectionHookFactory(logger logging.Logger) HookFactory {
	return func(ctx context.Context, connID string) (AthenaSparkHook, error) {
		athenaConfig, err := config.LookupConnection(connID)
		if err != nil {
			return nil, err
		}
		hook, err := NewAthenaHook(ctx, athenaConfig, logger.WithConnection(connID))
		if err != nil {
			return nil, err
		}
		return hook, nil
	}
}

func (h *AthenaHook) TerminalStates() mapset.Set[string] {
	return DefaultTerminalStates()
}

func (h *AthenaHook) FailureStates() mapset.Set[string] {
	return DefaultFailureStates()
}

func (h *AthenaHook) StartCalculationExecution(ctx context.Context, sessionID, codeBlock string) (string, error) {
	logger := h.logger.WithCalculation(sessionID, "")
	logger.Debugw("Starting Athena Spark calculation")
	resp, err := h.client.StartCalculationExecution(ctx, &athena.StartCalculationExecutionInput{
		SessionId:          aws.String(sessionID),
		CodeBlock:          aws.String(codeBlock),
		ClientRequestToken: aws.String(h.requestToken()),
	})
	if err != nil {
		logger.Errorw("Could not start calculation", "error", err)
		return "", h.wrapError(err, "StartCalculationExecution", sessionID, "")
	}
	if resp.CalculationExecutionId == nil {
		return "", fferr.NewInternalErrorf("Athena returned no calculation execution id for session %s", sessionID)
	}
	executionID := *resp.CalculationExecutionId
	logger.Infow("Started Athena Spark calculation", "calculation_execution_id", executionID, "state", string(resp.State))
	return executionID, nil
}

func (h *AthenaHook) CheckCalculationStatus(ctx context.Context, executionID string) (string, error) {
	resp, err := h.client.GetCalculationExecutionStatus(ctx, &athena.GetCalculationExecutionStatusInput{
		CalculationExecutionId: aws.String(executionID),
	})
	if err != nil {
		h.logger.Errorw("Could not get calculation status", "calculation_execution_id", executionID, "error", err)
		return "", h.wrapError(err, "GetCalculationExecutionStatus", "", executionID)
	}
	if resp.Status == nil {
		return "", fferr.NewInternalErrorf("Athena returned no status for calculation %s", executionID)
	}
	return string(resp.Status.State), nil
}

func (h *AthenaHook) StopCalculationExecution(ctx context.Context, executionID string) error {
	resp, err := h.client.StopCalculationExecution(ctx, &athena.StopCalculationExecutionInput{
		CalculationExecutionId: aws.String(executionID),
	})
	if err != nil {
		h.logger.Errorw("Could not stop calculation", "calculation_execution_id", executionID, "error", err)
		return h.wrapError(err, "StopCalculationExecution", "", executionID)
	}
	h.logger.Infow("Requested calculation stop", "calculation_execution_id", executionID, "state", string(resp.State))
	return nil
}

// Describe returns everything Athena knows about a calculation, including the submitted code and
// where its output landed.
func (h *AthenaHook) Describe(ctx context.Context, executionID string) (*Calculation, error) {
	resp, err := h.client.GetCalculationExecution(ctx, &athena.GetCalculationExecutionInput{
		CalculationExecutionId: aws.String(executionID),
	})
	if err != nil {
		return nil, h.wrapError(err, "GetCalculationExecution", "", executionID)
	}
	calc := &Calculation{
		ExecutionID:      aws.ToString(resp.CalculationExecutionId),
		SessionID:        aws.ToString(resp.SessionId),
		Description:      aws.ToString(resp.Description),
		WorkingDirectory: aws.ToString(resp.WorkingDirectory),
	}
	if calc.ExecutionID == "" {
		calc.ExecutionID = executionID
	}
	if resp.Status != nil {
		calc.State = string(resp.Status.State)
		calc.StateChangeReason = aws.ToString(resp.Status.StateChangeReason)
		calc.SubmittedAt = aws.ToTime(resp.Status.SubmissionDateTime)
		calc.CompletedAt = aws.ToTime(resp.Status.CompletionDateTime)
	}
	if resp.Result != nil {
		calc.ResultS3URI = aws.ToString(resp.Result.ResultS3Uri)
		calc.ResultType = aws.ToString(resp.Result.ResultType)
		calc.StdOutS3URI = aws.ToString(resp.Result.StdOutS3Uri)
		calc.StdErrorS3URI = aws.ToString(resp.Result.StdErrorS3Uri)
	}
	if resp.Statistics != nil {
		calc.DpuExecutionMillis = aws.ToInt64(resp.Statistics.DpuExecutionInMillis)
		calc.Progress = aws.ToString(resp.Statistics.Progress)
	}
	code, err := h.client.GetCalculationExecutionCode(ctx, &athena.GetCalculationExecutionCodeInput{
		CalculationExecutionId: aws.String(executionID),
	})
	if err != nil {
		return nil, h.wrapError(err, "GetCalculationExecutionCode", calc.SessionID, executionID)
	}
	calc.CodeBlock = aws.ToString(code.CodeBlock)
	return calc, nil
}

// FetchOutput reads one of the S3 objects a calculation writes (stdout, stderr or result).
func (h *AthenaHook) FetchOutput(ctx context.Context, s3URI string) ([]byte, error) {
	bucket, key, err := parseS3URI(s3URI)
	if err != nil {
		return nil, err
	}
	resp, err := h.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		wrapped := fferr.NewExecutionError(athenaExecutorType, fmt.Errorf("could not read calculation output: %w", err))
		wrapped.AddDetail("s3_uri", s3URI)
		return nil, wrapped
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fferr.NewInternalError(err)
	}
	return data, nil
}

func parseS3URI(uri string) (string, string, error) {
	trimmed := ""
	switch {
	case strings.HasPrefix(uri, "s3://"):
		trimmed = strings.TrimPrefix(uri, "s3://")
	case strings.HasPrefix(uri, "s3a://"):
		trimmed = strings.TrimPrefix(uri, "s3a://")
	default:
		return "", "", fferr.NewInvalidArgumentErrorf("not an S3 URI: %s", uri)
	}
	bucket, key, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fferr.NewInvalidArgumentErrorf("S3 URI must contain a bucket and a key: %s", uri)
	}
	return bucket, key, nil
}

func (h *AthenaHook) wrapError(err error, operation, sessionID, executionID string) error {
	var notFound *athenatypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		wrapped := fferr.NewCalculationDoesNotExistError(executionID, err)
		wrapped.AddDetails("operation", operation)
		if sessionID != "" {
			wrapped.AddDetail("session_id", sessionID)
		}
		return wrapped
	}
	wrapped := fferr.NewExecutionError(athenaExecutorType, err)
	wrapped.AddDetail("operation", operation)
	if sessionID != "" {
		wrapped.AddDetail("session_id", sessionID)
	}
	if executionID != "" {
		wrapped.AddDetail("calculation_execution_id", executionID)
	}
	if h.config.WorkGroup != "" {
		wrapped.AddDetail("work_group", h.config.WorkGroup)
	}
	return wrapped
}
