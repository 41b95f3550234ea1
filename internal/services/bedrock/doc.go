// Package bedrock calls Anthropic models hosted on AWS Bedrock Runtime.
//
// Requests use the Anthropic messages body (anthropic_version
// bedrock-2023-05-31) and static IAM credentials. The SDK's own retries are
// disabled; one prompt produces one InvokeModel call.
package bedrock
