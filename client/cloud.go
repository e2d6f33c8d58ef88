package harmonyclient

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// CloudCredentials are temporary AWS credentials for reading results
// directly from the service's staging bucket. They only work from the
// same AWS region the service runs in.
type CloudCredentials struct {
	AccessKeyID     string    `json:"AccessKeyId"`
	SecretAccessKey string    `json:"SecretAccessKey"`
	SessionToken    string    `json:"SessionToken"`
	Expiration      time.Time `json:"Expiration"`
}

// Expired reports whether the credentials are past their expiration.
func (c *CloudCredentials) Expired() bool {
	return !c.Expiration.IsZero() && time.Now().After(c.Expiration)
}

// Provider adapts the credentials to the AWS SDK.
func (c *CloudCredentials) Provider() aws.CredentialsProvider {
	return credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, c.SessionToken)
}

// CloudAccess fetches temporary AWS credentials for in-region access to
// s3:// result links.
func (c *Client) CloudAccess(ctx context.Context, opts ...RequestOption) (*CloudCredentials, error) {
	var creds CloudCredentials
	if err := c.doJSON(ctx, http.MethodGet, "/cloud-access", nil, nil, &creds, opts); err != nil {
		return nil, err
	}
	return &creds, nil
}
