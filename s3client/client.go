package s3client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"text2phenotype.com/postag/logger"
)

const maxRetries = 4

type EnvironmentConfig struct {
	BucketName  string `envconfig:"POSTAG_STORAGE_BUCKET" required:"true"`
	Env         string `envconfig:"POSTAG_ENV" default:"prod"`
	Region      string `envconfig:"POSTAG_AWS_REGION_NAME" required:"true"`
	AwsEndpoint string `envconfig:"POSTAG_AWS_ENDPOINT_URL" default:""`
	AccessKeyID string `envconfig:"POSTAG_AWS_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"POSTAG_AWS_ACCESS_KEY" default:""`
}

// Client reads corpus splits from and writes tagging results to one bucket.
// The session is owned by a goroutine that replaces it when a call fails.
type Client struct {
	holder *sessionHolder
	env    EnvironmentConfig
}

type sessionHolder struct {
	curr      *session.Session
	requestCh <-chan *session.Session
	errorCh   chan<- error
	closeCh   chan<- struct{}
}

var clientLogger = logger.NewLogger("S3Client")
var sdkLogger = logger.NewLogger("S3-SDK")

func New() (*Client, error) {
	var env EnvironmentConfig
	if err := envconfig.Process("", &env); err != nil {
		clientLogger.Err(err).Caller().Msg("Failed to get proper variables from environment")
		return nil, err
	}
	client := Client{env: env}

	sessionCh := make(chan *session.Session)
	errorCh := make(chan error)
	closeCh := make(chan struct{}, 1)
	client.holder = &sessionHolder{
		requestCh: sessionCh,
		errorCh:   errorCh,
		closeCh:   closeCh,
	}
	if err := client.acquireNewSession(); err != nil {
		return nil, err
	}
	go keepSessionRefreshed(&client, sessionCh, errorCh, closeCh)
	return &client, nil
}

// Fetch downloads the object at key. It lets the client serve as a corpus
// source.
func (client *Client) Fetch(key string) ([]byte, error) {
	return client.Download(key)
}

func (client *Client) Upload(data string, key string) (*s3manager.UploadOutput, error) {
	params := &s3manager.UploadInput{
		Bucket:      aws.String(client.env.BucketName),
		Key:         aws.String(key),
		Body:        strings.NewReader(data),
		ContentType: aws.String("application/json"),
	}
	var output *s3manager.UploadOutput
	err := client.withSession(func(sess *session.Session) error {
		var err error
		output, err = client.upload(sess, params)
		return err
	})
	return output, err
}

func (client *Client) Download(key string) ([]byte, error) {
	params := &s3.GetObjectInput{
		Bucket: aws.String(client.env.BucketName),
		Key:    aws.String(key),
	}
	var data []byte
	err := client.withSession(func(sess *session.Session) error {
		var err error
		data, err = client.download(sess, params)
		return err
	})
	return data, err
}

func (client *Client) Close() {
	client.holder.closeCh <- struct{}{}
}

// withSession runs call and, when it fails, retries it once on a refreshed
// session.
func (client *Client) withSession(call func(sess *session.Session) error) error {
	sess, err := client.session()
	if err != nil {
		return err
	}
	err = call(sess)
	if err == nil {
		return nil
	}
	sess, err = client.tryRefreshingSession(err)
	if err != nil {
		return err
	}
	return call(sess)
}

func (client *Client) upload(sess *session.Session, params *s3manager.UploadInput) (*s3manager.UploadOutput, error) {
	objLogger := objectLogger(clientLogger, *params.Bucket, *params.Key)
	uploader := s3manager.NewUploader(sess.Copy(&aws.Config{
		Logger: getLogger(objectLogger(sdkLogger, *params.Bucket, *params.Key)),
	}))
	objLogger.Debug().Msg("Uploading object")
	return uploader.Upload(params)
}

func (client *Client) download(sess *session.Session, params *s3.GetObjectInput) ([]byte, error) {
	objLogger := objectLogger(clientLogger, *params.Bucket, *params.Key)
	downloader := s3manager.NewDownloader(sess.Copy(&aws.Config{
		Logger: getLogger(objectLogger(sdkLogger, *params.Bucket, *params.Key)),
	}))

	buf := aws.NewWriteAtBuffer([]byte{})
	objLogger.Debug().Msg("Downloading object")
	size, err := downloader.Download(buf, params)
	if err != nil {
		objLogger.Error().Err(err).Msg("Failed to download object")
		return nil, err
	}
	objLogger.Debug().Msgf("Downloaded %v bytes", size)
	return buf.Bytes(), nil
}

func objectLogger(base zerolog.Logger, bucket string, key string) zerolog.Logger {
	return base.With().Str("key", key).Str("bucket", bucket).Logger()
}

func keepSessionRefreshed(client *Client, sessionCh chan<- *session.Session, errorCh <-chan error, closeCh <-chan struct{}) {
	for {
		select {
		case sessionCh <- client.holder.curr:
			continue
		default:
		}
		select {
		case sessionCh <- client.holder.curr:
		case err := <-errorCh:
			clientLogger.Error().Err(err).Msg("Caught error while using S3 session, trying to refresh it")
			if err = client.acquireNewSession(); err != nil {
				clientLogger.Error().Err(err).Msg("Caught error while refreshing S3 session")
				continue
			}
			clientLogger.Info().Msg("Successfully refreshed session")
		case <-closeCh:
			clientLogger.Info().Msg("Closing client")
			return
		}
	}
}

func (client *Client) tryRefreshingSession(err error) (*session.Session, error) {
	var sess *session.Session
	select {
	case client.holder.errorCh <- err:
		sess = <-client.holder.requestCh
	case sess = <-client.holder.requestCh:
	}
	if sess == nil {
		return nil, errors.New("failed to refresh session")
	}
	return sess, nil
}

func (client *Client) session() (*session.Session, error) {
	sess := <-client.holder.requestCh
	if sess == nil {
		return nil, errors.New("could not get session")
	}
	return sess, nil
}

func (client *Client) instanceConfig() *aws.Config {
	return aws.NewConfig().
		WithRegion(client.env.Region).
		WithMaxRetries(maxRetries).
		WithLogLevel(aws.LogDebug)
}

func (client *Client) envCredentialsConfig() (*aws.Config, error) {
	creds := credentials.NewStaticCredentials(client.env.AccessKeyID, client.env.AccessKey, "")
	if _, err := creds.Get(); err != nil {
		return nil, fmt.Errorf("credentials from environment: %w", err)
	}
	cfg := client.instanceConfig().WithCredentials(creds)
	if client.env.Env == "dev" && len(client.env.AwsEndpoint) > 0 {
		cfg = cfg.WithEndpoint(client.env.AwsEndpoint).WithS3ForcePathStyle(true)
	}
	return cfg, nil
}

// acquireNewSession tries the instance role first and falls back to the
// credentials given in the environment.
func (client *Client) acquireNewSession() error {
	sess, err := verifiedSession(client.instanceConfig())
	if err == nil {
		client.holder.curr = sess
		clientLogger.Info().Msg("S3 session successfully initialized using instance role")
		return nil
	}
	clientLogger.Info().Err(err).Msg("Could not initialize S3 session using instance role, trying env credentials")

	cfg, err := client.envCredentialsConfig()
	if err == nil {
		sess, err = verifiedSession(cfg)
	}
	if err != nil {
		client.holder.curr = nil
		clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
		return fmt.Errorf("could not initialize S3 session: %w", err)
	}
	client.holder.curr = sess
	clientLogger.Info().Msg("S3 session successfully initialized using env credentials")
	return nil
}

func verifiedSession(cfg *aws.Config) (*session.Session, error) {
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	if _, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err != nil {
		return nil, err
	}
	return sess, nil
}

type s3Logger struct {
	posLogger zerolog.Logger
}

func getLogger(posLogger zerolog.Logger) *s3Logger {
	return &s3Logger{posLogger}
}

func (logger *s3Logger) Log(v ...interface{}) {
	//nolint
	logger.posLogger.Debug().Msg(fmt.Sprint(v...))
}
