package publishers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Sink types.
const (
	TypeHTTP      = "http"
	TypeSQS       = "sqs"
	TypeSNS       = "sns"
	TypeGCPPubSub = "gcp_pubsub"
)

const defaultWebhookTimeout = 5 * time.Second

// SinkConfig declares one destination for catalog loaded events. Exactly the
// block matching Type is read.
type SinkConfig struct {
	ID      string         `yaml:"id"`
	Type    string         `yaml:"type"`
	Enabled *bool          `yaml:"enabled"`
	HTTP    *WebhookConfig `yaml:"http"`
	SQS     *SQSConfig     `yaml:"sqs"`
	SNS     *SNSConfig     `yaml:"sns"`
	PubSub  *PubSubConfig  `yaml:"gcp_pubsub"`
}

// WebhookConfig posts the event as JSON to URL.
type WebhookConfig struct {
	URL            string            `yaml:"url"`
	Method         string            `yaml:"method"`
	Headers        map[string]string `yaml:"headers"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
}

// Timeout returns the request timeout, defaulting to five seconds.
func (w WebhookConfig) Timeout() time.Duration {
	if w.TimeoutSeconds <= 0 {
		return defaultWebhookTimeout
	}
	return time.Duration(w.TimeoutSeconds) * time.Second
}

// AWSAccess holds the region plus optional static credentials and endpoint
// override shared by AWS sinks. Empty keys fall back to the default chain.
type AWSAccess struct {
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
}

// SQSConfig sends the event body to a queue.
type SQSConfig struct {
	QueueURL  string `yaml:"uri"`
	AWSAccess `yaml:",inline"`
}

// SNSConfig publishes the event body to a topic.
type SNSConfig struct {
	TopicARN  string `yaml:"topic_arn"`
	AWSAccess `yaml:",inline"`
}

// PubSubConfig publishes the event body to a Google Cloud Pub/Sub topic.
type PubSubConfig struct {
	ProjectID       string `yaml:"project_id"`
	Topic           string `yaml:"topic"`
	CredentialsFile string `yaml:"credentials_file"`
	Endpoint        string `yaml:"endpoint"`
}

// LoadSinks reads a YAML (or JSON) publishers file and returns the enabled
// sinks in file order. A file without entries yields no sinks.
func LoadSinks(path string) ([]SinkConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	var file struct {
		Sinks []SinkConfig `yaml:"publishers"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode publishers file %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(file.Sinks))
	enabled := make([]SinkConfig, 0, len(file.Sinks))
	for i, cfg := range file.Sinks {
		cfg.normalize()
		if err := cfg.validate(); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := seen[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		seen[cfg.ID] = struct{}{}
		if cfg.Enabled == nil || *cfg.Enabled {
			enabled = append(enabled, cfg)
		}
	}
	return enabled, nil
}

func (c *SinkConfig) normalize() {
	c.ID = strings.TrimSpace(c.ID)
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))

	if c.HTTP != nil {
		c.HTTP.URL = strings.TrimSpace(c.HTTP.URL)
		c.HTTP.Method = strings.ToUpper(strings.TrimSpace(c.HTTP.Method))
		if c.HTTP.Method == "" {
			c.HTTP.Method = http.MethodPost
		}
		headers := make(map[string]string, len(c.HTTP.Headers))
		for k, v := range c.HTTP.Headers {
			if k, v = strings.TrimSpace(k), strings.TrimSpace(v); k != "" && v != "" {
				headers[k] = v
			}
		}
		c.HTTP.Headers = headers
	}
	if c.SQS != nil {
		c.SQS.QueueURL = strings.TrimSpace(c.SQS.QueueURL)
		c.SQS.AWSAccess.trim()
	}
	if c.SNS != nil {
		c.SNS.TopicARN = strings.TrimSpace(c.SNS.TopicARN)
		c.SNS.AWSAccess.trim()
	}
	if c.PubSub != nil {
		c.PubSub.ProjectID = strings.TrimSpace(c.PubSub.ProjectID)
		c.PubSub.Topic = strings.TrimSpace(c.PubSub.Topic)
		c.PubSub.CredentialsFile = strings.TrimSpace(c.PubSub.CredentialsFile)
		c.PubSub.Endpoint = strings.TrimSpace(c.PubSub.Endpoint)
	}
}

func (a *AWSAccess) trim() {
	for _, f := range []*string{&a.Region, &a.Endpoint, &a.AccessKeyID, &a.SecretAccessKey, &a.SessionToken} {
		*f = strings.TrimSpace(*f)
	}
}

// validate reports the first required setting missing for the sink's type.
func (c SinkConfig) validate() error {
	if c.ID == "" {
		return errors.New("id is required")
	}

	var missing string
	switch c.Type {
	case TypeHTTP:
		switch {
		case c.HTTP == nil:
			missing = "http"
		case c.HTTP.URL == "":
			missing = "http.url"
		}
	case TypeSQS:
		switch {
		case c.SQS == nil:
			missing = "sqs"
		case c.SQS.QueueURL == "":
			missing = "sqs.uri"
		case c.SQS.Region == "":
			missing = "sqs.region"
		}
	case TypeSNS:
		switch {
		case c.SNS == nil:
			missing = "sns"
		case c.SNS.TopicARN == "":
			missing = "sns.topic_arn"
		case c.SNS.Region == "":
			missing = "sns.region"
		}
	case TypeGCPPubSub:
		switch {
		case c.PubSub == nil:
			missing = "gcp_pubsub"
		case c.PubSub.ProjectID == "":
			missing = "gcp_pubsub.project_id"
		case c.PubSub.Topic == "":
			missing = "gcp_pubsub.topic"
		}
	case "":
		missing = "type"
	default:
		return fmt.Errorf("publisher %q has unsupported type %q", c.ID, c.Type)
	}

	if missing != "" {
		return fmt.Errorf("%s is required for publisher %q", missing, c.ID)
	}
	return nil
}
