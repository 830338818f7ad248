// Package credentials loads the Twitter OAuth keys from a YAML file.
//
// The file should contain:
//
//	consumer_key: ...
//	consumer_secret: ...
//	access_token: ...
//	access_token_secret: ...
package credentials

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	KeyAccessToken       = "access_token"
	KeyAccessTokenSecret = "access_token_secret"
	KeyConsumerKey       = "consumer_key"
	KeyConsumerSecret    = "consumer_secret"
)

// RequiredKeys lists the keys every credentials file must define.
var RequiredKeys = []string{
	KeyAccessToken,
	KeyAccessTokenSecret,
	KeyConsumerKey,
	KeyConsumerSecret,
}

// ErrMissingKeys is wrapped when one or more required keys are absent.
var ErrMissingKeys = errors.New("twitter credentials missing from YAML")

type Credentials struct {
	AccessToken       string
	AccessTokenSecret string
	ConsumerKey       string
	ConsumerSecret    string
}

// Load reads and validates the credentials file. It is called on every run;
// nothing is cached.
func Load(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading credentials file %s", path)
	}
	return Parse(path, data)
}

// Parse decodes YAML content. name is used in error messages only.
func Parse(name string, data []byte) (*Credentials, error) {
	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, errors.Wrapf(err, "parsing credentials file %s", name)
	}

	missing := lo.Filter(RequiredKeys, func(key string, _ int) bool {
		_, ok := values[key]
		return !ok
	})
	if len(missing) > 0 {
		return nil, errors.Wrapf(ErrMissingKeys, "%s (missing %s)", name, strings.Join(missing, ", "))
	}

	return &Credentials{
		AccessToken:       stringValue(values[KeyAccessToken]),
		AccessTokenSecret: stringValue(values[KeyAccessTokenSecret]),
		ConsumerKey:       stringValue(values[KeyConsumerKey]),
		ConsumerSecret:    stringValue(values[KeyConsumerSecret]),
	}, nil
}

// stringValue renders a scalar YAML value; null becomes "".
func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
