package publisher

import (
	"context"
	"net/http"

	"github.com/dghubble/go-twitter/twitter"
	"github.com/dghubble/oauth1"
	"github.com/pkg/errors"

	"github.com/hugovk/NYChickens/pkg/credentials"
	"github.com/hugovk/NYChickens/pkg/report"
)

// TwitterV1 posts through the v1.1 statuses/update endpoint, which accepts
// coordinates.
type TwitterV1 struct {
	base *http.Client
}

// NewTwitterV1 returns an Authenticator for the v1.1 API. base supplies the
// transport under the OAuth1 signer; nil uses http.DefaultTransport.
func NewTwitterV1(base *http.Client) *TwitterV1 {
	return &TwitterV1{base: base}
}

func (a *TwitterV1) Authenticate(ctx context.Context, creds credentials.Credentials) (Session, error) {
	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
	if a.base != nil {
		ctx = context.WithValue(ctx, oauth1.HTTPClient, a.base)
	}
	return &twitterV1Session{client: twitter.NewClient(config.Client(ctx, token))}, nil
}

type twitterV1Session struct {
	client *twitter.Client
}

func (s *twitterV1Session) Post(_ context.Context, text string, coords report.Coordinates, displayCoordinates bool) (*Posted, error) {
	lat, long := coords.Lat, coords.Lng
	tweet, _, err := s.client.Statuses.Update(text, &twitter.StatusUpdateParams{
		Lat:                &lat,
		Long:               &long,
		DisplayCoordinates: twitter.Bool(displayCoordinates),
	})
	if err != nil {
		return nil, errors.Wrap(err, "statuses/update")
	}
	if tweet == nil || tweet.User == nil {
		return nil, errors.New("statuses/update returned no user")
	}
	return &Posted{Handle: tweet.User.ScreenName, ID: tweet.IDStr}, nil
}
