package publisher

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/dghubble/oauth1"
	twitter "github.com/g8rswimmer/go-twitter/v2"
	"github.com/pkg/errors"

	"github.com/hugovk/NYChickens/pkg/credentials"
	"github.com/hugovk/NYChickens/pkg/report"
)

const DefaultV2Host = "https://api.twitter.com"

// The OAuth1 transport signs every request, so the client-level authorizer
// has nothing to add.
type signedAuthorizer struct{}

func (signedAuthorizer) Add(*http.Request) {}

// TwitterV2 posts through the v2 tweets endpoint. That endpoint takes no
// coordinates, so they are dropped.
type TwitterV2 struct {
	host   string
	base   *http.Client
	logger *log.Logger
}

func NewTwitterV2(host string, base *http.Client, logger *log.Logger) *TwitterV2 {
	if host == "" {
		host = DefaultV2Host
	}
	return &TwitterV2{host: host, base: base, logger: logger}
}

func (a *TwitterV2) Authenticate(ctx context.Context, creds credentials.Credentials) (Session, error) {
	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
	if a.base != nil {
		ctx = context.WithValue(ctx, oauth1.HTTPClient, a.base)
	}
	return &twitterV2Session{
		client: &twitter.Client{
			Authorizer: signedAuthorizer{},
			Client:     config.Client(ctx, token),
			Host:       a.host,
		},
		logger: a.logger,
	}, nil
}

type twitterV2Session struct {
	client *twitter.Client
	logger *log.Logger
}

func (s *twitterV2Session) Post(ctx context.Context, text string, coords report.Coordinates, displayCoordinates bool) (*Posted, error) {
	if displayCoordinates {
		s.logger.Warn("v2 API cannot attach coordinates, posting text only", "lat", coords.Lat, "lng", coords.Lng)
	}

	// Resolve the handle first so a failed lookup never follows a published post.
	me, err := s.client.AuthUserLookup(ctx, twitter.UserLookupOpts{})
	if err != nil {
		return nil, errors.Wrap(err, "looking up authenticated user")
	}
	if me.Raw == nil || len(me.Raw.Users) == 0 || me.Raw.Users[0] == nil {
		return nil, errors.New("authenticated user lookup returned no user")
	}

	created, err := s.client.CreateTweet(ctx, twitter.CreateTweetRequest{Text: text})
	if err != nil {
		return nil, errors.Wrap(err, "create tweet")
	}
	if created.Tweet == nil {
		return nil, errors.New("create tweet returned no data")
	}

	return &Posted{Handle: me.Raw.Users[0].UserName, ID: created.Tweet.ID}, nil
}
