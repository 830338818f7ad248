// Package publisher posts a rendered report to Twitter.
package publisher

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/hugovk/NYChickens/pkg/credentials"
	"github.com/hugovk/NYChickens/pkg/report"
)

// Authenticator builds a session from OAuth credentials. Implementations must
// not contact the service; dry runs authenticate too.
type Authenticator interface {
	Authenticate(ctx context.Context, creds credentials.Credentials) (Session, error)
}

// Session submits posts on behalf of an authenticated account.
type Session interface {
	Post(ctx context.Context, text string, coords report.Coordinates, displayCoordinates bool) (*Posted, error)
}

// Browser opens a URL for the user.
type Browser interface {
	Open(url string, newTab bool) error
}

// Posted identifies a post created by the service.
type Posted struct {
	Handle string
	ID     string
}

type Result struct {
	Handle string
	ID     string
	URL    string
	DryRun bool
}

type Options struct {
	// DryRun goes through the motions without posting.
	DryRun bool
	// NoWeb stops the browser from being opened on the new post.
	NoWeb bool
	Out   io.Writer
}

type Publisher struct {
	auth    Authenticator
	browser Browser
	opts    Options
	logger  *log.Logger
}

func New(auth Authenticator, browser Browser, opts Options, logger *log.Logger) *Publisher {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Publisher{
		auth:    auth,
		browser: browser,
		opts:    opts,
		logger:  logger,
	}
}

// StatusURL is the canonical address of a post.
func StatusURL(handle, id string) string {
	return "https://twitter.com/" + handle + "/status/" + id
}

// Publish posts msg with its coordinates shown publicly. An empty message is
// a no-op and returns a nil Result.
func (p *Publisher) Publish(ctx context.Context, msg report.Message, creds credentials.Credentials) (*Result, error) {
	if len(msg.Text) == 0 {
		return nil, nil
	}

	session, err := p.auth.Authenticate(ctx, creds)
	if err != nil {
		return nil, errors.Wrap(err, "authenticating")
	}

	fmt.Fprintf(p.opts.Out, "Posting this:\n%s\n(%v, %v)\n", msg.Text, msg.Coordinates.Lat, msg.Coordinates.Lng)

	if p.opts.DryRun {
		fmt.Fprintln(p.opts.Out, "(Test mode, not actually posting)")
		p.logger.Debug("Dry run, skipping post", "length", len([]rune(msg.Text)))
		return &Result{DryRun: true}, nil
	}

	posted, err := session.Post(ctx, msg.Text, msg.Coordinates, true)
	if err != nil {
		return nil, errors.Wrap(err, "posting")
	}

	result := &Result{
		Handle: posted.Handle,
		ID:     posted.ID,
		URL:    StatusURL(posted.Handle, posted.ID),
	}
	fmt.Fprintf(p.opts.Out, "Posted:\n%s\n", result.URL)
	p.logger.Info("Posted", "url", result.URL)

	if !p.opts.NoWeb && p.browser != nil {
		if err := p.browser.Open(result.URL, true); err != nil {
			p.logger.Error("Failed to open browser", "error", err)
			p.logger.Error("Please open this URL manually", "url", result.URL)
		}
	}

	return result, nil
}
