package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"

	"github.com/sandeepkv93/zen/internal/config"
	"github.com/sandeepkv93/zen/internal/session"
)

var ErrNotSignedIn = errors.New("auth: not signed in")

const signInTimeout = 5 * time.Minute

// Scopes requested from Google: identity plus calendar access for direct sync.
var Scopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
	calendar.CalendarScope,
}

// Provider is the Google identity provider. Its only persisted state is the
// oauth2 token file.
type Provider struct {
	cfg config.AuthConfig
	out io.Writer

	// OpenURL launches the consent page. When nil the URL is only printed.
	OpenURL func(string) error

	mu     sync.Mutex
	oauth  *oauth2.Config
	source oauth2.TokenSource
}

func NewProvider(cfg config.AuthConfig, out io.Writer) *Provider {
	if out == nil {
		out = io.Discard
	}
	return &Provider{cfg: cfg, out: out}
}

func (p *Provider) oauthConfig() (*oauth2.Config, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.oauth != nil {
		return p.oauth, nil
	}
	b, err := os.ReadFile(p.cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("auth: read client secrets %s: %w", p.cfg.CredentialsFile, err)
	}
	oc, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("auth: parse client secrets: %w", err)
	}
	oc.RedirectURL = normalizeRedirect(oc.RedirectURL, p.cfg.CallbackPort)
	p.oauth = oc
	return oc, nil
}

// Restore loads the persisted provider session. The returned event carries
// no token when nobody is signed in.
func (p *Provider) Restore(ctx context.Context) (session.Event, error) {
	tok, err := tokenFromFile(p.cfg.TokenFile)
	if errors.Is(err, os.ErrNotExist) {
		return session.Event{Kind: session.InitialSession}, nil
	}
	if err != nil {
		return session.Event{Kind: session.InitialSession}, err
	}
	oc, err := p.oauthConfig()
	if err != nil {
		return session.Event{Kind: session.InitialSession}, err
	}

	src := oauth2.ReuseTokenSource(tok, oc.TokenSource(ctx, tok))
	current, err := src.Token()
	if err != nil {
		return session.Event{Kind: session.InitialSession}, fmt.Errorf("auth: refresh token: %w", err)
	}
	if current.AccessToken != tok.AccessToken || current.RefreshToken != tok.RefreshToken {
		if err := saveToken(p.cfg.TokenFile, current); err != nil {
			log.Printf("auth: could not persist refreshed token: %v", err)
		}
	}
	p.setSource(src)
	return session.Event{Kind: session.InitialSession, ProviderToken: current.AccessToken}, nil
}

// SignIn runs the loopback authorization-code flow and persists the token.
func (p *Provider) SignIn(ctx context.Context) (session.Event, error) {
	oc, err := p.oauthConfig()
	if err != nil {
		return session.Event{}, err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:"+strconv.Itoa(p.cfg.CallbackPort))
	if err != nil {
		return session.Event{}, fmt.Errorf("auth: listen on port %d: %w", p.cfg.CallbackPort, err)
	}
	defer listener.Close()

	state := uuid.NewString()
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	server := &http.Server{
		Handler:      callbackHandler(state, codeCh, errCh),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errCh <- fmt.Errorf("auth: callback server: %w", err):
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	authURL := oc.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Fprintf(p.out, "Open this URL in your browser to sign in:\n%s\n", authURL)
	if p.OpenURL != nil {
		if err := p.OpenURL(authURL); err != nil {
			log.Printf("auth: could not open browser: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, signInTimeout)
	defer cancel()

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return session.Event{}, err
	case <-ctx.Done():
		return session.Event{}, fmt.Errorf("auth: authorization timed out: %w", ctx.Err())
	}

	tok, err := oc.Exchange(ctx, code)
	if err != nil {
		return session.Event{}, fmt.Errorf("auth: exchange authorization code: %w", err)
	}
	if err := saveToken(p.cfg.TokenFile, tok); err != nil {
		return session.Event{}, err
	}
	p.setSource(oauth2.ReuseTokenSource(tok, oc.TokenSource(context.Background(), tok)))
	return session.Event{Kind: session.SignedIn, ProviderToken: tok.AccessToken}, nil
}

// SignOut forgets the provider session.
func (p *Provider) SignOut() error {
	p.setSource(nil)
	if err := os.Remove(p.cfg.TokenFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("auth: remove token: %w", err)
	}
	return nil
}

// TokenSource returns the refreshed provider token source for Google APIs.
func (p *Provider) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	p.mu.Lock()
	src := p.source
	p.mu.Unlock()
	if src != nil {
		return src, nil
	}
	if _, err := p.Restore(ctx); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source == nil {
		return nil, ErrNotSignedIn
	}
	return p.source, nil
}

func (p *Provider) setSource(src oauth2.TokenSource) {
	p.mu.Lock()
	p.source = src
	p.mu.Unlock()
}

// normalizeRedirect pins localhost and out-of-band redirects to the loopback port.
func normalizeRedirect(redirect string, port int) string {
	fallback := fmt.Sprintf("http://localhost:%d/oauth2callback", port)
	if redirect == "" || redirect == "urn:ietf:wg:oauth:2.0:oob" {
		return fallback
	}
	u, err := url.Parse(redirect)
	if err != nil {
		log.Printf("auth: unparseable redirect %q, using %s", redirect, fallback)
		return fallback
	}
	host := u.Hostname()
	if host != "localhost" && host != "127.0.0.1" {
		log.Printf("auth: redirect %q is not a loopback address", redirect)
		return redirect
	}
	u.Host = net.JoinHostPort(host, strconv.Itoa(port))
	return u.String()
}

func callbackHandler(state string, codeCh chan<- string, errCh chan<- error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if msg := q.Get("error"); msg != "" {
			http.Error(w, "Sign-in was cancelled.", http.StatusBadRequest)
			trySend(errCh, fmt.Errorf("auth: provider returned %q", msg))
			return
		}
		if q.Get("state") != state {
			http.Error(w, "State mismatch.", http.StatusBadRequest)
			trySend(errCh, errors.New("auth: state mismatch in redirect"))
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "Authorization code not found.", http.StatusBadRequest)
			trySend(errCh, errors.New("auth: authorization code not found in redirect"))
			return
		}
		fmt.Fprint(w, "Signed in to Zen Schedule. You can close this window.")
		select {
		case codeCh <- code:
		default:
		}
	})
}

func trySend(ch chan<- error, err error) {
	select {
	case ch <- err:
	default:
	}
}
