// Package translate implements machine translation of PO file entries
// via a closed set of HTTP translation services (Google, MyMemory,
// Microsoft, Yandex, ChatGPT, DeepL), with locale negotiation when a
// service rejects the requested language pair, and a cancellable
// background job that walks a catalog and fills in missing translations.
package translate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ---------------------------------------------------------------------------
// Service abstraction
// ---------------------------------------------------------------------------

// Capabilities declares which configuration fields a service consumes.
// The translate screen reads these to decide which inputs to show.
type Capabilities struct {
	NeedsAPIKey     bool
	SupportsModel   bool
	SupportsRegion  bool
	SupportsProxies bool
}

// Config is the per-job service configuration, assembled fresh for each
// translation run from persisted defaults plus the form input. A service
// reads only the fields its capabilities declare; the rest are ignored
// without validation.
type Config struct {
	Source  string            // source locale, e.g. "en" or "en_US"
	Target  string            // target locale
	APIKey  string            // services with NeedsAPIKey
	KeyTier string            // key tier, e.g. "free" or "pro" (DeepL)
	Proxies map[string]string // scheme -> proxy URL, services with SupportsProxies
	Model   string            // model name, services with SupportsModel
	Region  string            // region identifier, services with SupportsRegion
}

// Backend is one translation service bound to a language pair. Translate
// may be called many times per job, once per text segment.
type Backend interface {
	Name() string
	Translate(ctx context.Context, text string) (string, error)
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

// ServiceInfo describes one registered service: its display name, its
// capability flags, and its factory.
type ServiceInfo struct {
	Name string
	Caps Capabilities
	New  func(Config) (Backend, error)
}

// services is the closed registry, in menu display order.
var services = []ServiceInfo{
	{
		Name: "Google",
		Caps: Capabilities{SupportsProxies: true},
		New:  newGoogle,
	},
	{
		Name: "MyMemory",
		Caps: Capabilities{SupportsProxies: true},
		New:  newMyMemory,
	},
	{
		Name: "Microsoft",
		Caps: Capabilities{NeedsAPIKey: true, SupportsRegion: true, SupportsProxies: true},
		New:  newMicrosoft,
	},
	{
		Name: "Yandex",
		Caps: Capabilities{NeedsAPIKey: true, SupportsProxies: true},
		New:  newYandex,
	},
	{
		Name: "ChatGPT",
		Caps: Capabilities{NeedsAPIKey: true, SupportsModel: true},
		New:  newChatGPT,
	},
	{
		Name: "DeepL",
		Caps: Capabilities{NeedsAPIKey: true},
		New:  newDeepL,
	},
}

// Services returns the registered services in display order.
func Services() []ServiceInfo {
	out := make([]ServiceInfo, len(services))
	copy(out, services)
	return out
}

// Lookup finds a service by display name.
func Lookup(name string) (ServiceInfo, bool) {
	for _, s := range services {
		if s.Name == name {
			return s, true
		}
	}
	return ServiceInfo{}, false
}

// New constructs a backend by display name without negotiation. Most
// callers want NewNegotiated instead.
func New(name string, cfg Config) (Backend, error) {
	s, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown translation service %q", name)
	}
	return s.New(cfg)
}

// NewNegotiated constructs a backend by display name. When construction
// fails because the service does not support the requested locales, the
// locales are renegotiated against the service's supported list and
// construction is retried exactly once; if that also fails, the original
// error is returned.
func NewNegotiated(name string, cfg Config) (Backend, error) {
	s, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown translation service %q", name)
	}

	b, err := s.New(cfg)
	if err != nil {
		negotiated, ok := negotiateConfig(cfg, err)
		if !ok {
			return nil, err
		}
		retry, retryErr := s.New(negotiated)
		if retryErr != nil {
			return nil, err
		}
		b, cfg = retry, negotiated
	}
	return &negotiatedBackend{factory: s.New, cfg: cfg, inner: b}, nil
}

// ---------------------------------------------------------------------------
// Shared HTTP plumbing
// ---------------------------------------------------------------------------

// makeHTTPClient builds a client honoring the configured proxy map, or
// the HTTP_PROXY/HTTPS_PROXY environment when none is set. Provider
// calls carry no client-side timeout; a hung call blocks its job until
// cancelled via context.
func makeHTTPClient(proxies map[string]string) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if len(proxies) > 0 {
		transport.Proxy = func(req *http.Request) (*url.URL, error) {
			raw, ok := proxies[req.URL.Scheme]
			if !ok || raw == "" {
				return nil, nil
			}
			return url.Parse(raw)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{Transport: transport}
}
