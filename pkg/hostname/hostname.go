// Package hostname turns the host names found in RRD paths into display
// names for graph titles. Hosts recorded by IP address are looked up with
// a PTR query against a configured DNS server.
package hostname

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
)

const (
	// DefaultTimeout is the default PTR query timeout.
	DefaultTimeout = 2 * time.Second

	// DefaultFailureTTL is how long a failed lookup is remembered before
	// the address is queried again.
	DefaultFailureTTL = time.Minute

	// maxCached bounds each cache; a full cache is emptied.
	maxCached = 4096
)

// Resolver maps hosts to display names. The zero server disables lookups.
type Resolver struct {
	server     string // host:port of the DNS server
	timeout    time.Duration
	failureTTL time.Duration
	client     *dns.Client
	now        func() time.Time

	mu     sync.RWMutex
	names  map[string]string
	failed map[string]time.Time // address -> retry after
}

// Option is a functional option for configuring a Resolver.
type Option func(*Resolver) error

// WithServer sets the DNS server queried for PTR records. A server
// without a port is queried on port 53.
func WithServer(server string) Option {
	return func(r *Resolver) error {
		if server == "" {
			return fmt.Errorf("server must not be empty")
		}
		if _, _, err := net.SplitHostPort(server); err != nil {
			server = net.JoinHostPort(server, "53")
		}
		r.server = server
		return nil
	}
}

// WithTimeout sets the PTR query timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		r.timeout = d
		return nil
	}
}

// WithFailureTTL sets how long a failed lookup is remembered.
func WithFailureTTL(d time.Duration) Option {
	return func(r *Resolver) error {
		if d <= 0 {
			return fmt.Errorf("failure ttl must be positive, got %v", d)
		}
		r.failureTTL = d
		return nil
	}
}

// New creates a Resolver. Without WithServer every host is displayed
// verbatim.
func New(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		timeout:    DefaultTimeout,
		failureTTL: DefaultFailureTTL,
		now:        time.Now,
		names:      make(map[string]string),
		failed:     make(map[string]time.Time),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("hostname: %w", err)
		}
	}
	r.client = &dns.Client{Timeout: r.timeout}
	return r, nil
}

// DisplayName returns the name to show for host. Names that are not IP
// addresses are returned unchanged, as is any address whose lookup fails.
// Successful lookups are cached for the life of the Resolver, failed ones
// for the failure TTL.
func (r *Resolver) DisplayName(ctx context.Context, host string) string {
	if r == nil || r.server == "" || net.ParseIP(host) == nil {
		return host
	}

	r.mu.RLock()
	name, ok := r.names[host]
	retry, failed := r.failed[host]
	r.mu.RUnlock()
	if ok {
		return name
	}
	if failed && r.now().Before(retry) {
		return host
	}

	name, err := r.lookup(ctx, host)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		if len(r.failed) >= maxCached {
			r.failed = make(map[string]time.Time)
		}
		r.failed[host] = r.now().Add(r.failureTTL)
		return host
	}

	delete(r.failed, host)
	if len(r.names) >= maxCached {
		r.names = make(map[string]string)
	}
	r.names[host] = name
	return name
}

// lookup sends a PTR query for ip and returns the first name in the answer
// without its trailing dot.
func (r *Resolver) lookup(ctx context.Context, ip string) (string, error) {
	arpa, err := dns.ReverseAddr(ip)
	if err != nil {
		return "", fmt.Errorf("reverse address for %s: %w", ip, err)
	}

	msg := new(dns.Msg)
	msg.SetQuestion(arpa, dns.TypePTR)
	msg.RecursionDesired = true

	resp, _, err := r.client.ExchangeContext(ctx, msg, r.server)
	if err != nil {
		return "", fmt.Errorf("dns PTR %s: %w", ip, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("dns PTR %s: rcode %s", ip, dns.RcodeToString[resp.Rcode])
	}

	for _, rr := range resp.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			return strings.TrimSuffix(ptr.Ptr, "."), nil
		}
	}
	return "", fmt.Errorf("dns PTR %s: no PTR record in answer", ip)
}
