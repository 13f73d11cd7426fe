package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/frahmantamala/asset-inventory/internal"
	"golang.org/x/time/rate"
)

// maxTrackedClients caps the per-IP table; past it the least recently seen
// client is evicted.
const maxTrackedClients = 10000

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter limits requests per client IP using a token bucket per IP.
// Forwarded headers are only honoured when the peer is a trusted proxy.
type IPRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	trusted   []*net.IPNet
	now       func() time.Time
}

func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		idleTTL:  refillTime(limit, burst),
		now:      time.Now,
	}
}

// LoginRateLimiter allows perMinute attempts per client IP with the given burst.
// A zero perMinute disables limiting.
func LoginRateLimiter(perMinute, burst int) *IPRateLimiter {
	if perMinute <= 0 {
		return NewIPRateLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = 1
	}
	return NewIPRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
}

// refillTime is how long an untouched bucket takes to fill up again. A client
// idle for longer is indistinguishable from a new one, so its entry can go.
func refillTime(limit rate.Limit, burst int) time.Duration {
	ttl := time.Minute
	if limit > 0 && limit != rate.Inf {
		if d := time.Duration(float64(burst) / float64(limit) * float64(time.Second)); d > ttl {
			ttl = d
		}
	}
	return ttl
}

// WithTrustedProxies accepts IPs or CIDRs of reverse proxies whose
// X-Forwarded-For and X-Real-IP headers may name the client.
func (l *IPRateLimiter) WithTrustedProxies(proxies []string) (*IPRateLimiter, error) {
	nets, err := ParseTrustedProxies(proxies)
	if err != nil {
		return nil, err
	}
	l.trusted = nets
	return l, nil
}

// ParseTrustedProxies turns IPs and CIDRs into networks. A bare IP becomes a
// single-address network.
func ParseTrustedProxies(proxies []string) ([]*net.IPNet, error) {
	var nets []*net.IPNet
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			ip := net.ParseIP(p)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", p)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(p)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", p, err)
		}
		nets = append(nets, n)
	}
	return nets, nil
}

func (l *IPRateLimiter) isTrusted(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, n := range l.trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func (l *IPRateLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}

	v, ok := l.visitors[ip]
	if !ok {
		if len(l.visitors) >= maxTrackedClients {
			l.evictOldest()
		}
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *IPRateLimiter) sweep(now time.Time) {
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) >= l.idleTTL {
			delete(l.visitors, ip)
		}
	}
	l.lastSweep = now
}

func (l *IPRateLimiter) evictOldest() {
	var (
		oldestIP string
		oldest   time.Time
	)
	for ip, v := range l.visitors {
		if oldestIP == "" || v.lastSeen.Before(oldest) {
			oldestIP, oldest = ip, v.lastSeen
		}
	}
	delete(l.visitors, oldestIP)
}

// clientIP keys on the TCP peer. When the peer is a trusted proxy the
// forwarded chain is walked right to left and the first untrusted hop wins.
func (l *IPRateLimiter) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !l.isTrusted(net.ParseIP(host)) {
		return host
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			ip := net.ParseIP(hop)
			if ip == nil {
				break
			}
			if !l.isTrusted(ip) {
				return ip.String()
			}
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}
	return host
}

// Middleware answers 429 once the client IP exceeds its rate.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	if l.limit == rate.Inf {
		return next
	}
	tooMany := &internal.AppError{
		Type:       "RATE_LIMITED",
		Code:       "TOO_MANY_REQUESTS",
		Message:    "too many requests",
		StatusCode: http.StatusTooManyRequests,
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(l.clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeAppError(w, tooMany)
			return
		}
		next.ServeHTTP(w, r)
	})
}
