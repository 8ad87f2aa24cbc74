// Package geo enriches client IPs with location data from an external
// lookup service. Enrichment is fail-open: any lookup failure yields a nil
// descriptor and is never surfaced to the caller.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openfleet/audittrail/internal/domain"
)

// Resolver looks up geolocation data for public IPs. Loopback and
// private-range IPs short-circuit to the Local sentinel without a network
// call. A redis client may be supplied to cache successful lookups; cache
// failures are ignored.
type Resolver struct {
	endpoint string
	client   *http.Client
	cache    *redis.Client
	cacheTTL time.Duration
	log      *slog.Logger
}

// lookupResponse is the ipapi.co JSON shape.
type lookupResponse struct {
	City      string   `json:"city"`
	Region    string   `json:"region"`
	Country   string   `json:"country_name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timezone  string   `json:"timezone"`
	Failed    bool     `json:"error"`
}

func NewResolver(endpoint string, timeout time.Duration, cache *redis.Client, cacheTTL time.Duration, log *slog.Logger) *Resolver {
	return &Resolver{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Resolve returns the location of ip, the Local sentinel for local-network
// addresses, or nil when the lookup fails for any reason.
func (r *Resolver) Resolve(ctx context.Context, ip string) *domain.LocationDescriptor {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil
	}
	if isLocalAddr(parsed) {
		return domain.LocalLocation()
	}

	if loc := r.fromCache(ctx, ip); loc != nil {
		return loc
	}

	loc := r.lookup(ctx, ip)
	if loc != nil {
		r.toCache(ctx, ip, loc)
	}
	return loc
}

func (r *Resolver) lookup(ctx context.Context, ip string) *domain.LocationDescriptor {
	url := fmt.Sprintf("%s/%s/json/", r.endpoint, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Debug("geolocation lookup failed", "ip", ip, "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.Debug("geolocation lookup failed", "ip", ip, "status", resp.StatusCode)
		return nil
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		r.log.Debug("geolocation response malformed", "ip", ip, "err", err)
		return nil
	}
	if body.Failed {
		return nil
	}

	return &domain.LocationDescriptor{
		Country:   body.Country,
		City:      body.City,
		Region:    body.Region,
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
		Timezone:  body.Timezone,
	}
}

func (r *Resolver) fromCache(ctx context.Context, ip string) *domain.LocationDescriptor {
	if r.cache == nil {
		return nil
	}
	data, err := r.cache.Get(ctx, cacheKey(ip)).Bytes()
	if err != nil {
		return nil
	}
	var loc domain.LocationDescriptor
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil
	}
	return &loc
}

func (r *Resolver) toCache(ctx context.Context, ip string, loc *domain.LocationDescriptor) {
	if r.cache == nil {
		return
	}
	data, err := json.Marshal(loc)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(ip), data, r.cacheTTL).Err(); err != nil {
		r.log.Debug("geolocation cache write failed", "ip", ip, "err", err)
	}
}

func cacheKey(ip string) string {
	return "geo:" + ip
}

func isLocalAddr(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
