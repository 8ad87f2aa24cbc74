package middleware

import (
	"context"
	"net/http"

	"github.com/openfleet/audittrail/internal/domain"
	"github.com/openfleet/audittrail/internal/tracking"
)

const trackingInfoKey contextKey = "tracking_info"

// Tracking collects the enrichment record once per request and stores it on
// the context for handlers to pass to the recorders.
func Tracking(asm *tracking.Assembler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := asm.Collect(r)
			ctx := context.WithValue(r.Context(), trackingInfoKey, &info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TrackingFrom returns the request's enrichment record, or nil when the
// tracking middleware did not run.
func TrackingFrom(ctx context.Context) *domain.TrackingInfo {
	info, _ := ctx.Value(trackingInfoKey).(*domain.TrackingInfo)
	return info
}
