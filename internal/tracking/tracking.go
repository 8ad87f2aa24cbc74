// Package tracking assembles the per-request enrichment record from the
// fingerprint, client IP and geolocation components.
package tracking

import (
	"net/http"

	"github.com/openfleet/audittrail/internal/clientip"
	"github.com/openfleet/audittrail/internal/domain"
	"github.com/openfleet/audittrail/internal/fingerprint"
	"github.com/openfleet/audittrail/internal/geo"
)

// Assembler builds one TrackingInfo per inbound request. The geolocation
// resolver is optional; without it, Location stays absent.
type Assembler struct {
	geo *geo.Resolver
}

func NewAssembler(geo *geo.Resolver) *Assembler {
	return &Assembler{geo: geo}
}

// Collect resolves the client IP, classifies the device and, when a
// resolver is configured, attaches location data. A failed location step
// leaves Location nil and never affects the IP or device fields.
func (a *Assembler) Collect(r *http.Request) domain.TrackingInfo {
	info := domain.TrackingInfo{
		IPAddress: clientip.FromRequest(r),
		Device:    fingerprint.Parse(r.UserAgent()),
	}
	if a.geo != nil {
		info.Location = a.geo.Resolve(r.Context(), info.IPAddress)
	}
	return info
}
