package notify

import (
	"fmt"
	"strings"

	"github.com/alanyoungcy/perpcost/internal/domain"
)

// EventBestVenueChange is emitted when the cheapest venue for an asset/size
// combination changes between comparison runs.
const EventBestVenueChange = "best_venue_change"

// EventAllVenuesFailed is emitted when a comparison run produces no costs.
const EventAllVenuesFailed = "all_venues_failed"

// FormatBestVenueChange renders the alert for a best-venue flip.
func FormatBestVenueChange(prev domain.VenueID, result domain.ComparisonResult) (title, message string) {
	best := result.Best()
	if best == nil {
		return "", ""
	}
	title = fmt.Sprintf("Best venue changed: %s $%.0f", result.Asset, result.OrderSizeUsd)

	var b strings.Builder
	fmt.Fprintf(&b, "%s -> %s ($%.2f, %.2f bps)\n", prev, best.Venue, best.TotalCostUsd, best.TotalCostBps())
	for i, c := range result.Costs {
		fmt.Fprintf(&b, "%d. %s $%.2f\n", i+1, c.Venue, c.TotalCostUsd)
	}
	return title, strings.TrimRight(b.String(), "\n")
}

// FormatAllFailed renders the alert for a run where every venue failed.
func FormatAllFailed(result domain.ComparisonResult) (title, message string) {
	title = fmt.Sprintf("All venues failed: %s $%.0f", result.Asset, result.OrderSizeUsd)

	var b strings.Builder
	for _, f := range result.Failures {
		fmt.Fprintf(&b, "%s: %s\n", f.Venue, f.Reason)
	}
	return title, strings.TrimRight(b.String(), "\n")
}
