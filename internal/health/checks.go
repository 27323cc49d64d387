package health

import (
	"fmt"
	"time"

	"github.com/siagacs/siaga-admin/internal/api"
	"github.com/siagacs/siaga-admin/internal/session"
)

const hintLogin = "Run 'siaga-admin auth login'"

// TokenResult classifies the stored token without contacting the backend.
func TokenResult(token string, stored bool, now time.Time) *Result {
	if !stored {
		return Degraded("no session token stored").WithHint(hintLogin)
	}
	info, ok := session.InspectToken(token)
	if !ok || info.ExpiresAt == nil {
		return Healthy("token " + session.Fingerprint(token) + " stored")
	}
	if info.Expired(now) {
		return Degraded(fmt.Sprintf("token expired %s ago", now.Sub(*info.ExpiresAt).Round(time.Minute))).
			WithHint(hintLogin)
	}
	return Healthy(fmt.Sprintf("token valid for %s", info.ExpiresAt.Sub(now).Round(time.Minute)))
}

// BackendResult classifies the outcome of a profile request. A 401 or 403
// still proves the backend is reachable.
func BackendResult(baseURL string, user *session.User, err error) *Result {
	switch {
	case err == nil && user != nil:
		return Healthy(fmt.Sprintf("%s answered, signed in as %s", baseURL, user.Email))
	case err == nil:
		return Degraded(baseURL + " answered without a profile")
	case api.IsAuthFailure(err):
		return Degraded(baseURL + " reachable, session not accepted").WithHint(hintLogin)
	case api.IsTransport(err):
		return Unhealthy(fmt.Sprintf("cannot reach %s: %v", baseURL, err)).
			WithHint("Check that the backend is running and api.base_url is correct")
	default:
		return Degraded(fmt.Sprintf("%s answered with an error: %v", baseURL, err))
	}
}
