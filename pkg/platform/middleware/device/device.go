package device

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"trustlink/pkg/requestcontext"
)

const unknownDevice = "Unknown Device"

// Label turns a User-Agent string into a display name such as
// "Chrome on macOS" or "Safari on iPhone".
func Label(userAgentString string) string {
	if strings.TrimSpace(userAgentString) == "" {
		return unknownDevice
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}
	if ua.Bot() {
		return "Bot"
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}

// Device labels the caller's device from the User-Agent already placed in
// the context by metadata.ClientMetadata. Labels end up on audit events.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithDeviceLabel(r.Context(), Label(requestcontext.UserAgent(r.Context())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
