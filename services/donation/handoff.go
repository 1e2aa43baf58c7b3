package donation

import (
	"regexp"

	"campusconnect/models"
)

var mobileUserAgent = regexp.MustCompile(`(?i)android|webos|iphone|ipad|ipod|blackberry|iemobile|opera mini|mobile`)

// DetectHandoff picks how the client passes the link on: phones open the UPI
// app directly, desktops copy the link for use on a phone.
func DetectHandoff(userAgent string) models.HandoffMode {
	if mobileUserAgent.MatchString(userAgent) {
		return models.HandoffNavigate
	}
	return models.HandoffClipboard
}
