package urlx

import (
	"fmt"
	"net/url"
)

// BuildActivationURL assembles the absolute link a user follows to confirm an
// address, e.g. https://example.com/v1/confirmations/<key>/confirm.
func BuildActivationURL(protocol, host, key string) (string, error) {
	if protocol == "" {
		protocol = "http"
	}
	if host == "" {
		return "", fmt.Errorf("activation host is empty")
	}

	u := url.URL{
		Scheme: protocol,
		Host:   host,
		Path:   fmt.Sprintf("/v1/confirmations/%s/confirm", key),
	}

	return u.String(), nil
}
