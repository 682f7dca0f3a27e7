package helpers

import (
	"fmt"
	"net/url"
	"strings"
)

const DefaultConsoleHost = "console.aws.amazon.com"

// BuildConsoleUrl links to a calculation in the Athena notebook explorer.
func BuildConsoleUrl(host, region, sessionID, executionID string) (string, error) {
	if region == "" {
		return "", fmt.Errorf("region is required to build a console url")
	}
	if sessionID == "" {
		return "", fmt.Errorf("session id is required to build a console url")
	}
	scheme := "https"
	if strings.Contains(host, "localhost") {
		scheme = "http"
	}
	if host == DefaultConsoleHost {
		host = fmt.Sprintf("%s.%s", region, host)
	}
	query := url.Values{}
	query.Set("region", region)
	fragment := fmt.Sprintf("/notebook-explorer/sessions/%s", sessionID)
	if executionID != "" {
		fragment = fmt.Sprintf("%s/calculations/%s", fragment, executionID)
	}
	consoleUrl := &url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     "/athena/home",
		RawQuery: query.Encode(),
		Fragment: fragment,
	}
	return consoleUrl.String(), nil
}
