package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"

	"github.com/nao1215/screenwitness/internal/model"
)

// RequestsFileName is the request log written next to the report.
const RequestsFileName = "Requests.csv"

var requestsHeader = []string{"Protocol", "Port", "Domain", "Request Status", "Screenshot Path", "Source Path"}

// WriteRequestsCSV writes one row per captured page in input order.
// A target URL that cannot be parsed keeps its row with empty protocol,
// port and domain.
func WriteRequestsCSV(w io.Writer, pages []*model.CapturedPage) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(requestsHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range pages {
		if p == nil {
			continue
		}
		scheme, port, host := splitTarget(p.RemoteSystem)

		status := "Successful"
		if p.Failed() {
			status = string(p.ErrorState)
		}

		if err := cw.Write([]string{scheme, port, host, status, p.ScreenshotPath, p.SourcePath}); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", p.RemoteSystem, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// splitTarget returns scheme, port and host of a target URL. The port
// defaults to 80 for http and 443 for https.
func splitTarget(raw string) (scheme, port, host string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", ""
	}

	port = u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		case "https":
			port = "443"
		}
	}
	return u.Scheme, port, u.Hostname()
}
