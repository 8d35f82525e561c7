package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/spf13/cobra"
)

var obsCmd = &cobra.Command{
	Use:   "obs",
	Short: "Observability commands (query VictoriaMetrics)",
}

var vmsingleURL string

type VMResponse struct {
	Status string `json:"status"`
	Data   struct {
		Result []struct {
			Metric map[string]string `json:"metric"`
			Value  []interface{}     `json:"value"`
		} `json:"result"`
	} `json:"data"`
}

func queryCmd(use, short string, queries map[string]string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Run: func(cmd *cobra.Command, args []string) {
			names := make([]string, 0, len(queries))
			for name := range queries {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("%s: %s\n", name, queryVM(vmsingleURL, queries[name]))
			}
		},
	}
}

var obsSummaryCmd = queryCmd("summary", "Show request and error rates", map[string]string{
	"HTTP Request Rate": `sum(rate(prodcat_http_requests_total[5m]))`,
	"HTTP 5xx Rate":     `sum(rate(prodcat_http_requests_total{code=~"5.."}[5m]))`,
	"Active Requests":   `prodcat_active_requests`,
})

var obsLatencyCmd = queryCmd("latency", "Show latency metrics", map[string]string{
	"HTTP P50": `histogram_quantile(0.5, sum(rate(prodcat_http_request_duration_seconds_bucket[5m])) by (le))`,
	"HTTP P95": `histogram_quantile(0.95, sum(rate(prodcat_http_request_duration_seconds_bucket[5m])) by (le))`,
	"HTTP P99": `histogram_quantile(0.99, sum(rate(prodcat_http_request_duration_seconds_bucket[5m])) by (le))`,
})

var obsAuditCmd = queryCmd("audit", "Show audit sink health", map[string]string{
	"DB Sink Errors":   `sum(increase(prodcat_audit_writes_total{sink="db",result="error"}[1h]))`,
	"File Sink Errors": `sum(increase(prodcat_audit_writes_total{sink="file",result="error"}[1h]))`,
	"Rejected Events":  `sum(increase(prodcat_audit_rejected_total[1h]))`,
})

var obsCacheCmd = queryCmd("cache", "Show content cache hit ratio", map[string]string{
	"Hit Ratio": `sum(rate(prodcat_content_cache_total{result="hit"}[5m])) / sum(rate(prodcat_content_cache_total{result=~"hit|miss"}[5m]))`,
	"Errors":    `sum(increase(prodcat_content_cache_total{result="error"}[1h]))`,
})

func queryVM(baseURL, query string) string {
	resp, err := http.Get(baseURL + "/api/v1/query?query=" + url.QueryEscape(query))
	if err != nil {
		return "error: " + err.Error()
	}
	defer resp.Body.Close()

	var vmResp VMResponse
	if err := json.NewDecoder(resp.Body).Decode(&vmResp); err != nil {
		return "parse error"
	}

	if len(vmResp.Data.Result) == 0 {
		return "no data"
	}

	result := vmResp.Data.Result[0]
	if len(result.Value) >= 2 {
		return fmt.Sprintf("%v", result.Value[1])
	}
	return "no value"
}

func init() {
	obsCmd.PersistentFlags().StringVar(&vmsingleURL, "vm-url", "http://localhost:8428", "VictoriaMetrics URL")
	obsCmd.AddCommand(obsSummaryCmd, obsLatencyCmd, obsAuditCmd, obsCacheCmd)
	rootCmd.AddCommand(obsCmd)
}
