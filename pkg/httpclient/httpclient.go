package httpclient

import (
	"net/http"
	"net/url"
	"time"

	"github.com/EsriDevEvents/publish-webtool/pkg/utils"
)

// DefaultTimeout bounds every vendor round-trip. The wait for a running job
// is a sequence of short polls, so no single request is allowed to hang
// longer than this.
const DefaultTimeout = 30 * time.Second

var proxyURL *url.URL

// SetProxy routes all vendor calls through an HTTP proxy. Useful for
// debugging with an intercepting proxy.
func SetProxy(proxy string) {
	if proxy == "" {
		proxyURL = nil
		return
	}

	parsed, err := url.Parse(proxy)
	if err != nil {
		utils.Log.Fatal("Invalid proxy url: ", proxy)
	}
	proxyURL = parsed
}

func New() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL != nil {
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}
}
