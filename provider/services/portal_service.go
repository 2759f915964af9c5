package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/EsriDevEvents/publish-webtool/pkg/httpclient"
	"github.com/EsriDevEvents/publish-webtool/pkg/models"
	"github.com/EsriDevEvents/publish-webtool/pkg/utils"
	"github.com/EsriDevEvents/publish-webtool/provider"
)

// tokenExpirationMinutes is requested from the portal; long enough to cover
// a slow tool run plus the publish round-trip.
const tokenExpirationMinutes = 60

type PortalService struct {
	Client *http.Client
}

func NewPortalService() *PortalService {
	return &PortalService{Client: httpclient.New()}
}

// SignIn authenticates against the portal, either with a named user through
// generateToken or with an OAuth2 application pair through the portal's
// client-credentials token endpoint.
func (p *PortalService) SignIn(ctx context.Context, portalURL string, creds models.Credentials) (provider.Session, error) {
	if creds.OAuth() {
		return p.signInOAuth(ctx, portalURL, creds)
	}

	utils.Log.Debug("Signing into portal ", portalURL, " as ", creds.Username)

	form := url.Values{
		"username":   {creds.Username},
		"password":   {creds.Password},
		"client":     {"referer"},
		"referer":    {portalURL},
		"expiration": {fmt.Sprint(tokenExpirationMinutes)},
	}

	body, err := call(ctx, p.Client, baseURL(portalURL)+"/sharing/rest/generateToken", form)
	if err != nil {
		return provider.Session{}, err
	}

	token := gjson.GetBytes(body, "token").String()
	if token == "" {
		return provider.Session{}, errors.New("portal did not return a token")
	}

	return provider.Session{
		PortalURL: portalURL,
		Username:  creds.Username,
		Token:     token,
		Expires:   time.UnixMilli(gjson.GetBytes(body, "expires").Int()),
	}, nil
}

func (p *PortalService) signInOAuth(ctx context.Context, portalURL string, creds models.Credentials) (provider.Session, error) {
	utils.Log.Debug("Signing into portal ", portalURL, " with OAuth2 client ", creds.ClientID)

	conf := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     baseURL(portalURL) + "/sharing/rest/oauth2/token",
	}

	token, err := conf.Token(context.WithValue(ctx, oauth2.HTTPClient, p.Client))
	if err != nil {
		return provider.Session{}, err
	}

	return provider.Session{
		PortalURL: portalURL,
		Username:  creds.ClientID,
		Token:     token.AccessToken,
		Expires:   token.Expiry,
	}, nil
}
