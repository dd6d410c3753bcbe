package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Configuration keys. Each key is bound to the environment variable of the
// same name in upper case.
const (
	KeyAPIBaseURL         = "dept_api_base_url"
	KeyTokenURL           = "dept_token_url"
	KeyClientID           = "dept_client_id"
	KeyClientSecret       = "dept_client_secret"
	KeyEmployeeID         = "dept_employee_id"
	KeyCorporationID      = "dept_corporation_id"
	KeyDefaultActivityID  = "dept_default_activity_id"
	KeyDefaultProjectID   = "dept_default_project_id"
	KeyDefaultCompanyID   = "dept_default_company_id"
	KeyDefaultBudgetID    = "dept_default_budget_id"
	KeyGoogleClientID     = "google_auth_client_id"
	KeyGoogleClientSecret = "google_auth_client_secret"
	KeyCallbackHost       = "oauth_callback_host"
	KeyCallbackPort       = "oauth_callback_port"
	KeyRedirectHost       = "oauth_redirect_host"
	KeyMetricsEnabled     = "metrics_enabled"
	KeyMetricsAddr        = "metrics_addr"
)

const (
	DefaultAPIBaseURL   = "https://deptapps-api.deptagency.com/public/api/v1"
	DefaultCallbackHost = "0.0.0.0"
	DefaultCallbackPort = 3005
	DefaultRedirectHost = "127.0.0.1"
	DefaultMetricsAddr  = ":9090"

	// CallbackPath is where the identity provider redirects after consent.
	CallbackPath = "/oauth2callback"
)

var keys = []string{
	KeyAPIBaseURL, KeyTokenURL, KeyClientID, KeyClientSecret,
	KeyEmployeeID, KeyCorporationID, KeyDefaultActivityID, KeyDefaultProjectID,
	KeyDefaultCompanyID, KeyDefaultBudgetID, KeyGoogleClientID, KeyGoogleClientSecret,
	KeyCallbackHost, KeyCallbackPort, KeyRedirectHost, KeyMetricsEnabled, KeyMetricsAddr,
}

// Defaults holds the static booking identifiers used when neither the caller
// nor the budget resolver supplies a value. Zero means unset.
type Defaults struct {
	EmployeeID    int64
	CorporationID int64
	ActivityID    int64
	ProjectID     int64
	CompanyID     int64
	BudgetID      int64
}

// Config is the complete runtime configuration of the server.
type Config struct {
	APIBaseURL   string
	TokenURL     string
	ClientID     string
	ClientSecret string

	Defaults Defaults

	GoogleClientID     string
	GoogleClientSecret string

	CallbackHost string
	CallbackPort int
	RedirectHost string

	MetricsEnabled bool
	MetricsAddr    string
}

// New returns a viper instance with every configuration key bound to its
// environment variable and defaults applied. Flags can be layered on top
// with BindPFlag before calling Load.
func New() *viper.Viper {
	v := viper.New()
	for _, key := range keys {
		// BindEnv only fails when called without arguments.
		_ = v.BindEnv(key, strings.ToUpper(key))
	}
	v.SetDefault(KeyAPIBaseURL, DefaultAPIBaseURL)
	v.SetDefault(KeyCallbackHost, DefaultCallbackHost)
	v.SetDefault(KeyCallbackPort, DefaultCallbackPort)
	v.SetDefault(KeyRedirectHost, DefaultRedirectHost)
	v.SetDefault(KeyMetricsAddr, DefaultMetricsAddr)
	return v
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		APIBaseURL:         strings.TrimSpace(v.GetString(KeyAPIBaseURL)),
		TokenURL:           strings.TrimSpace(v.GetString(KeyTokenURL)),
		ClientID:           v.GetString(KeyClientID),
		ClientSecret:       v.GetString(KeyClientSecret),
		GoogleClientID:     v.GetString(KeyGoogleClientID),
		GoogleClientSecret: v.GetString(KeyGoogleClientSecret),
		CallbackHost:       v.GetString(KeyCallbackHost),
		RedirectHost:       v.GetString(KeyRedirectHost),
		MetricsEnabled:     v.GetBool(KeyMetricsEnabled),
		MetricsAddr:        v.GetString(KeyMetricsAddr),
	}

	port, err := strconv.Atoi(strings.TrimSpace(v.GetString(KeyCallbackPort)))
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", strings.ToUpper(KeyCallbackPort), err)
	}
	cfg.CallbackPort = port

	ids := []struct {
		key string
		dst *int64
	}{
		{KeyEmployeeID, &cfg.Defaults.EmployeeID},
		{KeyCorporationID, &cfg.Defaults.CorporationID},
		{KeyDefaultActivityID, &cfg.Defaults.ActivityID},
		{KeyDefaultProjectID, &cfg.Defaults.ProjectID},
		{KeyDefaultCompanyID, &cfg.Defaults.CompanyID},
		{KeyDefaultBudgetID, &cfg.Defaults.BudgetID},
	}
	for _, id := range ids {
		n, err := parseID(v.GetString(id.key))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", strings.ToUpper(id.key), err)
		}
		*id.dst = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// parseID accepts an empty string as "unset".
func parseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// Validate checks the configuration for errors that make the server unusable.
// Missing client credentials are reported later, at the first token exchange.
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("%s is required", strings.ToUpper(KeyAPIBaseURL))
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", strings.ToUpper(KeyAPIBaseURL), c.APIBaseURL)
	}
	if c.CallbackPort <= 0 || c.CallbackPort > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", strings.ToUpper(KeyCallbackPort), c.CallbackPort)
	}
	return nil
}

// RedirectURI is the URI registered with Google for the callback receiver.
func (c Config) RedirectURI() string {
	return fmt.Sprintf("http://%s:%d%s", c.RedirectHost, c.CallbackPort, CallbackPath)
}

// CallbackAddr is the listen address of the callback receiver.
func (c Config) CallbackAddr() string {
	return fmt.Sprintf("%s:%d", c.CallbackHost, c.CallbackPort)
}
