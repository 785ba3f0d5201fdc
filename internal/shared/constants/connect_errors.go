package constants

// ConnectErrorCode is the value of the `error` query parameter sent back to
// the WordPress plugin when a Messenger connect attempt fails.
type ConnectErrorCode string

const (
	ConnectErrorMissingParams        ConnectErrorCode = "missing_params"
	ConnectErrorInvalidLicense       ConnectErrorCode = "invalid_license"
	ConnectErrorPlanNotSupported     ConnectErrorCode = "plan_not_supported"
	ConnectErrorAccountInactive      ConnectErrorCode = "account_inactive"
	ConnectErrorConfig               ConnectErrorCode = "config_error"
	ConnectErrorOAuthDenied          ConnectErrorCode = "oauth_denied"
	ConnectErrorTokenExchangeFailed  ConnectErrorCode = "token_exchange_failed"
	ConnectErrorNoAccessToken        ConnectErrorCode = "no_access_token"
	ConnectErrorPagesFetchFailed     ConnectErrorCode = "pages_fetch_failed"
	ConnectErrorNoPages              ConnectErrorCode = "no_pages"
	ConnectErrorWebsiteNotFound      ConnectErrorCode = "website_not_found"
	ConnectErrorPageAlreadyConnected ConnectErrorCode = "page_already_connected"
	ConnectErrorServer               ConnectErrorCode = "server_error"
)

// connectErrorMessages are shown verbatim by the plugin.
var connectErrorMessages = map[ConnectErrorCode]string{
	ConnectErrorMissingParams:        "Domain and license key are required",
	ConnectErrorInvalidLicense:       "Invalid license key or domain mismatch",
	ConnectErrorPlanNotSupported:     "Messenger is only available for paid plans (BASIC, PRO, ENTERPRISE)",
	ConnectErrorAccountInactive:      "Account is inactive",
	ConnectErrorConfig:               "Facebook app not configured",
	ConnectErrorOAuthDenied:          "Facebook authorization was denied",
	ConnectErrorTokenExchangeFailed:  "Failed to exchange authorization code for access token",
	ConnectErrorNoAccessToken:        "No access token received from Facebook",
	ConnectErrorPagesFetchFailed:     "Failed to fetch Facebook pages",
	ConnectErrorNoPages:              "No Facebook pages found. Please create a page first.",
	ConnectErrorWebsiteNotFound:      "Website not found",
	ConnectErrorPageAlreadyConnected: "This Facebook page is already connected to another website",
	ConnectErrorServer:               "An error occurred during authentication",
}

// Message returns the default user-facing message for the code.
func (c ConnectErrorCode) Message() string {
	if msg, ok := connectErrorMessages[c]; ok {
		return msg
	}
	return connectErrorMessages[ConnectErrorServer]
}

// JSON error bodies returned when no redirect target is known.
const (
	ConnectMsgMissingCodeOrState = "Missing code or state parameter"
	ConnectMsgInvalidState       = "Invalid state parameter"
	ConnectMsgNoRedirectTarget   = "Missing redirect_uri and domain parameters"
)
