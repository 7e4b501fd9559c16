package config

const (
	dokuClientIDVar          = "DOKU_CLIENT_ID"
	dokuSecretKeyVar         = "DOKU_SECRET_KEY"
	dokuEnvVar               = "DOKU_ENV"
	dokuNotifyPathVar        = "DOKU_NOTIFY_PATH"
	dokuAllowUnverifiedVar   = "DOKU_ALLOW_UNVERIFIED_CALLBACKS"
	dokuCallbackURLVar       = "DOKU_CALLBACK_URL"
	dokuSandboxBaseURL       = "https://api-sandbox.doku.com"
	dokuProductionBaseURL    = "https://api.doku.com"
	defaultDokuNotifyPath    = "/api/payments/notify"
	defaultPaymentDueMinutes = 60
)

type PaymentConfig interface {
	GetDokuClientID() string
	GetDokuSecretKey() string
	GetDokuBaseURL() string
	GetDokuNotifyPath() string
	GetDokuCallbackURL() string
	GetPaymentDueMinutes() int
	AllowUnverifiedCallbacks() bool
}

type Payment struct{}

var _ PaymentConfig = Payment{}

func (Payment) GetDokuClientID() string {
	return GetEnv(dokuClientIDVar, "")
}

func (Payment) GetDokuSecretKey() string {
	return GetEnv(dokuSecretKeyVar, "")
}

// GetDokuBaseURL selects the gateway host. Anything other than "production"
// talks to the sandbox.
func (Payment) GetDokuBaseURL() string {
	if GetEnv(dokuEnvVar, "sandbox") == "production" {
		return dokuProductionBaseURL
	}
	return dokuSandboxBaseURL
}

// GetDokuNotifyPath is the request target DOKU signs callbacks against.
func (Payment) GetDokuNotifyPath() string {
	return GetEnv(dokuNotifyPathVar, defaultDokuNotifyPath)
}

// GetDokuCallbackURL is where the guest browser lands after paying.
func (Payment) GetDokuCallbackURL() string {
	return GetEnv(dokuCallbackURLVar, "")
}

func (Payment) GetPaymentDueMinutes() int {
	return defaultPaymentDueMinutes
}

// AllowUnverifiedCallbacks is only ever true outside production, and only when
// explicitly requested.
func (Payment) AllowUnverifiedCallbacks() bool {
	if (EnvVars{}).IsProduction() {
		return false
	}
	return getBoolEnv(dokuAllowUnverifiedVar)
}
