package utils

// MaskSecret keeps the first four characters of a license key or token so
// log lines and audit entries stay correlatable without exposing the value.
func MaskSecret(secret string) string {
	if len(secret) <= 4 {
		return "***"
	}
	return secret[:4] + "***"
}
