// Package config loads the portfolio server configuration.
//
// Configuration comes from an optional YAML file (portfolio.yaml) followed
// by environment overrides. The email provider settings are usually supplied
// only through the environment:
//
//	RESEND_API_KEY      provider API key
//	CONTACT_FROM_EMAIL  sender address (default "Portfolio <onboarding@resend.dev>")
//	CONTACT_TO_EMAIL    recipient address, comma separated for several
//
// A missing API key or recipient is not a load error. The form endpoints
// report it per request instead; see Config.EmailConfigured.
package config
