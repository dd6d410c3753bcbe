// Package config loads the server configuration from the environment.
//
// Every setting has an environment variable (DEPT_API_BASE_URL, DEPT_TOKEN_URL,
// GOOGLE_AUTH_CLIENT_ID, ...). The cobra flags of the serve command are bound
// to the same keys through viper and take precedence over the environment.
package config
