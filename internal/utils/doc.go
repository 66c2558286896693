// Package utils exposes reusable helpers consumed by every scrum-tools command.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that integrate
// Viper, .env files, environment variables and zap logging for the CLI.
package utils
