// Package commands provides the command-line interface for the kryptos tool.
//
// It implements commands for:
//   - encryption
//   - decryption
//   - pattern checking
//   - the cipher self-test
//
// The package handles command-line parsing, configuration validation,
// and environment variable binding through cobra and viper.
package commands
